package cleanup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"
)

// commandTimeout bounds each external trash command.
const commandTimeout = 30 * time.Second

// TrashFunc moves path to a trash can. It reports false when no trash
// mechanism accepted the path and the caller should delete it instead.
type TrashFunc func(ctx context.Context, path string) (bool, error)

// SystemTrash uses Finder on macOS, and gio or trash-put on Linux.
// Other platforms have no trash support.
func SystemTrash(ctx context.Context, path string) (bool, error) {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`tell application "Finder" to delete POSIX file %q`, path)
		return runTrash(ctx, path, "osascript", "-e", script), nil
	case "linux":
		if runTrash(ctx, path, "gio", "trash", path) {
			return true, nil
		}
		return runTrash(ctx, path, "trash-put", path), nil
	default:
		return false, nil
	}
}

// runTrash runs one trash command and reports whether path is gone afterwards.
func runTrash(ctx context.Context, path, name string, args ...string) bool {
	bin, err := exec.LookPath(name)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	if err := exec.CommandContext(ctx, bin, args...).Run(); err != nil {
		log.Debug("trash command failed", "command", name, "error", err)
		return false
	}

	_, err = os.Lstat(path)
	return os.IsNotExist(err)
}
