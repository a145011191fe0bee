// Package cleanup removes the small_files and large_files bucket directories.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jamesainslie/vidsort/pkg/vidsort/logging"
	"github.com/jamesainslie/vidsort/pkg/vidsort/types"
)

var log = logging.Get("cleanup")

// Options configures Remove.
type Options struct {
	// Trash hands the directories to the system trash instead of deleting
	// them. If the trash is unavailable they are deleted.
	Trash bool

	// TrashFunc overrides SystemTrash.
	TrashFunc TrashFunc
}

// Remove deletes large_files and small_files under baseDir, with all their
// contents. A missing directory is not an error, so repeated calls are
// no-ops. There is no confirmation step.
func Remove(baseDir string, opts Options) (*types.CleanupResult, error) {
	return RemoveContext(context.Background(), baseDir, opts)
}

// RemoveContext is Remove with a context bounding the trash commands.
func RemoveContext(ctx context.Context, baseDir string, opts Options) (*types.CleanupResult, error) {
	if baseDir == "" {
		baseDir = "."
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving bucket base: %w", err)
	}

	trash := opts.TrashFunc
	if trash == nil {
		trash = SystemTrash
	}

	result := &types.CleanupResult{Removed: []string{}}
	for _, bucket := range types.Buckets {
		dir := bucket.Dir(base)

		if _, err := os.Lstat(dir); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				result.Absent = append(result.Absent, dir)
				continue
			}
			return result, fmt.Errorf("stat %s: %w", dir, err)
		}

		if opts.Trash {
			trashed, err := trash(ctx, dir)
			if err != nil {
				return result, fmt.Errorf("trashing %s: %w", dir, err)
			}
			if trashed {
				log.Info("moved bucket to trash", "dir", dir)
				result.Trashed = append(result.Trashed, dir)
				continue
			}
			log.Warn("trash unavailable, deleting", "dir", dir)
		}

		if err := os.RemoveAll(dir); err != nil {
			return result, fmt.Errorf("removing %s: %w", dir, err)
		}
		log.Info("removed bucket", "dir", dir)
		result.Removed = append(result.Removed, dir)
	}

	return result, nil
}
