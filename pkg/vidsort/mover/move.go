package mover

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jamesainslie/vidsort/pkg/vidsort/types"
)

// moveFile relocates src to dest, replacing any existing dest. A rename
// across filesystems falls back to copy, fsync and remove.
func moveFile(src, dest string, info fs.FileInfo) error {
	err := os.Rename(src, dest)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return &types.MoveError{Path: src, Dest: dest, Op: "rename", Err: unwrapLink(err)}
	}

	if err := copyFile(src, dest, info); err != nil {
		return &types.MoveError{Path: src, Dest: dest, Op: "copy", Err: err}
	}
	if err := os.Remove(src); err != nil {
		return &types.MoveError{Path: src, Dest: dest, Op: "remove", Err: err}
	}
	return nil
}

// copyFile writes src to a temporary sibling of dest and renames it into
// place, so dest is never observed half written.
func copyFile(src, dest string, info fs.FileInfo) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return err
	}
	if err = os.Chtimes(tmp.Name(), info.ModTime(), info.ModTime()); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

func unwrapLink(err error) error {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return linkErr.Err
	}
	return err
}
