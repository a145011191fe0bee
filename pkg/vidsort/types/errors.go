package types

import (
	"errors"
	"fmt"
)

var (
	// ErrRootNotFound indicates the scan root or report directory does not exist.
	ErrRootNotFound = errors.New("path does not exist")

	// ErrNotDirectory indicates the scan root or report directory is not a directory.
	ErrNotDirectory = errors.New("path is not a directory")

	// ErrVanished indicates a file disappeared between scan and move.
	// It is never returned from a pass; vanished files are recorded and skipped.
	ErrVanished = errors.New("file vanished before move")
)

// ScanError reports a directory that could not be read below the scan root.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// MoveError reports a filesystem failure that aborted a move pass.
type MoveError struct {
	// Path is the source file.
	Path string
	// Dest is the intended destination, if known.
	Dest string
	// Op is the failing step: "stat", "mkdir", "rename", "copy" or "remove".
	Op  string
	Err error
}

func (e *MoveError) Error() string {
	if e.Dest != "" {
		return fmt.Sprintf("%s %s -> %s: %v", e.Op, e.Path, e.Dest, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }
