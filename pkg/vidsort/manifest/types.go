// Package manifest keeps a JSON history of move passes and cleanups.
// It is a record only; nothing in it is used to undo an operation.
package manifest

import (
	"time"

	"github.com/jamesainslie/vidsort/pkg/vidsort/types"
)

// OperationType represents the type of operation.
type OperationType string

const (
	// OpMoveSmall is a pass into small_files.
	OpMoveSmall OperationType = "move-small"
	// OpMoveLarge is a pass into large_files.
	OpMoveLarge OperationType = "move-large"
	// OpClean is a removal of the bucket directories.
	OpClean OperationType = "clean"
)

// OperationFor returns the move operation for a bucket.
func OperationFor(b types.Bucket) OperationType {
	if b == types.Large {
		return OpMoveLarge
	}
	return OpMoveSmall
}

// Entry represents a single manifest entry.
type Entry struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Operation OperationType `json:"operation"`
	// Root is the scanned root for moves, or the bucket base for clean.
	Root    string       `json:"root"`
	Files   []FileRecord `json:"files"`
	Summary Summary      `json:"summary"`
	// Error is set when the operation stopped part way.
	Error string `json:"error,omitempty"`
}

// FileRecord is one moved file or one removed bucket directory.
type FileRecord struct {
	Source string `json:"source"`
	Dest   string `json:"dest,omitempty"`
	Size   int64  `json:"size"`
}

// Summary contains operation summary.
type Summary struct {
	TotalFiles int64  `json:"total_files"`
	TotalBytes int64  `json:"total_bytes"`
	Threshold  int64  `json:"threshold,omitempty"`
	Unit       string `json:"unit,omitempty"`
	Kept       int    `json:"kept,omitempty"`
	Vanished   int    `json:"vanished,omitempty"`
}
