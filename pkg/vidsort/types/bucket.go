package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Bucket is one of the two fixed destination directories.
type Bucket int

const (
	// Small receives files strictly below the threshold.
	Small Bucket = iota
	// Large receives files strictly above the threshold.
	Large
)

// Bucket directory names.
const (
	SmallDirName = "small_files"
	LargeDirName = "large_files"
)

// Buckets lists every bucket in cleanup order.
var Buckets = []Bucket{Large, Small}

// ErrInvalidBucket indicates that a bucket name could not be parsed.
var ErrInvalidBucket = errors.New("invalid bucket")

// ParseBucket parses "small" or "large" (case-insensitive).
func ParseBucket(s string) (Bucket, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "small":
		return Small, nil
	case "large":
		return Large, nil
	default:
		return Small, fmt.Errorf("%w: %q (want small or large)", ErrInvalidBucket, s)
	}
}

// String returns "small" or "large".
func (b Bucket) String() string {
	if b == Large {
		return "large"
	}
	return "small"
}

// DirName returns the directory name of the bucket.
func (b Bucket) DirName() string {
	if b == Large {
		return LargeDirName
	}
	return SmallDirName
}

// Dir returns the bucket directory under base.
func (b Bucket) Dir(base string) string {
	return filepath.Join(base, b.DirName())
}

// Qualifies reports whether a file of size bytes belongs in the bucket for
// the given threshold in bytes. Equality never qualifies.
func (b Bucket) Qualifies(size, threshold int64) bool {
	if b == Large {
		return size > threshold
	}
	return size < threshold
}

// Move records a single relocation.
type Move struct {
	Source string `json:"source"`
	Dest   string `json:"dest"`
	Size   int64  `json:"size"`
}

// PassResult summarizes one move pass.
type PassResult struct {
	// Bucket is the destination of the pass.
	Bucket Bucket `json:"-"`

	// Threshold is the threshold in bytes.
	Threshold int64 `json:"threshold"`

	// Moved lists files relocated into the bucket, in move order.
	Moved []Move `json:"moved"`

	// Kept lists files that matched the filter but did not qualify, or that
	// are no longer regular files at move time.
	Kept []string `json:"kept,omitempty"`

	// Vanished lists files that disappeared between scan and move.
	Vanished []string `json:"vanished,omitempty"`
}

// MovedBytes returns the total size of moved files.
func (r *PassResult) MovedBytes() int64 {
	var total int64
	for _, m := range r.Moved {
		total += m.Size
	}
	return total
}

// CleanupResult lists what happened to each bucket directory.
type CleanupResult struct {
	// Removed lists directories deleted permanently.
	Removed []string `json:"removed"`
	// Trashed lists directories handed to the system trash.
	Trashed []string `json:"trashed,omitempty"`
	// Absent lists directories that did not exist.
	Absent []string `json:"absent,omitempty"`
}
