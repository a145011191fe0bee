// Package types provides core data types for the vidsort file classifier.
// It includes the file entry produced by a scan, the extension configuration,
// the two destination buckets, and the size units used to compare and report sizes.
package types

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// Size constants for decimal (SI) units.
const (
	KB int64 = 1000
	MB int64 = 1000 * KB
	GB int64 = 1000 * MB
)

// FileEntry describes one regular file found during a scan.
// Entries exist only for the duration of a single scan and move pass.
type FileEntry struct {
	// Path is the absolute path to the file.
	Path string `json:"path"`

	// Size is the file size in bytes at scan time.
	Size int64 `json:"size"`

	// Ext is the lowercased extension including the leading dot, or "" if none.
	Ext string `json:"ext"`

	// RawExt is the extension exactly as it appears on disk.
	RawExt string `json:"-"`

	// ModTime is the last modification time of the file.
	ModTime time.Time `json:"mod_time"`
}

// NewFileEntry builds a FileEntry, deriving the extension from the path.
func NewFileEntry(path string, size int64, modTime time.Time) FileEntry {
	raw := filepath.Ext(path)
	return FileEntry{
		Path:    path,
		Size:    size,
		Ext:     strings.ToLower(raw),
		RawExt:  raw,
		ModTime: modTime,
	}
}

// Name returns the base name of the file.
func (f *FileEntry) Name() string {
	return filepath.Base(f.Path)
}

// HumanSize returns the file size formatted as a human-readable string.
func (f *FileEntry) HumanSize() string {
	return FormatSize(f.Size)
}

// ScanResult contains the files found by an enumeration and scan statistics.
type ScanResult struct {
	// Root is the absolute path that was scanned.
	Root string `json:"root"`

	// Files contains every regular file found, in walk order.
	Files []FileEntry `json:"files"`

	// DirsScanned is the number of directories visited.
	DirsScanned int64 `json:"dirs_scanned"`

	// FilesScanned is the number of regular files seen.
	FilesScanned int64 `json:"files_scanned"`

	// TotalSize is the sum of all file sizes in bytes.
	TotalSize int64 `json:"total_size"`

	// Elapsed is the time taken by the scan.
	Elapsed time.Duration `json:"elapsed"`
}

// FormatSize converts a size in bytes to a human-readable string using
// decimal (SI) units, matching how thresholds are expressed.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}
