// Package mover partitions filtered files by size into the small_files and
// large_files buckets. A pass walks its input in order, re-checks each file
// on disk, and relocates the ones that qualify. There is no rollback: files
// moved before a failure stay moved and are listed in the result.
package mover

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/jamesainslie/vidsort/pkg/vidsort/logging"
	"github.com/jamesainslie/vidsort/pkg/vidsort/types"
)

// ErrInvalidThreshold is returned for a negative threshold or one whose
// byte count does not fit in an int64.
var ErrInvalidThreshold = errors.New("threshold must not be negative")

// Options configures a Mover.
type Options struct {
	// BaseDir is the parent of the bucket directories. Empty means the
	// current working directory, resolved when the Mover is created.
	BaseDir string

	// ThresholdMB is the size threshold in whole megabytes of Unit.
	ThresholdMB int64

	// Unit is the megabyte convention. Zero means types.Decimal.
	Unit types.Unit

	// Logger receives per-file records. Nil uses the "mover" component logger.
	Logger *logging.Logger

	// OnMove, if set, is called after each successful relocation.
	OnMove func(types.Move)
}

// Mover relocates files into a bucket.
type Mover struct {
	base      string
	threshold int64
	log       *logging.Logger
	onMove    func(types.Move)
}

// New validates opts and creates a Mover.
func New(opts Options) (*Mover, error) {
	if opts.ThresholdMB < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidThreshold, opts.ThresholdMB)
	}
	if opts.Unit == 0 {
		opts.Unit = types.Decimal
	}
	if opts.ThresholdMB > math.MaxInt64/int64(opts.Unit) {
		return nil, fmt.Errorf("%w: %d %s overflows", ErrInvalidThreshold, opts.ThresholdMB, opts.Unit.Label())
	}

	base := opts.BaseDir
	if base == "" {
		base = "."
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolving bucket base: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Get("mover")
	}

	return &Mover{
		base:      base,
		threshold: opts.Unit.Bytes(opts.ThresholdMB),
		log:       logger,
		onMove:    opts.OnMove,
	}, nil
}

// BaseDir returns the absolute parent directory of the buckets.
func (m *Mover) BaseDir() string {
	return m.base
}

// Threshold returns the threshold in bytes.
func (m *Mover) Threshold() int64 {
	return m.threshold
}

// MoveSmall moves every file strictly smaller than the threshold into small_files.
func (m *Mover) MoveSmall(ctx context.Context, files []types.FileEntry) (*types.PassResult, error) {
	return m.Run(ctx, types.Small, files)
}

// MoveLarge moves every file strictly larger than the threshold into large_files.
func (m *Mover) MoveLarge(ctx context.Context, files []types.FileEntry) (*types.PassResult, error) {
	return m.Run(ctx, types.Large, files)
}

// Run performs one pass into bucket. The returned result is never nil, even
// alongside an error, so callers can report what was already moved.
func (m *Mover) Run(ctx context.Context, bucket types.Bucket, files []types.FileEntry) (*types.PassResult, error) {
	result := &types.PassResult{
		Bucket:    bucket,
		Threshold: m.threshold,
		Moved:     []types.Move{},
	}
	dir := bucket.Dir(m.base)
	dirReady := false

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			m.log.Warn("pass cancelled", "bucket", bucket, "moved", len(result.Moved))
			return result, err
		}

		// Size comes from the filesystem at move time, not from the scan.
		info, err := os.Lstat(file.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				m.log.Debug("skipping vanished file", "path", file.Path, "error", types.ErrVanished)
				result.Vanished = append(result.Vanished, file.Path)
				continue
			}
			return result, &types.MoveError{Path: file.Path, Op: "stat", Err: err}
		}
		if !info.Mode().IsRegular() {
			m.log.Debug("keeping non-regular file", "path", file.Path, "mode", info.Mode())
			result.Kept = append(result.Kept, file.Path)
			continue
		}

		size := info.Size()
		dest := filepath.Join(dir, filepath.Base(file.Path))

		if !bucket.Qualifies(size, m.threshold) || filepath.Clean(file.Path) == dest {
			result.Kept = append(result.Kept, file.Path)
			continue
		}

		if !dirReady {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return result, &types.MoveError{Path: file.Path, Dest: dir, Op: "mkdir", Err: err}
			}
			dirReady = true
		}

		if err := moveFile(file.Path, dest, info); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				if _, statErr := os.Lstat(file.Path); errors.Is(statErr, fs.ErrNotExist) {
					m.log.Debug("skipping vanished file", "path", file.Path, "error", types.ErrVanished)
					result.Vanished = append(result.Vanished, file.Path)
					continue
				}
			}
			m.log.Error("move failed", "path", file.Path, "dest", dest, "error", err)
			return result, err
		}

		mv := types.Move{Source: file.Path, Dest: dest, Size: size}
		result.Moved = append(result.Moved, mv)
		m.log.Info("moved file", "bucket", bucket, "path", file.Path, "dest", dest, "size", size)
		if m.onMove != nil {
			m.onMove(mv)
		}
	}

	m.log.Debug("pass finished",
		"bucket", bucket,
		"threshold", m.threshold,
		"moved", len(result.Moved),
		"kept", len(result.Kept),
		"vanished", len(result.Vanished))

	return result, nil
}
