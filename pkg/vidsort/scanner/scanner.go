package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/jamesainslie/vidsort/pkg/vidsort/logging"
	"github.com/jamesainslie/vidsort/pkg/vidsort/types"
)

var log = logging.Get("scanner")

// Scanner enumerates regular files using fastwalk.
// A Scanner is single use; create a new one per scan.
type Scanner struct {
	opts     Options
	excludes []exclusion
	root     string

	dirsScanned  atomic.Int64
	filesScanned atomic.Int64
	bytesScanned atomic.Int64

	// fastwalk invokes the callback from several goroutines.
	mu      sync.Mutex
	results []types.FileEntry
	failure error
}

// New creates a Scanner. Invalid exclusion globs are reported by Scan.
func New(opts Options) *Scanner {
	return &Scanner{opts: opts}
}

// Scan walks the root and returns every regular file found. Directories,
// symlinks and other non-regular entries are never returned. An unreadable
// directory aborts the scan with a *types.ScanError and no partial result.
func (s *Scanner) Scan(ctx context.Context) (*types.ScanResult, error) {
	start := time.Now()

	if err := s.opts.Validate(); err != nil {
		return nil, err
	}
	s.excludes = compileExclusions(s.opts.Exclude)

	root, err := ValidateRoot(s.opts.Root)
	if err != nil {
		return nil, err
	}
	s.root = root

	log.Debug("scan started", "root", root, "recursive", s.opts.Recursive, "workers", s.opts.Workers)

	s.dirsScanned.Store(1)
	conf := fastwalk.Config{
		Follow:     false,
		NumWorkers: s.opts.Workers,
	}
	walkErr := fastwalk.Walk(&conf, root, s.visit(ctx))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.failure != nil {
		log.Warn("scan aborted", "root", root, "error", s.failure)
		return nil, s.failure
	}
	if walkErr != nil {
		return nil, &types.ScanError{Path: root, Err: walkErr}
	}

	result := &types.ScanResult{
		Root:         root,
		Files:        s.results,
		DirsScanned:  s.dirsScanned.Load(),
		FilesScanned: s.filesScanned.Load(),
		TotalSize:    s.bytesScanned.Load(),
		Elapsed:      time.Since(start),
	}
	if result.Files == nil {
		result.Files = []types.FileEntry{}
	}

	log.Debug("scan finished",
		"root", root,
		"dirs", result.DirsScanned,
		"files", result.FilesScanned,
		"elapsed", result.Elapsed)

	return result, nil
}

func (s *Scanner) visit(ctx context.Context) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			return s.fail(path, err)
		}

		if path != s.root && s.isExcluded(path) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == s.root {
				return nil
			}
			if !s.opts.Recursive {
				return fastwalk.SkipDir
			}
			s.dirsScanned.Add(1)
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			// Removed between readdir and stat: it is simply not there anymore.
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return s.fail(path, err)
		}

		entry := types.NewFileEntry(path, info.Size(), info.ModTime())
		s.filesScanned.Add(1)
		s.bytesScanned.Add(entry.Size)

		s.mu.Lock()
		s.results = append(s.results, entry)
		s.mu.Unlock()

		return nil
	}
}

// fail records the first error and stops the walk.
func (s *Scanner) fail(path string, err error) error {
	scanErr := &types.ScanError{Path: path, Err: err}

	s.mu.Lock()
	if s.failure == nil {
		s.failure = scanErr
	}
	s.mu.Unlock()

	return scanErr
}

func (s *Scanner) isExcluded(path string) bool {
	for _, e := range s.excludes {
		if e.matches(path) {
			return true
		}
	}
	return false
}

// ValidateRoot resolves path to an absolute directory. It returns an error
// wrapping types.ErrRootNotFound or types.ErrNotDirectory together with the
// underlying *fs.PathError.
func ValidateRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %w", types.ErrRootNotFound, err)
		}
		return "", fmt.Errorf("stat %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", types.ErrNotDirectory, abs)
	}

	return abs, nil
}

// Scan is a convenience wrapper around New(opts).Scan(ctx).
func Scan(ctx context.Context, opts Options) (*types.ScanResult, error) {
	return New(opts).Scan(ctx)
}
