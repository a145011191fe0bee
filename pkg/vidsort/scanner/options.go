// Package scanner enumerates the regular files below a root directory.
// It walks the tree with a fastwalk worker pool and hands back one
// flat slice of entries, so callers see a single blocking call.
package scanner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/jamesainslie/vidsort/pkg/vidsort/config"
)

// Options configures a scan.
type Options struct {
	// Root is the directory to enumerate.
	Root string

	// Recursive descends into subdirectories. When false only the root's
	// immediate entries are returned.
	Recursive bool

	// Exclude holds path prefixes, plain names and glob patterns. An entry
	// matches either the base name or the full path; an excluded directory
	// is not descended into.
	Exclude []string

	// Workers is the number of fastwalk workers. Values below 1 use the default.
	Workers int
}

// DefaultOptions returns a recursive scan of the current directory.
func DefaultOptions() Options {
	return Options{
		Root:      config.DefaultPath,
		Recursive: true,
		Workers:   config.DefaultWorkers,
	}
}

// Validate fills in defaults and rejects malformed exclusion globs.
func (o *Options) Validate() error {
	if o.Root == "" {
		o.Root = config.DefaultPath
	}
	if o.Workers < 1 {
		o.Workers = config.DefaultWorkers
	}
	for _, pattern := range o.Exclude {
		if isGlob(pattern) {
			if _, err := glob.Compile(pattern, filepath.Separator); err != nil {
				return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
			}
		}
	}
	return nil
}

// exclusion is one compiled Exclude entry.
type exclusion struct {
	prefix string
	glob   glob.Glob
}

func compileExclusions(patterns []string) []exclusion {
	out := make([]exclusion, 0, len(patterns))
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if !isGlob(pattern) {
			out = append(out, exclusion{prefix: filepath.Clean(pattern)})
			continue
		}
		// Validate has already rejected bad patterns.
		if g, err := glob.Compile(pattern, filepath.Separator); err == nil {
			out = append(out, exclusion{glob: g})
		}
	}
	return out
}

func (e exclusion) matches(path string) bool {
	if e.glob != nil {
		return e.glob.Match(filepath.Base(path)) || e.glob.Match(path)
	}
	if path == e.prefix || strings.HasPrefix(path, e.prefix+string(filepath.Separator)) {
		return true
	}
	return filepath.Base(path) == e.prefix
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
