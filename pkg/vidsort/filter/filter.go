package filter

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/jamesainslie/vidsort/pkg/vidsort/types"
)

// Filter keeps files whose extension belongs to one category of an
// ExtensionSet, then optionally sorts and limits them.
type Filter struct {
	set        types.ExtensionSet
	category   string
	allExts    bool
	ignoreCase bool

	// Include and Exclude are glob patterns matched against the base name
	// and the full path.
	Include []string
	Exclude []string

	// OlderThan drops files modified more recently than this long ago.
	OlderThan time.Duration

	SortBy         SortField
	SortDescending bool

	// Limit caps the result length. 0 means unlimited.
	Limit int

	includeGlobs []glob.Glob
	excludeGlobs []glob.Glob
	patternErr   error
	now          func() time.Time
}

// Option is a functional option for configuring a Filter.
type Option func(*Filter)

// New creates a Filter over set. Defaults: the VIDEOS category,
// case-sensitive matching, enumeration order, no limit.
// A nil set means types.DefaultExtensions().
func New(set types.ExtensionSet, opts ...Option) *Filter {
	if set == nil {
		set = types.DefaultExtensions()
	}
	f := &Filter{
		set:      set,
		category: types.CategoryVideos,
		SortBy:   SortNone,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(f)
	}

	f.includeGlobs = f.compile(f.Include)
	f.excludeGlobs = f.compile(f.Exclude)

	return f
}

// WithCategory selects the extension category by label (case-insensitive).
func WithCategory(label string) Option {
	return func(f *Filter) {
		if label != "" {
			f.category = strings.ToUpper(label)
		}
	}
}

// WithAllExtensions disables extension matching, so every file passes
// that stage. Used by the report when no category is requested.
func WithAllExtensions() Option {
	return func(f *Filter) {
		f.allExts = true
	}
}

// WithIgnoreCase makes extension comparison case-insensitive, so a.MP4
// matches ".mp4".
func WithIgnoreCase(ignore bool) Option {
	return func(f *Filter) {
		f.ignoreCase = ignore
	}
}

// WithInclude sets include globs. If any are given, a file must match one.
func WithInclude(patterns ...string) Option {
	return func(f *Filter) {
		f.Include = patterns
	}
}

// WithExclude sets exclude globs. Matching files are dropped.
func WithExclude(patterns ...string) Option {
	return func(f *Filter) {
		f.Exclude = patterns
	}
}

// WithOlderThan keeps only files last modified at least d ago.
func WithOlderThan(d time.Duration) Option {
	return func(f *Filter) {
		if d < 0 {
			d = 0
		}
		f.OlderThan = d
	}
}

// WithSortBy sets the field to sort results by.
func WithSortBy(field SortField) Option {
	return func(f *Filter) {
		f.SortBy = field
	}
}

// WithSortDescending sets whether to sort in descending order.
func WithSortDescending(desc bool) Option {
	return func(f *Filter) {
		f.SortDescending = desc
	}
}

// WithLimit sets the maximum number of files to return. Values <= 0 mean unlimited.
func WithLimit(limit int) Option {
	return func(f *Filter) {
		if limit < 0 {
			limit = 0
		}
		f.Limit = limit
	}
}

func (f *Filter) compile(patterns []string) []glob.Glob {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(pattern, filepath.Separator)
		if err != nil {
			if f.patternErr == nil {
				f.patternErr = fmt.Errorf("%w: %q: %w", ErrInvalidPattern, pattern, err)
			}
			continue
		}
		globs = append(globs, g)
	}
	return globs
}

// Validate reports an unknown category or an invalid glob.
func (f *Filter) Validate() error {
	if f.patternErr != nil {
		return f.patternErr
	}
	if f.allExts {
		return nil
	}
	if exts, ok := f.set.Lookup(f.category); !ok || len(exts) == 0 {
		return fmt.Errorf("%w: %q (known: %s)", ErrUnknownCategory, f.category,
			strings.Join(f.set.Categories(), ", "))
	}
	return nil
}

// Category returns the selected category label.
func (f *Filter) Category() string {
	return f.category
}

// Extensions returns the extensions of the selected category.
func (f *Filter) Extensions() []string {
	exts, _ := f.set.Lookup(f.category)
	return exts
}

// Match reports whether the file passes the extension, age and glob checks.
// Files without an extension never match a category.
func (f *Filter) Match(e types.FileEntry) bool {
	return f.matchExtension(e) && f.matchAge(e) && f.matchPatterns(e.Path)
}

func (f *Filter) matchExtension(e types.FileEntry) bool {
	if f.allExts {
		return true
	}
	if e.RawExt == "" && e.Ext == "" {
		return false
	}

	ext := e.RawExt
	if ext == "" {
		ext = e.Ext
	}
	for _, want := range f.Extensions() {
		if ext == want || (f.ignoreCase && strings.EqualFold(ext, want)) {
			return true
		}
	}
	return false
}

func (f *Filter) matchAge(e types.FileEntry) bool {
	if f.OlderThan <= 0 {
		return true
	}
	return !e.ModTime.After(f.now().Add(-f.OlderThan))
}

func (f *Filter) matchPatterns(path string) bool {
	if matchAny(f.excludeGlobs, path) {
		return false
	}
	return len(f.includeGlobs) == 0 || matchAny(f.includeGlobs, path)
}

func matchAny(globs []glob.Glob, path string) bool {
	base := filepath.Base(path)
	for _, g := range globs {
		if g.Match(base) || g.Match(path) {
			return true
		}
	}
	return false
}

// Sort returns a sorted copy of files. SortNone returns a plain copy.
func (f *Filter) Sort(files []types.FileEntry) []types.FileEntry {
	sorted := slices.Clone(files)
	if sorted == nil {
		sorted = []types.FileEntry{}
	}
	if f.SortBy == SortNone {
		return sorted
	}

	slices.SortStableFunc(sorted, func(a, b types.FileEntry) int {
		var result int
		switch f.SortBy {
		case SortSize:
			result = cmp.Compare(a.Size, b.Size)
		case SortName:
			result = cmp.Compare(a.Name(), b.Name())
		case SortPath:
			result = cmp.Compare(a.Path, b.Path)
		case SortAge:
			result = a.ModTime.Compare(b.ModTime)
		}
		if f.SortDescending {
			return -result
		}
		return result
	})

	return sorted
}

// Apply runs Match, then Sort, then Limit. The input is not modified.
func (f *Filter) Apply(files []types.FileEntry) []types.FileEntry {
	matched := make([]types.FileEntry, 0, len(files))
	for _, e := range files {
		if f.Match(e) {
			matched = append(matched, e)
		}
	}

	sorted := f.Sort(matched)
	if f.Limit > 0 && len(sorted) > f.Limit {
		return sorted[:f.Limit]
	}
	return sorted
}
