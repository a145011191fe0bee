// Package output renders reports and move-pass summaries in the formats
// selectable with -o: plain, pretty, json and yaml.
//
// Basic usage:
//
//	formatter, err := output.Get("plain")
//	if err != nil {
//	    return err
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, output.FromReport(report, types.Decimal)); err != nil {
//	    return err
//	}
//	fmt.Print(buf.String())
package output

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/jamesainslie/vidsort/pkg/vidsort/types"
)

// Operation names the command whose result is being rendered.
type Operation string

// Operations understood by the formatters.
const (
	OpReport    Operation = "report"
	OpMoveSmall Operation = "move-small"
	OpMoveLarge Operation = "move-large"
)

// FileInfo is one row of output.
type FileInfo struct {
	// Name is the base name of the file.
	Name string
	// Path is the source path.
	Path string
	// Dest is the destination path for moved files; empty in reports.
	Dest string
	// Size is the size in bytes.
	Size int64
	// SizeMB is Size in the result's unit.
	SizeMB float64
	// SizeHuman is Size formatted by go-humanize.
	SizeHuman string
	ModTime   time.Time
}

// Result is everything a formatter needs.
type Result struct {
	Operation Operation
	// Source is the reported directory or the scanned root.
	Source string
	Unit   types.Unit
	Files  []FileInfo

	// Threshold in bytes; move passes only.
	Threshold int64
	// Kept and Vanished are move-pass counters.
	Kept     int
	Vanished int

	Elapsed time.Duration
}

// IsMove reports whether r describes a move pass.
func (r *Result) IsMove() bool {
	return r.Operation == OpMoveSmall || r.Operation == OpMoveLarge
}

// TotalSize returns the sum of all file sizes in the result.
func (r *Result) TotalSize() int64 {
	var total int64
	for _, f := range r.Files {
		total += f.Size
	}
	return total
}

// FromReport converts a directory report.
func FromReport(rep *types.Report, unit types.Unit) *Result {
	if unit == 0 {
		unit = types.Decimal
	}
	res := &Result{
		Operation: OpReport,
		Source:    rep.Dir,
		Unit:      unit,
		Files:     make([]FileInfo, 0, len(rep.Files)),
	}
	for _, f := range rep.Files {
		res.Files = append(res.Files, FileInfo{
			Name:      f.Name(),
			Path:      f.Path,
			Size:      f.Size,
			SizeMB:    unit.Megabytes(f.Size),
			SizeHuman: f.HumanSize(),
			ModTime:   f.ModTime,
		})
	}
	return res
}

// FromPass converts a move-pass result for the given root.
func FromPass(root string, pass *types.PassResult, unit types.Unit, elapsed time.Duration) *Result {
	if unit == 0 {
		unit = types.Decimal
	}
	op := OpMoveSmall
	if pass.Bucket == types.Large {
		op = OpMoveLarge
	}
	res := &Result{
		Operation: op,
		Source:    root,
		Unit:      unit,
		Files:     make([]FileInfo, 0, len(pass.Moved)),
		Threshold: pass.Threshold,
		Kept:      len(pass.Kept),
		Vanished:  len(pass.Vanished),
		Elapsed:   elapsed,
	}
	for _, m := range pass.Moved {
		res.Files = append(res.Files, FileInfo{
			Name:      filepath.Base(m.Dest),
			Path:      m.Source,
			Dest:      m.Dest,
			Size:      m.Size,
			SizeMB:    unit.Megabytes(m.Size),
			SizeHuman: types.FormatSize(m.Size),
		})
	}
	return res
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	Format(w *bytes.Buffer, r *Result) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory, replacing any with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %v)", name, r.availableLocked())
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.availableLocked()
}

func (r *Registry) availableLocked() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
