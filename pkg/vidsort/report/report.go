// Package report lists the files directly inside one directory with their
// sizes in megabytes.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jamesainslie/vidsort/pkg/vidsort/filter"
	"github.com/jamesainslie/vidsort/pkg/vidsort/logging"
	"github.com/jamesainslie/vidsort/pkg/vidsort/output"
	"github.com/jamesainslie/vidsort/pkg/vidsort/scanner"
	"github.com/jamesainslie/vidsort/pkg/vidsort/types"
)

var log = logging.Get("report")

// List returns the immediate regular files of dir. Subdirectories and
// other non-regular entries are skipped. When f is non-nil it is applied
// to the listing (match, sort, limit); otherwise entries keep directory
// order, which is sorted by name.
func List(dir string, f *filter.Filter) (*types.Report, error) {
	abs, err := scanner.ValidateRoot(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, &types.ScanError{Path: abs, Err: err}
	}

	files := make([]types.FileEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, &types.ScanError{Path: filepath.Join(abs, entry.Name()), Err: err}
		}
		files = append(files, types.NewFileEntry(filepath.Join(abs, entry.Name()), info.Size(), info.ModTime()))
	}

	if f != nil {
		files = f.Apply(files)
	}

	log.Debug("listed directory", "dir", abs, "files", len(files))

	return &types.Report{Dir: abs, Files: files}, nil
}

// Write prints one "<filename>: <size> MB" line per file, with the size
// rounded to three decimals in unit.
func Write(w io.Writer, r *types.Report, unit types.Unit) error {
	return Render(w, r, unit, "plain")
}

// Render writes r in the named output format.
func Render(w io.Writer, r *types.Report, unit types.Unit, format string) error {
	formatter, err := output.Get(format)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, output.FromReport(r, unit)); err != nil {
		return fmt.Errorf("formatting report: %w", err)
	}

	_, err = buf.WriteTo(w)
	return err
}
