package output

import (
	"bytes"
	"fmt"
)

// PlainFormatter writes one unstyled line per file.
// Reports use "<filename>: <size> MB" with three decimals; move passes use
// "<source> -> <dest> (<size> MB)".
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Result) error {
	for _, file := range r.Files {
		var err error
		if r.IsMove() {
			_, err = fmt.Fprintf(w, "%s -> %s (%s)\n", file.Path, file.Dest, r.Unit.FormatMB(file.Size))
		} else {
			_, err = fmt.Fprintf(w, "%s: %s\n", file.Name, r.Unit.FormatMB(file.Size))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

var _ Formatter = (*PlainFormatter)(nil)
