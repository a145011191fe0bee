package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// PrettyFormatter renders a styled table for terminals.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString(f.header(r))
	w.WriteString("\n")
	w.WriteString(f.table(r))
	w.WriteString(f.footer(r))
	w.WriteString("\n")
	return nil
}

func (f *PrettyFormatter) header(r *Result) string {
	title := "Directory:"
	if r.IsMove() {
		title = "Root:"
	}
	lines := []string{styles.label.Render(title) + " " + styles.value.Render(r.Source)}

	if r.IsMove() {
		bucket := "small_files"
		cmp := "<"
		if r.Operation == OpMoveLarge {
			bucket = "large_files"
			cmp = ">"
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s %s",
			styles.label.Render("Bucket:"), styles.value.Render(bucket),
			styles.label.Render("Rule:"), styles.value.Render("size "+cmp+" "+r.Unit.FormatMB(r.Threshold))))
	}

	return styles.header.Render(strings.Join(lines, "\n"))
}

func (f *PrettyFormatter) table(r *Result) string {
	if len(r.Files) == 0 {
		if r.IsMove() {
			return styles.muted.Render("  Nothing to move") + "\n"
		}
		return styles.muted.Render("  No files") + "\n"
	}

	sizes := make([]string, len(r.Files))
	width := len(r.Unit.Label()) + 6
	for i, file := range r.Files {
		sizes[i] = r.Unit.FormatMB(file.Size)
		if len(sizes[i]) > width {
			width = len(sizes[i])
		}
	}

	var sb strings.Builder
	nameHeader := "NAME"
	if r.IsMove() {
		nameHeader = "MOVED"
	}
	fmt.Fprintf(&sb, "  %s  %s\n",
		styles.tableHeader.Render(padLeft("SIZE", width)),
		styles.tableHeader.Render(nameHeader))

	for i, file := range r.Files {
		name := styles.value.Render(file.Name)
		if r.IsMove() {
			name = styles.value.Render(file.Path) + styles.muted.Render(" -> ") + styles.success.Render(file.Dest)
		}
		fmt.Fprintf(&sb, "  %s  %s\n", styles.size.Render(padLeft(sizes[i], width)), name)
	}

	return sb.String()
}

func (f *PrettyFormatter) footer(r *Result) string {
	parts := []string{
		styles.label.Render("Files:") + " " + styles.value.Render(humanize.Comma(int64(len(r.Files)))),
		styles.label.Render("Total:") + " " + styles.size.Render(humanize.Bytes(uint64(r.TotalSize()))),
	}

	if r.IsMove() {
		if r.Kept > 0 {
			parts = append(parts, styles.label.Render("Kept:")+" "+styles.value.Render(humanize.Comma(int64(r.Kept))))
		}
		if r.Vanished > 0 {
			parts = append(parts, styles.warning.Render(fmt.Sprintf("%d vanished", r.Vanished)))
		}
		parts = append(parts, styles.muted.Render(r.Elapsed.Round(time.Millisecond).String()))
	} else {
		parts = append(parts, styles.muted.Render("Use -o plain for unformatted output"))
	}

	return styles.footer.Render(strings.Join(parts, "  "))
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

var _ Formatter = (*PrettyFormatter)(nil)
