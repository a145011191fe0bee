package output

import (
	"bytes"
	"encoding/json"
	"time"
)

// document is the shape shared by the json and yaml formatters.
type document struct {
	Operation string         `json:"operation" yaml:"operation"`
	Source    string         `json:"source" yaml:"source"`
	Unit      string         `json:"unit" yaml:"unit"`
	Files     []documentFile `json:"files" yaml:"files"`
	Summary   summary        `json:"summary" yaml:"summary"`
}

type documentFile struct {
	Name      string     `json:"name" yaml:"name"`
	Path      string     `json:"path" yaml:"path"`
	Dest      string     `json:"dest,omitempty" yaml:"dest,omitempty"`
	Size      int64      `json:"size" yaml:"size"`
	SizeMB    float64    `json:"size_mb" yaml:"size_mb"`
	SizeHuman string     `json:"size_human" yaml:"size_human"`
	ModTime   *time.Time `json:"mod_time,omitempty" yaml:"mod_time,omitempty"`
}

type summary struct {
	Files     int    `json:"files" yaml:"files"`
	TotalSize int64  `json:"total_size" yaml:"total_size"`
	Threshold int64  `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Kept      int    `json:"kept,omitempty" yaml:"kept,omitempty"`
	Vanished  int    `json:"vanished,omitempty" yaml:"vanished,omitempty"`
	Elapsed   string `json:"elapsed,omitempty" yaml:"elapsed,omitempty"`
}

func buildDocument(r *Result) document {
	files := make([]documentFile, len(r.Files))
	for i, file := range r.Files {
		files[i] = documentFile{
			Name:      file.Name,
			Path:      file.Path,
			Dest:      file.Dest,
			Size:      file.Size,
			SizeMB:    roundMB(file.SizeMB),
			SizeHuman: file.SizeHuman,
		}
		if !file.ModTime.IsZero() {
			mod := file.ModTime
			files[i].ModTime = &mod
		}
	}

	doc := document{
		Operation: string(r.Operation),
		Source:    r.Source,
		Unit:      r.Unit.String(),
		Files:     files,
		Summary: summary{
			Files:     len(r.Files),
			TotalSize: r.TotalSize(),
		},
	}
	if r.IsMove() {
		doc.Summary.Threshold = r.Threshold
		doc.Summary.Kept = r.Kept
		doc.Summary.Vanished = r.Vanished
		doc.Summary.Elapsed = r.Elapsed.Round(time.Millisecond).String()
	}
	return doc
}

// roundMB keeps the three decimals printed by the plain format.
func roundMB(v float64) float64 {
	return float64(int64(v*1000+0.5)) / 1000
}

// JSONFormatter formats output as a single indented JSON object.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildDocument(r))
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

var _ Formatter = (*JSONFormatter)(nil)
