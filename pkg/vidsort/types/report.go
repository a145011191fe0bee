package types

// Report lists the immediate regular files of one directory.
type Report struct {
	// Dir is the absolute directory that was listed.
	Dir string `json:"dir"`

	// Files holds one entry per regular file, subdirectories excluded.
	Files []FileEntry `json:"files"`
}

// TotalSize returns the sum of all file sizes in bytes.
func (r *Report) TotalSize() int64 {
	var total int64
	for _, f := range r.Files {
		total += f.Size
	}
	return total
}
