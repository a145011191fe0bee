package types

import (
	"slices"
	"strings"
)

// CategoryVideos is the label of the built-in video category.
const CategoryVideos = "VIDEOS"

// ExtensionSet maps a category label to its recognized extensions.
// Labels are stored uppercase; extensions keep their configured spelling
// and always carry a leading dot.
type ExtensionSet map[string][]string

// DefaultExtensions returns the built-in extension configuration.
func DefaultExtensions() ExtensionSet {
	return ExtensionSet{
		CategoryVideos: {".mov", ".avi", ".mp4", ".m4v", ".ogv", ".webm", ".wmv"},
	}
}

// NewExtensionSet builds a set from raw configuration, normalizing labels to
// uppercase and adding a missing leading dot to each extension. Duplicate
// extensions within a category are dropped, keeping the first occurrence.
func NewExtensionSet(raw map[string][]string) ExtensionSet {
	set := make(ExtensionSet, len(raw))
	for label, exts := range raw {
		key := strings.ToUpper(strings.TrimSpace(label))
		if key == "" {
			continue
		}
		for _, ext := range exts {
			ext = strings.TrimSpace(ext)
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			if !slices.Contains(set[key], ext) {
				set[key] = append(set[key], ext)
			}
		}
	}
	return set
}

// Lookup returns the extensions for a category. Labels match case-insensitively.
func (s ExtensionSet) Lookup(label string) ([]string, bool) {
	exts, ok := s[strings.ToUpper(label)]
	return exts, ok
}

// Categories returns the sorted category labels.
func (s ExtensionSet) Categories() []string {
	labels := make([]string, 0, len(s))
	for label := range s {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	return labels
}
