// Package filter selects files by extension category and orders them.
// Move passes use it to keep only recognized videos; the report uses it
// for optional filtering, sorting and limiting.
package filter

import (
	"errors"
	"fmt"
	"strings"
)

// SortField specifies the field to sort files by.
type SortField int

const (
	// SortNone keeps enumeration order.
	SortNone SortField = iota
	// SortSize sorts files by size in bytes.
	SortSize
	// SortName sorts files by base name.
	SortName
	// SortPath sorts files by full path.
	SortPath
	// SortAge sorts files by modification time, oldest first.
	SortAge
)

var sortFieldNames = map[SortField]string{
	SortNone: "none",
	SortSize: "size",
	SortName: "name",
	SortPath: "path",
	SortAge:  "age",
}

// String returns the string representation of the sort field.
func (s SortField) String() string {
	if name, ok := sortFieldNames[s]; ok {
		return name
	}
	return "none"
}

var (
	// ErrInvalidSortField indicates that the sort field string could not be parsed.
	ErrInvalidSortField = errors.New("invalid sort field")

	// ErrUnknownCategory indicates the requested category has no extensions configured.
	ErrUnknownCategory = errors.New("unknown extension category")

	// ErrInvalidPattern indicates an include or exclude glob failed to compile.
	ErrInvalidPattern = errors.New("invalid glob pattern")
)

// ParseSortField parses "none", "size", "name", "path" or "age" (case-insensitive).
// The empty string means SortNone.
func ParseSortField(s string) (SortField, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortNone, nil
	}
	for field, name := range sortFieldNames {
		if name == s {
			return field, nil
		}
	}
	return SortNone, fmt.Errorf("%w: %q", ErrInvalidSortField, s)
}
