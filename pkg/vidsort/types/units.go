package types

import (
	"errors"
	"fmt"
	"strings"
)

// Unit is the byte count of one "megabyte" used for thresholds and reports.
type Unit int64

const (
	// Decimal megabytes: 1,000,000 bytes.
	Decimal Unit = Unit(MB)
	// Binary megabytes (mebibytes): 1,048,576 bytes.
	Binary Unit = Unit(MiB)
)

// ErrInvalidUnit indicates that a unit name could not be parsed.
var ErrInvalidUnit = errors.New("invalid unit")

// ParseUnit parses "decimal"/"si"/"mb" or "binary"/"iec"/"mib" (case-insensitive).
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "decimal", "si", "mb":
		return Decimal, nil
	case "binary", "iec", "mib":
		return Binary, nil
	default:
		return Decimal, fmt.Errorf("%w: %q", ErrInvalidUnit, s)
	}
}

// String returns the configuration name of the unit.
func (u Unit) String() string {
	if u == Binary {
		return "binary"
	}
	return "decimal"
}

// Label returns the suffix printed after a size in this unit.
func (u Unit) Label() string {
	if u == Binary {
		return "MiB"
	}
	return "MB"
}

// Bytes converts a whole number of megabytes in this unit to bytes.
func (u Unit) Bytes(megabytes int64) int64 {
	return megabytes * int64(u)
}

// Megabytes converts a byte count to fractional megabytes in this unit.
func (u Unit) Megabytes(bytes int64) float64 {
	return float64(bytes) / float64(u)
}

// FormatMB formats a byte count as megabytes rounded to three decimals,
// e.g. "2.000 MB".
func (u Unit) FormatMB(bytes int64) string {
	return fmt.Sprintf("%.3f %s", u.Megabytes(bytes), u.Label())
}
