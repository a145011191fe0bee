// Package config provides configuration management for vidsort.
package config

import "time"

// AppName names the config, data and state directories.
const AppName = "vidsort"

// Default configuration values for vidsort.
const (
	// DefaultPath is the default root to scan when none is specified.
	DefaultPath = "."

	// DefaultThresholdMB is the default size threshold in megabytes.
	DefaultThresholdMB = 100

	// DefaultUnits is the default megabyte convention.
	DefaultUnits = "decimal"

	// DefaultCategory is the extension category used by move passes.
	DefaultCategory = "VIDEOS"

	// DefaultRetentionDays is the default number of days to retain history entries.
	DefaultRetentionDays = 30

	// DefaultWorkers is the default number of directory walker workers.
	DefaultWorkers = 4

	// DefaultDebounce is how long watch mode waits for the tree to settle.
	DefaultDebounce = 2 * time.Second
)

// DefaultVideoExtensions are the extensions of the built-in VIDEOS category.
var DefaultVideoExtensions = []string{".mov", ".avi", ".mp4", ".m4v", ".ogv", ".webm", ".wmv"}
