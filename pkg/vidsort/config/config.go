package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Daily      bool   `mapstructure:"daily"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Rotation   RotationConfig    `mapstructure:"rotation"`
	Components map[string]string `mapstructure:"components"`
}

// BucketsConfig configures where the bucket directories are created.
type BucketsConfig struct {
	// Dir is the parent of small_files and large_files. Empty means the
	// current working directory.
	Dir string `mapstructure:"dir"`
}

// ManifestConfig configures the move history.
type ManifestConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Config represents the application configuration.
type Config struct {
	DefaultPath string              `mapstructure:"default_path"`
	ThresholdMB int64               `mapstructure:"threshold_mb"`
	Units       string              `mapstructure:"units"`
	Recursive   bool                `mapstructure:"recursive"`
	IgnoreCase  bool                `mapstructure:"ignore_case"`
	Category    string              `mapstructure:"category"`
	Extensions  map[string][]string `mapstructure:"extensions"`
	Exclude     []string            `mapstructure:"exclude"`
	Workers     int                 `mapstructure:"workers"`
	Buckets     BucketsConfig       `mapstructure:"buckets"`
	Watch       WatchConfig         `mapstructure:"watch"`
	Manifest    ManifestConfig      `mapstructure:"manifest"`
	Logging     LoggingConfig       `mapstructure:"logging"`
}

// SetDefaults registers every default on v. The CLI and Load share it so
// that both see the same values.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("default_path", DefaultPath)
	v.SetDefault("threshold_mb", DefaultThresholdMB)
	v.SetDefault("units", DefaultUnits)
	v.SetDefault("recursive", true)
	v.SetDefault("ignore_case", false)
	v.SetDefault("category", DefaultCategory)
	v.SetDefault("extensions", map[string][]string{DefaultCategory: DefaultVideoExtensions})
	v.SetDefault("exclude", []string{})
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("buckets.dir", "")
	v.SetDefault("watch.debounce", DefaultDebounce)

	v.SetDefault("manifest.enabled", true)
	v.SetDefault("manifest.path", DefaultManifestDir())
	v.SetDefault("manifest.retention_days", DefaultRetentionDays)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use DefaultLogPath
	v.SetDefault("logging.rotation.max_size", "10MB")
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.daily", true)
	v.SetDefault("logging.components", map[string]string{
		"scanner": "info",
		"mover":   "info",
		"watcher": "warn",
	})
}

// Configure points v at the config file locations and environment.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/vidsort/config.yaml
//   - $HOME/.config/vidsort/config.yaml
//
// Environment variables are prefixed with VIDSORT_ (e.g., VIDSORT_THRESHOLD_MB).
func Configure(v *viper.Viper) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, AppName))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".config", AppName))
	}

	v.SetEnvPrefix("VIDSORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
}

// Load loads configuration from file and environment variables.
// A missing config file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	Configure(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper decodes the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	manifestPath, err := ExpandPath(cfg.Manifest.Path)
	if err != nil {
		return nil, err
	}
	cfg.Manifest.Path = manifestPath

	bucketsDir, err := ExpandPath(cfg.Buckets.Dir)
	if err != nil {
		return nil, err
	}
	cfg.Buckets.Dir = bucketsDir

	return &cfg, nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, AppName), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", AppName), nil
}

// ConfigPath returns the path of the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// WriteDefault writes a default config file if none exists.
// It returns the path and whether a new file was written.
func WriteDefault() (string, bool, error) {
	if err := EnsureConfigDir(); err != nil {
		return "", false, err
	}

	configPath, err := ConfigPath()
	if err != nil {
		return "", false, err
	}

	if _, err := os.Stat(configPath); err == nil {
		return configPath, false, nil
	} else if !os.IsNotExist(err) {
		return "", false, fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# vidsort configuration

# Root to scan when no path argument is given
default_path: %s

# Size threshold in megabytes for move passes
threshold_mb: %d

# Megabyte convention for thresholds and reports: decimal (1000000) or binary (1048576)
units: %s

# Descend into subdirectories of the root
recursive: true

# Match extensions case-insensitively (.MP4 counts as .mp4)
ignore_case: false

# Extension category used by move passes
category: %s

# Recognized extensions per category
extensions:
  videos: [%s]

# Glob patterns or path prefixes to skip while scanning
exclude: []

# Directory walker workers
workers: %d

# Parent directory of small_files and large_files (empty: current directory)
buckets:
  dir: ""

watch:
  debounce: %s

# Move history
manifest:
  enabled: true
  path: %s
  retention_days: %d

logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/vidsort/vidsort.log)
  path: ""
  rotation:
    max_size: 10MB
    max_age: 30       # days
    max_backups: 5
    daily: true
  components:
    scanner: info
    mover: info
    watcher: warn
`, DefaultPath, DefaultThresholdMB, DefaultUnits, DefaultCategory,
		strings.Join(DefaultVideoExtensions, ", "), DefaultWorkers, DefaultDebounce,
		DefaultManifestDir(), DefaultRetentionDays)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write default config: %w", err)
	}

	return configPath, true, nil
}

// ExpandPath expands ~ in a path to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, path[1:]), nil
}

// DataDir returns $XDG_DATA_HOME/vidsort/ for the move history.
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// StateDir returns $XDG_STATE_HOME/vidsort/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// DefaultManifestDir returns the default move history directory.
func DefaultManifestDir() string {
	return filepath.Join(DataDir(), "history")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(StateDir(), AppName+".log")
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() error {
	if err := os.MkdirAll(StateDir(), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return nil
}
