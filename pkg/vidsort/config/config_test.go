package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DefaultPath != DefaultPath {
		t.Errorf("DefaultPath = %q, want %q", cfg.DefaultPath, DefaultPath)
	}
	if cfg.ThresholdMB != DefaultThresholdMB {
		t.Errorf("ThresholdMB = %d, want %d", cfg.ThresholdMB, DefaultThresholdMB)
	}
	if cfg.Units != DefaultUnits {
		t.Errorf("Units = %q, want %q", cfg.Units, DefaultUnits)
	}
	if !cfg.Recursive {
		t.Error("Recursive = false, want true")
	}
	if cfg.IgnoreCase {
		t.Error("IgnoreCase = true, want false")
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want %d", cfg.Workers, DefaultWorkers)
	}
	if cfg.Watch.Debounce != DefaultDebounce {
		t.Errorf("Watch.Debounce = %v, want %v", cfg.Watch.Debounce, DefaultDebounce)
	}
	if !cfg.Manifest.Enabled {
		t.Error("Manifest.Enabled = false, want true")
	}
	if cfg.Manifest.RetentionDays != DefaultRetentionDays {
		t.Errorf("Manifest.RetentionDays = %d, want %d", cfg.Manifest.RetentionDays, DefaultRetentionDays)
	}
	if cfg.Buckets.Dir != "" {
		t.Errorf("Buckets.Dir = %q, want empty", cfg.Buckets.Dir)
	}

	found := false
	for label, exts := range cfg.Extensions {
		if strings.EqualFold(label, DefaultCategory) {
			found = true
			if len(exts) != len(DefaultVideoExtensions) {
				t.Errorf("len(Extensions[%s]) = %d, want %d", label, len(exts), len(DefaultVideoExtensions))
			}
		}
	}
	if !found {
		t.Errorf("Extensions = %v, want a %s category", cfg.Extensions, DefaultCategory)
	}
}

func TestLoad_FromFile(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".config", AppName)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configContent := `
default_path: /media/inbox
threshold_mb: 250
units: binary
recursive: false
ignore_case: true
extensions:
  videos: [.mkv, .mp4]
  clips: [.gif]
exclude:
  - "*.part"
buckets:
  dir: /media/sorted
watch:
  debounce: 5s
manifest:
  enabled: false
  path: /custom/history
  retention_days: 7
`
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DefaultPath != "/media/inbox" {
		t.Errorf("DefaultPath = %q, want %q", cfg.DefaultPath, "/media/inbox")
	}
	if cfg.ThresholdMB != 250 {
		t.Errorf("ThresholdMB = %d, want 250", cfg.ThresholdMB)
	}
	if cfg.Units != "binary" {
		t.Errorf("Units = %q, want binary", cfg.Units)
	}
	if cfg.Recursive {
		t.Error("Recursive = true, want false")
	}
	if !cfg.IgnoreCase {
		t.Error("IgnoreCase = false, want true")
	}
	if got := cfg.Extensions["videos"]; len(got) != 2 || got[0] != ".mkv" {
		t.Errorf("Extensions[videos] = %v, want [.mkv .mp4]", got)
	}
	if got := cfg.Extensions["clips"]; len(got) != 1 {
		t.Errorf("Extensions[clips] = %v, want [.gif]", got)
	}
	if len(cfg.Exclude) != 1 || cfg.Exclude[0] != "*.part" {
		t.Errorf("Exclude = %v, want [*.part]", cfg.Exclude)
	}
	if cfg.Buckets.Dir != "/media/sorted" {
		t.Errorf("Buckets.Dir = %q, want /media/sorted", cfg.Buckets.Dir)
	}
	if cfg.Watch.Debounce != 5*time.Second {
		t.Errorf("Watch.Debounce = %v, want 5s", cfg.Watch.Debounce)
	}
	if cfg.Manifest.Enabled {
		t.Error("Manifest.Enabled = true, want false")
	}
	if cfg.Manifest.Path != "/custom/history" {
		t.Errorf("Manifest.Path = %q, want /custom/history", cfg.Manifest.Path)
	}
	if cfg.Manifest.RetentionDays != 7 {
		t.Errorf("Manifest.RetentionDays = %d, want 7", cfg.Manifest.RetentionDays)
	}
}

func TestLoad_XDGConfigHome(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, AppName)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("threshold_mb: 42\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ThresholdMB != 42 {
		t.Errorf("ThresholdMB = %d, want 42", cfg.ThresholdMB)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("VIDSORT_THRESHOLD_MB", "7")
	t.Setenv("VIDSORT_UNITS", "binary")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ThresholdMB != 7 {
		t.Errorf("ThresholdMB = %d, want 7", cfg.ThresholdMB)
	}
	if cfg.Units != "binary" {
		t.Errorf("Units = %q, want binary", cfg.Units)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, AppName)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("threshold_mb: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("XDG_CONFIG_HOME", tempDir)

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want parse error")
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("uses XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/xdg")
		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() error = %v", err)
		}
		if dir != filepath.Join("/xdg", AppName) {
			t.Errorf("ConfigDir() = %q, want %q", dir, filepath.Join("/xdg", AppName))
		}
	})

	t.Run("falls back to home", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", home)
		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() error = %v", err)
		}
		want := filepath.Join(home, ".config", AppName)
		if dir != want {
			t.Errorf("ConfigDir() = %q, want %q", dir, want)
		}
	})
}

func TestWriteDefault(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	path, created, err := WriteDefault()
	if err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	if !created {
		t.Error("WriteDefault() created = false on first call")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written config: %v", err)
	}
	if !strings.Contains(string(data), "threshold_mb: 100") {
		t.Errorf("default config missing threshold_mb:\n%s", data)
	}

	// The written file must load cleanly.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() after WriteDefault() error = %v", err)
	}
	if cfg.ThresholdMB != DefaultThresholdMB {
		t.Errorf("ThresholdMB = %d, want %d", cfg.ThresholdMB, DefaultThresholdMB)
	}

	_, created, err = WriteDefault()
	if err != nil {
		t.Fatalf("second WriteDefault() error = %v", err)
	}
	if created {
		t.Error("WriteDefault() overwrote an existing config")
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		input string
		want  string
	}{
		{input: "~/videos", want: filepath.Join(home, "videos")},
		{input: "~", want: home},
		{input: "/abs/path", want: "/abs/path"},
		{input: "relative", want: "relative"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			if err != nil {
				t.Fatalf("ExpandPath() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDefaultPaths(t *testing.T) {
	if !strings.HasSuffix(DefaultLogPath(), filepath.Join(AppName, AppName+".log")) {
		t.Errorf("DefaultLogPath() = %q", DefaultLogPath())
	}
	if !strings.HasSuffix(DefaultManifestDir(), filepath.Join(AppName, "history")) {
		t.Errorf("DefaultManifestDir() = %q", DefaultManifestDir())
	}
}
