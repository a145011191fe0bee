package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jamesainslie/vidsort/pkg/vidsort/logging"
)

func countBackups(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	n := 0
	for _, e := range entries {
		if e.Name() != "vidsort.log" && strings.HasPrefix(e.Name(), "vidsort.") {
			n++
		}
	}
	return n
}

func TestRotationBySize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vidsort.log")

	w, err := logging.NewRotatingWriter(path, logging.RotationConfig{MaxSize: 100})
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}
	defer w.Close()

	line := []byte(strings.Repeat("x", 59) + "\n")
	for i := 0; i < 3; i++ {
		if _, err := w.Write(line); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	if got := countBackups(t, dir); got != 2 {
		t.Errorf("backups = %d, want 2", got)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat active file: %v", err)
	}
	if info.Size() != int64(len(line)) {
		t.Errorf("active size = %d, want %d", info.Size(), len(line))
	}
}

func TestRotationMaxBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vidsort.log")

	w, err := logging.NewRotatingWriter(path, logging.RotationConfig{MaxSize: 10, MaxBackups: 2})
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}
	defer w.Close()

	for i := 0; i < 6; i++ {
		if _, err := w.Write([]byte("0123456789")); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	if got := countBackups(t, dir); got != 2 {
		t.Errorf("backups = %d, want 2", got)
	}
}

func TestRotationPrunesOldBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vidsort.log")

	stale := filepath.Join(dir, "vidsort.20200101T000000.log")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatalf("writing stale backup: %v", err)
	}
	old := time.Now().Add(-10 * 24 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	w, err := logging.NewRotatingWriter(path, logging.RotationConfig{MaxAge: 7})
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}
	defer w.Close()

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale backup still present, stat err = %v", err)
	}
}

func TestRotationCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "vidsort", "vidsort.log")

	w, err := logging.NewRotatingWriter(path, logging.DefaultRotationConfig())
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}
	if w.Path() != path {
		t.Errorf("Path() = %q, want %q", w.Path(), path)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestRotationWriteAfterClose(t *testing.T) {
	w, err := logging.NewRotatingWriter(filepath.Join(t.TempDir(), "vidsort.log"), logging.RotationConfig{})
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := w.Write([]byte("late")); err == nil {
		t.Error("Write() after Close() succeeded")
	}
}

func TestRotationConcurrentWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := logging.NewRotatingWriter(filepath.Join(dir, "vidsort.log"), logging.RotationConfig{MaxSize: 1 << 20})
	if err != nil {
		t.Fatalf("NewRotatingWriter() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = w.Write([]byte("line\n"))
			}
		}()
	}
	wg.Wait()

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "vidsort.log"))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if got := strings.Count(string(data), "line\n"); got != 1000 {
		t.Errorf("lines = %d, want 1000", got)
	}
}
