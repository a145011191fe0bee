// Package watcher re-runs a move pass when new files settle under a root.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jamesainslie/vidsort/pkg/vidsort/config"
	"github.com/jamesainslie/vidsort/pkg/vidsort/logging"
)

var log = logging.Get("watcher")

// Options configures a Watcher.
type Options struct {
	// Root is the directory tree to watch.
	Root string

	// Recursive watches every subdirectory, including ones created later.
	Recursive bool

	// Exclude lists absolute directory prefixes that are never watched and
	// whose events are ignored, such as the bucket directories.
	Exclude []string

	// Debounce is how long the tree must stay quiet before a pass runs.
	// Zero uses config.DefaultDebounce.
	Debounce time.Duration
}

// Watcher collects create and write events and fires a callback once the
// tree has been quiet for the debounce interval.
type Watcher struct {
	opts    Options
	root    string
	watcher *fsnotify.Watcher

	mu     sync.Mutex
	paths  map[string]bool
	closed bool
}

// New creates a Watcher and registers watches below opts.Root.
func New(opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = config.DefaultDebounce
	}

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &fs.PathError{Op: "watch", Path: root, Err: errors.New("not a directory")}
	}

	exclude := make([]string, 0, len(opts.Exclude))
	for _, ex := range opts.Exclude {
		abs, err := filepath.Abs(ex)
		if err != nil {
			return nil, err
		}
		exclude = append(exclude, abs)
	}
	opts.Exclude = exclude

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		opts:    opts,
		root:    root,
		watcher: fsw,
		paths:   make(map[string]bool),
	}

	if err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Paths returns the number of directories being watched.
func (w *Watcher) Paths() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.paths)
}

// addTree watches dir and, when recursive, every directory below it.
// Symlinks are not followed.
func (w *Watcher) addTree(dir string) error {
	if !w.opts.Recursive {
		return w.addWatch(dir)
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == dir {
				return walkErr
			}
			return nil //nolint:nilerr // unreadable subdirectories are skipped
		}
		if !d.IsDir() {
			return nil
		}
		if w.excluded(path) {
			return filepath.SkipDir
		}
		return w.addWatch(path)
	})
}

func (w *Watcher) addWatch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed || w.paths[path] {
		return nil
	}
	if err := w.watcher.Add(path); err != nil {
		log.Warn("failed to add watch", "path", path, "error", err)
		return err
	}
	w.paths[path] = true
	return nil
}

func (w *Watcher) excluded(path string) bool {
	for _, ex := range w.opts.Exclude {
		if path == ex || isSubPath(path, ex) {
			return true
		}
	}
	return false
}

// Run blocks until ctx is cancelled, calling onSettle after each burst of
// relevant events. Errors from onSettle are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onSettle func(context.Context) error) error {
	timer := time.NewTimer(w.opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(event) {
				if pending && !timer.Stop() {
					<-timer.C
				}
				timer.Reset(w.opts.Debounce)
				pending = true
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watcher error", "error", err)

		case <-timer.C:
			pending = false
			log.Debug("tree settled, running pass", "root", w.root)
			if err := onSettle(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				log.Error("pass failed", "root", w.root, "error", err)
			}
		}
	}
}

// handleEvent updates watches and reports whether the event should
// schedule a pass.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if w.excluded(event.Name) {
		return false
	}

	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Lstat(event.Name)
		if err != nil {
			return false
		}
		if info.IsDir() {
			if w.opts.Recursive {
				_ = w.addTree(event.Name)
			}
			return true
		}
		return info.Mode().IsRegular()

	case event.Has(fsnotify.Write):
		return true

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.forget(event.Name)
	}
	return false
}

// forget drops watches on path and everything below it.
func (w *Watcher) forget(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for p := range w.paths {
		if p == path || isSubPath(p, path) {
			_ = w.watcher.Remove(p)
			delete(w.paths, p)
		}
	}
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	w.paths = make(map[string]bool)
	return w.watcher.Close()
}

func isSubPath(path, parent string) bool {
	return len(path) > len(parent) && path[:len(parent)+1] == parent+string(filepath.Separator)
}
