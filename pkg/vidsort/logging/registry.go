package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// registry holds the process-wide logging setup. Component loggers are
// cached by name and rebuilt in place whenever the setup changes, so
// package-level loggers obtained at init time follow Init and Close.
type registry struct {
	mu      sync.RWMutex
	active  bool
	writer  *RotatingWriter
	level   Level
	levels  map[string]Level
	loggers map[string]*Logger

	console      io.Writer
	consoleLevel Level
}

var global = &registry{
	loggers: make(map[string]*Logger),
	levels:  make(map[string]Level),
}

// Init initializes the logging system with the given configuration.
// Before Init is called, all loggers write to io.Discard. Calling Init
// again replaces the previous setup.
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	levels := make(map[string]Level, len(cfg.Components))
	for comp, name := range cfg.Components {
		lvl, err := ParseLevel(name)
		if err != nil {
			return fmt.Errorf("parsing level for component %s: %w", comp, err)
		}
		levels[comp] = lvl
	}

	var console io.Writer
	var consoleLevel Level
	if cfg.ConsoleLevel != "" {
		if consoleLevel, err = ParseLevel(cfg.ConsoleLevel); err != nil {
			return fmt.Errorf("parsing console level: %w", err)
		}
		console = cfg.Console
		if console == nil {
			console = os.Stderr
		}
	}

	path := cfg.Path
	if path == "" {
		path = DefaultLogPath()
	}

	global.mu.Lock()
	defer global.mu.Unlock()

	if err := global.closeWriter(); err != nil {
		return err
	}

	writer, err := NewRotatingWriter(path, cfg.Rotation)
	if err != nil {
		global.active = false
		global.rebuild()
		return fmt.Errorf("creating log writer: %w", err)
	}

	global.active = true
	global.writer = writer
	global.level = level
	global.levels = levels
	global.console = console
	global.consoleLevel = consoleLevel
	global.rebuild()

	return nil
}

// Get returns the logger for the given component, creating it on first use.
func Get(component string) *Logger {
	global.mu.RLock()
	logger, ok := global.loggers[component]
	global.mu.RUnlock()
	if ok {
		return logger
	}

	global.mu.Lock()
	defer global.mu.Unlock()

	if logger, ok := global.loggers[component]; ok {
		return logger
	}
	logger = global.build(component)
	global.loggers[component] = logger
	return logger
}

// Close flushes and closes the log file. Loggers revert to io.Discard.
func Close() error {
	global.mu.Lock()
	defer global.mu.Unlock()

	if !global.active {
		return nil
	}

	global.active = false
	global.console = nil
	global.levels = make(map[string]Level)
	global.rebuild()

	return global.closeWriter()
}

// closeWriter must be called with mu held.
func (r *registry) closeWriter() error {
	if r.writer == nil {
		return nil
	}
	err := r.writer.Close()
	r.writer = nil
	if err != nil {
		return fmt.Errorf("closing log writer: %w", err)
	}
	return nil
}

// rebuild must be called with mu held.
func (r *registry) rebuild() {
	for component, logger := range r.loggers {
		*logger = *r.build(component)
	}
}

// build must be called with mu held.
func (r *registry) build(component string) *Logger {
	level := r.level
	if lvl, ok := r.levels[component]; ok {
		level = lvl
	}

	if !r.active {
		return &Logger{
			component: component,
			sinks: []*log.Logger{log.NewWithOptions(io.Discard, log.Options{
				Level:  level.charm(),
				Prefix: component,
			})},
		}
	}

	logger := &Logger{
		component: component,
		sinks: []*log.Logger{log.NewWithOptions(r.writer, log.Options{
			Level:           level.charm(),
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          component,
		})},
	}

	if r.console != nil {
		// The console never shows more than the component's own level allows.
		consoleLevel := max(r.consoleLevel, level)
		logger.sinks = append(logger.sinks, log.NewWithOptions(r.console, log.Options{
			Level:           consoleLevel.charm(),
			ReportTimestamp: true,
			TimeFormat:      "15:04:05",
			Prefix:          component,
		}))
	}

	return logger
}
