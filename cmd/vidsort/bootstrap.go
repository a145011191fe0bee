package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/vidsort/pkg/vidsort/config"
	"github.com/jamesainslie/vidsort/pkg/vidsort/logging"
	"github.com/jamesainslie/vidsort/pkg/vidsort/types"
)

var log = logging.Get("cli")

// initializeLogging is the root PersistentPreRunE hook. It creates the XDG
// directories and starts file logging; --verbose also mirrors records to
// stderr at debug level.
func initializeLogging(_ *cobra.Command, _ []string) error {
	if err := ensureDirectories(); err != nil {
		return err
	}

	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return err
	}

	logCfg := logging.Config{
		Level:      cfg.Logging.Level,
		Path:       cfg.Logging.Path,
		Rotation:   parseRotationConfig(cfg.Logging.Rotation),
		Components: cfg.Logging.Components,
	}
	if logCfg.Level == "" {
		logCfg.Level = "info"
	}
	if logCfg.Path == "" {
		logCfg.Path = config.DefaultLogPath()
	}
	if getVerbose() {
		logCfg.Level = "debug"
		logCfg.Components = nil
		logCfg.ConsoleLevel = "debug"
	}

	if err := logging.Init(logCfg); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}

	if configErr != nil {
		log.Warn("config file not loaded", "error", configErr)
		printError("failed to read config file, using defaults: %v", configErr)
	} else if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("loaded config", "path", used)
	}

	return nil
}

func ensureDirectories() error {
	if err := config.EnsureConfigDir(); err != nil {
		return err
	}
	if err := os.MkdirAll(config.DataDir(), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return config.EnsureStateDir()
}

// closeLogging flushes the log file at exit.
func closeLogging() {
	if err := logging.Close(); err != nil {
		printError("closing log: %v", err)
	}
}

// parseRotationConfig converts the config file form, where max_size is a
// human-readable string, into logging.RotationConfig. An empty or invalid
// max_size falls back to the default.
func parseRotationConfig(rc config.RotationConfig) logging.RotationConfig {
	out := logging.RotationConfig{
		MaxSize:    logging.DefaultRotationConfig().MaxSize,
		MaxAge:     rc.MaxAge,
		MaxBackups: rc.MaxBackups,
		Daily:      rc.Daily,
	}
	if rc.MaxSize != "" {
		if size, err := types.ParseSize(rc.MaxSize); err == nil && size > 0 {
			out.MaxSize = size
		}
	}
	return out
}
