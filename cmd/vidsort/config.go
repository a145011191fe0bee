package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/vidsort/pkg/vidsort/config"
	"github.com/jamesainslie/vidsort/pkg/vidsort/types"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage vidsort configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/vidsort/config.yaml (if set)
  2. ~/.config/vidsort/config.yaml

Environment variables can override config file settings using the VIDSORT_
prefix, and a .env file in the working directory is loaded first:
  VIDSORT_THRESHOLD_MB=500
  VIDSORT_UNITS=binary
  VIDSORT_BUCKETS_DIR=/srv/sorted`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings from all sources.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long: `Open the configuration file in your default editor.

The editor is determined by:
  1. $VISUAL environment variable
  2. $EDITOR environment variable
  3. Falls back to 'vi'

If the config file doesn't exist, a default one will be created first.`,
	RunE: runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Long:  `Display the path to the configuration file.`,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// runConfigShow displays the current configuration.
func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	if configFile := viper.ConfigFileUsed(); configFile != "" && configErr == nil {
		fmt.Fprintf(out, "Config file: %s\n\n", configFile)
	} else {
		fmt.Fprintln(out, "Config file: (using defaults, no file found)")
		fmt.Fprintln(out)
	}

	writeConfig(out, cfg)

	fmt.Fprintln(out, "\nEnvironment Overrides:")
	fmt.Fprintln(out, "----------------------")
	anyOverrides := false
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "VIDSORT_") {
			fmt.Fprintln(out, kv)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Fprintln(out, "(none)")
	}

	return nil
}

func writeConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current Configuration:")
	fmt.Fprintln(w, "----------------------")
	fmt.Fprintf(w, "default_path:         %s\n", cfg.DefaultPath)
	fmt.Fprintf(w, "threshold_mb:         %d\n", cfg.ThresholdMB)
	fmt.Fprintf(w, "units:                %s\n", cfg.Units)
	fmt.Fprintf(w, "recursive:            %t\n", cfg.Recursive)
	fmt.Fprintf(w, "ignore_case:          %t\n", cfg.IgnoreCase)
	fmt.Fprintf(w, "category:             %s\n", strings.ToUpper(cfg.Category))
	set := extensionSet(cfg)
	for _, label := range set.Categories() {
		exts, _ := set.Lookup(label)
		fmt.Fprintf(w, "extensions.%-10s %s\n", strings.ToLower(label)+":", strings.Join(exts, " "))
	}
	fmt.Fprintf(w, "exclude:              %v\n", cfg.Exclude)
	fmt.Fprintf(w, "workers:              %d\n", cfg.Workers)
	bucketsDir := cfg.Buckets.Dir
	if bucketsDir == "" {
		bucketsDir = "(current directory)"
	}
	fmt.Fprintf(w, "buckets.dir:          %s\n", bucketsDir)
	fmt.Fprintf(w, "  small:              %s\n", types.SmallDirName)
	fmt.Fprintf(w, "  large:              %s\n", types.LargeDirName)
	fmt.Fprintf(w, "watch.debounce:       %s\n", cfg.Watch.Debounce)
	fmt.Fprintf(w, "manifest.enabled:     %t\n", cfg.Manifest.Enabled)
	fmt.Fprintf(w, "manifest.path:        %s\n", cfg.Manifest.Path)
	fmt.Fprintf(w, "manifest.retention:   %d days\n", cfg.Manifest.RetentionDays)
	fmt.Fprintf(w, "logging.level:        %s\n", cfg.Logging.Level)
	logPath := cfg.Logging.Path
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}
	fmt.Fprintf(w, "logging.path:         %s\n", logPath)
}

// runConfigEdit opens the config file in an editor.
func runConfigEdit(_ *cobra.Command, _ []string) error {
	configPath, _, err := config.WriteDefault()
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	printVerbose("Opening %s with %s", configPath, editor)

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor command failed: %w", err)
	}

	return nil
}

// runConfigInit creates a default config file.
func runConfigInit(_ *cobra.Command, _ []string) error {
	configPath, created, err := config.WriteDefault()
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	if !created {
		printInfo("Config file already exists: %s", configPath)
		printInfo("Use 'vidsort config edit' to modify it.")
		return nil
	}

	printInfo("Created default config file: %s", configPath)
	return nil
}

// runConfigPath shows the config file path.
func runConfigPath(cmd *cobra.Command, _ []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), configPath)

	if _, err := os.Stat(configPath); err == nil {
		printVerbose("File exists")
	} else if os.IsNotExist(err) {
		printVerbose("File does not exist (will use defaults)")
	}

	return nil
}
