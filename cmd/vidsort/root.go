package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/vidsort/pkg/vidsort/config"
)

var (
	cfgFile string

	// configErr holds a config file read failure other than "not found".
	// It is reported once logging is up so that config edit can still run.
	configErr error

	rootCmd = &cobra.Command{
		Use:   "vidsort",
		Short: "Sort video files into small_files and large_files by size",
		Long: `Vidsort finds video files under a directory and moves them into a
small_files or large_files directory depending on a size threshold.

Examples:
  vidsort move small ~/Videos -t 100   # Move videos under 100 MB into ./small_files
  vidsort move large . -t 500 --flat   # Move videos over 500 MB, top level only
  vidsort report small_files           # List files with their sizes
  vidsort clean                        # Remove both bucket directories
  vidsort watch large ~/Downloads      # Keep sorting as new files arrive
  vidsort history                      # View past moves`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initializeLogging,
		PersistentPostRun: func(*cobra.Command, []string) {
			closeLogging()
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/vidsort/config.yaml)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output, mirrored to stderr")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format: plain, pretty, json, yaml (default: pretty on a terminal, plain otherwise)")

	// Pass flags shared by move and watch
	rootCmd.PersistentFlags().Int64P("threshold", "t", config.DefaultThresholdMB, "size threshold in megabytes")
	rootCmd.PersistentFlags().String("units", config.DefaultUnits, "megabyte convention: decimal or binary")
	rootCmd.PersistentFlags().Bool("flat", false, "only consider files directly inside the root")
	rootCmd.PersistentFlags().Bool("ignore-case", false, "match extensions case-insensitively")
	rootCmd.PersistentFlags().String("category", config.DefaultCategory, "extension category to move")
	rootCmd.PersistentFlags().String("buckets-dir", "", "parent directory of small_files and large_files (default: current directory)")
	rootCmd.PersistentFlags().StringSliceP("exclude", "e", nil, "exclude patterns (can be specified multiple times)")
	rootCmd.PersistentFlags().String("older-than", "", "only move files not modified within this duration (e.g. 7d, 2w, 12h)")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "directory walker workers (0=default)")

	// Bind flags to viper
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("threshold_mb", rootCmd.PersistentFlags().Lookup("threshold"))
	_ = viper.BindPFlag("units", rootCmd.PersistentFlags().Lookup("units"))
	_ = viper.BindPFlag("flat", rootCmd.PersistentFlags().Lookup("flat"))
	_ = viper.BindPFlag("ignore_case", rootCmd.PersistentFlags().Lookup("ignore-case"))
	_ = viper.BindPFlag("category", rootCmd.PersistentFlags().Lookup("category"))
	_ = viper.BindPFlag("buckets.dir", rootCmd.PersistentFlags().Lookup("buckets-dir"))
	_ = viper.BindPFlag("exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	_ = viper.BindPFlag("older_than", rootCmd.PersistentFlags().Lookup("older-than"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	// A .env file in the working directory may carry VIDSORT_* overrides.
	_ = godotenv.Load()

	config.Configure(viper.GetViper())
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	configErr = nil
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			configErr = err
		}
	}
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		return err
	}
	return nil
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
