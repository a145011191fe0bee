package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/vidsort/pkg/vidsort/report"
)

var reportCmd = &cobra.Command{
	Use:   "report [dir]",
	Short: "List the files in a directory with their sizes",
	Long: `Report lists the regular files directly inside dir (default: current
directory) with their sizes in megabytes. Subdirectories are not listed.

The plain format prints one "<name>: <size> MB" line per file.

Examples:
  vidsort report small_files             # Sizes of sorted small files
  vidsort report . --videos --sort size  # Videos only, largest first
  vidsort report large_files -o json     # Machine-readable listing`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().Bool("videos", false, "only list files of the configured category")
	reportCmd.Flags().String("sort", "name", "sort by: name, size, age, path")
	reportCmd.Flags().BoolP("reverse", "r", false, "reverse the sort order")
	reportCmd.Flags().IntP("limit", "l", 0, "maximum number of files to list (0=all)")

	_ = viper.BindPFlag("videos", reportCmd.Flags().Lookup("videos"))
	_ = viper.BindPFlag("sort", reportCmd.Flags().Lookup("sort"))
	_ = viper.BindPFlag("reverse", reportCmd.Flags().Lookup("reverse"))
	_ = viper.BindPFlag("limit", reportCmd.Flags().Lookup("limit"))

	rootCmd.AddCommand(reportCmd)
}

// runReport lists a directory.
func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	unit, err := parseUnit(cfg)
	if err != nil {
		return err
	}

	f, err := buildReportFilter(cfg)
	if err != nil {
		return err
	}

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	rep, err := report.List(dir, f)
	if err != nil {
		return err
	}

	return report.Render(cmd.OutOrStdout(), rep, unit, outputFormat())
}
