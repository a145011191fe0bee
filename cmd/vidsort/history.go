package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/vidsort/pkg/vidsort/config"
	"github.com/jamesainslie/vidsort/pkg/vidsort/manifest"
	"github.com/jamesainslie/vidsort/pkg/vidsort/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View move history",
	Long: `View the history of move passes and cleanups.

Every pass that moved files, and every clean that removed something, is
recorded with the files involved. The history is a record only; it
cannot undo an operation.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show details of a specific operation",
	Long:  `Display the files of one operation. A unique ID prefix is enough.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean up old history entries",
	Long:  `Remove history entries older than manifest.retention_days.`,
	Args:  cobra.NoArgs,
	RunE:  runHistoryClean,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// openManifest returns the manifest at the configured directory.
func openManifest() (*manifest.Manifest, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	path := cfg.Manifest.Path
	if path == "" {
		path = config.DefaultManifestDir()
	}
	m, err := manifest.New(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize manifest: %w", err)
	}
	return m, cfg, nil
}

// runHistory lists recent operations.
func runHistory(cmd *cobra.Command, _ []string) error {
	m, _, err := openManifest()
	if err != nil {
		return err
	}

	entries, err := m.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No history entries found.")
		return nil
	}

	writeHistoryList(out, entries)
	fmt.Fprintln(out, "\nUse 'vidsort history show <id>' for details on a specific entry.")
	return nil
}

func writeHistoryList(w io.Writer, entries []manifest.Entry) {
	fmt.Fprintf(w, "\n%-42s  %-10s  %-6s  %-10s  %s\n", "ID", "TYPE", "FILES", "SIZE", "WHEN")
	fmt.Fprintln(w, strings.Repeat("-", 90))

	for _, entry := range entries {
		status := ""
		if entry.Error != "" {
			status = "  (stopped)"
		}
		fmt.Fprintf(w, "%-42s  %-10s  %-6d  %-10s  %s%s\n",
			truncateString(entry.ID, 42),
			entry.Operation,
			entry.Summary.TotalFiles,
			types.FormatSize(entry.Summary.TotalBytes),
			humanize.Time(entry.Timestamp),
			status,
		)
	}

	fmt.Fprintln(w, strings.Repeat("-", 90))
}

// runHistoryShow displays details of a specific operation.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	m, _, err := openManifest()
	if err != nil {
		return err
	}

	entry, err := m.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	writeHistoryEntry(cmd.OutOrStdout(), entry)
	return nil
}

func writeHistoryEntry(w io.Writer, entry *manifest.Entry) {
	fmt.Fprintln(w, "\nOperation Details")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "ID:         %s\n", entry.ID)
	fmt.Fprintf(w, "Timestamp:  %s\n", entry.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Operation:  %s\n", entry.Operation)
	fmt.Fprintf(w, "Root:       %s\n", entry.Root)
	fmt.Fprintf(w, "Files:      %d\n", entry.Summary.TotalFiles)
	fmt.Fprintf(w, "Total Size: %s\n", types.FormatSize(entry.Summary.TotalBytes))
	if entry.Summary.Threshold > 0 {
		fmt.Fprintf(w, "Threshold:  %s bytes (%s)\n", humanize.Comma(entry.Summary.Threshold), entry.Summary.Unit)
	}
	if entry.Summary.Kept > 0 || entry.Summary.Vanished > 0 {
		fmt.Fprintf(w, "Kept:       %d, vanished: %d\n", entry.Summary.Kept, entry.Summary.Vanished)
	}
	if entry.Error != "" {
		fmt.Fprintf(w, "Error:      %s\n", entry.Error)
	}

	if len(entry.Files) == 0 {
		return
	}

	fmt.Fprintln(w, "\nFiles:")
	fmt.Fprintln(w, strings.Repeat("-", 60))

	// Limit display to 50 files
	limit := min(len(entry.Files), 50)
	for _, file := range entry.Files[:limit] {
		if file.Dest != "" {
			fmt.Fprintf(w, "%-12s  %s -> %s\n", types.FormatSize(file.Size), file.Source, file.Dest)
		} else {
			fmt.Fprintf(w, "%-12s  %s\n", types.FormatSize(file.Size), file.Source)
		}
	}

	if len(entry.Files) > limit {
		fmt.Fprintf(w, "\n... and %d more files\n", len(entry.Files)-limit)
	}
}

// runHistoryClean removes old history entries.
func runHistoryClean(cmd *cobra.Command, _ []string) error {
	m, cfg, err := openManifest()
	if err != nil {
		return err
	}

	retentionDays := cfg.Manifest.RetentionDays
	if retentionDays <= 0 {
		retentionDays = config.DefaultRetentionDays
	}

	removed, err := m.Cleanup(retentionDays)
	if err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	printInfo("Removed %d history entries older than %d days.", removed, retentionDays)
	return nil
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
