package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/vidsort/pkg/vidsort/cleanup"
	"github.com/jamesainslie/vidsort/pkg/vidsort/manifest"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the small_files and large_files directories",
	Long: `Clean deletes large_files and small_files, with everything inside them,
from the buckets directory (default: current directory). Missing
directories are skipped. There is no confirmation prompt.

With --trash the directories go to the system trash instead, when one
is available.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().Bool("trash", false, "move directories to the system trash instead of deleting")
	_ = viper.BindPFlag("trash", cleanCmd.Flags().Lookup("trash"))

	rootCmd.AddCommand(cleanCmd)
}

// runClean removes both bucket directories.
func runClean(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	base, err := bucketBase(cfg)
	if err != nil {
		return err
	}

	res, err := cleanup.RemoveContext(cmd.Context(), base, cleanup.Options{Trash: viper.GetBool("trash")})
	if err != nil {
		return err
	}

	if cfg.Manifest.Enabled && len(res.Removed)+len(res.Trashed) > 0 {
		if m, err := manifest.New(cfg.Manifest.Path); err != nil {
			log.Warn("move history disabled", "error", err)
		} else if _, err := m.LogClean(base, res); err != nil {
			log.Warn("failed to record cleanup", "error", err)
		}
	}

	for _, dir := range res.Removed {
		printInfo("Removed %s", dir)
	}
	for _, dir := range res.Trashed {
		printInfo("Trashed %s", dir)
	}
	if len(res.Removed)+len(res.Trashed) == 0 {
		printInfo("Nothing to clean in %s", base)
	}
	return nil
}
