package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/vidsort/pkg/vidsort/types"
)

var moveCmd = &cobra.Command{
	Use:   "move small|large [path]",
	Short: "Move videos below or above the threshold into a bucket",
	Long: `Move scans path (default: current directory) for files of the selected
category and moves them into a bucket directory:

  small   files strictly smaller than the threshold go to small_files/
  large   files strictly larger than the threshold go to large_files/

A file exactly at the threshold is left in place. Buckets are created
under the current directory unless --buckets-dir or buckets.dir is set.

Examples:
  vidsort move small -t 100              # Videos under 100 MB
  vidsort move large ~/Videos -t 1024    # Videos over 1024 MB
  vidsort move large . --units binary    # Threshold in MiB
  vidsort move small . --flat -o json    # Top level only, JSON result`,
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: []string{"small", "large"},
	RunE:      runMove,
}

func init() {
	rootCmd.AddCommand(moveCmd)
}

// runMove performs a single pass.
func runMove(cmd *cobra.Command, args []string) error {
	bucket, err := types.ParseBucket(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root, err := resolveRoot(args[1:], cfg)
	if err != nil {
		return err
	}

	runner, err := newPassRunner(cfg, bucket, root, cmd.OutOrStdout(), outputFormat())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printVerbose("Moving %s files under %s into %s", bucket, root, bucket.Dir(runner.mover.BaseDir()))
	_, err = runner.run(ctx)
	return err
}
