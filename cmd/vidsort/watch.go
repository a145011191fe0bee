package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/vidsort/pkg/vidsort/types"
	"github.com/jamesainslie/vidsort/pkg/vidsort/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch small|large [path]",
	Short: "Keep moving files into a bucket as they arrive",
	Long: `Watch runs one move pass, then watches path for new or modified files.
Once the tree has been quiet for the debounce interval another full pass
runs. The bucket directories themselves are never watched.

Stop with Ctrl-C.

Examples:
  vidsort watch large ~/Downloads -t 500
  vidsort watch small . --debounce 10s`,
	Args:      cobra.RangeArgs(1, 2),
	ValidArgs: []string{"small", "large"},
	RunE:      runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", 0, "quiet period before a pass runs (default: watch.debounce, 2s)")
	_ = viper.BindPFlag("watch.debounce", watchCmd.Flags().Lookup("debounce"))

	rootCmd.AddCommand(watchCmd)
}

// runWatch performs an initial pass and then re-runs it on change.
func runWatch(cmd *cobra.Command, args []string) error {
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

	if _, err := runner.run(ctx); err != nil {
		return err
	}

	buckets := make([]string, 0, len(types.Buckets))
	for _, b := range types.Buckets {
		buckets = append(buckets, b.Dir(runner.mover.BaseDir()))
	}

	w, err := watcher.New(watcher.Options{
		Root:      root,
		Recursive: runner.scan.Recursive,
		Exclude:   buckets,
		Debounce:  cfg.Watch.Debounce,
	})
	if err != nil {
		return err
	}
	defer w.Close()

	printInfo("Watching %s (%d directories), Ctrl-C to stop", root, w.Paths())
	log.Info("watching", "root", root, "bucket", bucket, "dirs", w.Paths())

	return w.Run(ctx, func(ctx context.Context) error {
		_, err := runner.run(ctx)
		return err
	})
}
