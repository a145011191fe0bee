package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/jamesainslie/vidsort/pkg/vidsort/config"
	"github.com/jamesainslie/vidsort/pkg/vidsort/filter"
	"github.com/jamesainslie/vidsort/pkg/vidsort/mover"
	"github.com/jamesainslie/vidsort/pkg/vidsort/scanner"
	"github.com/jamesainslie/vidsort/pkg/vidsort/types"
)

// loadConfig decodes the configuration assembled by viper from defaults,
// the config file, the environment and bound flags.
func loadConfig() (*config.Config, error) {
	return config.FromViper(viper.GetViper())
}

// resolveRoot returns the absolute root named by args, falling back to
// default_path. ~ is expanded.
func resolveRoot(args []string, cfg *config.Config) (string, error) {
	path := cfg.DefaultPath
	if len(args) > 0 && args[0] != "" {
		path = args[0]
	}
	if path == "" {
		path = config.DefaultPath
	}

	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("failed to expand path: %w", err)
	}
	return scanner.ValidateRoot(expanded)
}

// parseUnit reads the units setting.
func parseUnit(cfg *config.Config) (types.Unit, error) {
	unit, err := types.ParseUnit(cfg.Units)
	if err != nil {
		return 0, fmt.Errorf("invalid units %q: %w", cfg.Units, err)
	}
	return unit, nil
}

// extensionSet returns the configured categories, or the built-in set when
// none are configured.
func extensionSet(cfg *config.Config) types.ExtensionSet {
	if len(cfg.Extensions) == 0 {
		return types.DefaultExtensions()
	}
	return types.NewExtensionSet(cfg.Extensions)
}

// buildMoveFilter creates the filter applied to scan results before a pass.
// Files keep enumeration order so moves happen in scan order.
func buildMoveFilter(cfg *config.Config) (*filter.Filter, error) {
	opts := []filter.Option{
		filter.WithCategory(cfg.Category),
		filter.WithIgnoreCase(cfg.IgnoreCase),
	}

	if olderThan := viper.GetString("older_than"); olderThan != "" {
		d, err := filter.ParseAge(olderThan)
		if err != nil {
			return nil, fmt.Errorf("invalid older-than %q: %w", olderThan, err)
		}
		opts = append(opts, filter.WithOlderThan(d))
	}

	f := filter.New(extensionSet(cfg), opts...)
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// buildReportFilter creates the filter for the report command. Without
// --videos every regular file is listed.
func buildReportFilter(cfg *config.Config) (*filter.Filter, error) {
	var opts []filter.Option

	if viper.GetBool("videos") {
		opts = append(opts, filter.WithCategory(cfg.Category), filter.WithIgnoreCase(cfg.IgnoreCase))
	} else {
		opts = append(opts, filter.WithAllExtensions())
	}

	if limit := viper.GetInt("limit"); limit > 0 {
		opts = append(opts, filter.WithLimit(limit))
	}

	sortBy := viper.GetString("sort")
	if sortBy == "" {
		sortBy = "name"
	}
	sortField, err := filter.ParseSortField(sortBy)
	if err != nil {
		return nil, fmt.Errorf("invalid sort field %q: %w", sortBy, err)
	}
	opts = append(opts, filter.WithSortBy(sortField))

	// Largest first for size; oldest first for age; A-Z for names.
	descending := sortField == filter.SortSize
	if viper.GetBool("reverse") {
		descending = !descending
	}
	opts = append(opts, filter.WithSortDescending(descending))

	f := filter.New(extensionSet(cfg), opts...)
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// bucketBase returns the absolute parent of the bucket directories.
func bucketBase(cfg *config.Config) (string, error) {
	base := cfg.Buckets.Dir
	if base == "" {
		base = "."
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("resolving buckets dir: %w", err)
	}
	return abs, nil
}

// buildScanOptions creates enumerator options for root. The bucket
// directories are always excluded so a pass never re-enumerates files it
// has already sorted.
func buildScanOptions(cfg *config.Config, root, base string) scanner.Options {
	exclude := make([]string, 0, len(cfg.Exclude)+len(types.Buckets))
	exclude = append(exclude, cfg.Exclude...)
	for _, b := range types.Buckets {
		exclude = append(exclude, b.Dir(base))
	}

	return scanner.Options{
		Root:      root,
		Recursive: cfg.Recursive && !viper.GetBool("flat"),
		Exclude:   exclude,
		Workers:   cfg.Workers,
	}
}

// buildMover creates a mover for the configured threshold and base.
func buildMover(cfg *config.Config, base string, unit types.Unit) (*mover.Mover, error) {
	return mover.New(mover.Options{
		BaseDir:     base,
		ThresholdMB: cfg.ThresholdMB,
		Unit:        unit,
	})
}

// outputFormat returns the requested format, or pretty on a terminal and
// plain otherwise.
func outputFormat() string {
	if format := strings.TrimSpace(viper.GetString("output")); format != "" {
		return strings.ToLower(format)
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "pretty"
	}
	return "plain"
}
