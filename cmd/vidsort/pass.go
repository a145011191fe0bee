package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jamesainslie/vidsort/pkg/vidsort/config"
	"github.com/jamesainslie/vidsort/pkg/vidsort/filter"
	"github.com/jamesainslie/vidsort/pkg/vidsort/manifest"
	"github.com/jamesainslie/vidsort/pkg/vidsort/mover"
	"github.com/jamesainslie/vidsort/pkg/vidsort/output"
	"github.com/jamesainslie/vidsort/pkg/vidsort/scanner"
	"github.com/jamesainslie/vidsort/pkg/vidsort/types"
)

// passRunner performs scan, filter and move for one bucket. The move and
// watch commands share it.
type passRunner struct {
	bucket  types.Bucket
	root    string
	unit    types.Unit
	scan    scanner.Options
	filter  *filter.Filter
	mover   *mover.Mover
	history *manifest.Manifest

	out    io.Writer
	format string
	quiet  bool
}

// newPassRunner builds a runner from cfg. Output goes to out in format.
func newPassRunner(cfg *config.Config, bucket types.Bucket, root string, out io.Writer, format string) (*passRunner, error) {
	unit, err := parseUnit(cfg)
	if err != nil {
		return nil, err
	}

	base, err := bucketBase(cfg)
	if err != nil {
		return nil, err
	}

	f, err := buildMoveFilter(cfg)
	if err != nil {
		return nil, err
	}

	mv, err := buildMover(cfg, base, unit)
	if err != nil {
		return nil, err
	}

	scanOpts := buildScanOptions(cfg, root, base)
	if err := scanOpts.Validate(); err != nil {
		return nil, err
	}

	if _, err := output.Get(format); err != nil {
		return nil, err
	}

	r := &passRunner{
		bucket: bucket,
		root:   root,
		unit:   unit,
		scan:   scanOpts,
		filter: f,
		mover:  mv,
		out:    out,
		format: format,
		quiet:  getQuiet(),
	}

	if cfg.Manifest.Enabled {
		m, err := manifest.New(cfg.Manifest.Path)
		if err != nil {
			log.Warn("move history disabled", "path", cfg.Manifest.Path, "error", err)
		} else {
			r.history = m
		}
	}

	return r, nil
}

// run performs one pass. The pass result is rendered and recorded even
// when the mover stops early, so partial progress is never hidden.
func (r *passRunner) run(ctx context.Context) (*types.PassResult, error) {
	start := time.Now()

	scanned, err := scanner.New(r.scan).Scan(ctx)
	if err != nil {
		return nil, err
	}

	files := r.filter.Apply(scanned.Files)
	log.Info("starting pass",
		"bucket", r.bucket,
		"root", r.root,
		"matched", len(files),
		"scanned", scanned.FilesScanned,
		"threshold", r.mover.Threshold(),
	)

	pass, passErr := r.mover.Run(ctx, r.bucket, files)
	elapsed := time.Since(start)

	if r.history != nil && (len(pass.Moved) > 0 || passErr != nil) {
		if entry, err := r.history.LogPass(r.root, pass, r.unit, passErr); err != nil {
			log.Warn("failed to record pass", "error", err)
		} else {
			log.Debug("recorded pass", "id", entry.ID)
		}
	}

	if err := r.render(pass, elapsed); err != nil {
		return pass, err
	}

	if passErr != nil {
		return pass, fmt.Errorf("%s pass stopped after %d moves: %w", r.bucket, len(pass.Moved), passErr)
	}

	log.Info("pass complete",
		"bucket", r.bucket,
		"moved", len(pass.Moved),
		"kept", len(pass.Kept),
		"vanished", len(pass.Vanished),
		"elapsed", elapsed,
	)
	return pass, nil
}

func (r *passRunner) render(pass *types.PassResult, elapsed time.Duration) error {
	if r.quiet && r.format != "json" && r.format != "yaml" {
		return nil
	}

	formatter, err := output.Get(r.format)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, output.FromPass(r.root, pass, r.unit, elapsed)); err != nil {
		return fmt.Errorf("formatting result: %w", err)
	}
	_, err = buf.WriteTo(r.out)
	return err
}
