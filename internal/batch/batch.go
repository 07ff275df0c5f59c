// Package batch runs a whole input directory through the augmenter, one
// file at a time. A file that cannot be read or written is reported and
// skipped; it never stops the rest of the batch.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/idveil/idveil/internal/log"
	"github.com/idveil/idveil/internal/shift"
	"github.com/idveil/idveil/internal/tabfile"
	"github.com/idveil/idveil/internal/table"
)

type Options struct {
	InputDir  string
	OutputDir string
	Direction shift.Direction
	Mapping   table.Mapping
	Logger    *log.Logger
}

type Summary struct {
	Processed int
	Failed    int
}

func Run(ctx context.Context, opts Options) (*Summary, error) {
	if opts.InputDir == "" || opts.OutputDir == "" {
		return nil, fmt.Errorf("input and output directories are required")
	}
	if opts.Mapping == nil {
		opts.Mapping = table.DefaultMapping(opts.Direction)
	}

	files, err := tabfile.List(opts.InputDir)
	if err != nil {
		return nil, err
	}
	summary := &Summary{}
	if len(files) == 0 {
		if opts.Logger != nil {
			opts.Logger.Infof("no supported files found in %s", opts.InputDir)
		}
		return summary, nil
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	if opts.Logger != nil {
		opts.Logger.Infof("files to %s:", opts.Direction)
		for _, f := range files {
			opts.Logger.Infof(" - %s", filepath.Base(f))
		}
	}

	for _, path := range files {
		if err := processFile(ctx, path, opts); err != nil {
			summary.Failed++
			if opts.Logger != nil {
				opts.Logger.Errorf("skip %s: %v", filepath.Base(path), err)
			}
			continue
		}
		summary.Processed++
	}
	return summary, nil
}

func processFile(ctx context.Context, path string, opts Options) error {
	tables, err := tabfile.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	for _, t := range tables {
		table.Augment(t, opts.Mapping, opts.Direction)
		if opts.Logger != nil && t.Name != "" {
			opts.Logger.Debugf("%s: table %s (%d rows)", filepath.Base(path), t.Name, len(t.Rows))
		}
	}
	outPath := filepath.Join(opts.OutputDir, tabfile.OutputName(path, opts.Direction))
	if err := tabfile.Write(ctx, outPath, tables); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if opts.Logger != nil {
		opts.Logger.Infof("%s -> %s", filepath.Base(path), filepath.Base(outPath))
	}
	return nil
}
