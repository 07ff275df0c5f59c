package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idveil/idveil/internal/batch"
	"github.com/idveil/idveil/internal/config"
	"github.com/idveil/idveil/internal/inspect"
	"github.com/idveil/idveil/internal/log"
	"github.com/idveil/idveil/internal/plan"
	"github.com/idveil/idveil/internal/shift"
	"github.com/idveil/idveil/internal/table"
)

type globalOptions struct {
	Verbose bool
	Config  string
}

func main() {
	rootOpts := &globalOptions{}
	root := &cobra.Command{
		Use:   "idveil",
		Short: "Reversible identifier obfuscation for tabular files",
		RunE: func(cmd *cobra.Command, args []string) error {
			direction, err := promptDirection(cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return runBatch(cmd, rootOpts, direction, "", "")
		},
	}

	root.PersistentFlags().BoolVar(&rootOpts.Verbose, "verbose", false, "enable debug logging")
	root.PersistentFlags().StringVar(&rootOpts.Config, "config", "", "settings file (yaml)")

	root.AddCommand(batchCmd(rootOpts, shift.Forward))
	root.AddCommand(batchCmd(rootOpts, shift.Backward))
	root.AddCommand(planCmd(rootOpts))
	root.AddCommand(inspectCmd(rootOpts))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func batchCmd(rootOpts *globalOptions, direction shift.Direction) *cobra.Command {
	var inDir string
	var outDir string
	cmdName := "sanitize"
	cmdShort := "Obfuscate identifier columns in a directory of tabular files"
	if direction == shift.Backward {
		cmdName = "desanitize"
		cmdShort = "Recover identifier values from sanitized tabular files"
	}
	cmd := &cobra.Command{
		Use:   cmdName,
		Short: cmdShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, rootOpts, direction, inDir, outDir)
		},
	}
	cmd.Flags().StringVar(&inDir, "in", "", "input directory")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory")
	return cmd
}

func planCmd(rootOpts *globalOptions) *cobra.Command {
	var inDir string
	var desanitize bool
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show which columns a batch run would augment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.Config)
			if err != nil {
				return err
			}
			direction := shift.Forward
			if desanitize {
				direction = shift.Backward
			}
			in, _ := resolveDirs(cfg, direction, inDir, "")
			logger := newLogger(rootOpts, cmd.OutOrStdout())
			return plan.Run(cmd.Context(), in, columnMapping(cfg, direction), direction, logger)
		},
	}
	cmd.Flags().StringVar(&inDir, "in", "", "input directory")
	cmd.Flags().BoolVar(&desanitize, "desanitize", false, "plan the backward direction")
	return cmd
}

func inspectCmd(rootOpts *globalOptions) *cobra.Command {
	var inDir string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List files, tables and identifier-column candidates",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootOpts.Config)
			if err != nil {
				return err
			}
			in, _ := resolveDirs(cfg, shift.Forward, inDir, "")
			logger := newLogger(rootOpts, cmd.OutOrStdout())
			return inspect.Run(cmd.Context(), in, logger)
		},
	}
	cmd.Flags().StringVar(&inDir, "in", "", "input directory")
	return cmd
}

func runBatch(cmd *cobra.Command, rootOpts *globalOptions, direction shift.Direction, inDir, outDir string) error {
	cfg, err := config.Load(rootOpts.Config)
	if err != nil {
		return err
	}
	in, out := resolveDirs(cfg, direction, inDir, outDir)
	logger := newLogger(rootOpts, cmd.OutOrStdout())
	start := time.Now()
	summary, err := batch.Run(cmd.Context(), batch.Options{
		InputDir:  in,
		OutputDir: out,
		Direction: direction,
		Mapping:   columnMapping(cfg, direction),
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	logger.Infof("%s complete in %s: %d processed, %d failed",
		direction, time.Since(start).Round(time.Millisecond), summary.Processed, summary.Failed)
	return nil
}

// resolveDirs picks directories in precedence order: flag, config file,
// then the conventional per-mode defaults.
func resolveDirs(cfg *config.Config, direction shift.Direction, inFlag, outFlag string) (string, string) {
	in := inFlag
	out := outFlag
	if in == "" {
		in = cfg.InputDir
	}
	if out == "" {
		out = cfg.OutputDir
	}
	if in == "" {
		if direction == shift.Backward {
			in = "Undesanitized"
		} else {
			in = "Unsanitized"
		}
	}
	if out == "" {
		if direction == shift.Backward {
			out = "Desanitized"
		} else {
			out = "Sanitized"
		}
	}
	return in, out
}

func columnMapping(cfg *config.Config, direction shift.Direction) table.Mapping {
	m := cfg.Sanitize
	if direction == shift.Backward {
		m = cfg.Desanitize
	}
	if len(m) == 0 {
		return table.DefaultMapping(direction)
	}
	return table.Mapping(m)
}

func newLogger(rootOpts *globalOptions, out io.Writer) *log.Logger {
	level := log.LevelInfo
	if rootOpts.Verbose {
		level = log.LevelDebug
	}
	return log.New(level, out)
}

// promptDirection asks the single startup question selecting the mode.
// Unrecognized answers re-prompt; end of input without a valid answer is
// an error.
func promptDirection(in io.Reader, out io.Writer) (shift.Direction, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintln(out, "Sanitize data? [y/n]")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return shift.Forward, fmt.Errorf("read mode: %w", err)
			}
			return shift.Forward, fmt.Errorf("no mode selected")
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			return shift.Forward, nil
		case "n", "no":
			return shift.Backward, nil
		}
		fmt.Fprintln(out, "Please answer y or n.")
	}
}
