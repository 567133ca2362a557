package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"steamclip/internal/clips"
	"steamclip/internal/config"
	"steamclip/internal/logging"
	"steamclip/internal/pipeline"
	"steamclip/internal/remux"
	"steamclip/internal/steamlib"
)

var errClipsFailed = errors.New("some clips were not converted")

type convertFlags struct {
	input       string
	output      string
	gameIDs     []uint
	deleteAfter bool
	dryRun      bool
	timeout     time.Duration
	noVerify    bool
}

func (f *convertFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.input, "input", "i", "", "Directory searched for fg_* recording folders")
	flags.StringVarP(&f.output, "output", "o", "", "Directory for converted .mp4 files")
	flags.UintSliceVar(&f.gameIDs, "gameId", nil, "Only convert clips for this Steam app id (repeatable)")
	flags.BoolVar(&f.deleteAfter, "delete-after", false, "Delete each recording folder after it converts successfully")
	flags.BoolVarP(&f.dryRun, "dry-run", "n", false, "Show what would be converted without writing or deleting anything")
	flags.DurationVar(&f.timeout, "timeout", 0, "Per-clip ffmpeg timeout (e.g. 10m)")
	flags.BoolVar(&f.noVerify, "no-verify", false, "Skip the ffprobe check of each converted file")
}

// apply copies flag values over cfg and re-validates it. A lone positional
// argument is the input directory.
func (f *convertFlags) apply(cmd *cobra.Command, cfg *config.Config, args []string) error {
	flags := cmd.Flags()
	if len(args) > 0 {
		if flags.Changed("input") {
			return errors.New("give the input directory as an argument or with --input, not both")
		}
		cfg.Paths.InputDir = args[0]
	}
	if flags.Changed("input") {
		cfg.Paths.InputDir = f.input
	}
	if flags.Changed("output") {
		cfg.Paths.OutputDir = f.output
	}
	if flags.Changed("gameId") {
		ids, err := toAppIDs(f.gameIDs)
		if err != nil {
			return err
		}
		cfg.Filter.AppIDs = ids
	}
	if flags.Changed("delete-after") {
		cfg.Cleanup.DeleteAfter = f.deleteAfter
	}
	if flags.Changed("timeout") {
		if f.timeout <= 0 {
			return fmt.Errorf("--timeout must be positive, got %s", f.timeout)
		}
		cfg.Convert.TimeoutSeconds = int(math.Ceil(f.timeout.Seconds()))
	}
	if f.noVerify {
		cfg.Convert.VerifyOutput = false
	}
	if err := cfg.Normalize(); err != nil {
		return err
	}
	return cfg.Validate()
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	flags := &convertFlags{}
	cmd := &cobra.Command{
		Use:   "convert [input]",
		Short: "Convert every recording under the input directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, ctx, flags, args)
		},
	}
	flags.register(cmd)
	return cmd
}

func runConvert(cmd *cobra.Command, ctx *commandContext, flags *convertFlags, args []string) error {
	base, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg := *base
	if err := flags.apply(cmd, &cfg, args); err != nil {
		return err
	}

	logger, _, err := runLogger(&cfg)
	if err != nil {
		return err
	}
	input, err := resolveInput(&cfg, logger)
	if err != nil {
		logging.ErrorWithContext(logger, "no input directory to scan", "input_unavailable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "pass an input directory or set paths.input_dir"),
		)
		return err
	}

	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &pipeline.Runner{
		Source: clips.Scanner{Root: input, AppIDs: cfg.AppIDSet(), Logger: logger},
		Names:  steamlib.NewResolver(steamCandidates(&cfg, input), logger),
		Converter: &remux.FFmpeg{
			Binary:        cfg.Convert.FFmpegBinary,
			FFprobeBinary: cfg.Convert.FFprobeBinary,
			Verify:        cfg.Convert.VerifyOutput,
			Timeout:       cfg.ConvertTimeout(),
			Logger:        logger,
		},
		Options: pipeline.Options{
			OutputDir:   cfg.Paths.OutputDir,
			DeleteAfter: cfg.Cleanup.DeleteAfter,
			DryRun:      flags.dryRun,
		},
		Logger: logger,
	}

	summary, runErr := runner.Run(sigCtx)
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	if len(summary.Results) > 0 {
		fmt.Fprintln(out, renderSummaryTable(summary, colorize))
		fmt.Fprintln(out, summaryLine(summary))
	}
	if runErr != nil {
		if !errors.Is(runErr, context.Canceled) {
			logging.ErrorWithContext(logger, "conversion run aborted", "run_aborted",
				logging.Error(runErr),
				logging.String(logging.FieldErrorHint, runErrorHint(runErr)),
			)
		}
		return runErr
	}
	if len(summary.Results) == 0 {
		fmt.Fprintf(out, "No fg_* clip folders found under %s\n", input)
		return nil
	}
	if summary.HasFailures() {
		return fmt.Errorf("%w: %d of %d failed", errClipsFailed, summary.Failed(), len(summary.Results))
	}
	return nil
}

func runErrorHint(err error) string {
	switch {
	case errors.Is(err, pipeline.ErrLocked):
		return "wait for the other steamclip run to finish"
	case errors.Is(err, pipeline.ErrInputUnavailable):
		return "check that the input directory exists and is readable"
	default:
		return "check that paths.output_dir can be created and written"
	}
}
