package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"steamclip/internal/cleanup"
	"steamclip/internal/clips"
	"steamclip/internal/logging"
	"steamclip/internal/naming"
	"steamclip/internal/remux"
)

// LockFileName is created in the output directory for the duration of a run.
const LockFileName = ".steamclip.lock"

// BundleSource yields recording bundles lazily.
type BundleSource interface {
	All(ctx context.Context) iter.Seq2[clips.Bundle, error]
}

// NameResolver maps app ids to display names, never failing.
type NameResolver interface {
	DisplayName(appID uint32) string
}

// Options controls a single run.
type Options struct {
	OutputDir   string
	DeleteAfter bool
	DryRun      bool
}

// Runner converts every bundle its Source yields, one at a time.
type Runner struct {
	Source    BundleSource
	Names     NameResolver
	Converter remux.Converter
	Remover   cleanup.Remover
	Options   Options
	Logger    *slog.Logger

	now func() time.Time
}

// Run processes all bundles and returns the per-bundle results. The returned
// error is non-nil only when the run could not proceed: the output directory
// is unusable or locked, the input root is unusable, or ctx was cancelled.
// Partial results are returned alongside a cancellation error.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.Source == nil || r.Names == nil {
		return Summary{}, errors.New("pipeline: source and name resolver are required")
	}
	if r.Converter == nil && !r.Options.DryRun {
		return Summary{}, errors.New("pipeline: converter is required")
	}

	summary := Summary{RunID: uuid.NewString(), DryRun: r.Options.DryRun, Started: r.clock()}
	ctx = logging.WithRunID(ctx, summary.RunID)
	base := logging.NewComponentLogger(r.Logger, "pipeline")
	logger := logging.WithContext(ctx, base)

	outputDir, err := filepath.Abs(r.Options.OutputDir)
	if err != nil {
		return summary, fmt.Errorf("resolve output directory: %w", err)
	}
	if !r.Options.DryRun {
		unlock, err := acquireLock(outputDir)
		if err != nil {
			return summary, err
		}
		defer unlock()
	}

	logger.Info("conversion run started",
		logging.String("output_dir", outputDir),
		logging.Bool("dry_run", r.Options.DryRun),
		logging.Bool("delete_after", r.Options.DeleteAfter),
	)

	for bundle, scanErr := range r.Source.All(ctx) {
		if scanErr != nil {
			summary.Finished = r.clock()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return summary, ctxErr
			}
			return summary, fmt.Errorf("%w: %w", ErrInputUnavailable, scanErr)
		}
		summary.Results = append(summary.Results, r.process(ctx, base, bundle, outputDir))
		if ctx.Err() != nil {
			break
		}
	}
	summary.Finished = r.clock()

	logger.Info("conversion run finished",
		logging.Int("found", len(summary.Results)),
		logging.Int("converted", summary.Converted()),
		logging.Int("failed", summary.Failed()),
		logging.Duration("elapsed", summary.Finished.Sub(summary.Started)),
	)
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (r *Runner) process(ctx context.Context, base *slog.Logger, bundle clips.Bundle, outputDir string) Result {
	ctx = logging.WithClip(ctx, bundle.Name())
	logger := logging.WithContext(ctx, base).With(logging.AppID(bundle.AppID))

	name := r.Names.DisplayName(bundle.AppID)
	plan := naming.PlanFor(bundle, name, outputDir)
	result := Result{Bundle: bundle, Name: name, Output: plan.Output}

	if r.Options.DryRun {
		return r.preview(logger, bundle, plan, result)
	}

	logger.Info("converting clip", logging.String("output", plan.Output))
	if err := r.Converter.Convert(ctx, plan.Manifest, plan.Output); err != nil {
		marker := ErrConversionFailed
		if errors.Is(err, ErrOutputExists) {
			marker = ErrOutputExists
		}
		result.Status = StatusFailed
		result.Err = Wrap(marker, bundle.Name(), "remux", "", err)
		logging.WarnWithContext(logger, "clip conversion failed", "conversion_failed",
			logging.String("output", plan.Output),
			logging.String("failure", Kind(result.Err)),
			logging.Error(result.Err),
			logging.String(logging.FieldErrorHint, conversionHint(result.Err)),
		)
		return result
	}

	if err := os.Chtimes(plan.Output, plan.ModTime, plan.ModTime); err != nil {
		result.Status = StatusFailed
		result.Err = Wrap(ErrTimestamp, bundle.Name(), "chtimes", plan.Output, err)
		logging.WarnWithContext(logger, "could not stamp capture time on output", "timestamp_failed",
			logging.String("output", plan.Output),
			logging.Error(err),
			logging.String(logging.FieldImpact, "output kept with current time; source folder kept"),
		)
		return result
	}
	if info, err := os.Stat(plan.Output); err == nil {
		result.Bytes = info.Size()
	}
	result.Status = StatusConverted
	logger.Info("clip converted",
		logging.String("output", plan.Output),
		logging.Int64("bytes", result.Bytes),
		logging.Time("captured", plan.ModTime),
	)

	if r.Options.DeleteAfter {
		r.removeSource(logger, bundle, &result)
	}
	return result
}

func (r *Runner) preview(logger *slog.Logger, bundle clips.Bundle, plan naming.Plan, result Result) Result {
	result.Status = StatusPlanned
	if _, err := os.Lstat(plan.Output); err == nil {
		result.Status = StatusFailed
		result.Err = Wrap(ErrOutputExists, bundle.Name(), "plan", plan.Output, nil)
	} else if !errors.Is(err, fs.ErrNotExist) {
		result.Status = StatusFailed
		result.Err = Wrap(ErrConversionFailed, bundle.Name(), "plan", "stat output", err)
	}
	if r.Options.DeleteAfter && result.Err == nil {
		if cleanupPlan, err := cleanup.PlanFor(bundle.Dir); err == nil {
			result.Removed = cleanupPlan.Targets()
		}
	}
	logger.Info("dry run: would convert clip",
		logging.String("output", plan.Output),
		logging.Int("would_remove", len(result.Removed)),
		logging.String("failure", Kind(result.Err)),
	)
	return result
}

func (r *Runner) removeSource(logger *slog.Logger, bundle clips.Bundle, result *Result) {
	plan, err := cleanup.PlanFor(bundle.Dir)
	if err != nil {
		result.CleanupErr = Wrap(ErrCleanupFailed, bundle.Name(), "plan", "", err)
		logging.WarnWithContext(logger, "source cleanup skipped", "cleanup_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "source folder kept"),
		)
		return
	}

	decision := "remove_recording"
	reason := "clip folder still holds other recordings or has an unexpected layout"
	if plan.ClipDir != "" {
		decision = "remove_clip_folder"
		reason = "recording was the last one in its clip folder"
	}
	logger.Info("source cleanup decision", logging.Args(logging.DecisionAttrs("cleanup", decision, reason)...)...)

	removed, err := cleanup.Execute(plan, r.Remover)
	result.Removed = removed
	for _, path := range removed {
		logger.Info("removed source folder", logging.String("path", path))
	}
	if err != nil {
		result.CleanupErr = Wrap(ErrCleanupFailed, bundle.Name(), "remove", "", err)
		logging.WarnWithContext(logger, "source cleanup failed", "cleanup_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the clips directory"),
			logging.String(logging.FieldImpact, "converted output kept; source folder left in place"),
		)
	}
}

func (r *Runner) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

func acquireLock(outputDir string) (func(), error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	lock := flock.New(filepath.Join(outputDir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, lock.Path())
	}
	return func() {
		_ = lock.Unlock()
	}, nil
}

func conversionHint(err error) string {
	if errors.Is(err, ErrOutputExists) {
		return "remove or rename the existing file to convert this clip again"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "raise convert.timeout_seconds or --timeout for long clips"
	}
	return "run with --log-level debug to see the ffmpeg command"
}
