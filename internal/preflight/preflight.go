package preflight

import (
	"context"

	"steamclip/internal/config"
	"steamclip/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the directory checks for the given config. InputDir must
// already be resolved by the caller.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Input directory needs write access only when sources are removed.
	inputMode := ReadOnly
	if cfg.Cleanup.DeleteAfter {
		inputMode = ReadWrite
	}
	results = append(results, CheckDirectoryAccess("Input directory", cfg.Paths.InputDir, inputMode))
	results = append(results, CheckCreatableDirectory("Output directory", cfg.Paths.OutputDir))
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckCreatableDirectory("Log directory", cfg.Paths.LogDir))
	}

	for _, status := range CheckSystemDeps(ctx, cfg) {
		result := Result{Name: status.Name, Passed: !status.Blocking()}
		switch {
		case status.Available() && status.Version != "":
			result.Detail = status.Version + " (" + status.Path + ")"
		case status.Available():
			result.Detail = status.Path
		case status.Optional:
			result.Detail = status.Err.Error() + "; optional, " + status.Purpose
		default:
			result.Detail = status.Err.Error() + "; " + status.Purpose
		}
		results = append(results, result)
	}
	return results
}

// CheckSystemDeps evaluates ffmpeg and ffprobe for the given config.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	return deps.Check(ctx, deps.FFmpegTools(cfg.Convert.FFmpegBinary, cfg.Convert.FFprobeBinary, cfg.Convert.VerifyOutput)...)
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return true
		}
	}
	return false
}
