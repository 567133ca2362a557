package remux

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"steamclip/internal/logging"
	"steamclip/internal/media/ffprobe"
)

var (
	// ErrConversionFailed reports that ffmpeg did not produce a usable output.
	ErrConversionFailed = errors.New("conversion failed")
	// ErrOutputExists reports that the planned output path is already taken.
	ErrOutputExists = errors.New("output already exists")
)

// DefaultBinary is used when no ffmpeg path is configured.
const DefaultBinary = "ffmpeg"

// stderrLimit bounds how much ffmpeg diagnostic output is kept in errors.
const stderrLimit = 2048

// Converter remuxes a manifest into an output container.
type Converter interface {
	Convert(ctx context.Context, manifest, output string) error
}

// FFmpeg is the production Converter.
type FFmpeg struct {
	Binary        string
	FFprobeBinary string
	Verify        bool
	Timeout       time.Duration
	Logger        *slog.Logger
}

// Args returns the ffmpeg argument list for a manifest that lives in the
// working directory.
func Args(manifestName, output string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-n",
		"-i", manifestName,
		"-map", "0:v:0",
		"-map", "0:a:0?",
		"-c", "copy",
		"-movflags", "+faststart",
		output,
	}
}

// Convert runs ffmpeg for manifest and writes output.
func (f *FFmpeg) Convert(ctx context.Context, manifest, output string) error {
	logger := logging.NewComponentLogger(f.Logger, "remux")

	output, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("%w: resolve output: %w", ErrConversionFailed, err)
	}
	if _, err := os.Lstat(output); err == nil {
		return fmt.Errorf("%w: %s", ErrOutputExists, output)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: stat output: %w", ErrConversionFailed, err)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("%w: create output directory: %w", ErrConversionFailed, err)
	}

	runCtx := ctx
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	binary := strings.TrimSpace(f.Binary)
	if binary == "" {
		binary = DefaultBinary
	}
	args := Args(filepath.Base(manifest), output)
	cmd := exec.CommandContext(runCtx, binary, args...)
	cmd.Dir = filepath.Dir(manifest)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Debug("ffmpeg command",
		logging.String("dir", cmd.Dir),
		logging.String("command", binary+" "+strings.Join(args, " ")),
	)
	started := time.Now()
	if err := cmd.Run(); err != nil {
		removePartial(logger, output)
		if ctxErr := runCtx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: ffmpeg: %w", ErrConversionFailed, ctxErr)
		}
		return fmt.Errorf("%w: ffmpeg: %w%s", ErrConversionFailed, err, stderrSuffix(stderr.Bytes()))
	}

	info, err := os.Stat(output)
	if err != nil || info.Size() == 0 {
		removePartial(logger, output)
		return fmt.Errorf("%w: ffmpeg produced no output%s", ErrConversionFailed, stderrSuffix(stderr.Bytes()))
	}

	if f.Verify {
		if err := verifyOutput(runCtx, logger, f.FFprobeBinary, output); err != nil {
			removePartial(logger, output)
			return err
		}
	}

	logger.Debug("ffmpeg finished",
		logging.String("output", output),
		logging.Int64("bytes", info.Size()),
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}

func verifyOutput(ctx context.Context, logger *slog.Logger, binary, output string) error {
	result, err := readStreams(ctx, binary, output)
	if err != nil {
		return fmt.Errorf("%w: verify output: %w", ErrConversionFailed, err)
	}
	video, ok := result.First(ffprobe.Video)
	if !ok {
		return fmt.Errorf("%w: %s has no video stream", ErrConversionFailed, filepath.Base(output))
	}
	duration, _ := result.Duration()
	logger.Debug("output verified",
		logging.String("codec", video.Codec),
		logging.Int("audio_streams", result.Count(ffprobe.Audio)),
		logging.Duration("duration", duration),
	)
	return nil
}

func removePartial(logger *slog.Logger, output string) {
	if err := os.Remove(output); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.WarnWithContext(logger, "failed to remove partial output", "partial_output_cleanup",
			logging.String("output", output),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "delete the file manually before rerunning"),
			logging.String(logging.FieldImpact, "incomplete file left in output directory"),
		)
	}
}

func stderrSuffix(stderr []byte) string {
	trimmed := bytes.TrimSpace(stderr)
	if len(trimmed) == 0 {
		return ""
	}
	if len(trimmed) > stderrLimit {
		trimmed = trimmed[len(trimmed)-stderrLimit:]
	}
	return ": " + string(trimmed)
}

var _ Converter = (*FFmpeg)(nil)

// readStreams is the ffprobe function used for output verification.
// It is a package-level variable so tests can override it.
var readStreams = ffprobe.Run
