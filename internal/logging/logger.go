package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"steamclip/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string // "console" (default) or "json"
	// Console receives every record; nil means stderr.
	Console io.Writer
	// File, when set, is appended to with a copy of every record.
	File string
}

// New constructs a logger. Debug level also records the calling file and line.
func New(opts Options) (*slog.Logger, error) {
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}
	if format != "console" && format != "json" {
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	out := opts.Console
	if out == nil {
		out = os.Stderr
	}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
		file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", opts.File, err)
		}
		out = io.MultiWriter(out, file)
	}

	level := parseLevel(opts.Level)
	withSource := level <= slog.LevelDebug
	if format == "json" {
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:       level,
			AddSource:   withSource,
			ReplaceAttr: jsonKeys,
		})), nil
	}
	return slog.New(&consoleHandler{
		mu:     new(sync.Mutex),
		out:    out,
		level:  level,
		source: withSource,
	}), nil
}

// NewFromConfig builds the logger for a conversion run. With a log directory
// configured the run also writes steamclip-<UTC start>.log there, and run logs
// older than logging.retention_days are removed. The run log path is returned.
func NewFromConfig(cfg *config.Config, now time.Time) (*slog.Logger, string, error) {
	if cfg == nil {
		logger, err := New(Options{})
		return logger, "", err
	}

	var logPath string
	if cfg.Paths.LogDir != "" {
		logPath = filepath.Join(cfg.Paths.LogDir, runLogName(now))
	}
	logger, err := New(Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   logPath,
	})
	if err != nil {
		return nil, "", err
	}
	if logPath != "" {
		pruneRunLogs(logger, cfg.Paths.LogDir, logPath, cfg.Logging.RetentionDays, now)
	}
	return logger, logPath, nil
}

const runLogPattern = "steamclip-*.log"

func runLogName(now time.Time) string {
	return "steamclip-" + now.UTC().Format("20060102T150405") + ".log"
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// jsonKeys shortens the built-in JSON keys: ts in UTC, lower-case level and
// file:line sources.
func jsonKeys(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return attr
	}
	switch attr.Key {
	case slog.TimeKey:
		return slog.String("ts", attr.Value.Time().UTC().Format(time.RFC3339Nano))
	case slog.LevelKey:
		return slog.String(slog.LevelKey, strings.ToLower(attr.Value.String()))
	case slog.SourceKey:
		if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
			return slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
		}
	}
	return attr
}
