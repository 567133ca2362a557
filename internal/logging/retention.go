package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// pruneRunLogs removes run logs in dir last written more than days before
// now. keep is never removed and days <= 0 disables pruning. Other files in
// dir are left alone.
func pruneRunLogs(logger *slog.Logger, dir, keep string, days int, now time.Time) {
	if days <= 0 {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	cutoff := now.AddDate(0, 0, -days)
	for _, entry := range entries {
		if matched, _ := filepath.Match(runLogPattern, entry.Name()); !matched || !entry.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if path == keep {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "old run log not removed", "log_retention_failed",
				String("path", path),
				Error(err),
				String(FieldErrorHint, "check permissions on paths.log_dir"),
				String(FieldImpact, "old run log stays on disk"),
			)
			continue
		}
		logger.Debug("old run log removed", String("path", path), String(FieldEventType, "log_pruned"))
	}
}
