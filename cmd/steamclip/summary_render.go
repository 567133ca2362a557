package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"steamclip/internal/pipeline"
)

func renderSummaryTable(summary pipeline.Summary, colorize bool) string {
	columns := []column{
		textColumn("Clip"),
		textColumn("Game"),
		textColumn("Output"),
		textColumn("Status"),
		numericColumn("Size"),
	}
	rows := make([][]string, 0, len(summary.Results))
	for _, result := range summary.Results {
		size := ""
		if result.Bytes > 0 {
			size = humanize.Bytes(uint64(result.Bytes))
		}
		rows = append(rows, []string{
			result.Bundle.Name(),
			result.Name,
			filepath.Base(result.Output),
			resultStatus(result),
			size,
		})
	}
	return renderTable(columns, rows, colorize)
}

func resultStatus(result pipeline.Result) string {
	switch {
	case result.Err != nil:
		return "failed (" + pipeline.Kind(result.Err) + ")"
	case result.CleanupErr != nil:
		return string(result.Status) + ", source kept"
	case len(result.Removed) > 0 && result.Status == pipeline.StatusPlanned:
		return fmt.Sprintf("planned, would remove %d", len(result.Removed))
	case len(result.Removed) > 0:
		return string(result.Status) + ", source removed"
	default:
		return string(result.Status)
	}
}

func summaryLine(summary pipeline.Summary) string {
	elapsed := summary.Finished.Sub(summary.Started).Round(100 * time.Millisecond)
	if summary.DryRun {
		return fmt.Sprintf("Dry run: %d of %d clip(s) would be converted.", summary.Planned(), len(summary.Results))
	}
	parts := []string{
		fmt.Sprintf("Converted %d of %d clip(s)", summary.Converted(), len(summary.Results)),
		fmt.Sprintf("%s written in %s", humanize.Bytes(uint64(summary.Bytes())), elapsed),
	}
	if n := summary.Failed(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", n))
	}
	if n := summary.CleanupFailures(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d source folder(s) could not be removed", n))
	}
	return strings.Join(parts, "; ") + "."
}
