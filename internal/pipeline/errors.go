package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"steamclip/internal/cleanup"
	"steamclip/internal/remux"
)

var (
	ErrConversionFailed = remux.ErrConversionFailed
	ErrOutputExists     = remux.ErrOutputExists
	ErrCleanupFailed    = cleanup.ErrCleanupFailed
	ErrTimestamp        = errors.New("set output timestamp")
	ErrLocked           = errors.New("output directory locked by another run")
	ErrInputUnavailable = errors.New("input directory unavailable")
)

// Wrap builds an error message that includes the bundle and operation while
// tagging it with marker for later classification. A nil marker defaults to
// ErrConversionFailed.
func Wrap(marker error, bundle, operation, message string, err error) error {
	detail := buildDetail(bundle, operation, message)
	if marker == nil {
		marker = ErrConversionFailed
	}
	if err != nil {
		if errors.Is(err, marker) {
			return fmt.Errorf("%s: %w", detail, err)
		}
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind names the failure class of err for summaries.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrOutputExists):
		return "output exists"
	case errors.Is(err, ErrTimestamp):
		return "timestamp"
	case errors.Is(err, ErrCleanupFailed):
		return "cleanup"
	case errors.Is(err, ErrConversionFailed):
		return "conversion"
	default:
		return "error"
	}
}

func buildDetail(bundle, operation, message string) string {
	parts := make([]string, 0, 3)
	if bundle = strings.TrimSpace(bundle); bundle != "" {
		parts = append(parts, bundle)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "clip failure"
	}
	return strings.Join(parts, ": ")
}
