package clips

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"

	"steamclip/internal/clipname"
	"steamclip/internal/logging"
)

// Scanner walks Root for bundles. When AppIDs is non-empty only bundles for
// those applications are yielded.
type Scanner struct {
	Root   string
	AppIDs map[uint32]struct{}
	Logger *slog.Logger
}

// All returns a lazy sequence of bundles in lexical walk order. Each range over
// the sequence walks the tree again, so an unchanged tree always yields the
// same bundles in the same order. The only error yielded is an unusable Root;
// unreadable subdirectories are logged and skipped.
func (s Scanner) All(ctx context.Context) iter.Seq2[Bundle, error] {
	return func(yield func(Bundle, error) bool) {
		logger := logging.NewComponentLogger(s.Logger, "scanner")
		root, err := filepath.Abs(s.Root)
		if err != nil {
			yield(Bundle{}, fmt.Errorf("resolve input %s: %w", s.Root, err))
			return
		}
		info, err := os.Stat(root)
		if err != nil {
			yield(Bundle{}, fmt.Errorf("input %s: %w", root, err))
			return
		}
		if !info.IsDir() {
			yield(Bundle{}, fmt.Errorf("input %s: not a directory", root))
			return
		}
		// WalkDir does not descend into a symlinked root.
		if resolved, err := filepath.EvalSymlinks(root); err == nil {
			root = resolved
		}

		stopped := false
		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if ctx != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
			}
			if err != nil {
				if path == root {
					return err
				}
				logger.Debug("skipping unreadable directory", logging.String("path", path), logging.Error(err))
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() || path == root {
				return nil
			}
			if !clipname.IsRecording(d.Name()) {
				return nil
			}

			bundle, inspectErr := Inspect(path)
			switch {
			case inspectErr == nil:
			case errors.Is(inspectErr, ErrMissingManifest):
				logger.Debug("recording folder without manifest skipped", logging.String("path", path))
				return filepath.SkipDir
			default:
				return filepath.SkipDir
			}
			if bundle.AppID == 0 {
				return filepath.SkipDir
			}
			if !s.allowed(bundle.AppID) {
				return filepath.SkipDir
			}
			if !yield(bundle, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return filepath.SkipDir
		})
		if walkErr != nil && !stopped {
			yield(Bundle{}, walkErr)
		}
	}
}

// Collect runs the scan to completion.
func (s Scanner) Collect(ctx context.Context) ([]Bundle, error) {
	var bundles []Bundle
	for bundle, err := range s.All(ctx) {
		if err != nil {
			return bundles, err
		}
		bundles = append(bundles, bundle)
	}
	return bundles, nil
}

func (s Scanner) allowed(appID uint32) bool {
	if len(s.AppIDs) == 0 {
		return true
	}
	_, ok := s.AppIDs[appID]
	return ok
}
