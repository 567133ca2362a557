package cleanup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"steamclip/internal/clipname"
)

// VideoDirName is the directory Steam places recording folders in.
const VideoDirName = "video"

// ErrCleanupFailed reports that a planned removal could not be carried out.
var ErrCleanupFailed = errors.New("cleanup failed")

// Plan lists directories to remove, innermost first.
type Plan struct {
	Recording string
	ClipDir   string
}

// Targets returns the directories in removal order.
func (p Plan) Targets() []string {
	targets := []string{p.Recording}
	if p.ClipDir != "" {
		targets = append(targets, p.ClipDir)
	}
	return targets
}

// PlanFor inspects the parent of recordingDir. The clip_* grandparent is added
// only when the parent is named video, the grandparent has the clip_ folder
// shape, and no directory other than recordingDir remains under the parent.
// Unexpected layouts yield a plan for recordingDir alone.
func PlanFor(recordingDir string) (Plan, error) {
	abs, err := filepath.Abs(recordingDir)
	if err != nil {
		return Plan{}, fmt.Errorf("resolve %s: %w", recordingDir, err)
	}
	plan := Plan{Recording: abs}

	parent := filepath.Dir(abs)
	if parent == abs || filepath.Base(parent) != VideoDirName {
		return plan, nil
	}
	grandparent := filepath.Dir(parent)
	if grandparent == parent {
		return plan, nil
	}
	if _, err := clipname.ParseClipDir(filepath.Base(grandparent)); err != nil {
		return plan, nil
	}

	entries, err := os.ReadDir(parent)
	if err != nil {
		return plan, nil
	}
	self := filepath.Base(abs)
	for _, entry := range entries {
		if entry.Name() == self {
			continue
		}
		if entry.IsDir() || linksToDir(filepath.Join(parent, entry.Name()), entry) {
			return plan, nil
		}
	}
	plan.ClipDir = grandparent
	return plan, nil
}

func linksToDir(path string, entry os.DirEntry) bool {
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Remover deletes a directory tree.
type Remover interface {
	RemoveAll(path string) error
}

// RemoverFunc adapts a function to Remover.
type RemoverFunc func(path string) error

// RemoveAll calls f(path).
func (f RemoverFunc) RemoveAll(path string) error { return f(path) }

// OSRemover removes directories with os.RemoveAll.
var OSRemover Remover = RemoverFunc(os.RemoveAll)

// Execute removes the plan's targets in order and returns the paths removed.
// A failure stops the plan; the clip folder is never removed unless the
// recording folder was.
func Execute(plan Plan, remover Remover) ([]string, error) {
	if remover == nil {
		remover = OSRemover
	}
	var removed []string
	for _, target := range plan.Targets() {
		if err := remover.RemoveAll(target); err != nil {
			return removed, fmt.Errorf("%w: remove %s: %w", ErrCleanupFailed, target, err)
		}
		removed = append(removed, target)
	}
	return removed, nil
}
