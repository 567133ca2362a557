package cleanup_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"steamclip/internal/cleanup"
)

func mkdirs(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := os.MkdirAll(p, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", p, err)
		}
	}
}

func TestPlanForRemovesClipDirWhenOnlyRecording(t *testing.T) {
	clipDir := filepath.Join(t.TempDir(), "clip_294100_20250828_124021")
	recording := filepath.Join(clipDir, "video", "fg_294100_20250828_124021")
	mkdirs(t, recording)
	if err := os.WriteFile(filepath.Join(clipDir, "thumbnail.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	plan, err := cleanup.PlanFor(recording)
	if err != nil {
		t.Fatalf("PlanFor returned error: %v", err)
	}
	want := []string{recording, clipDir}
	if !reflect.DeepEqual(plan.Targets(), want) {
		t.Fatalf("unexpected targets: %v", plan.Targets())
	}
}

func TestPlanForKeepsClipDirWithSibling(t *testing.T) {
	clipDir := filepath.Join(t.TempDir(), "clip_294100_20250828_124021")
	recording := filepath.Join(clipDir, "video", "fg_294100_20250828_124021")
	sibling := filepath.Join(clipDir, "video", "fg_294100_20250828_124530")
	mkdirs(t, recording, sibling)

	plan, err := cleanup.PlanFor(recording)
	if err != nil {
		t.Fatalf("PlanFor returned error: %v", err)
	}
	if !reflect.DeepEqual(plan.Targets(), []string{recording}) {
		t.Fatalf("unexpected targets: %v", plan.Targets())
	}
}

func TestPlanForKeepsClipDirWithSymlinkedSibling(t *testing.T) {
	base := t.TempDir()
	clipDir := filepath.Join(base, "clip_294100_20250828_124021")
	recording := filepath.Join(clipDir, "video", "fg_294100_20250828_124021")
	elsewhere := filepath.Join(base, "elsewhere")
	mkdirs(t, recording, elsewhere)
	if err := os.Symlink(elsewhere, filepath.Join(clipDir, "video", "fg_294100_20250828_124530")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	plan, err := cleanup.PlanFor(recording)
	if err != nil {
		t.Fatalf("PlanFor returned error: %v", err)
	}
	if plan.ClipDir != "" {
		t.Fatalf("expected clip dir kept, got %+v", plan)
	}
}

func TestPlanForIgnoresFilesBesideRecording(t *testing.T) {
	clipDir := filepath.Join(t.TempDir(), "clip_570_20240101_000102")
	recording := filepath.Join(clipDir, "video", "fg_570_20240101_000102")
	mkdirs(t, recording)
	if err := os.WriteFile(filepath.Join(clipDir, "video", "timeline.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	plan, err := cleanup.PlanFor(recording)
	if err != nil {
		t.Fatalf("PlanFor returned error: %v", err)
	}
	if plan.ClipDir != clipDir {
		t.Fatalf("expected clip dir in plan, got %+v", plan)
	}
}

func TestPlanForUnexpectedLayouts(t *testing.T) {
	base := t.TempDir()
	cases := map[string]string{
		"no video parent":      filepath.Join(base, "a", "clip_570_20240101_000102", "fg_570_20240101_000102"),
		"grandparent not clip": filepath.Join(base, "b", "recordings", "video", "fg_570_20240101_000102"),
		"top level":            filepath.Join(base, "fg_570_20240101_000102"),
	}
	for name, recording := range cases {
		mkdirs(t, recording)
		plan, err := cleanup.PlanFor(recording)
		if err != nil {
			t.Fatalf("%s: PlanFor returned error: %v", name, err)
		}
		if !reflect.DeepEqual(plan.Targets(), []string{recording}) {
			t.Fatalf("%s: unexpected targets %v", name, plan.Targets())
		}
	}
}

func TestExecuteRemovesInOrder(t *testing.T) {
	clipDir := filepath.Join(t.TempDir(), "clip_294100_20250828_124021")
	recording := filepath.Join(clipDir, "video", "fg_294100_20250828_124021")
	mkdirs(t, recording)

	plan, err := cleanup.PlanFor(recording)
	if err != nil {
		t.Fatalf("PlanFor returned error: %v", err)
	}
	removed, err := cleanup.Execute(plan, nil)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !reflect.DeepEqual(removed, []string{recording, clipDir}) {
		t.Fatalf("unexpected removed list: %v", removed)
	}
	if _, err := os.Stat(clipDir); !os.IsNotExist(err) {
		t.Fatalf("expected clip dir removed, stat err=%v", err)
	}
}

func TestExecuteStopsAfterFailure(t *testing.T) {
	plan := cleanup.Plan{Recording: "/x/clip_1_20240101_000000/video/fg_1_20240101_000000", ClipDir: "/x/clip_1_20240101_000000"}
	boom := errors.New("permission denied")
	var calls []string
	remover := cleanup.RemoverFunc(func(path string) error {
		calls = append(calls, path)
		return boom
	})

	removed, err := cleanup.Execute(plan, remover)
	if !errors.Is(err, cleanup.ErrCleanupFailed) || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped cleanup failure, got %v", err)
	}
	if len(removed) != 0 {
		t.Fatalf("expected nothing removed, got %v", removed)
	}
	if !reflect.DeepEqual(calls, []string{plan.Recording}) {
		t.Fatalf("clip dir must not be attempted after a failed recording removal: %v", calls)
	}
}
