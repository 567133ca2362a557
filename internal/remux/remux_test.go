package remux_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"steamclip/internal/media/ffprobe"
	"steamclip/internal/remux"
	"steamclip/internal/testsupport"
)

// writeStub writes a shell script that stands in for ffmpeg. The script sees
// the output path as its final argument.
func writeStub(t *testing.T, body string) string {
	t.Helper()
	return testsupport.StubTool(t, t.TempDir(), "ffmpeg", "for last; do :; done\n"+body)
}

func writeManifest(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "fg_620_20240102_030405")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	manifest := filepath.Join(dir, "session.mpd")
	if err := os.WriteFile(manifest, []byte("<MPD/>"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return manifest
}

func TestArgs(t *testing.T) {
	got := remux.Args("session.mpd", "/out/Portal 2-20240102-030405.mp4")
	want := []string{
		"-hide_banner", "-loglevel", "error", "-n",
		"-i", "session.mpd",
		"-map", "0:v:0", "-map", "0:a:0?",
		"-c", "copy", "-movflags", "+faststart",
		"/out/Portal 2-20240102-030405.mp4",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected args:\n got %q\nwant %q", got, want)
	}
}

func TestConvertRunsInBundleDirectory(t *testing.T) {
	stub := writeStub(t, `pwd > "$last.cwd"; printf mp4 > "$last"`)
	manifest := writeManifest(t)
	output := filepath.Join(t.TempDir(), "out", "Portal 2-20240102-030405.mp4")

	conv := &remux.FFmpeg{Binary: stub}
	if err := conv.Convert(context.Background(), manifest, output); err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil || string(data) != "mp4" {
		t.Fatalf("expected output written, got %q err=%v", data, err)
	}
	cwd, err := os.ReadFile(output + ".cwd")
	if err != nil {
		t.Fatalf("read cwd marker: %v", err)
	}
	wantDir, _ := filepath.EvalSymlinks(filepath.Dir(manifest))
	gotDir, _ := filepath.EvalSymlinks(strings.TrimSpace(string(cwd)))
	if gotDir != wantDir {
		t.Fatalf("expected ffmpeg to run in %s, ran in %s", wantDir, gotDir)
	}
}

func TestConvertRefusesExistingOutput(t *testing.T) {
	stub := writeStub(t, `printf new > "$last"`)
	manifest := writeManifest(t)
	output := filepath.Join(t.TempDir(), "taken.mp4")
	if err := os.WriteFile(output, []byte("old"), 0o644); err != nil {
		t.Fatalf("write existing: %v", err)
	}

	conv := &remux.FFmpeg{Binary: stub}
	err := conv.Convert(context.Background(), manifest, output)
	if !errors.Is(err, remux.ErrOutputExists) {
		t.Fatalf("expected ErrOutputExists, got %v", err)
	}
	data, _ := os.ReadFile(output)
	if string(data) != "old" {
		t.Fatalf("existing output was modified: %q", data)
	}
}

func TestConvertFailureRemovesPartialOutput(t *testing.T) {
	stub := writeStub(t, `printf partial > "$last"; echo "Invalid data found when processing input" >&2; exit 1`)
	manifest := writeManifest(t)
	output := filepath.Join(t.TempDir(), "broken.mp4")

	conv := &remux.FFmpeg{Binary: stub}
	err := conv.Convert(context.Background(), manifest, output)
	if !errors.Is(err, remux.ErrConversionFailed) {
		t.Fatalf("expected ErrConversionFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Fatalf("expected ffmpeg stderr in error, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatalf("expected partial output removed, stat err=%v", statErr)
	}
}

func TestConvertEmptyOutputFails(t *testing.T) {
	stub := writeStub(t, `: > "$last"`)
	manifest := writeManifest(t)
	output := filepath.Join(t.TempDir(), "empty.mp4")

	conv := &remux.FFmpeg{Binary: stub}
	if err := conv.Convert(context.Background(), manifest, output); !errors.Is(err, remux.ErrConversionFailed) {
		t.Fatalf("expected ErrConversionFailed, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatalf("expected empty output removed, stat err=%v", statErr)
	}
}

func TestConvertTimeout(t *testing.T) {
	stub := writeStub(t, `exec sleep 5`)
	manifest := writeManifest(t)
	output := filepath.Join(t.TempDir(), "slow.mp4")

	conv := &remux.FFmpeg{Binary: stub, Timeout: 50 * time.Millisecond}
	err := conv.Convert(context.Background(), manifest, output)
	if !errors.Is(err, remux.ErrConversionFailed) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline conversion failure, got %v", err)
	}
}

func TestConvertVerifyRejectsOutputWithoutVideo(t *testing.T) {
	stub := writeStub(t, `printf mp4 > "$last"`)
	manifest := writeManifest(t)
	output := filepath.Join(t.TempDir(), "audio-only.mp4")

	restore := remux.SetStreamReaderForTests(func(context.Context, string, string) (ffprobe.Result, error) {
		return ffprobe.Result{Streams: []ffprobe.Stream{{Kind: ffprobe.Audio}}}, nil
	})
	defer restore()

	conv := &remux.FFmpeg{Binary: stub, Verify: true}
	if err := conv.Convert(context.Background(), manifest, output); !errors.Is(err, remux.ErrConversionFailed) {
		t.Fatalf("expected ErrConversionFailed, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatalf("expected unverified output removed, stat err=%v", statErr)
	}
}

func TestConvertVerifyAcceptsVideo(t *testing.T) {
	stub := writeStub(t, `printf mp4 > "$last"`)
	manifest := writeManifest(t)
	output := filepath.Join(t.TempDir(), "ok.mp4")

	var inspected string
	restore := remux.SetStreamReaderForTests(func(_ context.Context, binary, path string) (ffprobe.Result, error) {
		inspected = binary + " " + path
		return ffprobe.Result{Streams: []ffprobe.Stream{{Kind: ffprobe.Video, Codec: "h264"}}}, nil
	})
	defer restore()

	conv := &remux.FFmpeg{Binary: stub, FFprobeBinary: "ffprobe-test", Verify: true}
	if err := conv.Convert(context.Background(), manifest, output); err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if inspected != "ffprobe-test "+output {
		t.Fatalf("unexpected ffprobe call %q", inspected)
	}
}
