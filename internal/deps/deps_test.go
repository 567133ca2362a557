package deps

import (
	"context"
	"errors"
	"testing"

	"steamclip/internal/testsupport"
)

func TestCheckResolvesTools(t *testing.T) {
	present := testsupport.StubTool(t, t.TempDir(), "present", "exit 0")

	statuses := Check(context.Background(),
		Tool{Name: "Present", Command: present},
		Tool{Name: "Missing", Command: "clearly-not-present-binary"},
		Tool{Name: "Blank", Command: "  "},
	)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	if !statuses[0].Available() || statuses[0].Path != present || statuses[0].Err != nil {
		t.Fatalf("expected first tool available, got %#v", statuses[0])
	}
	if statuses[1].Available() || statuses[1].Err == nil {
		t.Fatalf("expected missing tool with error, got %#v", statuses[1])
	}
	if !errors.Is(statuses[2].Err, errNotConfigured) {
		t.Fatalf("unexpected error for blank command: %v", statuses[2].Err)
	}
}

func TestCheckReadsVersion(t *testing.T) {
	dir := t.TempDir()
	ffmpeg := testsupport.StubTool(t, dir, "ffmpeg", `echo "ffmpeg version 7.1 Copyright (c) 2000-2024"; echo "built with gcc"`)
	odd := testsupport.StubTool(t, dir, "odd", `echo "odd tool build 42"`)
	broken := testsupport.StubTool(t, dir, "broken", "exit 3")

	statuses := Check(context.Background(), Tool{Command: ffmpeg}, Tool{Command: odd}, Tool{Command: broken})
	if statuses[0].Version != "7.1" {
		t.Fatalf("unexpected ffmpeg version %q", statuses[0].Version)
	}
	if statuses[1].Version != "odd tool build 42" {
		t.Fatalf("unexpected fallback version %q", statuses[1].Version)
	}
	if !statuses[2].Available() || statuses[2].Version != "" {
		t.Fatalf("failing version call should leave the tool available: %#v", statuses[2])
	}
}

func TestFFmpegToolsBlocking(t *testing.T) {
	t.Setenv("PATH", "")
	tools := FFmpegTools("", " ", false)
	if tools[0].Command != "ffmpeg" || tools[1].Command != "ffprobe" {
		t.Fatalf("unexpected default commands: %q %q", tools[0].Command, tools[1].Command)
	}
	if !tools[1].Optional {
		t.Fatal("ffprobe should be optional without verification")
	}

	blocking := Blocking(Check(context.Background(), tools...))
	if len(blocking) != 1 || blocking[0].Name != "FFmpeg" {
		t.Fatalf("expected only ffmpeg blocking, got %#v", blocking)
	}
	if blocking := Blocking(Check(context.Background(), FFmpegTools("", "", true)...)); len(blocking) != 2 {
		t.Fatalf("expected ffprobe required with verification, got %#v", blocking)
	}
}
