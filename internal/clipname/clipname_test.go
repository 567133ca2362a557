package clipname_test

import (
	"errors"
	"testing"
	"time"

	"steamclip/internal/clipname"
)

func TestParseRecordingFolder(t *testing.T) {
	name, err := clipname.Parse("fg_294100_20250828_124021")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if name.AppID != 294100 {
		t.Fatalf("unexpected app id: %d", name.AppID)
	}
	want := time.Date(2025, time.August, 28, 12, 40, 21, 0, time.UTC)
	if !name.Captured.Equal(want) {
		t.Fatalf("unexpected capture time: got %s want %s", name.Captured, want)
	}
	if name.Captured.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %s", name.Captured.Location())
	}
	if name.Date() != "20250828" || name.Clock() != "124021" {
		t.Fatalf("unexpected date/clock: %s %s", name.Date(), name.Clock())
	}
	if name.String() != "fg_294100_20250828_124021" {
		t.Fatalf("unexpected round trip: %s", name.String())
	}
}

func TestParseIgnoresLocalTimeZone(t *testing.T) {
	previous := time.Local
	time.Local = time.FixedZone("UTC+9", 9*60*60)
	t.Cleanup(func() { time.Local = previous })

	name, err := clipname.Parse("fg_570_20231231_235959")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	y, m, d := name.Captured.Date()
	hh, mm, ss := name.Captured.Clock()
	if y != 2023 || m != time.December || d != 31 || hh != 23 || mm != 59 || ss != 59 {
		t.Fatalf("fields shifted: %s", name.Captured)
	}
	_, offset := name.Captured.Zone()
	if offset != 0 {
		t.Fatalf("expected zero offset, got %d", offset)
	}
}

func TestParseFieldsMatchDigits(t *testing.T) {
	cases := []struct {
		base                 string
		y, mo, d, h, mi, sec int
	}{
		{"fg_1_20000229_000000", 2000, 2, 29, 0, 0, 0},
		{"fg_730_19991231_235959", 1999, 12, 31, 23, 59, 59},
		{"fg_4294967295_20250101_120000", 2025, 1, 1, 12, 0, 0},
		{"fg_00570_20240615_081530", 2024, 6, 15, 8, 15, 30},
	}
	for _, tc := range cases {
		name, err := clipname.Parse(tc.base)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.base, err)
		}
		want := time.Date(tc.y, time.Month(tc.mo), tc.d, tc.h, tc.mi, tc.sec, 0, time.UTC)
		if !name.Captured.Equal(want) {
			t.Fatalf("%s: got %s want %s", tc.base, name.Captured, want)
		}
	}
}

func TestParseRejectsMalformedNames(t *testing.T) {
	bad := []string{
		"",
		"fg_",
		"fg_294100_20250828",
		"fg_294100_20250828_124021_extra",
		"fg_abc_20250828_124021",
		"fg_294100_2025082_124021",
		"fg_294100_20250828_12402",
		"fg_294100_20251328_124021",
		"fg_294100_20250230_124021",
		"fg_294100_20250828_244021",
		"fg_294100_20250828_126021",
		"fg_294100_20250828_124060",
		"fg_4294967296_20250828_124021",
		"clip_294100_20250828_124021",
		"FG_294100_20250828_124021",
		" fg_294100_20250828_124021",
	}
	for _, base := range bad {
		name, err := clipname.Parse(base)
		if !errors.Is(err, clipname.ErrPatternMismatch) {
			t.Fatalf("%q: expected ErrPatternMismatch, got %v", base, err)
		}
		if name != (clipname.Name{}) {
			t.Fatalf("%q: expected zero value on failure, got %+v", base, name)
		}
		if clipname.IsRecording(base) {
			t.Fatalf("%q: IsRecording should be false", base)
		}
	}
}

func TestParseClipDir(t *testing.T) {
	name, err := clipname.ParseClipDir("clip_294100_20250828_124021")
	if err != nil {
		t.Fatalf("ParseClipDir returned error: %v", err)
	}
	if name.AppID != 294100 {
		t.Fatalf("unexpected app id: %d", name.AppID)
	}
	if _, err := clipname.ParseClipDir("fg_294100_20250828_124021"); !errors.Is(err, clipname.ErrPatternMismatch) {
		t.Fatalf("expected mismatch for recording name, got %v", err)
	}
}
