package clipname

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrPatternMismatch reports a folder name that does not have the recorder's shape.
var ErrPatternMismatch = errors.New("folder name does not match clip pattern")

const (
	// RecordingPrefix is the base-name prefix of a recording folder.
	RecordingPrefix = "fg_"
	// ClipPrefix is the base-name prefix of the folder that groups a clip's streams.
	ClipPrefix = "clip_"

	dateLayout  = "20060102"
	timeLayout  = "150405"
	stampLayout = dateLayout + timeLayout
)

var (
	recordingPattern = regexp.MustCompile(`^fg_([0-9]+)_([0-9]{8})_([0-9]{6})$`)
	clipPattern      = regexp.MustCompile(`^clip_([0-9]+)_([0-9]{8})_([0-9]{6})$`)
)

// Name is the decoded form of a recording or clip folder name.
type Name struct {
	AppID    uint32
	Captured time.Time
}

// Date returns the capture date as YYYYMMDD.
func (n Name) Date() string {
	return n.Captured.Format(dateLayout)
}

// Clock returns the capture time of day as HHMMSS.
func (n Name) Clock() string {
	return n.Captured.Format(timeLayout)
}

// String renders the name in recording-folder form.
func (n Name) String() string {
	return fmt.Sprintf("%s%d_%s_%s", RecordingPrefix, n.AppID, n.Date(), n.Clock())
}

// Parse decodes a recording folder base name (fg_<appid>_<date>_<time>).
func Parse(base string) (Name, error) {
	return parseWith(recordingPattern, base)
}

// ParseClipDir decodes a clip folder base name (clip_<appid>_<date>_<time>).
func ParseClipDir(base string) (Name, error) {
	return parseWith(clipPattern, base)
}

// IsRecording reports whether base is a well-formed recording folder name.
func IsRecording(base string) bool {
	_, err := Parse(base)
	return err == nil
}

func parseWith(pattern *regexp.Regexp, base string) (Name, error) {
	match := pattern.FindStringSubmatch(base)
	if match == nil {
		return Name{}, fmt.Errorf("%w: %q", ErrPatternMismatch, base)
	}
	appID, err := strconv.ParseUint(match[1], 10, 32)
	if err != nil {
		return Name{}, fmt.Errorf("%w: app id %q: %v", ErrPatternMismatch, match[1], err)
	}
	captured, err := CaptureTime(match[2], match[3])
	if err != nil {
		return Name{}, fmt.Errorf("%w: %q: %v", ErrPatternMismatch, base, err)
	}
	return Name{AppID: uint32(appID), Captured: captured}, nil
}

// CaptureTime interprets YYYYMMDD and HHMMSS digits as UTC wall-clock fields.
// Out-of-range fields (month 13, Feb 30, hour 24, second 60) are rejected
// rather than normalized.
func CaptureTime(date, clock string) (time.Time, error) {
	if len(date) != len(dateLayout) || len(clock) != len(timeLayout) {
		return time.Time{}, fmt.Errorf("capture time %q %q: unexpected length", date, clock)
	}
	ts, err := time.ParseInLocation(stampLayout, date+clock, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return ts, nil
}
