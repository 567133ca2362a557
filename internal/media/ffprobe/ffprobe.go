package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultBinary is used when no ffprobe path is configured.
const DefaultBinary = "ffprobe"

// Kind is an ffprobe codec_type.
type Kind string

const (
	Video Kind = "video"
	Audio Kind = "audio"
)

// Result is the subset of `ffprobe -show_streams -show_format` output the
// converter looks at.
type Result struct {
	Streams   []Stream  `json:"streams"`
	Container Container `json:"format"`
}

type Stream struct {
	Index  int    `json:"index"`
	Codec  string `json:"codec_name"`
	Kind   Kind   `json:"codec_type"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Container holds format-level fields. ffprobe reports numbers as strings.
type Container struct {
	Name     string `json:"format_name"`
	Duration string `json:"duration"`
	Size     string `json:"size"`
}

// Run probes path with binary (DefaultBinary when empty).
func Run(ctx context.Context, binary, path string) (Result, error) {
	if binary = strings.TrimSpace(binary); binary == "" {
		binary = DefaultBinary
	}
	if strings.TrimSpace(path) == "" {
		return Result{}, errors.New("ffprobe: empty path")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_streams", "-show_format", "-of", "json", "--", path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return Result{}, fmt.Errorf("ffprobe %s: %w: %s", path, err, msg)
		}
		return Result{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return Decode(stdout.Bytes())
}

// Decode parses ffprobe JSON output.
func Decode(data []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return Result{}, fmt.Errorf("decode ffprobe output: %w", err)
	}
	return result, nil
}

// Count returns how many streams are of kind.
func (r Result) Count(kind Kind) int {
	n := 0
	for _, s := range r.Streams {
		if strings.EqualFold(string(s.Kind), string(kind)) {
			n++
		}
	}
	return n
}

// First returns the first stream of kind.
func (r Result) First(kind Kind) (Stream, bool) {
	for _, s := range r.Streams {
		if strings.EqualFold(string(s.Kind), string(kind)) {
			return s, true
		}
	}
	return Stream{}, false
}

// Duration returns the container duration. ok is false when ffprobe did not
// report a usable value.
func (r Result) Duration() (d time.Duration, ok bool) {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(r.Container.Duration), 64)
	if err != nil || seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)).Round(time.Microsecond), true
}
