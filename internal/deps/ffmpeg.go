package deps

import "strings"

// FFmpegTools lists ffmpeg and ffprobe. ffprobe is only required when outputs
// are verified. Empty commands fall back to the plain tool names.
func FFmpegTools(ffmpeg, ffprobe string, verify bool) []Tool {
	return []Tool{
		{Name: "FFmpeg", Command: orDefault(ffmpeg, "ffmpeg"), Purpose: "remuxes clips into .mp4"},
		{Name: "FFprobe", Command: orDefault(ffprobe, "ffprobe"), Purpose: "verifies converted outputs", Optional: !verify},
	}
}

func orDefault(value, fallback string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return fallback
}
