// Package remux turns a Steam recording's DASH manifest into a single .mp4
// by stream-copying its segments with ffmpeg.
//
// FFmpeg runs ffmpeg with the recording folder as its working directory so the
// relative segment paths inside session.mpd resolve. Existing outputs are never
// overwritten, and a run that leaves no playable file behind is cleaned up and
// reported as ErrConversionFailed. When verification is enabled the output is
// inspected with ffprobe and must carry at least one video stream.
package remux
