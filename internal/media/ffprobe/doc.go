// Package ffprobe runs ffprobe on a media file and decodes the stream and
// container fields steamclip uses to accept a converted .mp4.
package ffprobe
