package remux

import (
	"context"

	"steamclip/internal/media/ffprobe"
)

// SetStreamReaderForTests overrides the ffprobe stream reader during tests.
func SetStreamReaderForTests(fn func(context.Context, string, string) (ffprobe.Result, error)) func() {
	previous := readStreams
	readStreams = fn
	return func() {
		readStreams = previous
	}
}
