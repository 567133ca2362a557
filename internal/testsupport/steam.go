package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteBundle creates a recording folder with the Steam layout
// clip_<id>_<date>_<clock>/video/fg_<id>_<date>_<clock>/session.mpd under
// root and returns the fg_ directory.
func WriteBundle(t testing.TB, root string, appID uint32, date, clock string) string {
	t.Helper()

	stamp := fmt.Sprintf("%d_%s_%s", appID, date, clock)
	dir := filepath.Join(root, "clip_"+stamp, "video", "fg_"+stamp)
	WriteText(t, filepath.Join(dir, "session.mpd"), "<MPD/>\n")
	WriteSegment(t, dir, 1, 512)
	return dir
}

// WriteSegment writes chunk-stream0-<index>.m4s of size bytes into a
// recording folder.
func WriteSegment(t testing.TB, dir string, index, size int) string {
	t.Helper()

	path := filepath.Join(dir, fmt.Sprintf("chunk-stream0-%05d.m4s", index))
	WriteText(t, path, strings.Repeat("\x00", size))
	return path
}

// WriteAppManifest writes steamapps/appmanifest_<id>.acf under a Steam root.
func WriteAppManifest(t testing.TB, steamRoot string, appID uint32, name string) {
	t.Helper()

	body := fmt.Sprintf("\"AppState\"\n{\n\t\"appid\"\t\t\"%d\"\n\t\"name\"\t\t\"%s\"\n}\n", appID, name)
	WriteText(t, filepath.Join(steamRoot, "steamapps", fmt.Sprintf("appmanifest_%d.acf", appID)), body)
}

// WriteText writes a small text file, creating parent directories.
func WriteText(t testing.TB, path, body string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
