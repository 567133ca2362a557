package clips

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"steamclip/internal/clipname"
)

// ManifestName is the DASH manifest every recording folder must contain.
const ManifestName = "session.mpd"

// ErrMissingManifest reports a recording folder without session.mpd.
var ErrMissingManifest = errors.New("recording folder has no session.mpd")

// Bundle is one convertible recording folder.
type Bundle struct {
	Dir      string
	AppID    uint32
	Captured time.Time
	Manifest string
}

// Name returns the recording folder base name.
func (b Bundle) Name() string {
	return filepath.Base(b.Dir)
}

// Size totals the regular files under the recording folder.
func (b Bundle) Size() (int64, error) {
	var total int64
	err := filepath.WalkDir(b.Dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	return total, err
}

// Inspect validates a single directory as a bundle. It fails with
// clipname.ErrPatternMismatch when the name has the wrong shape and
// ErrMissingManifest when session.mpd is absent.
func Inspect(dir string) (Bundle, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Bundle{}, fmt.Errorf("resolve %s: %w", dir, err)
	}
	name, err := clipname.Parse(filepath.Base(abs))
	if err != nil {
		return Bundle{}, err
	}
	manifest := filepath.Join(abs, ManifestName)
	info, err := os.Stat(manifest)
	if err != nil || !info.Mode().IsRegular() {
		return Bundle{}, fmt.Errorf("%w: %s", ErrMissingManifest, abs)
	}
	return Bundle{
		Dir:      abs,
		AppID:    name.AppID,
		Captured: name.Captured,
		Manifest: manifest,
	}, nil
}
