// Package clips discovers Steam recording bundles beneath a directory tree.
//
// A bundle is a directory named fg_<appid>_<YYYYMMDD>_<HHMMSS> that directly
// contains a session.mpd DASH manifest. Steam normally places bundles two
// levels below a clip_* folder, but discovery makes no assumption about depth.
// Directories that look like bundles but lack the manifest are skipped without
// error because partially written recordings are common.
package clips
