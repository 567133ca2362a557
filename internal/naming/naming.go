// Package naming derives output file names and conversion plans for bundles.
package naming

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"steamclip/internal/clips"
)

// Extension is the container written for every converted bundle.
const Extension = ".mp4"

// maxNameBytes keeps the display-name portion well under common 255-byte
// file name limits once the timestamp suffix is appended.
const maxNameBytes = 200

// Plan describes one conversion: read Manifest, write Output, then stamp
// Output with ModTime.
type Plan struct {
	Manifest string
	Output   string
	ModTime  time.Time
}

var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// SanitizeName makes a display name safe to use as a file name on Linux,
// macOS, and Windows. Separators and other reserved punctuation are replaced
// or dropped, control characters removed, whitespace collapsed, and the result
// NFC-normalized. It returns "" when nothing usable remains.
func SanitizeName(name string) string {
	name = norm.NFC.String(name)
	name = fileNameReplacer.Replace(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return ' '
		case unicode.IsControl(r), r == unicode.ReplacementChar:
			return -1
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(name), " ")
	name = strings.TrimRight(name, ". ")
	name = strings.TrimLeft(name, " ")
	name = truncate(name, maxNameBytes)
	if name == "" {
		return ""
	}
	if _, reserved := reservedNames[strings.ToUpper(name)]; reserved {
		name += "_"
	}
	return name
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	cut := 0
	for i := range value {
		if i > limit {
			break
		}
		cut = i
	}
	return strings.TrimRight(value[:cut], ". ")
}

// FileName returns <name>-<YYYYMMDD>-<HHMMSS>.mp4 for a sanitized display name
// and a UTC capture instant. fallback is used when name sanitizes to nothing.
func FileName(name, fallback string, captured time.Time) string {
	safe := SanitizeName(name)
	if safe == "" {
		safe = SanitizeName(fallback)
	}
	utc := captured.UTC()
	return safe + "-" + utc.Format("20060102") + "-" + utc.Format("150405") + Extension
}

// PlanFor builds the conversion plan for bundle using the resolved display
// name. Identical inputs always produce the identical output path; collisions
// are left for the conversion step to reject.
func PlanFor(bundle clips.Bundle, name, outputDir string) Plan {
	fallback := strconv.FormatUint(uint64(bundle.AppID), 10)
	return Plan{
		Manifest: bundle.Manifest,
		Output:   filepath.Join(outputDir, FileName(name, fallback, bundle.Captured)),
		ModTime:  bundle.Captured.UTC(),
	}
}
