package steamlib

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"steamclip/internal/logging"
)

const (
	steamAppsDir       = "steamapps"
	libraryFoldersFile = "libraryfolders.vdf"
)

// LibraryRoot is a steamapps directory holding appmanifest files.
type LibraryRoot struct {
	Path string
}

// DefaultSteamRoots returns the conventional Steam install roots for goos, in
// priority order. lookupEnv is normally os.LookupEnv.
func DefaultSteamRoots(goos string, lookupEnv func(string) (string, bool)) []string {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	env := func(key string) string {
		value, _ := lookupEnv(key)
		return strings.TrimSpace(value)
	}

	var roots []string
	switch goos {
	case "darwin":
		if home := env("HOME"); home != "" {
			roots = append(roots, filepath.Join(home, "Library", "Application Support", "Steam"))
		}
	case "windows":
		if pf86 := env("PROGRAMFILES(X86)"); pf86 != "" {
			roots = append(roots, strings.TrimRight(pf86, `\`)+`\Steam`)
		} else {
			roots = append(roots, `C:\Program Files (x86)\Steam`)
		}
	default:
		if data := env("XDG_DATA_HOME"); data != "" {
			roots = append(roots, filepath.Join(data, "Steam"))
		}
		if home := env("HOME"); home != "" {
			roots = append(roots,
				filepath.Join(home, ".local", "share", "Steam"),
				filepath.Join(home, ".steam", "steam"),
				filepath.Join(home, ".var", "app", "com.valvesoftware.Steam", ".local", "share", "Steam"),
			)
		}
	}
	return dedupe(roots)
}

// SteamRoots returns DefaultSteamRoots for the running platform.
func SteamRoots() []string {
	return DefaultSteamRoots(runtime.GOOS, os.LookupEnv)
}

// RootFromPath walks up from path looking for a directory that looks like a
// Steam install (it contains steamapps/ or config/libraryfolders.vdf). It lets
// an input such as <Steam>/userdata double as a library hint.
func RootFromPath(path string) (string, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", false
	}
	current, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	for {
		if isDir(filepath.Join(current, steamAppsDir)) || isFile(filepath.Join(current, "config", libraryFoldersFile)) {
			return current, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// Discover expands Steam install roots into the library roots they register.
// Each candidate contributes its own steamapps directory followed by every
// library listed in its libraryfolders.vdf files. Missing candidates are
// skipped; the result is deduplicated and keeps discovery order.
func Discover(candidates []string, logger *slog.Logger) []LibraryRoot {
	logger = logging.NewComponentLogger(logger, "steamlib")

	seen := make(map[string]struct{})
	var roots []LibraryRoot
	add := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		if !isDir(path) {
			return
		}
		seen[path] = struct{}{}
		roots = append(roots, LibraryRoot{Path: path})
	}

	for _, candidate := range dedupe(candidates) {
		if !isDir(candidate) {
			logger.Debug("steam root not present", logging.String("root", candidate))
			continue
		}
		add(filepath.Join(candidate, steamAppsDir))
		for _, index := range []string{
			filepath.Join(candidate, "config", libraryFoldersFile),
			filepath.Join(candidate, steamAppsDir, libraryFoldersFile),
		} {
			for _, library := range readLibraryFolders(index, logger) {
				add(filepath.Join(library, steamAppsDir))
			}
		}
	}

	logger.Debug("library roots discovered", logging.Int("count", len(roots)))
	return roots
}

func readLibraryFolders(path string, logger *slog.Logger) []string {
	if !isFile(path) {
		return nil
	}
	doc, raw, err := readKeyValues(path)
	if err != nil {
		if raw == "" {
			logger.Debug("library index unreadable", logging.String("path", path), logging.Error(err))
			return nil
		}
		logger.Debug("library index malformed; using loose scan", logging.String("path", path), logging.Error(err))
		return looseLibraryFolderPaths(raw)
	}
	if paths := libraryFolderPaths(doc); len(paths) > 0 {
		return paths
	}
	return looseLibraryFolderPaths(raw)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
