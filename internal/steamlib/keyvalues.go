package steamlib

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/andygrunwald/vdf"
)

// Fallback patterns used when a file is not valid KeyValues (truncated writes,
// hand edits). They only look for the single field of interest.
var (
	loosePathPattern = regexp.MustCompile(`"path"\s*"((?:[^"\\]|\\.)+)"`)
	looseNamePattern = regexp.MustCompile(`"name"\s*"((?:[^"\\]|\\.)+)"`)
)

// readKeyValues parses a KeyValues text file. The raw text is returned even
// when structured parsing fails so callers can fall back to a loose scan.
func readKeyValues(path string) (map[string]interface{}, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	raw := string(data)
	parsed, err := vdf.NewParser(strings.NewReader(raw)).Parse()
	if err != nil {
		return nil, raw, fmt.Errorf("parse %s: %w", path, err)
	}
	return parsed, raw, nil
}

// lookup returns the value stored under key, matching keys case-insensitively
// because Steam has shipped both "AppState" and "appstate" spellings.
func lookup(node map[string]interface{}, key string) (interface{}, bool) {
	if node == nil {
		return nil, false
	}
	if value, ok := node[key]; ok {
		return value, true
	}
	for k, value := range node {
		if strings.EqualFold(k, key) {
			return value, true
		}
	}
	return nil, false
}

func lookupMap(node map[string]interface{}, key string) map[string]interface{} {
	value, ok := lookup(node, key)
	if !ok {
		return nil
	}
	child, _ := value.(map[string]interface{})
	return child
}

func lookupString(node map[string]interface{}, key string) string {
	value, ok := lookup(node, key)
	if !ok {
		return ""
	}
	text, _ := value.(string)
	return strings.TrimSpace(text)
}

// libraryFolderPaths extracts library paths from a parsed libraryfolders.vdf.
// Modern files nest a "path" key under numbered entries; older files map the
// number directly to the path. Entries are returned in numeric order.
func libraryFolderPaths(doc map[string]interface{}) []string {
	folders := lookupMap(doc, "libraryfolders")
	if folders == nil {
		return nil
	}
	type entry struct {
		index int
		path  string
	}
	entries := make([]entry, 0, len(folders))
	for key, value := range folders {
		index, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			continue
		}
		var path string
		switch v := value.(type) {
		case string:
			path = v
		case map[string]interface{}:
			path = lookupString(v, "path")
		}
		// The parser has already collapsed escaped backslashes.
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		entries = append(entries, entry{index: index, path: path})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].index < entries[j].index })
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.path)
	}
	return paths
}

func looseLibraryFolderPaths(raw string) []string {
	var paths []string
	for _, match := range loosePathPattern.FindAllStringSubmatch(raw, -1) {
		if path := unescape(match[1]); path != "" {
			paths = append(paths, path)
		}
	}
	return paths
}

// appManifestName extracts AppState.name from a parsed appmanifest_<id>.acf.
// The parser keeps escaped quotes as written.
func appManifestName(doc map[string]interface{}) string {
	return strings.ReplaceAll(lookupString(lookupMap(doc, "AppState"), "name"), `\"`, `"`)
}

func looseAppManifestName(raw string) string {
	match := looseNamePattern.FindStringSubmatch(raw)
	if match == nil {
		return ""
	}
	return unescape(match[1])
}

// unescape decodes escaped backslashes and quotes in a raw quoted KeyValues
// value. Any other backslash is kept as written.
func unescape(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c == '\\' && i+1 < len(value) && (value[i+1] == '\\' || value[i+1] == '"') {
			i++
			c = value[i]
		}
		b.WriteByte(c)
	}
	return strings.TrimSpace(b.String())
}
