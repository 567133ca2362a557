package deps

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// versionTimeout bounds a single `<tool> -version` call.
const versionTimeout = 5 * time.Second

var errNotConfigured = errors.New("command not configured")

// Tool is an external program steamclip runs.
type Tool struct {
	Name     string
	Command  string
	Purpose  string
	Optional bool
}

// Status is the outcome of looking up a Tool. Path is empty when the tool
// could not be found; Err then says why. Version is best effort.
type Status struct {
	Tool
	Path    string
	Version string
	Err     error
}

// Available reports whether the tool was found.
func (s Status) Available() bool { return s.Path != "" }

// Blocking reports whether a missing tool prevents conversion.
func (s Status) Blocking() bool { return !s.Available() && !s.Optional }

// Check resolves each tool on PATH (or as given, for paths) and reads its
// version banner.
func Check(ctx context.Context, tools ...Tool) []Status {
	statuses := make([]Status, 0, len(tools))
	for _, tool := range tools {
		tool.Command = strings.TrimSpace(tool.Command)
		status := Status{Tool: tool}
		if tool.Command == "" {
			status.Err = errNotConfigured
			statuses = append(statuses, status)
			continue
		}
		path, err := exec.LookPath(tool.Command)
		if err != nil {
			status.Err = fmt.Errorf("%q not found: %w", tool.Command, err)
			statuses = append(statuses, status)
			continue
		}
		status.Path = path
		status.Version = version(ctx, path)
		statuses = append(statuses, status)
	}
	return statuses
}

// Blocking returns the statuses of required tools that are missing.
func Blocking(statuses []Status) []Status {
	var blocking []Status
	for _, status := range statuses {
		if status.Blocking() {
			blocking = append(blocking, status)
		}
	}
	return blocking
}

// version runs `<path> -version` and extracts the release from a banner such
// as "ffmpeg version 7.1 Copyright ...". The whole first line is returned when
// it has another shape, and "" when the call fails.
func version(ctx context.Context, path string) string {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	fields := strings.Fields(line)
	for i := 0; i+1 < len(fields); i++ {
		if fields[i] == "version" {
			return fields[i+1]
		}
	}
	return strings.TrimSpace(line)
}
