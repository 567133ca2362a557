package logs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// RunLogPattern matches the per-run log files in the log directory.
const RunLogPattern = "steamclip-*.log"

// ErrNoRunLogs reports an empty or missing log directory.
var ErrNoRunLogs = errors.New("no run logs found")

const (
	followInterval = 250 * time.Millisecond
	tailChunk      = 8 * 1024
)

// Latest returns the newest run log in dir. Run log names embed a sortable
// UTC timestamp, so the lexically greatest name is the newest.
func Latest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("list run logs: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if ok, _ := filepath.Match(RunLogPattern, entry.Name()); ok && entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w in %s", ErrNoRunLogs, dir)
	}
	return filepath.Join(dir, slices.Max(names)), nil
}

// Last returns up to limit trailing lines of path and the file size, which is
// where Follow should start. The file is read backwards in chunks, so a long
// log costs only as much as the lines returned.
func Last(path string, limit int) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return nil, 0, fmt.Errorf("log path %q is a directory", path)
	}
	size := info.Size()
	if limit <= 0 || size == 0 {
		return nil, size, nil
	}

	var tail []byte
	pos := size
	for pos > 0 && bytes.Count(tail, []byte{'\n'}) <= limit {
		n := min(int64(tailChunk), pos)
		pos -= n
		chunk := make([]byte, n)
		if _, err := file.ReadAt(chunk, pos); err != nil && !errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("read log file: %w", err)
		}
		tail = append(chunk, tail...)
	}

	lines := strings.Split(strings.TrimSuffix(string(tail), "\n"), "\n")
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return lines, size, nil
}

// Follow copies complete lines appended to path after offset to w until ctx
// is done. A file that shrinks below offset is read again from the start.
func Follow(ctx context.Context, path string, offset int64, w io.Writer) error {
	ticker := time.NewTicker(followInterval)
	defer ticker.Stop()

	for {
		next, err := copyLines(path, offset, w)
		if err != nil {
			return err
		}
		offset = next

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// copyLines writes the complete lines between offset and the end of path and
// returns the offset after the last newline written.
func copyLines(path string, offset int64, w io.Writer) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset, fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() < offset {
		offset = 0
	}
	pending := make([]byte, info.Size()-offset)
	if len(pending) == 0 {
		return offset, nil
	}
	n, err := file.ReadAt(pending, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return offset, fmt.Errorf("read log file: %w", err)
	}
	end := bytes.LastIndexByte(pending[:n], '\n')
	if end < 0 {
		return offset, nil
	}
	if _, err := w.Write(pending[:end+1]); err != nil {
		return offset, err
	}
	return offset + int64(end+1), nil
}
