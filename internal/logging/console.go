package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleHandler writes one line per record:
//
//	2025-08-28 12:40:21 INFO pipeline: clip converted run_id=1a2b3c4d clip=fg_570_20250828_124021 app_id=570 bytes=1048576
//
// run_id, clip and app_id always lead, in that order; the run id is cut to
// its first eight characters.
type consoleHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  slog.Level
	source bool
	group  string
	fields []field
}

type field struct {
	key   string
	value string
}

var leadingKeys = []string{FieldRunID, FieldClip, FieldAppID}

const shortRunID = 8

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	fields := slices.Clone(h.fields)
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendField(fields, h.group, attr)
		return true
	})

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var line strings.Builder
	line.WriteString(ts.Format(time.DateTime))
	line.WriteByte(' ')
	line.WriteString(record.Level.String())
	line.WriteByte(' ')
	if component := lastValue(fields, FieldComponent); component != "" {
		line.WriteString(component)
		line.WriteString(": ")
	}
	if msg := strings.TrimSpace(record.Message); msg != "" {
		line.WriteString(msg)
	} else {
		line.WriteString("(no message)")
	}

	for _, key := range leadingKeys {
		value := lastValue(fields, key)
		if value == "" {
			continue
		}
		if key == FieldRunID && len(value) > shortRunID {
			value = value[:shortRunID]
		}
		fmt.Fprintf(&line, " %s=%s", key, value)
	}
	for _, f := range fields {
		if f.key == FieldComponent || slices.Contains(leadingKeys, f.key) {
			continue
		}
		fmt.Fprintf(&line, " %s=%s", f.key, f.value)
	}

	if h.source && record.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{record.PC}).Next()
		fmt.Fprintf(&line, " (%s:%d)", filepath.Base(frame.File), frame.Line)
	}
	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, line.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.fields = slices.Clone(h.fields)
	for _, attr := range attrs {
		clone.fields = appendField(clone.fields, h.group, attr)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = joinKey(h.group, name)
	return &clone
}

// appendField flattens attr into dotted keys under group.
func appendField(dst []field, group string, attr slog.Attr) []field {
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		prefix := group
		if attr.Key != "" {
			prefix = joinKey(group, attr.Key)
		}
		for _, child := range value.Group() {
			dst = appendField(dst, prefix, child)
		}
		return dst
	}
	if attr.Key == "" {
		return dst
	}
	return append(dst, field{key: joinKey(group, attr.Key), value: formatValue(value)})
}

func joinKey(group, key string) string {
	if group == "" {
		return key
	}
	return group + "." + key
}

func lastValue(fields []field, key string) string {
	for i := len(fields) - 1; i >= 0; i-- {
		if fields[i].key == key {
			return fields[i].value
		}
	}
	return ""
}

func formatValue(value slog.Value) string {
	var text string
	switch value.Kind() {
	case slog.KindTime:
		text = value.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := value.Any().(error); ok {
			text = err.Error()
		} else {
			text = fmt.Sprint(value.Any())
		}
	default:
		text = value.String()
	}
	if text == "" || strings.IndexFunc(text, func(r rune) bool { return r <= ' ' || r == '"' || r == '=' }) >= 0 {
		return strconv.Quote(text)
	}
	return text
}
