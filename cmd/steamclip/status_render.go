package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// checkState is the outcome shown for one doctor line.
type checkState int

const (
	checkInfo checkState = iota
	checkPass
	checkWarn
	checkFail
)

var checkStyles = map[checkState]struct {
	label string
	color text.Color
}{
	checkInfo: {"INFO", text.FgBlue},
	checkPass: {"OK", text.FgGreen},
	checkWarn: {"WARN", text.FgYellow},
	checkFail: {"ERROR", text.FgRed},
}

const checkLabelWidth = 20

func checkLine(label string, state checkState, detail string, colorize bool) string {
	style := checkStyles[state]
	line := fmt.Sprintf("  %-*s [%s]", checkLabelWidth, label+":", style.label)
	if detail != "" {
		line += " " + detail
	}
	if colorize {
		return style.color.Sprint(line)
	}
	return line
}

func sectionHeader(title string, colorize bool) string {
	title = strings.TrimSpace(title)
	rule := strings.Repeat("-", len(title))
	if colorize {
		return text.Colors{text.Bold, text.FgBlue}.Sprint(title) + "\n" + text.FgBlue.Sprint(rule)
	}
	return title + "\n" + rule
}

// shouldColorize reports whether w is a terminal. NO_COLOR disables colour.
func shouldColorize(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
