package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"golang.org/x/term"
)

var (
	addStyle    = lipgloss.NewStyle().Foreground(Green)
	removeStyle = lipgloss.NewStyle().Foreground(Red)
	hunkStyle   = lipgloss.NewStyle().Foreground(Blue)
	headerStyle = lipgloss.NewStyle().Foreground(White).Bold(true)
)

// UnifiedDiff returns a plain unified diff between before and after.
func UnifiedDiff(path, before, after string) string {
	edits := myers.ComputeEdits(span.URIFromPath(path), before, after)
	return fmt.Sprint(gotextdiff.ToUnified(path, path, before, edits))
}

// RenderDiff returns a colorized unified diff when color is enabled,
// wrapping long lines to the terminal width.
func RenderDiff(path, before, after string, color bool) string {
	diff := UnifiedDiff(path, before, after)
	if diff == "" {
		return ""
	}
	if !color {
		return diff
	}

	width := contentWidth()
	var out strings.Builder
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		if len(line) > width {
			line = line[:width]
		}
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			out.WriteString(headerStyle.Render(line))
		case strings.HasPrefix(line, "@@"):
			out.WriteString(hunkStyle.Render(line))
		case strings.HasPrefix(line, "+"):
			out.WriteString(addStyle.Render(line))
		case strings.HasPrefix(line, "-"):
			out.WriteString(removeStyle.Render(line))
		default:
			out.WriteString(line)
		}
		out.WriteByte('\n')
	}
	return out.String()
}

// contentWidth returns the usable diff line width for the current
// terminal, falling back to 80 when stdout is not a terminal.
func contentWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	if width > 120 {
		return 120
	}
	return width
}
