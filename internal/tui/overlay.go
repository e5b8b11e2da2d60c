package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// overlay draws box centered on top of base. base is padded or cut to exactly
// width x height cells first, so the box never shifts the grid around it.
func overlay(base, box string, width, height int) string {
	if width <= 0 || height <= 0 {
		return base
	}
	baseLines := normalizeLines(base, width, height)

	boxLines := strings.Split(box, "\n")
	boxW := 0
	for _, l := range boxLines {
		boxW = max(boxW, ansi.StringWidth(l))
	}
	boxW = min(boxW, width)
	boxH := min(len(boxLines), height)

	top := max((height-boxH)/2, 0)
	left := max((width-boxW)/2, 0)
	for i := 0; i < boxH; i++ {
		line := padRight(ansi.Truncate(boxLines[i], boxW, ""), boxW)
		row := baseLines[top+i]
		baseLines[top+i] = ansi.Cut(row, 0, left) + line + ansi.Cut(row, left+boxW, width)
	}
	return strings.Join(baseLines, "\n")
}

func normalizeLines(s string, width, height int) []string {
	lines := strings.Split(s, "\n")
	out := make([]string, height)
	for i := range out {
		if i < len(lines) {
			out[i] = padRight(ansi.Truncate(lines[i], width, ""), width)
			continue
		}
		out[i] = strings.Repeat(" ", width)
	}
	return out
}

// padRight pads s with spaces to width display cells.
func padRight(s string, width int) string {
	if gap := width - ansi.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
