package period

import "math"

// Geometry maps between pixel positions and grid cells.
// Days run vertically (top is earlier) and lines run horizontally.
type Geometry struct {
	HeaderHeight  int // Pixels above the first day row
	LabelWidth    int // Pixels left of the first line column
	DayHeight     int // Height of one day row
	LineWidth     int // Width of one line column
	Margin        int // Inset of a block inside its cells
	DragThreshold int // Pointer movement that turns a click into a drag
	Handle        int // Height of the resize handle at each end of a block
}

// Default geometry values.
const (
	DefaultHeaderHeight  = 60
	DefaultLabelWidth    = 64
	DefaultLineWidth     = 120
	DefaultMargin        = 2
	DefaultDragThreshold = 5
	DefaultHandle        = 6

	monthDayHeight = 48
	weekDayHeight  = 64
)

// ForZoom returns the pixel geometry used at the given zoom level.
func ForZoom(z Zoom) Geometry {
	g := Geometry{
		HeaderHeight:  DefaultHeaderHeight,
		LabelWidth:    DefaultLabelWidth,
		DayHeight:     monthDayHeight,
		LineWidth:     DefaultLineWidth,
		Margin:        DefaultMargin,
		DragThreshold: DefaultDragThreshold,
		Handle:        DefaultHandle,
	}
	if z == ZoomWeek {
		g.DayHeight = weekDayHeight
	}
	return g
}

// CellAt returns the line index and day under the pixel (x, y).
// ok is false outside the grid body.
func (g Geometry) CellAt(x, y int, days []int, numLines int) (lineIndex, day int, ok bool) {
	if g.DayHeight <= 0 || g.LineWidth <= 0 {
		return 0, 0, false
	}
	if x < g.LabelWidth || y < g.HeaderHeight {
		return 0, 0, false
	}
	lineIndex = (x - g.LabelWidth) / g.LineWidth
	row := (y - g.HeaderHeight) / g.DayHeight
	if lineIndex >= numLines || row >= len(days) || days[row] == NoDay {
		return 0, 0, false
	}
	return lineIndex, days[row], true
}

// DayDelta converts a vertical pointer movement into whole days.
func (g Geometry) DayDelta(dy int) int {
	return roundDiv(dy, g.DayHeight)
}

// LineDelta converts a horizontal pointer movement into whole lines.
func (g Geometry) LineDelta(dx int) int {
	return roundDiv(dx, g.LineWidth)
}

// BeyondThreshold reports whether a pointer movement escalates a click into a drag.
func (g Geometry) BeyondThreshold(dx, dy int) bool {
	return abs(dx) > g.DragThreshold || abs(dy) > g.DragThreshold
}

// Box is a rectangle in pixels.
type Box struct {
	X, Y, Width, Height int
}

// BlockBox returns the rectangle covering days [start, end] in the given line column,
// clipped to the visible days. ok is false when no day of the range is visible.
func (g Geometry) BlockBox(start, end, lineIndex int, days []int) (Box, bool) {
	first, last := -1, -1
	for i, d := range days {
		if d == NoDay || d < start || d > end {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 {
		return Box{}, false
	}
	return Box{
		X:      g.LabelWidth + lineIndex*g.LineWidth + g.Margin,
		Y:      g.HeaderHeight + first*g.DayHeight + g.Margin,
		Width:  g.LineWidth - 2*g.Margin,
		Height: (last-first+1)*g.DayHeight - 2*g.Margin,
	}, true
}

// Edge is the end of a block a pointer press landed on.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeTop
	EdgeBottom
)

// EdgeAt returns the resize handle of box under the vertical position y.
func (g Geometry) EdgeAt(box Box, y int) Edge {
	if g.Handle <= 0 || y < box.Y || y >= box.Y+box.Height {
		return EdgeNone
	}
	if y < box.Y+g.Handle {
		return EdgeTop
	}
	if y >= box.Y+box.Height-g.Handle {
		return EdgeBottom
	}
	return EdgeNone
}

// roundDiv divides and rounds halves up.
func roundDiv(n, d int) int {
	if d <= 0 {
		return 0
	}
	return int(math.Floor(float64(n)/float64(d) + 0.5))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
