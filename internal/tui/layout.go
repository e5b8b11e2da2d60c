package tui

import (
	"slices"

	"github.com/javiermolinar/planta/internal/period"
)

const (
	headerRows  = 2 // title bar and line headers above the first day row
	footerRows  = 2 // status line and key help
	labelWidth  = 7 // "Mo 03  "
	minColWidth = 8
	maxColWidth = 28

	maxMonthDays = 31
)

// Layout holds the terminal cell sizes the grid is drawn with.
type Layout struct {
	ColWidth int // cells per line column, including the trailing gap
	GridRows int // day rows that fit on screen
}

// computeLayout fits numLines columns into the terminal.
func computeLayout(width, height, numLines int) Layout {
	l := Layout{ColWidth: minColWidth, GridRows: 1}
	if numLines > 0 && width > labelWidth {
		l.ColWidth = min(max((width-labelWidth)/numLines, minColWidth), maxColWidth)
	}
	if rows := height - headerRows - footerRows; rows > 1 {
		l.GridRows = rows
	}
	return l
}

// geometry maps terminal cells to grid cells: one row per day, one column
// block per line, no resize handles and no drag threshold.
func (l Layout) geometry() period.Geometry {
	return period.Geometry{
		HeaderHeight: headerRows,
		LabelWidth:   labelWidth,
		DayHeight:    1,
		LineWidth:    l.ColWidth,
	}
}

// resize recomputes the layout and hands the new geometry to the engine.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.layout = computeLayout(width, height, len(m.engine.Catalog().Lines))
	m.engine.SetGeometry(m.layout.geometry())
	m.ensureCursorVisible()
}

// slots returns the visible day rows; week zoom keeps empty slots as period.NoDay.
func (m Model) slots() []int {
	p := m.engine.Period()
	if p.Zoom == period.ZoomWeek {
		return period.DaysInWeek(p.Year, p.Month, p.Week)
	}
	return p.Days()
}

// toGrid converts a terminal position into the engine's grid coordinates,
// undoing the vertical scroll.
func (m Model) toGrid(x, y int) (int, int) {
	if y < headerRows {
		return x, y
	}
	return x, y + m.scroll
}

// ensureCursorVisible scrolls so the active cell's row is on screen.
func (m *Model) ensureCursorVisible() {
	cell, ok := m.engine.Selection().Active()
	if !ok {
		return
	}
	row := slices.Index(m.slots(), cell.Day)
	if row < 0 {
		return
	}
	rows := max(m.layout.GridRows, 1)
	if row < m.scroll {
		m.scroll = row
	} else if row >= m.scroll+rows {
		m.scroll = row - rows + 1
	}
	m.clampScroll()
}

func (m *Model) clampScroll() {
	maxScroll := max(len(m.slots())-max(m.layout.GridRows, 1), 0)
	m.scroll = min(max(m.scroll, 0), maxScroll)
}
