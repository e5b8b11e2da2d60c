// Package selection tracks the active cell, the selected day range and the clipboard.
// It performs no constraint checks.
package selection

import (
	"slices"

	"github.com/javiermolinar/planta/internal/block"
)

// Direction is an arrow-key direction.
// Days run vertically, so Up and Down change the day and Left and Right change the line.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Cell addresses one day on one line.
type Cell struct {
	LineID string
	Day    int
}

// Range is a contiguous day range on one line.
type Range struct {
	LineID   string
	StartDay int
	EndDay   int
}

// Len returns the number of days in the range.
func (r Range) Len() int {
	return r.EndDay - r.StartDay + 1
}

// Contains reports whether the cell falls inside the range.
func (r Range) Contains(c Cell) bool {
	return c.LineID == r.LineID && c.Day >= r.StartDay && c.Day <= r.EndDay
}

// Selection holds the keyboard and mouse selection state of the grid.
type Selection struct {
	lines    []string
	firstDay int
	lastDay  int

	active    Cell
	hasActive bool

	anchor   Cell
	rng      Range
	hasRange bool

	clipboard *block.Block
}

// New creates an empty selection over the given lines and visible days.
func New(lines []string, firstDay, lastDay int) *Selection {
	s := &Selection{}
	s.SetBounds(lines, firstDay, lastDay)
	return s
}

// SetBounds changes the navigable lines and days, clamping the active cell.
// The clipboard survives.
func (s *Selection) SetBounds(lines []string, firstDay, lastDay int) {
	s.lines = slices.Clone(lines)
	s.firstDay, s.lastDay = firstDay, lastDay
	if !s.hasActive {
		return
	}
	if s.lineIndex(s.active.LineID) < 0 || len(s.lines) == 0 {
		s.ClearSelection()
		return
	}
	s.active.Day = min(max(s.active.Day, firstDay), lastDay)
	s.hasRange = false
}

// Active returns the active cell.
func (s *Selection) Active() (Cell, bool) {
	return s.active, s.hasActive
}

// Select makes c the active cell and clears the range.
func (s *Selection) Select(c Cell) {
	s.active = c
	s.hasActive = true
	s.hasRange = false
}

// ClearSelection removes the active cell and range. The clipboard is kept.
func (s *Selection) ClearSelection() {
	s.hasActive = false
	s.hasRange = false
}

// Range returns the selected range.
func (s *Selection) Range() (Range, bool) {
	return s.rng, s.hasRange
}

// Anchor returns the cell the current range grows from.
func (s *Selection) Anchor() (Cell, bool) {
	return s.anchor, s.hasRange
}

// SelectRange selects days [from, to] on lineID with the anchor at from.
func (s *Selection) SelectRange(lineID string, from, to int) {
	s.anchor = Cell{LineID: lineID, Day: from}
	s.active = Cell{LineID: lineID, Day: to}
	s.hasActive = true
	s.updateRange()
}

// Move moves the active cell and clears the range.
// Moving past the first or last day continues on the previous or next line.
func (s *Selection) Move(d Direction) {
	if !s.hasActive || len(s.lines) == 0 {
		return
	}
	s.hasRange = false
	li := s.lineIndex(s.active.LineID)

	switch d {
	case Up:
		if s.active.Day > s.firstDay {
			s.active.Day--
		} else if li > 0 {
			s.active = Cell{LineID: s.lines[li-1], Day: s.lastDay}
		}
	case Down:
		if s.active.Day < s.lastDay {
			s.active.Day++
		} else if li < len(s.lines)-1 {
			s.active = Cell{LineID: s.lines[li+1], Day: s.firstDay}
		}
	case Left:
		if li > 0 {
			s.active.LineID = s.lines[li-1]
		}
	case Right:
		if li < len(s.lines)-1 {
			s.active.LineID = s.lines[li+1]
		}
	}
}

// Extend grows or shrinks the range from the anchor along the anchor's line.
// The first extend anchors the range at the active cell.
func (s *Selection) Extend(d Direction) {
	if !s.hasActive {
		return
	}
	if !s.hasRange {
		s.anchor = s.active
	}
	switch d {
	case Up:
		if s.active.Day > s.firstDay {
			s.active.Day--
		}
	case Down:
		if s.active.Day < s.lastDay {
			s.active.Day++
		}
	default:
		return
	}
	s.updateRange()
}

func (s *Selection) updateRange() {
	s.active.LineID = s.anchor.LineID
	s.rng = Range{
		LineID:   s.anchor.LineID,
		StartDay: min(s.anchor.Day, s.active.Day),
		EndDay:   max(s.anchor.Day, s.active.Day),
	}
	s.hasRange = true
}

// Copy stores a deep copy of b in the clipboard.
func (s *Selection) Copy(b *block.Block) {
	s.clipboard = b.Clone()
}

// Clipboard returns a deep copy of the clipboard block.
func (s *Selection) Clipboard() (*block.Block, bool) {
	if s.clipboard == nil {
		return nil, false
	}
	return s.clipboard.Clone(), true
}

// ClearClipboard empties the clipboard.
func (s *Selection) ClearClipboard() {
	s.clipboard = nil
}

func (s *Selection) lineIndex(id string) int {
	return slices.Index(s.lines, id)
}
