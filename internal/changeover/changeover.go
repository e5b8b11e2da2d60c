// Package changeover derives the day boundaries where one block hands a line over to another.
package changeover

import (
	"slices"

	"github.com/javiermolinar/planta/internal/block"
)

// Detect recomputes the derived changeover fields of every block.
// It always rescans the whole slice.
func Detect(blocks []*block.Block) {
	for _, b := range blocks {
		b.ClearDerived()
	}
	for _, b := range blocks {
		for _, other := range blocks {
			if other == b || other.ID == b.ID || other.LineID != b.LineID {
				continue
			}
			if other.EndDay == b.StartDay {
				b.IsChangeover = true
				b.ChangeoverStartDay = b.StartDay
			}
			if other.StartDay == b.EndDay {
				b.IsChangeover = true
				b.ChangeoverEndDay = b.EndDay
			}
		}
	}
}

// DayForLine returns the first day, in store order, where a block on lineID
// ends and another begins.
func DayForLine(blocks []*block.Block, lineID string) (int, bool) {
	for _, a := range blocks {
		if a.LineID != lineID {
			continue
		}
		for _, b := range blocks {
			if b == a || b.ID == a.ID || b.LineID != lineID {
				continue
			}
			if a.EndDay == b.StartDay {
				return a.EndDay, true
			}
		}
	}
	return 0, false
}

// OnDay reports whether a block on lineID ends on day while another starts on it.
func OnDay(blocks []*block.Block, lineID string, day int) bool {
	var ends, starts []string
	for _, b := range blocks {
		if b.LineID != lineID {
			continue
		}
		if b.EndDay == day {
			ends = append(ends, b.ID)
		}
		if b.StartDay == day {
			starts = append(starts, b.ID)
		}
	}
	for _, e := range ends {
		for _, s := range starts {
			if e != s {
				return true
			}
		}
	}
	return false
}

// Days returns every changeover day on lineID in ascending order.
func Days(blocks []*block.Block, lineID string) []int {
	var days []int
	for _, b := range blocks {
		if b.LineID != lineID {
			continue
		}
		if !slices.Contains(days, b.EndDay) && OnDay(blocks, lineID, b.EndDay) {
			days = append(days, b.EndDay)
		}
	}
	slices.Sort(days)
	return days
}
