// Package constraint implements the placement rules of the planning grid.
// All functions are pure over a snapshot of blocks and never mutate it.
package constraint

import (
	"fmt"

	"github.com/javiermolinar/planta/internal/block"
)

// Kind identifies which rule a candidate violated.
type Kind string

const (
	KindOverlap      Kind = "overlap"
	KindMoldConflict Kind = "mold_conflict"
	KindOutOfRange   Kind = "out_of_range"
	KindNoEmptyDay   Kind = "no_empty_day"
)

// Violation describes a rejected candidate.
// Conflict is the existing block it collided with, when there is one.
type Violation struct {
	Kind      Kind
	Candidate *block.Block
	Conflict  *block.Block
}

// Message returns the user-facing description of the violation.
func (v *Violation) Message() string {
	c := v.Candidate
	switch v.Kind {
	case KindOverlap:
		if v.Conflict != nil {
			return fmt.Sprintf("line %s already has a block on day %d", c.LineID, v.Conflict.StartDay)
		}
		return fmt.Sprintf("line %s is occupied on day %d", c.LineID, c.StartDay)
	case KindMoldConflict:
		return fmt.Sprintf("mold %s already runs on line %s on day %d", c.MoldID, v.Conflict.LineID, c.StartDay)
	case KindOutOfRange:
		return fmt.Sprintf("days %d-%d are outside the planning period", c.StartDay, c.EndDay)
	case KindNoEmptyDay:
		return fmt.Sprintf("no empty day on line %s after day %d", c.LineID, c.StartDay)
	default:
		return string(v.Kind)
	}
}

func (v *Violation) String() string {
	return v.Message()
}

// Overlaps reports whether a and b, assumed on the same line, conflict.
// A single shared boundary day is a legal shift handover unless both start on it.
func Overlaps(a, b *block.Block) bool {
	if a.StartDay > b.EndDay || a.EndDay < b.StartDay {
		return false
	}
	lo, hi := max(a.StartDay, b.StartDay), min(a.EndDay, b.EndDay)
	if lo == hi && a.StartDay != b.StartDay && (a.EndDay == b.StartDay || b.EndDay == a.StartDay) {
		return false
	}
	return true
}

// FindOverlap returns the first block in store order on the candidate's line
// that conflicts with it, ignoring excludeID.
func FindOverlap(blocks []*block.Block, candidate *block.Block, excludeID string) *block.Block {
	for _, other := range blocks {
		if other.LineID != candidate.LineID || other.ID == excludeID {
			continue
		}
		if Overlaps(other, candidate) {
			return other
		}
	}
	return nil
}

// HasOverlap reports whether the candidate conflicts with another block on its line.
func HasOverlap(blocks []*block.Block, candidate *block.Block, excludeID string) bool {
	return FindOverlap(blocks, candidate, excludeID) != nil
}

// MoldConflict returns the first block in store order that runs the candidate's
// mold on the same start day on a different line. It returns nil when the
// candidate has no mold.
func MoldConflict(blocks []*block.Block, candidate *block.Block, excludeID string) *block.Block {
	if candidate.MoldID == "" {
		return nil
	}
	for _, other := range blocks {
		if other.ID == excludeID {
			continue
		}
		if other.MoldID == candidate.MoldID && other.StartDay == candidate.StartDay && other.LineID != candidate.LineID {
			return other
		}
	}
	return nil
}

// Check runs the overlap rule and then the mold rule against the candidate.
func Check(blocks []*block.Block, candidate *block.Block, excludeID string) *Violation {
	if other := FindOverlap(blocks, candidate, excludeID); other != nil {
		return &Violation{Kind: KindOverlap, Candidate: candidate, Conflict: other}
	}
	if other := MoldConflict(blocks, candidate, excludeID); other != nil {
		return &Violation{Kind: KindMoldConflict, Candidate: candidate, Conflict: other}
	}
	return nil
}

// CheckRange rejects candidates that leave the days 1..lastDay.
func CheckRange(candidate *block.Block, lastDay int) *Violation {
	if candidate.StartDay < 1 || candidate.EndDay > lastDay || candidate.EndDay < candidate.StartDay {
		return &Violation{Kind: KindOutOfRange, Candidate: candidate}
	}
	return nil
}

// Overlapping returns the ids of every block involved in a same-line overlap.
// Committed stores are normally conflict-free; loaded data may not be.
func Overlapping(blocks []*block.Block) map[string]bool {
	out := make(map[string]bool)
	for i, a := range blocks {
		for _, b := range blocks[i+1:] {
			if a.LineID == b.LineID && Overlaps(a, b) {
				out[a.ID] = true
				out[b.ID] = true
			}
		}
	}
	return out
}
