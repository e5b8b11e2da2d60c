package planner

import (
	"errors"
	"fmt"

	"github.com/javiermolinar/planta/internal/block"
	"github.com/javiermolinar/planta/internal/period"
)

// Gesture errors.
var (
	ErrGestureActive = errors.New("another gesture is in progress")
	ErrNoGesture     = errors.New("no gesture in progress")
)

// Phase is the state of a pointer gesture.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePendingClick
	PhaseDragging
	PhaseCommitting
	PhaseReverting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePendingClick:
		return "pending_click"
	case PhaseDragging:
		return "dragging"
	case PhaseCommitting:
		return "committing"
	case PhaseReverting:
		return "reverting"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// GestureKind is what a drag does to its block.
type GestureKind int

const (
	KindMove GestureKind = iota
	KindResizeTop
	KindResizeBottom
)

func (k GestureKind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindResizeTop:
		return "resize_top"
	case KindResizeBottom:
		return "resize_bottom"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Point is a pointer position in grid geometry units.
type Point struct {
	X, Y int
}

// Gesture is the whole state of one pointer interaction.
// It is advanced only by Press, Motion, Release, Reject and Settle.
type Gesture struct {
	Phase     Phase
	Kind      GestureKind
	BlockID   string
	Origin    Point
	Current   Point
	LineIndex int          // line index of the block at press time
	Original  *block.Block // block as it was at press time
	Candidate *block.Block // where the block would land on release
}

// Active reports whether the gesture holds pointer input.
func (g Gesture) Active() bool {
	return g.Phase != PhaseIdle
}

// Moved reports whether the candidate differs from the original placement.
func (g Gesture) Moved() bool {
	if g.Original == nil || g.Candidate == nil {
		return false
	}
	return g.Candidate.LineID != g.Original.LineID ||
		g.Candidate.StartDay != g.Original.StartDay ||
		g.Candidate.EndDay != g.Original.EndDay
}

// Action tells the engine what a released gesture asks for.
type Action int

const (
	ActionNone Action = iota
	ActionClick
	ActionCommit
)

// Press starts a gesture on b. Only an idle gesture can be pressed.
func Press(g Gesture, kind GestureKind, b *block.Block, lineIndex int, at Point) (Gesture, error) {
	if g.Active() {
		return g, ErrGestureActive
	}
	return Gesture{
		Phase:     PhasePendingClick,
		Kind:      kind,
		BlockID:   b.ID,
		Origin:    at,
		Current:   at,
		LineIndex: lineIndex,
		Original:  b.Clone(),
		Candidate: b.Clone(),
	}, nil
}

// Motion follows the pointer. A pending click becomes a drag once the movement
// passes the geometry's threshold; a drag recomputes its candidate.
func Motion(g Gesture, at Point, geo period.Geometry, lines []string, lastDay int) Gesture {
	if g.Phase != PhasePendingClick && g.Phase != PhaseDragging {
		return g
	}
	g.Current = at
	dx, dy := at.X-g.Origin.X, at.Y-g.Origin.Y
	if g.Phase == PhasePendingClick {
		if !geo.BeyondThreshold(dx, dy) {
			return g
		}
		g.Phase = PhaseDragging
	}

	orig := g.Original
	cand := orig.Clone()
	days := geo.DayDelta(dy)

	switch g.Kind {
	case KindMove:
		li := clamp(g.LineIndex+geo.LineDelta(dx), 0, len(lines)-1)
		if li >= 0 && li < len(lines) {
			cand.LineID = lines[li]
		}
		cand.MoveTo(cand.LineID, clamp(orig.StartDay+days, 1, lastDay-orig.Duration()+1))
	case KindResizeTop:
		cand.StartDay = clamp(orig.StartDay+days, 1, orig.StartDay)
	case KindResizeBottom:
		cand.EndDay = clamp(orig.EndDay+days, orig.EndDay, lastDay)
	}
	g.Candidate = cand
	return g
}

// Release ends pointer input. A pending click resolves immediately to idle; a drag
// that moved its candidate moves to committing, otherwise to reverting.
func Release(g Gesture) (Gesture, Action) {
	switch g.Phase {
	case PhasePendingClick:
		return Gesture{}, ActionClick
	case PhaseDragging:
		if g.Moved() {
			g.Phase = PhaseCommitting
			return g, ActionCommit
		}
		g.Phase = PhaseReverting
		return g, ActionNone
	default:
		return g, ActionNone
	}
}

// Reject turns a committing gesture into a reverting one.
func Reject(g Gesture) Gesture {
	if g.Phase == PhaseCommitting {
		g.Phase = PhaseReverting
	}
	return g
}

// Settle returns a finished gesture to idle.
func Settle(g Gesture) Gesture {
	switch g.Phase {
	case PhaseCommitting, PhaseReverting:
		return Gesture{}
	default:
		return g
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
