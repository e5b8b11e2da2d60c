package planner

import (
	"context"

	"github.com/javiermolinar/planta/internal/constraint"
	"github.com/javiermolinar/planta/internal/period"
)

// GestureOutcome is what a pointer release did.
type GestureOutcome struct {
	Clicked bool
	BlockID string
	Result  Result
}

// Gesture returns the current gesture state. Front ends route pointer motion and
// release to the engine only while it is Active.
func (e *Engine) Gesture() Gesture {
	return e.gesture
}

// PointerDown starts a gesture on the block under (x, y). Presses on a block's
// top or bottom handle start a resize, elsewhere a move. It reports whether a
// block was hit.
func (e *Engine) PointerDown(x, y int) (bool, error) {
	return e.pointerDown(x, y, nil)
}

// PointerDownAs starts a gesture of the given kind on the block under (x, y),
// for front ends without resize handles.
func (e *Engine) PointerDownAs(kind GestureKind, x, y int) (bool, error) {
	return e.pointerDown(x, y, &kind)
}

func (e *Engine) pointerDown(x, y int, kind *GestureKind) (bool, error) {
	if e.gesture.Active() {
		return false, ErrGestureActive
	}
	lines := e.cat.LineIDs()
	days := e.visibleSlots()
	li, day, ok := e.geo.CellAt(x, y, days, len(lines))
	if !ok {
		return false, nil
	}
	b := e.blockAt(lines[li], day)
	if b == nil {
		return false, nil
	}

	k := KindMove
	if kind != nil {
		k = *kind
	} else if box, ok := e.geo.BlockBox(b.StartDay, b.EndDay, li, days); ok {
		switch e.geo.EdgeAt(box, y) {
		case period.EdgeTop:
			k = KindResizeTop
		case period.EdgeBottom:
			k = KindResizeBottom
		}
	}

	g, err := Press(e.gesture, k, b, li, Point{X: x, Y: y})
	if err != nil {
		return false, err
	}
	e.gesture = g
	e.log.Log("GESTURE", map[string]any{
		"phase": g.Phase.String(),
		"kind":  g.Kind.String(),
		"block": g.BlockID,
	})
	return true, nil
}

// PointerMove advances the active gesture.
func (e *Engine) PointerMove(x, y int) error {
	if !e.gesture.Active() {
		return ErrNoGesture
	}
	before := e.gesture.Phase
	e.gesture = Motion(e.gesture, Point{X: x, Y: y}, e.geo, e.cat.LineIDs(), e.period.LastDay())
	if e.gesture.Phase != before {
		e.log.Log("GESTURE", map[string]any{
			"phase": e.gesture.Phase.String(),
			"block": e.gesture.BlockID,
		})
	}
	return nil
}

// PointerUp releases the active gesture. A click selects the block; a drag runs
// the matching mutation. Any rejection or persistence failure reverts.
func (e *Engine) PointerUp(ctx context.Context, x, y int) (GestureOutcome, error) {
	if !e.gesture.Active() {
		return GestureOutcome{}, ErrNoGesture
	}
	e.gesture = Motion(e.gesture, Point{X: x, Y: y}, e.geo, e.cat.LineIDs(), e.period.LastDay())
	g, action := Release(e.gesture)
	out := GestureOutcome{BlockID: e.gesture.BlockID}

	switch action {
	case ActionClick:
		e.gesture = g
		out.Clicked = true
		if err := e.SelectBlock(out.BlockID); err != nil {
			return out, err
		}
		e.log.Log("GESTURE", map[string]any{"phase": "click", "block": out.BlockID})
		return out, nil
	case ActionNone:
		e.gesture = Settle(g)
		return out, nil
	}

	var (
		res Result
		err error
	)
	cand := g.Candidate
	switch g.Kind {
	case KindMove:
		res, err = e.MoveBlock(ctx, g.BlockID, cand.LineID, cand.StartDay)
	case KindResizeTop:
		res, err = e.ResizeExtend(ctx, g.BlockID, EdgeTop, cand.StartDay)
	case KindResizeBottom:
		res, err = e.ResizeExtend(ctx, g.BlockID, EdgeBottom, cand.EndDay)
	}
	out.Result = res
	if err != nil || res.Rejected() {
		g = Reject(g)
	}
	e.log.Log("GESTURE", map[string]any{
		"phase": g.Phase.String(),
		"kind":  g.Kind.String(),
		"block": g.BlockID,
	})
	e.gesture = Settle(g)
	return out, err
}

// CancelGesture abandons the active gesture without mutating anything.
func (e *Engine) CancelGesture() {
	if e.gesture.Active() {
		e.log.Log("GESTURE", map[string]any{"phase": "cancelled", "block": e.gesture.BlockID})
	}
	e.gesture = Gesture{}
}

// Preview returns the candidate of a dragging gesture and the violation it
// would cause if released now.
func (e *Engine) Preview() (*Preview, bool) {
	if e.gesture.Phase != PhaseDragging || e.gesture.Candidate == nil {
		return nil, false
	}
	cand := e.gesture.Candidate.Clone()
	p := &Preview{Kind: e.gesture.Kind, Block: cand}
	if e.gesture.Kind == KindMove {
		p.Violation = constraint.Check(e.store.All(), cand, cand.ID)
	}
	return p, true
}

// visibleSlots returns the day rows of the current zoom; week zoom keeps empty slots.
func (e *Engine) visibleSlots() []int {
	if e.period.Zoom == period.ZoomWeek {
		return period.DaysInWeek(e.period.Year, e.period.Month, e.period.Week)
	}
	return e.period.Days()
}
