package planner

import (
	"context"
	"fmt"

	"github.com/javiermolinar/planta/internal/block"
	"github.com/javiermolinar/planta/internal/catalog"
	"github.com/javiermolinar/planta/internal/constraint"
)

// Edge selects which end of a block a resize extends.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
)

func (e Edge) String() string {
	if e == EdgeTop {
		return "top"
	}
	return "bottom"
}

func (e *Engine) line(id string) (catalog.Line, error) {
	l, ok := e.cat.Line(id)
	if !ok {
		return catalog.Line{}, fmt.Errorf("%w: %s", block.ErrUnknownLine, id)
	}
	return l, nil
}

func (e *Engine) get(id string) (*block.Block, error) {
	b, ok := e.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", block.ErrBlockNotFound, id)
	}
	return b, nil
}

func (e *Engine) reject(res Result, v *constraint.Violation) Result {
	res.Violation = v
	e.log.Log("REJECTED", map[string]any{
		"op":     res.Op,
		"kind":   string(v.Kind),
		"reason": v.Message(),
	})
	return res
}

// copyOf returns a new placement of src with a fresh id. The copy keeps mold,
// color, label and payload but none of the changeover configuration.
func copyOf(src *block.Block) *block.Block {
	c := src.Clone()
	c.ID = block.NewID()
	c.IsChangeoverBlock = false
	c.ParentID = ""
	c.ChangeoverMinutes = 0
	c.ChangeoverTime = ""
	c.ChangeoverMode = ""
	c.ChangeoverMoldID = ""
	c.ClearDerived()
	return c
}

// CreateBlock opens a draft on lineID starting at day. Nothing is stored until
// the draft is passed to UpdateBlock.
func (e *Engine) CreateBlock(lineID string, day int) (*block.Block, error) {
	l, err := e.line(lineID)
	if err != nil {
		return nil, err
	}
	if !e.period.Contains(day) {
		return nil, fmt.Errorf("day %d: %w", day, block.ErrInvalidRange)
	}
	end := min(day+e.opts.DefaultDuration-1, e.period.LastDay())
	return &block.Block{
		ID:       block.NewID(),
		LineID:   lineID,
		StartDay: day,
		EndDay:   end,
		Color:    l.Color,
		Year:     e.period.Year,
		Month:    e.period.Month,
	}, nil
}

// UpdateBlock validates and commits a draft. A new draft covering N > 1 days is
// split into N single-day blocks, all or nothing. An existing block is replaced
// in place. A single-day block with a changeover configuration also gets a
// changeover block on the following day when that day is free.
func (e *Engine) UpdateBlock(ctx context.Context, draft *block.Block) (Result, error) {
	res := Result{Op: "update"}
	if err := draft.Validate(); err != nil {
		return res, fmt.Errorf("update block: %w", err)
	}
	if _, err := e.line(draft.LineID); err != nil {
		return res, err
	}
	if v := constraint.CheckRange(draft, e.period.LastDay()); v != nil {
		return e.reject(res, v), nil
	}

	staged := e.store.Clone()
	var placed []*block.Block

	if _, existing := staged.Get(draft.ID); existing {
		for _, child := range staged.ChildrenOf(draft.ID) {
			staged.Remove(child.ID)
		}
		cand := draft.Clone()
		cand.Year, cand.Month = e.period.Year, e.period.Month
		if v := constraint.Check(staged.All(), cand, cand.ID); v != nil {
			return e.reject(res, v), nil
		}
		staged.Put(cand)
		placed = append(placed, cand)
	} else {
		for i, n := 0, draft.Duration(); i < n; i++ {
			cand := draft.Clone()
			if i > 0 {
				cand.ID = block.NewID()
			}
			cand.StartDay = draft.StartDay + i
			cand.EndDay = cand.StartDay
			cand.Year, cand.Month = e.period.Year, e.period.Month
			cand.ClearDerived()
			if v := constraint.Check(staged.All(), cand, cand.ID); v != nil {
				return e.reject(res, v), nil
			}
			staged.Put(cand)
			placed = append(placed, cand)
		}
	}

	last := placed[len(placed)-1]
	if last.Duration() == 1 && last.HasChangeoverConfig() {
		if v := e.stageChangeoverBlock(staged, last); v != nil {
			res.Dropped = append(res.Dropped, v)
		}
	}

	if err := e.commit(ctx, &res, staged, commitOpts{}); err != nil {
		return res, err
	}
	return res, nil
}

// stageChangeoverBlock places the block carrying parent's changeover mold on the
// day after parent. It returns the violation when the block cannot be placed.
func (e *Engine) stageChangeoverBlock(staged *block.Store, parent *block.Block) *constraint.Violation {
	c := &block.Block{
		ID:                block.NewID(),
		LineID:            parent.LineID,
		StartDay:          parent.StartDay + 1,
		EndDay:            parent.StartDay + 1,
		MoldID:            parent.ChangeoverMoldID,
		Color:             parent.Color,
		Label:             e.cat.MoldName(parent.ChangeoverMoldID),
		Year:              parent.Year,
		Month:             parent.Month,
		IsChangeoverBlock: true,
		ParentID:          parent.ID,
		Payload: block.Payload{
			ProductColors: append([]block.ProductColor(nil), parent.Payload.ChangeoverProductColors...),
			PartyCodes:    append([]string(nil), parent.Payload.ChangeoverPartyCodes...),
		},
	}
	if v := constraint.CheckRange(c, e.period.LastDay()); v != nil {
		return v
	}
	if v := constraint.Check(staged.All(), c, ""); v != nil {
		e.log.Log("CHANGEOVER_DROPPED", map[string]any{
			"parent": parent.ID,
			"reason": v.Message(),
		})
		return v
	}
	staged.Put(c)
	return nil
}

// MoveBlock moves a block to targetDay on targetLine, keeping its duration and
// clamping it into the period. A violation leaves the store unchanged.
func (e *Engine) MoveBlock(ctx context.Context, id, targetLine string, targetDay int) (Result, error) {
	res := Result{Op: "move"}
	b, err := e.get(id)
	if err != nil {
		return res, err
	}
	if _, err := e.line(targetLine); err != nil {
		return res, err
	}

	cand := b.Clone()
	cand.MoveTo(targetLine, clamp(targetDay, 1, e.period.LastDay()-b.Duration()+1))
	if v := constraint.CheckRange(cand, e.period.LastDay()); v != nil {
		return e.reject(res, v), nil
	}
	if v := constraint.Check(e.store.All(), cand, id); v != nil {
		return e.reject(res, v), nil
	}

	staged := e.store.Clone()
	staged.Put(cand)
	if err := e.commit(ctx, &res, staged, commitOpts{}); err != nil {
		return res, err
	}
	return res, nil
}

// ResizeExtend fills days beyond one edge of a block with single-day copies of it.
// The top edge fills [targetDay, start) and the bottom edge fills (end, targetDay].
// The source block is unchanged. Days that fail validation are skipped.
func (e *Engine) ResizeExtend(ctx context.Context, id string, edge Edge, targetDay int) (Result, error) {
	res := Result{Op: "resize"}
	src, err := e.get(id)
	if err != nil {
		return res, err
	}

	var from, to int
	switch edge {
	case EdgeTop:
		from, to = max(targetDay, 1), src.StartDay-1
	case EdgeBottom:
		from, to = src.EndDay+1, min(targetDay, e.period.LastDay())
	}

	staged := e.store.Clone()
	for day := from; day <= to; day++ {
		cand := copyOf(src)
		cand.StartDay, cand.EndDay = day, day
		if v := constraint.Check(staged.All(), cand, ""); v != nil {
			res.Skipped = append(res.Skipped, v)
			continue
		}
		staged.Put(cand)
	}
	if len(res.Skipped) > 0 {
		e.log.Log("RESIZE_SKIPPED", map[string]any{
			"block":   id,
			"edge":    edge.String(),
			"skipped": len(res.Skipped),
		})
	}

	if err := e.commit(ctx, &res, staged, commitOpts{}); err != nil {
		return res, err
	}
	return res, nil
}

// Duplicate places a copy of a block on the first day after fromDay where it
// does not overlap anything on its line.
func (e *Engine) Duplicate(ctx context.Context, id string, fromDay int) (Result, error) {
	res := Result{Op: "duplicate"}
	src, err := e.get(id)
	if err != nil {
		return res, err
	}

	cand := copyOf(src)
	found := false
	for day := fromDay + 1; day+src.Duration()-1 <= e.period.LastDay(); day++ {
		cand.MoveTo(src.LineID, day)
		if !constraint.HasOverlap(e.store.All(), cand, "") {
			found = true
			break
		}
	}
	if !found {
		cand.MoveTo(src.LineID, fromDay)
		return e.reject(res, &constraint.Violation{Kind: constraint.KindNoEmptyDay, Candidate: cand}), nil
	}
	if other := constraint.MoldConflict(e.store.All(), cand, ""); other != nil {
		return e.reject(res, &constraint.Violation{Kind: constraint.KindMoldConflict, Candidate: cand, Conflict: other}), nil
	}

	staged := e.store.Clone()
	staged.Put(cand)
	if err := e.commit(ctx, &res, staged, commitOpts{}); err != nil {
		return res, err
	}
	return res, nil
}

// Copy puts a deep copy of a block in the clipboard.
func (e *Engine) Copy(id string) error {
	b, err := e.get(id)
	if err != nil {
		return err
	}
	e.sel.Copy(b)
	e.log.Log("COPY", map[string]any{"block": id})
	return nil
}

// Paste places the clipboard block at the active cell with a fresh id.
func (e *Engine) Paste(ctx context.Context) (Result, error) {
	res := Result{Op: "paste"}
	clip, ok := e.sel.Clipboard()
	if !ok {
		return res, ErrClipboardEmpty
	}
	cell, ok := e.sel.Active()
	if !ok {
		return res, ErrNoSelection
	}
	if _, err := e.line(cell.LineID); err != nil {
		return res, err
	}

	cand := copyOf(clip)
	cand.Year, cand.Month = e.period.Year, e.period.Month
	cand.MoveTo(cell.LineID, cell.Day)
	if v := constraint.CheckRange(cand, e.period.LastDay()); v != nil {
		return e.reject(res, v), nil
	}
	if v := constraint.Check(e.store.All(), cand, ""); v != nil {
		return e.reject(res, v), nil
	}

	staged := e.store.Clone()
	staged.Put(cand)
	if err := e.commit(ctx, &res, staged, commitOpts{}); err != nil {
		return res, err
	}
	return res, nil
}

// DeleteBlock removes a block together with its synthesized changeover blocks.
func (e *Engine) DeleteBlock(ctx context.Context, id string) (Result, error) {
	res := Result{Op: "delete"}
	if _, err := e.get(id); err != nil {
		return res, err
	}
	staged := e.store.Clone()
	for _, child := range staged.ChildrenOf(id) {
		staged.Remove(child.ID)
	}
	staged.Remove(id)
	if err := e.commit(ctx, &res, staged, commitOpts{}); err != nil {
		return res, err
	}
	return res, nil
}

// DeleteRange removes every block on lineID starting within [from, to] once
// confirm accepts the count. The removal is one batch delete.
func (e *Engine) DeleteRange(ctx context.Context, lineID string, from, to int, confirm func(n int) bool) (Result, error) {
	res := Result{Op: "delete_range"}
	if _, err := e.line(lineID); err != nil {
		return res, err
	}
	if from > to {
		from, to = to, from
	}

	var doomed []string
	for _, b := range e.store.OnLine(lineID) {
		if b.StartDay >= from && b.StartDay <= to {
			doomed = append(doomed, b.ID)
		}
	}
	if len(doomed) == 0 {
		return res, nil
	}
	if confirm != nil && !confirm(len(doomed)) {
		res.Cancelled = true
		return res, nil
	}

	staged := e.store.Clone()
	for _, id := range doomed {
		staged.Remove(id)
	}
	if err := e.commit(ctx, &res, staged, commitOpts{bulkDelete: true}); err != nil {
		return res, err
	}
	return res, nil
}
