package planner

import (
	"github.com/javiermolinar/planta/internal/block"
	"github.com/javiermolinar/planta/internal/catalog"
	"github.com/javiermolinar/planta/internal/changeover"
	"github.com/javiermolinar/planta/internal/constraint"
	"github.com/javiermolinar/planta/internal/period"
	"github.com/javiermolinar/planta/internal/selection"
)

// Preview is the in-flight candidate of a drag.
type Preview struct {
	Kind      GestureKind
	Block     *block.Block
	Violation *constraint.Violation
}

// BlockView is a block ready for rendering.
type BlockView struct {
	*block.Block
	MoldName string
	Overlap  bool
	Selected bool
}

// LineView is one grid column.
type LineView struct {
	ID             string
	Name           string
	Color          string
	Status         catalog.LineStatus
	Blocks         []BlockView
	ChangeoverDay  int // first changeover day in store order, 0 if none
	ChangeoverDays []int
}

// View is a render-ready snapshot of the grid. It shares nothing with the engine.
type View struct {
	Period       period.Period
	Days         []int // visible day rows; week zoom keeps empty slots as period.NoDay
	Lines        []LineView
	Preview      *Preview
	Active       *selection.Cell
	Range        *selection.Range
	Gesture      Phase
	CanUndo      bool
	HasClipboard bool
}

// View builds the render-ready snapshot of the current state.
func (e *Engine) View() View {
	blocks := e.store.All()
	overlapping := constraint.Overlapping(blocks)

	v := View{
		Period:  e.period,
		Days:    e.visibleSlots(),
		Gesture: e.gesture.Phase,
		CanUndo: e.CanUndo(),
	}
	for _, l := range e.cat.Lines {
		lv := LineView{
			ID:             l.ID,
			Name:           l.Name,
			Color:          l.Color,
			Status:         l.Status(),
			ChangeoverDays: changeover.Days(blocks, l.ID),
		}
		if day, ok := changeover.DayForLine(blocks, l.ID); ok {
			lv.ChangeoverDay = day
		}
		for _, b := range e.store.OnLine(l.ID) {
			lv.Blocks = append(lv.Blocks, BlockView{
				Block:    b.Clone(),
				MoldName: e.cat.MoldName(b.MoldID),
				Overlap:  overlapping[b.ID],
				Selected: b.ID == e.selected,
			})
		}
		v.Lines = append(v.Lines, lv)
	}

	if p, ok := e.Preview(); ok {
		v.Preview = p
	}
	if c, ok := e.sel.Active(); ok {
		v.Active = &c
	}
	if r, ok := e.sel.Range(); ok {
		v.Range = &r
	}
	_, v.HasClipboard = e.sel.Clipboard()
	return v
}

// BlockAt returns the block view on a line covering day.
func (l LineView) BlockAt(day int) (BlockView, bool) {
	for _, b := range l.Blocks {
		if b.Covers(day) {
			return b, true
		}
	}
	return BlockView{}, false
}
