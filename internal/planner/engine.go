// Package planner implements the mutation engine of the production grid.
//
// Every mutation follows the same two-phase commit: the committed store is
// cloned, the change is staged and validated on the clone, changeovers are
// recomputed, the difference is persisted, and only then does the clone
// replace the committed store. A failed persistence call leaves the engine
// exactly as it was.
//
// The engine is single-session and not safe for concurrent use.
package planner

import (
	"context"
	"fmt"

	"github.com/javiermolinar/planta/internal/block"
	"github.com/javiermolinar/planta/internal/catalog"
	"github.com/javiermolinar/planta/internal/changeover"
	"github.com/javiermolinar/planta/internal/debuglog"
	"github.com/javiermolinar/planta/internal/period"
	"github.com/javiermolinar/planta/internal/selection"
)

const (
	defaultMaxHistory = 50
	defaultDuration   = 1
)

// Options configures an Engine.
type Options struct {
	DefaultDuration int // days covered by a new draft
	MaxHistory      int // undo snapshots kept
	DragThreshold   int // overrides the geometry threshold when > 0
	Logger          *debuglog.Logger
}

// historyEntry is the committed state before an operation.
type historyEntry struct {
	Description string
	Store       *block.Store
}

// Engine owns the committed block store of one period and every way of changing it.
type Engine struct {
	repo block.Repository
	cat  *catalog.Catalog
	opts Options
	log  *debuglog.Logger

	period   period.Period
	loaded   bool
	store    *block.Store
	sel      *selection.Selection
	selected string // id of the clicked block

	geo       period.Geometry
	customGeo bool
	gesture   Gesture

	history []historyEntry
}

// New creates an engine over repo and the catalog's lines.
func New(repo block.Repository, cat *catalog.Catalog, opts Options) *Engine {
	if opts.DefaultDuration < 1 {
		opts.DefaultDuration = defaultDuration
	}
	if opts.MaxHistory <= 0 {
		opts.MaxHistory = defaultMaxHistory
	}
	p := period.New(1, 1)
	return &Engine{
		repo:  repo,
		cat:   cat,
		opts:  opts,
		log:   opts.Logger,
		store: block.NewStore(),
		sel:   selection.New(cat.LineIDs(), 1, 1),
		geo:   geometryFor(p.Zoom, opts.DragThreshold),
	}
}

func geometryFor(z period.Zoom, threshold int) period.Geometry {
	g := period.ForZoom(z)
	if threshold > 0 {
		g.DragThreshold = threshold
	}
	return g
}

// Load replaces the committed store with the blocks stored for p's month.
// Undo history and any gesture are discarded.
func (e *Engine) Load(ctx context.Context, p period.Period) error {
	blocks, err := e.repo.LoadBlocks(ctx, p.Year, p.Month)
	if err != nil {
		e.log.Error("load", err)
		return fmt.Errorf("loading blocks for %s: %w", p.Key(), err)
	}
	store := block.NewStore(blocks...)
	changeover.Detect(store.All())

	e.store = store
	e.period = p
	e.loaded = true
	e.history = nil
	e.gesture = Gesture{}
	e.selected = ""
	e.applyPeriod()

	e.log.Log("LOAD", map[string]any{
		"period": p.Key(),
		"blocks": store.Len(),
	})
	return nil
}

// SetPeriod changes the visible period. Changing month reloads from the repository;
// changing only zoom or week keeps the store and history.
func (e *Engine) SetPeriod(ctx context.Context, p period.Period) error {
	if !e.loaded || p.Year != e.period.Year || p.Month != e.period.Month {
		return e.Load(ctx, p)
	}
	e.period = p
	e.applyPeriod()
	return nil
}

func (e *Engine) applyPeriod() {
	days := e.period.Days()
	first, last := 1, e.period.LastDay()
	if len(days) > 0 {
		first, last = days[0], days[len(days)-1]
	}
	e.sel.SetBounds(e.cat.LineIDs(), first, last)
	if !e.customGeo {
		e.geo = geometryFor(e.period.Zoom, e.opts.DragThreshold)
	}
}

// SetGeometry replaces the pixel geometry used by pointer gestures.
func (e *Engine) SetGeometry(g period.Geometry) {
	e.geo = g
	e.customGeo = true
}

// Geometry returns the pointer geometry in use.
func (e *Engine) Geometry() period.Geometry {
	return e.geo
}

// Period returns the loaded period.
func (e *Engine) Period() period.Period {
	return e.period
}

// Catalog returns the reference data the engine plans against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// Selection returns the keyboard selection and clipboard.
func (e *Engine) Selection() *selection.Selection {
	return e.sel
}

// Blocks returns copies of the committed blocks in store order.
func (e *Engine) Blocks() []*block.Block {
	out := make([]*block.Block, 0, e.store.Len())
	for _, b := range e.store.All() {
		out = append(out, b.Clone())
	}
	return out
}

// Block returns a copy of the committed block with the given id.
func (e *Engine) Block(id string) (*block.Block, bool) {
	b, ok := e.store.Get(id)
	if !ok {
		return nil, false
	}
	return b.Clone(), true
}

// BlockAt returns a copy of the first block on lineID covering day.
func (e *Engine) BlockAt(lineID string, day int) (*block.Block, bool) {
	if b := e.blockAt(lineID, day); b != nil {
		return b.Clone(), true
	}
	return nil, false
}

func (e *Engine) blockAt(lineID string, day int) *block.Block {
	for _, b := range e.store.All() {
		if b.LineID == lineID && b.Covers(day) {
			return b
		}
	}
	return nil
}

// SelectedBlock returns the block last selected by a click, if it still exists.
func (e *Engine) SelectedBlock() (*block.Block, bool) {
	if e.selected == "" {
		return nil, false
	}
	return e.Block(e.selected)
}

// SelectBlock marks a block as selected and moves the active cell onto it.
func (e *Engine) SelectBlock(id string) error {
	b, ok := e.store.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", block.ErrBlockNotFound, id)
	}
	e.selected = id
	e.sel.Select(selection.Cell{LineID: b.LineID, Day: b.StartDay})
	return nil
}

// CanUndo reports whether there is a committed operation to undo.
func (e *Engine) CanUndo() bool {
	return len(e.history) > 0
}

// Undo restores the state before the last committed operation, in memory and in storage.
func (e *Engine) Undo(ctx context.Context) (Result, error) {
	if len(e.history) == 0 {
		return Result{Op: "undo"}, ErrNothingToUndo
	}
	last := e.history[len(e.history)-1]
	res := Result{Op: "undo"}
	if err := e.commit(ctx, &res, last.Store.Clone(), commitOpts{noHistory: true}); err != nil {
		return res, err
	}
	e.history = e.history[:len(e.history)-1]
	e.log.Log("UNDO", map[string]any{"description": last.Description})
	return res, nil
}

type commitOpts struct {
	bulkDelete bool // always use BulkDeleteBlocks for deletions
	noHistory  bool
}

// commit persists the difference between the committed store and staged, then
// swaps staged in. On failure the committed store is untouched.
func (e *Engine) commit(ctx context.Context, res *Result, staged *block.Store, opts commitOpts) error {
	if !e.loaded {
		return ErrNotLoaded
	}
	changeover.Detect(staged.All())
	saved, deleted := block.Diff(e.store, staged)
	if len(saved) == 0 && len(deleted) == 0 {
		return nil
	}

	if err := e.persist(ctx, res.Op, saved, deleted, opts); err != nil {
		return err
	}

	if !opts.noHistory {
		e.pushHistory(res.Op, e.store)
	}
	e.store = staged
	if e.selected != "" {
		if _, ok := staged.Get(e.selected); !ok {
			e.selected = ""
		}
	}

	res.Deleted = deleted
	res.Saved = make([]*block.Block, len(saved))
	for i, b := range saved {
		res.Saved[i] = b.Clone()
	}
	e.log.Log("COMMIT", map[string]any{
		"op":      res.Op,
		"saved":   ids(saved),
		"deleted": deleted,
	})
	return nil
}

// persist deletes first, then saves. If the save fails after deletions went
// through, the deleted blocks are saved back.
func (e *Engine) persist(ctx context.Context, op string, saved []*block.Block, deleted []string, opts commitOpts) error {
	if len(deleted) > 0 {
		var err error
		if len(deleted) == 1 && !opts.bulkDelete {
			err = e.repo.DeleteBlock(ctx, deleted[0])
		} else {
			err = e.repo.BulkDeleteBlocks(ctx, deleted)
		}
		if err != nil {
			e.log.Error(op+": delete", err)
			return &PersistenceError{Op: op, IDs: deleted, Err: err}
		}
	}

	if len(saved) == 0 {
		return nil
	}
	var err error
	if len(saved) == 1 {
		err = e.repo.SaveBlock(ctx, saved[0])
	} else {
		err = e.repo.SaveBlocks(ctx, saved)
	}
	if err == nil {
		return nil
	}
	e.log.Error(op+": save", err)

	if len(deleted) > 0 {
		e.compensate(ctx, op, deleted)
	}
	return &PersistenceError{Op: op, IDs: ids(saved), Err: err}
}

func (e *Engine) compensate(ctx context.Context, op string, deleted []string) {
	restore := make([]*block.Block, 0, len(deleted))
	for _, id := range deleted {
		if b, ok := e.store.Get(id); ok {
			restore = append(restore, b)
		}
	}
	if err := e.repo.SaveBlocks(ctx, restore); err != nil {
		e.log.Error(op+": compensate", err)
		return
	}
	e.log.Log("COMPENSATED", map[string]any{"op": op, "restored": deleted})
}

func (e *Engine) pushHistory(desc string, s *block.Store) {
	e.history = append(e.history, historyEntry{Description: desc, Store: s})
	if len(e.history) > e.opts.MaxHistory {
		e.history = e.history[len(e.history)-e.opts.MaxHistory:]
	}
}

func ids(blocks []*block.Block) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = b.ID
	}
	return out
}
