package planner

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/javiermolinar/planta/internal/block"
	"github.com/javiermolinar/planta/internal/block/blocktest"
	"github.com/javiermolinar/planta/internal/catalog"
	"github.com/javiermolinar/planta/internal/period"
)

var errDisk = errors.New("disk full")

// memRepo is an in-memory block.Repository with injectable failures.
type memRepo struct {
	order  []string
	blocks map[string]*block.Block

	calls []string

	loadErr        error
	failNextSave   error
	failNextDelete error
}

func newMemRepo(blocks ...*block.Block) *memRepo {
	r := &memRepo{blocks: make(map[string]*block.Block)}
	for _, b := range blocks {
		r.put(b)
	}
	return r
}

func (r *memRepo) put(b *block.Block) {
	if _, ok := r.blocks[b.ID]; !ok {
		r.order = append(r.order, b.ID)
	}
	r.blocks[b.ID] = b.Clone()
}

func (r *memRepo) remove(id string) {
	delete(r.blocks, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
}

func (r *memRepo) takeSaveErr() error {
	err := r.failNextSave
	r.failNextSave = nil
	return err
}

func (r *memRepo) takeDeleteErr() error {
	err := r.failNextDelete
	r.failNextDelete = nil
	return err
}

func (r *memRepo) LoadBlocks(_ context.Context, year int, month time.Month) ([]*block.Block, error) {
	r.calls = append(r.calls, "load")
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	var out []*block.Block
	for _, id := range r.order {
		b := r.blocks[id]
		if b.Year == year && b.Month == month {
			out = append(out, b.Clone())
		}
	}
	return out, nil
}

func (r *memRepo) SaveBlock(_ context.Context, b *block.Block) error {
	r.calls = append(r.calls, "save")
	if err := r.takeSaveErr(); err != nil {
		return err
	}
	r.put(b)
	return nil
}

func (r *memRepo) SaveBlocks(_ context.Context, blocks []*block.Block) error {
	r.calls = append(r.calls, "save_many")
	if err := r.takeSaveErr(); err != nil {
		return err
	}
	for _, b := range blocks {
		r.put(b)
	}
	return nil
}

func (r *memRepo) DeleteBlock(_ context.Context, id string) error {
	r.calls = append(r.calls, "delete")
	if err := r.takeDeleteErr(); err != nil {
		return err
	}
	r.remove(id)
	return nil
}

func (r *memRepo) BulkDeleteBlocks(_ context.Context, ids []string) error {
	r.calls = append(r.calls, "bulk_delete")
	if err := r.takeDeleteErr(); err != nil {
		return err
	}
	for _, id := range ids {
		r.remove(id)
	}
	return nil
}

func (r *memRepo) Close() error { return nil }

// startDays returns the start days of the stored blocks on lineID, sorted.
func (r *memRepo) startDays(lineID string) []int {
	var days []int
	for _, b := range r.blocks {
		if b.LineID == lineID {
			days = append(days, b.StartDay)
		}
	}
	slices.Sort(days)
	return days
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	var lines []catalog.Line
	for _, id := range []string{"L1", "L2", "L3"} {
		lines = append(lines, catalog.Line{ID: id, PrimaryID: "IM", RobotID: "RB", ConveyorID: "CV", HoistID: "HS"})
	}
	cat, err := catalog.New(lines, []catalog.Mold{{ID: "M1", Name: "Bucket"}, {ID: "M2", Name: "Lid"}, {ID: "M3", Name: "Crate"}})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

// newTestEngine loads the fixture into a fresh engine for March 2025.
func newTestEngine(t *testing.T, fixture string, opts Options) (*Engine, *memRepo) {
	t.Helper()
	repo := newMemRepo(blocktest.Parse(fixture)...)
	e := New(repo, testCatalog(t), opts)
	if err := e.Load(context.Background(), period.New(blocktest.Year, blocktest.Month)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	repo.calls = nil
	return e, repo
}

// startDays returns the start days of the engine's blocks on lineID, sorted.
func startDays(e *Engine, lineID string) []int {
	var days []int
	for _, b := range e.Blocks() {
		if b.LineID == lineID {
			days = append(days, b.StartDay)
		}
	}
	slices.Sort(days)
	return days
}

func mustBlock(t *testing.T, e *Engine, id string) *block.Block {
	t.Helper()
	b, ok := e.Block(id)
	if !ok {
		t.Fatalf("block %s not found", id)
	}
	return b
}
