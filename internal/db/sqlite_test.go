package db

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/javiermolinar/planta/internal/block"
	"github.com/javiermolinar/planta/internal/block/blocktest"
)

func newTestRepo(t *testing.T) *SQLite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}

func fullBlock() *block.Block {
	return &block.Block{
		ID:                "blk-1",
		LineID:            "L1",
		StartDay:          4,
		EndDay:            6,
		MoldID:            "M-BKT-10",
		Color:             "#4e79a7",
		Label:             "Buckets",
		Notes:             "rush order",
		Year:              2025,
		Month:             time.March,
		ChangeoverMinutes: 45,
		ChangeoverMode:    block.ChangeoverMinutes,
		ChangeoverMoldID:  "M-LID-10",
		Payload: block.Payload{
			ColorSegments: []block.ColorSegment{
				{Color: "red", Label: "first", StartOffset: 0, EndOffset: 1},
				{Color: "blue", StartOffset: 2, EndOffset: 2},
			},
			ProductColors:           []block.ProductColor{{Color: "red", Quantity: 500, PartyCode: "P001"}},
			PartyCodes:              []string{"P001", "P002"},
			ChangeoverProductColors: []block.ProductColor{{Color: "white", Quantity: 120}},
			ChangeoverPartyCodes:    []string{"P002"},
			PackingMaterials: []block.PackingMaterial{
				{Category: block.PackingBoxes, MaterialID: "BX-40", Quantity: 20},
				{Category: block.PackingBOPP, MaterialID: "BP-1", Quantity: 3},
			},
		},
	}
}

func TestSaveAndLoadBlock(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	want := fullBlock()
	if err := repo.SaveBlock(ctx, want); err != nil {
		t.Fatalf("SaveBlock failed: %v", err)
	}

	got, err := repo.LoadBlocks(ctx, 2025, time.March)
	if err != nil {
		t.Fatalf("LoadBlocks failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 block, got %d", len(got))
	}
	if !reflect.DeepEqual(got[0], want) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got[0], want)
	}
}

func TestSaveBlock_DoesNotStoreDerivedFlags(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	b := blocktest.Parse("a@L1:7/M1")[0]
	b.IsChangeover = true
	b.ChangeoverStartDay = 7
	if err := repo.SaveBlock(ctx, b); err != nil {
		t.Fatalf("SaveBlock failed: %v", err)
	}

	got, _ := repo.LoadBlocks(ctx, blocktest.Year, blocktest.Month)
	if got[0].IsChangeover || got[0].ChangeoverStartDay != 0 {
		t.Errorf("derived flags loaded from storage: %+v", got[0])
	}
}

func TestSaveBlock_ReplacesPayload(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	b := fullBlock()
	if err := repo.SaveBlock(ctx, b); err != nil {
		t.Fatal(err)
	}

	b.StartDay, b.EndDay = 10, 10
	b.Payload.PartyCodes = []string{"P009"}
	b.Payload.ColorSegments = nil
	if err := repo.SaveBlock(ctx, b); err != nil {
		t.Fatalf("re-save failed: %v", err)
	}

	got, _ := repo.LoadBlocks(ctx, 2025, time.March)
	if len(got) != 1 {
		t.Fatalf("expected 1 block after upsert, got %d", len(got))
	}
	if got[0].StartDay != 10 || !slices.Equal(got[0].Payload.PartyCodes, []string{"P009"}) {
		t.Errorf("block = %+v", got[0])
	}
	if len(got[0].Payload.ColorSegments) != 0 {
		t.Errorf("stale color segments: %v", got[0].Payload.ColorSegments)
	}
}

func TestSaveBlocks_KeepsInsertionOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	blocks := blocktest.Parse("c@L2:9/M3 a@L1:1/M1 b@L1:2/M2")
	if err := repo.SaveBlocks(ctx, blocks); err != nil {
		t.Fatalf("SaveBlocks failed: %v", err)
	}

	// Updating a block keeps its position.
	moved := blocks[0].Clone()
	moved.StartDay, moved.EndDay = 20, 20
	if err := repo.SaveBlock(ctx, moved); err != nil {
		t.Fatal(err)
	}

	got, err := repo.LoadBlocks(ctx, blocktest.Year, blocktest.Month)
	if err != nil {
		t.Fatal(err)
	}
	if s := blocktest.Format(got); s != "c@L2:20/M3 a@L1:1/M1 b@L1:2/M2" {
		t.Errorf("loaded %s", s)
	}
}

func TestSaveBlocks_Atomic(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	good := blocktest.Parse("a@L1:1/M1")[0]
	bad := blocktest.Parse("b@L1:2/M2")[0]
	bad.Payload.PackingMaterials = []block.PackingMaterial{{Category: "crates", MaterialID: "X"}}

	if err := repo.SaveBlocks(ctx, []*block.Block{good, bad}); err == nil {
		t.Fatal("expected error for invalid packing category")
	}

	got, _ := repo.LoadBlocks(ctx, blocktest.Year, blocktest.Month)
	if len(got) != 0 {
		t.Errorf("partial batch committed: %s", blocktest.Format(got))
	}
}

func TestSaveBlocks_Empty(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.SaveBlocks(context.Background(), nil); err != nil {
		t.Errorf("SaveBlocks(nil) = %v", err)
	}
}

func TestLoadBlocks_FiltersByPeriod(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	march := blocktest.Parse("a@L1:1/M1")[0]
	april := blocktest.Parse("b@L1:1/M1")[0]
	april.Month = time.April
	april.Payload.PartyCodes = []string{"P001"}
	if err := repo.SaveBlocks(ctx, []*block.Block{march, april}); err != nil {
		t.Fatal(err)
	}

	got, err := repo.LoadBlocks(ctx, 2025, time.March)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "a" || got[0].Payload.PartyCodes != nil {
		t.Errorf("march = %+v", got)
	}

	got, _ = repo.LoadBlocks(ctx, 2024, time.March)
	if got != nil {
		t.Errorf("expected no blocks for 2024, got %d", len(got))
	}
}

func TestDeleteBlock(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	b := fullBlock()
	other := blocktest.Parse("keep@L2:3/M1")[0]
	if err := repo.SaveBlocks(ctx, []*block.Block{b, other}); err != nil {
		t.Fatal(err)
	}

	if err := repo.DeleteBlock(ctx, b.ID); err != nil {
		t.Fatalf("DeleteBlock failed: %v", err)
	}

	got, _ := repo.LoadBlocks(ctx, 2025, time.March)
	if len(got) != 1 || got[0].ID != "keep" {
		t.Errorf("remaining = %s", blocktest.Format(got))
	}

	var n int
	if err := repo.db.QueryRow(`SELECT COUNT(*) FROM production_block_party_codes WHERE block_id = ?`, b.ID).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("%d orphaned party code rows", n)
	}
}

func TestDeleteBlock_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.DeleteBlock(context.Background(), "missing")
	if !errors.Is(err, block.ErrBlockNotFound) {
		t.Errorf("expected ErrBlockNotFound, got %v", err)
	}
}

func TestBulkDeleteBlocks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveBlocks(ctx, blocktest.Parse("a@L1:1/M1 b@L1:2/M1 c@L1:3/M1")); err != nil {
		t.Fatal(err)
	}
	if err := repo.BulkDeleteBlocks(ctx, []string{"a", "c", "unknown"}); err != nil {
		t.Fatalf("BulkDeleteBlocks failed: %v", err)
	}

	got, _ := repo.LoadBlocks(ctx, blocktest.Year, blocktest.Month)
	if s := blocktest.Format(got); s != "b@L1:2/M1" {
		t.Errorf("remaining = %s", s)
	}
	if err := repo.BulkDeleteBlocks(ctx, nil); err != nil {
		t.Errorf("BulkDeleteBlocks(nil) = %v", err)
	}
}

func TestChangeoverBlockLink(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	child := blocktest.Parse("child@L1:5/M2")[0]
	child.IsChangeoverBlock = true
	child.ParentID = "parent"
	if err := repo.SaveBlock(ctx, child); err != nil {
		t.Fatal(err)
	}

	got, _ := repo.LoadBlocks(ctx, blocktest.Year, blocktest.Month)
	if !got[0].IsChangeoverBlock || got[0].ParentID != "parent" {
		t.Errorf("link lost: %+v", got[0])
	}
}

func TestNew_InvalidPath(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "dir", "test.db"))
	if err == nil {
		t.Error("expected error for unwritable path")
	}
}
