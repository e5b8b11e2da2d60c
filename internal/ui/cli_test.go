package ui

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/planta/internal/block"
	"github.com/javiermolinar/planta/internal/catalog"
	"github.com/javiermolinar/planta/internal/config"
	"github.com/javiermolinar/planta/internal/db"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.DBPath = filepath.Join(dir, "data", "planta.db")
	cfg.Catalog.Path = filepath.Join(dir, "catalog.yaml")
	if err := catalog.WriteSample(cfg.Catalog.Path); err != nil {
		t.Fatalf("writing catalog: %v", err)
	}
	return cfg
}

// run executes one CLI invocation against cfg, as a fresh process would.
func run(t *testing.T, cfg *config.Config, stdin string, args ...string) (string, error) {
	t.Helper()
	DisableColor()

	app := NewApp(nil, nil, cfg)
	app.now = func() time.Time { return time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC) }
	var out bytes.Buffer
	app.SetOutput(&out, strings.NewReader(stdin))
	app.SetArgs(args)

	err := app.Execute()
	if cerr := app.Close(); cerr != nil {
		t.Errorf("closing app: %v", cerr)
	}
	return out.String(), err
}

func stored(t *testing.T, cfg *config.Config) []*block.Block {
	t.Helper()
	repo, err := db.New(cfg.Storage.DBPath)
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	defer func() { _ = repo.Close() }()

	blocks, err := repo.LoadBlocks(context.Background(), 2025, time.March)
	if err != nil {
		t.Fatalf("loading blocks: %v", err)
	}
	return blocks
}

func TestVersion(t *testing.T) {
	out, err := run(t, testConfig(t), "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "planta dev") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestLines(t *testing.T) {
	out, err := run(t, testConfig(t), "", "lines")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"L1", "active", "maintenance", "inactive"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLinesInitRefusesToOverwrite(t *testing.T) {
	if _, err := run(t, testConfig(t), "", "lines", "--init"); err == nil {
		t.Error("expected error for existing catalog")
	}
}

func TestAddShowAndMove(t *testing.T) {
	cfg := testConfig(t)

	out, err := run(t, cfg, "", "add", "--line=L1", "--day=5", "--days=2", "--mold=M-BKT-10", "--label=Buckets", "--party=P001")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "2 saved") {
		t.Errorf("add output:\n%s", out)
	}

	blocks := stored(t, cfg)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 stored blocks, got %d", len(blocks))
	}
	if blocks[0].Payload.PartyCodes[0] != "P001" {
		t.Errorf("payload not stored: %+v", blocks[0].Payload)
	}

	out, err = run(t, cfg, "", "show", "--line=L1")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "March 2025") || !strings.Contains(out, "Bucket 10L") || !strings.Contains(out, shortID(blocks[0].ID)) {
		t.Errorf("show output:\n%s", out)
	}

	if _, err := run(t, cfg, "", "move", shortID(blocks[0].ID), "--line=L2", "--day=9"); err != nil {
		t.Fatalf("move: %v", err)
	}
	for _, b := range stored(t, cfg) {
		if b.ID == blocks[0].ID && (b.LineID != "L2" || b.StartDay != 9) {
			t.Errorf("moved block stored as %s", b)
		}
	}
}

func TestMoveRejectedOnConflict(t *testing.T) {
	cfg := testConfig(t)
	if _, err := run(t, cfg, "", "add", "--line=L1", "--day=5", "--mold=M-BKT-10"); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, cfg, "", "add", "--line=L2", "--day=5", "--mold=M-LID-10"); err != nil {
		t.Fatal(err)
	}

	var l1 string
	for _, b := range stored(t, cfg) {
		if b.LineID == "L1" {
			l1 = b.ID
		}
	}
	_, err := run(t, cfg, "", "move", l1, "--line=L2", "--day=5")
	if err == nil || !strings.Contains(err.Error(), "rejected") {
		t.Fatalf("expected rejection, got %v", err)
	}
	for _, b := range stored(t, cfg) {
		if b.ID == l1 && b.LineID != "L1" {
			t.Error("rejected move was stored")
		}
	}
}

func TestAddWithChangeover(t *testing.T) {
	cfg := testConfig(t)
	out, err := run(t, cfg, "", "add", "--line=L1", "--day=5", "--mold=M-BKT-10",
		"--changeover-mold=M-CAP-28", "--changeover-minutes=30", "--changeover-party=P002")
	if err != nil {
		t.Fatalf("add: %v\n%s", err, out)
	}

	blocks := stored(t, cfg)
	if len(blocks) != 2 {
		t.Fatalf("expected parent and changeover block, got %d", len(blocks))
	}
	child := blocks[1]
	if !child.IsChangeoverBlock || child.StartDay != 6 || child.MoldID != "M-CAP-28" {
		t.Errorf("changeover block = %+v", child)
	}

	if _, err := run(t, cfg, "", "add", "--line=L1", "--day=9", "--mold=M-BKT-10", "--changeover-mold=M-CAP-28"); err == nil {
		t.Error("expected error for changeover mold without duration")
	}
}

func TestExtendDuplicateCopy(t *testing.T) {
	cfg := testConfig(t)
	if _, err := run(t, cfg, "", "add", "--line=L1", "--day=10", "--mold=M-BKT-10"); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, cfg, "", "add", "--line=L1", "--day=11", "--mold=M-LID-10"); err != nil {
		t.Fatal(err)
	}
	src := stored(t, cfg)[0].ID

	out, err := run(t, cfg, "", "extend", src, "--edge=bottom", "--to=12")
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	if !strings.Contains(out, "skipped") {
		t.Errorf("extend should report the skipped day:\n%s", out)
	}

	if _, err := run(t, cfg, "", "duplicate", src); err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if _, err := run(t, cfg, "", "copy", src, "--line=L3", "--day=20"); err != nil {
		t.Fatalf("copy: %v", err)
	}

	days := map[string][]int{}
	for _, b := range stored(t, cfg) {
		days[b.LineID] = append(days[b.LineID], b.StartDay)
	}
	if got := days["L1"]; len(got) != 4 {
		t.Errorf("L1 days = %v, want 10, 11, 12 and the duplicate on 13", got)
	}
	if got := days["L3"]; len(got) != 1 || got[0] != 20 {
		t.Errorf("L3 days = %v", got)
	}
}

func TestDeleteRange(t *testing.T) {
	cfg := testConfig(t)
	if _, err := run(t, cfg, "", "add", "--line=L1", "--day=3", "--days=4", "--mold=M-BKT-10"); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, cfg, "n\n", "delete-range", "--line=L1", "--from=4", "--to=5")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Delete 2 block(s)") || !strings.Contains(out, "Cancelled") {
		t.Errorf("declined output:\n%s", out)
	}
	if n := len(stored(t, cfg)); n != 4 {
		t.Errorf("declined delete removed blocks: %d left", n)
	}

	if _, err := run(t, cfg, "y\n", "delete-range", "--line=L1", "--from=5", "--to=4"); err != nil {
		t.Fatal(err)
	}
	if n := len(stored(t, cfg)); n != 2 {
		t.Errorf("expected 2 blocks left, got %d", n)
	}

	src := stored(t, cfg)[0].ID
	if _, err := run(t, cfg, "", "delete", src); err != nil {
		t.Fatal(err)
	}
	if n := len(stored(t, cfg)); n != 1 {
		t.Errorf("expected 1 block left, got %d", n)
	}
}

func TestUnknownBlockAndMonth(t *testing.T) {
	cfg := testConfig(t)
	if _, err := run(t, cfg, "", "delete", "nope"); err == nil {
		t.Error("expected error for unknown block")
	}
	if _, err := run(t, cfg, "", "show", "--month=March"); err == nil {
		t.Error("expected error for bad month")
	}
	if _, err := run(t, cfg, "", "show", "--line=L9"); err == nil {
		t.Error("expected error for unknown line")
	}
}

func TestMissingCatalogUsesSample(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "missing.yaml")

	out, err := run(t, cfg, "", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "sample catalog") {
		t.Errorf("expected sample notice:\n%s", out)
	}
}
