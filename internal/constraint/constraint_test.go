package constraint

import (
	"fmt"
	"testing"

	"github.com/javiermolinar/planta/internal/block"
	"github.com/javiermolinar/planta/internal/block/blocktest"
)

func candidate(s string) *block.Block {
	return blocktest.Parse(s)[0]
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"same single day", "a@L1:5", "b@L1:5", true},
		{"different single days", "a@L1:5", "b@L1:6", false},
		{"handover a ends on b start", "a@L1:3-7", "b@L1:7-9", false},
		{"handover b ends on a start", "a@L1:7-9", "b@L1:3-7", false},
		{"multi-day inside", "a@L1:3-9", "b@L1:5", true},
		{"same start multi-day", "a@L1:3-4", "b@L1:3-7", true},
		{"two shared days", "a@L1:3-7", "b@L1:6-9", true},
		{"single day handover into multi-day", "a@L1:7", "b@L1:7-9", true},
		{"single day at end of multi-day", "a@L1:3-7", "b@L1:7", false},
		{"disjoint", "a@L1:1-2", "b@L1:4-5", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := candidate(tt.a), candidate(tt.b)
			if got := Overlaps(a, b); got != tt.want {
				t.Errorf("Overlaps(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := Overlaps(b, a); got != tt.want {
				t.Errorf("Overlaps is not symmetric for %s, %s", tt.a, tt.b)
			}
		})
	}
}

func TestFindOverlap(t *testing.T) {
	blocks := blocktest.Parse("a@L1:3 b@L2:5 c@L1:5-6 d@L1:5")

	tests := []struct {
		name      string
		cand      string
		excludeID string
		want      string
	}{
		{"free day", "x@L1:4", "", ""},
		{"occupied day returns first in store order", "x@L1:5", "", "c"},
		{"other line ignored", "x@L3:3", "", ""},
		{"exclude self", "a@L1:3", "a", ""},
		{"exclude one of two", "x@L1:5", "c", "d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindOverlap(blocks, candidate(tt.cand), tt.excludeID)
			if tt.want == "" {
				if got != nil {
					t.Errorf("got %s, want no overlap", got.ID)
				}
				return
			}
			if got == nil || got.ID != tt.want {
				t.Errorf("got %v, want %s", got, tt.want)
			}
			if !HasOverlap(blocks, candidate(tt.cand), tt.excludeID) {
				t.Error("HasOverlap disagrees with FindOverlap")
			}
		})
	}
}

func TestMoldConflict(t *testing.T) {
	blocks := blocktest.Parse("a@L1:10/M1 b@L2:10/M2 c@L3:11/M1 d@L4:10/M1")

	tests := []struct {
		name      string
		cand      string
		excludeID string
		want      string
	}{
		{"same mold same day other line", "x@L2:10/M1", "", "a"},
		{"same mold same line", "x@L1:10/M1", "", "d"},
		{"same mold other day", "x@L2:12/M1", "", ""},
		{"different mold", "x@L2:10/M3", "", ""},
		{"no mold", "x@L2:10", "", ""},
		{"exclude", "x@L2:10/M1", "a", "d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MoldConflict(blocks, candidate(tt.cand), tt.excludeID)
			if tt.want == "" {
				if got != nil {
					t.Errorf("got %s, want none", got.ID)
				}
				return
			}
			if got == nil || got.ID != tt.want {
				t.Errorf("got %v, want %s", got, tt.want)
			}
		})
	}
}

func TestCheckOrder(t *testing.T) {
	blocks := blocktest.Parse("a@L1:5/M1 b@L2:5/M2")

	// Overlap on L2 and mold conflict with L1: overlap wins.
	v := Check(blocks, candidate("x@L2:5/M1"), "")
	if v == nil || v.Kind != KindOverlap || v.Conflict.ID != "b" {
		t.Fatalf("got %+v, want overlap with b", v)
	}

	v = Check(blocks, candidate("x@L3:5/M1"), "")
	if v == nil || v.Kind != KindMoldConflict || v.Conflict.ID != "a" {
		t.Fatalf("got %+v, want mold conflict with a", v)
	}
	if v.Message() != "mold M1 already runs on line L1 on day 5" {
		t.Errorf("Message = %q", v.Message())
	}

	if v := Check(blocks, candidate("x@L3:6/M1"), ""); v != nil {
		t.Errorf("unexpected violation %s", v)
	}
}

func TestCheckRange(t *testing.T) {
	tests := []struct {
		cand string
		want bool
	}{
		{"x@L1:1-31", false},
		{"x@L1:30-32", true},
		{"x@L1:0", true},
	}
	for _, tt := range tests {
		got := CheckRange(candidate(tt.cand), 31) != nil
		if got != tt.want {
			t.Errorf("CheckRange(%s) = %v, want %v", tt.cand, got, tt.want)
		}
	}
}

func TestOverlapping(t *testing.T) {
	blocks := blocktest.Parse("a@L1:3-7 b@L1:7-9 c@L1:9 d@L2:4 e@L2:4")
	got := Overlapping(blocks)
	for _, id := range []string{"d", "e"} {
		if !got[id] {
			t.Errorf("expected %s flagged", id)
		}
	}
	for _, id := range []string{"a", "b", "c"} {
		if got[id] {
			t.Errorf("handover block %s flagged as overlapping", id)
		}
	}
}

// A store built only through Check never holds two blocks on one line sharing a start day.
func TestCheckPreservesNoOverlap(t *testing.T) {
	var committed []*block.Block
	moldFor := []string{"M1", "M2", "M3"}
	n := 0
	for _, line := range []string{"L1", "L2", "L3"} {
		for day := 1; day <= 10; day++ {
			for rep := 0; rep < 2; rep++ {
				n++
				c := &block.Block{
					ID:       block.NewID(),
					LineID:   line,
					StartDay: day,
					EndDay:   day,
					MoldID:   moldFor[(day+rep+n)%len(moldFor)],
				}
				if Check(committed, c, "") == nil {
					committed = append(committed, c)
				}
			}
		}
	}

	starts := make(map[string]bool)
	molds := make(map[string]string)
	for _, b := range committed {
		key := fmt.Sprintf("%s/%d", b.LineID, b.StartDay)
		if starts[key] {
			t.Fatalf("two blocks on %s day %d", b.LineID, b.StartDay)
		}
		starts[key] = true

		mk := fmt.Sprintf("%s/%d", b.MoldID, b.StartDay)
		if line, ok := molds[mk]; ok && line != b.LineID {
			t.Fatalf("mold %s on lines %s and %s on day %d", b.MoldID, line, b.LineID, b.StartDay)
		}
		molds[mk] = b.LineID
	}
}
