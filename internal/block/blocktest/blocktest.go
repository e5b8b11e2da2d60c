// Package blocktest builds block fixtures from a compact notation for tests.
//
// Each space-separated entry is id@line:start[-end][/mold], for example
//
//	a@L1:1-3/M1 b@L1:5/M2 c@L2:5
package blocktest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/javiermolinar/planta/internal/block"
)

// Year and Month are assigned to every parsed block.
const (
	Year  = 2025
	Month = time.March
)

// Parse returns the blocks described by s in order. It panics on malformed input.
func Parse(s string) []*block.Block {
	var out []*block.Block
	for _, entry := range strings.Fields(s) {
		b, err := parseEntry(entry)
		if err != nil {
			panic(fmt.Sprintf("blocktest: %q: %v", entry, err))
		}
		out = append(out, b)
	}
	return out
}

// Store returns a store holding the blocks described by s.
func Store(s string) *block.Store {
	return block.NewStore(Parse(s)...)
}

// Format renders blocks back into the notation, which makes test failures readable.
func Format(blocks []*block.Block) string {
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		days := strconv.Itoa(b.StartDay)
		if b.EndDay != b.StartDay {
			days += "-" + strconv.Itoa(b.EndDay)
		}
		parts[i] = fmt.Sprintf("%s@%s:%s", b.ID, b.LineID, days)
		if b.MoldID != "" {
			parts[i] += "/" + b.MoldID
		}
	}
	return strings.Join(parts, " ")
}

func parseEntry(entry string) (*block.Block, error) {
	id, rest, ok := strings.Cut(entry, "@")
	if !ok {
		return nil, fmt.Errorf("missing @")
	}
	line, rest, ok := strings.Cut(rest, ":")
	if !ok {
		return nil, fmt.Errorf("missing :")
	}
	days, mold, _ := strings.Cut(rest, "/")
	startStr, endStr, ranged := strings.Cut(days, "-")
	start, err := strconv.Atoi(startStr)
	if err != nil {
		return nil, fmt.Errorf("start day: %w", err)
	}
	end := start
	if ranged {
		if end, err = strconv.Atoi(endStr); err != nil {
			return nil, fmt.Errorf("end day: %w", err)
		}
	}
	return &block.Block{
		ID:       id,
		LineID:   line,
		StartDay: start,
		EndDay:   end,
		MoldID:   mold,
		Year:     Year,
		Month:    Month,
	}, nil
}
