// Package block defines the production block, the unit placed on the planning grid.
package block

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Validation errors.
var (
	ErrMissingMold           = errors.New("mold is required")
	ErrMissingLine           = errors.New("line is required")
	ErrInvalidRange          = errors.New("end day must not be before start day")
	ErrInvalidChangeoverTime = errors.New("changeover time must be in HH:MM format")
	ErrInvalidChangeoverMode = errors.New("changeover mode must be 'minutes' or 'time'")
)

// Domain errors.
var (
	ErrUnknownLine   = errors.New("unknown line")
	ErrBlockNotFound = errors.New("block not found")
)

// ChangeoverMode selects how the changeover duration is expressed.
type ChangeoverMode string

const (
	ChangeoverMinutes ChangeoverMode = "minutes"
	ChangeoverTime    ChangeoverMode = "time"
)

// PackingCategory groups packing material allocations.
type PackingCategory string

const (
	PackingBoxes    PackingCategory = "boxes"
	PackingPolybags PackingCategory = "polybags"
	PackingBOPP     PackingCategory = "bopp"
)

// ParsePackingCategory validates a packing category name.
func ParsePackingCategory(s string) (PackingCategory, error) {
	switch c := PackingCategory(s); c {
	case PackingBoxes, PackingPolybags, PackingBOPP:
		return c, nil
	default:
		return "", fmt.Errorf("invalid packing category %q", s)
	}
}

// ColorSegment colors part of a block. Offsets are relative to the block's start day.
type ColorSegment struct {
	Color       string
	Label       string
	StartOffset int
	EndOffset   int
}

// ProductColor is a produced color with its quantity.
type ProductColor struct {
	Color     string
	Quantity  int
	PartyCode string
}

// PackingMaterial is an allocation of one packing material.
type PackingMaterial struct {
	Category   PackingCategory
	MaterialID string
	Quantity   int
}

// Payload is the opaque production data carried by a block.
// The grid copies it along with the block and never interprets it.
type Payload struct {
	ColorSegments           []ColorSegment
	ProductColors           []ProductColor
	PartyCodes              []string
	ChangeoverProductColors []ProductColor
	ChangeoverPartyCodes    []string
	PackingMaterials        []PackingMaterial
}

// Clone returns a deep copy of the payload.
func (p Payload) Clone() Payload {
	return Payload{
		ColorSegments:           slices.Clone(p.ColorSegments),
		ProductColors:           slices.Clone(p.ProductColors),
		PartyCodes:              slices.Clone(p.PartyCodes),
		ChangeoverProductColors: slices.Clone(p.ChangeoverProductColors),
		ChangeoverPartyCodes:    slices.Clone(p.ChangeoverPartyCodes),
		PackingMaterials:        slices.Clone(p.PackingMaterials),
	}
}

// Materials returns the packing allocations of one category.
func (p Payload) Materials(c PackingCategory) []PackingMaterial {
	var out []PackingMaterial
	for _, m := range p.PackingMaterials {
		if m.Category == c {
			out = append(out, m)
		}
	}
	return out
}

// Block is a production job placed on one line over an inclusive day range.
type Block struct {
	ID       string
	LineID   string
	StartDay int // 1-based day of month
	EndDay   int // inclusive
	MoldID   string
	Color    string
	Label    string
	Notes    string
	Year     int
	Month    time.Month
	Payload  Payload

	// Changeover configuration set by the user.
	ChangeoverMinutes int
	ChangeoverTime    string // "HH:MM"
	ChangeoverMode    ChangeoverMode
	ChangeoverMoldID  string

	// Derived by changeover detection. Zero means none.
	IsChangeover       bool
	ChangeoverStartDay int
	ChangeoverEndDay   int

	// IsChangeoverBlock marks a block synthesized to carry the mold used after a changeover.
	// ParentID is the block whose changeover configuration produced it.
	IsChangeoverBlock bool
	ParentID          string
}

// NewID returns a fresh block identifier.
func NewID() string {
	return uuid.New().String()
}

// Duration returns the number of days covered by the block.
func (b *Block) Duration() int {
	return b.EndDay - b.StartDay + 1
}

// Covers reports whether day falls inside the block.
func (b *Block) Covers(day int) bool {
	return day >= b.StartDay && day <= b.EndDay
}

// Clone returns a deep copy of b.
func (b *Block) Clone() *Block {
	if b == nil {
		return nil
	}
	c := *b
	c.Payload = b.Payload.Clone()
	return &c
}

// MoveTo places the block at startDay on lineID, keeping its duration.
func (b *Block) MoveTo(lineID string, startDay int) {
	d := b.Duration()
	b.LineID = lineID
	b.StartDay = startDay
	b.EndDay = startDay + d - 1
}

// HasChangeoverConfig reports whether saving the block should synthesize a changeover block.
func (b *Block) HasChangeoverConfig() bool {
	if b.ChangeoverMoldID == "" {
		return false
	}
	return b.ChangeoverMinutes > 0 || b.ChangeoverTime != ""
}

// ClearDerived resets the fields computed by changeover detection.
func (b *Block) ClearDerived() {
	b.IsChangeover = false
	b.ChangeoverStartDay = 0
	b.ChangeoverEndDay = 0
}

// Validate checks the fields a block needs before it can be placed.
// Range checks against the planning period are left to the caller.
func (b *Block) Validate() error {
	if b.MoldID == "" {
		return ErrMissingMold
	}
	if b.LineID == "" {
		return ErrMissingLine
	}
	if b.StartDay < 1 || b.EndDay < b.StartDay {
		return fmt.Errorf("days %d-%d: %w", b.StartDay, b.EndDay, ErrInvalidRange)
	}
	switch b.ChangeoverMode {
	case "", ChangeoverMinutes, ChangeoverTime:
	default:
		return ErrInvalidChangeoverMode
	}
	if b.ChangeoverTime != "" {
		if _, err := time.Parse("15:04", b.ChangeoverTime); err != nil {
			return ErrInvalidChangeoverTime
		}
	}
	return nil
}

// String returns a compact description, e.g. "L1 3-5 M7".
func (b *Block) String() string {
	if b.StartDay == b.EndDay {
		return fmt.Sprintf("%s %d %s", b.LineID, b.StartDay, b.MoldID)
	}
	return fmt.Sprintf("%s %d-%d %s", b.LineID, b.StartDay, b.EndDay, b.MoldID)
}
