// Package catalog provides the read-only reference data of the planner:
// production lines, molds, packing materials, color labels and parties.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LineStatus is the derived availability of a production line.
type LineStatus string

const (
	StatusActive      LineStatus = "active"
	StatusMaintenance LineStatus = "maintenance"
	StatusInactive    LineStatus = "inactive"
)

// Palette is assigned to lines without a color, by catalog position.
var Palette = []string{
	"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#84CC16", "#F97316", "#EC4899", "#6366F1",
}

// Line is a production line: one grid column.
type Line struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	Color          string `yaml:"color"`
	PrimaryID      string `yaml:"primary"` // injection molding machine
	RobotID        string `yaml:"robot"`
	ConveyorID     string `yaml:"conveyor"`
	HoistID        string `yaml:"hoist"`
	RecordedStatus string `yaml:"status"`
}

// Status derives the line's availability from its machine roles.
func (l Line) Status() LineStatus {
	for _, id := range []string{l.PrimaryID, l.RobotID, l.ConveyorID, l.HoistID} {
		if id == "" {
			return StatusInactive
		}
	}
	if strings.EqualFold(l.RecordedStatus, "maintenance") {
		return StatusMaintenance
	}
	return StatusActive
}

// Mold is a tool mounted on a line's primary machine.
type Mold struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Cavities  int     `yaml:"cavities"`
	CycleTime float64 `yaml:"cycle_time"`
}

// PackingMaterial is a packing item that can be allocated to a block.
type PackingMaterial struct {
	ID       string `yaml:"id"`
	Category string `yaml:"category"`
	Code     string `yaml:"code"`
}

// ColorLabel names a product color.
type ColorLabel struct {
	Name string `yaml:"name"`
	Hex  string `yaml:"hex"`
}

// PartyName maps a party code to its display name.
type PartyName struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// Catalog is the reference data loaded at startup.
type Catalog struct {
	Lines            []Line            `yaml:"lines"`
	Molds            []Mold            `yaml:"molds"`
	PackingMaterials []PackingMaterial `yaml:"packing_materials"`
	ColorLabels      []ColorLabel      `yaml:"color_labels"`
	PartyNames       []PartyName       `yaml:"party_names"`

	lineIndex map[string]int
	moldIndex map[string]int
}

// Load reads a YAML catalog file from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	if err := c.init(); err != nil {
		return nil, err
	}
	return &c, nil
}

// New builds a validated catalog from lines and molds.
func New(lines []Line, molds []Mold) (*Catalog, error) {
	c := &Catalog{Lines: lines, Molds: molds}
	if err := c.init(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) init() error {
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return err
	}
	c.lineIndex = make(map[string]int, len(c.Lines))
	for i, l := range c.Lines {
		c.lineIndex[l.ID] = i
	}
	c.moldIndex = make(map[string]int, len(c.Molds))
	for i, m := range c.Molds {
		c.moldIndex[m.ID] = i
	}
	return nil
}

func (c *Catalog) applyDefaults() {
	for i := range c.Lines {
		if c.Lines[i].Name == "" {
			c.Lines[i].Name = c.Lines[i].ID
		}
		if c.Lines[i].Color == "" {
			c.Lines[i].Color = Palette[i%len(Palette)]
		}
	}
	for i := range c.Molds {
		if c.Molds[i].Name == "" {
			c.Molds[i].Name = c.Molds[i].ID
		}
	}
}

// Validate checks that ids are present and unique.
func (c *Catalog) Validate() error {
	var errs []string
	if len(c.Lines) == 0 {
		errs = append(errs, "at least one line is required")
	}
	lines := make(map[string]bool)
	for i, l := range c.Lines {
		switch {
		case l.ID == "":
			errs = append(errs, fmt.Sprintf("lines[%d].id is required", i))
		case lines[l.ID]:
			errs = append(errs, fmt.Sprintf("duplicate line id %q", l.ID))
		}
		lines[l.ID] = true
	}
	molds := make(map[string]bool)
	for i, m := range c.Molds {
		switch {
		case m.ID == "":
			errs = append(errs, fmt.Sprintf("molds[%d].id is required", i))
		case molds[m.ID]:
			errs = append(errs, fmt.Sprintf("duplicate mold id %q", m.ID))
		}
		molds[m.ID] = true
	}
	for i, p := range c.PackingMaterials {
		switch p.Category {
		case "boxes", "polybags", "bopp":
		default:
			errs = append(errs, fmt.Sprintf("packing_materials[%d].category %q must be boxes, polybags or bopp", i, p.Category))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("catalog: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Line returns the line with the given id.
func (c *Catalog) Line(id string) (Line, bool) {
	i, ok := c.lineIndex[id]
	if !ok {
		return Line{}, false
	}
	return c.Lines[i], true
}

// LineIndex returns the grid column of a line, or -1 if unknown.
func (c *Catalog) LineIndex(id string) int {
	if i, ok := c.lineIndex[id]; ok {
		return i
	}
	return -1
}

// LineIDs returns line ids in grid column order.
func (c *Catalog) LineIDs() []string {
	out := make([]string, len(c.Lines))
	for i, l := range c.Lines {
		out[i] = l.ID
	}
	return out
}

// Mold returns the mold with the given id.
func (c *Catalog) Mold(id string) (Mold, bool) {
	i, ok := c.moldIndex[id]
	if !ok {
		return Mold{}, false
	}
	return c.Molds[i], true
}

// MoldName returns the mold's display name, or the id when it is not in the catalog.
func (c *Catalog) MoldName(id string) string {
	if m, ok := c.Mold(id); ok {
		return m.Name
	}
	return id
}

// PartyName returns the display name of a party code.
func (c *Catalog) PartyName(code string) string {
	for _, p := range c.PartyNames {
		if p.Code == code {
			return p.Name
		}
	}
	return code
}
