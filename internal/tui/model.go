// Package tui provides the terminal grid for planta.
//
// The model is a thin front end over planner.Engine: keys and mouse events are
// translated into engine operations and every frame is rendered from
// Engine.View. Mutations run synchronously in Update because the engine is not
// safe for concurrent use.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/planta/internal/debuglog"
	"github.com/javiermolinar/planta/internal/planner"
	"github.com/javiermolinar/planta/internal/selection"
	"github.com/javiermolinar/planta/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeForm        // Creating or editing a block
	ModeConfirm     // Waiting for a yes/no on a range delete
	ModeHelp
)

func (m Mode) String() string {
	switch m {
	case ModeForm:
		return "form"
	case ModeConfirm:
		return "confirm"
	case ModeHelp:
		return "help"
	default:
		return "normal"
	}
}

const statusTTL = 3 * time.Second

// Options configures the TUI.
type Options struct {
	Theme           string
	ShowChangeovers bool
	Logger          *debuglog.Logger
}

// pendingDelete is a range delete waiting for confirmation.
type pendingDelete struct {
	lineID string
	from   int
	to     int
	count  int
}

// Model is the main TUI model.
type Model struct {
	engine *planner.Engine
	log    *debuglog.Logger

	theme  *theme.Theme
	styles *Styles

	mode    Mode
	form    blockForm
	pending pendingDelete

	showChangeovers bool

	// Terminal dimensions and layout
	width  int
	height int
	layout Layout
	scroll int // index of the first visible day row

	statusMsg  string
	statusErr  bool
	statusTime time.Time
	now        func() time.Time
}

// New creates a TUI model over a loaded engine.
func New(e *planner.Engine, opts Options) Model {
	t, err := theme.Load(opts.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}

	m := Model{
		engine:          e,
		log:             opts.Logger,
		theme:           t,
		styles:          NewStyles(t),
		showChangeovers: opts.ShowChangeovers,
		now:             time.Now,
	}
	m.ensureActiveCell()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Run starts the TUI and blocks until the user quits.
func Run(e *planner.Engine, opts Options) error {
	p := tea.NewProgram(New(e, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// ensureActiveCell puts the cursor on the first visible cell when there is none.
func (m *Model) ensureActiveCell() {
	sel := m.engine.Selection()
	if _, ok := sel.Active(); ok {
		return
	}
	lines := m.engine.Catalog().LineIDs()
	days := m.engine.Period().Days()
	if len(lines) == 0 || len(days) == 0 {
		return
	}
	sel.Select(selection.Cell{LineID: lines[0], Day: days[0]})
}

func (m Model) ctx() context.Context {
	return context.Background()
}
