package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/planta/internal/planner"
	"github.com/javiermolinar/planta/internal/selection"
)

// handleMouseMsg drives the engine's pointer gestures. A plain drag moves a
// block, alt-drag extends its bottom edge and ctrl-drag its top edge. Motion
// and release reach the engine only while a gesture is active.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ModeNormal {
		return m, nil
	}
	x, y := m.toGrid(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scroll--
			m.clampScroll()
			return m, nil
		case tea.MouseButtonWheelDown:
			m.scroll++
			m.clampScroll()
			return m, nil
		case tea.MouseButtonLeft:
			return m.pointerDown(msg, x, y)
		}

	case tea.MouseActionMotion:
		if !m.engine.Gesture().Active() {
			return m, nil
		}
		if err := m.engine.PointerMove(x, y); err != nil {
			return m, m.setError(err)
		}

	case tea.MouseActionRelease:
		if !m.engine.Gesture().Active() {
			return m, nil
		}
		out, err := m.engine.PointerUp(m.ctx(), x, y)
		if err != nil {
			return m, m.setError(err)
		}
		if out.Result.Op != "" {
			return m, m.report(out.Result, nil)
		}
	}
	return m, nil
}

func (m Model) pointerDown(msg tea.MouseMsg, x, y int) (tea.Model, tea.Cmd) {
	m.log.Log("MOUSE", map[string]any{"x": msg.X, "y": msg.Y, "alt": msg.Alt, "ctrl": msg.Ctrl})

	var (
		hit bool
		err error
	)
	switch {
	case msg.Alt:
		hit, err = m.engine.PointerDownAs(planner.KindResizeBottom, x, y)
	case msg.Ctrl:
		hit, err = m.engine.PointerDownAs(planner.KindResizeTop, x, y)
	default:
		hit, err = m.engine.PointerDown(x, y)
	}
	if err != nil {
		return m, m.setError(err)
	}
	if hit {
		return m, nil
	}

	// Empty cell: move the cursor there.
	lines := m.engine.Catalog().LineIDs()
	li, day, ok := m.layout.geometry().CellAt(x, y, m.slots(), len(lines))
	if ok {
		m.engine.Selection().Select(selection.Cell{LineID: lines[li], Day: day})
	}
	return m, nil
}
