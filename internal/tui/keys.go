package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/planta/internal/block"
	"github.com/javiermolinar/planta/internal/period"
	"github.com/javiermolinar/planta/internal/planner"
	"github.com/javiermolinar/planta/internal/selection"
	"github.com/javiermolinar/planta/internal/tui/commands"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.log.Log("KEY", map[string]any{
		"key":  msg.String(),
		"mode": m.mode.String(),
	})

	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModeForm:
		return m.handleFormKeys(msg)
	case ModeConfirm:
		return m.handleConfirmKeys(msg)
	case ModeHelp:
		m.mode = ModeNormal
		return m, nil
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys on the grid.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sel := m.engine.Selection()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.mode = ModeHelp
		return m, nil
	case "esc":
		m.engine.CancelGesture()
		if cell, ok := sel.Active(); ok {
			sel.Select(cell)
		}
		return m, nil

	// Navigation
	case "k", "up":
		sel.Move(selection.Up)
	case "j", "down":
		sel.Move(selection.Down)
	case "h", "left":
		sel.Move(selection.Left)
	case "l", "right":
		sel.Move(selection.Right)
	case "K", "shift+up":
		sel.Extend(selection.Up)
	case "J", "shift+down":
		sel.Extend(selection.Down)
	case "pgdown", "ctrl+d":
		m.jumpDays(max(m.layout.GridRows, 1))
	case "pgup", "ctrl+u":
		m.jumpDays(-max(m.layout.GridRows, 1))
	case "g", "home":
		m.jumpDays(-maxMonthDays)
	case "G", "end":
		m.jumpDays(maxMonthDays)

	// Period
	case "[":
		return m.changePeriod(m.engine.Period().Prev())
	case "]":
		return m.changePeriod(m.engine.Period().Next())
	case "z":
		return m.toggleZoom()
	case "c":
		m.showChangeovers = !m.showChangeovers
		if m.showChangeovers {
			return m, m.setStatus("Changeover days highlighted")
		}
		return m, m.setStatus("Changeover highlight off")

	// Blocks
	case "enter", "e":
		return m.openForm(false)
	case "n":
		return m.openForm(true)
	case "y":
		return m.copyBlock()
	case "p":
		res, err := m.engine.Paste(m.ctx())
		return m, m.report(res, err)
	case "d":
		return m.withBlock(func(b *block.Block) (planner.Result, error) {
			return m.engine.Duplicate(m.ctx(), b.ID, b.StartDay)
		})
	case ">", ".":
		return m.withBlock(func(b *block.Block) (planner.Result, error) {
			return m.engine.ResizeExtend(m.ctx(), b.ID, planner.EdgeBottom, b.EndDay+1)
		})
	case "<", ",":
		return m.withBlock(func(b *block.Block) (planner.Result, error) {
			return m.engine.ResizeExtend(m.ctx(), b.ID, planner.EdgeTop, b.StartDay-1)
		})
	case "x", "delete":
		return m.withBlock(func(b *block.Block) (planner.Result, error) {
			return m.engine.DeleteBlock(m.ctx(), b.ID)
		})
	case "D":
		return m.askDeleteRange()
	case "u":
		res, err := m.engine.Undo(m.ctx())
		if errors.Is(err, planner.ErrNothingToUndo) {
			return m, m.setStatus("Nothing to undo")
		}
		return m, m.report(res, err)
	}

	m.ensureCursorVisible()
	return m, nil
}

// blockAtCursor returns the block covering the active cell.
func (m Model) blockAtCursor() (*block.Block, bool) {
	cell, ok := m.engine.Selection().Active()
	if !ok {
		return nil, false
	}
	return m.engine.BlockAt(cell.LineID, cell.Day)
}

// withBlock runs fn on the block under the cursor.
func (m Model) withBlock(fn func(b *block.Block) (planner.Result, error)) (tea.Model, tea.Cmd) {
	b, ok := m.blockAtCursor()
	if !ok {
		return m, m.setStatus("No block under the cursor")
	}
	res, err := fn(b)
	return m, m.report(res, err)
}

func (m Model) copyBlock() (tea.Model, tea.Cmd) {
	b, ok := m.blockAtCursor()
	if !ok {
		return m, m.setStatus("No block under the cursor")
	}
	if err := m.engine.Copy(b.ID); err != nil {
		return m, m.setError(err)
	}
	return m, commands.CopyToClipboard(b.String(), blockSummary(b, m.engine.Catalog()))
}

// jumpDays moves the cursor by n days within the visible period.
func (m *Model) jumpDays(n int) {
	sel := m.engine.Selection()
	cell, ok := sel.Active()
	if !ok {
		return
	}
	days := m.engine.Period().Days()
	if len(days) == 0 {
		return
	}
	cell.Day = min(max(cell.Day+n, days[0]), days[len(days)-1])
	sel.Select(cell)
	m.ensureCursorVisible()
}

func (m Model) changePeriod(p period.Period) (tea.Model, tea.Cmd) {
	if err := m.engine.SetPeriod(m.ctx(), p); err != nil {
		return m, m.setError(err)
	}
	m.scroll = 0
	m.ensureActiveCell()
	m.ensureCursorVisible()
	return m, m.setStatus(p.Label())
}

// toggleZoom switches between month and the week holding the cursor.
func (m Model) toggleZoom() (tea.Model, tea.Cmd) {
	p := m.engine.Period()
	if p.Zoom == period.ZoomWeek {
		return m.changePeriod(p.WithZoom(period.ZoomMonth))
	}
	if cell, ok := m.engine.Selection().Active(); ok {
		p.Week = period.WeekOfMonth(p.Date(cell.Day))
	}
	return m.changePeriod(p.WithZoom(period.ZoomWeek))
}

// openForm opens the block form on the active cell: a new draft when asked or
// when the cell is empty, else the block covering it.
func (m Model) openForm(forceNew bool) (tea.Model, tea.Cmd) {
	cell, ok := m.engine.Selection().Active()
	if !ok {
		return m, nil
	}
	if b, ok := m.engine.BlockAt(cell.LineID, cell.Day); ok && !forceNew {
		m.form = newBlockForm(b, false, m.styles)
	} else {
		draft, err := m.engine.CreateBlock(cell.LineID, cell.Day)
		if err != nil {
			return m, m.setError(err)
		}
		m.form = newBlockForm(draft, true, m.styles)
	}
	m.mode = ModeForm
	return m, textinput.Blink
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.mode = ModeNormal
		return m, m.setStatus("Cancelled")
	}

	f, cmd, submitted := m.form.update(msg)
	m.form = f
	if !submitted {
		return m, cmd
	}

	draft, err := m.form.build()
	if err != nil {
		m.form.err = err.Error()
		return m, nil
	}
	res, err := m.engine.UpdateBlock(m.ctx(), draft)
	switch {
	case err != nil:
		m.log.Error("update", err)
		m.form.err = err.Error()
		return m, nil
	case res.Rejected():
		m.form.err = res.Violation.Message()
		return m, nil
	}
	m.mode = ModeNormal
	return m, m.report(res, nil)
}

// askDeleteRange counts the blocks starting in the selected range, or on the
// active cell, and asks before deleting them.
func (m Model) askDeleteRange() (tea.Model, tea.Cmd) {
	sel := m.engine.Selection()
	cell, ok := sel.Active()
	if !ok {
		return m, nil
	}
	pd := pendingDelete{lineID: cell.LineID, from: cell.Day, to: cell.Day}
	if r, ok := sel.Range(); ok {
		pd.lineID, pd.from, pd.to = r.LineID, r.StartDay, r.EndDay
	}

	res, err := m.engine.DeleteRange(m.ctx(), pd.lineID, pd.from, pd.to, func(n int) bool {
		pd.count = n
		return false
	})
	if err != nil {
		return m, m.setError(err)
	}
	if !res.Cancelled {
		return m, m.setStatus(fmt.Sprintf("No blocks start on %s days %d-%d", pd.lineID, pd.from, pd.to))
	}
	m.pending = pd
	m.mode = ModeConfirm
	return m, nil
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = ModeNormal
		pd := m.pending
		m.pending = pendingDelete{}
		res, err := m.engine.DeleteRange(m.ctx(), pd.lineID, pd.from, pd.to, nil)
		return m, m.report(res, err)
	case "n", "N", "esc", "q":
		m.mode = ModeNormal
		m.pending = pendingDelete{}
		return m, m.setStatus("Delete cancelled")
	}
	return m, nil
}
