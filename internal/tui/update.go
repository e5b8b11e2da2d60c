package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/planta/internal/planner"
	"github.com/javiermolinar/planta/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case commands.ErrMsg:
		return m, m.setError(msg.Err)

	case commands.StatusMsg:
		return m, m.setStatus(msg.Msg)

	case commands.ClipboardMsg:
		if msg.Err != nil {
			m.log.Error("clipboard", msg.Err)
			return m, m.setStatus(fmt.Sprintf("Copied %s (system clipboard unavailable)", msg.What))
		}
		return m, m.setStatus("Copied " + msg.What)

	case commands.ClearStatusMsg:
		if !m.now().Before(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) setStatus(s string) tea.Cmd {
	m.statusMsg = s
	m.statusErr = false
	m.statusTime = m.now().Add(statusTTL)
	return commands.ClearStatusAfter(statusTTL)
}

func (m *Model) setError(err error) tea.Cmd {
	m.log.Error(m.mode.String(), err)
	m.statusMsg = "Error: " + err.Error()
	m.statusErr = true
	m.statusTime = m.now().Add(statusTTL + statusTTL)
	return commands.ClearStatusAfter(statusTTL + statusTTL)
}

// report turns the outcome of an engine mutation into a status message.
func (m *Model) report(res planner.Result, err error) tea.Cmd {
	if err != nil {
		return m.setError(err)
	}
	if res.Rejected() {
		cmd := m.setStatus("Rejected: " + res.Violation.Message())
		m.statusErr = true
		return cmd
	}
	m.ensureCursorVisible()
	return m.setStatus(res.Summary())
}
