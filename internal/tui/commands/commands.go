// Package commands provides TUI command constructors and message types.
package commands

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsg is sent for temporary status messages.
type StatusMsg struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// ClipboardMsg reports the outcome of a system clipboard write.
type ClipboardMsg struct {
	What string
	Err  error
}

// Status sets a temporary status message.
func Status(format string, args ...any) tea.Cmd {
	msg := fmt.Sprintf(format, args...)
	return func() tea.Msg {
		return StatusMsg{Msg: msg}
	}
}

// ClearStatusAfter clears the status message once d has passed.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// CopyToClipboard writes text to the system clipboard. what names the copied
// thing in the status line.
func CopyToClipboard(what, text string) tea.Cmd {
	return func() tea.Msg {
		return ClipboardMsg{What: what, Err: writeClipboard(text)}
	}
}
