package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/planta/internal/catalog"
	"github.com/javiermolinar/planta/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	TitleStyle  lipgloss.Style
	PeriodStyle lipgloss.Style
	HintStyle   lipgloss.Style

	// Line headers by status
	LineActiveStyle      lipgloss.Style
	LineMaintenanceStyle lipgloss.Style
	LineInactiveStyle    lipgloss.Style

	DayLabelStyle     lipgloss.Style
	WeekendLabelStyle lipgloss.Style

	EmptyCellStyle    lipgloss.Style
	InactiveCellStyle lipgloss.Style
	RangeStyle        lipgloss.Style
	CursorStyle       lipgloss.Style
	ConflictStyle     lipgloss.Style
	ChangeoverStyle   lipgloss.Style

	StatusStyle      lipgloss.Style
	StatusErrorStyle lipgloss.Style
	HelpStyle        lipgloss.Style

	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	ModalLabelStyle lipgloss.Style
	ModalFocusStyle lipgloss.Style
	ModalInputStyle lipgloss.Style
	ModalErrorStyle lipgloss.Style
	ModalHintStyle  lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{palette: p}

	s.TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.TextOnAccent).Background(p.Accent).Padding(0, 1)
	s.PeriodStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Fg).Padding(0, 1)
	s.HintStyle = lipgloss.NewStyle().Foreground(p.FgMuted)

	s.LineActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Fg)
	s.LineMaintenanceStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Warning)
	s.LineInactiveStyle = lipgloss.NewStyle().Foreground(p.FgMuted).Strikethrough(true)

	s.DayLabelStyle = lipgloss.NewStyle().Foreground(p.FgMuted)
	s.WeekendLabelStyle = lipgloss.NewStyle().Foreground(p.Accent)

	s.EmptyCellStyle = lipgloss.NewStyle().Foreground(p.BgSelection)
	s.InactiveCellStyle = lipgloss.NewStyle().Foreground(p.FgMuted).Background(p.BgHighlight)
	s.RangeStyle = lipgloss.NewStyle().Foreground(p.Fg).Background(p.BgSelection)
	s.CursorStyle = lipgloss.NewStyle().Bold(true).Foreground(p.TextOnAccent).Background(p.Accent)
	s.ConflictStyle = lipgloss.NewStyle().Bold(true).Foreground(p.TextOnConflict).Background(p.Conflict)
	s.ChangeoverStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Changeover)

	s.StatusStyle = lipgloss.NewStyle().Foreground(p.Fg)
	s.StatusErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Conflict)
	s.HelpStyle = lipgloss.NewStyle().Foreground(p.FgMuted)

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Background(p.BgHighlight).
		Foreground(p.Fg).
		Padding(1, 2)
	s.ModalTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	s.ModalLabelStyle = lipgloss.NewStyle().Foreground(p.FgMuted)
	s.ModalFocusStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	s.ModalInputStyle = lipgloss.NewStyle().Foreground(p.Fg)
	s.ModalErrorStyle = lipgloss.NewStyle().Foreground(p.Conflict)
	s.ModalHintStyle = lipgloss.NewStyle().Foreground(p.FgMuted).Italic(true)

	return s
}

// BlockStyle returns the style of a block drawn in its hex color.
func (s *Styles) BlockStyle(hex string) lipgloss.Style {
	bg, fg := s.palette.Block(hex)
	return lipgloss.NewStyle().Foreground(fg).Background(bg)
}

// PreviewStyle returns the style of a block while it is dragged.
func (s *Styles) PreviewStyle(hex string) lipgloss.Style {
	bg, fg := s.palette.Preview(hex)
	return lipgloss.NewStyle().Foreground(fg).Background(bg).Italic(true)
}

// LineStyle returns the header style of a line in the given status.
func (s *Styles) LineStyle(status catalog.LineStatus) lipgloss.Style {
	switch status {
	case catalog.StatusMaintenance:
		return s.LineMaintenanceStyle
	case catalog.StatusInactive:
		return s.LineInactiveStyle
	default:
		return s.LineActiveStyle
	}
}
