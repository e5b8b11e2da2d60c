package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/planta/internal/block"
	"github.com/javiermolinar/planta/internal/catalog"
	"github.com/javiermolinar/planta/internal/period"
	"github.com/javiermolinar/planta/internal/planner"
)

const helpLine = "←↓↑→ move · J/K range · enter edit · n new · y copy · p paste · d dup · </> extend · x del · D del range · u undo · z zoom · [ ] period · ? help · q quit"

var helpKeys = [][2]string{
	{"h j k l / arrows", "move the cursor"},
	{"J K / shift+arrows", "select a day range"},
	{"g G / pgup pgdown", "jump days"},
	{"enter / e", "edit the block, or create one on an empty day"},
	{"n", "new block on the cursor"},
	{"y / p", "copy the block / paste at the cursor"},
	{"d", "duplicate onto the next free day"},
	{"< >", "extend the block one day up / down"},
	{"x", "delete the block"},
	{"D", "delete blocks starting in the range"},
	{"u", "undo"},
	{"z", "toggle month / week"},
	{"[ ]", "previous / next period"},
	{"c", "toggle changeover highlight"},
	{"drag", "move a block (alt: extend down, ctrl: extend up)"},
	{"q", "quit"},
}

// View renders the grid and any open modal.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}
	v := m.engine.View()

	rows := []string{m.renderTitle(v), m.renderLineHeaders(v)}
	rows = append(rows, m.renderGrid(v)...)
	rows = append(rows, m.renderStatus(v), m.styles.HelpStyle.Render(helpLine))
	for i, r := range rows {
		rows[i] = ansi.Truncate(r, m.width, "")
	}
	base := strings.Join(rows, "\n")

	switch m.mode {
	case ModeForm:
		return overlay(base, m.form.render(m.styles), m.width, m.height)
	case ModeConfirm:
		return overlay(base, m.renderConfirm(), m.width, m.height)
	case ModeHelp:
		return overlay(base, m.renderHelp(), m.width, m.height)
	}
	return base
}

func (m Model) renderTitle(v planner.View) string {
	parts := []string{
		m.styles.TitleStyle.Render("planta"),
		m.styles.PeriodStyle.Render(v.Period.Label()),
	}
	var hints []string
	if v.CanUndo {
		hints = append(hints, "undo")
	}
	if v.HasClipboard {
		hints = append(hints, "clipboard")
	}
	if v.Gesture != planner.PhaseIdle {
		hints = append(hints, v.Gesture.String())
	}
	if len(hints) > 0 {
		parts = append(parts, m.styles.HintStyle.Render(strings.Join(hints, " · ")))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderLineHeaders(v planner.View) string {
	w := m.layout.ColWidth - 1
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", labelWidth))
	for _, l := range v.Lines {
		text := l.Name
		if m.showChangeovers && l.ChangeoverDay > 0 {
			text = fmt.Sprintf("%s ⇄%d", text, l.ChangeoverDay)
		}
		sb.WriteString(m.styles.LineStyle(l.Status).Width(w).Render(ansi.Truncate(text, w, "…")))
		sb.WriteString(" ")
	}
	return sb.String()
}

func (m Model) renderGrid(v planner.View) []string {
	rows := max(m.layout.GridRows, 1)
	end := min(m.scroll+rows, len(v.Days))
	out := make([]string, 0, rows)
	for _, day := range v.Days[min(m.scroll, end):end] {
		var sb strings.Builder
		sb.WriteString(m.renderDayLabel(v.Period, day))
		for _, l := range v.Lines {
			sb.WriteString(m.renderCell(v, l, day))
			sb.WriteString(" ")
		}
		out = append(out, sb.String())
	}
	return out
}

func (m Model) renderDayLabel(p period.Period, day int) string {
	if day == period.NoDay {
		return strings.Repeat(" ", labelWidth)
	}
	date := p.Date(day)
	label := fmt.Sprintf("%-*s", labelWidth, fmt.Sprintf("%s %02d", date.Weekday().String()[:2], day))
	if wd := date.Weekday(); wd == 0 || wd == 6 {
		return m.styles.WeekendLabelStyle.Render(label)
	}
	return m.styles.DayLabelStyle.Render(label)
}

// renderCell draws one line column of one day row.
func (m Model) renderCell(v planner.View, l planner.LineView, day int) string {
	w := m.layout.ColWidth - 1
	if day == period.NoDay {
		return strings.Repeat(" ", w)
	}
	text, style := m.cellContent(v, l, day)

	if v.Range != nil && v.Range.LineID == l.ID && day >= v.Range.StartDay && day <= v.Range.EndDay {
		style = style.Background(m.styles.RangeStyle.GetBackground())
	}
	if v.Active != nil && v.Active.LineID == l.ID && v.Active.Day == day {
		style = m.styles.CursorStyle
	}
	return style.Width(w).MaxWidth(w).Render(ansi.Truncate(text, w, "…"))
}

func (m Model) cellContent(v planner.View, l planner.LineView, day int) (string, lipgloss.Style) {
	if p := v.Preview; p != nil && p.Block.LineID == l.ID && p.Block.Covers(day) {
		text := "┆"
		if day == p.Block.StartDay {
			text = "→ " + blockTitle(p.Block, m.engine.Catalog().MoldName(p.Block.MoldID))
		}
		if p.Violation != nil {
			return text, m.styles.ConflictStyle
		}
		return text, m.styles.PreviewStyle(p.Block.Color)
	}

	b, ok := l.BlockAt(day)
	if !ok {
		if l.Status == catalog.StatusInactive {
			return "", m.styles.InactiveCellStyle
		}
		return "·", m.styles.EmptyCellStyle
	}

	text := "│"
	switch {
	case day == b.StartDay:
		text = blockTitle(b.Block, b.MoldName)
	case day == b.StartDay+1 && b.Label != "":
		text = b.MoldName
	}
	if m.showChangeovers && slices.Contains(l.ChangeoverDays, day) {
		text = "⇄ " + text
	}

	style := m.styles.BlockStyle(b.Color)
	if b.Overlap {
		style = m.styles.ConflictStyle
	}
	if b.Selected {
		style = style.Bold(true).Underline(true)
	}
	return text, style
}

// blockTitle is the text on a block's first row.
func blockTitle(b *block.Block, moldName string) string {
	title := b.Label
	if title == "" {
		title = moldName
	}
	if b.IsChangeoverBlock {
		title = "↳ " + title
	}
	return title
}

func (m Model) renderStatus(v planner.View) string {
	if m.statusMsg != "" {
		if m.statusErr {
			return m.styles.StatusErrorStyle.Render(m.statusMsg)
		}
		return m.styles.StatusStyle.Render(m.statusMsg)
	}
	if v.Active == nil {
		return ""
	}
	cell := *v.Active
	info := fmt.Sprintf("%s day %d", cell.LineID, cell.Day)
	if v.Range != nil {
		info = fmt.Sprintf("%s days %d-%d (%d)", v.Range.LineID, v.Range.StartDay, v.Range.EndDay, v.Range.Len())
	}
	if b, ok := m.engine.BlockAt(cell.LineID, cell.Day); ok {
		info += " · " + blockSummary(b, m.engine.Catalog())
	}
	return m.styles.HintStyle.Render(info)
}

// blockSummary describes a block in one line, for the status bar and the
// system clipboard.
func blockSummary(b *block.Block, cat *catalog.Catalog) string {
	days := fmt.Sprintf("day %d", b.StartDay)
	if b.EndDay != b.StartDay {
		days = fmt.Sprintf("days %d-%d", b.StartDay, b.EndDay)
	}
	parts := []string{fmt.Sprintf("%s %s %s %s", b.LineID, days, b.MoldID, cat.MoldName(b.MoldID))}
	if b.Label != "" {
		parts = append(parts, b.Label)
	}
	if len(b.Payload.PartyCodes) > 0 {
		parts = append(parts, "parties "+strings.Join(b.Payload.PartyCodes, ","))
	}
	if b.HasChangeoverConfig() {
		parts = append(parts, "changeover to "+b.ChangeoverMoldID)
	}
	if b.Notes != "" {
		parts = append(parts, b.Notes)
	}
	return strings.Join(parts, " · ")
}

func (m Model) renderConfirm() string {
	pd := m.pending
	body := fmt.Sprintf("Delete %d block(s) on %s, days %d-%d?", pd.count, pd.lineID, pd.from, pd.to)
	return m.styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.ModalTitleStyle.Render("Delete blocks"),
		"",
		body,
		"",
		m.styles.ModalHintStyle.Render("y delete · n cancel"),
	))
}

func (m Model) renderHelp() string {
	rows := []string{m.styles.ModalTitleStyle.Render("Keys"), ""}
	for _, k := range helpKeys {
		rows = append(rows, m.styles.ModalFocusStyle.Render(fmt.Sprintf("%-20s", k[0]))+m.styles.ModalLabelStyle.Render(k[1]))
	}
	rows = append(rows, "", m.styles.ModalHintStyle.Render("any key to close"))
	return m.styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
