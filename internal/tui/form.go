package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/planta/internal/block"
)

type formField int

const (
	fieldMold formField = iota
	fieldDays
	fieldLabel
	fieldColor
	fieldParties
	fieldNotes
	fieldChangeoverMold
	fieldChangeover
	fieldChangeoverParties
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldMold:              "Mold",
	fieldDays:              "Days",
	fieldLabel:             "Label",
	fieldColor:             "Color",
	fieldParties:           "Parties",
	fieldNotes:             "Notes",
	fieldChangeoverMold:    "Changeover mold",
	fieldChangeover:        "Changeover at",
	fieldChangeoverParties: "Changeover parties",
}

var fieldPlaceholders = [fieldCount]string{
	fieldMold:              "M-BKT-10",
	fieldDays:              "1",
	fieldColor:             "#3B82F6",
	fieldParties:           "P001,P002",
	fieldChangeoverMold:    "none",
	fieldChangeover:        "minutes or HH:MM",
	fieldChangeoverParties: "P001",
}

// blockForm edits one block. Submitting builds a draft for Engine.UpdateBlock.
type blockForm struct {
	draft  *block.Block
	isNew  bool
	inputs []textinput.Model
	focus  formField
	err    string
}

func newBlockForm(draft *block.Block, isNew bool, s *Styles) blockForm {
	f := blockForm{draft: draft.Clone(), isNew: isNew}
	values := [fieldCount]string{
		fieldMold:              draft.MoldID,
		fieldDays:              strconv.Itoa(draft.Duration()),
		fieldLabel:             draft.Label,
		fieldColor:             draft.Color,
		fieldParties:           strings.Join(draft.Payload.PartyCodes, ","),
		fieldNotes:             draft.Notes,
		fieldChangeoverMold:    draft.ChangeoverMoldID,
		fieldChangeoverParties: strings.Join(draft.Payload.ChangeoverPartyCodes, ","),
	}
	switch draft.ChangeoverMode {
	case block.ChangeoverTime:
		values[fieldChangeover] = draft.ChangeoverTime
	case block.ChangeoverMinutes:
		values[fieldChangeover] = strconv.Itoa(draft.ChangeoverMinutes)
	}

	f.inputs = make([]textinput.Model, fieldCount)
	for i := formField(0); i < fieldCount; i++ {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = fieldPlaceholders[i]
		ti.CharLimit = 128
		ti.Width = 28
		ti.TextStyle = s.ModalInputStyle
		ti.PlaceholderStyle = s.ModalHintStyle
		ti.SetValue(values[i])
		f.inputs[i] = ti
	}
	f.inputs[fieldMold].Focus()
	return f
}

func (f *blockForm) setFocus(next formField) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (next + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

// update routes a key to the form. done is true when the form was submitted.
func (f blockForm) update(msg tea.KeyMsg) (blockForm, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "down":
		cmd := f.setFocus(f.focus + 1)
		return f, cmd, false
	case "shift+tab", "up":
		cmd := f.setFocus(f.focus - 1)
		return f, cmd, false
	case "enter":
		return f, nil, true
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func (f blockForm) value(field formField) string {
	return strings.TrimSpace(f.inputs[field].Value())
}

// build returns the draft described by the form fields.
func (f blockForm) build() (*block.Block, error) {
	b := f.draft.Clone()

	b.MoldID = f.value(fieldMold)
	if b.MoldID == "" {
		return nil, block.ErrMissingMold
	}
	days, err := strconv.Atoi(f.value(fieldDays))
	if err != nil || days < 1 {
		return nil, errors.New("days must be a positive number")
	}
	b.EndDay = b.StartDay + days - 1
	b.Label = f.value(fieldLabel)
	if c := f.value(fieldColor); c != "" {
		b.Color = c
	}
	b.Notes = f.value(fieldNotes)
	b.Payload.PartyCodes = splitCodes(f.value(fieldParties))
	b.Payload.ChangeoverPartyCodes = splitCodes(f.value(fieldChangeoverParties))

	b.ChangeoverMoldID = f.value(fieldChangeoverMold)
	b.ChangeoverMode, b.ChangeoverMinutes, b.ChangeoverTime = "", 0, ""
	at := f.value(fieldChangeover)
	switch {
	case b.ChangeoverMoldID == "" && at == "":
	case b.ChangeoverMoldID == "":
		return nil, errors.New("changeover needs a mold")
	case strings.Contains(at, ":"):
		b.ChangeoverMode = block.ChangeoverTime
		b.ChangeoverTime = at
	default:
		n, err := strconv.Atoi(at)
		if err != nil || n <= 0 {
			return nil, errors.New("changeover needs minutes or an HH:MM time")
		}
		b.ChangeoverMode = block.ChangeoverMinutes
		b.ChangeoverMinutes = n
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func splitCodes(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (f blockForm) render(s *Styles) string {
	title := "Edit block"
	if f.isNew {
		title = "New block"
	}
	title = fmt.Sprintf("%s  %s day %d", title, f.draft.LineID, f.draft.StartDay)

	rows := []string{s.ModalTitleStyle.Render(title), ""}
	for i := formField(0); i < fieldCount; i++ {
		label := s.ModalLabelStyle
		marker := "  "
		if i == f.focus {
			label = s.ModalFocusStyle
			marker = "› "
		}
		rows = append(rows, label.Render(fmt.Sprintf("%s%-19s", marker, fieldLabels[i]))+f.inputs[i].View())
	}
	if f.err != "" {
		rows = append(rows, "", s.ModalErrorStyle.Render(f.err))
	}
	rows = append(rows, "", s.ModalHintStyle.Render("tab next field · enter save · esc cancel"))
	return s.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
