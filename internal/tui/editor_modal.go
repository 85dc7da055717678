package tui

import (
	"strings"

	"stocktrack/internal/dashboard"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type editorField int

const (
	fieldName editorField = iota
	fieldSKU
	fieldQuantity
	fieldDescription
	editorFieldCount
)

var editorLabels = [editorFieldCount]string{"Name", "SKU", "Quantity", "Description"}

// editorModal holds the text inputs of the open item editor.
type editorModal struct {
	session uint64
	form    dashboard.EditorForm
	inputs  [editorFieldCount]textinput.Model
	focus   editorField
	err     string
}

func newEditorModal(session uint64, form dashboard.EditorForm) editorModal {
	e := editorModal{session: session, form: form}
	values := [editorFieldCount]string{form.Name, form.SKU, form.Quantity, form.Description}
	for i := range e.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = editorLabels[i]
		in.CharLimit = 255
		in.SetValue(values[i])
		e.inputs[i] = in
	}
	e.inputs[fieldSKU].CharLimit = 100
	e.inputs[fieldQuantity].CharLimit = 9
	e.inputs[fieldDescription].CharLimit = 2000
	e.inputs[fieldName].Focus()
	return e
}

// value returns the form as typed, keeping the id the editor was opened with.
func (e editorModal) value() dashboard.EditorForm {
	return dashboard.EditorForm{
		ID:          e.form.ID,
		Name:        e.inputs[fieldName].Value(),
		SKU:         e.inputs[fieldSKU].Value(),
		Quantity:    e.inputs[fieldQuantity].Value(),
		Description: e.inputs[fieldDescription].Value(),
	}
}

func (e *editorModal) move(delta int) {
	e.inputs[e.focus].Blur()
	e.focus = editorField((int(e.focus) + delta + int(editorFieldCount)) % int(editorFieldCount))
	e.inputs[e.focus].Focus()
}

func (e *editorModal) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	e.inputs[e.focus], cmd = e.inputs[e.focus].Update(msg)
	e.err = ""
	return cmd
}

func (e editorModal) view(width int, banner string, saving bool) string {
	bodyW := modalBodyWidth(width)
	labelStyle := styleMuted()
	activeLabel := lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	var lines []string
	for i := range e.inputs {
		st := labelStyle
		if editorField(i) == e.focus {
			st = activeLabel
		}
		lines = append(lines, st.Render(editorLabels[i]), renderInputLine(bodyW, e.inputs[i].View()), "")
	}

	switch {
	case e.err != "":
		lines = append(lines, styleError().Width(bodyW).Render(e.err))
	case banner != "":
		lines = append(lines, styleError().Width(bodyW).Render(banner))
	case saving:
		lines = append(lines, styleMuted().Render("Saving…"))
	default:
		lines = append(lines, "")
	}
	lines = append(lines, "", styleMuted().Width(bodyW).Render("tab/shift+tab: field   ctrl+s: save   esc: cancel"))

	return renderModalBox(width, e.form.Title(), strings.Join(lines, "\n"))
}
