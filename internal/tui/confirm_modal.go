package tui

import (
	"strings"

	"stocktrack/internal/dashboard"

	"github.com/charmbracelet/lipgloss"
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

func (f confirmModalFocus) toggle() confirmModalFocus {
	if f == confirmFocusConfirm {
		return confirmFocusCancel
	}
	return confirmFocusConfirm
}

func (f confirmModalFocus) action() dashboard.DialogAction {
	if f == confirmFocusConfirm {
		return dashboard.ActionConfirm
	}
	return dashboard.ActionCancel
}

const modalMaxWidth = 64

func modalWidth(termW int) int {
	w := termW - 8
	if w > modalMaxWidth {
		w = modalMaxWidth
	}
	if w < 24 {
		w = 24
	}
	return w
}

// modalBodyWidth is the content width inside a modal box of the given outer width.
func modalBodyWidth(width int) int {
	return modalWidth(width) - 4
}

func renderModalBox(width int, title string, content string) string {
	w := modalWidth(width)
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorSurfaceFg).
		Background(colorControlBg).
		Width(w-2).
		Padding(0, 1).
		Render(title)
	body := lipgloss.NewStyle().
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg).
		Width(w-2).
		Padding(1, 1).
		Render(content)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, body))
}

func renderConfirmModal(width int, d dashboard.Dialog, focus confirmModalFocus) string {
	// No borders on the buttons; nested borders on a colored surface leave artifacts in some terminals.
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	var buttons []string
	for _, a := range d.Actions() {
		st := btnBase
		if a == focus.action() || len(d.Actions()) == 1 {
			st = btnActive
		}
		buttons = append(buttons, st.Render(d.Label(a)))
	}
	sep := lipgloss.NewStyle().Background(colorControlBg).Render(" ")
	controls := strings.Join(buttons, sep)

	bodyW := modalBodyWidth(width)
	help := styleMuted().Width(bodyW).Render("tab: focus   enter: select   y/n   esc: cancel")

	content := strings.Join([]string{
		lipgloss.NewStyle().Width(bodyW).Render(d.Message),
		"",
		controls,
		"",
		help,
	}, "\n")
	return renderModalBox(width, d.Title, content)
}
