package tui

import (
	"stocktrack/internal/dashboard"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive dashboard and blocks until the user quits.
func Run(opts dashboard.Options) error {
	applyThemePreference()
	applyColorProfilePreference()

	m := newAppModel(dashboard.New(opts))
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
