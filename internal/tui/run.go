package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the explorer, optionally pre-filled with text.
func Run(opts Options, text string) error {
	m := NewModel(opts)
	if text != "" {
		m.input.SetValue(text)
		m.scan()
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
