// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the session UI
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the TUI and returns the program handle. Callers push
// StatusMsg updates through Program.Send.
func Run() *tea.Program {
	return tea.NewProgram(NewModel(), tea.WithAltScreen())
}
