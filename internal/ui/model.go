// ABOUTME: Bubbletea model for the session TUI
// ABOUTME: Renders connection, pipeline state, capture level and chunk counters
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// StatusMsg carries a session status snapshot into the TUI.
type StatusMsg struct {
	Connected  bool
	ServerAddr string
	State      string
	Sounding   bool
	Level      float64
	Encoded    int64
	Received   int64
	Dropped    int64
	Rebuffers  int64
	BargeIns   int64
}

// Model represents the TUI state.
type Model struct {
	status StatusMsg
	width  int
	height int
}

// NewModel creates the TUI model.
func NewModel() Model {
	return Model{status: StatusMsg{State: "idle"}}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.status = msg
	}
	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Talkwire Session") + "\n\n")

	conn := warnStyle.Render("disconnected")
	if m.status.Connected {
		conn = okStyle.Render("connected to " + m.status.ServerAddr)
	}
	b.WriteString(labelStyle.Render("Link:     ") + conn + "\n")

	sounding := "silent"
	if m.status.Sounding {
		sounding = okStyle.Render("sounding")
	}
	b.WriteString(labelStyle.Render("Playback: ") + m.status.State + " / " + sounding + "\n")
	b.WriteString(labelStyle.Render("Mic:      ") + m.renderLevel() + "\n\n")

	b.WriteString(fmt.Sprintf("%s sent %d  recv %d  dropped %d  rebuffers %d  barge-ins %d\n",
		labelStyle.Render("Chunks:  "),
		m.status.Encoded, m.status.Received, m.status.Dropped,
		m.status.Rebuffers, m.status.BargeIns))

	b.WriteString("\n" + labelStyle.Render("q to quit"))
	return b.String()
}

// renderLevel draws the capture loudness as a 20-cell bar.
func (m Model) renderLevel() string {
	const cells = 20
	filled := int(m.status.Level / 100 * cells)
	if filled > cells {
		filled = cells
	}
	bar := barStyle.Render(strings.Repeat("█", filled)) + strings.Repeat("░", cells-filled)
	return fmt.Sprintf("%s %5.1f", bar, m.status.Level)
}
