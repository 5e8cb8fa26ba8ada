package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return checkHealth(m.Client)
}

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case HealthCheckMsg:
		return m.handleHealthCheck(msg)
	case RunCompleteMsg:
		return m.handleRunComplete(msg)
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r", "R":
		if m.State == StateIdle || m.State == StateComplete || m.State == StateError {
			m.State = StateRunning
			m.Err = nil
			m = m.AddLog(fmt.Sprintf("Posting batch of %d items...", len(m.Batch)))
			return m, runPipeline(m.Client, m.Batch)
		}
	}
	return m, nil
}

func (m Model) handleHealthCheck(msg HealthCheckMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = fmt.Errorf("API unreachable: %w", msg.Err)
		return m, nil
	}
	m = m.AddLog("Connected to API server")
	return m, nil
}

func (m Model) handleRunComplete(msg RunCompleteMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.Result = msg.Result
	m.State = StateComplete
	m = m.AddLog(fmt.Sprintf("Run complete: %d included, %d excluded",
		msg.Result.Summary.Included, msg.Result.Summary.Excluded))
	return m, nil
}
