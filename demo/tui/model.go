package tui

import (
	"time"

	"trendradar/api"
	"trendradar/types"
)

// State represents the demo state machine
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateComplete State = "complete"
	StateError    State = "error"
)

// Model represents the TUI client state (thin client over the API)
type Model struct {
	Client *PipelineClient

	// Batch posted when the user starts a run
	Batch []*types.NewsItem

	State  State
	Result *api.RunPipelineResponse
	Logs   []string
	Err    error
}

// NewModel creates a new TUI model
func NewModel(apiURL string, batch []*types.NewsItem) Model {
	return Model{
		Client: NewPipelineClient(apiURL),
		Batch:  batch,
		State:  StateIdle,
		Logs:   make([]string, 0),
	}
}

// AddLog appends a log line, keeping only the most recent entries
func (m Model) AddLog(message string) Model {
	const maxLogs = 8
	m.Logs = append(m.Logs, time.Now().Format("15:04:05")+" "+message)
	if len(m.Logs) > maxLogs {
		m.Logs = m.Logs[len(m.Logs)-maxLogs:]
	}
	return m
}
