package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"trendradar/types"
)

// runPipeline creates a command that posts the batch to the API
func runPipeline(client *PipelineClient, batch []*types.NewsItem) tea.Cmd {
	return func() tea.Msg {
		result, err := client.RunPipeline(batch)
		return RunCompleteMsg{Result: result, Err: err}
	}
}

// checkHealth creates a command that pings the API server
func checkHealth(client *PipelineClient) tea.Cmd {
	return func() tea.Msg {
		return HealthCheckMsg{Err: client.Health()}
	}
}
