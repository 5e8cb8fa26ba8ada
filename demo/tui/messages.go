package tui

import "trendradar/api"

// RunCompleteMsg is sent when the pipeline run finishes
type RunCompleteMsg struct {
	Result *api.RunPipelineResponse
	Err    error
}

// HealthCheckMsg is sent after pinging the API server
type HealthCheckMsg struct {
	Err error
}
