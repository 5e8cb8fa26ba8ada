package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"trendradar/api"
	"trendradar/types"
)

// PipelineClient is a thin HTTP client for the pipeline API
type PipelineClient struct {
	baseURL string
	client  *http.Client
}

// NewPipelineClient creates a new pipeline API client
func NewPipelineClient(baseURL string) *PipelineClient {
	return &PipelineClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// RunPipeline posts a batch and returns the ranked result
func (c *PipelineClient) RunPipeline(items []*types.NewsItem) (*api.RunPipelineResponse, error) {
	payload, err := json.Marshal(api.RunPipelineRequest{Items: items})
	if err != nil {
		return nil, fmt.Errorf("failed to encode batch: %w", err)
	}

	resp, err := c.client.Post(c.baseURL+"/api/pipeline/run", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to run pipeline: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var result api.RunPipelineResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// Health checks that the API server is reachable
func (c *PipelineClient) Health() error {
	resp, err := c.client.Get(c.baseURL + "/api/health")
	if err != nil {
		return fmt.Errorf("failed to reach API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
	return nil
}
