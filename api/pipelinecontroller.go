package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trendradar/pipeline"
	"trendradar/types"
)

// RegisterPipelineRoutes registers pipeline service endpoints.
func RegisterPipelineRoutes(r *gin.Engine, p *pipeline.Pipeline) {
	g := r.Group("/api/pipeline")
	g.POST("/run", handleRunPipeline(p))
}

// RunPipelineRequest carries one crawled batch from the external
// crawler layer.
type RunPipelineRequest struct {
	Items []*types.NewsItem `json:"items" binding:"required"`
}

// RunPipelineResponse returns the ranked result set for downstream
// renderers.
type RunPipelineResponse struct {
	Ranked      []*types.ScoredItem `json:"ranked"`
	Excluded    []*types.NewsItem   `json:"excluded,omitempty"`
	SnapshotKey string              `json:"snapshot_key,omitempty"`
	Summary     pipeline.Summary    `json:"summary"`
}

// handleRunPipeline runs a full cycle on the posted batch: filter,
// score, rank, record observations.
func handleRunPipeline(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RunPipelineRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := p.RunOnce(c.Request.Context(), req.Items)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to run pipeline: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, RunPipelineResponse{
			Ranked:      result.Ranked,
			Excluded:    result.Excluded,
			SnapshotKey: result.SnapshotKey,
			Summary:     result.Summary,
		})
	}
}
