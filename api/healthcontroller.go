package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trendradar/pipeline"
)

// RegisterHealthRoutes registers health check endpoints.
func RegisterHealthRoutes(r *gin.Engine, p *pipeline.Pipeline) {
	r.GET("/api/health", handleHealth(p))
}

// handleHealth reports liveness plus the loaded rule token count and
// frequency window, so an empty rules file shows up in monitoring.
func handleHealth(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"rule_tokens":  p.Rules.Len(),
			"window_hours": p.Window.Hours(),
		})
	}
}
