package api

import (
	"github.com/gin-gonic/gin"

	"trendradar/pipeline"
)

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(p *pipeline.Pipeline) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	// Register resource routers
	RegisterPipelineRoutes(r, p)
	RegisterRulesRoutes(r, p)
	RegisterHealthRoutes(r, p)
	return r
}
