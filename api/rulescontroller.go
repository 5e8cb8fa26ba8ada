package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trendradar/engine"
	"trendradar/pipeline"
	"trendradar/rules"
	"trendradar/types"
)

// RegisterRulesRoutes registers keyword rule endpoints.
func RegisterRulesRoutes(r *gin.Engine, p *pipeline.Pipeline) {
	r.GET("/api/rules", handleGetRules(p))
	r.POST("/api/filter/preview", handleFilterPreview(p))
}

// handleGetRules returns the currently loaded rule set.
func handleGetRules(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		rs := p.Rules
		if rs == nil {
			rs = &rules.RuleSet{}
		}
		c.JSON(http.StatusOK, gin.H{
			"token_count": rs.Len(),
			"rules":       rs,
		})
	}
}

// FilterPreviewRequest runs the filter alone against a posted batch.
// When Rules is present its lines replace the server rule set for this
// request only.
type FilterPreviewRequest struct {
	Items []*types.NewsItem `json:"items" binding:"required"`
	Rules []string          `json:"rules,omitempty"`
}

// FilterPreviewResponse partitions the batch without scoring it.
type FilterPreviewResponse struct {
	Included []*types.NewsItem `json:"included"`
	Excluded []*types.NewsItem `json:"excluded"`
}

func handleFilterPreview(p *pipeline.Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FilterPreviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		rs := p.Rules
		if len(req.Rules) > 0 {
			rs = rules.ParseLines(req.Rules)
		}

		included, excluded := engine.Filter(req.Items, rs)
		c.JSON(http.StatusOK, FilterPreviewResponse{
			Included: included,
			Excluded: excluded,
		})
	}
}
