package search

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/blog-api/api/types"
)

// Stats handles search analytics stats requests
// @Summary      Get search analytics statistics
// @Description  Aggregate counts over recorded searches, intended for admin dashboards
// @Tags         search
// @Produce      json
// @Success      200 {object} types.StatsResponse "Search statistics"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/search/stats [get]
func Stats(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := deps.AnalyticsService.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to load search statistics",
			})
			return
		}

		c.JSON(http.StatusOK, types.StatsResponse{
			BaseResponse: types.BaseResponse{
				Status: types.StatusOK,
			},
			Stats: stats,
		})
	}
}
