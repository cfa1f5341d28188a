package search

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/blog-api/api/types"
)

// TrendingTopics handles trending topic requests
// @Summary      Get trending topics
// @Description  Returns titles of the most viewed posts published in the last week, falling back to curated defaults
// @Tags         search
// @Produce      json
// @Param        limit query int false "Maximum topics to return" default(5)
// @Success      200 {object} types.TrendingTopicsResponse "Trending topics"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/search/trending-topics [get]
func TrendingTopics(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 5
		if raw, ok := c.GetQuery("limit"); ok {
			if parsed, err := parsePositiveInt(raw); err == nil {
				limit = parsed
			}
		}

		topics, err := deps.SearchService.TrendingTopics(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to load trending topics",
			})
			return
		}

		c.JSON(http.StatusOK, types.TrendingTopicsResponse{
			BaseResponse: types.BaseResponse{
				Status: types.StatusOK,
			},
			TrendingTopics: topics,
		})
	}
}
