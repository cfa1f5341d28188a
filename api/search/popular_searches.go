package search

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/blog-api/api/types"
	"github.com/killallgit/blog-api/internal/services/search"
)

// How far back the popular-searches window looks.
const popularSearchWindow = 30 * 24 * time.Hour

// PopularSearches handles popular search term requests
// @Summary      Get popular search terms
// @Description  Returns the most frequent search queries from the last 30 days, falling back to curated defaults
// @Tags         search
// @Produce      json
// @Param        limit query int false "Maximum terms to return" default(10)
// @Success      200 {object} types.PopularSearchesResponse "Popular search terms"
// @Router       /api/v1/search/popular-searches [get]
func PopularSearches(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 10
		if raw, ok := c.GetQuery("limit"); ok {
			if parsed, err := parsePositiveInt(raw); err == nil {
				limit = parsed
			}
		}

		since := time.Now().Add(-popularSearchWindow)
		queries, err := deps.AnalyticsService.PopularQueries(c.Request.Context(), since, limit)
		if err != nil {
			// Analytics being unavailable should not break discovery UIs.
			log.Printf("[WARN] Loading popular searches: %v", err)
			queries = nil
		}
		if len(queries) == 0 {
			queries = search.PopularDefaults(limit)
		}

		c.JSON(http.StatusOK, types.PopularSearchesResponse{
			BaseResponse: types.BaseResponse{
				Status: types.StatusOK,
			},
			PopularSearches: queries,
		})
	}
}
