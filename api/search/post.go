package search

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/blog-api/api/types"
	"github.com/killallgit/blog-api/internal/models"
	"github.com/killallgit/blog-api/internal/services/search"
)

// validSection reports whether the request names a known section. An empty
// section or "all" means no filter.
func validSection(section string) bool {
	if section == "" || section == "all" {
		return true
	}
	for _, s := range models.Sections() {
		if s == section {
			return true
		}
	}
	return false
}

// Post handles post search requests
// @Summary      Search blog posts
// @Description  Full-text search over published posts with section/tag filters, ranked by relevance, recency or popularity
// @Tags         search
// @Accept       json
// @Produce      json
// @Param        request body models.SearchRequest true "Search parameters"
// @Success      200 {object} models.SearchResponse "Search results"
// @Failure      400 {object} types.ErrorResponse "Bad request - invalid parameters"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/search/posts [post]
func Post(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Parse request body
		var req models.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Invalid request format",
				Details: err.Error(),
			})
			return
		}

		if req.Offset < 0 {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Offset must not be negative",
			})
			return
		}

		if req.Limit < 0 || req.Limit > models.MaxSearchLimit {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Limit must be between 1 and 100",
			})
			return
		}

		if !validSection(req.Section) {
			c.JSON(http.StatusBadRequest, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Unknown section",
			})
			return
		}
		if req.Section == "all" {
			req.Section = ""
		}

		requester := search.Requester{
			Identifier: c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		}

		response, err := deps.SearchService.Search(c.Request.Context(), req, requester)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Search failed",
			})
			return
		}

		c.JSON(http.StatusOK, response)
	}
}
