package search

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/blog-api/api/types"
	"github.com/killallgit/blog-api/pkg/config"
)

// Suggestions handles autocomplete requests
// @Summary      Get search suggestions
// @Description  Autocomplete suggestions derived from post titles and tags, plus popular and trending lists
// @Tags         search
// @Produce      json
// @Param        q query string false "Partial query to complete"
// @Param        limit query int false "Maximum suggestions to return" default(5)
// @Success      200 {object} types.SuggestionsResponse "Suggestion lists"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/search/suggestions [get]
func Suggestions(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		partial := c.Query("q")

		limit := config.GetInt("search.suggestion_limit")
		if limit <= 0 {
			limit = 5
		}
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				c.JSON(http.StatusBadRequest, types.ErrorResponse{
					Status:  types.StatusError,
					Message: "Limit must be a positive integer",
				})
				return
			}
			limit = parsed
		}

		suggestions, err := deps.SearchService.Suggestions(c.Request.Context(), partial, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to load suggestions",
			})
			return
		}

		c.JSON(http.StatusOK, types.SuggestionsResponse{
			BaseResponse: types.BaseResponse{
				Status: types.StatusOK,
			},
			SearchSuggestions: *suggestions,
		})
	}
}
