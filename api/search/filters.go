package search

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/blog-api/api/types"
)

// Filters handles filter option requests
// @Summary      Get available search filters
// @Description  Returns section names, per-section post counts and the most used tags
// @Tags         search
// @Produce      json
// @Success      200 {object} types.FiltersResponse "Available filters"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/search/filters [get]
func Filters(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters, err := deps.SearchService.Filters(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to load filters",
			})
			return
		}

		c.JSON(http.StatusOK, types.FiltersResponse{
			BaseResponse: types.BaseResponse{
				Status: types.StatusOK,
			},
			Filters: filters,
		})
	}
}
