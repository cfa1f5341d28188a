package posts

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/blog-api/api/types"
	"github.com/killallgit/blog-api/internal/services/search"
)

// List handles published post listing
// @Summary      List published posts
// @Description  Returns published posts newest first, optionally filtered by section and tags
// @Tags         posts
// @Produce      json
// @Param        section query string false "Filter by section"
// @Param        tags query string false "Comma-separated tags, post must carry at least one"
// @Param        limit query int false "Maximum posts to return" default(20)
// @Success      200 {object} types.PostsResponse "Post list"
// @Failure      400 {object} types.ErrorResponse "Bad request - invalid parameters"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/posts [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 20
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

		filters := search.PostFilters{Section: c.Query("section")}
		if raw := c.Query("tags"); raw != "" {
			for _, tag := range strings.Split(raw, ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					filters.Tags = append(filters.Tags, tag)
				}
			}
		}

		posts, err := deps.PostRepository.FindEligible(c.Request.Context(), filters)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to load posts",
			})
			return
		}

		if len(posts) > limit {
			posts = posts[:limit]
		}

		c.JSON(http.StatusOK, types.PostsResponse{
			BaseResponse: types.BaseResponse{
				Status: types.StatusOK,
			},
			Posts: posts,
			Count: len(posts),
		})
	}
}
