package posts

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/blog-api/api/types"
	postsService "github.com/killallgit/blog-api/internal/services/posts"
)

// Get handles fetching a single post by slug
// @Summary      Get a post by slug
// @Description  Returns a single published post and increments its view count
// @Tags         posts
// @Produce      json
// @Param        slug path string true "Post slug"
// @Success      200 {object} types.SinglePostResponse "The post"
// @Failure      404 {object} types.ErrorResponse "Post not found"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/posts/{slug} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")

		post, err := deps.PostRepository.GetPostBySlug(c.Request.Context(), slug)
		if err != nil {
			if postsService.IsNotFound(err) {
				c.JSON(http.StatusNotFound, types.ErrorResponse{
					Status:  types.StatusError,
					Message: "Post not found",
				})
				return
			}
			c.JSON(http.StatusInternalServerError, types.ErrorResponse{
				Status:  types.StatusError,
				Message: "Failed to load post",
			})
			return
		}

		// A failed counter bump should not fail the read.
		if err := deps.PostRepository.IncrementViewCount(c.Request.Context(), post.ID); err != nil {
			log.Printf("[WARN] Incrementing view count for post %d: %v", post.ID, err)
		}

		c.JSON(http.StatusOK, types.SinglePostResponse{
			BaseResponse: types.BaseResponse{
				Status: types.StatusOK,
			},
			Post: post,
		})
	}
}
