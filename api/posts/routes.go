package posts

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/blog-api/api/types"
)

// RegisterRoutes registers post browsing routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// Router already includes the /posts prefix
	router.GET("", List(deps))
	router.GET("/:slug", Get(deps))
}
