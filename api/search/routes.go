package search

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/blog-api/api/types"
)

// RegisterRoutes registers search routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// Router already includes the /search prefix
	router.POST("/posts", Post(deps))
	router.GET("/suggestions", Suggestions(deps))
	router.GET("/filters", Filters(deps))
	router.GET("/popular-searches", PopularSearches(deps))
	router.GET("/trending-topics", TrendingTopics(deps))
	router.GET("/stats", Stats(deps))
}
