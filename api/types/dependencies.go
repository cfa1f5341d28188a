package types

import (
	"github.com/killallgit/blog-api/internal/database"
	"github.com/killallgit/blog-api/internal/services/analytics"
	"github.com/killallgit/blog-api/internal/services/posts"
	"github.com/killallgit/blog-api/internal/services/search"
)

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB               *database.DB
	PostRepository   posts.PostRepository
	SearchService    search.SearchService
	AnalyticsService analytics.AnalyticsService
}
