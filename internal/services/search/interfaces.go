package search

import (
	"context"
	"time"

	"github.com/killallgit/blog-api/internal/models"
)

// PostFilters narrows the eligible post set before scoring.
type PostFilters struct {
	Section string   // exact section match, empty means no filter
	Tags    []string // post must carry at least one of these (OR semantics)
}

// ScoredPost is a post paired with the rank the full-text index assigned it.
type ScoredPost struct {
	Post  models.Post
	Score float64
}

// PostSource is the read-only view of the post repository the search core
// depends on. All methods return published posts only.
type PostSource interface {
	// FindEligible returns published posts matching the filters, ordered
	// published_at DESC, id ASC.
	FindEligible(ctx context.Context, filters PostFilters) ([]models.Post, error)

	// FullTextSearch runs an FTS match query against the post index and
	// returns ranked candidates. Errors indicate the index is missing or
	// unusable; callers are expected to fall back.
	FullTextSearch(ctx context.Context, match string, limit int) ([]ScoredPost, error)

	// TopByViews returns published posts ranked by all-time view count.
	TopByViews(ctx context.Context, limit int) ([]models.Post, error)

	// TrendingSince returns posts published after the cutoff, ranked by
	// view count.
	TrendingSince(ctx context.Context, cutoff time.Time, limit int) ([]models.Post, error)

	// CountBySection counts published posts in a section.
	CountBySection(ctx context.Context, section string) (int64, error)

	// TagCounts returns tag usage across published posts, most used first.
	TagCounts(ctx context.Context, limit int) ([]models.TagCount, error)
}

// AnalyticsSink receives search analytics events. The search path dispatches
// writes fire-and-forget and never reads back.
type AnalyticsSink interface {
	Record(ctx context.Context, entry *models.SearchAnalytics) error
}

// Requester identifies who issued a search, for analytics only.
type Requester struct {
	Identifier string
	UserAgent  string
}

// SearchService is the orchestrator contract consumed by the HTTP layer.
type SearchService interface {
	Search(ctx context.Context, req models.SearchRequest, requester Requester) (*models.SearchResponse, error)
	Suggestions(ctx context.Context, partial string, limit int) (*models.SearchSuggestions, error)
	Filters(ctx context.Context) (*models.FilterOptions, error)
	TrendingTopics(ctx context.Context, limit int) ([]string, error)
}
