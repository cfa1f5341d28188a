package models

import "time"

// Sort modes accepted by search requests.
const (
	SortRelevance = "relevance"
	SortRecent    = "recent"
	SortPopular   = "popular"
)

// MaxSearchLimit bounds the page size of a single search request.
const MaxSearchLimit = 100

// SearchRequest represents an incoming post search request
type SearchRequest struct {
	Query   string   `json:"query" example:"ai startup"`
	Section string   `json:"section,omitempty" example:"featured"`
	Tags    []string `json:"tags,omitempty" example:"ai,startup"`
	Sort    string   `json:"sort,omitempty" example:"relevance"`
	Offset  int      `json:"offset,omitempty" validate:"min=0" example:"0"`
	Limit   int      `json:"limit,omitempty" validate:"min=1,max=100" example:"20"`
}

// Normalize clamps out-of-range pagination values and defaults the sort
// mode. Validation proper happens at the HTTP boundary; this is the
// defensive floor underneath it.
func (r *SearchRequest) Normalize() {
	if r.Offset < 0 {
		r.Offset = 0
	}
	if r.Limit <= 0 {
		r.Limit = 20
	}
	if r.Limit > MaxSearchLimit {
		r.Limit = MaxSearchLimit
	}
	switch r.Sort {
	case SortRelevance, SortRecent, SortPopular:
	default:
		r.Sort = SortRelevance
	}
}

// SearchResult is a post plus its computed score and the query terms that
// matched it. Ephemeral: recomputed per request, never persisted.
type SearchResult struct {
	ID            uint       `json:"id"`
	Slug          string     `json:"slug"`
	Title         string     `json:"title"`
	Excerpt       string     `json:"excerpt"`
	Section       string     `json:"section"`
	Tags          StringList `json:"tags"`
	FeaturedImage string     `json:"featured_image,omitempty"`
	IsFeatured    bool       `json:"is_featured"`
	PublishedAt   *time.Time `json:"published_at"`
	ViewCount     int        `json:"view_count"`
	LikeCount     int        `json:"like_count"`
	CommentCount  int        `json:"comment_count"`

	Score        float64  `json:"search_score"`
	MatchedTerms []string `json:"matched_terms"`
}

// SearchFilters echoes back which filters were applied to a search.
type SearchFilters struct {
	Section string   `json:"section,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Sort    string   `json:"sort"`
}

// SearchResponse is the full result of one search invocation.
type SearchResponse struct {
	Results        []SearchResult `json:"results"`
	Total          int            `json:"total"`
	Query          string         `json:"query"`
	FiltersApplied SearchFilters  `json:"filters_applied"`
	SearchTime     float64        `json:"search_time"` // seconds, 3 decimals
}

// SearchSuggestions holds autocomplete and discovery hints.
type SearchSuggestions struct {
	Suggestions []string `json:"suggestions"`
	Popular     []string `json:"popular"`
	Trending    []string `json:"trending"`
}

// TagCount is a tag with its usage count across eligible posts.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// FilterOptions describes the filters available to search clients.
type FilterOptions struct {
	Sections      []string       `json:"sections"`
	Tags          []TagCount     `json:"tags"`
	SectionCounts map[string]int `json:"section_counts"`
}
