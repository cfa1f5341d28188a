package types

import "github.com/killallgit/blog-api/internal/models"

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`  // One of the Status constants above
	Message string `json:"message"` // Human-readable message
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"` // Additional error details
}

// SuggestionsResponse for the suggestions endpoint
type SuggestionsResponse struct {
	BaseResponse
	models.SearchSuggestions
}

// FiltersResponse for the filters endpoint
type FiltersResponse struct {
	BaseResponse
	Filters *models.FilterOptions `json:"filters"`
}

// PopularSearchesResponse for the popular-searches endpoint
type PopularSearchesResponse struct {
	BaseResponse
	PopularSearches []string `json:"popular_searches"`
}

// TrendingTopicsResponse for the trending-topics endpoint
type TrendingTopicsResponse struct {
	BaseResponse
	TrendingTopics []string `json:"trending_topics"`
}

// StatsResponse for the search stats endpoint
type StatsResponse struct {
	BaseResponse
	Stats *models.SearchStats `json:"stats"`
}

// PostsResponse for post lists
type PostsResponse struct {
	BaseResponse
	Posts []models.Post `json:"posts"`
	Count int           `json:"count"`
}

// SinglePostResponse for getting a single post
type SinglePostResponse struct {
	BaseResponse
	Post *models.Post `json:"post"`
}
