package models

import "time"

// SearchAnalytics records one executed search for the admin dashboard.
// Write-only from the search path; only the analytics service reads it back.
type SearchAnalytics struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	Query          string    `json:"query" gorm:"index"`
	ResultsCount   int       `json:"results_count"`
	FiltersUsed    string    `json:"filters_used" gorm:"type:json"` // serialized SearchFilters
	UserIdentifier string    `json:"user_identifier"`
	UserAgent      string    `json:"user_agent"`
	SearchTime     float64   `json:"search_time"`
	HasResults     bool      `json:"has_results"`
	CreatedAt      time.Time `json:"created_at"`
}

// SearchStats summarizes logged searches for the admin dashboard.
type SearchStats struct {
	TotalSearches           int64   `json:"total_searches"`
	UniqueQueries           int64   `json:"unique_queries"`
	AverageResultsPerSearch float64 `json:"average_results_per_search"`
}
