package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/killallgit/blog-api/internal/models"
)

// Service implements AnalyticsService over a Repository.
type Service struct {
	repository Repository
}

// Ensure Service implements the AnalyticsService interface
var _ AnalyticsService = (*Service)(nil)

func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// Record persists one search analytics entry. Callers on the search path
// invoke this fire-and-forget; errors are theirs to swallow.
func (s *Service) Record(ctx context.Context, entry *models.SearchAnalytics) error {
	if entry == nil {
		return fmt.Errorf("nil analytics entry")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return s.repository.CreateEntry(ctx, entry)
}

// Stats summarizes all recorded searches for the admin dashboard.
func (s *Service) Stats(ctx context.Context) (*models.SearchStats, error) {
	total, err := s.repository.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	unique, err := s.repository.CountUniqueQueries(ctx)
	if err != nil {
		return nil, err
	}
	avg, err := s.repository.AverageResults(ctx)
	if err != nil {
		return nil, err
	}

	return &models.SearchStats{
		TotalSearches:           total,
		UniqueQueries:           unique,
		AverageResultsPerSearch: math.Round(avg*100) / 100,
	}, nil
}

// PopularQueries returns the most frequent queries since the cutoff.
func (s *Service) PopularQueries(ctx context.Context, since time.Time, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.repository.TopQueries(ctx, since, limit)
}
