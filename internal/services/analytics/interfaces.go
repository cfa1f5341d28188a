package analytics

import (
	"context"
	"time"

	"github.com/killallgit/blog-api/internal/models"
)

// Repository defines persistence for search analytics entries.
type Repository interface {
	CreateEntry(ctx context.Context, entry *models.SearchAnalytics) error
	CountAll(ctx context.Context) (int64, error)
	CountUniqueQueries(ctx context.Context) (int64, error)
	AverageResults(ctx context.Context) (float64, error)
	TopQueries(ctx context.Context, since time.Time, limit int) ([]string, error)
}

// AnalyticsService is the business interface over recorded searches. Record
// satisfies the search core's AnalyticsSink port; the read side feeds the
// admin dashboard only.
type AnalyticsService interface {
	Record(ctx context.Context, entry *models.SearchAnalytics) error
	Stats(ctx context.Context) (*models.SearchStats, error)
	PopularQueries(ctx context.Context, since time.Time, limit int) ([]string, error)
}
