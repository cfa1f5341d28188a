package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/killallgit/blog-api/internal/models"
	"gorm.io/gorm"
)

// GormRepository stores analytics entries alongside the posts.
type GormRepository struct {
	db *gorm.DB
}

// Ensure GormRepository implements Repository interface
var _ Repository = (*GormRepository)(nil)

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) CreateEntry(ctx context.Context, entry *models.SearchAnalytics) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("creating analytics entry: %w", err)
	}
	return nil
}

func (r *GormRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SearchAnalytics{}).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting searches: %w", err)
	}
	return count, nil
}

func (r *GormRepository) CountUniqueQueries(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SearchAnalytics{}).
		Distinct("query").
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting unique queries: %w", err)
	}
	return count, nil
}

func (r *GormRepository) AverageResults(ctx context.Context) (float64, error) {
	var avg *float64
	if err := r.db.WithContext(ctx).
		Model(&models.SearchAnalytics{}).
		Select("AVG(results_count)").
		Scan(&avg).Error; err != nil {
		return 0, fmt.Errorf("averaging result counts: %w", err)
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (r *GormRepository) TopQueries(ctx context.Context, since time.Time, limit int) ([]string, error) {
	var queries []string
	if err := r.db.WithContext(ctx).
		Model(&models.SearchAnalytics{}).
		Select("query").
		Where("created_at >= ? AND query != ''", since).
		Group("query").
		Order("COUNT(*) DESC, query ASC").
		Limit(limit).
		Scan(&queries).Error; err != nil {
		return nil, fmt.Errorf("getting top queries: %w", err)
	}
	return queries, nil
}
