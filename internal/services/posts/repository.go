package posts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/killallgit/blog-api/internal/models"
	"github.com/killallgit/blog-api/internal/services/search"
	"gorm.io/gorm"
)

// Repository persists posts in SQLite via GORM and maintains the FTS5
// full-text index over them.
type Repository struct {
	db *gorm.DB
}

// Ensure Repository implements PostRepository (and thereby search.PostSource)
var _ PostRepository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreatePost(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("post with slug %s already exists", post.Slug)
		}
		return fmt.Errorf("creating post: %w", err)
	}
	return nil
}

func (r *Repository) UpdatePost(ctx context.Context, post *models.Post) error {
	result := r.db.WithContext(ctx).Save(post)
	if result.Error != nil {
		return fmt.Errorf("updating post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return NewNotFoundError("post", post.ID)
	}
	return nil
}

func (r *Repository) DeletePost(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if result.Error != nil {
		return fmt.Errorf("deleting post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return NewNotFoundError("post", id)
	}
	return nil
}

func (r *Repository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("post", id)
		}
		return nil, fmt.Errorf("getting post: %w", err)
	}
	return &post, nil
}

func (r *Repository) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("post", slug)
		}
		return nil, fmt.Errorf("getting post by slug: %w", err)
	}
	return &post, nil
}

func (r *Repository) IncrementViewCount(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("incrementing view count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return NewNotFoundError("post", id)
	}
	return nil
}

// FindEligible returns published posts matching the filters. Tag filtering
// uses exact JSON element membership via json_each, never substring matching
// against the serialized array.
func (r *Repository) FindEligible(ctx context.Context, filters search.PostFilters) ([]models.Post, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("published_at IS NOT NULL")

	if filters.Section != "" {
		query = query.Where("section = ?", filters.Section)
	}

	if len(filters.Tags) > 0 {
		lowered := make([]string, 0, len(filters.Tags))
		for _, tag := range filters.Tags {
			lowered = append(lowered, strings.ToLower(tag))
		}
		query = query.Where(
			"EXISTS (SELECT 1 FROM json_each(posts.tags) WHERE lower(json_each.value) IN ?)",
			lowered,
		)
	}

	var found []models.Post
	if err := query.Order("published_at DESC, id ASC").Find(&found).Error; err != nil {
		return nil, fmt.Errorf("finding eligible posts: %w", err)
	}
	return found, nil
}

// ftsRow carries a post together with its FTS5 rank.
type ftsRow struct {
	models.Post `gorm:"embedded"`
	Rank        float64
}

// FullTextSearch runs an FTS5 match query against posts_fts and joins the
// hits back to full post rows. Any error (missing index, malformed match
// string) propagates so the caller can fall back to direct scoring.
func (r *Repository) FullTextSearch(ctx context.Context, match string, limit int) ([]search.ScoredPost, error) {
	var rows []ftsRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT posts.*, bm25(posts_fts) AS rank
		FROM posts_fts
		JOIN posts ON posts.id = posts_fts.rowid
		WHERE posts_fts MATCH ?
		  AND posts.published_at IS NOT NULL
		  AND posts.deleted_at IS NULL
		ORDER BY rank, posts.id
		LIMIT ?`, match, limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("full-text query: %w", err)
	}

	scored := make([]search.ScoredPost, 0, len(rows))
	for _, row := range rows {
		// bm25 ranks are negative with better matches more negative;
		// flip the sign so higher means more relevant.
		scored = append(scored, search.ScoredPost{Post: row.Post, Score: -row.Rank})
	}
	return scored, nil
}

func (r *Repository) TopByViews(ctx context.Context, limit int) ([]models.Post, error) {
	var found []models.Post
	if err := r.db.WithContext(ctx).
		Where("published_at IS NOT NULL").
		Order("view_count DESC, id ASC").
		Limit(limit).
		Find(&found).Error; err != nil {
		return nil, fmt.Errorf("getting top posts by views: %w", err)
	}
	return found, nil
}

func (r *Repository) TrendingSince(ctx context.Context, cutoff time.Time, limit int) ([]models.Post, error) {
	var found []models.Post
	if err := r.db.WithContext(ctx).
		Where("published_at IS NOT NULL AND published_at >= ?", cutoff).
		Order("view_count DESC, id ASC").
		Limit(limit).
		Find(&found).Error; err != nil {
		return nil, fmt.Errorf("getting trending posts: %w", err)
	}
	return found, nil
}

func (r *Repository) CountBySection(ctx context.Context, section string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("published_at IS NOT NULL AND section = ?", section).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting posts in section: %w", err)
	}
	return count, nil
}

func (r *Repository) TagCounts(ctx context.Context, limit int) ([]models.TagCount, error) {
	var counts []models.TagCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT lower(json_each.value) AS tag, COUNT(*) AS count
		FROM posts, json_each(posts.tags)
		WHERE posts.published_at IS NOT NULL
		  AND posts.deleted_at IS NULL
		GROUP BY lower(json_each.value)
		ORDER BY count DESC, tag ASC
		LIMIT ?`, limit).
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("counting tags: %w", err)
	}
	return counts, nil
}

// EnsureSearchIndex creates the posts_fts virtual table and the triggers
// that keep it in sync with posts. Requires an SQLite build with FTS5; when
// unavailable the indexed search path stays disabled and searches use the
// fallback scorer.
func (r *Repository) EnsureSearchIndex(ctx context.Context) error {
	statements := []string{
		`CREATE VIRTUAL TABLE IF NOT EXISTS posts_fts USING fts5(
			title, excerpt, content, tags,
			content='posts', content_rowid='id'
		)`,
		`CREATE TRIGGER IF NOT EXISTS posts_fts_insert AFTER INSERT ON posts BEGIN
			INSERT INTO posts_fts(rowid, title, excerpt, content, tags)
			VALUES (new.id, new.title, new.excerpt, new.content, new.tags);
		END`,
		`CREATE TRIGGER IF NOT EXISTS posts_fts_delete AFTER DELETE ON posts BEGIN
			INSERT INTO posts_fts(posts_fts, rowid, title, excerpt, content, tags)
			VALUES ('delete', old.id, old.title, old.excerpt, old.content, old.tags);
		END`,
		`CREATE TRIGGER IF NOT EXISTS posts_fts_update AFTER UPDATE ON posts BEGIN
			INSERT INTO posts_fts(posts_fts, rowid, title, excerpt, content, tags)
			VALUES ('delete', old.id, old.title, old.excerpt, old.content, old.tags);
			INSERT INTO posts_fts(rowid, title, excerpt, content, tags)
			VALUES (new.id, new.title, new.excerpt, new.content, new.tags);
		END`,
	}

	for _, stmt := range statements {
		if err := r.db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("creating search index: %w", err)
		}
	}
	return nil
}

// RebuildSearchIndex repopulates posts_fts from the posts table. Used by the
// migrate command after bulk imports.
func (r *Repository) RebuildSearchIndex(ctx context.Context) error {
	if err := r.db.WithContext(ctx).
		Exec(`INSERT INTO posts_fts(posts_fts) VALUES ('rebuild')`).Error; err != nil {
		return fmt.Errorf("rebuilding search index: %w", err)
	}
	return nil
}
