package posts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/blog-api/api/types"
	"github.com/killallgit/blog-api/internal/models"
	postsService "github.com/killallgit/blog-api/internal/services/posts"
	"github.com/killallgit/blog-api/internal/services/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock repository for testing
type mockRepository struct {
	findEligibleFunc  func(ctx context.Context, filters search.PostFilters) ([]models.Post, error)
	getBySlugFunc     func(ctx context.Context, slug string) (*models.Post, error)
	incrementedViews  []uint
	incrementViewsErr error
}

func (m *mockRepository) FindEligible(ctx context.Context, filters search.PostFilters) ([]models.Post, error) {
	if m.findEligibleFunc != nil {
		return m.findEligibleFunc(ctx, filters)
	}
	return nil, nil
}

func (m *mockRepository) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	if m.getBySlugFunc != nil {
		return m.getBySlugFunc(ctx, slug)
	}
	return nil, postsService.NewNotFoundError("post", slug)
}

func (m *mockRepository) IncrementViewCount(ctx context.Context, id uint) error {
	m.incrementedViews = append(m.incrementedViews, id)
	return m.incrementViewsErr
}

func (m *mockRepository) CreatePost(ctx context.Context, post *models.Post) error { return nil }
func (m *mockRepository) UpdatePost(ctx context.Context, post *models.Post) error { return nil }
func (m *mockRepository) DeletePost(ctx context.Context, id uint) error           { return nil }
func (m *mockRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	return nil, postsService.NewNotFoundError("post", id)
}
func (m *mockRepository) FullTextSearch(ctx context.Context, match string, limit int) ([]search.ScoredPost, error) {
	return nil, nil
}
func (m *mockRepository) TopByViews(ctx context.Context, limit int) ([]models.Post, error) {
	return nil, nil
}
func (m *mockRepository) TrendingSince(ctx context.Context, cutoff time.Time, limit int) ([]models.Post, error) {
	return nil, nil
}
func (m *mockRepository) CountBySection(ctx context.Context, section string) (int64, error) {
	return 0, nil
}
func (m *mockRepository) TagCounts(ctx context.Context, limit int) ([]models.TagCount, error) {
	return nil, nil
}
func (m *mockRepository) EnsureSearchIndex(ctx context.Context) error  { return nil }
func (m *mockRepository) RebuildSearchIndex(ctx context.Context) error { return nil }

func performRequest(t *testing.T, repo postsService.PostRepository, path string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	group := engine.Group("/posts")
	RegisterRoutes(group, &types.Dependencies{PostRepository: repo})

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestList(t *testing.T) {
	published := time.Now()
	repo := &mockRepository{
		findEligibleFunc: func(ctx context.Context, filters search.PostFilters) ([]models.Post, error) {
			assert.Equal(t, "featured", filters.Section)
			assert.Equal(t, []string{"golang", "web"}, filters.Tags)
			return []models.Post{
				{Slug: "a", Title: "Post A", PublishedAt: &published},
				{Slug: "b", Title: "Post B", PublishedAt: &published},
			}, nil
		},
	}

	rec := performRequest(t, repo, "/posts?section=featured&tags=golang,%20web")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(2), resp["count"])
}

func TestList_LimitApplied(t *testing.T) {
	published := time.Now()
	repo := &mockRepository{
		findEligibleFunc: func(ctx context.Context, filters search.PostFilters) ([]models.Post, error) {
			return []models.Post{
				{Slug: "a", PublishedAt: &published},
				{Slug: "b", PublishedAt: &published},
				{Slug: "c", PublishedAt: &published},
			}, nil
		},
	}

	rec := performRequest(t, repo, "/posts?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(2), resp["count"])
}

func TestList_InvalidLimit(t *testing.T) {
	rec := performRequest(t, &mockRepository{}, "/posts?limit=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGet(t *testing.T) {
	published := time.Now()
	post := &models.Post{Slug: "hello", Title: "Hello World", PublishedAt: &published}
	post.ID = 7

	repo := &mockRepository{
		getBySlugFunc: func(ctx context.Context, slug string) (*models.Post, error) {
			assert.Equal(t, "hello", slug)
			return post, nil
		},
	}

	rec := performRequest(t, repo, "/posts/hello")
	require.Equal(t, http.StatusOK, rec.Code)

	// The read bumps the view counter
	assert.Equal(t, []uint{7}, repo.incrementedViews)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	retrieved, ok := resp["post"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Hello World", retrieved["title"])
}

func TestGet_NotFound(t *testing.T) {
	rec := performRequest(t, &mockRepository{}, "/posts/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp["status"])
}
