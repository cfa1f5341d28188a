package posts

import (
	"context"

	"github.com/killallgit/blog-api/internal/models"
	"github.com/killallgit/blog-api/internal/services/search"
)

// PostRepository defines the persistence interface for blog posts. The
// search-facing read methods are the same ones the search core consumes
// through its PostSource port.
type PostRepository interface {
	search.PostSource

	// Content-management operations
	CreatePost(ctx context.Context, post *models.Post) error
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id uint) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.Post, error)
	IncrementViewCount(ctx context.Context, id uint) error

	// EnsureSearchIndex creates the full-text index and its sync triggers.
	// Failure leaves the indexed search path unavailable but is otherwise
	// harmless.
	EnsureSearchIndex(ctx context.Context) error
}
