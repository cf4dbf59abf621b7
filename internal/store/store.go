package store

import (
	"context"

	"github.com/miastoportal/harvester/internal/types"
)

// ArticleStore is the interface for article persistence backends. All
// backends keep at most a configured number of most-recent articles,
// evicting oldest-by-date first.
type ArticleStore interface {
	// Append stores an article, then enforces the cap.
	Append(ctx context.Context, article *types.Article) error

	// Articles returns the stored articles, newest first.
	Articles(ctx context.Context) ([]*types.Article, error)

	// ArticlesByCategory filters by category ID.
	ArticlesByCategory(ctx context.Context, categoryID string) ([]*types.Article, error)

	// ArticlesByTag filters by tag ID.
	ArticlesByTag(ctx context.Context, tagID string) ([]*types.Article, error)

	// FeaturedArticles returns articles flagged as featured.
	FeaturedArticles(ctx context.Context) ([]*types.Article, error)

	// Close releases backend resources.
	Close(ctx context.Context) error

	// Name returns the backend identifier.
	Name() string
}
