package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/miastoportal/harvester/internal/types"
)

// MemoryStore holds articles in a capped in-memory slice. Nothing survives
// a process restart; that is the documented contract of this backend.
type MemoryStore struct {
	mu       sync.RWMutex
	articles []*types.Article
	cap      int
	logger   *slog.Logger
}

// NewMemoryStore creates an in-memory store capped at maxArticles.
func NewMemoryStore(maxArticles int, logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		cap:    maxArticles,
		logger: logger.With("component", "memory_store"),
	}
}

func (s *MemoryStore) Name() string { return "memory" }

// Append pushes the article, re-sorts the collection newest first, and
// truncates to the cap. Sorting on every insert is deliberate at this
// scale; a bounded priority structure only pays off well past the cap.
func (s *MemoryStore) Append(_ context.Context, article *types.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.articles = append(s.articles, article)
	sort.SliceStable(s.articles, func(i, j int) bool {
		return s.articles[i].Date.After(s.articles[j].Date)
	})
	if len(s.articles) > s.cap {
		evicted := len(s.articles) - s.cap
		s.articles = s.articles[:s.cap]
		s.logger.Debug("store cap reached, evicted oldest", "evicted", evicted)
	}
	return nil
}

// Articles returns the live collection, newest first.
func (s *MemoryStore) Articles(_ context.Context) ([]*types.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*types.Article(nil), s.articles...), nil
}

// ArticlesByCategory filters the live collection by category ID.
func (s *MemoryStore) ArticlesByCategory(_ context.Context, categoryID string) ([]*types.Article, error) {
	return s.filter(func(a *types.Article) bool {
		return a.CategoryID == categoryID
	}), nil
}

// ArticlesByTag filters the live collection by tag ID.
func (s *MemoryStore) ArticlesByTag(_ context.Context, tagID string) ([]*types.Article, error) {
	return s.filter(func(a *types.Article) bool {
		for _, id := range a.TagIDs {
			if id == tagID {
				return true
			}
		}
		return false
	}), nil
}

// FeaturedArticles returns articles flagged as featured.
func (s *MemoryStore) FeaturedArticles(_ context.Context) ([]*types.Article, error) {
	return s.filter(func(a *types.Article) bool {
		return a.Featured
	}), nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStore) Close(_ context.Context) error {
	return nil
}

func (s *MemoryStore) filter(keep func(*types.Article) bool) []*types.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*types.Article
	for _, a := range s.articles {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
