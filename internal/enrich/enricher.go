package enrich

import (
	"context"
	"log/slog"

	"github.com/miastoportal/harvester/internal/config"
	"github.com/miastoportal/harvester/internal/types"
)

// Enricher derives the classification fields for a candidate article.
// Implementations never fail a candidate: every method substitutes its own
// fallback output when an external call degrades, independently of the
// other methods.
type Enricher interface {
	// Categorize assigns exactly one category from the fixed registry.
	Categorize(ctx context.Context, title, content string) string

	// Tags assigns 2-4 tags drawn from the fixed vocabulary.
	Tags(ctx context.Context, title, content string) []string

	// Summarize produces a 1-2 sentence synopsis of the content.
	Summarize(ctx context.Context, content string) string

	// Analyze derives sentiment, keywords, reading time and relevance.
	Analyze(ctx context.Context, title, content string) types.AIAnalysis
}

// New selects the enrichment strategy at construction time: remote when a
// credential is configured, the randomized fallback otherwise. Running
// without a credential is a supported demo mode, not a degraded error path.
func New(cfg config.EnrichConfig, categories, tags []string, logger *slog.Logger) Enricher {
	fallback := NewFallbackEnricher(categories, tags)
	if cfg.APIKey == "" {
		logger.Info("no enrichment credential configured, using fallback enricher")
		return fallback
	}
	return NewRemoteEnricher(NewLLMClient(cfg, logger), categories, tags, fallback, logger)
}
