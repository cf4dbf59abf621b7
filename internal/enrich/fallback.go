package enrich

import (
	"context"
	"math/rand"
	"strings"

	"github.com/miastoportal/harvester/internal/types"
)

var sentiments = []string{"positive", "neutral", "negative"}

// FallbackEnricher produces randomized/heuristic output without any external
// call. It backs the pipeline when no enrichment credential is configured
// and absorbs per-field failures of the remote enricher.
type FallbackEnricher struct {
	categories []string
	tags       []string
}

// NewFallbackEnricher creates a fallback enricher constrained to the given
// closed category and tag sets.
func NewFallbackEnricher(categories, tags []string) *FallbackEnricher {
	return &FallbackEnricher{
		categories: categories,
		tags:       tags,
	}
}

// Categorize picks a pseudo-random category from the fixed set.
func (f *FallbackEnricher) Categorize(_ context.Context, _, _ string) string {
	if len(f.categories) == 0 {
		return ""
	}
	return f.categories[rand.Intn(len(f.categories))]
}

// Tags picks 2-4 distinct pseudo-random tags from the vocabulary.
func (f *FallbackEnricher) Tags(_ context.Context, _, _ string) []string {
	if len(f.tags) == 0 {
		return nil
	}
	n := 2 + rand.Intn(3)
	if n > len(f.tags) {
		n = len(f.tags)
	}
	perm := rand.Perm(len(f.tags))
	out := make([]string, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, f.tags[idx])
	}
	return out
}

// Summarize takes the text up to the first period.
func (f *FallbackEnricher) Summarize(_ context.Context, content string) string {
	return FirstSentence(content)
}

// Analyze derives reading time deterministically and fills the remaining
// fields heuristically: keywords from the longest title words, sentiment
// and relevance pseudo-randomly.
func (f *FallbackEnricher) Analyze(_ context.Context, title, content string) types.AIAnalysis {
	return types.AIAnalysis{
		Sentiment:          sentiments[rand.Intn(len(sentiments))],
		Keywords:           titleKeywords(title),
		ReadingTimeMinutes: ReadingTime(content),
		RelevanceScore:     0.5 + rand.Float64()*0.5,
	}
}

// titleKeywords extracts up to five keywords from the title, skipping short
// words.
func titleKeywords(title string) []string {
	var out []string
	for _, w := range strings.Fields(title) {
		w = strings.Trim(strings.ToLower(w), ".,!?:;\"'()")
		if len([]rune(w)) < 5 {
			continue
		}
		out = append(out, w)
		if len(out) == 5 {
			break
		}
	}
	return out
}
