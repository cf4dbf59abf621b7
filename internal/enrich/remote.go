package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/miastoportal/harvester/internal/types"
)

// Input caps per enrichment call. Each call truncates independently so one
// oversized article body cannot blow the prompt budget of every field.
const (
	categorizeInputCap = 1500
	tagsInputCap       = 1500
	summarizeInputCap  = 3000
	analyzeInputCap    = 2000

	// summarizeThreshold is the content length above which summarization is
	// delegated externally; shorter content takes the first sentence.
	summarizeThreshold = 200
)

// RemoteEnricher classifies candidates through an LLM, constrained to the
// fixed category and tag sets. Every method degrades to the fallback
// enricher in isolation; a failed call is logged, never surfaced.
type RemoteEnricher struct {
	client      *LLMClient
	categories  []string
	categorySet map[string]bool
	tags        []string
	tagSet      map[string]bool
	fallback    *FallbackEnricher
	logger      *slog.Logger
}

// NewRemoteEnricher creates an LLM-backed enricher.
func NewRemoteEnricher(client *LLMClient, categories, tags []string, fallback *FallbackEnricher, logger *slog.Logger) *RemoteEnricher {
	categorySet := make(map[string]bool, len(categories))
	for _, c := range categories {
		categorySet[c] = true
	}
	tagSet := make(map[string]bool, len(tags))
	for _, t := range tags {
		tagSet[t] = true
	}

	return &RemoteEnricher{
		client:      client,
		categories:  categories,
		categorySet: categorySet,
		tags:        tags,
		tagSet:      tagSet,
		fallback:    fallback,
		logger:      logger.With("component", "remote_enricher"),
	}
}

// Categorize asks the LLM for exactly one category identifier. An
// out-of-vocabulary answer is substituted with the designated "other"
// category rather than failing.
func (r *RemoteEnricher) Categorize(ctx context.Context, title, content string) string {
	prompt := fmt.Sprintf(
		"Przypisz dokładnie jedną kategorię do poniższego artykułu. Odpowiedz tylko identyfikatorem kategorii, bez wyjaśnień.\nDozwolone kategorie: %s\n\nTytuł: %s\nTreść: %s",
		strings.Join(r.categories, ", "), title, truncate(content, categorizeInputCap),
	)

	resp, err := r.client.Generate(ctx, prompt)
	if err != nil {
		r.logger.Warn("categorization failed, using fallback", "error", &types.EnrichError{Field: "category", Err: err})
		return r.fallback.Categorize(ctx, title, content)
	}

	category := strings.ToLower(strings.TrimSpace(resp))
	if !r.categorySet[category] {
		return CategoryOther
	}
	return category
}

// Tags asks the LLM for 2-4 tags, filters out anything outside the
// vocabulary, and substitutes the default tag if filtering empties the set.
func (r *RemoteEnricher) Tags(ctx context.Context, title, content string) []string {
	prompt := fmt.Sprintf(
		"Wybierz od 2 do 4 tagów pasujących do artykułu. Odpowiedz tylko identyfikatorami tagów oddzielonymi przecinkami.\nDozwolone tagi: %s\n\nTytuł: %s\nTreść: %s",
		strings.Join(r.tags, ", "), title, truncate(content, tagsInputCap),
	)

	resp, err := r.client.Generate(ctx, prompt)
	if err != nil {
		r.logger.Warn("tag extraction failed, using fallback", "error", &types.EnrichError{Field: "tags", Err: err})
		return r.fallback.Tags(ctx, title, content)
	}

	var out []string
	for _, raw := range strings.Split(resp, ",") {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if r.tagSet[tag] && len(out) < 4 {
			out = append(out, tag)
		}
	}
	if len(out) == 0 {
		return []string{TagDefault}
	}
	return out
}

// Summarize requests a 1-2 sentence synopsis for long content and falls
// back to the first sentence otherwise, or on any failure.
func (r *RemoteEnricher) Summarize(ctx context.Context, content string) string {
	if len(content) <= summarizeThreshold {
		return FirstSentence(content)
	}

	prompt := fmt.Sprintf(
		"Streść poniższy tekst w 1-2 zdaniach po polsku:\n\n%s",
		truncate(content, summarizeInputCap),
	)

	resp, err := r.client.Generate(ctx, prompt)
	if err != nil {
		r.logger.Warn("summarization failed, using first sentence", "error", &types.EnrichError{Field: "summary", Err: err})
		return FirstSentence(content)
	}
	return strings.TrimSpace(resp)
}

// Analyze computes reading time deterministically and asks the LLM for the
// remaining signals, degrading per-field to the fallback.
func (r *RemoteEnricher) Analyze(ctx context.Context, title, content string) types.AIAnalysis {
	prompt := fmt.Sprintf(
		`Przeanalizuj poniższy artykuł. Odpowiedz obiektem JSON z kluczami:
- "sentiment": "positive", "neutral" lub "negative"
- "keywords": tablica 3-5 słów kluczowych
- "relevanceScore": liczba od 0.0 do 1.0 określająca istotność dla mieszkańców miasta

Tytuł: %s
Treść: %s`, title, truncate(content, analyzeInputCap),
	)

	resp, err := r.client.Generate(ctx, prompt)
	if err != nil {
		r.logger.Warn("analysis failed, using fallback", "error", &types.EnrichError{Field: "analysis", Err: err})
		return r.fallback.Analyze(ctx, title, content)
	}

	var parsed struct {
		Sentiment      string   `json:"sentiment"`
		Keywords       []string `json:"keywords"`
		RelevanceScore float64  `json:"relevanceScore"`
	}
	if err := json.Unmarshal([]byte(extractJSON(resp)), &parsed); err != nil || parsed.Sentiment == "" {
		r.logger.Warn("analysis response unparseable, using fallback", "error", err)
		return r.fallback.Analyze(ctx, title, content)
	}

	return types.AIAnalysis{
		Sentiment:          parsed.Sentiment,
		Keywords:           parsed.Keywords,
		ReadingTimeMinutes: ReadingTime(content),
		RelevanceScore:     parsed.RelevanceScore,
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
