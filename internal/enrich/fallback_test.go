package enrich

import (
	"context"
	"testing"
)

var (
	testCategories = []string{"wydarzenia", "inwestycje", "kultura", "sport", "edukacja", "komunikaty", "inne"}
	testTags       = []string{"miasto", "gmina", "mieszkancy", "remont", "drogi", "oswiata", "zdrowie", "srodowisko", "bezpieczenstwo", "finanse", "rekreacja", "seniorzy"}
)

func inSet(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func TestFallbackCategorizeStaysInVocabulary(t *testing.T) {
	f := NewFallbackEnricher(testCategories, testTags)
	for i := 0; i < 50; i++ {
		cat := f.Categorize(context.Background(), "Tytuł", "Treść artykułu")
		if !inSet(testCategories, cat) {
			t.Fatalf("category %q not in vocabulary", cat)
		}
	}
}

func TestFallbackTagsCountAndVocabulary(t *testing.T) {
	f := NewFallbackEnricher(testCategories, testTags)
	for i := 0; i < 50; i++ {
		tags := f.Tags(context.Background(), "Tytuł", "Treść")
		if len(tags) < 2 || len(tags) > 4 {
			t.Fatalf("expected 2-4 tags, got %d", len(tags))
		}
		seen := map[string]bool{}
		for _, tag := range tags {
			if !inSet(testTags, tag) {
				t.Fatalf("tag %q not in vocabulary", tag)
			}
			if seen[tag] {
				t.Fatalf("duplicate tag %q", tag)
			}
			seen[tag] = true
		}
	}
}

func TestFallbackSummarize(t *testing.T) {
	f := NewFallbackEnricher(testCategories, testTags)
	got := f.Summarize(context.Background(), "Rozpoczął się remont. Potrwa miesiąc.")
	if got != "Rozpoczął się remont." {
		t.Errorf("expected first sentence, got %q", got)
	}
}

func TestFallbackAnalyze(t *testing.T) {
	f := NewFallbackEnricher(testCategories, testTags)
	a := f.Analyze(context.Background(), "Wielka inwestycja drogowa zakończona", "słowo słowo słowo")

	if !inSet(sentiments, a.Sentiment) {
		t.Errorf("unexpected sentiment %q", a.Sentiment)
	}
	if a.ReadingTimeMinutes != 1 {
		t.Errorf("expected 1 minute for 3 words, got %d", a.ReadingTimeMinutes)
	}
	if a.RelevanceScore < 0.5 || a.RelevanceScore > 1.0 {
		t.Errorf("relevance %f outside [0.5, 1.0]", a.RelevanceScore)
	}
	if len(a.Keywords) == 0 || len(a.Keywords) > 5 {
		t.Errorf("expected 1-5 keywords, got %v", a.Keywords)
	}
	for _, kw := range a.Keywords {
		if len([]rune(kw)) < 5 {
			t.Errorf("keyword %q shorter than 5 runes", kw)
		}
	}
}

func TestNewSelectsFallbackWithoutCredential(t *testing.T) {
	e := New(testEnrichConfig(""), testCategories, testTags, testLogger)
	if _, ok := e.(*FallbackEnricher); !ok {
		t.Errorf("expected FallbackEnricher without credential, got %T", e)
	}

	e = New(testEnrichConfig("secret"), testCategories, testTags, testLogger)
	if _, ok := e.(*RemoteEnricher); !ok {
		t.Errorf("expected RemoteEnricher with credential, got %T", e)
	}
}
