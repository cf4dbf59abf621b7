package enrich

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/miastoportal/harvester/internal/config"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func testEnrichConfig(apiKey string) config.EnrichConfig {
	return config.EnrichConfig{
		Provider:          "custom",
		APIKey:            apiKey,
		Timeout:           5 * time.Second,
		RequestsPerSecond: 100,
		Burst:             10,
	}
}

// stubLLM serves a fixed response for the custom provider.
func stubLLM(t *testing.T, response string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func remoteWithStub(t *testing.T, response string) *RemoteEnricher {
	t.Helper()
	cfg := testEnrichConfig("secret")
	cfg.Endpoint = stubLLM(t, response).URL
	client := NewLLMClient(cfg, testLogger)
	fallback := NewFallbackEnricher(testCategories, testTags)
	return NewRemoteEnricher(client, testCategories, testTags, fallback, testLogger)
}

func remoteWithDeadEndpoint(t *testing.T) *RemoteEnricher {
	t.Helper()
	cfg := testEnrichConfig("secret")
	// Unroutable endpoint so every call fails fast.
	cfg.Endpoint = "http://127.0.0.1:1"
	cfg.Timeout = 200 * time.Millisecond
	client := NewLLMClient(cfg, testLogger)
	fallback := NewFallbackEnricher(testCategories, testTags)
	return NewRemoteEnricher(client, testCategories, testTags, fallback, testLogger)
}

func TestRemoteCategorizeAcceptsVocabularyAnswer(t *testing.T) {
	r := remoteWithStub(t, "sport")
	if got := r.Categorize(context.Background(), "Mecz", "Wynik meczu ligowego"); got != "sport" {
		t.Errorf("expected sport, got %q", got)
	}
}

func TestRemoteCategorizeSubstitutesOutOfVocabulary(t *testing.T) {
	r := remoteWithStub(t, "polityka")
	if got := r.Categorize(context.Background(), "Tytuł", "Treść"); got != CategoryOther {
		t.Errorf("expected %q for out-of-vocabulary answer, got %q", CategoryOther, got)
	}
}

func TestRemoteCategorizeFallsBackOnError(t *testing.T) {
	r := remoteWithDeadEndpoint(t)
	got := r.Categorize(context.Background(), "Tytuł", "Treść")
	if !inSet(testCategories, got) {
		t.Errorf("fallback category %q not in vocabulary", got)
	}
}

func TestRemoteTagsFiltersToVocabulary(t *testing.T) {
	r := remoteWithStub(t, "drogi, remont, autostrady, MIASTO")
	got := r.Tags(context.Background(), "Remont drogi", "Treść")
	want := []string{"drogi", "remont", "miasto"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestRemoteTagsSubstitutesDefaultWhenFiltered(t *testing.T) {
	r := remoteWithStub(t, "autostrady, lotniska")
	got := r.Tags(context.Background(), "Tytuł", "Treść")
	if len(got) != 1 || got[0] != TagDefault {
		t.Errorf("expected [%s], got %v", TagDefault, got)
	}
}

func TestRemoteSummarizeShortContentSkipsCall(t *testing.T) {
	r := remoteWithDeadEndpoint(t)
	got := r.Summarize(context.Background(), "Krótki tekst. Drugie zdanie.")
	if got != "Krótki tekst." {
		t.Errorf("expected first sentence for short content, got %q", got)
	}
}

func TestRemoteAnalyzeParsesJSON(t *testing.T) {
	r := remoteWithStub(t, `Oto analiza: {"sentiment":"positive","keywords":["remont","drogi"],"relevanceScore":0.8}`)
	a := r.Analyze(context.Background(), "Tytuł", "słowo słowo")
	if a.Sentiment != "positive" {
		t.Errorf("expected positive, got %q", a.Sentiment)
	}
	if a.RelevanceScore != 0.8 {
		t.Errorf("expected 0.8, got %f", a.RelevanceScore)
	}
	if a.ReadingTimeMinutes != 1 {
		t.Errorf("reading time must stay deterministic, got %d", a.ReadingTimeMinutes)
	}
}

func TestRemoteAnalyzeFallsBackOnGarbage(t *testing.T) {
	r := remoteWithStub(t, "I cannot analyze this article.")
	a := r.Analyze(context.Background(), "Tytuł artykułu testowego", "słowo słowo")
	if !inSet(sentiments, a.Sentiment) {
		t.Errorf("fallback sentiment %q invalid", a.Sentiment)
	}
	if a.ReadingTimeMinutes != 1 {
		t.Errorf("expected deterministic reading time, got %d", a.ReadingTimeMinutes)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{`prefix {"a":{"b":2}} suffix`, `{"a":{"b":2}}`},
		{`no json here`, `{}`},
		{`{"unterminated":`, `{}`},
	}
	for _, tc := range cases {
		if got := extractJSON(tc.in); got != tc.want {
			t.Errorf("extractJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
