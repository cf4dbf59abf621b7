package extractor

import (
	"log/slog"
	"os"
	"testing"

	"github.com/miastoportal/harvester/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const listingHTML = `<!DOCTYPE html>
<html>
<body>
  <div class="news">
    <div class="item">
      <h2 class="title">Remont ulicy Głównej</h2>
      <p class="teaser">Rozpoczął się remont nawierzchni na odcinku od ronda do mostu.</p>
      <span class="date">15.05.2025</span>
      <a class="more" href="/aktualnosci/remont-ulicy">więcej</a>
      <img class="thumb" src="/img/remont.jpg">
    </div>
    <div class="item">
      <h2 class="title"></h2>
      <p class="teaser">Wpis bez tytułu, do odrzucenia.</p>
    </div>
    <div class="item">
      <h2 class="title">Festyn rodzinny w parku</h2>
      <p class="teaser">W sobotę odbędzie się festyn z atrakcjami dla dzieci.</p>
      <span class="date">20.05.2025 10:00</span>
      <a class="more" href="https://inne.example.com/festyn">więcej</a>
    </div>
  </div>
</body>
</html>`

var listingSelectors = types.SelectorSet{
	Articles: "div.item",
	Title:    "h2.title",
	Content:  "p.teaser",
	Date:     "span.date",
	Link:     "a.more",
	Image:    "img.thumb",
}

func TestExtractListing(t *testing.T) {
	e := New(testLogger)
	drafts, err := e.Extract([]byte(listingHTML), "https://um.example.pl/aktualnosci", listingSelectors)
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}

	// The middle candidate has no title and must be discarded.
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}

	first := drafts[0]
	if first.Title != "Remont ulicy Głównej" {
		t.Errorf("unexpected title %q", first.Title)
	}
	if first.RawDate != "15.05.2025" {
		t.Errorf("unexpected date %q", first.RawDate)
	}
	if first.LinkURL != "https://um.example.pl/aktualnosci/remont-ulicy" {
		t.Errorf("relative link not resolved: %q", first.LinkURL)
	}
	if first.ImageURL != "https://um.example.pl/img/remont.jpg" {
		t.Errorf("relative image not resolved: %q", first.ImageURL)
	}

	second := drafts[1]
	if second.Title != "Festyn rodzinny w parku" {
		t.Errorf("unexpected title %q", second.Title)
	}
	// Absolute links pass through untouched.
	if second.LinkURL != "https://inne.example.com/festyn" {
		t.Errorf("absolute link was rewritten: %q", second.LinkURL)
	}
	if second.ImageURL != "" {
		t.Errorf("expected empty image, got %q", second.ImageURL)
	}
}

func TestExtractXPathSelectors(t *testing.T) {
	e := New(testLogger)
	sel := types.SelectorSet{
		Articles: "xpath://div[@class='item']",
		Title:    "xpath:.//h2",
		Content:  "xpath:.//p",
		Date:     "xpath:.//span[@class='date']",
	}
	drafts, err := e.Extract([]byte(listingHTML), "https://um.example.pl/aktualnosci", sel)
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts via xpath, got %d", len(drafts))
	}
	if drafts[0].Title != "Remont ulicy Głównej" {
		t.Errorf("unexpected title %q", drafts[0].Title)
	}
}

func TestExtractNoMatchesIsSoftFailure(t *testing.T) {
	e := New(testLogger)
	drafts, err := e.Extract([]byte(listingHTML), "https://um.example.pl", types.SelectorSet{
		Articles: "div.nonexistent",
		Title:    "h2",
	})
	if err != nil {
		t.Fatalf("expected nil error for zero matches, got %v", err)
	}
	if len(drafts) != 0 {
		t.Fatalf("expected no drafts, got %d", len(drafts))
	}
}

func TestExtractDetail(t *testing.T) {
	detail := `<html><body>
	  <article class="full">Pełna treść artykułu o remoncie, znacznie dłuższa niż zajawka.</article>
	  <img class="hero" src="/img/hero.jpg">
	</body></html>`

	e := New(testLogger)
	content, imageURL, err := e.ExtractDetail([]byte(detail), "https://um.example.pl/aktualnosci/remont-ulicy", types.SelectorSet{
		Content: "article.full",
		Image:   "img.hero",
	})
	if err != nil {
		t.Fatalf("extract detail error: %v", err)
	}
	if content != "Pełna treść artykułu o remoncie, znacznie dłuższa niż zajawka." {
		t.Errorf("unexpected content %q", content)
	}
	if imageURL != "https://um.example.pl/img/hero.jpg" {
		t.Errorf("unexpected image %q", imageURL)
	}
}

func TestResolveURL(t *testing.T) {
	base := "https://um.example.pl/aktualnosci/"
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"https://example.com/a", "https://example.com/a"},
		{"http://example.com/a", "http://example.com/a"},
		{"/img/x.jpg", "https://um.example.pl/img/x.jpg"},
		{"strona.html", "https://um.example.pl/aktualnosci/strona.html"},
		{"  /spaced  ", "https://um.example.pl/spaced"},
	}
	for _, tc := range cases {
		if got := ResolveURL(tc.in, base); got != tc.want {
			t.Errorf("ResolveURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
