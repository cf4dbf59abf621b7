package enrich

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

// Designated substitutes when classification cannot place an article.
const (
	CategoryOther = "inne"
	TagDefault    = "miasto"
)

// plDatePattern matches the dd.mm.yyyy[ hh:mm] convention used by Polish
// municipal sites.
var plDatePattern = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})(?:\s+(\d{2}):(\d{2}))?$`)

// NormalizeDate converts a raw scraped date string into a time.Time.
// Attempts in order: ISO-8601, the Polish dd.mm.yyyy[ hh:mm] convention,
// then generic parsing. Malformed dates substitute the current time rather
// than rejecting the article; a bad timestamp must never block ingestion.
func NormalizeDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now()
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}

	if m := plDatePattern.FindStringSubmatch(raw); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		hour, minute := 0, 0
		if m[4] != "" {
			hour, _ = strconv.Atoi(m[4])
			minute, _ = strconv.Atoi(m[5])
		}
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local)
		}
	}

	if t, err := dateparse.ParseLocal(raw); err == nil {
		return t
	}

	return time.Now()
}

// Slugify derives a URL slug from a title: lowercase, non-word characters
// stripped, whitespace collapsed to single hyphens. Deterministic; slugs
// are not checked for uniqueness across articles.
func Slugify(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			b.WriteRune(r)
		}
	}

	slug := strings.Join(strings.Fields(b.String()), "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}

// FirstSentence returns the text up to and including the first period, or
// the whole trimmed text when no period exists.
func FirstSentence(content string) string {
	content = strings.TrimSpace(content)
	if idx := strings.Index(content, "."); idx >= 0 {
		return content[:idx+1]
	}
	return content
}

// ReadingTime estimates reading minutes at 200 words per minute, rounded up.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	return (words + 199) / 200
}
