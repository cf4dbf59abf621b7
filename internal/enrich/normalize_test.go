package enrich

import (
	"testing"
	"time"
)

func TestNormalizeDatePolishFormat(t *testing.T) {
	got := NormalizeDate("15.05.2025 14:30")
	want := time.Date(2025, 5, 15, 14, 30, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	got = NormalizeDate("01.12.2024")
	want = time.Date(2024, 12, 1, 0, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestNormalizeDateISO(t *testing.T) {
	got := NormalizeDate("2025-05-15")
	if got.Year() != 2025 || got.Month() != time.May || got.Day() != 15 {
		t.Errorf("expected 2025-05-15, got %v", got)
	}

	got = NormalizeDate("2025-05-15T14:30:00Z")
	if got.Hour() != 14 || got.Minute() != 30 {
		t.Errorf("expected 14:30, got %v", got)
	}
}

func TestNormalizeDateFallsBackToNow(t *testing.T) {
	before := time.Now()
	got := NormalizeDate("not-a-date")
	after := time.Now()
	if got.Before(before) || got.After(after) {
		t.Errorf("expected current time for garbage input, got %v", got)
	}

	got = NormalizeDate("")
	if got.Before(before) {
		t.Errorf("expected current time for empty input, got %v", got)
	}

	// Out-of-range day must not produce a rolled-over date.
	got = NormalizeDate("32.13.2025")
	if got.Before(before) {
		t.Errorf("expected current time for out-of-range date, got %v", got)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Nowa inwestycja w centrum miasta!", "nowa-inwestycja-w-centrum-miasta"},
		{"Hello, World", "hello-world"},
		{"  spaced   out  ", "spaced-out"},
		{"already-slugged", "already-slugged"},
		{"100% wazne!!!", "100-wazne"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSlugifyIsDeterministic(t *testing.T) {
	a := Slugify("Remont ulicy Głównej rozpoczęty")
	b := Slugify("Remont ulicy Głównej rozpoczęty")
	if a != b {
		t.Errorf("same title produced different slugs: %q vs %q", a, b)
	}
	if a == "" {
		t.Error("expected non-empty slug")
	}
}

func TestFirstSentence(t *testing.T) {
	got := FirstSentence("Pierwsze zdanie. Drugie zdanie. Trzecie.")
	if got != "Pierwsze zdanie." {
		t.Errorf("expected first sentence, got %q", got)
	}

	got = FirstSentence("No terminator here")
	if got != "No terminator here" {
		t.Errorf("expected whole text without a period, got %q", got)
	}
}

func TestReadingTime(t *testing.T) {
	cases := []struct {
		words int
		want  int
	}{
		{1, 1},
		{200, 1},
		{201, 2},
		{400, 2},
		{401, 3},
	}
	for _, tc := range cases {
		content := ""
		for i := 0; i < tc.words; i++ {
			content += "słowo "
		}
		if got := ReadingTime(content); got != tc.want {
			t.Errorf("ReadingTime(%d words) = %d, want %d", tc.words, got, tc.want)
		}
	}
}
