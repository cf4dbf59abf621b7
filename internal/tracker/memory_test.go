package tracker

import (
	"context"
	"testing"
	"time"
)

func TestShouldSkipSourceUnknownSource(t *testing.T) {
	trk := NewMemoryTracker()
	skip, err := trk.ShouldSkipSource(context.Background(), "nieznane", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if skip {
		t.Error("unknown source must not be skipped")
	}
}

func TestShouldSkipSourceWithinInterval(t *testing.T) {
	trk := NewMemoryTracker()
	ctx := context.Background()

	if err := trk.Commit(ctx, "urzad", []string{"https://a/1"}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	skip, _ := trk.ShouldSkipSource(ctx, "urzad", time.Hour)
	if !skip {
		t.Error("source committed just now must be skipped within the interval")
	}

	skip, _ = trk.ShouldSkipSource(ctx, "urzad", time.Nanosecond)
	if skip {
		t.Error("source must not be skipped once the interval elapsed")
	}
}

func TestShouldSkipURLPerSource(t *testing.T) {
	trk := NewMemoryTracker()
	ctx := context.Background()

	trk.Commit(ctx, "urzad", []string{"https://a/1", "https://a/2"})

	skip, _ := trk.ShouldSkipURL(ctx, "urzad", "https://a/1")
	if !skip {
		t.Error("committed URL must be skipped")
	}

	skip, _ = trk.ShouldSkipURL(ctx, "urzad", "https://a/3")
	if skip {
		t.Error("unseen URL must not be skipped")
	}

	// URL sets are per source; another source never inherits them.
	skip, _ = trk.ShouldSkipURL(ctx, "kultura", "https://a/1")
	if skip {
		t.Error("other source must not inherit URL history")
	}
}

func TestCommitReplacesWholesale(t *testing.T) {
	trk := NewMemoryTracker()
	ctx := context.Background()

	trk.Commit(ctx, "urzad", []string{"https://a/1"})
	trk.Commit(ctx, "urzad", []string{"https://a/2"})

	skip, _ := trk.ShouldSkipURL(ctx, "urzad", "https://a/1")
	if skip {
		t.Error("commit must replace the URL set, not merge into it")
	}
	skip, _ = trk.ShouldSkipURL(ctx, "urzad", "https://a/2")
	if !skip {
		t.Error("latest committed URL must be skipped")
	}
}

func TestCommitCopiesInput(t *testing.T) {
	trk := NewMemoryTracker()
	ctx := context.Background()

	urls := []string{"https://a/1"}
	trk.Commit(ctx, "urzad", urls)
	urls[0] = "https://mutated"

	skip, _ := trk.ShouldSkipURL(ctx, "urzad", "https://a/1")
	if !skip {
		t.Error("tracker must keep its own copy of the committed URLs")
	}
}
