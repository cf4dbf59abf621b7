package tracker

import (
	"context"
	"time"
)

// Record is the dedup state for one source: when it was last scraped and
// every article URL seen in that cycle. Records are replaced wholesale on
// commit; only the single most recent run is remembered.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	URLs      []string  `json:"urls"`
}

// Tracker decides whether a source or an individual article URL should be
// skipped, based on the previous cycle's record.
type Tracker interface {
	// ShouldSkipSource is true iff the source was scraped within interval.
	ShouldSkipSource(ctx context.Context, name string, interval time.Duration) (bool, error)

	// ShouldSkipURL is true iff the URL appeared in the source's previous
	// cycle. URLs are tracked per source; no cross-source dedup exists.
	ShouldSkipURL(ctx context.Context, name, url string) (bool, error)

	// Commit replaces the source's record with the current time and the
	// full set of URLs touched this cycle, including skipped ones. Called
	// once per source per cycle.
	Commit(ctx context.Context, name string, urls []string) error

	// Close releases backend resources.
	Close() error
}
