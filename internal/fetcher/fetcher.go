package fetcher

import (
	"context"
)

// Fetcher retrieves the rendered HTML of a page.
type Fetcher interface {
	// Fetch returns the page content at the given URL.
	Fetch(ctx context.Context, rawURL string) ([]byte, error)

	// Close releases any resources held by the fetcher.
	Close() error

	// Type returns the fetcher type identifier.
	Type() string
}
