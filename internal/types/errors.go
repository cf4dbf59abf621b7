package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrSourceNotFound  = errors.New("source not found")
	ErrSkippedFresh    = errors.New("source scraped within its interval")
	ErrNoTitle         = errors.New("candidate has no title")
	ErrContentTooShort = errors.New("content below minimum length")
	ErrDuplicateURL    = errors.New("article URL seen in previous cycle")
	ErrEmptyResponse   = errors.New("empty response body")
	ErrInvalidURL      = errors.New("invalid URL")
)

// FetchError wraps errors that occur while retrieving a page.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
	Retryable  bool
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) IsRetryable() bool { return e.Retryable }

// ExtractError wraps errors that occur while applying selectors.
type ExtractError struct {
	URL      string
	Selector string
	Err      error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract error for %s (selector=%q): %v", e.URL, e.Selector, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// EnrichError wraps errors from an external enrichment call. The enricher
// substitutes fallback output instead of surfacing these to the orchestrator;
// they appear only in logs.
type EnrichError struct {
	Field string
	Err   error
}

func (e *EnrichError) Error() string {
	return fmt.Sprintf("enrich error (%s): %v", e.Field, e.Err)
}

func (e *EnrichError) Unwrap() error { return e.Err }
