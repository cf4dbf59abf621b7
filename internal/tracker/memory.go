package tracker

import (
	"context"
	"sync"
	"time"
)

// MemoryTracker keeps per-source records in a process-local map. Dedup
// state is lost on restart; use the redis backend when that matters.
type MemoryTracker struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryTracker creates an empty in-memory tracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{
		records: make(map[string]Record),
	}
}

func (t *MemoryTracker) ShouldSkipSource(_ context.Context, name string, interval time.Duration) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.records[name]
	if !ok {
		return false, nil
	}
	return time.Since(rec.Timestamp) < interval, nil
}

func (t *MemoryTracker) ShouldSkipURL(_ context.Context, name, url string) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.records[name]
	if !ok {
		return false, nil
	}
	// Linear containment; a source's cycle touches dozens of URLs at most.
	for _, seen := range rec.URLs {
		if seen == url {
			return true, nil
		}
	}
	return false, nil
}

func (t *MemoryTracker) Commit(_ context.Context, name string, urls []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records[name] = Record{
		Timestamp: time.Now(),
		URLs:      append([]string(nil), urls...),
	}
	return nil
}

func (t *MemoryTracker) Close() error {
	return nil
}
