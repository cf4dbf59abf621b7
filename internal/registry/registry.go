package registry

import (
	"sync"

	"github.com/miastoportal/harvester/internal/types"
)

// SourceRegistry holds the scrape source configurations, keyed by source
// name. Edits are in-memory only; a restart reverts to the seeded list.
// Registration order is preserved because the orchestrator processes
// sources in that order.
type SourceRegistry struct {
	mu      sync.RWMutex
	sources []types.SourceConfig
}

// New creates a registry seeded with the given sources.
func New(seed []types.SourceConfig) *SourceRegistry {
	return &SourceRegistry{
		sources: append([]types.SourceConfig(nil), seed...),
	}
}

// List returns the sources in registration order.
func (r *SourceRegistry) List() []types.SourceConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]types.SourceConfig(nil), r.sources...)
}

// Get looks up a source by name.
func (r *SourceRegistry) Get(name string) (types.SourceConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, src := range r.sources {
		if src.Name == name {
			return src, true
		}
	}
	return types.SourceConfig{}, false
}

// Upsert replaces the source with the same name, or appends a new one.
func (r *SourceRegistry) Upsert(src types.SourceConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.sources {
		if existing.Name == src.Name {
			r.sources[i] = src
			return
		}
	}
	r.sources = append(r.sources, src)
}

// Remove deletes a source by name. Returns false if no such source exists.
func (r *SourceRegistry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, src := range r.sources {
		if src.Name == name {
			r.sources = append(r.sources[:i], r.sources[i+1:]...)
			return true
		}
	}
	return false
}
