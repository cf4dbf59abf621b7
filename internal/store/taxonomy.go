package store

import (
	"sync"

	"github.com/miastoportal/harvester/internal/types"
)

// Taxonomy holds the category registry and tag vocabulary. Both are static
// maps seeded at startup and separately updatable; removing an entry does
// not repair articles that still reference it.
type Taxonomy struct {
	mu         sync.RWMutex
	categories map[string]types.Category
	tags       map[string]types.Tag

	// insertion order, for stable listings
	categoryOrder []string
	tagOrder      []string
}

// DefaultTaxonomy returns the registry seeded with the portal's fixed
// category set and tag vocabulary.
func DefaultTaxonomy() *Taxonomy {
	t := &Taxonomy{
		categories: make(map[string]types.Category),
		tags:       make(map[string]types.Tag),
	}

	for _, c := range []types.Category{
		{ID: "wydarzenia", Name: "Wydarzenia"},
		{ID: "inwestycje", Name: "Inwestycje"},
		{ID: "kultura", Name: "Kultura"},
		{ID: "sport", Name: "Sport"},
		{ID: "edukacja", Name: "Edukacja"},
		{ID: "komunikaty", Name: "Komunikaty"},
		{ID: "inne", Name: "Inne"},
	} {
		t.UpsertCategory(c)
	}

	for _, tag := range []types.Tag{
		{ID: "miasto", Name: "Miasto"},
		{ID: "gmina", Name: "Gmina"},
		{ID: "mieszkancy", Name: "Mieszkańcy"},
		{ID: "remont", Name: "Remont"},
		{ID: "drogi", Name: "Drogi"},
		{ID: "oswiata", Name: "Oświata"},
		{ID: "zdrowie", Name: "Zdrowie"},
		{ID: "srodowisko", Name: "Środowisko"},
		{ID: "bezpieczenstwo", Name: "Bezpieczeństwo"},
		{ID: "finanse", Name: "Finanse"},
		{ID: "rekreacja", Name: "Rekreacja"},
		{ID: "seniorzy", Name: "Seniorzy"},
	} {
		t.UpsertTag(tag)
	}

	return t
}

// Categories lists the registry in insertion order.
func (t *Taxonomy) Categories() []types.Category {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]types.Category, 0, len(t.categoryOrder))
	for _, id := range t.categoryOrder {
		out = append(out, t.categories[id])
	}
	return out
}

// Tags lists the vocabulary in insertion order.
func (t *Taxonomy) Tags() []types.Tag {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]types.Tag, 0, len(t.tagOrder))
	for _, id := range t.tagOrder {
		out = append(out, t.tags[id])
	}
	return out
}

// CategoryIDs returns the closed category set for the enricher.
func (t *Taxonomy) CategoryIDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.categoryOrder...)
}

// TagIDs returns the closed tag set for the enricher.
func (t *Taxonomy) TagIDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.tagOrder...)
}

// HasCategory reports membership in the category registry.
func (t *Taxonomy) HasCategory(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.categories[id]
	return ok
}

// HasTag reports membership in the tag vocabulary.
func (t *Taxonomy) HasTag(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.tags[id]
	return ok
}

// UpsertCategory adds or replaces a category.
func (t *Taxonomy) UpsertCategory(c types.Category) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.categories[c.ID]; !exists {
		t.categoryOrder = append(t.categoryOrder, c.ID)
	}
	t.categories[c.ID] = c
}

// UpsertTag adds or replaces a tag.
func (t *Taxonomy) UpsertTag(tag types.Tag) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.tags[tag.ID]; !exists {
		t.tagOrder = append(t.tagOrder, tag.ID)
	}
	t.tags[tag.ID] = tag
}
