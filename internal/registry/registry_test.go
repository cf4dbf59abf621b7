package registry

import (
	"testing"
	"time"

	"github.com/miastoportal/harvester/internal/types"
)

func seedSources() []types.SourceConfig {
	return []types.SourceConfig{
		{Name: "Urząd Miasta", URL: "https://um.example.pl/aktualnosci", ScrapeInterval: time.Hour},
		{Name: "Centrum Kultury", URL: "https://ck.example.pl/wydarzenia", ScrapeInterval: 2 * time.Hour},
	}
}

func TestListPreservesOrder(t *testing.T) {
	r := New(seedSources())
	list := r.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(list))
	}
	if list[0].Name != "Urząd Miasta" || list[1].Name != "Centrum Kultury" {
		t.Errorf("seed order not preserved: %v", list)
	}
}

func TestGet(t *testing.T) {
	r := New(seedSources())

	src, ok := r.Get("Centrum Kultury")
	if !ok {
		t.Fatal("expected source to exist")
	}
	if src.URL != "https://ck.example.pl/wydarzenia" {
		t.Errorf("unexpected URL %q", src.URL)
	}

	if _, ok := r.Get("Nieistniejące"); ok {
		t.Error("expected miss for unknown name")
	}
}

func TestUpsertReplacesByName(t *testing.T) {
	r := New(seedSources())

	r.Upsert(types.SourceConfig{Name: "Urząd Miasta", URL: "https://um.example.pl/nowe", ScrapeInterval: time.Hour})

	list := r.List()
	if len(list) != 2 {
		t.Fatalf("upsert of existing name must not grow the registry, got %d", len(list))
	}
	if list[0].URL != "https://um.example.pl/nowe" {
		t.Errorf("expected replacement in place, got %q", list[0].URL)
	}
}

func TestUpsertAppendsNew(t *testing.T) {
	r := New(seedSources())

	r.Upsert(types.SourceConfig{Name: "Biblioteka", URL: "https://bib.example.pl", ScrapeInterval: time.Hour})

	list := r.List()
	if len(list) != 3 || list[2].Name != "Biblioteka" {
		t.Errorf("new source must append at the end: %v", list)
	}
}

func TestRemove(t *testing.T) {
	r := New(seedSources())

	if !r.Remove("Urząd Miasta") {
		t.Fatal("expected removal to succeed")
	}
	if r.Remove("Urząd Miasta") {
		t.Error("second removal must report missing")
	}

	list := r.List()
	if len(list) != 1 || list[0].Name != "Centrum Kultury" {
		t.Errorf("unexpected registry after removal: %v", list)
	}
}

func TestListReturnsCopy(t *testing.T) {
	r := New(seedSources())
	list := r.List()
	list[0].Name = "Zmutowane"

	if _, ok := r.Get("Zmutowane"); ok {
		t.Error("mutating the listed slice must not affect the registry")
	}
}
