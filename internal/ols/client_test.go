package ols_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"tabbycat/internal/ols"
)

func termServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		switch {
		case strings.Contains(r.URL.Path, "/ncbitaxon/terms/"):
			json.NewEncoder(w).Encode(map[string]any{
				"label": "Mus musculus",
				"iri":   "http://purl.obolibrary.org/obo/NCBITaxon_10090",
				"obo_synonym": []any{
					map[string]any{
						"name":  "house mouse",
						"scope": "hasExactSynonym",
						"type":  "genbank common name",
					},
				},
			})
		case strings.Contains(r.URL.Path, "/uberon/terms/"):
			json.NewEncoder(w).Encode(map[string]any{
				"label": "brain",
				"iri":   "http://purl.obolibrary.org/obo/UBERON_0000955",
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestSpeciesLookup(t *testing.T) {
	server := termServer(t, nil)
	defer server.Close()

	client, err := ols.New(server.URL, "http://purl.obolibrary.org/obo/", 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result := client.Species("NCBITaxon:10090")
	species, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("result %T, want map", result)
	}
	if species["@type"] != "https://openminds.ebrains.eu/controlledTerms/Species" {
		t.Fatalf("@type %v", species["@type"])
	}
	if species["name"] != "Mus musculus" {
		t.Fatalf("name %v", species["name"])
	}
	if species["synonym"] != "house mouse" {
		t.Fatalf("synonym %v, genbank common name expected", species["synonym"])
	}
}

func TestParcellationLookup(t *testing.T) {
	server := termServer(t, nil)
	defer server.Close()

	client, err := ols.New(server.URL, "http://purl.obolibrary.org/obo/", 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result := client.Parcellation("UBERON:0000955")
	parcellation, ok := result.(map[string]any)
	if !ok {
		t.Fatalf("result %T, want map", result)
	}
	if parcellation["@type"] != "https://openminds.ebrains.eu/controlledTerms/UBERONParcellation" {
		t.Fatalf("@type %v", parcellation["@type"])
	}
	if parcellation["name"] != "brain" {
		t.Fatalf("name %v", parcellation["name"])
	}
}

func TestLookupFailuresReturnNil(t *testing.T) {
	server := termServer(t, nil)
	defer server.Close()

	client, err := ols.New(server.URL, "http://purl.obolibrary.org/obo/", 5)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := client.Species("UNKNOWN:1"); got != nil {
		t.Fatalf("unknown ontology should yield nil, got %v", got)
	}
	if got := client.Species("no-colon"); got != nil {
		t.Fatalf("malformed term should yield nil, got %v", got)
	}
}

func TestCacheAvoidsRepeatLookups(t *testing.T) {
	var hits atomic.Int64
	server := termServer(t, &hits)
	defer server.Close()

	cachePath := filepath.Join(t.TempDir(), "ols-cache.json")
	client, err := ols.New(server.URL, "http://purl.obolibrary.org/obo/", 5, ols.WithCacheFile(cachePath))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if client.Species("NCBITaxon:10090") == nil {
		t.Fatal("first lookup failed")
	}
	if client.Species("NCBITaxon:10090") == nil {
		t.Fatal("second lookup failed")
	}
	if hits.Load() != 1 {
		t.Fatalf("server hits %d, cache should absorb the repeat", hits.Load())
	}

	// A fresh client picks the cache up from disk.
	reloaded, err := ols.New(server.URL, "http://purl.obolibrary.org/obo/", 5, ols.WithCacheFile(cachePath))
	if err != nil {
		t.Fatalf("New reloaded: %v", err)
	}
	if reloaded.Species("NCBITaxon:10090") == nil {
		t.Fatal("cached lookup failed after reload")
	}
	if hits.Load() != 1 {
		t.Fatalf("server hits %d after reload, want 1", hits.Load())
	}
}
