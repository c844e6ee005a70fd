package ols

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Option configures the client.
type Option func(*Client)

// WithHTTPClient injects a custom HTTP client (primarily for tests).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// WithCacheFile enables a persistent JSON response cache at path.
func WithCacheFile(path string) Option {
	return func(c *Client) {
		c.cachePath = strings.TrimSpace(path)
	}
}

// Client looks up ontology terms in the EBI Ontology Lookup Service.
type Client struct {
	api       string
	iriPrefix string
	http      *http.Client

	cachePath string
	mu        sync.Mutex
	cache     map[string]json.RawMessage
}

// New constructs an OLS client. baseURL points at the ontologies API root.
func New(baseURL, iriPrefix string, timeoutSeconds int, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("ols base url required")
	}
	client := &Client{
		api:       baseURL,
		iriPrefix: strings.TrimSpace(iriPrefix),
		http:      &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cachePath != "" {
		client.loadCache()
	}
	return client, nil
}

// Species returns an OpenMINDS Species representation for a term such as
// NCBITaxon:10090, or nil when the lookup fails. A genbank common name that
// is an exact synonym is reported as the synonym.
func (c *Client) Species(term string) any {
	response := c.lookup(term)
	if response == nil {
		return nil
	}
	species := map[string]any{
		"@type":                       "https://openminds.ebrains.eu/controlledTerms/Species",
		"name":                        response["label"],
		"preferredOntologyIdentifier": response["iri"],
	}
	if synonym := genbankCommonName(response); synonym != "" {
		species["synonym"] = synonym
	}
	return species
}

// Parcellation returns an OpenMINDS UBERONParcellation representation for a
// term such as UBERON:0013702, or nil when the lookup fails.
func (c *Client) Parcellation(term string) any {
	response := c.lookup(term)
	if response == nil {
		return nil
	}
	return map[string]any{
		"@type":                       "https://openminds.ebrains.eu/controlledTerms/UBERONParcellation",
		"name":                        response["label"],
		"preferredOntologyIdentifier": response["iri"],
	}
}

// lookup queries the OLS term endpoint. The ontology name is the lowercased
// part before the colon; the IRI is formed by joining the prefix with the
// colon replaced by an underscore, then double-escaped as the API requires.
func (c *Client) lookup(term string) map[string]any {
	term = strings.TrimSpace(term)
	if term == "" || !strings.Contains(term, ":") {
		return nil
	}

	if raw, ok := c.cached(term); ok {
		var decoded map[string]any
		if err := json.Unmarshal(raw, &decoded); err == nil {
			return decoded
		}
	}

	ontology := strings.ToLower(term[:strings.Index(term, ":")])
	iri := c.iriPrefix + strings.ReplaceAll(term, ":", "_")
	escaped := url.QueryEscape(url.QueryEscape(iri))
	endpoint := fmt.Sprintf("%s/%s/terms/%s", c.api, ontology, escaped)

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil
	}
	c.store(term, body)
	return decoded
}

func genbankCommonName(response map[string]any) string {
	synonyms, _ := response["obo_synonym"].([]any)
	if single, ok := response["obo_synonym"].(map[string]any); ok {
		synonyms = []any{single}
	}
	for _, raw := range synonyms {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if entry["scope"] == "hasExactSynonym" && entry["type"] == "genbank common name" {
			if name, ok := entry["name"].(string); ok {
				return name
			}
		}
	}
	return ""
}

func (c *Client) cached(term string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.cache[term]
	return raw, ok
}

func (c *Client) store(term string, raw json.RawMessage) {
	if c.cachePath == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cache == nil {
		c.cache = map[string]json.RawMessage{}
	}
	c.cache[term] = raw
	c.flushCacheLocked()
}

func (c *Client) loadCache() {
	data, err := os.ReadFile(c.cachePath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return
		}
		return
	}
	var cache map[string]json.RawMessage
	if err := json.Unmarshal(data, &cache); err != nil {
		return
	}
	c.mu.Lock()
	c.cache = cache
	c.mu.Unlock()
}

func (c *Client) flushCacheLocked() {
	data, err := json.Marshal(c.cache)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.cachePath), 0o755); err != nil {
		return
	}
	_ = os.WriteFile(c.cachePath, data, 0o644)
}
