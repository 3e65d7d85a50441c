// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus queries the external bibliographic index for candidate
// documents. The adapter absorbs every failure: a transport error, a non-2xx
// status, or an undecodable body all yield an empty candidate list, never an
// error past the adapter boundary.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sciencetwins/twin-engine/internal/cache"
	"github.com/sciencetwins/twin-engine/internal/httputil"
	"github.com/sciencetwins/twin-engine/pkg/types"
)

// crossrefWorksBase is the Crossref works search endpoint. Declared as a var
// so tests can substitute an httptest server.
var crossrefWorksBase = "https://api.crossref.org/works"

// maxAttempts bounds retries per logical search call.
const maxAttempts = 2

// Searcher is the corpus capability the orchestrator depends on.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) []types.Candidate
}

// CrossrefAdapter searches the Crossref bibliographic index with TTL caching
// and bounded retry.
type CrossrefAdapter struct {
	Client *http.Client
	Cache  *cache.TTL[[]types.Candidate]
	Config types.CorpusConfig

	// Log receives warnings about failed searches.
	Log io.Writer
}

// NewCrossref returns an adapter with an HTTP client bounded by cfg.Timeout.
// Warnings go to w.
func NewCrossref(cfg types.CorpusConfig, c *cache.TTL[[]types.Candidate], w io.Writer) *CrossrefAdapter {
	if w == nil {
		w = io.Discard
	}
	return &CrossrefAdapter{
		Client: &http.Client{Timeout: cfg.Timeout},
		Cache:  c,
		Config: cfg,
		Log:    w,
	}
}

// Search returns up to limit candidates for a bibliographic query. Identical
// (query, limit) pairs within the cache TTL reuse the cached candidate list
// without a network call. An empty query returns no candidates.
func (a *CrossrefAdapter) Search(ctx context.Context, query string, limit int) []types.Candidate {
	if query == "" {
		return nil
	}

	key := searchKey(query, limit)
	if cached, ok := a.Cache.Get(key); ok {
		return cached
	}

	params := url.Values{
		"query.bibliographic": {query},
		"rows":                {strconv.Itoa(limit)},
		"sort":                {"relevance"},
		"select":              {"title,URL,abstract,DOI"},
	}
	if a.Config.Mailto != "" {
		params.Set("mailto", a.Config.Mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, crossrefWorksBase+"?"+params.Encode(), nil)
	if err != nil {
		fmt.Fprintf(a.Log, "warning: corpus search request: %v\n", err)
		return nil
	}
	req.Header.Set("User-Agent", a.Config.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, maxAttempts)
	if err != nil {
		fmt.Fprintf(a.Log, "warning: corpus search failed for %q: %v\n", query, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(a.Log, "warning: corpus search returned HTTP %d for %q\n", resp.StatusCode, query)
		return nil
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		fmt.Fprintf(a.Log, "warning: parsing corpus search response: %v\n", err)
		return nil
	}

	candidates := make([]types.Candidate, 0, len(cr.Message.Items))
	for _, item := range cr.Message.Items {
		c := types.Candidate{
			URL:      item.URL,
			Abstract: item.Abstract,
			DOI:      item.DOI,
		}
		if len(item.Title) > 0 {
			c.Title = item.Title[0]
		}
		candidates = append(candidates, c)
	}

	a.Cache.Set(key, candidates)
	return candidates
}

func searchKey(query string, limit int) string {
	return fmt.Sprintf("crossref:%s:%d", query, limit)
}

// Crossref API JSON structures. Titles arrive as arrays; abstracts, when
// present, carry raw JATS markup which downstream length gates tolerate.
type crossrefResponse struct {
	Message crossrefMessage `json:"message"`
}

type crossrefMessage struct {
	Items []crossrefItem `json:"items"`
}

type crossrefItem struct {
	Title    []string `json:"title"`
	URL      string   `json:"URL"`
	Abstract string   `json:"abstract"`
	DOI      string   `json:"DOI"`
}
