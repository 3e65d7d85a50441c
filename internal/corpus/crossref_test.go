// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sciencetwins/twin-engine/internal/cache"
	"github.com/sciencetwins/twin-engine/internal/httputil"
	"github.com/sciencetwins/twin-engine/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = 1 * time.Millisecond
}

func testCorpusCfg() types.CorpusConfig {
	return types.CorpusConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   5 * time.Second,
			UserAgent: "twin-engine-test/0.1",
		},
		PlagiarismLimit:   100,
		DoppelgangerLimit: 50,
	}
}

func newTestAdapter() *CrossrefAdapter {
	return NewCrossref(testCorpusCfg(), cache.New[[]types.Candidate](time.Hour), io.Discard)
}

const sampleBody = `{"message":{"items":[
	{"title":["Senescence in Arabidopsis"],"URL":"https://example.org/a","abstract":"A long abstract about leaf senescence.","DOI":"10.1000/a"},
	{"URL":"https://example.org/b","DOI":"10.1000/b"}
]}}`

func TestSearchParsesCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("query.bibliographic"); got != "leaf senescence" {
			t.Errorf("query.bibliographic = %q", got)
		}
		if got := q.Get("rows"); got != "50" {
			t.Errorf("rows = %q, want 50", got)
		}
		fmt.Fprint(w, sampleBody)
	}))
	defer ts.Close()
	old := crossrefWorksBase
	crossrefWorksBase = ts.URL
	defer func() { crossrefWorksBase = old }()

	a := newTestAdapter()
	got := a.Search(context.Background(), "leaf senescence", 50)
	if len(got) != 2 {
		t.Fatalf("len(candidates) = %d, want 2", len(got))
	}
	if got[0].Title != "Senescence in Arabidopsis" || got[0].DOI != "10.1000/a" {
		t.Errorf("first candidate = %+v", got[0])
	}
	// Missing title stays empty on the candidate; normalization to
	// "Untitled" happens at report time.
	if got[1].Title != "" {
		t.Errorf("second candidate title = %q, want empty", got[1].Title)
	}
	if got[1].DisplayTitle() != "Untitled" {
		t.Errorf("DisplayTitle() = %q, want Untitled", got[1].DisplayTitle())
	}
}

func TestSearchCacheIdempotence(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, sampleBody)
	}))
	defer ts.Close()
	old := crossrefWorksBase
	crossrefWorksBase = ts.URL
	defer func() { crossrefWorksBase = old }()

	a := newTestAdapter()
	first := a.Search(context.Background(), "leaf senescence", 50)
	second := a.Search(context.Background(), "leaf senescence", 50)

	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("external calls = %d, want 1", calls)
	}
	if len(first) != len(second) {
		t.Fatalf("cached result differs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("candidate %d differs between calls", i)
		}
	}

	// A different limit is a different request signature.
	a.Search(context.Background(), "leaf senescence", 100)
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("external calls = %d after limit change, want 2", calls)
	}
}

func TestSearchRetriesOnceThenGivesUp(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()
	old := crossrefWorksBase
	crossrefWorksBase = ts.URL
	defer func() { crossrefWorksBase = old }()

	a := newTestAdapter()
	got := a.Search(context.Background(), "anything", 50)
	if got != nil {
		t.Errorf("Search() = %v, want nil on persistent failure", got)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("external calls = %d, want 2 (retry bound)", calls)
	}

	// Failures are not cached: a later call tries the network again.
	a.Search(context.Background(), "anything", 50)
	if atomic.LoadInt32(&calls) != 4 {
		t.Errorf("external calls = %d after second search, want 4", calls)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer ts.Close()
	old := crossrefWorksBase
	crossrefWorksBase = ts.URL
	defer func() { crossrefWorksBase = old }()

	a := newTestAdapter()
	if got := a.Search(context.Background(), "", 50); got != nil {
		t.Errorf("Search(empty) = %v, want nil", got)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("empty query made %d network calls", calls)
	}
}

func TestSearchMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "not json")
	}))
	defer ts.Close()
	old := crossrefWorksBase
	crossrefWorksBase = ts.URL
	defer func() { crossrefWorksBase = old }()

	a := newTestAdapter()
	if got := a.Search(context.Background(), "query", 50); got != nil {
		t.Errorf("Search() = %v on malformed body, want nil", got)
	}
}
