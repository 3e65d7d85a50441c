package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sciencetwins/twin-engine/internal/ai"
	"github.com/sciencetwins/twin-engine/internal/history"
	"github.com/sciencetwins/twin-engine/internal/pipeline"
	"github.com/sciencetwins/twin-engine/pkg/types"
)

type staticSearcher struct {
	candidates []types.Candidate
}

func (s *staticSearcher) Search(_ context.Context, _ string, _ int) []types.Candidate {
	return s.candidates
}

type noopResolver struct{}

func (noopResolver) Resolve(_ context.Context, _ string) string { return "" }

func testServer(t *testing.T, candidates []types.Candidate, mock *ai.Mock, withHistory bool) *Server {
	t.Helper()
	engine := pipeline.New(types.DefaultPipelineConfig(), &staticSearcher{candidates: candidates}, noopResolver{}, mock, io.Discard)

	var store *history.Store
	if withHistory {
		var err error
		store, err = history.NewStore(types.HistoryConfig{DBPath: filepath.Join(t.TempDir(), "test.db")})
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { store.Close() })
	}
	return NewServer(engine, store, io.Discard)
}

func TestHealthz(t *testing.T) {
	srv := testServer(t, nil, &ai.Mock{}, false)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAnalyzePlagiarismJSON(t *testing.T) {
	candidates := []types.Candidate{
		{Title: "Match", URL: "https://example.org/m", Abstract: strings.Repeat("a", 120)},
	}
	mock := &ai.Mock{
		JudgeSimilarityFn: func(_ context.Context, _, _ string) (float64, error) { return 1, nil },
	}
	srv := testServer(t, candidates, mock, false)

	body := strings.NewReader(`{"mode": "plagiarism", "text": "input text"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Mode   string                 `json:"mode"`
		Result types.PlagiarismReport `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Mode != "plagiarism" {
		t.Errorf("mode = %q", resp.Mode)
	}
	if resp.Result.Type != types.OutcomePlagiarism {
		t.Errorf("result type = %q", resp.Result.Type)
	}
}

func TestAnalyzeDoppelgangerJSON(t *testing.T) {
	candidates := []types.Candidate{
		{Title: "Twin", URL: "https://example.org/t", Abstract: strings.Repeat("a", 150)},
	}
	mock := &ai.Mock{
		VerdictFn: func(_ context.Context, _, _ string) (types.DoppelgangerVerdict, error) {
			return types.DoppelgangerVerdict{IsMatch: true, Domain: "geology", Reason: "analogue"}, nil
		},
	}
	srv := testServer(t, candidates, mock, false)

	body := strings.NewReader(`{"mode": "doppelganger", "text": "input text"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Result types.DoppelgangerReport `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Result.Count != 1 {
		t.Errorf("count = %d, want 1", resp.Result.Count)
	}
}

func TestAnalyzeRejectsBadMode(t *testing.T) {
	srv := testServer(t, nil, &ai.Mock{}, false)

	body := strings.NewReader(`{"mode": "telepathy", "text": "x"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeRejectsMalformedJSON(t *testing.T) {
	srv := testServer(t, nil, &ai.Mock{}, false)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeMethodNotAllowed(t *testing.T) {
	srv := testServer(t, nil, &ai.Mock{}, false)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analyze", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	srv := testServer(t, nil, &ai.Mock{}, true)

	// An analyze run should appear in history afterwards.
	body := strings.NewReader(`{"mode": "plagiarism", "text": "input text"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history?mode=plagiarism", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	var resp struct {
		Runs []history.Run `json:"runs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(resp.Runs))
	}
	if resp.Runs[0].Mode != "plagiarism" {
		t.Errorf("mode = %q", resp.Runs[0].Mode)
	}
}

func TestHistoryDisabled(t *testing.T) {
	srv := testServer(t, nil, &ai.Mock{}, false)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHistoryBadLimit(t *testing.T) {
	srv := testServer(t, nil, &ai.Mock{}, true)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history?limit=nope", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
