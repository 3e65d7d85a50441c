// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes the analysis pipeline over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/sciencetwins/twin-engine/internal/history"
	"github.com/sciencetwins/twin-engine/internal/input"
	"github.com/sciencetwins/twin-engine/internal/pipeline"
)

const maxUploadBytes = 32 << 20

// Server serves analysis requests. History is optional; when nil, runs are
// not journaled.
type Server struct {
	Engine  *pipeline.Engine
	History *history.Store
	Log     io.Writer
}

// NewServer wires a server around an engine.
func NewServer(engine *pipeline.Engine, store *history.Store, w io.Writer) *Server {
	if w == nil {
		w = io.Discard
	}
	return &Server{Engine: engine, History: store, Log: w}
}

// Routes builds the handler tree.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/history", s.handleHistory)
	return withCORS(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleAnalyze accepts either a JSON body {"mode": ..., "text": ...} or a
// multipart form with a "mode" field and a PDF under "file".
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}

	mode, text, err := s.readAnalyzeRequest(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}

	text = input.Cap(text, s.Engine.Config.MaxInputChars)

	switch mode {
	case "plagiarism":
		report := s.Engine.RunPlagiarismCheck(r.Context(), text)
		if s.History != nil {
			if _, err := s.History.RecordPlagiarism(r.Context(), "", report); err != nil {
				fmt.Fprintf(s.Log, "warning: history record failed: %v\n", err)
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"mode": mode, "result": report})
	case "doppelganger":
		report := s.Engine.RunDoppelgangerSearch(r.Context(), text)
		if s.History != nil {
			if _, err := s.History.RecordDoppelganger(r.Context(), "", report); err != nil {
				fmt.Fprintf(s.Log, "warning: history record failed: %v\n", err)
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"mode": mode, "result": report})
	default:
		writeErr(w, http.StatusBadRequest, fmt.Errorf("mode must be plagiarism or doppelganger"))
	}
}

func (s *Server) readAnalyzeRequest(r *http.Request) (mode, text string, err error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return "", "", fmt.Errorf("parse multipart: %w", err)
		}
		mode = strings.TrimSpace(r.FormValue("mode"))

		file, header, err := r.FormFile("file")
		if err != nil {
			return "", "", fmt.Errorf("file is required")
		}
		defer file.Close()

		if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
			return "", "", fmt.Errorf("only PDF uploads are supported")
		}

		tmp, err := os.CreateTemp("", "twin-engine-*.pdf")
		if err != nil {
			return "", "", fmt.Errorf("create temp file: %w", err)
		}
		defer os.Remove(tmp.Name())
		if _, err := io.Copy(tmp, file); err != nil {
			tmp.Close()
			return "", "", fmt.Errorf("write upload: %w", err)
		}
		if err := tmp.Close(); err != nil {
			return "", "", err
		}

		text, err = input.FromPDF(tmp.Name())
		if err != nil {
			return "", "", err
		}
		return mode, text, nil
	}

	var req struct {
		Mode string `json:"mode"`
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", "", fmt.Errorf("invalid json: %w", err)
	}
	return strings.TrimSpace(req.Mode), req.Text, nil
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	if s.History == nil {
		writeErr(w, http.StatusNotFound, fmt.Errorf("history is not enabled"))
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	runs, err := s.History.Recent(r.Context(), r.URL.Query().Get("mode"), limit)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	if runs == nil {
		runs = []history.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]any{
		"error": map[string]any{"message": err.Error()},
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
