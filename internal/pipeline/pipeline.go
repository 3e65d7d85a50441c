// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline orchestrates the two analysis modes: it synthesizes a
// search query from the input text, fans candidate documents out through
// abstract resolution and scoring under a bounded admission gate, and
// aggregates per the mode's policy: short-circuit first match for
// plagiarism, exhaustive accumulation for doppelgänger search.
//
// The pipeline never raises past its entry points: every invocation returns
// a typed report whose Type distinguishes success, "no match found," and
// error. Only an empty input or a failed query synthesis produces an error
// outcome; per-candidate failures degrade to skips or neutral scores.
package pipeline

import (
	"context"
	"io"
	"math"

	"golang.org/x/sync/semaphore"

	"github.com/sciencetwins/twin-engine/internal/ai"
	"github.com/sciencetwins/twin-engine/internal/corpus"
	"github.com/sciencetwins/twin-engine/internal/similarity"
	"github.com/sciencetwins/twin-engine/pkg/types"
)

// AbstractResolver obtains usable descriptive text for a candidate URL.
// A failure is an empty string, never an error.
type AbstractResolver interface {
	Resolve(ctx context.Context, url string) string
}

// Engine runs the similarity pipeline. All collaborators are injected so
// tests can substitute fakes.
type Engine struct {
	Corpus    corpus.Searcher
	Abstracts AbstractResolver
	AI        ai.LanguageService
	Scorer    *similarity.Scorer
	Config    types.PipelineConfig

	// Log receives progress notes and warnings.
	Log io.Writer
}

// New wires an engine from its collaborators. Progress notes go to w.
func New(cfg types.PipelineConfig, searcher corpus.Searcher, resolver AbstractResolver, svc ai.LanguageService, w io.Writer) *Engine {
	if w == nil {
		w = io.Discard
	}
	return &Engine{
		Corpus:    searcher,
		Abstracts: resolver,
		AI:        svc,
		Scorer:    similarity.NewScorer(svc, cfg.AI, w),
		Config:    cfg,
		Log:       w,
	}
}

// admission returns the semaphore gating concurrent candidate evaluations.
func (e *Engine) admission() *semaphore.Weighted {
	n := e.Config.MaxConcurrent
	if n <= 0 {
		n = 6
	}
	return semaphore.NewWeighted(int64(n))
}

// resolveAbstract returns the candidate's usable abstract for the given
// minimum length, fetching the landing page when the embedded abstract is
// absent or too short. An abstract still below the minimum after fetching
// drops the candidate (returns "").
func (e *Engine) resolveAbstract(ctx context.Context, c types.Candidate, minLen int) string {
	if len(c.Abstract) >= minLen && c.Abstract != "" {
		return c.Abstract
	}
	fetched := e.Abstracts.Resolve(ctx, c.URL)
	if len(fetched) < minLen || fetched == "" {
		return ""
	}
	return fetched
}

// round3 rounds scores to three decimals for reporting.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
