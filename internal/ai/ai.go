// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ai talks to the external language-understanding service. It exposes
// the capability calls the pipeline needs (summarization, query synthesis,
// pairwise similarity judgment, embeddings, doppelgänger verdicts, top-3
// ranking) behind a single interface so tests can supply a mock.
//
// Every call is timeout-bounded. Callers absorb errors into the neutral
// defaults their component specifies; nothing in this package is fatal to a
// pipeline invocation except query synthesis, and that decision belongs to
// the caller.
package ai

import (
	"context"

	"github.com/sciencetwins/twin-engine/pkg/types"
)

// LanguageService is the capability interface for the external
// language-understanding service.
type LanguageService interface {
	// Summarize condenses text into a short domain-specific summary.
	Summarize(ctx context.Context, text string) (string, error)

	// PlagiarismQuery synthesizes a literal-thematic bibliographic search
	// query from text.
	PlagiarismQuery(ctx context.Context, text string) (string, error)

	// DoppelgangerQuery synthesizes a conceptual-abstract search query
	// that captures the text's structural pattern rather than its terms.
	DoppelgangerQuery(ctx context.Context, text string) (string, error)

	// JudgeSimilarity rates the semantic similarity of two summaries,
	// returning a score in [0, 1].
	JudgeSimilarity(ctx context.Context, summaryA, summaryB string) (float64, error)

	// Embed produces a fixed-length numeric embedding vector for text.
	Embed(ctx context.Context, text string) ([]float64, error)

	// Verdict judges whether candidate shares deep conceptual structure
	// with original. Malformed service responses parse to a negative
	// verdict rather than an error.
	Verdict(ctx context.Context, original, candidate string) (types.DoppelgangerVerdict, error)

	// RankDigest asks the service to pick the top three entries from a
	// numbered candidate digest. The raw response text is returned; the
	// ranking package owns the tolerant parse.
	RankDigest(ctx context.Context, original, digest string) (string, error)

	// ExplainMatch produces a short justification for why two summaries
	// describe semantically similar work.
	ExplainMatch(ctx context.Context, summaryA, summaryB string) (string, error)
}

// truncate returns at most limit leading bytes of s. A non-positive limit
// leaves s unchanged.
func truncate(s string, limit int) string {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}
