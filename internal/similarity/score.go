// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package similarity produces a bounded combined similarity score for a
// candidate pair from two independently-failing signals: an LLM judgment of
// two condensed summaries and an embedding cosine computed locally from two
// independently-obtained vectors. A failed signal contributes 0.0 to its term
// instead of aborting the candidate.
package similarity

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/sciencetwins/twin-engine/internal/ai"
	"github.com/sciencetwins/twin-engine/pkg/types"
)

// Signal weights. The two must sum to 1 so the combined score stays in [0, 1].
const (
	llmWeight   = 0.7
	localWeight = 0.3
)

// Scorer scores candidate pairs through the language service.
type Scorer struct {
	AI     ai.LanguageService
	Config types.AIConfig

	// Log receives notes about degraded sub-signals.
	Log io.Writer
}

// NewScorer returns a scorer writing degradation notes to w.
func NewScorer(svc ai.LanguageService, cfg types.AIConfig, w io.Writer) *Scorer {
	if w == nil {
		w = io.Discard
	}
	return &Scorer{AI: svc, Config: cfg, Log: w}
}

// Score produces the combined similarity for a pair. summaryA and summaryB
// feed the LLM judgment; textA and textB are truncated to the configured
// embedding prefix and compared by cosine. Either signal failing degrades to
// 0.0 for its term.
func (s *Scorer) Score(ctx context.Context, summaryA, summaryB, textA, textB string) types.SimilarityResult {
	llm, err := s.AI.JudgeSimilarity(ctx, summaryA, summaryB)
	if err != nil {
		fmt.Fprintf(s.Log, "llm similarity degraded to 0: %v\n", err)
		llm = 0
	}

	local := s.embeddingSimilarity(ctx, prefix(textA, s.Config.EmbedPrefixLimit), prefix(textB, s.Config.EmbedPrefixLimit))

	return Combine(llm, local)
}

// embeddingSimilarity obtains the two vectors and returns their cosine
// clamped to [0, 1]. Either embedding call failing yields 0.
func (s *Scorer) embeddingSimilarity(ctx context.Context, a, b string) float64 {
	ea, err := s.AI.Embed(ctx, a)
	if err != nil {
		fmt.Fprintf(s.Log, "embedding degraded to 0: %v\n", err)
		return 0
	}
	eb, err := s.AI.Embed(ctx, b)
	if err != nil {
		fmt.Fprintf(s.Log, "embedding degraded to 0: %v\n", err)
		return 0
	}
	return clamp01(Cosine(ea, eb))
}

// Combine blends the two signals into a SimilarityResult with the combined
// score clamped to [0, 1].
func Combine(llm, local float64) types.SimilarityResult {
	return types.SimilarityResult{
		LLMSimilarity:   llm,
		LocalSimilarity: local,
		Combined:        clamp01(llmWeight*llm + localWeight*local),
	}
}

// Cosine returns the cosine similarity of two vectors. Mismatched lengths,
// empty vectors, and zero-magnitude vectors all yield 0.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func prefix(s string, limit int) string {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
