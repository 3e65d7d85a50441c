// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"context"
	"strings"

	"github.com/sciencetwins/twin-engine/pkg/types"
)

// Mock implements LanguageService for tests. Each call delegates to the
// corresponding function field when set and otherwise returns a cheap
// deterministic default, so tests only wire the calls they care about.
type Mock struct {
	SummarizeFn         func(ctx context.Context, text string) (string, error)
	PlagiarismQueryFn   func(ctx context.Context, text string) (string, error)
	DoppelgangerQueryFn func(ctx context.Context, text string) (string, error)
	JudgeSimilarityFn   func(ctx context.Context, a, b string) (float64, error)
	EmbedFn             func(ctx context.Context, text string) ([]float64, error)
	VerdictFn           func(ctx context.Context, original, candidate string) (types.DoppelgangerVerdict, error)
	RankDigestFn        func(ctx context.Context, original, digest string) (string, error)
	ExplainMatchFn      func(ctx context.Context, a, b string) (string, error)
}

func (m *Mock) Summarize(ctx context.Context, text string) (string, error) {
	if m.SummarizeFn != nil {
		return m.SummarizeFn(ctx, text)
	}
	if len(text) > 40 {
		text = text[:40]
	}
	return "summary of: " + strings.TrimSpace(text), nil
}

func (m *Mock) PlagiarismQuery(ctx context.Context, text string) (string, error) {
	if m.PlagiarismQueryFn != nil {
		return m.PlagiarismQueryFn(ctx, text)
	}
	return "mock literal query", nil
}

func (m *Mock) DoppelgangerQuery(ctx context.Context, text string) (string, error) {
	if m.DoppelgangerQueryFn != nil {
		return m.DoppelgangerQueryFn(ctx, text)
	}
	return "mock conceptual query", nil
}

func (m *Mock) JudgeSimilarity(ctx context.Context, a, b string) (float64, error) {
	if m.JudgeSimilarityFn != nil {
		return m.JudgeSimilarityFn(ctx, a, b)
	}
	return 0, nil
}

func (m *Mock) Embed(ctx context.Context, text string) ([]float64, error) {
	if m.EmbedFn != nil {
		return m.EmbedFn(ctx, text)
	}
	return []float64{1, 0, 0}, nil
}

func (m *Mock) Verdict(ctx context.Context, original, candidate string) (types.DoppelgangerVerdict, error) {
	if m.VerdictFn != nil {
		return m.VerdictFn(ctx, original, candidate)
	}
	return types.DoppelgangerVerdict{}, nil
}

func (m *Mock) RankDigest(ctx context.Context, original, digest string) (string, error) {
	if m.RankDigestFn != nil {
		return m.RankDigestFn(ctx, original, digest)
	}
	return "", nil
}

func (m *Mock) ExplainMatch(ctx context.Context, a, b string) (string, error) {
	if m.ExplainMatchFn != nil {
		return m.ExplainMatchFn(ctx, a, b)
	}
	return "mock reason", nil
}

var _ LanguageService = (*Mock)(nil)
