// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package similarity

import (
	"context"
	"fmt"
	"io"
	"math"
	"testing"

	"github.com/sciencetwins/twin-engine/internal/ai"
	"github.com/sciencetwins/twin-engine/pkg/types"
)

func TestCombineBounds(t *testing.T) {
	// Combined equals the clamp of the weighted blend for any inputs in [0,1].
	values := []float64{0, 0.1, 0.25, 0.5, 0.73, 0.9, 1}
	for _, llm := range values {
		for _, local := range values {
			got := Combine(llm, local)
			want := 0.7*llm + 0.3*local
			if math.Abs(got.Combined-want) > 1e-12 {
				t.Errorf("Combine(%v, %v).Combined = %v, want %v", llm, local, got.Combined, want)
			}
			if got.Combined < 0 || got.Combined > 1 {
				t.Errorf("Combine(%v, %v).Combined = %v out of [0,1]", llm, local, got.Combined)
			}
		}
	}
}

func TestCombineClampsOverflow(t *testing.T) {
	if got := Combine(1.5, 1.5); got.Combined != 1 {
		t.Errorf("Combined = %v, want clamp to 1", got.Combined)
	}
	if got := Combine(-1, -1); got.Combined != 0 {
		t.Errorf("Combined = %v, want clamp to 0", got.Combined)
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"mismatched lengths", []float64{1, 2}, []float64{1, 2, 3}, 0},
		{"empty", nil, nil, 0},
		{"zero magnitude", []float64{0, 0}, []float64{1, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreBothSignals(t *testing.T) {
	mock := &ai.Mock{
		JudgeSimilarityFn: func(_ context.Context, _, _ string) (float64, error) {
			return 0.8, nil
		},
		EmbedFn: func(_ context.Context, text string) ([]float64, error) {
			return []float64{1, 0}, nil
		},
	}
	s := NewScorer(mock, types.DefaultPipelineConfig().AI, io.Discard)

	got := s.Score(context.Background(), "sum a", "sum b", "text a", "text b")
	if got.LLMSimilarity != 0.8 {
		t.Errorf("LLMSimilarity = %v, want 0.8", got.LLMSimilarity)
	}
	if got.LocalSimilarity != 1 {
		t.Errorf("LocalSimilarity = %v, want 1 (identical vectors)", got.LocalSimilarity)
	}
	want := 0.7*0.8 + 0.3*1
	if math.Abs(got.Combined-want) > 1e-12 {
		t.Errorf("Combined = %v, want %v", got.Combined, want)
	}
}

func TestScoreLLMFailureDegrades(t *testing.T) {
	mock := &ai.Mock{
		JudgeSimilarityFn: func(_ context.Context, _, _ string) (float64, error) {
			return 0, fmt.Errorf("service down")
		},
		EmbedFn: func(_ context.Context, _ string) ([]float64, error) {
			return []float64{1, 1}, nil
		},
	}
	s := NewScorer(mock, types.DefaultPipelineConfig().AI, io.Discard)

	got := s.Score(context.Background(), "a", "b", "ta", "tb")
	if got.LLMSimilarity != 0 {
		t.Errorf("LLMSimilarity = %v, want 0 on failure", got.LLMSimilarity)
	}
	if got.LocalSimilarity != 1 {
		t.Errorf("LocalSimilarity = %v, want 1", got.LocalSimilarity)
	}
	if math.Abs(got.Combined-0.3) > 1e-12 {
		t.Errorf("Combined = %v, want 0.3", got.Combined)
	}
}

func TestScoreEmbeddingFailureDegrades(t *testing.T) {
	mock := &ai.Mock{
		JudgeSimilarityFn: func(_ context.Context, _, _ string) (float64, error) {
			return 1, nil
		},
		EmbedFn: func(_ context.Context, _ string) ([]float64, error) {
			return nil, fmt.Errorf("embedding down")
		},
	}
	s := NewScorer(mock, types.DefaultPipelineConfig().AI, io.Discard)

	got := s.Score(context.Background(), "a", "b", "ta", "tb")
	if got.LocalSimilarity != 0 {
		t.Errorf("LocalSimilarity = %v, want 0 on failure", got.LocalSimilarity)
	}
	if math.Abs(got.Combined-0.7) > 1e-12 {
		t.Errorf("Combined = %v, want 0.7", got.Combined)
	}
}

func TestScoreTruncatesEmbeddingInput(t *testing.T) {
	var lens []int
	mock := &ai.Mock{
		JudgeSimilarityFn: func(_ context.Context, _, _ string) (float64, error) { return 0, nil },
		EmbedFn: func(_ context.Context, text string) ([]float64, error) {
			lens = append(lens, len(text))
			return []float64{1}, nil
		},
	}
	cfg := types.DefaultPipelineConfig().AI
	cfg.EmbedPrefixLimit = 10
	s := NewScorer(mock, cfg, io.Discard)

	long := make([]byte, 100)
	s.Score(context.Background(), "a", "b", string(long), string(long))
	for _, n := range lens {
		if n != 10 {
			t.Errorf("embedding input length = %d, want 10", n)
		}
	}
}
