// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ranking

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sciencetwins/twin-engine/internal/ai"
	"github.com/sciencetwins/twin-engine/pkg/types"
)

func makeEntries(n int) []types.DoppelgangerEntry {
	entries := make([]types.DoppelgangerEntry, n)
	for i := range entries {
		entries[i] = types.DoppelgangerEntry{
			ID:     i + 1,
			Title:  fmt.Sprintf("Paper %d", i+1),
			URL:    fmt.Sprintf("https://example.org/%d", i+1),
			Domain: "physics",
			Reason: "shared dynamics",
		}
	}
	return entries
}

func TestTopThreeEmpty(t *testing.T) {
	got := TopThreeOf(context.Background(), &ai.Mock{}, "original", nil)
	if len(got.Papers) != 0 {
		t.Errorf("len(Papers) = %d, want 0", len(got.Papers))
	}
	if got.Justification != JustificationNone {
		t.Errorf("Justification = %q", got.Justification)
	}
}

func TestTopThreeShortList(t *testing.T) {
	for n := 1; n <= 3; n++ {
		t.Run(fmt.Sprintf("size %d", n), func(t *testing.T) {
			ranked := false
			mock := &ai.Mock{RankDigestFn: func(_ context.Context, _, _ string) (string, error) {
				ranked = true
				return "", nil
			}}
			got := TopThreeOf(context.Background(), mock, "original", makeEntries(n))
			if ranked {
				t.Error("short list should not invoke the ranking call")
			}
			if len(got.Papers) != n {
				t.Fatalf("len(Papers) = %d, want %d", len(got.Papers), n)
			}
			for i, p := range got.Papers {
				if p.Place != i+1 {
					t.Errorf("Papers[%d].Place = %d, want %d", i, p.Place, i+1)
				}
				if p.ID != i+1 {
					t.Errorf("Papers[%d].ID = %d, want original order", i, p.ID)
				}
			}
			if got.Justification != JustificationShortList {
				t.Errorf("Justification = %q", got.Justification)
			}
		})
	}
}

func TestTopThreeStructuredParse(t *testing.T) {
	mock := &ai.Mock{RankDigestFn: func(_ context.Context, _, digest string) (string, error) {
		if digest == "" {
			t.Error("digest should not be empty")
		}
		return "TOP-1: 4\nTOP-2: 2\nTOP-3: 5\n\nJustification: These three share the deepest structure.", nil
	}}
	got := TopThreeOf(context.Background(), mock, "original", makeEntries(5))
	if len(got.Papers) != 3 {
		t.Fatalf("len(Papers) = %d, want 3", len(got.Papers))
	}
	wantIDs := []int{4, 2, 5}
	for i, p := range got.Papers {
		if p.ID != wantIDs[i] {
			t.Errorf("Papers[%d].ID = %d, want %d", i, p.ID, wantIDs[i])
		}
		if p.Place != i+1 {
			t.Errorf("Papers[%d].Place = %d, want %d", i, p.Place, i+1)
		}
	}
	if got.Justification != "These three share the deepest structure." {
		t.Errorf("Justification = %q", got.Justification)
	}
}

func TestTopThreePartialParseBackfills(t *testing.T) {
	// Only one valid index: duplicates and out-of-range entries are
	// ignored, remaining slots backfill from original order.
	mock := &ai.Mock{RankDigestFn: func(_ context.Context, _, _ string) (string, error) {
		return "TOP-1: 3\nTOP-2: 3\nTOP-3: 99", nil
	}}
	got := TopThreeOf(context.Background(), mock, "original", makeEntries(5))
	if len(got.Papers) != 3 {
		t.Fatalf("len(Papers) = %d, want 3", len(got.Papers))
	}
	wantIDs := []int{3, 1, 2}
	for i, p := range got.Papers {
		if p.ID != wantIDs[i] {
			t.Errorf("Papers[%d].ID = %d, want %d", i, p.ID, wantIDs[i])
		}
	}
	if got.Justification != JustificationMissing {
		t.Errorf("Justification = %q", got.Justification)
	}
}

func TestTopThreeRankCallFails(t *testing.T) {
	mock := &ai.Mock{RankDigestFn: func(_ context.Context, _, _ string) (string, error) {
		return "", fmt.Errorf("service down")
	}}
	got := TopThreeOf(context.Background(), mock, "original", makeEntries(4))
	if len(got.Papers) != 3 {
		t.Fatalf("len(Papers) = %d, want 3", len(got.Papers))
	}
	for i, p := range got.Papers {
		if p.ID != i+1 {
			t.Errorf("Papers[%d].ID = %d, want first three in order", i, p.ID)
		}
		if p.Place != i+1 {
			t.Errorf("Papers[%d].Place = %d, want %d", i, p.Place, i+1)
		}
	}
	if got.Justification != JustificationFailed {
		t.Errorf("Justification = %q, want %q", got.Justification, JustificationFailed)
	}
}

func TestTopThreeEntriesAreDistinct(t *testing.T) {
	mock := &ai.Mock{RankDigestFn: func(_ context.Context, _, _ string) (string, error) {
		return "garbage with no structure at all", nil
	}}
	got := TopThreeOf(context.Background(), mock, "original", makeEntries(6))
	if len(got.Papers) != 3 {
		t.Fatalf("len(Papers) = %d, want 3", len(got.Papers))
	}
	seen := make(map[int]bool)
	for _, p := range got.Papers {
		if seen[p.ID] {
			t.Errorf("duplicate entry ID %d in top three", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestParseTopIndices(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		n    int
		want []int
	}{
		{"all valid", "TOP-1: 2\nTOP-2: 1\nTOP-3: 3", 3, []int{1, 0, 2}},
		{"whitespace tolerated", "  TOP-1:   2  \nTOP-2: 1", 3, []int{1, 0}},
		{"duplicates ignored", "TOP-1: 1\nTOP-2: 1\nTOP-3: 2", 3, []int{0, 1}},
		{"out of range ignored", "TOP-1: 0\nTOP-2: 4\nTOP-3: 2", 3, []int{1}},
		{"non-top lines skipped", "Here are my picks:\nTOP-1: 3\nthanks", 3, []int{2}},
		{"empty", "", 3, nil},
		{"caps at three", "TOP-1: 1\nTOP-2: 2\nTOP-3: 3\nTOP-4: 4", 5, []int{0, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTopIndices(tt.raw, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseTopIndices() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseTopIndices() = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestParseJustification(t *testing.T) {
	raw := "TOP-1: 1\nTOP-2: 2\nTOP-3: 3\nJustification (2-3 sentences): Deep structural\nanalogy across fields."
	got := ParseJustification(raw)
	if !strings.Contains(got, "Deep structural") {
		t.Errorf("ParseJustification() = %q", got)
	}
	if ParseJustification("no structure here") != "" {
		t.Error("ParseJustification() should be empty without a Justification line")
	}
}
