// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ranking reduces the accumulated doppelgänger matches to a justified
// top three. The language-service response format ("TOP-1: n" lines plus a
// justification) is a fragile contract, so selection degrades in steps:
// structured parse, then partial parse with backfill from original order,
// then a deterministic first-three fallback. The result set is never empty
// when matches exist, and a misbehaving ranking call never fails the
// pipeline.
package ranking

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sciencetwins/twin-engine/internal/ai"
	"github.com/sciencetwins/twin-engine/pkg/types"
)

// Fixed justifications for the degraded paths.
const (
	JustificationNone      = "No doppelgängers found."
	JustificationShortList = "Fewer than four doppelgängers found — all included in top."
	JustificationFailed    = "Ranking failed — top three doppelgängers selected by order."
	JustificationMissing   = "Automatic justification unavailable."
)

var (
	topLinePattern       = regexp.MustCompile(`TOP-\d+:\s*(\d+)`)
	justificationPattern = regexp.MustCompile(`(?is)Justification.*?:\s*(.+)`)
)

// TopThreeOf selects up to three entries. Entries carry 1-based IDs assigned
// in evaluation order; placements in the returned list are 1..len(Papers).
func TopThreeOf(ctx context.Context, svc ai.LanguageService, originalText string, entries []types.DoppelgangerEntry) types.TopThree {
	if len(entries) == 0 {
		return types.TopThree{Papers: []types.DoppelgangerEntry{}, Justification: JustificationNone}
	}
	if len(entries) <= 3 {
		return types.TopThree{Papers: withPlacements(entries), Justification: JustificationShortList}
	}

	raw, err := svc.RankDigest(ctx, originalText, Digest(entries))
	if err != nil {
		return types.TopThree{Papers: withPlacements(entries[:3]), Justification: JustificationFailed}
	}

	selected := ParseTopIndices(raw, len(entries))

	// Backfill remaining slots from the original order, skipping any
	// already selected.
	chosen := make(map[int]bool, len(selected))
	for _, idx := range selected {
		chosen[idx] = true
	}
	for idx := 0; idx < len(entries) && len(selected) < 3; idx++ {
		if !chosen[idx] {
			selected = append(selected, idx)
			chosen[idx] = true
		}
	}

	papers := make([]types.DoppelgangerEntry, 0, 3)
	for _, idx := range selected {
		papers = append(papers, entries[idx])
	}

	justification := ParseJustification(raw)
	if justification == "" {
		justification = JustificationMissing
	}
	return types.TopThree{Papers: withPlacements(papers), Justification: justification}
}

// Digest renders the numbered candidate list sent to the ranking call.
func Digest(entries []types.DoppelgangerEntry) string {
	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		lines = append(lines, fmt.Sprintf("%d. %s (%s)\n   Reason: %s", i+1, e.Title, e.Domain, e.Reason))
	}
	return strings.Join(lines, "\n\n")
}

// ParseTopIndices extracts up to three candidate indices from the "TOP-n: m"
// lines of a ranking response. Each line is parsed independently; indices are
// 1-based in the response and returned 0-based. Duplicate and out-of-range
// indices are ignored.
func ParseTopIndices(raw string, n int) []int {
	var indices []int
	seen := make(map[int]bool)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "TOP-") {
			continue
		}
		m := topLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		v, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		idx := v - 1
		if idx < 0 || idx >= n || seen[idx] {
			continue
		}
		indices = append(indices, idx)
		seen[idx] = true
		if len(indices) == 3 {
			break
		}
	}
	return indices
}

// ParseJustification extracts the free-text justification from a ranking
// response, or "" when none is present.
func ParseJustification(raw string) string {
	m := justificationPattern.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func withPlacements(entries []types.DoppelgangerEntry) []types.DoppelgangerEntry {
	out := make([]types.DoppelgangerEntry, len(entries))
	for i, e := range entries {
		e.Place = i + 1
		out[i] = e
	}
	return out
}
