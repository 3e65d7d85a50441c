// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sciencetwins/twin-engine/internal/ranking"
	"github.com/sciencetwins/twin-engine/pkg/types"
)

// RunDoppelgangerSearch enumerates published works that share deep conceptual
// structure with text across unrelated fields. Unlike plagiarism mode the
// aggregation is exhaustive: every candidate is evaluated, all positive
// verdicts are retained in evaluation order, and the accumulated set is then
// ranked to a top three.
func (e *Engine) RunDoppelgangerSearch(ctx context.Context, text string) types.DoppelgangerReport {
	input := strings.TrimSpace(text)
	if input == "" {
		return types.DoppelgangerReport{Type: types.OutcomeError, Message: "Input text is empty"}
	}

	query, err := e.AI.DoppelgangerQuery(ctx, input)
	if err != nil || query == "" {
		return types.DoppelgangerReport{Type: types.OutcomeError, Message: "Failed to generate interdisciplinary query"}
	}

	candidates := e.Corpus.Search(ctx, query, e.Config.Corpus.DoppelgangerLimit)
	fmt.Fprintf(e.Log, "doppelganger search: %d candidates for query %q\n", len(candidates), query)

	// Results are indexed by candidate position so the accumulated order is
	// the candidate order, not completion order.
	verdicts := make([]*types.DoppelgangerEntry, len(candidates))
	sem := e.admission()
	var wg sync.WaitGroup
	for i, c := range candidates {
		wg.Add(1)
		go func(i int, c types.Candidate) {
			defer wg.Done()
			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer sem.Release(1)
			verdicts[i] = e.evalDoppelganger(ctx, c, input)
		}(i, c)
	}
	wg.Wait()

	entries := make([]types.DoppelgangerEntry, 0, len(candidates))
	for _, v := range verdicts {
		if v == nil {
			continue
		}
		v.ID = len(entries) + 1
		entries = append(entries, *v)
	}

	return types.DoppelgangerReport{
		Type:     types.OutcomeDoppelganger,
		Count:    len(entries),
		All:      entries,
		TopThree: ranking.TopThreeOf(ctx, e.AI, input, entries),
	}
}

// evalDoppelganger judges one candidate. Unresolvable abstracts, failed
// service calls, and negative or malformed verdicts all yield nil.
func (e *Engine) evalDoppelganger(ctx context.Context, c types.Candidate, input string) *types.DoppelgangerEntry {
	abstract := e.resolveAbstract(ctx, c, e.Config.DoppelgangerMinAbstract)
	if abstract == "" {
		return nil
	}

	verdict, err := e.AI.Verdict(ctx, input, abstract)
	if err != nil || !verdict.IsMatch {
		return nil
	}

	return &types.DoppelgangerEntry{
		Title:  c.DisplayTitle(),
		URL:    c.URL,
		Domain: verdict.Domain,
		Reason: verdict.Reason,
	}
}
