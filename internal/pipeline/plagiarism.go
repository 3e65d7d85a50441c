// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/sciencetwins/twin-engine/pkg/types"
)

const fallbackMatchReason = "High semantic similarity in content."

// plagEval is one candidate's contribution to the aggregation: its combined
// score for max tracking, and a full report when it met the threshold.
type plagEval struct {
	score float64
	match *types.PlagiarismReport
}

// RunPlagiarismCheck looks for a published work substantially similar to
// text. Candidates are evaluated concurrently under the admission gate; the
// first qualifying result observed wins, in whatever order concurrent
// evaluations complete. Siblings already in flight at that point run to
// completion and are discarded rather than cancelled.
func (e *Engine) RunPlagiarismCheck(ctx context.Context, text string) types.PlagiarismReport {
	input := strings.TrimSpace(text)
	if input == "" {
		return types.PlagiarismReport{Type: types.OutcomeError, Message: "Input text is empty"}
	}

	summary, err := e.AI.Summarize(ctx, input)
	if err != nil || summary == "" {
		return types.PlagiarismReport{Type: types.OutcomeError, Message: "Failed to generate summary"}
	}

	query, err := e.AI.PlagiarismQuery(ctx, input)
	if err != nil || query == "" {
		return types.PlagiarismReport{Type: types.OutcomeError, Message: "Failed to generate search query"}
	}

	candidates := e.Corpus.Search(ctx, query, e.Config.Corpus.PlagiarismLimit)
	fmt.Fprintf(e.Log, "plagiarism check: %d candidates for query %q\n", len(candidates), query)

	sem := e.admission()
	results := make(chan plagEval, len(candidates))
	for _, c := range candidates {
		go func(c types.Candidate) {
			if err := sem.Acquire(ctx, 1); err != nil {
				results <- plagEval{}
				return
			}
			defer sem.Release(1)
			results <- e.evalPlagiarism(ctx, c, summary, input)
		}(c)
	}

	// The channel is buffered to the candidate count, so an early return
	// here never blocks the evaluations still in flight.
	maxScore := 0.0
	for range candidates {
		r := <-results
		if r.score > maxScore {
			maxScore = r.score
		}
		if r.match != nil {
			return *r.match
		}
	}

	return types.PlagiarismReport{
		Type:          types.OutcomeNoPlagiarism,
		Message:       "No significant plagiarism detected",
		MaxSimilarity: round3(maxScore),
	}
}

// evalPlagiarism scores one candidate against the input. Unresolvable
// abstracts and failed candidate summaries skip the candidate with a zero
// contribution.
func (e *Engine) evalPlagiarism(ctx context.Context, c types.Candidate, inputSummary, inputText string) plagEval {
	abstract := e.resolveAbstract(ctx, c, e.Config.PlagiarismMinAbstract)
	if abstract == "" {
		return plagEval{}
	}

	candidateSummary, err := e.AI.Summarize(ctx, abstract)
	if err != nil || candidateSummary == "" {
		return plagEval{}
	}

	sim := e.Scorer.Score(ctx, inputSummary, candidateSummary, inputText, abstract)
	if sim.Combined < e.Config.PlagiarismThreshold {
		return plagEval{score: sim.Combined}
	}

	reason, err := e.AI.ExplainMatch(ctx, inputSummary, candidateSummary)
	if err != nil || reason == "" {
		reason = fallbackMatchReason
	}

	return plagEval{
		score: sim.Combined,
		match: &types.PlagiarismReport{
			Type:            types.OutcomePlagiarism,
			URL:             c.URL,
			Title:           c.DisplayTitle(),
			Reason:          reason,
			Probability:     round3(sim.Combined),
			LLMSimilarity:   round3(sim.LLMSimilarity),
			LocalSimilarity: round3(sim.LocalSimilarity),
			MaxSimilarity:   round3(sim.Combined),
		},
	}
}
