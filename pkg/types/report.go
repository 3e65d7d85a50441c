// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OutcomeType distinguishes the result kinds a pipeline invocation can
// produce. Every invocation returns exactly one of these; errors are carried
// in the report, never raised past the pipeline entry points.
type OutcomeType string

const (
	OutcomePlagiarism   OutcomeType = "plagiarism"
	OutcomeNoPlagiarism OutcomeType = "no_plagiarism"
	OutcomeDoppelganger OutcomeType = "doppelganger"
	OutcomeError        OutcomeType = "error"
)

// PlagiarismReport is the outcome of a plagiarism check. Field presence
// follows Type: a "plagiarism" report carries the matched document and its
// scores, a "no_plagiarism" report carries Message and MaxSimilarity, and an
// "error" report carries only Message.
type PlagiarismReport struct {
	Type OutcomeType `json:"type" yaml:"type"`

	// Matched document, set when Type is "plagiarism".
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
	Title  string `json:"title,omitempty" yaml:"title,omitempty"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`

	// Probability is the combined similarity score of the match.
	Probability     float64 `json:"probability,omitempty" yaml:"probability,omitempty"`
	LLMSimilarity   float64 `json:"llm_similarity,omitempty" yaml:"llm_similarity,omitempty"`
	LocalSimilarity float64 `json:"local_similarity,omitempty" yaml:"local_similarity,omitempty"`

	// Message describes a "no_plagiarism" or "error" outcome.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// MaxSimilarity is the highest combined score observed across all
	// evaluated candidates. Reported on "no_plagiarism" outcomes so a
	// near-miss is visible.
	MaxSimilarity float64 `json:"max_similarity_encountered" yaml:"max_similarity_encountered"`
}

// DoppelgangerEntry is one matched candidate in a doppelgänger report.
// ID is the 1-based position in the accumulated match list; Place is set
// only for entries in the top-3 selection.
type DoppelgangerEntry struct {
	ID     int    `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	URL    string `json:"url" yaml:"url"`
	Domain string `json:"domain" yaml:"domain"`
	Reason string `json:"reason" yaml:"reason"`
	Place  int    `json:"place,omitempty" yaml:"place,omitempty"`
}

// TopThree is the ranked subset of a doppelgänger report. Papers holds at
// most three entries with placements 1..len(Papers).
type TopThree struct {
	Papers        []DoppelgangerEntry `json:"papers" yaml:"papers"`
	Justification string              `json:"justification" yaml:"justification"`
}

// DoppelgangerReport is the outcome of a doppelgänger search.
type DoppelgangerReport struct {
	Type  OutcomeType `json:"type" yaml:"type"`
	Count int         `json:"count" yaml:"count"`

	// All lists every positively-verdicted candidate in evaluation order.
	All []DoppelgangerEntry `json:"all_doppelgangers_with_reasons" yaml:"all_doppelgangers_with_reasons"`

	TopThree TopThree `json:"top_3" yaml:"top_3"`

	// Message describes an "error" outcome.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}
