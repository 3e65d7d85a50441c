// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the twin-engine pipeline:
// corpus search candidates, similarity scores, doppelgänger verdicts, and the
// typed reports returned by the two analysis modes.
package types

// Candidate represents one document returned by the corpus search, before
// abstract resolution and scoring. Immutable after creation.
type Candidate struct {
	// Title is the document title. An empty title is normalized to
	// "Untitled" when the candidate enters a report.
	Title string `json:"title" yaml:"title"`

	// URL is the landing page for the document. May be empty, in which
	// case no abstract can be fetched for it.
	URL string `json:"url" yaml:"url"`

	// Abstract is the descriptive text embedded in the search response.
	// Often empty or truncated; the pipeline falls back to fetching the
	// page when it is below the mode's minimum length.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// DOI is the document identifier, when the corpus provides one.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`
}

// DisplayTitle returns the candidate title, or "Untitled" when empty.
func (c Candidate) DisplayTitle() string {
	if c.Title == "" {
		return "Untitled"
	}
	return c.Title
}

// SimilarityResult holds the two similarity signals for a candidate pair and
// their weighted blend. All three values are in [0, 1].
type SimilarityResult struct {
	// LLMSimilarity is the language-service judgment of the two summaries.
	LLMSimilarity float64 `json:"llm_similarity" yaml:"llm_similarity"`

	// LocalSimilarity is the embedding cosine over truncated text prefixes.
	LocalSimilarity float64 `json:"local_similarity" yaml:"local_similarity"`

	// Combined is clamp(0.7*llm + 0.3*local). The LLM judgment is weighted
	// higher; the embedding term adds stability against LLM noise.
	Combined float64 `json:"combined" yaml:"combined"`
}

// DoppelgangerVerdict is the language-service judgment for one candidate in
// doppelgänger mode. A malformed or under-length service response parses to
// the zero value (no match).
type DoppelgangerVerdict struct {
	IsMatch bool   `json:"is_match" yaml:"is_match"`
	Domain  string `json:"domain" yaml:"domain"`
	Reason  string `json:"reason" yaml:"reason"`
}
