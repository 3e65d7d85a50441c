package types

import "time"

// HTTPConfig holds shared HTTP settings used by adapters that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "twin-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CorpusConfig holds settings for the corpus search adapter.
type CorpusConfig struct {
	HTTPConfig `yaml:",inline"`

	// Mailto is sent with Crossref requests for polite pool access.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`

	// PlagiarismLimit is the result count requested in plagiarism mode (default 100).
	PlagiarismLimit int `json:"plagiarism_limit" yaml:"plagiarism_limit"`

	// DoppelgangerLimit is the result count requested in doppelgänger mode (default 50).
	DoppelgangerLimit int `json:"doppelganger_limit" yaml:"doppelganger_limit"`
}

// FetchConfig holds settings for the abstract retrieval adapter.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`
}

// AIConfig holds settings for the language-understanding service. The input
// limits are prefix truncations applied before each call kind; they keep
// requests within the service's input limits and bound cost. Their exact
// values are tuned, not derived, so they live here rather than in code.
type AIConfig struct {
	// Model is the chat model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// EmbeddingModel is the embedding model identifier (e.g. "text-embedding-3-small").
	EmbeddingModel string `json:"embedding_model" yaml:"embedding_model"`

	// APIKey authenticates calls to the service.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Timeout bounds each service call.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// SummaryInputLimit caps text passed to summary generation (default 3000).
	SummaryInputLimit int `json:"summary_input_limit" yaml:"summary_input_limit"`

	// QueryInputLimit caps text passed to plagiarism query synthesis (default 3000).
	QueryInputLimit int `json:"query_input_limit" yaml:"query_input_limit"`

	// ConceptQueryInputLimit caps text passed to doppelgänger query synthesis (default 2000).
	ConceptQueryInputLimit int `json:"concept_query_input_limit" yaml:"concept_query_input_limit"`

	// VerdictInputLimit caps each text passed to a doppelgänger verdict (default 1500).
	VerdictInputLimit int `json:"verdict_input_limit" yaml:"verdict_input_limit"`

	// EmbedInputLimit caps text sent for embedding (default 8191).
	EmbedInputLimit int `json:"embed_input_limit" yaml:"embed_input_limit"`

	// EmbedPrefixLimit caps the text prefix compared via embedding cosine (default 2000).
	EmbedPrefixLimit int `json:"embed_prefix_limit" yaml:"embed_prefix_limit"`

	// RankInputLimit caps the original text included in the ranking prompt (default 800).
	RankInputLimit int `json:"rank_input_limit" yaml:"rank_input_limit"`
}

// HistoryConfig holds settings for the analysis history journal.
type HistoryConfig struct {
	// DBPath is the SQLite database file (default "twin-engine.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults is the default maximum number of listed runs (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all settings for the similarity pipeline.
type PipelineConfig struct {
	// PlagiarismThreshold is the combined score at or above which a
	// candidate counts as plagiarism (default 0.5).
	PlagiarismThreshold float64 `json:"plagiarism_threshold" yaml:"plagiarism_threshold"`

	// PlagiarismMinAbstract is the minimum usable abstract length in
	// plagiarism mode (default 50).
	PlagiarismMinAbstract int `json:"plagiarism_min_abstract" yaml:"plagiarism_min_abstract"`

	// DoppelgangerMinAbstract is the minimum usable abstract length in
	// doppelgänger mode (default 100).
	DoppelgangerMinAbstract int `json:"doppelganger_min_abstract" yaml:"doppelganger_min_abstract"`

	// MaxConcurrent caps simultaneously in-flight candidate evaluations
	// (default 6).
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent"`

	// MaxInputChars caps text extracted from an uploaded PDF (default 5000).
	MaxInputChars int `json:"max_input_chars" yaml:"max_input_chars"`

	Corpus  CorpusConfig  `json:"corpus" yaml:"corpus"`
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	AI      AIConfig      `json:"ai" yaml:"ai"`
	History HistoryConfig `json:"history" yaml:"history"`
}

// DefaultPipelineConfig returns the pipeline configuration with all defaults
// applied. Callers overlay flag and config-file values on top.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		PlagiarismThreshold:     0.5,
		PlagiarismMinAbstract:   50,
		DoppelgangerMinAbstract: 100,
		MaxConcurrent:           6,
		MaxInputChars:           5000,
		Corpus: CorpusConfig{
			HTTPConfig:        HTTPConfig{Timeout: 15 * time.Second, UserAgent: "twin-engine/0.1"},
			PlagiarismLimit:   100,
			DoppelgangerLimit: 50,
		},
		Fetch: FetchConfig{
			HTTPConfig: HTTPConfig{Timeout: 10 * time.Second, UserAgent: "twin-engine/0.1"},
		},
		AI: AIConfig{
			Model:                  "gpt-4o-mini",
			EmbeddingModel:         "text-embedding-3-small",
			Timeout:                30 * time.Second,
			SummaryInputLimit:      3000,
			QueryInputLimit:        3000,
			ConceptQueryInputLimit: 2000,
			VerdictInputLimit:      1500,
			EmbedInputLimit:        8191,
			EmbedPrefixLimit:       2000,
			RankInputLimit:         800,
		},
		History: HistoryConfig{
			DBPath:     "twin-engine.db",
			MaxResults: 20,
		},
	}
}
