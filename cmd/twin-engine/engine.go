// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/sciencetwins/twin-engine/internal/abstract"
	"github.com/sciencetwins/twin-engine/internal/ai"
	"github.com/sciencetwins/twin-engine/internal/cache"
	"github.com/sciencetwins/twin-engine/internal/corpus"
	"github.com/sciencetwins/twin-engine/internal/history"
	"github.com/sciencetwins/twin-engine/internal/pipeline"
	"github.com/sciencetwins/twin-engine/internal/secrets"
	"github.com/sciencetwins/twin-engine/pkg/types"
)

// loadConfig overlays viper values on the pipeline defaults. Secrets fill in
// credentials not set through config or environment.
func loadConfig() (types.PipelineConfig, error) {
	cfg := types.DefaultPipelineConfig()

	if v := viper.GetFloat64("plagiarism_threshold"); v > 0 {
		cfg.PlagiarismThreshold = v
	}
	if v := viper.GetInt("max_concurrent"); v > 0 {
		cfg.MaxConcurrent = v
	}
	if v := viper.GetInt("max_input_chars"); v > 0 {
		cfg.MaxInputChars = v
	}
	if v := viper.GetString("ai.model"); v != "" {
		cfg.AI.Model = v
	}
	if v := viper.GetString("ai.embedding_model"); v != "" {
		cfg.AI.EmbeddingModel = v
	}
	if v := viper.GetInt("corpus.plagiarism_limit"); v > 0 {
		cfg.Corpus.PlagiarismLimit = v
	}
	if v := viper.GetInt("corpus.doppelganger_limit"); v > 0 {
		cfg.Corpus.DoppelgangerLimit = v
	}
	if v := viper.GetString("history.db_path"); v != "" {
		cfg.History.DBPath = v
	}

	cfg.AI.APIKey = secretDefault(secrets.KeyOpenAI, viper.GetString("ai.api_key"))
	if cfg.AI.APIKey == "" {
		return cfg, fmt.Errorf("OpenAI API key required: set ai.api_key in config or .secrets/%s", secrets.KeyOpenAI)
	}
	cfg.Corpus.Mailto = secretDefault(secrets.KeyCrossrefMailto, viper.GetString("corpus.mailto"))

	return cfg, nil
}

// buildEngine wires the full pipeline from configuration.
func buildEngine(cfg types.PipelineConfig) *pipeline.Engine {
	searcher := corpus.NewCrossref(cfg.Corpus, cache.New[[]types.Candidate](cache.DefaultTTL), os.Stderr)
	resolver := abstract.NewResolver(cfg.Fetch, cache.New[string](cache.DefaultTTL), os.Stderr)
	svc := ai.NewClient(cfg.AI)
	return pipeline.New(cfg, searcher, resolver, svc, os.Stderr)
}

// openHistory opens the run journal, or returns nil when journaling is
// disabled.
func openHistory(cfg types.PipelineConfig) *history.Store {
	if viper.GetBool("history.disabled") {
		return nil
	}
	store, err := history.NewStore(cfg.History)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: history unavailable: %v\n", err)
		return nil
	}
	return store
}
