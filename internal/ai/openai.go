// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sciencetwins/twin-engine/pkg/types"
)

// API endpoints. Declared as vars so tests can substitute httptest servers.
var (
	chatCompletionsBase = "https://api.openai.com/v1/chat/completions"
	embeddingsBase      = "https://api.openai.com/v1/embeddings"
)

// Client implements LanguageService against an OpenAI-compatible REST API.
type Client struct {
	HTTP *http.Client
	cfg  types.AIConfig
}

// NewClient returns a client whose HTTP timeout is cfg.Timeout.
func NewClient(cfg types.AIConfig) *Client {
	return &Client{
		HTTP: &http.Client{Timeout: cfg.Timeout},
		cfg:  cfg,
	}
}

// Summarize condenses text into a 2-3 sentence scientific summary.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	return c.chat(ctx, summaryPrompt(truncate(text, c.cfg.SummaryInputLimit)), 150, 0.3, false)
}

// PlagiarismQuery synthesizes a literal-thematic bibliographic query.
func (c *Client) PlagiarismQuery(ctx context.Context, text string) (string, error) {
	raw, err := c.chat(ctx, plagiarismQueryPrompt(truncate(text, c.cfg.QueryInputLimit)), 80, 0.3, false)
	if err != nil {
		return "", err
	}
	return sanitizeQuery(raw), nil
}

// DoppelgangerQuery synthesizes a conceptual-abstract query.
func (c *Client) DoppelgangerQuery(ctx context.Context, text string) (string, error) {
	raw, err := c.chat(ctx, doppelgangerQueryPrompt(truncate(text, c.cfg.ConceptQueryInputLimit)), 80, 0.3, false)
	if err != nil {
		return "", err
	}
	return sanitizeQuery(raw), nil
}

// JudgeSimilarity rates two summaries. The service answers with a JSON object
// {"score": x}; anything else is an error for the caller to absorb.
func (c *Client) JudgeSimilarity(ctx context.Context, summaryA, summaryB string) (float64, error) {
	raw, err := c.chat(ctx, similarityPrompt(summaryA, summaryB), 20, 0.0, true)
	if err != nil {
		return 0, err
	}
	var parsed struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return 0, fmt.Errorf("parsing similarity score: %w", err)
	}
	return clamp01(parsed.Score), nil
}

// Embed produces an embedding vector for text, truncated to the configured
// input limit.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	payload, err := json.Marshal(map[string]any{
		"model": c.cfg.EmbeddingModel,
		"input": truncate(text, c.cfg.EmbedInputLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding embedding request: %w", err)
	}

	body, err := c.post(ctx, embeddingsBase, payload)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding embedding response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("embedding response carried no data")
	}
	return parsed.Data[0].Embedding, nil
}

// Verdict asks for the three-line doppelgänger judgment and parses it.
func (c *Client) Verdict(ctx context.Context, original, candidate string) (types.DoppelgangerVerdict, error) {
	limit := c.cfg.VerdictInputLimit
	raw, err := c.chat(ctx, verdictPrompt(truncate(original, limit), truncate(candidate, limit)), 120, 0.2, false)
	if err != nil {
		return types.DoppelgangerVerdict{}, err
	}
	return ParseVerdict(raw), nil
}

// RankDigest asks the service to select the top three candidates from digest.
func (c *Client) RankDigest(ctx context.Context, original, digest string) (string, error) {
	return c.chat(ctx, rankPrompt(truncate(original, c.cfg.RankInputLimit), digest), 200, 0.3, false)
}

// ExplainMatch produces a 1-2 sentence justification for a plagiarism hit.
func (c *Client) ExplainMatch(ctx context.Context, summaryA, summaryB string) (string, error) {
	return c.chat(ctx, reasonPrompt(summaryA, summaryB), 100, 0.3, false)
}

// chat performs a single chat-completion call and returns the trimmed
// assistant message.
func (c *Client) chat(ctx context.Context, prompt string, maxTokens int, temperature float64, jsonMode bool) (string, error) {
	reqBody := map[string]any{
		"model":       c.cfg.Model,
		"messages":    []map[string]string{{"role": "user", "content": prompt}},
		"max_tokens":  maxTokens,
		"temperature": temperature,
	}
	if jsonMode {
		reqBody["response_format"] = map[string]string{"type": "json_object"}
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	body, err := c.post(ctx, chatCompletionsBase, payload)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat response carried no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func (c *Client) post(ctx context.Context, url string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("language service request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading language service response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("language service returned HTTP %d: %s", resp.StatusCode, body)
	}
	return body, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
