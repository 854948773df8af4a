// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/pdiddy/headline-bench/pkg/types"
)

const (
	defaultClaudeModel     = "claude-haiku-4-5-20251001"
	defaultClaudeBatchSize = 50
	claudeMaxTokens        = 4096
)

const claudeSystemPrompt = `You are a sentiment classifier for news headlines.
For each numbered headline, decide whether its sentiment is positive, negative, or neutral,
and give your confidence between 0 and 1.
Reply with only a JSON array, one object per headline, in the form
[{"index": 1, "label": "positive", "score": 0.93}, ...]. Do not add any other text.`

// Claude scores headlines with the Anthropic Messages API. Headlines are
// sent in numbered chunks; the reply must cover every index of the chunk.
type Claude struct {
	name      string
	model     string
	apiKey    string
	baseURL   string
	batchSize int

	msgs *sdk.MessageService
}

// NewClaude returns an LLM-backed scorer.
func NewClaude(cfg types.ScorerConfig, apiKey string) *Claude {
	model := cfg.Model
	if model == "" {
		model = defaultClaudeModel
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultClaudeBatchSize
	}
	return &Claude{
		name:      cfg.Name,
		model:     model,
		apiKey:    apiKey,
		baseURL:   cfg.Endpoint,
		batchSize: batch,
	}
}

func (c *Claude) Name() string   { return c.name }
func (c *Claude) Output() Output { return LabelAndScore }

// Open creates the SDK client for the run.
func (c *Claude) Open(_ context.Context) error {
	if c.apiKey == "" {
		return fmt.Errorf("no Anthropic API key (set .secrets/anthropic-api-key or scoring.anthropic_api_key)")
	}
	opts := []option.RequestOption{option.WithAPIKey(c.apiKey)}
	if c.baseURL != "" {
		opts = append(opts, option.WithBaseURL(c.baseURL))
	}
	client := sdk.NewClient(opts...)
	c.msgs = &client.Messages
	return nil
}

// Close drops the SDK client.
func (c *Claude) Close() error {
	c.msgs = nil
	return nil
}

type claudeVerdict struct {
	Index int     `json:"index"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ScoreBatch classifies texts chunk by chunk.
func (c *Claude) ScoreBatch(ctx context.Context, texts []string) ([]types.ScoreResult, error) {
	if c.msgs == nil {
		return nil, fmt.Errorf("scorer %s is not open", c.name)
	}
	out := make([]types.ScoreResult, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := min(start+c.batchSize, len(texts))
		chunk, err := c.classify(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("texts %d-%d: %w", start, end-1, err)
		}
		out = append(out, chunk...)
	}
	return out, nil
}

func (c *Claude) classify(ctx context.Context, texts []string) ([]types.ScoreResult, error) {
	var prompt strings.Builder
	for i, t := range texts {
		fmt.Fprintf(&prompt, "%d. %s\n", i+1, t)
	}

	msg, err := c.msgs.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   claudeMaxTokens,
		Temperature: sdk.Float(0),
		System:      []sdk.TextBlockParam{{Text: claudeSystemPrompt}},
		Messages:    []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(prompt.String()))},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic: create message: %w", err)
	}
	zap.L().Debug("claude chunk scored",
		zap.String("scorer", c.name),
		zap.Int("texts", len(texts)),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	var reply strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			reply.WriteString(block.Text)
		}
	}
	return c.parseVerdicts(reply.String(), len(texts))
}

// parseVerdicts maps the JSON array in reply back onto input positions.
// Missing or duplicated indices void the chunk.
func (c *Claude) parseVerdicts(reply string, n int) ([]types.ScoreResult, error) {
	open, end := strings.Index(reply, "["), strings.LastIndex(reply, "]")
	if open < 0 || end < open {
		return nil, fmt.Errorf("reply contains no JSON array")
	}
	var verdicts []claudeVerdict
	if err := json.Unmarshal([]byte(reply[open:end+1]), &verdicts); err != nil {
		return nil, fmt.Errorf("parsing reply: %w", err)
	}
	if len(verdicts) != n {
		return nil, &AlignmentError{Scorer: c.name, Got: len(verdicts), Want: n}
	}

	out := make([]types.ScoreResult, n)
	for _, v := range verdicts {
		if v.Index < 1 || v.Index > n {
			return nil, fmt.Errorf("reply index %d out of range 1-%d", v.Index, n)
		}
		if out[v.Index-1].Valid {
			return nil, fmt.Errorf("reply repeats index %d", v.Index)
		}
		out[v.Index-1] = types.ScoreResult{
			Label: strings.ToLower(strings.TrimSpace(v.Label)),
			Score: v.Score,
			Valid: true,
		}
	}
	return out, nil
}
