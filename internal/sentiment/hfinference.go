// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/headline-bench/internal/httputil"
	"github.com/pdiddy/headline-bench/pkg/types"
)

// hfInferenceBase is the hosted inference endpoint. Declared as a var so
// tests can substitute an httptest server.
var hfInferenceBase = "https://router.huggingface.co/hf-inference"

const defaultHFBatchSize = 32

// DefaultHFTimeout is the per-request timeout when none is configured. A
// request that waits for a cold model to load can take minutes.
const DefaultHFTimeout = 5 * time.Minute

// Well-known text-classification models.
const (
	ModelDistilBERT = "distilbert-base-uncased-finetuned-sst-2-english"
	ModelRoBERTa    = "cardiffnlp/twitter-roberta-base-sentiment"
)

// HFInference scores texts with a hosted text-classification model. Texts
// are sent in chunks of BatchSize; each input's highest-scoring label
// becomes its result.
type HFInference struct {
	name      string
	model     string
	endpoint  string
	token     string
	batchSize int
	httpCfg   types.HTTPConfig

	client *httputil.Client
}

// NewHFInference returns a model-backed scorer. An empty endpoint uses the
// hosted inference API.
func NewHFInference(cfg types.ScorerConfig, httpCfg types.HTTPConfig, token string) *HFInference {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultHFBatchSize
	}
	return &HFInference{
		name:      cfg.Name,
		model:     cfg.Model,
		endpoint:  cfg.Endpoint,
		token:     token,
		batchSize: batch,
		httpCfg:   httpCfg,
	}
}

func (s *HFInference) Name() string   { return s.name }
func (s *HFInference) Output() Output { return LabelAndScore }

// Open builds the HTTP client used for the run.
func (s *HFInference) Open(_ context.Context) error {
	if s.model == "" {
		return fmt.Errorf("no model configured")
	}
	timeout := s.httpCfg.Timeout
	if timeout <= 0 {
		timeout = DefaultHFTimeout
	}
	s.client = &httputil.Client{
		HTTP:       &http.Client{Timeout: timeout},
		UserAgent:  s.httpCfg.UserAgent,
		MaxRetries: s.httpCfg.MaxRetries,
	}
	if s.token != "" {
		s.client.Header = http.Header{"Authorization": {"Bearer " + s.token}}
	}
	return nil
}

// Close releases the HTTP client.
func (s *HFInference) Close() error {
	if s.client != nil {
		s.client.HTTP.CloseIdleConnections()
		s.client = nil
	}
	return nil
}

type hfRequest struct {
	Inputs  []string  `json:"inputs"`
	Options hfOptions `json:"options"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ScoreBatch classifies texts chunk by chunk and concatenates the results.
func (s *HFInference) ScoreBatch(ctx context.Context, texts []string) ([]types.ScoreResult, error) {
	if s.client == nil {
		return nil, fmt.Errorf("scorer %s is not open", s.name)
	}
	out := make([]types.ScoreResult, 0, len(texts))
	for start := 0; start < len(texts); start += s.batchSize {
		end := min(start+s.batchSize, len(texts))
		chunk, err := s.classify(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("texts %d-%d: %w", start, end-1, err)
		}
		out = append(out, chunk...)
		zap.L().Debug("inference chunk scored",
			zap.String("scorer", s.name),
			zap.Int("done", end),
			zap.Int("total", len(texts)),
		)
	}
	return out, nil
}

func (s *HFInference) classify(ctx context.Context, texts []string) ([]types.ScoreResult, error) {
	base := s.endpoint
	if base == "" {
		base = hfInferenceBase
	}
	reqURL := strings.TrimRight(base, "/") + "/models/" + modelPath(s.model)

	var raw json.RawMessage
	req := hfRequest{Inputs: texts, Options: hfOptions{WaitForModel: true}}
	if err := s.client.PostJSON(ctx, reqURL, req, &raw); err != nil {
		return nil, err
	}

	perInput, err := decodeHFLabels(raw)
	if err != nil {
		return nil, err
	}
	if len(perInput) != len(texts) {
		return nil, &AlignmentError{Scorer: s.name, Got: len(perInput), Want: len(texts)}
	}

	out := make([]types.ScoreResult, len(perInput))
	for i, labels := range perInput {
		if len(labels) == 0 {
			return nil, fmt.Errorf("no labels for input %d", i)
		}
		best := labels[0]
		for _, l := range labels[1:] {
			if l.Score > best.Score {
				best = l
			}
		}
		out[i] = types.ScoreResult{Label: best.Label, Score: best.Score, Valid: true}
	}
	return out, nil
}

// decodeHFLabels accepts both response shapes of the classification task:
// a list of label lists (one per input) or a flat list with one top label
// per input.
func decodeHFLabels(raw json.RawMessage) ([][]hfLabel, error) {
	var nested [][]hfLabel
	if err := json.Unmarshal(raw, &nested); err == nil {
		return nested, nil
	}
	var flat []hfLabel
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("parsing inference response: %w", err)
	}
	nested = make([][]hfLabel, len(flat))
	for i, l := range flat {
		nested[i] = []hfLabel{l}
	}
	return nested, nil
}

// modelPath escapes each path segment of a model id like "org/name".
func modelPath(model string) string {
	parts := strings.Split(model, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
