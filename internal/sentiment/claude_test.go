// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/headline-bench/pkg/types"
)

// messagesServer answers the Messages API with reply(prompt).
func messagesServer(t *testing.T, reply func(prompt string) string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Content []struct {
					Text string `json:"text"`
				} `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Messages) == 0 || len(body.Messages[0].Content) == 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		text, _ := json.Marshal(reply(body.Messages[0].Content[0].Text))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
  "id": "msg_test",
  "type": "message",
  "role": "assistant",
  "model": %q,
  "content": [{"type": "text", "text": %s}],
  "stop_reason": "end_turn",
  "stop_sequence": null,
  "usage": {"input_tokens": 10, "output_tokens": 20}
}`, body.Model, text)
	}))
	t.Cleanup(ts.Close)
	return ts
}

// labelByKeyword marks numbered lines containing "wins" as positive.
func labelByKeyword(prompt string) string {
	var verdicts []string
	for _, line := range strings.Split(strings.TrimSpace(prompt), "\n") {
		var idx int
		fmt.Sscanf(line, "%d.", &idx)
		label := "negative"
		if strings.Contains(line, "wins") {
			label = "Positive"
		}
		verdicts = append(verdicts, fmt.Sprintf(`{"index": %d, "label": %q, "score": 0.8}`, idx, label))
	}
	// Reverse so the scorer must map by index, not position.
	for i, j := 0, len(verdicts)-1; i < j; i, j = i+1, j-1 {
		verdicts[i], verdicts[j] = verdicts[j], verdicts[i]
	}
	return "Here you go:\n[" + strings.Join(verdicts, ",") + "]"
}

func TestClaudeScoresByIndex(t *testing.T) {
	ts := messagesServer(t, labelByKeyword)

	c := NewClaude(types.ScorerConfig{Name: "claude", Endpoint: ts.URL, BatchSize: 2}, "sk-test")
	require.NoError(t, c.Open(context.Background()))
	defer c.Close()

	got, err := c.ScoreBatch(context.Background(), []string{"Oslo wins", "Lagos floods", "Lima wins"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "positive", got[0].Label)
	assert.Equal(t, "negative", got[1].Label)
	assert.Equal(t, "positive", got[2].Label)
	assert.InDelta(t, 0.8, got[2].Score, 1e-9)
}

func TestClaudeMissingVerdictIsAlignmentError(t *testing.T) {
	ts := messagesServer(t, func(string) string {
		return `[{"index": 1, "label": "neutral", "score": 0.5}]`
	})

	c := NewClaude(types.ScorerConfig{Name: "claude", Endpoint: ts.URL}, "sk-test")
	require.NoError(t, c.Open(context.Background()))
	defer c.Close()

	_, err := c.ScoreBatch(context.Background(), []string{"a", "b"})
	var ae *AlignmentError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, 2, ae.Want)
}

func TestClaudeParseVerdicts(t *testing.T) {
	c := &Claude{name: "claude"}

	_, err := c.parseVerdicts("no json here", 1)
	assert.ErrorContains(t, err, "no JSON array")

	_, err = c.parseVerdicts(`[{"index": 1}, {"index": 1}]`, 2)
	assert.ErrorContains(t, err, "repeats index 1")

	_, err = c.parseVerdicts(`[{"index": 5}]`, 1)
	assert.ErrorContains(t, err, "out of range")
}

func TestClaudeOpenRequiresKey(t *testing.T) {
	c := NewClaude(types.ScorerConfig{Name: "claude"}, "")
	assert.Error(t, c.Open(context.Background()))
	assert.Equal(t, defaultClaudeModel, c.model)
}
