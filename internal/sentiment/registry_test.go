// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/headline-bench/pkg/types"
)

func TestBuildDefaults(t *testing.T) {
	scorers, err := Build(types.ScoringConfig{})
	require.NoError(t, err)

	var names []string
	for _, s := range scorers {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"vader", "distilbert", "roberta"}, names)
	assert.IsType(t, &Lexicon{}, scorers[0])
	assert.IsType(t, &HFInference{}, scorers[1])

	e, err := NewEngine(scorers)
	require.NoError(t, err)
	var cols []string
	for _, c := range e.Columns() {
		cols = append(cols, c.Name)
	}
	assert.Equal(t, []string{
		"vader_sentiment",
		"distilbert_sentiment", "distilbert_score",
		"roberta_sentiment", "roberta_score",
	}, cols)
}

func TestBuildKinds(t *testing.T) {
	scorers, err := Build(types.ScoringConfig{
		Scorers: []types.ScorerConfig{
			{Name: "claude", Kind: types.ScorerClaude},
			{Name: "lex", Kind: types.ScorerLexicon},
		},
		AnthropicAPIKey: "sk",
	})
	require.NoError(t, err)
	assert.IsType(t, &Claude{}, scorers[0])
	assert.IsType(t, &Lexicon{}, scorers[1])
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(types.ScoringConfig{Scorers: []types.ScorerConfig{{Kind: types.ScorerLexicon}}})
	assert.ErrorContains(t, err, "no name")

	_, err = Build(types.ScoringConfig{Scorers: []types.ScorerConfig{{Name: "x", Kind: "magic"}}})
	assert.ErrorContains(t, err, "unknown kind")
}
