// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sentiment

import (
	"fmt"

	"github.com/pdiddy/headline-bench/pkg/types"
)

// DefaultScorers returns the standard analyzer set:
// the VADER lexicon, DistilBERT (SST-2) and Twitter RoBERTa.
func DefaultScorers() []types.ScorerConfig {
	return []types.ScorerConfig{
		{Name: "vader", Kind: types.ScorerLexicon},
		{Name: "distilbert", Kind: types.ScorerHFInference, Model: ModelDistilBERT},
		{Name: "roberta", Kind: types.ScorerHFInference, Model: ModelRoBERTa},
	}
}

// Build constructs the configured scorers in order. Credentials come from
// cfg; construction never contacts a backend.
func Build(cfg types.ScoringConfig) ([]Scorer, error) {
	specs := cfg.Scorers
	if len(specs) == 0 {
		specs = DefaultScorers()
	}

	scorers := make([]Scorer, 0, len(specs))
	for _, sc := range specs {
		if sc.Name == "" {
			return nil, fmt.Errorf("scorer of kind %q has no name", sc.Kind)
		}
		switch sc.Kind {
		case types.ScorerLexicon, "":
			scorers = append(scorers, NewLexicon(sc.Name))
		case types.ScorerHFInference:
			scorers = append(scorers, NewHFInference(sc, cfg.HTTPConfig, cfg.HFToken))
		case types.ScorerClaude:
			scorers = append(scorers, NewClaude(sc, cfg.AnthropicAPIKey))
		default:
			return nil, fmt.Errorf("scorer %s: unknown kind %q", sc.Name, sc.Kind)
		}
	}
	return scorers, nil
}
