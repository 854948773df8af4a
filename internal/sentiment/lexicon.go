// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sentiment

import (
	"context"
	"fmt"
	"math"

	"github.com/jonreiter/govader"

	"github.com/pdiddy/headline-bench/pkg/types"
)

// Lexicon is the VADER rule-based scorer. It produces the compound polarity
// in [-1, 1] and no label. It scores row by row but returns results aligned
// with its input.
type Lexicon struct {
	name string
	sia  *govader.SentimentIntensityAnalyzer
}

// NewLexicon returns a VADER scorer. The analyzer is built by Open.
func NewLexicon(name string) *Lexicon {
	return &Lexicon{name: name}
}

func (l *Lexicon) Name() string   { return l.name }
func (l *Lexicon) Output() Output { return CompoundOnly }

// Open loads the VADER lexicon and emoji tables.
func (l *Lexicon) Open(_ context.Context) error {
	l.sia = govader.NewSentimentIntensityAnalyzer()
	return nil
}

// Close drops the analyzer.
func (l *Lexicon) Close() error {
	l.sia = nil
	return nil
}

// ScoreBatch returns the compound score of every text.
func (l *Lexicon) ScoreBatch(ctx context.Context, texts []string) ([]types.ScoreResult, error) {
	if l.sia == nil {
		return nil, fmt.Errorf("lexicon %s is not open", l.name)
	}
	out := make([]types.ScoreResult, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = types.ScoreResult{Score: l.Compound(t), Valid: true}
	}
	return out, nil
}

// Compound returns the VADER compound score of text, rounded to four
// decimals. The lexicon must be open.
func (l *Lexicon) Compound(text string) float64 {
	return math.Round(l.sia.PolarityScores(text).Compound*10000) / 10000
}
