// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v3"
)

// LocationMarker is the substitution point a template text must contain
// exactly once.
const LocationMarker = "{location}"

// TemplateID identifies a template within a run. Template files may use
// either strings or integers; both decode to the same textual form.
type TemplateID string

// UnmarshalJSON accepts a JSON string or number.
func (id *TemplateID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TemplateID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("template id must be a string or number: %w", err)
	}
	*id = TemplateID(n.String())
	return nil
}

// UnmarshalYAML accepts a YAML scalar of any kind.
func (id *TemplateID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("template id must be a scalar, got line %d", node.Line)
	}
	*id = TemplateID(node.Value)
	return nil
}

// Template is a reusable headline pattern with one {location} slot.
type Template struct {
	ID       TemplateID `json:"id" yaml:"id"`
	Category string     `json:"category" yaml:"category"`
	Text     string     `json:"text" yaml:"text"`
}

// TemplateSet is the on-disk layout of a template document.
type TemplateSet struct {
	Templates []Template `json:"templates" yaml:"templates"`
}

// HeadlineRecord is one rendered (template, location) pair with the
// provenance fields copied from both inputs.
type HeadlineRecord struct {
	TemplateID               TemplateID       `json:"template_id"`
	TemplateCategory         string           `json:"template_category"`
	TemplateText             string           `json:"template_text"`
	LocationName             string           `json:"location_name"`
	LocationCountry          string           `json:"location_country"`
	LocationRegion           string           `json:"location_region"`
	LocationPopulation       int64            `json:"location_population"`
	LocationDevelopmentLevel DevelopmentLevel `json:"location_development_level"`
	Headline                 string           `json:"headline"`
}

// ProvenanceColumns lists the HeadlineRecord column names in output order.
var ProvenanceColumns = []string{
	"template_id",
	"template_category",
	"template_text",
	"location_name",
	"location_country",
	"location_region",
	"location_population",
	"location_development_level",
	"headline",
}

// Headlines returns the headline text of each record, in order.
func Headlines(rows []HeadlineRecord) []string {
	texts := make([]string, len(rows))
	for i, r := range rows {
		texts[i] = r.Headline
	}
	return texts
}

// ScoreResult is one scorer's verdict on one headline. Lexicon scorers set
// only Score (the compound value); classifier scorers set Label and use
// Score for confidence. Valid is false for the failure sentinel.
type ScoreResult struct {
	Label string  `json:"label,omitempty"`
	Score float64 `json:"score"`
	Valid bool    `json:"valid"`
}

// Missing is the sentinel stored for every row of a failed scorer.
var Missing = ScoreResult{}

// ScoredHeadlineRecord pairs a headline with one ScoreResult per configured
// scorer, in scorer order.
type ScoredHeadlineRecord struct {
	HeadlineRecord
	Scores []ScoreResult `json:"scores"`
}

// ScoreField selects which part of a ScoreResult a column carries.
type ScoreField int

const (
	FieldLabel ScoreField = iota
	FieldScore
)

// ScoreColumn describes one output column produced by a scorer.
type ScoreColumn struct {
	// Name is the namespaced column header (e.g. "distilbert_score").
	Name string

	// Scorer is the index of the scorer in ScoredHeadlineRecord.Scores.
	Scorer int

	Field ScoreField
}

// Value returns the column's cell for r: a string label, a float64 score,
// or nil when r is the failure sentinel.
func (c ScoreColumn) Value(r ScoreResult) any {
	if !r.Valid {
		return nil
	}
	if c.Field == FieldLabel {
		return r.Label
	}
	return r.Score
}
