// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "headline-bench/0.1"). Wikipedia rejects requests without one.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 and 5xx (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// LogConfig selects the zap logger layout and level.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "json" (production) or "console" (development).
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// DatasetConfig holds settings for building the location dataset.
type DatasetConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// GeoNamesUsername is the account name required by the GeoNames API.
	GeoNamesUsername string `json:"geonames_username,omitempty" yaml:"geonames_username,omitempty" mapstructure:"geonames_username"`

	// CitiesPerCountry bounds the number of cities fetched per country (default 3).
	CitiesPerCountry int `json:"cities_per_country" yaml:"cities_per_country" mapstructure:"cities_per_country"`

	// SummarySentences is the number of sentences kept from each summary (default 3).
	SummarySentences int `json:"summary_sentences" yaml:"summary_sentences" mapstructure:"summary_sentences"`

	// SkipSummaries disables the Wikipedia lookup entirely.
	SkipSummaries bool `json:"skip_summaries" yaml:"skip_summaries" mapstructure:"skip_summaries"`

	// RequestsPerSecond caps the request rate per upstream host (default 2).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// Output is the path of the generated locations file.
	Output string `json:"output" yaml:"output" mapstructure:"output"`
}

// ScorerKind names a scorer implementation.
type ScorerKind string

const (
	ScorerLexicon     ScorerKind = "lexicon"
	ScorerHFInference ScorerKind = "hfinference"
	ScorerClaude      ScorerKind = "claude"
)

// ScorerConfig configures one named scorer.
type ScorerConfig struct {
	// Name prefixes the scorer's output columns (e.g. "distilbert").
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Kind selects the implementation.
	Kind ScorerKind `json:"kind" yaml:"kind" mapstructure:"kind"`

	// Model is the model identifier for model-backed scorers.
	Model string `json:"model,omitempty" yaml:"model,omitempty" mapstructure:"model"`

	// Endpoint overrides the inference API base URL.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" mapstructure:"endpoint"`

	// BatchSize splits the text sequence into requests of at most this many
	// texts. The scorer still returns one result per input, in order.
	BatchSize int `json:"batch_size,omitempty" yaml:"batch_size,omitempty" mapstructure:"batch_size"`
}

// ScoringConfig holds settings for the sentiment scoring stage.
type ScoringConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Scorers lists the scorers in output column order.
	Scorers []ScorerConfig `json:"scorers" yaml:"scorers" mapstructure:"scorers"`

	// Concurrency bounds how many scorers run at once (default: all).
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`

	// ScorerTimeout bounds a single scorer's whole run (default 10m).
	ScorerTimeout time.Duration `json:"scorer_timeout" yaml:"scorer_timeout" mapstructure:"scorer_timeout"`

	// HFToken authenticates hfinference scorers.
	HFToken string `json:"hf_token,omitempty" yaml:"hf_token,omitempty" mapstructure:"hf_token"`

	// AnthropicAPIKey authenticates the claude scorer.
	AnthropicAPIKey string `json:"anthropic_api_key,omitempty" yaml:"anthropic_api_key,omitempty" mapstructure:"anthropic_api_key"`
}

// OutputFormat selects the result sink.
type OutputFormat string

const (
	OutputCSV    OutputFormat = "csv"
	OutputXLSX   OutputFormat = "xlsx"
	OutputSQLite OutputFormat = "sqlite"
)

// OutputConfig holds settings for the result sink.
type OutputConfig struct {
	// Path is the output file (e.g. "sentiment_analysis_results.csv").
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Format is csv, xlsx, or sqlite. Empty infers it from the extension.
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
	Dataset DatasetConfig `json:"dataset" yaml:"dataset" mapstructure:"dataset"`
	Scoring ScoringConfig `json:"scoring" yaml:"scoring" mapstructure:"scoring"`
	Output  OutputConfig  `json:"output" yaml:"output" mapstructure:"output"`
}
