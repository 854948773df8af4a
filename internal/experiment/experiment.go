// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package experiment runs the headline pipeline end to end: load templates
// and locations, expand them into headlines, score every headline with each
// configured scorer and write the assembled table to a sink.
package experiment

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/headline-bench/internal/dataset"
	"github.com/pdiddy/headline-bench/internal/expand"
	"github.com/pdiddy/headline-bench/internal/results"
	"github.com/pdiddy/headline-bench/internal/sentiment"
	"github.com/pdiddy/headline-bench/internal/templates"
	"github.com/pdiddy/headline-bench/pkg/types"
)

// Inputs are the two expansion inputs, in file order.
type Inputs struct {
	Templates []types.Template
	Locations []types.LocationRecord
}

// LoadInputs reads a template document and a locations.json file.
func LoadInputs(templatesPath, locationsPath string) (Inputs, error) {
	ts, err := templates.Load(templatesPath)
	if err != nil {
		return Inputs{}, err
	}
	locs, err := dataset.ReadLocations(locationsPath)
	if err != nil {
		return Inputs{}, err
	}
	return Inputs{Templates: ts, Locations: locs}, nil
}

// Report summarizes a scoring run.
type Report struct {
	RunID     string
	Templates int
	Locations int
	Headlines int
	Columns   []string
	Failures  []sentiment.Failure
}

// HasFailures reports whether any scorer fell back to empty columns.
func (r Report) HasFailures() bool {
	return len(r.Failures) > 0
}

// NewEngine builds the configured scorers and wraps them in an engine.
func NewEngine(cfg types.ScoringConfig) (*sentiment.Engine, error) {
	scorers, err := sentiment.Build(cfg)
	if err != nil {
		return nil, err
	}
	opts := []sentiment.Option{sentiment.WithConcurrency(cfg.Concurrency)}
	if cfg.ScorerTimeout > 0 {
		opts = append(opts, sentiment.WithTimeout(cfg.ScorerTimeout))
	}
	return sentiment.NewEngine(scorers, opts...)
}

// Run expands in, scores the headlines with engine and writes the table to
// sink. Scorer failures do not fail the run; they are listed in the report
// and their columns are left empty. A cancelled ctx aborts before the sink
// is written.
func Run(ctx context.Context, in Inputs, engine *sentiment.Engine, sink results.Sink, w io.Writer) (Report, error) {
	report := Report{
		RunID:     uuid.NewString(),
		Templates: len(in.Templates),
		Locations: len(in.Locations),
	}
	log := zap.L().With(zap.String("run_id", report.RunID))

	headlines, err := expand.Expand(in.Templates, in.Locations)
	if err != nil {
		return report, fmt.Errorf("expanding headlines: %w", err)
	}
	report.Headlines = len(headlines)
	fmt.Fprintf(w, "Expanded %d templates x %d locations into %d headlines\n",
		report.Templates, report.Locations, report.Headlines)
	log.Info("expanded headlines", zap.Int("headlines", len(headlines)))

	outcome, err := engine.Score(ctx, headlines)
	if err != nil {
		return report, err
	}
	report.Failures = outcome.Failures

	table, err := results.Assemble(outcome.Rows, outcome.Columns)
	if err != nil {
		return report, fmt.Errorf("assembling results: %w", err)
	}
	table.RunID = report.RunID
	table.FailedScorers = outcome.FailedScorers()
	report.Columns = table.Header

	if err := sink.Write(ctx, table); err != nil {
		return report, fmt.Errorf("writing results: %w", err)
	}
	log.Info("results written", zap.Int("rows", len(table.Rows)), zap.Strings("failed_scorers", table.FailedScorers))

	PrintSummary(w, report)
	return report, nil
}

// PrintSummary writes the failed-scorer summary for a finished run.
func PrintSummary(w io.Writer, r Report) {
	if !r.HasFailures() {
		fmt.Fprintf(w, "Scored %d headlines; all scorers succeeded\n", r.Headlines)
		return
	}
	fmt.Fprintf(w, "Scored %d headlines; %d scorer(s) failed and have empty columns:\n", r.Headlines, len(r.Failures))
	for _, f := range r.Failures {
		fmt.Fprintf(w, "  %s: %v\n", f.Scorer, f.Err)
	}
}

// WriteHeadlines expands in and writes the unscored headline table.
func WriteHeadlines(ctx context.Context, in Inputs, sink results.Sink) (int, error) {
	headlines, err := expand.Expand(in.Templates, in.Locations)
	if err != nil {
		return 0, fmt.Errorf("expanding headlines: %w", err)
	}
	rows := make([]types.ScoredHeadlineRecord, len(headlines))
	for i, h := range headlines {
		rows[i] = types.ScoredHeadlineRecord{HeadlineRecord: h}
	}
	table, err := results.Assemble(rows, nil)
	if err != nil {
		return 0, fmt.Errorf("assembling headlines: %w", err)
	}
	table.RunID = uuid.NewString()
	if err := sink.Write(ctx, table); err != nil {
		return 0, fmt.Errorf("writing headlines: %w", err)
	}
	return len(headlines), nil
}
