// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sentiment runs several independent scorers over the same ordered
// headline texts and merges their outputs by row index.
//
// Each Scorer is a Strategy: the engine never branches on the concrete
// type. A scorer that fails (open error, batch error, panic, timeout or a
// result count that does not match the input) contributes the failure
// sentinel for every row; the rows themselves are always kept.
package sentiment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/headline-bench/pkg/types"
)

// DefaultScorerTimeout bounds a single scorer's run when none is configured.
const DefaultScorerTimeout = 10 * time.Minute

// Output describes the columns a scorer produces.
type Output int

const (
	// CompoundOnly scorers produce a single continuous score column,
	// <name>_sentiment.
	CompoundOnly Output = iota

	// LabelAndScore scorers produce <name>_sentiment (label) and
	// <name>_score (confidence).
	LabelAndScore
)

// Scorer is one sentiment-analysis engine. Open acquires the scorer's model
// or analyzer state for the run and Close releases it. ScoreBatch must
// return exactly one result per text, in input order, and should return
// promptly once ctx is done. The engine stops waiting for a scorer whose ctx
// has ended and records it as failed.
type Scorer interface {
	Name() string
	Output() Output
	Open(ctx context.Context) error
	ScoreBatch(ctx context.Context, texts []string) ([]types.ScoreResult, error)
	Close() error
}

// AlignmentError reports a scorer whose output length differs from its
// input length. Alignment cannot be guessed, so the scorer's run is void.
type AlignmentError struct {
	Scorer string
	Got    int
	Want   int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("scorer %s returned %d results for %d texts", e.Scorer, e.Got, e.Want)
}

// ScorerError wraps a failure from one phase of a scorer's run.
type ScorerError struct {
	Scorer string
	Phase  string // "open", "score" or "panic"
	Err    error
}

func (e *ScorerError) Error() string {
	return fmt.Sprintf("scorer %s %s: %v", e.Scorer, e.Phase, e.Err)
}

func (e *ScorerError) Unwrap() error { return e.Err }

// Failure records a scorer that contributed sentinel columns.
type Failure struct {
	Scorer string
	Err    error
}

// Outcome is the merged result of a scoring run.
type Outcome struct {
	Rows     []types.ScoredHeadlineRecord
	Columns  []types.ScoreColumn
	Failures []Failure
}

// FailedScorers returns the names of scorers that failed, in scorer order.
func (o Outcome) FailedScorers() []string {
	names := make([]string, len(o.Failures))
	for i, f := range o.Failures {
		names[i] = f.Scorer
	}
	return names
}

// Engine orchestrates a fixed, ordered set of scorers.
type Engine struct {
	scorers     []Scorer
	concurrency int
	timeout     time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithConcurrency bounds how many scorers run at once. n <= 0 runs all
// scorers in parallel; n == 1 runs them sequentially.
func WithConcurrency(n int) Option {
	return func(e *Engine) { e.concurrency = n }
}

// WithTimeout bounds each scorer's open-and-score phase. d <= 0 disables
// the bound.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// NewEngine returns an engine for scorers. Scorer names prefix output
// columns, so they must be non-empty and unique.
func NewEngine(scorers []Scorer, opts ...Option) (*Engine, error) {
	seen := make(map[string]bool, len(scorers))
	for _, s := range scorers {
		name := s.Name()
		if name == "" {
			return nil, fmt.Errorf("scorer with empty name")
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate scorer name %q", name)
		}
		seen[name] = true
	}

	e := &Engine{scorers: scorers, timeout: DefaultScorerTimeout}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Columns returns the namespaced output columns in scorer order.
func (e *Engine) Columns() []types.ScoreColumn {
	var cols []types.ScoreColumn
	for i, s := range e.scorers {
		cols = append(cols, types.ScoreColumn{Name: s.Name() + "_sentiment", Scorer: i, Field: fieldFor(s.Output())})
		if s.Output() == LabelAndScore {
			cols = append(cols, types.ScoreColumn{Name: s.Name() + "_score", Scorer: i, Field: types.FieldScore})
		}
	}
	return cols
}

func fieldFor(o Output) types.ScoreField {
	if o == LabelAndScore {
		return types.FieldLabel
	}
	return types.FieldScore
}

// Score runs every scorer once over the headline texts and returns one
// scored row per headline, in input order. Scorer failures are recorded in
// Outcome.Failures and never returned as errors; the only error is
// cancellation of ctx, which aborts the whole run.
func (e *Engine) Score(ctx context.Context, headlines []types.HeadlineRecord) (Outcome, error) {
	texts := types.Headlines(headlines)

	results := make([][]types.ScoreResult, len(e.scorers))
	errs := make([]error, len(e.scorers))

	if len(texts) > 0 {
		var g errgroup.Group
		if e.concurrency > 0 {
			g.SetLimit(e.concurrency)
		}
		for i, s := range e.scorers {
			g.Go(func() error {
				start := time.Now()
				results[i], errs[i] = e.run(ctx, s, texts)
				zap.L().Info("scorer finished",
					zap.String("scorer", s.Name()),
					zap.Int("texts", len(texts)),
					zap.Duration("elapsed", time.Since(start)),
					zap.Bool("ok", errs[i] == nil),
				)
				return nil
			})
		}
		g.Wait()
	}

	if err := ctx.Err(); err != nil {
		return Outcome{}, fmt.Errorf("scoring cancelled: %w", err)
	}

	out := Outcome{Columns: e.Columns()}
	for i, err := range errs {
		if err == nil {
			continue
		}
		name := e.scorers[i].Name()
		zap.L().Warn("scorer failed; writing empty columns", zap.String("scorer", name), zap.Error(err))
		out.Failures = append(out.Failures, Failure{Scorer: name, Err: err})
	}

	out.Rows = make([]types.ScoredHeadlineRecord, len(headlines))
	for r, h := range headlines {
		scores := make([]types.ScoreResult, len(e.scorers))
		for k := range e.scorers {
			if errs[k] == nil {
				scores[k] = results[k][r]
			} else {
				scores[k] = types.Missing
			}
		}
		out.Rows[r] = types.ScoredHeadlineRecord{HeadlineRecord: h, Scores: scores}
	}
	return out, nil
}

// run executes one scorer's lifecycle on its own goroutine under the engine
// timeout. If ctx ends first the scorer is abandoned and reported as failed;
// it still closes itself once its ScoreBatch returns.
func (e *Engine) run(ctx context.Context, s Scorer, texts []string) ([]types.ScoreResult, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	type outcome struct {
		res []types.ScoreResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := e.lifecycle(ctx, s, texts)
		done <- outcome{res, err}
	}()

	select {
	case o := <-done:
		return o.res, o.err
	case <-ctx.Done():
	}
	select {
	case o := <-done:
		return o.res, o.err
	default:
	}
	zap.L().Warn("abandoning scorer that did not stop after cancellation", zap.String("scorer", s.Name()))
	err := ctx.Err()
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("timed out after %v: %w", e.timeout, err)
	}
	return nil, &ScorerError{Scorer: s.Name(), Phase: "score", Err: err}
}

// lifecycle opens s, scores texts, closes s and checks alignment.
func (e *Engine) lifecycle(ctx context.Context, s Scorer, texts []string) (res []types.ScoreResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			res, err = nil, &ScorerError{Scorer: s.Name(), Phase: "panic", Err: fmt.Errorf("%v", p)}
		}
	}()

	if err := s.Open(ctx); err != nil {
		return nil, &ScorerError{Scorer: s.Name(), Phase: "open", Err: err}
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			zap.L().Warn("closing scorer", zap.String("scorer", s.Name()), zap.Error(cerr))
		}
	}()

	res, err = s.ScoreBatch(ctx, texts)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %v: %w", e.timeout, err)
		}
		return nil, &ScorerError{Scorer: s.Name(), Phase: "score", Err: err}
	}
	if len(res) != len(texts) {
		return nil, &AlignmentError{Scorer: s.Name(), Got: len(res), Want: len(texts)}
	}
	return res, nil
}
