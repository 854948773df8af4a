// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package experiment

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/headline-bench/internal/expand"
	"github.com/pdiddy/headline-bench/internal/results"
	"github.com/pdiddy/headline-bench/internal/sentiment"
	"github.com/pdiddy/headline-bench/pkg/types"
)

type brokenScorer struct{ name string }

func (b brokenScorer) Name() string               { return b.name }
func (b brokenScorer) Output() sentiment.Output   { return sentiment.LabelAndScore }
func (b brokenScorer) Open(context.Context) error { return errors.New("model unavailable") }
func (b brokenScorer) Close() error               { return nil }
func (b brokenScorer) ScoreBatch(context.Context, []string) ([]types.ScoreResult, error) {
	return nil, errors.New("unreachable")
}

func lagosOslo() Inputs {
	return Inputs{
		Templates: []types.Template{
			{ID: "1", Category: "A", Text: "{location} leads the way"},
			{ID: "2", Category: "B", Text: "Crisis deepens in {location}"},
		},
		Locations: []types.LocationRecord{
			{Name: "Lagos", Country: "Nigeria", Region: "Sub-Saharan Africa", Population: 15388000, DevelopmentLevel: types.Developing},
			{Name: "Oslo", Country: "Norway", Region: "Europe & Central Asia", Population: 580000, DevelopmentLevel: types.Developed},
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestRun(t *testing.T) {
	engine, err := sentiment.NewEngine([]sentiment.Scorer{
		sentiment.NewLexicon("vader"),
		brokenScorer{name: "distilbert"},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sentiment_analysis_results.csv")
	var out bytes.Buffer
	report, err := Run(context.Background(), lagosOslo(), engine, &results.CSVSink{Path: path}, &out)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 4, report.Headlines)
	assert.True(t, report.HasFailures())
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "distilbert", report.Failures[0].Scorer)

	records := readCSV(t, path)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"vader_sentiment", "distilbert_sentiment", "distilbert_score"}, records[0][9:])

	wantHeadlines := []string{
		"Lagos leads the way", "Oslo leads the way",
		"Crisis deepens in Lagos", "Crisis deepens in Oslo",
	}
	for i, want := range wantHeadlines {
		row := records[i+1]
		assert.Equal(t, want, row[8])
		assert.NotEmpty(t, row[9], "lexicon column is filled")
		assert.Equal(t, []string{"", ""}, row[10:], "failed scorer columns are empty")
	}
	assert.Equal(t, "developing", records[1][7])
	assert.Equal(t, "developed", records[2][7])

	assert.Contains(t, out.String(), "into 4 headlines")
	assert.Contains(t, out.String(), "distilbert: ")
	assert.Contains(t, out.String(), "model unavailable")
}

func TestRunTemplateErrorWritesNothing(t *testing.T) {
	engine, err := sentiment.NewEngine([]sentiment.Scorer{sentiment.NewLexicon("vader")})
	require.NoError(t, err)

	in := lagosOslo()
	in.Templates = append(in.Templates, types.Template{ID: "3", Text: "No marker here"})
	path := filepath.Join(t.TempDir(), "out.csv")

	_, err = Run(context.Background(), in, engine, &results.CSVSink{Path: path}, &bytes.Buffer{})
	var rerr *expand.TemplateRenderError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, types.TemplateID("3"), rerr.TemplateID)
	assert.NoFileExists(t, path)
}

func TestRunCancelledWritesNothing(t *testing.T) {
	engine, err := sentiment.NewEngine([]sentiment.Scorer{sentiment.NewLexicon("vader")})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := filepath.Join(t.TempDir(), "out.csv")
	_, err = Run(ctx, lagosOslo(), engine, &results.CSVSink{Path: path}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, path)
}

func TestRunEmptyInputs(t *testing.T) {
	engine, err := sentiment.NewEngine([]sentiment.Scorer{sentiment.NewLexicon("vader")})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.csv")
	report, err := Run(context.Background(), Inputs{Templates: lagosOslo().Templates}, engine, &results.CSVSink{Path: path}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Zero(t, report.Headlines)
	assert.False(t, report.HasFailures())

	records := readCSV(t, path)
	require.Len(t, records, 1, "header only")
	assert.Equal(t, "vader_sentiment", records[0][9])
}

func TestWriteHeadlines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "headlines.csv")
	n, err := WriteHeadlines(context.Background(), lagosOslo(), &results.CSVSink{Path: path})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	records := readCSV(t, path)
	require.Len(t, records, 5)
	assert.Equal(t, types.ProvenanceColumns, records[0])
	assert.Equal(t, "15388000", records[1][6])
}

func TestLoadInputs(t *testing.T) {
	dir := t.TempDir()
	tplPath := filepath.Join(dir, "templates.yaml")
	locPath := filepath.Join(dir, "locations.json")
	require.NoError(t, os.WriteFile(tplPath, []byte("templates:\n  - id: 1\n    category: A\n    text: \"{location} wins\"\n"), 0o644))
	require.NoError(t, os.WriteFile(locPath, []byte(`[{"name": "Oslo", "development_level": "developed"}]`), 0o644))

	in, err := LoadInputs(tplPath, locPath)
	require.NoError(t, err)
	require.Len(t, in.Templates, 1)
	assert.Equal(t, types.TemplateID("1"), in.Templates[0].ID)
	require.Len(t, in.Locations, 1)

	_, err = LoadInputs(filepath.Join(dir, "missing.json"), locPath)
	assert.Error(t, err)
}

func TestNewEngineFromConfig(t *testing.T) {
	engine, err := NewEngine(types.ScoringConfig{
		Scorers: []types.ScorerConfig{{Name: "vader", Kind: types.ScorerLexicon}},
	})
	require.NoError(t, err)
	require.Len(t, engine.Columns(), 1)

	_, err = NewEngine(types.ScoringConfig{
		Scorers: []types.ScorerConfig{{Name: "a", Kind: types.ScorerLexicon}, {Name: "a", Kind: types.ScorerLexicon}},
	})
	assert.ErrorContains(t, err, "duplicate")
}

func TestPrintSummaryAllOK(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, Report{Headlines: 3})
	assert.Equal(t, "Scored 3 headlines; all scorers succeeded\n", buf.String())
}
