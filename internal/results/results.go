// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package results flattens scored headlines into a row-ordered table and
// writes it to a sink. Every sink writes atomically: an interrupted run
// leaves no partial artifact behind.
package results

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/headline-bench/pkg/types"
)

// ErrMissingProvenance marks a scored row without a required provenance field.
var ErrMissingProvenance = errors.New("missing provenance field")

// Table is the flat, row-ordered result. Cells are string, int64, float64,
// or nil for the failed-scorer sentinel.
type Table struct {
	Header []string
	Rows   [][]any

	// RunID identifies the scoring run (recorded by the SQLite sink).
	RunID string

	// FailedScorers names scorers whose columns hold the sentinel.
	FailedScorers []string
}

// Assemble flattens scored rows. The header is the provenance columns
// followed by cols, in order. A row missing template_id, template_text,
// location_name or headline is rejected.
func Assemble(scored []types.ScoredHeadlineRecord, cols []types.ScoreColumn) (*Table, error) {
	header := append([]string(nil), types.ProvenanceColumns...)
	for _, c := range cols {
		header = append(header, c.Name)
	}

	t := &Table{Header: header, Rows: make([][]any, 0, len(scored))}
	for i, r := range scored {
		if missing := missingProvenance(r.HeadlineRecord); missing != "" {
			return nil, fmt.Errorf("row %d: %w: %s", i, ErrMissingProvenance, missing)
		}

		row := make([]any, 0, len(header))
		row = append(row,
			string(r.TemplateID),
			r.TemplateCategory,
			r.TemplateText,
			r.LocationName,
			r.LocationCountry,
			r.LocationRegion,
			r.LocationPopulation,
			string(r.LocationDevelopmentLevel),
			r.Headline,
		)
		for _, c := range cols {
			if c.Scorer < 0 || c.Scorer >= len(r.Scores) {
				return nil, fmt.Errorf("row %d: column %s refers to scorer %d of %d", i, c.Name, c.Scorer, len(r.Scores))
			}
			row = append(row, c.Value(r.Scores[c.Scorer]))
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func missingProvenance(h types.HeadlineRecord) string {
	switch {
	case h.TemplateID == "":
		return "template_id"
	case h.TemplateText == "":
		return "template_text"
	case h.LocationName == "":
		return "location_name"
	case h.Headline == "":
		return "headline"
	}
	return ""
}

// Sink persists a table.
type Sink interface {
	Write(ctx context.Context, t *Table) error
}

// NewSink returns the sink for cfg. An empty format is inferred from the
// path extension (.xlsx, .db/.sqlite, anything else is CSV).
func NewSink(cfg types.OutputConfig) (Sink, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("no output path")
	}
	format := cfg.Format
	if format == "" {
		format = FormatForPath(cfg.Path)
	}
	switch format {
	case types.OutputCSV:
		return &CSVSink{Path: cfg.Path}, nil
	case types.OutputXLSX:
		return &XLSXSink{Path: cfg.Path}, nil
	case types.OutputSQLite:
		return &SQLiteSink{Path: cfg.Path}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q: use csv, xlsx or sqlite", format)
	}
}

// FormatForPath infers an output format from a file extension.
func FormatForPath(path string) types.OutputFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return types.OutputXLSX
	case ".db", ".sqlite", ".sqlite3":
		return types.OutputSQLite
	default:
		return types.OutputCSV
	}
}

// FormatCell renders a cell for text formats. The sentinel renders empty.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// writeAtomic calls write with a temp file next to path and renames it
// into place only if write succeeds and ctx is still live.
func writeAtomic(ctx context.Context, path string, write func(tmp string) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	tmpFile, err := os.CreateTemp(dir, ".results-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()

	if err := write(tmpPath); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := ctx.Err(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("not writing %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
