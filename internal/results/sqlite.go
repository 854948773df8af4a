// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/headline-bench/pkg/types"
)

// SQLiteSink appends each run to a SQLite database. Provenance fields go to
// the headlines table and scorer columns to the long-format scores table,
// with NULL for the failed-scorer sentinel. A run is written in a single
// transaction, so a cancelled run leaves the database unchanged.
type SQLiteSink struct {
	Path string
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		columns TEXT NOT NULL,
		failed_scorers TEXT NOT NULL,
		row_count INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS headlines (
		run_id TEXT NOT NULL REFERENCES runs(id),
		row_index INTEGER NOT NULL,
		template_id TEXT NOT NULL,
		template_category TEXT,
		template_text TEXT NOT NULL,
		location_name TEXT NOT NULL,
		location_country TEXT,
		location_region TEXT,
		location_population INTEGER,
		location_development_level TEXT,
		headline TEXT NOT NULL,
		PRIMARY KEY (run_id, row_index)
	)`,
	`CREATE TABLE IF NOT EXISTS scores (
		run_id TEXT NOT NULL,
		row_index INTEGER NOT NULL,
		column_name TEXT NOT NULL,
		value,
		PRIMARY KEY (run_id, row_index, column_name),
		FOREIGN KEY (run_id, row_index) REFERENCES headlines(run_id, row_index)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scores_column ON scores(run_id, column_name)`,
}

// Write records t as a new run.
func (s *SQLiteSink) Write(ctx context.Context, t *Table) error {
	if t.RunID == "" {
		return fmt.Errorf("sqlite sink requires a run id")
	}
	nProv := len(types.ProvenanceColumns)
	if len(t.Header) < nProv {
		return fmt.Errorf("table has %d columns, want at least %d", len(t.Header), nProv)
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	db, err := sql.Open("sqlite3", s.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	cols, _ := json.Marshal(t.Header[nProv:])
	failed, _ := json.Marshal(append([]string{}, t.FailedScorers...))
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, columns, failed_scorers, row_count) VALUES (?, ?, ?, ?, ?)`,
		t.RunID, time.Now().UTC().Format(time.RFC3339), string(cols), string(failed), len(t.Rows),
	); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	headStmt, err := tx.PrepareContext(ctx, `INSERT INTO headlines (
		run_id, row_index, template_id, template_category, template_text,
		location_name, location_country, location_region, location_population,
		location_development_level, headline
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing headline insert: %w", err)
	}
	defer headStmt.Close()

	scoreStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO scores (run_id, row_index, column_name, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing score insert: %w", err)
	}
	defer scoreStmt.Close()

	for i, row := range t.Rows {
		args := append([]any{t.RunID, i}, row[:nProv]...)
		if _, err := headStmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting row %d: %w", i, err)
		}
		for j := nProv; j < len(row); j++ {
			if _, err := scoreStmt.ExecContext(ctx, t.RunID, i, t.Header[j], row[j]); err != nil {
				return fmt.Errorf("inserting %s for row %d: %w", t.Header[j], i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}
