// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package results

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
)

// CSVSink writes a header row followed by one record per table row.
type CSVSink struct {
	Path string
}

// Write renders t as CSV at s.Path.
func (s *CSVSink) Write(ctx context.Context, t *Table) error {
	return writeAtomic(ctx, s.Path, func(tmp string) error {
		f, err := os.Create(tmp)
		if err != nil {
			return fmt.Errorf("opening %s: %w", tmp, err)
		}
		if err := encodeCSV(ctx, f, t); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	})
}

func encodeCSV(ctx context.Context, f *os.File, t *Table) error {
	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	record := make([]string, len(t.Header))
	for i, row := range t.Rows {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for j, v := range row {
			record[j] = FormatCell(v)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	w.Flush()
	return w.Error()
}
