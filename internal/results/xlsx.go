// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package results

import (
	"context"
	"fmt"

	"github.com/tealeg/xlsx/v2"
)

const xlsxSheet = "results"

// XLSXSink writes the table to a single-sheet workbook. Scores are stored
// as numeric cells; sentinel cells are left empty.
type XLSXSink struct {
	Path string
}

// Write renders t as a workbook at s.Path.
func (s *XLSXSink) Write(ctx context.Context, t *Table) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(xlsxSheet)
	if err != nil {
		return fmt.Errorf("adding sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range t.Header {
		header.AddCell().SetString(h)
	}
	for i, row := range t.Rows {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		r := sheet.AddRow()
		for _, v := range row {
			c := r.AddCell()
			switch x := v.(type) {
			case nil:
			case int64:
				c.SetInt64(x)
			case float64:
				c.SetFloat(x)
			default:
				c.SetString(FormatCell(x))
			}
		}
	}

	return writeAtomic(ctx, s.Path, func(tmp string) error {
		if err := file.Save(tmp); err != nil {
			return fmt.Errorf("saving workbook: %w", err)
		}
		return nil
	})
}
