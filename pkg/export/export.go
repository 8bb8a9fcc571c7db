// Package export writes correction history into spreadsheets.
package export

import (
	"context"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	kdb "github.com/opst/grammarfab/pkg/db"
	xe "github.com/opst/grammarfab/pkg/errors"
)

// ContentType is the media type of XLSX workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheet = "Corrections"

// batchSize is the page size to read corrections.
const batchSize = kdb.MaxPerPage

var headers = []string{"ID", "Created At", "Original Text", "Corrected Text"}

// Collect reads all corrections matching query, newest first.
func Collect(ctx context.Context, corrections kdb.CorrectionInterface, query kdb.CorrectionQuery) ([]kdb.Correction, error) {
	all := []kdb.Correction{}
	page := kdb.FirstPage(batchSize)
	for {
		items, err := corrections.Find(ctx, query, page)
		if err != nil {
			return nil, xe.Wrap(err)
		}
		all = append(all, items...)
		if len(items) < page.Limit() {
			return all, nil
		}
		page.Page += 1
	}
}

// WriteXLSX writes corrections as a workbook with a sheet "Corrections".
//
// Timestamps are written in UTC, as RFC3339.
func WriteXLSX(w io.Writer, corrections []kdb.Correction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return xe.Wrap(err)
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return xe.Wrap(err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return xe.Wrap(err)
		}
	}

	for n, c := range corrections {
		row := []any{
			c.Id,
			c.CreatedAt.UTC().Format(time.RFC3339),
			c.OriginalText,
			c.CorrectedText,
		}
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return xe.Wrap(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return xe.Wrap(err)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 10)
	_ = f.SetColWidth(sheet, "B", "B", 24)
	_ = f.SetColWidth(sheet, "C", "D", 60)

	if _, err := f.WriteTo(w); err != nil {
		return xe.Wrap(err)
	}
	return nil
}
