package loader

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"ctar/pkg/records"
)

// ReadXLSX parses an Excel workbook from r. The peripheral centers often
// submit their extracts as workbooks rather than CSV; the first row of the
// selected sheet is the header, and short rows are padded with nil cells
// (excelize drops trailing empties).
func ReadXLSX(r io.Reader, opt Options) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("loader: open xlsx: %w", err)
	}
	defer f.Close()

	sheet := opt.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return &Table{}, nil
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("loader: read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	columns := normalizeHeaders(rows[0], opt)
	t := &Table{Columns: columns}

	for _, row := range rows[1:] {
		if len(row) > len(columns) {
			t.Skipped++
			continue
		}
		rec := make(records.Record, len(columns))
		for i, col := range columns {
			if i < len(row) {
				rec[col] = emptyToNil(row[i])
			} else {
				rec[col] = nil
			}
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}
