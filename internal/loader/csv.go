package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"

	"ctar/pkg/records"
)

// ReadCSV parses semicolon-separated extract data from r. Rows whose width
// does not match the header are skipped (soft-fail, counted in
// Table.Skipped) rather than aborting: a single mangled line must not take
// down a 40k-row extract.
func ReadCSV(r io.Reader, opt Options) (*Table, error) {
	dr, err := decodeReader(r, opt.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(dr)
	cr.Comma = ';'
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.FieldsPerRecord = -1 // width enforced below, per row

	head, err := cr.Read()
	if err == io.EOF {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loader: read csv header: %w", err)
	}
	columns := normalizeHeaders(head, opt)

	t := &Table{Columns: columns}
	const logLimit = 400
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if t.Skipped < logLimit {
				log.Printf("loader: skipping row %d: %v", line, err)
			}
			t.Skipped++
			continue
		}
		if len(row) != len(columns) {
			if t.Skipped < logLimit {
				log.Printf("loader: skipping row %d: incorrect number of fields (expected %d, got %d)",
					line, len(columns), len(row))
			}
			t.Skipped++
			continue
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			rec[columns[i]] = emptyToNil(val)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}
