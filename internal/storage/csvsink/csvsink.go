// Package csvsink implements a storage.Sink that writes the aggregate table
// as CSV to any io.Writer, typically stdout or a file handed over to the
// chart layer.
package csvsink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"ctar/pkg/records"
)

// Sink streams aggregate rows as CSV. It does not own the writer; Close
// flushes but never closes the underlying stream.
type Sink struct {
	w *csv.Writer
}

// NewSink wraps w. Comma defaults to ',' (aggregate output is for charting
// tools, not a round-trip of the semicolon source format).
func NewSink(w io.Writer) *Sink {
	return &Sink{w: csv.NewWriter(w)}
}

func (s *Sink) WriteRows(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.w.Write(columns); err != nil {
		return 0, fmt.Errorf("csvsink: write header: %w", err)
	}

	var written int64
	cells := make([]string, len(columns))
	for _, row := range rows {
		if len(row) != len(columns) {
			return written, fmt.Errorf("csvsink: row length %d != columns length %d",
				len(row), len(columns))
		}
		for i, v := range row {
			cells[i] = records.AsString(v)
		}
		if err := s.w.Write(cells); err != nil {
			return written, fmt.Errorf("csvsink: write row: %w", err)
		}
		written++
	}
	s.w.Flush()
	return written, s.w.Error()
}

func (s *Sink) Close() error {
	s.w.Flush()
	return s.w.Error()
}
