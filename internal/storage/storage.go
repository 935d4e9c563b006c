// Package storage defines the sink abstraction for persisting aggregate
// tables. The core pipeline never persists anything; sinks exist for callers
// that want the chart data source written somewhere durable.
package storage

import "context"

// Sink receives one aggregate table: a positional column list and rows whose
// cells align with it. Implementations create their target table on demand
// and must tolerate being handed zero rows (a valid, empty analysis).
type Sink interface {
	WriteRows(ctx context.Context, columns []string, rows [][]any) (int64, error)
	Close() error
}
