// Package postgres implements a Postgres storage.Sink using pgx v5. Rows go
// in through the COPY protocol, which is the cheapest bulk path pgx offers.
package postgres

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Config holds Postgres sink configuration.
type Config struct {
	// DSN is the connection string for pgxpool, e.g. "postgresql://...".
	DSN string

	// Table is the target table name, optionally schema-qualified,
	// e.g. "public.season_counts".
	Table string
}

// Sink is a Postgres-backed implementation of storage.Sink.
type Sink struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewSink constructs a Sink backed by a pgx connection pool.
func NewSink(ctx context.Context, cfg Config) (*Sink, error) {
	if strings.TrimSpace(cfg.Table) == "" {
		return nil, fmt.Errorf("postgres: table must not be empty")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: pgxpool: %w", err)
	}
	return &Sink{pool: pool, cfg: cfg}, nil
}

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// pgIdent quotes an identifier unless it is already a plain lowercase name.
func pgIdent(s string) string {
	if identRe.MatchString(s) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteRows creates the target table if needed (types inferred from the
// first row) and bulk-loads every row via COPY.
func (s *Sink) WriteRows(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("postgres: WriteRows: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}
	for _, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("postgres: WriteRows: row length %d != columns length %d",
				len(row), len(columns))
		}
	}

	if err := s.ensureTable(ctx, columns, rows[0]); err != nil {
		return 0, err
	}

	ident := pgx.Identifier(strings.Split(s.cfg.Table, "."))
	n, err := s.pool.CopyFrom(ctx, ident, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("postgres: copy: %w", err)
	}
	return n, nil
}

func (s *Sink) ensureTable(ctx context.Context, columns []string, sample []any) error {
	defs := make([]string, len(columns))
	for i, col := range columns {
		var cell any
		if i < len(sample) {
			cell = sample[i]
		}
		defs[i] = pgIdent(col) + " " + sqlType(cell)
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		s.cfg.Table, strings.Join(defs, ", "))
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: create table: %w", err)
	}
	return nil
}

func sqlType(sample any) string {
	switch sample.(type) {
	case int, int64:
		return "bigint"
	case float64:
		return "double precision"
	default:
		return "text"
	}
}

// Close releases the connection pool.
func (s *Sink) Close() error {
	s.pool.Close()
	return nil
}
