// Package sqlite implements a SQLite-backed storage.Sink using database/sql.
// It performs batched INSERTs inside a transaction; SQLite does not have a
// dedicated bulk-load API like Postgres COPY, but transactions keep
// performance acceptable for the volumes an aggregate table reaches.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // cgo-free SQLite driver
)

// Config holds SQLite sink configuration.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:ctar.db?cache=shared&_fk=1"
	//   "ctar.db" (interpreted by the driver)
	DSN string

	// Table is the target table name for inserts, e.g. "season_counts".
	Table string
}

// Sink is a SQLite-backed implementation of storage.Sink.
type Sink struct {
	db  *sql.DB
	cfg Config
}

// NewSink opens a SQLite connection using the provided DSN.
func NewSink(ctx context.Context, cfg Config) (*Sink, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	if strings.TrimSpace(cfg.Table) == "" {
		return nil, fmt.Errorf("sqlite: table must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	return &Sink{db: db, cfg: cfg}, nil
}

// WriteRows creates the target table if needed (types inferred from the
// first row) and inserts every row inside one transaction.
func (s *Sink) WriteRows(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("sqlite: WriteRows: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	if err := s.ensureTable(ctx, columns, rows[0]); err != nil {
		return 0, err
	}

	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		s.cfg.Table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if len(row) != len(columns) {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("sqlite: WriteRows: row length %d != columns length %d",
				len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("sqlite: insert: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

func (s *Sink) ensureTable(ctx context.Context, columns []string, sample []any) error {
	defs := make([]string, len(columns))
	for i, col := range columns {
		var cell any
		if i < len(sample) {
			cell = sample[i]
		}
		defs[i] = col + " " + sqlType(cell)
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		s.cfg.Table, strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("sqlite: create table: %w", err)
	}
	return nil
}

func sqlType(sample any) string {
	switch sample.(type) {
	case int, int64:
		return "INTEGER"
	case float64:
		return "REAL"
	default:
		return "TEXT"
	}
}

// Close releases the underlying connection pool.
func (s *Sink) Close() error { return s.db.Close() }
