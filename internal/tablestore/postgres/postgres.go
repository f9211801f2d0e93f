// Package postgres keeps each table as an all-TEXT relation, preserving the
// spreadsheet's string-typed, whole-table semantics. Row order is preserved
// through an explicit position column because the domain depends on it
// (sales are newest first).
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tiendafacil/backend/internal/tablestore"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) ReadTable(ctx context.Context, name string, columns []string) ([]map[string]string, error) {
	if err := s.ensureTable(ctx, name, columns); err != nil {
		return nil, err
	}

	selects := make([]string, len(columns))
	for i, col := range columns {
		selects[i] = fmt.Sprintf("COALESCE(%s, '')", pgx.Identifier{col}.Sanitize())
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY row_pos",
		strings.Join(selects, ", "), pgx.Identifier{name}.Sanitize())

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", name, err)
	}
	defer rows.Close()

	out := make([]map[string]string, 0)
	for rows.Next() {
		values := make([]string, len(columns))
		scans := make([]any, len(columns))
		for i := range values {
			scans[i] = &values[i]
		}
		if err := rows.Scan(scans...); err != nil {
			return nil, fmt.Errorf("scan table %s: %w", name, err)
		}
		row := make(map[string]string, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read table %s: %w", name, err)
	}
	return out, nil
}

// WriteTable replaces the table's contents inside one transaction: TRUNCATE
// then a bulk copy. The caller either sees the whole new table or the old
// one.
func (s *Store) WriteTable(ctx context.Context, name string, columns []string, rows []map[string]string) error {
	if err := s.ensureTable(ctx, name, columns); err != nil {
		return err
	}

	shaped := tablestore.ShapeRows(rows, columns)
	copyRows := make([][]any, len(shaped))
	for i, row := range shaped {
		record := make([]any, 0, len(columns)+1)
		record = append(record, i)
		for _, cell := range tablestore.RowValues(row, columns) {
			record = append(record, cell)
		}
		copyRows[i] = record
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("write table %s: %w", name, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE %s", pgx.Identifier{name}.Sanitize())); err != nil {
		return fmt.Errorf("truncate table %s: %w", name, err)
	}
	copyColumns := append([]string{"row_pos"}, columns...)
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{name}, copyColumns, pgx.CopyFromRows(copyRows)); err != nil {
		return fmt.Errorf("write table %s: %w", name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("write table %s: %w", name, err)
	}
	return nil
}

// ensureTable creates the relation on first use and adds any column the
// schema has grown since, so pointing the backend at an empty database just
// works.
func (s *Store) ensureTable(ctx context.Context, name string, columns []string) error {
	defs := make([]string, 0, len(columns)+1)
	defs = append(defs, "row_pos INTEGER NOT NULL")
	for _, col := range columns {
		defs = append(defs, pgx.Identifier{col}.Sanitize()+" TEXT")
	}
	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		pgx.Identifier{name}.Sanitize(), strings.Join(defs, ", "))
	if _, err := s.pool.Exec(ctx, create); err != nil {
		return fmt.Errorf("ensure table %s: %w", name, err)
	}

	for _, col := range columns {
		alter := fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s TEXT",
			pgx.Identifier{name}.Sanitize(), pgx.Identifier{col}.Sanitize())
		if _, err := s.pool.Exec(ctx, alter); err != nil {
			return fmt.Errorf("ensure column %s.%s: %w", name, col, err)
		}
	}
	return nil
}
