// Package tablestore abstracts the persistent backend as named whole tables.
// There is deliberately no row-level write: the only mutation primitive is
// replacing a table's entire contents, which is what the backing spreadsheet
// supports and what keeps the concurrency story honest (last whole-table
// write wins).
package tablestore

import "context"

// Store reads and writes whole named tables. Reads return rows shaped to
// exactly the requested columns and never fail just because a table is empty
// or absent. Writes replace the table's full contents, header row included,
// and are atomic from the caller's point of view.
type Store interface {
	ReadTable(ctx context.Context, name string, columns []string) ([]map[string]string, error)
	WriteTable(ctx context.Context, name string, columns []string, rows []map[string]string) error
}

// ShapeRows coerces rows to exactly the given columns: missing columns are
// filled with an empty string, extra columns are dropped.
func ShapeRows(rows []map[string]string, columns []string) []map[string]string {
	shaped := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		out := make(map[string]string, len(columns))
		for _, col := range columns {
			out[col] = row[col]
		}
		shaped = append(shaped, out)
	}
	return shaped
}

// RowValues returns a row's cells in column order.
func RowValues(row map[string]string, columns []string) []string {
	values := make([]string, len(columns))
	for i, col := range columns {
		values[i] = row[col]
	}
	return values
}
