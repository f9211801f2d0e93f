// Package xlsx stores tables as worksheets of a local .xlsx workbook, one
// sheet per table with the column names as the header row.
package xlsx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	excelize "github.com/xuri/excelize/v2"

	"tiendafacil/backend/internal/tablestore"
)

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// ReadTable reads all rows of the named worksheet. A missing workbook or
// worksheet is not an error: it reads as an empty table with the expected
// shape.
func (s *Store) ReadTable(_ context.Context, name string, columns []string) ([]map[string]string, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return []map[string]string{}, nil
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", s.path, err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return []map[string]string{}, nil
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}
	if len(rows) < 2 {
		return []map[string]string{}, nil
	}

	header := rows[0]
	out := make([]map[string]string, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(cells) {
				row[col] = cells[i]
			}
		}
		out = append(out, row)
	}
	return tablestore.ShapeRows(out, columns), nil
}

// WriteTable rebuilds the named worksheet with the header row and the given
// rows, then saves through a temp file and renames over the workbook so a
// failed save never leaves a half-written file behind.
func (s *Store) WriteTable(_ context.Context, name string, columns []string, rows []map[string]string) error {
	f, err := s.openOrCreate()
	if err != nil {
		return err
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(name); err == nil && idx >= 0 {
		if err := f.DeleteSheet(name); err != nil {
			return fmt.Errorf("reset sheet %s: %w", name, err)
		}
	}
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}

	if err := setRow(f, name, 1, columns); err != nil {
		return err
	}
	shaped := tablestore.ShapeRows(rows, columns)
	for i, row := range shaped {
		if err := setRow(f, name, i+2, tablestore.RowValues(row, columns)); err != nil {
			return err
		}
	}

	// The default sheet only matters until the first real table is written.
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx >= 0 && name != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	// SaveAs refuses file names without a recognized workbook extension, so
	// the temp file must end in .xlsx too.
	tmp := s.path + ".tmp.xlsx"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create workbook dir: %w", err)
	}
	if err := f.SaveAs(tmp); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace workbook: %w", err)
	}
	return nil
}

func (s *Store) openOrCreate() (*excelize.File, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return excelize.NewFile(), nil
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", s.path, err)
	}
	return f, nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d of %s: %w", rowNum, sheet, err)
	}
	return nil
}
