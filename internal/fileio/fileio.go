// Package fileio parses bulk inventory uploads. The canonical format is CSV
// with comma separators in UTF-8; files exported by older spreadsheet tools
// arrive as semicolon-separated Latin-1, so that is tried as a fallback.
// XLSX workbooks are accepted as a convenience.
package fileio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/saintfish/chardet"
	excelize "github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"tiendafacil/backend/internal/domain"
	"tiendafacil/backend/internal/price"
)

// ImportFormatError names exactly what is wrong with the file so the
// operator can fix it without developer help.
type ImportFormatError struct {
	Missing []string
	Detail  string
}

func (e *ImportFormatError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("import file must contain the columns %s; missing: %s",
			strings.Join(RequiredColumns(), ", "), strings.Join(e.Missing, ", "))
	}
	return "unreadable import file: " + e.Detail
}

// RequiredColumns is the inventory schema minus ID_PRODUCTO, which is always
// assigned server-side.
func RequiredColumns() []string {
	cols := make([]string, 0, len(domain.InventoryColumns)-1)
	for _, col := range domain.InventoryColumns {
		if col != "ID_PRODUCTO" {
			cols = append(cols, col)
		}
	}
	return cols
}

// ReadInventoryUpload parses an uploaded file into inventory records.
// CODIGO_SKU may be blank (the merge generates one); ID_PRODUCTO is ignored
// if present. Numeric cells are parsed strictly: a typo fails the import
// instead of silently importing a zero.
func ReadInventoryUpload(r io.Reader, filename string) ([]domain.InventoryRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	if strings.ToLower(filepath.Ext(filename)) == ".xlsx" {
		rows, err := readXLSX(data)
		if err != nil {
			return nil, &ImportFormatError{Detail: err.Error()}
		}
		if missing := missingColumns(rows); len(missing) > 0 {
			return nil, &ImportFormatError{Missing: missing}
		}
		return decodeStrict(rows)
	}

	// Primary attempt: comma-separated UTF-8.
	rows, primaryErr := readCSV(data, ',', nil)
	if primaryErr == nil {
		if missing := missingColumns(rows); len(missing) == 0 {
			return decodeStrict(rows)
		}
	}

	// Fallback: semicolon-separated, decoding Latin-1 unless the bytes
	// detect as UTF-8 anyway.
	fallbackRows, fallbackErr := readCSV(data, ';', latin1DecoderFor(data))
	if fallbackErr == nil {
		if missing := missingColumns(fallbackRows); len(missing) == 0 {
			return decodeStrict(fallbackRows)
		}
	}

	switch {
	case primaryErr == nil:
		return nil, &ImportFormatError{Missing: missingColumns(rows)}
	case fallbackErr == nil:
		return nil, &ImportFormatError{Missing: missingColumns(fallbackRows)}
	default:
		return nil, &ImportFormatError{Detail: primaryErr.Error()}
	}
}

func readCSV(data []byte, comma rune, dec transform.Transformer) ([]map[string]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var src io.Reader = bytes.NewReader(data)
	if dec != nil {
		src = transform.NewReader(src, dec)
	}

	cr := csv.NewReader(src)
	cr.Comma = comma
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	return cellsToRows(header, records[1:]), nil
}

func readXLSX(data []byte) ([]map[string]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	return cellsToRows(header, rows[1:]), nil
}

// cellsToRows maps data rows onto the header, skipping rows that are
// entirely blank.
func cellsToRows(header []string, records [][]string) []map[string]string {
	rows := make([]map[string]string, 0, len(records))
	for _, cells := range records {
		row := make(map[string]string, len(header))
		empty := true
		for i, col := range header {
			var v string
			if i < len(cells) {
				v = cells[i]
			}
			row[col] = v
			if strings.TrimSpace(v) != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows
}

// latin1DecoderFor returns a Latin-1 decoder unless the bytes confidently
// detect as UTF-8 already.
func latin1DecoderFor(data []byte) transform.Transformer {
	sample := data
	if len(sample) > 2048 {
		sample = sample[:2048]
	}
	if det, err := chardet.NewTextDetector().DetectBest(sample); err == nil && det != nil {
		if strings.EqualFold(det.Charset, "UTF-8") {
			return nil
		}
	}
	return charmap.ISO8859_1.NewDecoder()
}

func missingColumns(rows []map[string]string) []string {
	var missing []string
	if len(rows) == 0 {
		return RequiredColumns()
	}
	for _, col := range RequiredColumns() {
		if _, ok := rows[0][col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

func decodeStrict(rows []map[string]string) ([]domain.InventoryRecord, error) {
	records := make([]domain.InventoryRecord, 0, len(rows))
	for i, row := range rows {
		qty, err := strictInt(row["CANTIDAD_ACTUAL"])
		if err != nil {
			return nil, importCellError(i, "CANTIDAD_ACTUAL", err)
		}
		cost, err := strictMoney(row["COSTO_UNITARIO"])
		if err != nil {
			return nil, importCellError(i, "COSTO_UNITARIO", err)
		}
		base, err := strictMoney(row["PRECIO_BASE"])
		if err != nil {
			return nil, importCellError(i, "PRECIO_BASE", err)
		}
		public, err := strictMoney(row["PRECIO_PUBLICO"])
		if err != nil {
			return nil, importCellError(i, "PRECIO_PUBLICO", err)
		}

		records = append(records, domain.InventoryRecord{
			SKU:         strings.TrimSpace(row["CODIGO_SKU"]),
			Name:        strings.TrimSpace(row["NOMBRE_PRODUCTO"]),
			Quantity:    qty,
			UnitCost:    cost,
			BasePrice:   base,
			PublicPrice: public,
			Location:    strings.TrimSpace(row["UBICACION_FISICA"]),
		})
	}
	return records, nil
}

// importCellError reports the spreadsheet row number (header is row 1).
func importCellError(rowIdx int, column string, err error) error {
	return fmt.Errorf("row %d, column %s: %w", rowIdx+2, column, err)
}

func strictInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("malformed quantity %q", s)
	}
	return n, nil
}

func strictMoney(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return price.ParseStrict(s)
}
