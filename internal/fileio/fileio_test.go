package fileio

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	excelize "github.com/xuri/excelize/v2"
)

const csvHeader = "CODIGO_SKU,NOMBRE_PRODUCTO,CANTIDAD_ACTUAL,COSTO_UNITARIO,PRECIO_BASE,PRECIO_PUBLICO,UBICACION_FISICA\n"

func TestReadCommaUTF8(t *testing.T) {
	data := csvHeader +
		"LAM-1,Lámpara LED,5,\"2.000,50\",3000,3500,A1\n" +
		",Cable USB,10,1200,1800,2500,B2\n"

	records, err := ReadInventoryUpload(strings.NewReader(data), "stock.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Name != "Lámpara LED" || records[0].UnitCost != 2000.50 {
		t.Errorf("first record = %+v", records[0])
	}
	if records[1].SKU != "" || records[1].Quantity != 10 {
		t.Errorf("second record = %+v", records[1])
	}
}

func TestReadSemicolonLatin1Fallback(t *testing.T) {
	data := []byte("CODIGO_SKU;NOMBRE_PRODUCTO;CANTIDAD_ACTUAL;COSTO_UNITARIO;PRECIO_BASE;PRECIO_PUBLICO;UBICACION_FISICA\n" +
		"LAM-1;L\xe1mpara LED;5;\"1.000,50\";2000;2500;Estanter\xeda A\n")

	records, err := ReadInventoryUpload(bytes.NewReader(data), "export.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Name != "Lámpara LED" {
		t.Errorf("latin-1 name not decoded: %q", records[0].Name)
	}
	if records[0].Location != "Estantería A" {
		t.Errorf("latin-1 location not decoded: %q", records[0].Location)
	}
	if records[0].UnitCost != 1000.50 {
		t.Errorf("unit cost = %v", records[0].UnitCost)
	}
}

func TestMissingColumns(t *testing.T) {
	data := "CODIGO_SKU,NOMBRE_PRODUCTO\nLAM-1,Lámpara\n"

	_, err := ReadInventoryUpload(strings.NewReader(data), "broken.csv")
	var formatErr *ImportFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected ImportFormatError, got %v", err)
	}
	found := false
	for _, col := range formatErr.Missing {
		if col == "PRECIO_BASE" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing columns %v should include PRECIO_BASE", formatErr.Missing)
	}
}

func TestMalformedNumberFailsImport(t *testing.T) {
	data := csvHeader + "LAM-1,Lámpara,diez,1000,2000,2500,A1\n"

	_, err := ReadInventoryUpload(strings.NewReader(data), "typo.csv")
	if err == nil {
		t.Fatal("expected error for malformed quantity")
	}
	if !strings.Contains(err.Error(), "row 2, column CANTIDAD_ACTUAL") {
		t.Errorf("error should name the cell, got %q", err.Error())
	}
}

func TestBlankRowsSkipped(t *testing.T) {
	data := csvHeader +
		"LAM-1,Lámpara,5,1000,2000,2500,A1\n" +
		",,,,,,\n"

	records, err := ReadInventoryUpload(strings.NewReader(data), "stock.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("blank row should be skipped, got %d records", len(records))
	}
}

func TestReadXLSXUpload(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := append([]string{}, RequiredColumns()...)
	for i, col := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			t.Fatalf("set header: %v", err)
		}
	}
	for i, v := range []string{"CAB-2", "Cable HDMI", "7", "1500", "2200", "2900", "B3"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("set cell: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	records, err := ReadInventoryUpload(&buf, "upload.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Name != "Cable HDMI" || records[0].Quantity != 7 || records[0].BasePrice != 2200 {
		t.Errorf("record = %+v", records[0])
	}
}
