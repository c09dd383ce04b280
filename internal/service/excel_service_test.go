package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, header []string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, name := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, name)
	}
	for r, row := range rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(sheet, cell, value)
		}
	}
	path := filepath.Join(t.TempDir(), "recibos.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
	return path
}

func TestOpenReceiptFile(t *testing.T) {
	path := writeWorkbook(t,
		[]string{" Legajo ", "CUIL", "Apellido y Nombres", "Sueldo Basico"},
		[][]interface{}{
			{"1000", "20-30000000-3", "Pérez, Juan", 450000.50},
			{"1001", "27-31000000-8", "Gómez, Ana"}, // short row
		})

	source, err := OpenReceiptFile(path)
	if err != nil {
		t.Fatalf("OpenReceiptFile returned error: %v", err)
	}

	columns := source.Columns()
	if len(columns) != 4 {
		t.Fatalf("columns = %v, want 4", columns)
	}
	// Header cells are trimmed at open time.
	if columns[0] != ColLegajo {
		t.Errorf("first column = %q, want %q", columns[0], ColLegajo)
	}

	if source.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", source.Len())
	}

	row, err := source.Row(0)
	if err != nil {
		t.Fatalf("Row(0) returned error: %v", err)
	}
	if row[ColLegajo] != "1000" || row[ColApellidoNombre] != "Pérez, Juan" {
		t.Errorf("Row(0) = %v", row)
	}

	// Cells beyond a short row read as empty, not out of range.
	row, err = source.Row(1)
	if err != nil {
		t.Fatalf("Row(1) returned error: %v", err)
	}
	if row[ColSueldoBasico] != "" {
		t.Errorf("short row sueldo = %q, want empty", row[ColSueldoBasico])
	}
}

func TestOpenReceiptFileHeaderOnly(t *testing.T) {
	path := writeWorkbook(t, []string{ColLegajo, ColCuil, ColApellidoNombre}, nil)

	source, err := OpenReceiptFile(path)
	if err != nil {
		t.Fatalf("OpenReceiptFile returned error: %v", err)
	}
	if source.Len() != 0 {
		t.Errorf("Len() = %d, want 0", source.Len())
	}
}

func TestOpenReceiptFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recibos.xlsx")
	if err := os.WriteFile(path, []byte("not a workbook"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenReceiptFile(path); err == nil {
		t.Error("OpenReceiptFile accepted a non-xlsx file")
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"450000.50", 450000.50},
		{"1,234,567.89", 1234567.89},
		{"-", 0},
		{"", 0},
		{"  300 ", 300},
		{"0", 0},
	}

	for _, tt := range tests {
		if got := parseAmount(tt.input); got != tt.want {
			t.Errorf("parseAmount(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
