package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Spreadsheet column names expected in a receipt file.
const (
	ColLegajo         = "Legajo"
	ColCuil           = "CUIL"
	ColApellidoNombre = "Apellido y Nombres"
	ColDni            = "DNI"
	ColCategoria      = "Categoria"
	ColSector         = "Sector"
	ColBanco          = "Banco"
	ColCbu            = "CBU"
	ColFechaIngreso   = "Fecha Ingreso"
	ColSueldoBasico   = "Sueldo Basico"
)

// RequiredReceiptColumns must all be present in the header row before a
// single data row is read.
var RequiredReceiptColumns = []string{ColLegajo, ColCuil, ColApellidoNombre}

// RowSource yields ordered, column-named spreadsheet rows. Row returning an
// error signals an unrecoverable read failure and aborts the whole import.
type RowSource interface {
	Columns() []string
	Len() int
	Row(i int) (map[string]string, error)
}

// ReceiptFileSource is the excelize-backed RowSource over the first sheet of
// an uploaded workbook. All rows are materialized at open time, so read
// failures surface before the import starts.
type ReceiptFileSource struct {
	columns []string
	rows    [][]string
}

func OpenReceiptFile(filePath string) (*ReceiptFileSource, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("file must contain a header row")
	}

	columns := make([]string, 0, len(rows[0]))
	for _, name := range rows[0] {
		columns = append(columns, strings.TrimSpace(name))
	}

	return &ReceiptFileSource{
		columns: columns,
		rows:    rows[1:],
	}, nil
}

func (s *ReceiptFileSource) Columns() []string {
	return s.columns
}

func (s *ReceiptFileSource) Len() int {
	return len(s.rows)
}

func (s *ReceiptFileSource) Row(i int) (map[string]string, error) {
	raw := s.rows[i]
	row := make(map[string]string, len(s.columns))
	for j, name := range s.columns {
		if name == "" {
			continue
		}
		row[name] = getCellValue(raw, j)
	}
	return row, nil
}

func getCellValue(row []string, index int) string {
	if index < len(row) {
		return row[index]
	}
	return ""
}

// parseAmount reads a money cell; "-" and empty cells mean zero, thousand
// separators are tolerated.
func parseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "-" || s == "" {
		return 0.0
	}
	s = strings.ReplaceAll(s, ",", "")
	if result, err := strconv.ParseFloat(s, 64); err == nil {
		return result
	}
	var result float64
	fmt.Sscanf(s, "%f", &result)
	return result
}
