package main

import (
	"fmt"
	"log"
	"os"

	"github.com/xuri/excelize/v2"
)

// Generates a sample receipts workbook for exercising the import endpoint:
// mostly valid rows, a few rows with missing mandatory fields, and date cells
// written as raw Excel serials.
func main() {
	outputPath := "sample_receipts.xlsx"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Recibos"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		log.Fatalf("Failed to create sheet: %v", err)
	}

	headers := []string{
		"Legajo", "CUIL", "Apellido y Nombres", "DNI", "Categoria",
		"Sector", "Banco", "CBU", "Fecha Ingreso", "Sueldo Basico",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	names := []string{
		"García, María José", "Pérez, Juan Ignacio", "Gómez, Lucía",
		"Fernández, Martín", "Rodríguez, Sofía", "López, Joaquín",
		"Martínez, Valentina", "Núñez, Ramón", "Díaz, Camila", "Suárez, Andrés",
	}

	row := 2
	for i := 0; i < 50; i++ {
		name := names[i%len(names)]
		values := []interface{}{
			fmt.Sprintf("%04d", 1000+i),
			fmt.Sprintf("20-%08d-%d", 30000000+i*7, i%10),
			name,
			fmt.Sprintf("%08d", 30000000+i*7),
			"Administrativo",
			"Administración",
			"Banco Nación",
			fmt.Sprintf("%022d", 1000000000+i),
			38000 + i*30, // Excel date serial
			450000.50 + float64(i)*1000,
		}
		writeRow(f, sheetName, row, values)
		row++
	}

	// Rows with missing mandatory fields, to exercise per-row failures
	writeRow(f, sheetName, row, []interface{}{"", "20-11111111-1", "Sin Legajo, Empleado", "11111111", "Operario", "Planta", "Banco Provincia", "", 39000, 380000})
	row++
	writeRow(f, sheetName, row, []interface{}{"9001", "", "Sin Cuil, Empleado", "22222222", "Operario", "Planta", "Banco Provincia", "", 39100, 380000})
	row++
	writeRow(f, sheetName, row, []interface{}{"9002", "20-33333333-3", "", "33333333", "Operario", "Planta", "Banco Provincia", "", 39200, 380000})

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(outputPath); err != nil {
		log.Fatalf("Failed to save workbook: %v", err)
	}
	log.Printf("Sample receipts workbook written to %s", outputPath)
}

func writeRow(f *excelize.File, sheetName string, row int, values []interface{}) {
	for i, value := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheetName, cell, value)
	}
}
