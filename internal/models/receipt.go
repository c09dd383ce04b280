package models

import (
	"database/sql"
	"time"
)

// PayrollReceipt is one imported spreadsheet line. Rows are tagged with the
// import id so a cancelled import can be rolled back without touching rows
// that belong to other imports. Rows are inserted once and never updated.
type PayrollReceipt struct {
	ID       int64  `db:"id" json:"id"`
	ImportID string `db:"import_id" json:"import_id"`

	// Identifying fields (mandatory in the source file)
	Legajo         string `db:"legajo" json:"legajo"`
	Cuil           string `db:"cuil" json:"cuil"`
	ApellidoNombre string `db:"apellido_nombre" json:"apellido_nombre"`

	// Optional fields
	Dni          sql.NullString `db:"dni" json:"dni"`
	Categoria    sql.NullString `db:"categoria" json:"categoria"`
	Sector       sql.NullString `db:"sector" json:"sector"`
	Banco        sql.NullString `db:"banco" json:"banco"`
	Cbu          sql.NullString `db:"cbu" json:"cbu"`
	FechaIngreso sql.NullString `db:"fecha_ingreso" json:"fecha_ingreso"`
	SueldoBasico float64        `db:"sueldo_basico" json:"sueldo_basico"`

	// Declared once per import, copied onto every row
	PeriodoLiquidacion string `db:"periodo_liquidacion" json:"periodo_liquidacion"`
	FechaPago          string `db:"fecha_pago" json:"fecha_pago"`
	TipoLiquidacion    string `db:"tipo_liquidacion" json:"tipo_liquidacion"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
