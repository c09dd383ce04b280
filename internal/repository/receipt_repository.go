package repository

import (
	"fmt"

	"github.com/fede221/sistema-rrhh-sub000/internal/models"

	"github.com/jmoiron/sqlx"
)

type ReceiptRepository struct {
	db *sqlx.DB
}

func NewReceiptRepository(db *sqlx.DB) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

func (r *ReceiptRepository) Insert(receipt *models.PayrollReceipt) error {
	query := `INSERT INTO payroll_receipts (import_id, legajo, cuil, apellido_nombre,
	          dni, categoria, sector, banco, cbu, fecha_ingreso, sueldo_basico,
	          periodo_liquidacion, fecha_pago, tipo_liquidacion)
	          VALUES (:import_id, :legajo, :cuil, :apellido_nombre,
	          :dni, :categoria, :sector, :banco, :cbu, :fecha_ingreso, :sueldo_basico,
	          :periodo_liquidacion, :fecha_pago, :tipo_liquidacion)`
	result, err := r.db.NamedExec(query, receipt)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	receipt.ID = id
	return nil
}

// DeleteByImportID removes every receipt row written under the given import
// id. Used by the cancellation rollback; returns the number of rows removed.
func (r *ReceiptRepository) DeleteByImportID(importID string) (int64, error) {
	result, err := r.db.Exec("DELETE FROM payroll_receipts WHERE import_id = ?", importID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete receipts for import %s: %w", importID, err)
	}
	deleted, _ := result.RowsAffected()
	return deleted, nil
}

func (r *ReceiptRepository) ListByImportID(importID string, limit, offset int) ([]models.PayrollReceipt, int, error) {
	var total int
	countQuery := "SELECT COUNT(*) FROM payroll_receipts WHERE import_id = ?"
	if err := r.db.Get(&total, countQuery, importID); err != nil {
		return nil, 0, err
	}

	var receipts []models.PayrollReceipt
	query := "SELECT * FROM payroll_receipts WHERE import_id = ? ORDER BY id LIMIT ? OFFSET ?"
	if err := r.db.Select(&receipts, query, importID, limit, offset); err != nil {
		return nil, 0, err
	}

	return receipts, total, nil
}
