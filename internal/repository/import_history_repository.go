package repository

import (
	"fmt"
	"strings"

	"github.com/fede221/sistema-rrhh-sub000/internal/models"
	"github.com/fede221/sistema-rrhh-sub000/internal/utils"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// historyUpdatableColumns is the closed set of columns an UPDATE may touch.
// Anything else is dropped before query building, so a caller-influenced key
// can never reach write access to an arbitrary column.
var historyUpdatableColumns = []string{
	"state",
	"finished_at",
	"processing_seconds",
	"processed_count",
	"success_count",
	"failure_count",
	"notes",
}

type ImportHistoryRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func NewImportHistoryRepository(db *sqlx.DB) *ImportHistoryRepository {
	return &ImportHistoryRepository{db: db, log: utils.GetLogger()}
}

func (r *ImportHistoryRepository) Create(h *models.ImportHistory) error {
	if h.State == "" {
		h.State = models.ImportStateInProgress
	}
	query := `INSERT INTO receipt_import_history (import_id, user_id, filename,
	          periodo_liquidacion, fecha_pago, tipo_liquidacion, total_rows, state)
	          VALUES (:import_id, :user_id, :filename, :periodo_liquidacion,
	          :fecha_pago, :tipo_liquidacion, :total_rows, :state)`
	result, err := r.db.NamedExec(query, h)
	if err != nil {
		return fmt.Errorf("failed to create import history: %w", err)
	}
	id, _ := result.LastInsertId()
	h.ID = id
	return nil
}

// UpdateByImportID applies a partial update restricted to the updatable-column
// whitelist. Keys outside the whitelist are dropped with a warning; if nothing
// survives the filter the call succeeds without touching the database. An
// updated_at stamp is always set alongside the allowed fields.
func (r *ImportHistoryRepository) UpdateByImportID(importID string, fields map[string]interface{}) error {
	filtered := r.filterUpdatableFields(importID, fields)
	if len(filtered) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(filtered)+1)
	args := make([]interface{}, 0, len(filtered)+1)
	for _, col := range historyUpdatableColumns {
		if value, ok := filtered[col]; ok {
			setClauses = append(setClauses, col+" = ?")
			args = append(args, value)
		}
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	query := "UPDATE receipt_import_history SET " + strings.Join(setClauses, ", ") + " WHERE import_id = ?"
	args = append(args, importID)

	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update import history %s: %w", importID, err)
	}
	return nil
}

func (r *ImportHistoryRepository) filterUpdatableFields(importID string, fields map[string]interface{}) map[string]interface{} {
	filtered := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		if !isUpdatableHistoryColumn(key) {
			r.log.WithFields(logrus.Fields{
				"import_id": importID,
				"field":     key,
			}).Warn("dropping non-updatable import history field")
			continue
		}
		filtered[key] = value
	}
	return filtered
}

func isUpdatableHistoryColumn(name string) bool {
	for _, col := range historyUpdatableColumns {
		if col == name {
			return true
		}
	}
	return false
}

func (r *ImportHistoryRepository) GetByImportID(importID string) (*models.ImportHistory, error) {
	var h models.ImportHistory
	query := "SELECT * FROM receipt_import_history WHERE import_id = ? LIMIT 1"
	if err := r.db.Get(&h, query, importID); err != nil {
		return nil, err
	}
	return &h, nil
}

// HistoryFilter narrows the audit-trail listing. Zero values mean "no filter".
type HistoryFilter struct {
	State              string
	UserID             int
	PeriodoLiquidacion string
}

func (r *ImportHistoryRepository) List(filter HistoryFilter, limit, offset int) ([]models.ImportHistory, int, error) {
	whereConditions := []string{}
	args := []interface{}{}

	if filter.State != "" {
		whereConditions = append(whereConditions, "state = ?")
		args = append(args, filter.State)
	}
	if filter.UserID > 0 {
		whereConditions = append(whereConditions, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.PeriodoLiquidacion != "" {
		whereConditions = append(whereConditions, "periodo_liquidacion = ?")
		args = append(args, filter.PeriodoLiquidacion)
	}

	whereClause := ""
	if len(whereConditions) > 0 {
		whereClause = "WHERE " + strings.Join(whereConditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM receipt_import_history " + whereClause
	if err := r.db.Get(&total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	var records []models.ImportHistory
	query := "SELECT * FROM receipt_import_history " + whereClause + " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	if err := r.db.Select(&records, query, args...); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
