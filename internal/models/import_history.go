package models

import (
	"database/sql"
	"time"
)

// Import history states
const (
	ImportStateInProgress          = "in_progress"
	ImportStateCompleted           = "completed"
	ImportStateCompletedWithErrors = "completed_with_errors"
	ImportStateCancelled           = "cancelled"
	ImportStateError               = "error"
)

// ImportHistory is the durable audit record of one import attempt, keyed by
// import_id. Descriptive fields are fixed at creation; only the fields covered
// by the repository whitelist may change afterwards. Records are never deleted
// by the engine.
type ImportHistory struct {
	ID       int64  `db:"id" json:"id"`
	ImportID string `db:"import_id" json:"import_id"`

	UserID             int    `db:"user_id" json:"user_id"`
	Filename           string `db:"filename" json:"filename"`
	PeriodoLiquidacion string `db:"periodo_liquidacion" json:"periodo_liquidacion"`
	FechaPago          string `db:"fecha_pago" json:"fecha_pago"`
	TipoLiquidacion    string `db:"tipo_liquidacion" json:"tipo_liquidacion"`
	TotalRows          int    `db:"total_rows" json:"total_rows"`

	State             string         `db:"state" json:"state"`
	ProcessedCount    int            `db:"processed_count" json:"processed_count"`
	SuccessCount      int            `db:"success_count" json:"success_count"`
	FailureCount      int            `db:"failure_count" json:"failure_count"`
	ProcessingSeconds float64        `db:"processing_seconds" json:"processing_seconds"`
	Notes             sql.NullString `db:"notes" json:"notes"`
	FinishedAt        sql.NullTime   `db:"finished_at" json:"finished_at"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// HistoryUpdate is the closed set of mutations allowed on an existing history
// record, one field per updatable column. Callers set only what changed.
type HistoryUpdate struct {
	State             *string
	FinishedAt        *time.Time
	ProcessingSeconds *float64
	ProcessedCount    *int
	SuccessCount      *int
	FailureCount      *int
	Notes             *string
}

// Fields flattens the update into column/value pairs. Only columns named here
// can ever reach an UPDATE statement; the repository re-checks the keys
// against its whitelist before building the query.
func (u HistoryUpdate) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if u.State != nil {
		fields["state"] = *u.State
	}
	if u.FinishedAt != nil {
		fields["finished_at"] = *u.FinishedAt
	}
	if u.ProcessingSeconds != nil {
		fields["processing_seconds"] = *u.ProcessingSeconds
	}
	if u.ProcessedCount != nil {
		fields["processed_count"] = *u.ProcessedCount
	}
	if u.SuccessCount != nil {
		fields["success_count"] = *u.SuccessCount
	}
	if u.FailureCount != nil {
		fields["failure_count"] = *u.FailureCount
	}
	if u.Notes != nil {
		fields["notes"] = *u.Notes
	}
	return fields
}
