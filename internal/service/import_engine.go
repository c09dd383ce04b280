package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fede221/sistema-rrhh-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrImportInProgress is returned when a second import is started while one
// is still running. Only one import may be in flight at a time.
var ErrImportInProgress = errors.New("an import is already in progress")

// PreflightError describes a validation failure detected before any row or
// history record is written.
type PreflightError struct {
	Reason         string
	MissingColumns []string
	PresentColumns []string
}

func (e *PreflightError) Error() string {
	if len(e.MissingColumns) > 0 {
		return fmt.Sprintf("%s: missing columns [%s], present columns [%s]",
			e.Reason,
			strings.Join(e.MissingColumns, ", "),
			strings.Join(e.PresentColumns, ", "))
	}
	return e.Reason
}

// ImportMetadata is the caller-declared context of one import run.
type ImportMetadata struct {
	UserID             int
	Filename           string
	PeriodoLiquidacion string
	FechaPago          string
	TipoLiquidacion    string
}

// ReceiptStore is the slice of the receipt repository the engine needs.
type ReceiptStore interface {
	Insert(receipt *models.PayrollReceipt) error
	DeleteByImportID(importID string) (int64, error)
}

// HistoryStore is the slice of the history repository the engine needs.
type HistoryStore interface {
	Create(h *models.ImportHistory) error
	UpdateByImportID(importID string, fields map[string]interface{}) error
}

type EngineConfig struct {
	// SnapshotEvery is the row cadence at which counters are flushed to the
	// durable history record.
	SnapshotEvery int
	// InsertRetries is how many extra insert attempts a row gets before its
	// persistence failure is counted against the batch.
	InsertRetries int
}

// ImportEngine runs at most one receipt import at a time. The loop is a
// single goroutine; handlers share the job slot through a mutex and signal
// cancellation through an atomic flag the loop checks once per row.
type ImportEngine struct {
	receipts ReceiptStore
	history  HistoryStore
	log      *logrus.Logger
	cfg      EngineConfig

	mu        sync.Mutex
	job       *models.ImportJob
	cancelReq atomic.Bool
}

func NewImportEngine(receipts ReceiptStore, history HistoryStore, log *logrus.Logger, cfg EngineConfig) *ImportEngine {
	if cfg.SnapshotEvery <= 0 {
		cfg.SnapshotEvery = 100
	}
	if cfg.InsertRetries < 0 {
		cfg.InsertRetries = 0
	}
	return &ImportEngine{
		receipts: receipts,
		history:  history,
		log:      log,
		cfg:      cfg,
	}
}

// Start validates the request, creates the durable history record and kicks
// off the row loop in the background, returning the new import id without
// waiting for any row to be processed. A running import is rejected with
// ErrImportInProgress; validation failures return a *PreflightError before
// anything is written.
func (e *ImportEngine) Start(meta ImportMetadata, source RowSource) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.job != nil && !e.job.Finished {
		return "", ErrImportInProgress
	}
	if err := validateStart(meta, source); err != nil {
		return "", err
	}

	importID := uuid.New().String()
	record := &models.ImportHistory{
		ImportID:           importID,
		UserID:             meta.UserID,
		Filename:           meta.Filename,
		PeriodoLiquidacion: meta.PeriodoLiquidacion,
		FechaPago:          meta.FechaPago,
		TipoLiquidacion:    meta.TipoLiquidacion,
		TotalRows:          source.Len(),
		State:              models.ImportStateInProgress,
	}
	if err := e.history.Create(record); err != nil {
		return "", fmt.Errorf("failed to create import history: %w", err)
	}

	e.cancelReq.Store(false)
	e.job = &models.ImportJob{
		ImportID:  importID,
		TotalRows: source.Len(),
		StartedAt: time.Now(),
	}

	e.log.WithFields(logrus.Fields{
		"import_id":  importID,
		"filename":   meta.Filename,
		"total_rows": source.Len(),
	}).Info("receipt import started")

	go e.run(importID, meta, source)
	return importID, nil
}

// RequestCancel flips the cancellation flag consulted by the row loop. It
// does not block and does not touch storage; the loop performs the rollback
// on its next per-row check. Calling it with no active import is a no-op, and
// repeated calls are idempotent. Reports whether an active import was found.
func (e *ImportEngine) RequestCancel() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.job == nil || e.job.Finished {
		return false
	}
	e.cancelReq.Store(true)
	return true
}

// Progress returns a snapshot of the active (or last finished) import.
func (e *ImportEngine) Progress() models.ImportProgress {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.job == nil {
		return models.ImportProgress{}
	}

	errs := make([]models.RowIssue, len(e.job.Errors))
	copy(errs, e.job.Errors)
	warnings := make([]models.RowIssue, len(e.job.Warnings))
	copy(warnings, e.job.Warnings)

	return models.ImportProgress{
		ImportID:                  e.job.ImportID,
		Active:                    !e.job.Finished,
		TotalRows:                 e.job.TotalRows,
		ProcessedRows:             e.job.ProcessedRows,
		SuccessCount:              e.job.SuccessCount,
		FailureCount:              e.job.FailureCount,
		StartedAt:                 e.job.StartedAt,
		EstimatedRemainingSeconds: e.job.EstimatedRemainingSeconds,
		Finished:                  e.job.Finished,
		HasErrors:                 len(errs) > 0,
		ErrorCount:                len(errs),
		HasWarnings:               len(warnings) > 0,
		WarningCount:              len(warnings),
		Errors:                    errs,
		Warnings:                  warnings,
	}
}

func validateStart(meta ImportMetadata, source RowSource) error {
	var missing []string
	if strings.TrimSpace(meta.Filename) == "" {
		missing = append(missing, "filename")
	}
	if strings.TrimSpace(meta.PeriodoLiquidacion) == "" {
		missing = append(missing, "periodo_liquidacion")
	}
	if strings.TrimSpace(meta.FechaPago) == "" {
		missing = append(missing, "fecha_pago")
	}
	if strings.TrimSpace(meta.TipoLiquidacion) == "" {
		missing = append(missing, "tipo_liquidacion")
	}
	if len(missing) > 0 {
		return &PreflightError{Reason: "missing required metadata: " + strings.Join(missing, ", ")}
	}

	if source.Len() == 0 {
		return &PreflightError{Reason: "the file contains no data rows"}
	}

	var missingColumns []string
	for _, want := range RequiredReceiptColumns {
		if resolveColumn(source.Columns(), want) == "" {
			missingColumns = append(missingColumns, want)
		}
	}
	if len(missingColumns) > 0 {
		return &PreflightError{
			Reason:         "required columns are missing",
			MissingColumns: missingColumns,
			PresentColumns: sampleColumns(source.Columns(), 10),
		}
	}
	return nil
}

// resolveColumn finds the header as written in the file, matching the
// expected name case-insensitively.
func resolveColumn(columns []string, want string) string {
	for _, c := range columns {
		if strings.EqualFold(strings.TrimSpace(c), want) {
			return c
		}
	}
	return ""
}

func sampleColumns(columns []string, max int) []string {
	sample := make([]string, 0, max)
	for _, c := range columns {
		if strings.TrimSpace(c) == "" {
			continue
		}
		sample = append(sample, c)
		if len(sample) == max {
			break
		}
	}
	return sample
}

func (e *ImportEngine) run(importID string, meta ImportMetadata, source RowSource) {
	columns := source.Columns()
	total := source.Len()

	for i := 0; i < total; i++ {
		if e.cancelReq.Load() {
			e.rollback(importID)
			return
		}

		row, err := source.Row(i)
		if err != nil {
			e.abort(importID, fmt.Errorf("failed to read row %d: %w", i+1, err))
			return
		}

		e.processRow(importID, meta, columns, i+1, row)
		e.afterRow(total)

		if (i+1)%e.cfg.SnapshotEvery == 0 {
			e.snapshot(importID)
		}
	}

	e.finish(importID)
}

// processRow validates, sanitizes and persists a single spreadsheet row. Row
// problems are recorded against the job and never abort the batch.
func (e *ImportEngine) processRow(importID string, meta ImportMetadata, columns []string, rowNum int, row map[string]string) {
	cell := func(name string) string {
		return row[resolveColumn(columns, name)]
	}

	label := CleanText(cell(ColApellidoNombre))
	if label == "" {
		label = fmt.Sprintf("row %d", rowNum)
	}

	var messages []string
	for _, required := range RequiredReceiptColumns {
		if strings.TrimSpace(cell(required)) == "" {
			messages = append(messages, fmt.Sprintf("%s is required", required))
		}
	}
	if len(messages) > 0 {
		e.recordError(rowNum, messages, label)
		return
	}

	receipt := &models.PayrollReceipt{
		ImportID:           importID,
		Legajo:             CleanIdentifier(cell(ColLegajo)),
		Cuil:               CleanIdentifier(cell(ColCuil)),
		ApellidoNombre:     CleanText(cell(ColApellidoNombre)),
		Dni:                nullableIdentifier(cell(ColDni)),
		Categoria:          nullableText(cell(ColCategoria)),
		Sector:             nullableText(cell(ColSector)),
		Banco:              nullableText(cell(ColBanco)),
		Cbu:                nullableIdentifier(cell(ColCbu)),
		SueldoBasico:       parseAmount(cell(ColSueldoBasico)),
		PeriodoLiquidacion: meta.PeriodoLiquidacion,
		FechaPago:          meta.FechaPago,
		TipoLiquidacion:    meta.TipoLiquidacion,
	}

	if raw := strings.TrimSpace(cell(ColFechaIngreso)); raw != "" {
		if date, ok := ExcelSerialToDate(raw); ok {
			receipt.FechaIngreso = sql.NullString{String: date, Valid: true}
		} else {
			e.recordWarning(rowNum, []string{fmt.Sprintf("%s %q is not a numeric date serial", ColFechaIngreso, raw)}, label)
		}
	}

	var insertErr error
	for attempt := 0; attempt <= e.cfg.InsertRetries; attempt++ {
		if insertErr = e.receipts.Insert(receipt); insertErr == nil {
			break
		}
	}
	if insertErr != nil {
		message := "failed to save row: " + insertErr.Error()
		if isEncodingError(insertErr) {
			message = "failed to save row: text contains characters the storage encoding cannot represent"
		}
		e.recordError(rowNum, []string{message}, label)
		return
	}

	e.mu.Lock()
	e.job.SuccessCount++
	e.mu.Unlock()
}

func (e *ImportEngine) recordError(rowNum int, messages []string, label string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.job.FailureCount++
	e.job.Errors = append(e.job.Errors, models.RowIssue{Row: rowNum, Messages: messages, Label: label})
}

func (e *ImportEngine) recordWarning(rowNum int, messages []string, label string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.job.Warnings = append(e.job.Warnings, models.RowIssue{Row: rowNum, Messages: messages, Label: label})
}

// afterRow advances the processed counter and recomputes the estimate from
// average per-row latency so far.
func (e *ImportEngine) afterRow(total int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.job.ProcessedRows++
	elapsed := time.Since(e.job.StartedAt).Seconds()
	remaining := total - e.job.ProcessedRows
	e.job.EstimatedRemainingSeconds = elapsed / float64(e.job.ProcessedRows) * float64(remaining)
}

// snapshot flushes the running counters into the history record. A failed
// snapshot only widens the durability lag, so it is logged and skipped.
func (e *ImportEngine) snapshot(importID string) {
	e.mu.Lock()
	update := models.HistoryUpdate{
		ProcessedCount: intPtr(e.job.ProcessedRows),
		SuccessCount:   intPtr(e.job.SuccessCount),
		FailureCount:   intPtr(e.job.FailureCount),
	}
	e.mu.Unlock()

	if err := e.history.UpdateByImportID(importID, update.Fields()); err != nil {
		e.log.WithField("import_id", importID).WithError(err).Error("failed to snapshot import progress")
	}
}

func (e *ImportEngine) finish(importID string) {
	e.mu.Lock()
	e.job.Finished = true
	e.job.EstimatedRemainingSeconds = 0
	state := models.ImportStateCompleted
	if e.job.FailureCount > 0 {
		state = models.ImportStateCompletedWithErrors
	}
	update := e.terminalUpdate(state)
	processed, failed := e.job.ProcessedRows, e.job.FailureCount
	e.mu.Unlock()

	if err := e.history.UpdateByImportID(importID, update.Fields()); err != nil {
		e.log.WithField("import_id", importID).WithError(err).Error("failed to finalize import history")
	}

	e.log.WithFields(logrus.Fields{
		"import_id": importID,
		"state":     state,
		"processed": processed,
		"failed":    failed,
	}).Info("receipt import finished")
}

// rollback deletes every row written under the import and marks history
// cancelled. Even if the delete fails, the job slot is freed so a new import
// can start.
func (e *ImportEngine) rollback(importID string) {
	deleted, err := e.receipts.DeleteByImportID(importID)
	if err != nil {
		e.log.WithField("import_id", importID).WithError(err).Error("failed to roll back receipts for cancelled import")
	} else {
		e.log.WithFields(logrus.Fields{
			"import_id": importID,
			"deleted":   deleted,
		}).Info("receipt import cancelled, rows rolled back")
	}

	e.mu.Lock()
	e.job.Finished = true
	e.job.EstimatedRemainingSeconds = 0
	update := e.terminalUpdate(models.ImportStateCancelled)
	update.Notes = stringPtr("import cancelled by operator")
	e.mu.Unlock()

	if err := e.history.UpdateByImportID(importID, update.Fields()); err != nil {
		e.log.WithField("import_id", importID).WithError(err).Error("failed to finalize cancelled import history")
	}
}

// abort handles job-fatal failures: the remaining rows are skipped and the
// history record is marked with the error.
func (e *ImportEngine) abort(importID string, cause error) {
	e.log.WithField("import_id", importID).WithError(cause).Error("receipt import aborted")

	e.mu.Lock()
	e.job.Finished = true
	e.job.EstimatedRemainingSeconds = 0
	update := e.terminalUpdate(models.ImportStateError)
	update.Notes = stringPtr(cause.Error())
	e.mu.Unlock()

	if err := e.history.UpdateByImportID(importID, update.Fields()); err != nil {
		e.log.WithField("import_id", importID).WithError(err).Error("failed to finalize aborted import history")
	}
}

// terminalUpdate builds the final history mutation from the job counters.
// Callers must hold e.mu.
func (e *ImportEngine) terminalUpdate(state string) models.HistoryUpdate {
	now := time.Now()
	seconds := now.Sub(e.job.StartedAt).Seconds()
	return models.HistoryUpdate{
		State:             stringPtr(state),
		FinishedAt:        &now,
		ProcessingSeconds: &seconds,
		ProcessedCount:    intPtr(e.job.ProcessedRows),
		SuccessCount:      intPtr(e.job.SuccessCount),
		FailureCount:      intPtr(e.job.FailureCount),
	}
}

// isEncodingError spots MySQL's "Incorrect string value" class of failures so
// the operator sees a readable message instead of a driver dump.
func isEncodingError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Incorrect string value") || strings.Contains(msg, "Error 1366")
}

func nullableText(v string) sql.NullString {
	cleaned := CleanText(v)
	return sql.NullString{String: cleaned, Valid: cleaned != ""}
}

func nullableIdentifier(v string) sql.NullString {
	cleaned := CleanIdentifier(v)
	return sql.NullString{String: cleaned, Valid: cleaned != ""}
}

func intPtr(v int) *int          { return &v }
func stringPtr(v string) *string { return &v }
