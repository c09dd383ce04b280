package handler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fede221/sistema-rrhh-sub000/internal/config"
	"github.com/fede221/sistema-rrhh-sub000/internal/models"
	"github.com/fede221/sistema-rrhh-sub000/internal/repository"
	"github.com/fede221/sistema-rrhh-sub000/internal/service"
	"github.com/fede221/sistema-rrhh-sub000/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ImportService is the slice of the import engine the handler needs.
type ImportService interface {
	Start(meta service.ImportMetadata, source service.RowSource) (string, error)
	Progress() models.ImportProgress
	RequestCancel() bool
}

// HistoryReader serves the audit-trail endpoints.
type HistoryReader interface {
	GetByImportID(importID string) (*models.ImportHistory, error)
	List(filter repository.HistoryFilter, limit, offset int) ([]models.ImportHistory, int, error)
}

// ReceiptReader serves the per-import row listing.
type ReceiptReader interface {
	ListByImportID(importID string, limit, offset int) ([]models.PayrollReceipt, int, error)
}

type ImportHandler struct {
	engine   ImportService
	history  HistoryReader
	receipts ReceiptReader
	cfg      *config.Config
}

func NewImportHandler(engine ImportService, history HistoryReader, receipts ReceiptReader, cfg *config.Config) *ImportHandler {
	return &ImportHandler{
		engine:   engine,
		history:  history,
		receipts: receipts,
		cfg:      cfg,
	}
}

func (h *ImportHandler) StartImport(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File is required", err)
	}

	ext := filepath.Ext(file.Filename)
	if ext != ".xlsx" && ext != ".xls" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only Excel files (.xlsx, .xls) are allowed", nil)
	}
	if file.Size > int64(h.cfg.UploadMaxSize) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File size exceeds maximum limit", nil)
	}

	meta := service.ImportMetadata{
		UserID:             headerUserID(c),
		Filename:           file.Filename,
		PeriodoLiquidacion: c.FormValue("periodo_liquidacion"),
		FechaPago:          c.FormValue("fecha_pago"),
		TipoLiquidacion:    c.FormValue("tipo_liquidacion"),
	}

	if err := os.MkdirAll(h.cfg.UploadPath, 0o755); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to prepare upload directory", err)
	}
	filePath := filepath.Join(h.cfg.UploadPath, fmt.Sprintf("%s%s", uuid.New().String(), ext))
	if err := c.SaveFile(file, filePath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save file", err)
	}

	source, err := service.OpenReceiptFile(filePath)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to parse Excel file", err)
	}

	importID, err := h.engine.Start(meta, source)
	if err != nil {
		var preflight *service.PreflightError
		switch {
		case errors.Is(err, service.ErrImportInProgress):
			return utils.ErrorResponse(c, fiber.StatusConflict, "An import is already in progress", err)
		case errors.As(err, &preflight):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success":         false,
				"message":         preflight.Reason,
				"missing_columns": preflight.MissingColumns,
				"present_columns": preflight.PresentColumns,
			})
		default:
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to start import", err)
		}
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"message": "Import started",
		"data": fiber.Map{
			"import_id":  importID,
			"filename":   file.Filename,
			"total_rows": source.Len(),
		},
	})
}

func (h *ImportHandler) GetProgress(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, "Import progress", h.engine.Progress())
}

func (h *ImportHandler) CancelImport(c *fiber.Ctx) error {
	if !h.engine.RequestCancel() {
		return utils.SuccessResponse(c, "No import in progress", fiber.Map{"cancelled": false})
	}
	return utils.SuccessResponse(c, "Cancellation requested", fiber.Map{"cancelled": true})
}

func (h *ImportHandler) ListHistory(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	userID, _ := strconv.Atoi(c.Query("user_id", "0"))
	filter := repository.HistoryFilter{
		State:              c.Query("state", ""),
		UserID:             userID,
		PeriodoLiquidacion: c.Query("periodo_liquidacion", ""),
	}

	records, total, err := h.history.List(filter, params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve import history", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Import history retrieved", fiber.Map{
		"history":    records,
		"pagination": pagination,
	}, pagination)
}

func (h *ImportHandler) GetHistoryDetail(c *fiber.Ctx) error {
	record, err := h.history.GetByImportID(c.Params("importId"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Import not found", err)
	}
	return utils.SuccessResponse(c, "Import retrieved", record)
}

func (h *ImportHandler) ListReceipts(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	receipts, total, err := h.receipts.ListByImportID(c.Params("importId"), params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve receipts", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))
	return utils.PaginatedResponseBuilder(c, "Receipts retrieved", fiber.Map{
		"receipts":   receipts,
		"pagination": pagination,
	}, pagination)
}

// headerUserID reads the importing user from the gateway-injected header.
// Authentication itself lives outside this service.
func headerUserID(c *fiber.Ctx) int {
	id, _ := strconv.Atoi(c.Get("X-User-ID", "0"))
	return id
}
