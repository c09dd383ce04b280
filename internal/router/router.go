package router

import (
	"github.com/fede221/sistema-rrhh-sub000/internal/config"
	"github.com/fede221/sistema-rrhh-sub000/internal/handler"
	"github.com/fede221/sistema-rrhh-sub000/internal/repository"
	"github.com/fede221/sistema-rrhh-sub000/internal/service"
	"github.com/fede221/sistema-rrhh-sub000/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
)

func Setup(app *fiber.App, db *sqlx.DB, cfg *config.Config) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"app":    cfg.AppName,
		})
	})

	api := app.Group("/api/v1")
	SetupAPIRoutes(api, db, cfg)
}

func SetupAPIRoutes(router fiber.Router, db *sqlx.DB, cfg *config.Config) {
	receiptRepo := repository.NewReceiptRepository(db)
	historyRepo := repository.NewImportHistoryRepository(db)

	engine := service.NewImportEngine(receiptRepo, historyRepo, utils.GetLogger(), service.EngineConfig{
		SnapshotEvery: cfg.SnapshotEvery,
		InsertRetries: cfg.InsertRetries,
	})

	importHandler := handler.NewImportHandler(engine, historyRepo, receiptRepo, cfg)

	imports := router.Group("/receipt-imports")
	imports.Post("/", importHandler.StartImport)
	imports.Get("/progress", importHandler.GetProgress)
	imports.Post("/cancel", importHandler.CancelImport)
	imports.Get("/history", importHandler.ListHistory)
	imports.Get("/history/:importId", importHandler.GetHistoryDetail)
	imports.Get("/:importId/receipts", importHandler.ListReceipts)
}
