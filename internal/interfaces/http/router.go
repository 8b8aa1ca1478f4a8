// Package http expone los endpoints del servidor stub de desarrollo:
// la misma superficie /api/inventory/ del backend real, sobre el almacén
// en memoria. Permite desarrollar y probar el cliente sin backend.
package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/inventario-dashboard/internal/application/analytics"
	"github.com/tu-usuario/inventario-dashboard/internal/application/ingest"
	"github.com/tu-usuario/inventario-dashboard/internal/domain/entity"
	"github.com/tu-usuario/inventario-dashboard/internal/infrastructure/memory"
	"github.com/tu-usuario/inventario-dashboard/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Store    *memory.Store
	Analysis *analytics.AnalysisUseCase
	Ingest   *ingest.UseCase
	PDF      ReportPDFGenerator
	Log      *logger.Logger
}

// ReportPDFGenerator es el puerto de generación de PDFs de exportación.
type ReportPDFGenerator interface {
	GenerateAnalysis(inventoryName string, items []entity.AnalysisItem) ([]byte, error)
	GenerateMovements(inventoryName string, records []entity.MovementRecord) ([]byte, error)
}

// Router registra las rutas del stub.
func Router(app *fiber.App, deps RouterDeps) {
	h := NewInventoryHandler(deps)

	api := app.Group("/api/inventory")

	api.Get("/welcome/", h.Welcome)
	api.Get("/summary/", h.Summary)
	api.Get("/analysis/", h.Analysis)
	api.Get("/records/", h.Records)
	api.Get("/monthly-movements/", h.MonthlyMovements)
	api.Get("/products/", h.Products)
	api.Get("/product-history/:code/", h.ProductHistory)
	api.Get("/batches/", h.Batches)
	api.Get("/last-update/", h.LastUpdate)
	api.Get("/list-inventories/", h.ListInventories)
	api.Post("/create-inventory/", h.CreateInventory)
	api.Post("/upload-base/", h.UploadBase)
	api.Post("/update/", h.Update)
	api.Get("/export-analysis/", h.ExportAnalysis)
	api.Get("/export-movements/", h.ExportMovements)
}
