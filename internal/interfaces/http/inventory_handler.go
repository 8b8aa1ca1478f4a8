package http

import (
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/inventario-dashboard/internal/application/analytics"
	"github.com/tu-usuario/inventario-dashboard/internal/application/ingest"
	"github.com/tu-usuario/inventario-dashboard/internal/domain"
	"github.com/tu-usuario/inventario-dashboard/internal/domain/entity"
	"github.com/tu-usuario/inventario-dashboard/internal/domain/inventory"
	"github.com/tu-usuario/inventario-dashboard/internal/infrastructure/excel"
	"github.com/tu-usuario/inventario-dashboard/internal/infrastructure/memory"
	"github.com/tu-usuario/inventario-dashboard/pkg/logger"
)

// recordsLimit es el tope del endpoint records/, como en el backend real.
const recordsLimit = 1000

// InventoryHandler atiende todos los endpoints del stub.
type InventoryHandler struct {
	store    *memory.Store
	analysis *analytics.AnalysisUseCase
	ingest   *ingest.UseCase
	pdf      ReportPDFGenerator
	log      *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(deps RouterDeps) *InventoryHandler {
	return &InventoryHandler{
		store:    deps.Store,
		analysis: deps.Analysis,
		ingest:   deps.Ingest,
		pdf:      deps.PDF,
		log:      deps.Log.Component("stub-server"),
	}
}

func inventoryName(c *fiber.Ctx) string {
	return memory.NormalizeInventoryName(c.Query("inventory_name"))
}

// filterFromQuery reconstruye el FilterState de los query params del análisis.
func filterFromQuery(c *fiber.Ctx) inventory.FilterState {
	f := inventory.FilterState{
		Warehouse:    c.Query("warehouse"),
		Group:        c.Query("category"),
		Rotation:     c.Query("rotation"),
		Stagnant:     c.Query("stagnant"),
		HighRotation: c.Query("high_rotation"),
		Search:       c.Query("search"),
	}
	if t, err := time.Parse("2006-01-02", c.Query("date_from")); err == nil {
		f.DateFrom = &t
	}
	if t, err := time.Parse("2006-01-02", c.Query("date_to")); err == nil {
		f.DateTo = &t
	}
	return f
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

// Welcome responde el saludo del API.
func (h *InventoryHandler) Welcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Welcome to the Inventory API Service!"})
}

// Summary devuelve el resumen global del inventario.
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	return c.JSON(h.analysis.BuildSummary(inventoryName(c)))
}

// analysisFor arma el análisis filtrado que comparten analysis/ y su export.
func (h *InventoryHandler) analysisFor(c *fiber.Ctx) []entity.AnalysisItem {
	f := filterFromQuery(c)
	items := h.analysis.BuildAnalysis(inventoryName(c), f.Group)
	// El grupo ya quedó aplicado en el usecase; el resto de predicados se
	// resuelve con el mismo filtro local que usa el cliente.
	f.Group = ""
	return inventory.FilterAnalysis(items, f)
}

// Analysis devuelve el análisis de productos con filtros aplicados.
func (h *InventoryHandler) Analysis(c *fiber.Ctx) error {
	return c.JSON(h.analysisFor(c))
}

// recordsFor arma los movimientos filtrados que comparten records/,
// monthly-movements/ y el export.
func (h *InventoryHandler) recordsFor(c *fiber.Ctx, limit int) []entity.MovementRecord {
	return h.store.Records(inventoryName(c), memory.RecordsQuery{
		Warehouse: c.Query("warehouse"),
		Category:  c.Query("category"),
		Search:    c.Query("search"),
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
		Limit:     limit,
	})
}

// Records devuelve los movimientos filtrados (máximo 1000, recientes primero).
func (h *InventoryHandler) Records(c *fiber.Ctx) error {
	records := h.recordsFor(c, recordsLimit)
	if records == nil {
		records = []entity.MovementRecord{}
	}
	return c.JSON(records)
}

// MonthlyMovements devuelve la agregación mensual de los movimientos filtrados.
func (h *InventoryHandler) MonthlyMovements(c *fiber.Ctx) error {
	months, skipped := inventory.AggregateMonthly(h.recordsFor(c, 0))
	for _, s := range skipped {
		h.log.Warn().Int("fila", s.Index).Str("fecha", s.RawDate).Msg("movimiento sin fecha válida excluido del agregado")
	}
	return c.JSON(months)
}

// Products devuelve las fichas de producto del archivo base.
func (h *InventoryHandler) Products(c *fiber.Ctx) error {
	products := h.store.Products(inventoryName(c))
	if products == nil {
		products = []entity.ProductInfo{}
	}
	return c.JSON(products)
}

// ProductHistory devuelve el historial cronológico de un producto.
func (h *InventoryHandler) ProductHistory(c *fiber.Ctx) error {
	history := h.store.ProductHistory(inventoryName(c), c.Params("code"))
	if history == nil {
		history = []entity.MovementRecord{}
	}
	return c.JSON(history)
}

// Batches devuelve los batches de importación, recientes primero.
func (h *InventoryHandler) Batches(c *fiber.Ctx) error {
	batches := h.store.Batches(inventoryName(c))
	if batches == nil {
		batches = []entity.ImportBatch{}
	}
	return c.JSON(batches)
}

// LastUpdate devuelve la marca del último batch procesado.
func (h *InventoryHandler) LastUpdate(c *fiber.Ctx) error {
	name := inventoryName(c)
	return c.JSON(entity.LastUpdate{
		InventoryName: name,
		LastUpdate:    h.store.LastUpdate(name),
	})
}

// ListInventories devuelve los nombres de inventario existentes.
func (h *InventoryHandler) ListInventories(c *fiber.Ctx) error {
	return c.JSON(h.store.ListInventories())
}

// CreateInventory crea un inventario vacío.
func (h *InventoryHandler) CreateInventory(c *fiber.Ctx) error {
	var in struct {
		InventoryName string `json:"inventory_name"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "error": "cuerpo inválido"})
	}
	if strings.TrimSpace(in.InventoryName) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "error": "Nombre de inventario requerido"})
	}
	name := memory.NormalizeInventoryName(in.InventoryName)
	if err := h.store.CreateInventory(name); err != nil {
		if errors.Is(err, domain.ErrInventoryExists) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "error": "El inventario ya existe"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"ok": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"ok": true, "inventory_name": name})
}

// ──────────────────────────────────────────────────────────────────────────────
// Cargas
// ──────────────────────────────────────────────────────────────────────────────

func readMultipartFile(fh *multipart.FileHeader) (ingest.File, error) {
	f, err := fh.Open()
	if err != nil {
		return ingest.File{}, err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return ingest.File{}, err
	}
	return ingest.File{Name: fh.Filename, Content: content}, nil
}

func (h *InventoryHandler) processUpload(c *fiber.Ctx, base *ingest.File, updates []ingest.File) error {
	result, err := h.ingest.Process(inventoryName(c), base, updates)
	if err != nil {
		if ingest.IsReject(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "error": err.Error()})
		}
		h.log.Error().Err(err).Msg("fallo procesando carga")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"ok": false, "error": "Error interno procesando la carga"})
	}
	return c.JSON(fiber.Map{
		"ok":             true,
		"batch_id":       result.Batch.ID,
		"products_added": result.ProductsAdded,
		"records_added":  result.RecordsAdded,
		"rows_skipped":   result.RowsSkipped,
		"message":        "Archivo procesado correctamente",
	})
}

// UploadBase recibe el archivo base (campo base_file).
func (h *InventoryHandler) UploadBase(c *fiber.Ctx) error {
	fh, err := c.FormFile("base_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "error": "Debe proporcionar un archivo (base para inicialización o actualización)"})
	}
	base, err := readMultipartFile(fh)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "error": "No se pudo leer el archivo recibido"})
	}
	return h.processUpload(c, &base, nil)
}

// Update recibe archivos de actualización (campo repetido update_files),
// y opcionalmente un base_file si el inventario aún no está inicializado.
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "error": "Debe proporcionar un archivo (base para inicialización o actualización)"})
	}

	var base *ingest.File
	if fhs := form.File["base_file"]; len(fhs) > 0 {
		f, err := readMultipartFile(fhs[0])
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "error": "No se pudo leer el archivo recibido"})
		}
		base = &f
	}

	var updates []ingest.File
	for _, fh := range form.File["update_files"] {
		f, err := readMultipartFile(fh)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "error": "No se pudo leer el archivo recibido"})
		}
		updates = append(updates, f)
	}

	return h.processUpload(c, base, updates)
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportaciones
// ──────────────────────────────────────────────────────────────────────────────

// ExportAnalysis exporta el análisis en excel o pdf según ?format=.
func (h *InventoryHandler) ExportAnalysis(c *fiber.Ctx) error {
	items := h.analysisFor(c)
	switch c.Query("format", "excel") {
	case "excel":
		content, err := excel.WriteAnalysis(items)
		if err != nil {
			return exportError(c, err)
		}
		return sendFile(c, content, excel.MIMEXLSX, "inventory_analysis_"+inventoryName(c)+".xlsx")
	case "pdf":
		content, err := h.pdf.GenerateAnalysis(inventoryName(c), items)
		if err != nil {
			return exportError(c, err)
		}
		return sendFile(c, content, "application/pdf", "inventory_analysis_"+inventoryName(c)+".pdf")
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato no soportado"})
	}
}

// ExportMovements exporta los movimientos en excel o pdf según ?format=.
func (h *InventoryHandler) ExportMovements(c *fiber.Ctx) error {
	records := h.recordsFor(c, 0)
	switch c.Query("format", "excel") {
	case "excel":
		content, err := excel.WriteMovements(records)
		if err != nil {
			return exportError(c, err)
		}
		return sendFile(c, content, excel.MIMEXLSX, "inventory_movements_"+inventoryName(c)+".xlsx")
	case "pdf":
		content, err := h.pdf.GenerateMovements(inventoryName(c), records)
		if err != nil {
			return exportError(c, err)
		}
		return sendFile(c, content, "application/pdf", "inventory_movements_"+inventoryName(c)+".pdf")
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Formato no soportado"})
	}
}

func exportError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func sendFile(c *fiber.Ctx, content []byte, contentType, filename string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(content)
}
