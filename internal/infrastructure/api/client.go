// Package api implementa el cliente HTTP del backend de inventario.
//
// Traduce FilterState a query strings contra los endpoints fijos de
// /api/inventory/, decodifica las respuestas JSON a entidades y entrega los
// bytes crudos de las exportaciones. No reintenta nunca: cada fallo se reporta
// y el usuario decide si vuelve a intentar.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tu-usuario/inventario-dashboard/internal/domain"
	"github.com/tu-usuario/inventario-dashboard/internal/domain/entity"
	"github.com/tu-usuario/inventario-dashboard/internal/domain/inventory"
	"github.com/tu-usuario/inventario-dashboard/pkg/config"
	"github.com/tu-usuario/inventario-dashboard/pkg/logger"
)

const basePath = "/api/inventory"

// Client es el cliente tipado del backend de inventario.
type Client struct {
	baseURL       string
	inventoryName string
	readTimeout   time.Duration
	uploadTimeout time.Duration
	http          *http.Client
	log           *logger.Logger
}

// New construye el cliente. Los timeouts se aplican por operación vía
// context, no en el http.Client, porque lecturas y cargas tienen límites
// distintos (30s y 60s por defecto).
func New(cfg config.APIConfig, log *logger.Logger) *Client {
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		inventoryName: cfg.InventoryName,
		readTimeout:   cfg.ReadTimeout,
		uploadTimeout: cfg.UploadTimeout,
		http:          &http.Client{},
		log:           log.Component("api-client"),
	}
}

// ExportResult es el passthrough crudo de una exportación: status, bytes y
// content type tal como los entregó el backend.
type ExportResult struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// UploadFile es un archivo a cargar en un POST multipart.
type UploadFile struct {
	Name    string
	Content []byte
}

// ──────────────────────────────────────────────────────────────────────────────
// Query params
// ──────────────────────────────────────────────────────────────────────────────

// queryValues mapea los filtros a query params. Campos vacíos se omiten por
// completo: enviar `key=` sobre-restringe el backend.
func (c *Client) queryValues(f inventory.FilterState, withRotation bool) url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set("inventory_name", c.inventoryName)
	set("warehouse", f.Warehouse)
	set("category", f.Group)
	set("search", f.Search)
	if withRotation {
		set("rotation", f.Rotation)
		set("stagnant", f.Stagnant)
		set("high_rotation", f.HighRotation)
	}
	if f.DateFrom != nil {
		q.Set("date_from", f.DateFrom.Format("2006-01-02"))
	}
	if f.DateTo != nil {
		q.Set("date_to", f.DateTo.Format("2006-01-02"))
	}
	return q
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := c.baseURL + basePath + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// ──────────────────────────────────────────────────────────────────────────────
// GET genérico
// ──────────────────────────────────────────────────────────────────────────────

// getJSON ejecuta un GET con el timeout de lectura y decodifica el cuerpo en out.
func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.readTimeout)
	defer cancel()

	u := c.endpoint(path, q)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Str("url", u).Err(err).Msg("fallo de red")
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: leyendo cuerpo: %v", domain.ErrNetwork, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := serverMessage(body)
		c.log.Warn().Str("url", u).Int("status", resp.StatusCode).Str("error", msg).Msg("error del backend")
		return fmt.Errorf("%w (%d): %s", domain.ErrServer, resp.StatusCode, msg)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	return nil
}

// serverMessage extrae el mensaje de un cuerpo {ok:false, error:...} si lo hay.
func serverMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(body))
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas del dashboard
// ──────────────────────────────────────────────────────────────────────────────

// GetSummary trae el resumen global del inventario activo.
func (c *Client) GetSummary(ctx context.Context) (*entity.Summary, error) {
	var s entity.Summary
	if err := c.getJSON(ctx, "/summary/", c.queryValues(inventory.FilterState{}, false), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetAnalysis trae el análisis de productos con los filtros dados.
func (c *Client) GetAnalysis(ctx context.Context, f inventory.FilterState) ([]entity.AnalysisItem, error) {
	var items []entity.AnalysisItem
	if err := c.getJSON(ctx, "/analysis/", c.queryValues(f, true), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetMovements trae las filas de movimientos. Los filtros de rotación y
// estancamiento no aplican a este endpoint y se omiten.
func (c *Client) GetMovements(ctx context.Context, f inventory.FilterState) ([]entity.MovementRecord, error) {
	var records []entity.MovementRecord
	if err := c.getJSON(ctx, "/records/", c.queryValues(f, false), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetMonthlyMovements consulta el endpoint de agregación mensual del backend.
// Si el backend no lo expone (404), el caller puede calcular el agregado
// localmente con inventory.AggregateMonthly sobre GetMovements.
func (c *Client) GetMonthlyMovements(ctx context.Context, f inventory.FilterState) ([]entity.MonthlyMovement, error) {
	var months []entity.MonthlyMovement
	if err := c.getJSON(ctx, "/monthly-movements/", c.queryValues(f, false), &months); err != nil {
		return nil, err
	}
	return months, nil
}

// GetBatches lista los batches de importación del inventario activo.
func (c *Client) GetBatches(ctx context.Context) ([]entity.ImportBatch, error) {
	var batches []entity.ImportBatch
	if err := c.getJSON(ctx, "/batches/", c.queryValues(inventory.FilterState{}, false), &batches); err != nil {
		return nil, err
	}
	return batches, nil
}

// GetProducts lista las fichas de producto del archivo base.
func (c *Client) GetProducts(ctx context.Context) ([]entity.ProductInfo, error) {
	var products []entity.ProductInfo
	if err := c.getJSON(ctx, "/products/", c.queryValues(inventory.FilterState{}, false), &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProductHistory trae el historial de movimientos de un producto.
func (c *Client) GetProductHistory(ctx context.Context, code string) ([]entity.MovementRecord, error) {
	var records []entity.MovementRecord
	path := "/product-history/" + url.PathEscape(code) + "/"
	if err := c.getJSON(ctx, path, c.queryValues(inventory.FilterState{}, false), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// LastUpdate trae la marca del último batch procesado.
func (c *Client) LastUpdate(ctx context.Context) (*entity.LastUpdate, error) {
	var lu entity.LastUpdate
	if err := c.getJSON(ctx, "/last-update/", c.queryValues(inventory.FilterState{}, false), &lu); err != nil {
		return nil, err
	}
	return &lu, nil
}

// Welcome verifica que el backend responde.
func (c *Client) Welcome(ctx context.Context) (string, error) {
	var payload struct {
		Message string `json:"message"`
	}
	if err := c.getJSON(ctx, "/welcome/", nil, &payload); err != nil {
		return "", err
	}
	return payload.Message, nil
}

// ListInventories lista los nombres de inventarios existentes.
func (c *Client) ListInventories(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.getJSON(ctx, "/list-inventories/", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// CreateInventory crea un inventario vacío con el nombre dado.
func (c *Client) CreateInventory(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: nombre de inventario requerido", domain.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, c.readTimeout)
	defer cancel()

	payload, _ := json.Marshal(map[string]string{"inventory_name": name})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/create-inventory/", nil), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w (%d): %s", domain.ErrServer, resp.StatusCode, serverMessage(body))
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Cargas multipart
// ──────────────────────────────────────────────────────────────────────────────

// ValidateUploadFile aplica las validaciones locales antes de tocar la red:
// nombre presente, extensión .xls/.xlsx y contenido no vacío.
func ValidateUploadFile(name string, content []byte) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: nombre de archivo requerido", domain.ErrValidation)
	}
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, ".xls") && !strings.HasSuffix(lower, ".xlsx") {
		return fmt.Errorf("%w: solo se permiten archivos .xls o .xlsx", domain.ErrValidation)
	}
	if len(content) == 0 {
		return fmt.Errorf("%w: el archivo está vacío", domain.ErrValidation)
	}
	return nil
}

// UploadBaseFile carga el archivo base que inicializa el inventario.
//
// Contrato: nunca devuelve error de Go por status no-200 o JSON malformado;
// en esos casos el resultado viene con Ok=false y el mensaje disponible.
// Solo la validación local previa puede devolver error.
func (c *Client) UploadBaseFile(ctx context.Context, content []byte, filename string) (entity.UploadResult, error) {
	if err := ValidateUploadFile(filename, content); err != nil {
		return entity.UploadResult{}, err
	}

	status, body, err := c.postMultipart(ctx, "/upload-base/", []multipartField{
		{field: "base_file", file: UploadFile{Name: filename, Content: content}},
	})
	if err != nil {
		return entity.UploadResult{Ok: false, Error: "no se pudo conectar con el servidor"}, nil
	}

	var result entity.UploadResult
	if jsonErr := json.Unmarshal(body, &result); jsonErr != nil {
		return entity.UploadResult{
			Ok:    false,
			Error: fmt.Sprintf("respuesta inesperada del servidor (status %d)", status),
		}, nil
	}
	if status < 200 || status > 299 {
		result.Ok = false
		if result.Error == "" {
			result.Error = fmt.Sprintf("el servidor respondió con status %d", status)
		}
	}
	return result, nil
}

// UploadUpdateFiles carga uno o más archivos de actualización en un solo POST
// multipart (campo repetido update_files). Devuelve status y cuerpo crudos.
func (c *Client) UploadUpdateFiles(ctx context.Context, files []UploadFile) (int, []byte, error) {
	if len(files) == 0 {
		return 0, nil, fmt.Errorf("%w: no hay archivos para cargar", domain.ErrValidation)
	}
	fields := make([]multipartField, 0, len(files))
	for _, f := range files {
		if err := ValidateUploadFile(f.Name, f.Content); err != nil {
			return 0, nil, err
		}
		fields = append(fields, multipartField{field: "update_files", file: f})
	}
	return c.postMultipart(ctx, "/update/", fields)
}

type multipartField struct {
	field string
	file  UploadFile
}

func (c *Client) postMultipart(ctx context.Context, path string, fields []multipartField) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		part, err := w.CreateFormFile(f.field, f.file.Name)
		if err != nil {
			return 0, nil, fmt.Errorf("%w: armando multipart: %v", domain.ErrNetwork, err)
		}
		if _, err := part.Write(f.file.Content); err != nil {
			return 0, nil, fmt.Errorf("%w: armando multipart: %v", domain.ErrNetwork, err)
		}
	}
	if err := w.Close(); err != nil {
		return 0, nil, fmt.Errorf("%w: cerrando multipart: %v", domain.ErrNetwork, err)
	}

	q := url.Values{}
	if c.inventoryName != "" {
		q.Set("inventory_name", c.inventoryName)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, q), &buf)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Str("path", path).Err(err).Msg("fallo de red en carga")
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: leyendo cuerpo: %v", domain.ErrNetwork, err)
	}
	return resp.StatusCode, body, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportaciones
// ──────────────────────────────────────────────────────────────────────────────

// ExportFormats válidos para los endpoints de exportación.
const (
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// ExportAnalysis descarga el análisis en excel o pdf. El resultado es el
// passthrough crudo: el caller decide nombre de archivo y destino.
func (c *Client) ExportAnalysis(ctx context.Context, format string, f inventory.FilterState) (*ExportResult, error) {
	return c.export(ctx, "/export-analysis/", format, c.queryValues(f, true))
}

// ExportMovements descarga los movimientos en excel o pdf.
func (c *Client) ExportMovements(ctx context.Context, format string, f inventory.FilterState) (*ExportResult, error) {
	return c.export(ctx, "/export-movements/", format, c.queryValues(f, false))
}

func (c *Client) export(ctx context.Context, path, format string, q url.Values) (*ExportResult, error) {
	if format != FormatExcel && format != FormatPDF {
		return nil, fmt.Errorf("%w: formato %q no soportado", domain.ErrValidation, format)
	}

	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	q.Set("format", format)
	u := c.endpoint(path, q)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: leyendo cuerpo: %v", domain.ErrNetwork, err)
	}

	return &ExportResult{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// IsNotFound reporta si el error corresponde a un endpoint inexistente,
// la señal para que el caller use el cálculo local de agregados mensuales.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
