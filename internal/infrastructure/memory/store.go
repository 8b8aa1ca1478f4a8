// Package memory implementa el almacenamiento en memoria del servidor stub de
// desarrollo: productos, movimientos y batches por inventario. Suficiente para
// desarrollar y probar el cliente sin el backend real; nada se persiste.
package memory

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/inventario-dashboard/internal/domain"
	"github.com/tu-usuario/inventario-dashboard/internal/domain/entity"
	"github.com/tu-usuario/inventario-dashboard/internal/domain/inventory"
)

// inventoryData agrupa todo lo de un inventario con nombre propio.
type inventoryData struct {
	products map[string]*entity.ProductInfo
	order    []string // códigos en orden de inserción
	records  []entity.MovementRecord
	batches  []entity.ImportBatch
	nextID   int64
}

// Store es el almacén en memoria, seguro para handlers concurrentes.
type Store struct {
	mu          sync.RWMutex
	inventories map[string]*inventoryData
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{inventories: make(map[string]*inventoryData)}
}

func (s *Store) data(name string) *inventoryData {
	inv, ok := s.inventories[name]
	if !ok {
		inv = &inventoryData{products: make(map[string]*entity.ProductInfo), nextID: 1}
		s.inventories[name] = inv
	}
	return inv
}

// NormalizeInventoryName aplica la regla del backend: trim, minúsculas,
// vacío = "default".
func NormalizeInventoryName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return "default"
	}
	return name
}

// Checksum calcula el SHA-256 en hex del contenido de los archivos de un batch.
func Checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventarios
// ──────────────────────────────────────────────────────────────────────────────

// CreateInventory registra un inventario vacío. Rechaza nombres ya usados.
func (s *Store) CreateInventory(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inventories[name]; ok {
		return domain.ErrInventoryExists
	}
	s.inventories[name] = &inventoryData{products: make(map[string]*entity.ProductInfo), nextID: 1}
	return nil
}

// ListInventories devuelve los nombres de inventario existentes, ordenados.
func (s *Store) ListInventories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.inventories))
	for name := range s.inventories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasBase indica si el inventario ya tiene productos del archivo base.
func (s *Store) HasBase(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.inventories[name]
	return ok && len(inv.products) > 0
}

// HasChecksum indica si un batch con ese checksum ya entró al inventario.
func (s *Store) HasChecksum(name, checksum string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.inventories[name]
	if !ok {
		return false
	}
	for _, b := range inv.batches {
		if b.Checksum == checksum {
			return true
		}
	}
	return false
}

// ──────────────────────────────────────────────────────────────────────────────
// Batches
// ──────────────────────────────────────────────────────────────────────────────

// AddBatch registra un batch procesado y devuelve su ID.
func (s *Store) AddBatch(name string, fileName, checksum string, rowsTotal, rowsImported int) entity.ImportBatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	batch := entity.ImportBatch{
		ID:            uuid.NewString(),
		FileName:      fileName,
		InventoryName: name,
		StartedAt:     now,
		ProcessedAt:   &now,
		RowsTotal:     rowsTotal,
		RowsImported:  rowsImported,
		Checksum:      checksum,
	}
	inv := s.data(name)
	inv.batches = append(inv.batches, batch)
	return batch
}

// Batches devuelve los batches del inventario, el más reciente primero.
func (s *Store) Batches(name string) []entity.ImportBatch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.inventories[name]
	if !ok {
		return nil
	}
	out := make([]entity.ImportBatch, len(inv.batches))
	copy(out, inv.batches)
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out
}

// LastUpdate devuelve la marca del batch más reciente, o nil si no hay.
func (s *Store) LastUpdate(name string) *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.inventories[name]
	if !ok || len(inv.batches) == 0 {
		return nil
	}
	var latest time.Time
	for _, b := range inv.batches {
		if b.ProcessedAt != nil && b.ProcessedAt.After(latest) {
			latest = *b.ProcessedAt
		}
	}
	if latest.IsZero() {
		return nil
	}
	return &latest
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

// AddProducts incorpora fichas de producto. Códigos ya existentes se ignoran
// (el archivo base no pisa datos previos). Devuelve cuántos entraron.
func (s *Store) AddProducts(name string, products []entity.ProductInfo) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv := s.data(name)
	added := 0
	for _, p := range products {
		if p.Code == "" {
			continue
		}
		if _, ok := inv.products[p.Code]; ok {
			continue
		}
		cp := p
		inv.products[p.Code] = &cp
		inv.order = append(inv.order, p.Code)
		added++
	}
	return added
}

// Products devuelve las fichas en orden de inserción.
func (s *Store) Products(name string) []entity.ProductInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.inventories[name]
	if !ok {
		return nil
	}
	out := make([]entity.ProductInfo, 0, len(inv.order))
	for _, code := range inv.order {
		out = append(out, *inv.products[code])
	}
	return out
}

// Product devuelve la ficha de un código, o nil.
func (s *Store) Product(name, code string) *entity.ProductInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.inventories[name]
	if !ok {
		return nil
	}
	p, ok := inv.products[code]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

// AddRecords incorpora movimientos asignando IDs secuenciales. Productos de
// archivos de actualización que no estaban en el base se crean con saldo cero,
// solo para sostener su historial.
func (s *Store) AddRecords(name string, records []entity.MovementRecord) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv := s.data(name)
	for i := range records {
		records[i].ID = inv.nextID
		inv.nextID++
		if _, ok := inv.products[records[i].ProductCode]; !ok {
			inv.products[records[i].ProductCode] = &entity.ProductInfo{
				Code:        records[i].ProductCode,
				Description: records[i].ProductDescription,
				Group:       inventory.GroupName(records[i].Category),
			}
			inv.order = append(inv.order, records[i].ProductCode)
		}
	}
	inv.records = append(inv.records, records...)
	return len(records)
}

// RecordsQuery son los filtros del endpoint records/ que resuelve el servidor:
// contains case-insensitive para almacén/categoría/búsqueda y rango de fechas
// inclusivo.
type RecordsQuery struct {
	Warehouse string
	Category  string
	Search    string
	DateFrom  string // YYYY-MM-DD, vacío = sin límite
	DateTo    string
	Limit     int // 0 = sin tope
}

// Records devuelve los movimientos que pasan el filtro, más recientes primero.
func (s *Store) Records(name string, q RecordsQuery) []entity.MovementRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.inventories[name]
	if !ok {
		return nil
	}

	out := make([]entity.MovementRecord, 0, len(inv.records))
	for _, r := range inv.records {
		if q.Warehouse != "" && !containsFold(r.Warehouse, q.Warehouse) {
			continue
		}
		if q.Category != "" && !containsFold(r.Category, q.Category) {
			continue
		}
		if q.Search != "" && !containsFold(r.ProductCode, q.Search) && !containsFold(r.ProductDescription, q.Search) {
			continue
		}
		// Las fechas ISO comparan bien como strings.
		if q.DateFrom != "" && r.Date < q.DateFrom {
			continue
		}
		if q.DateTo != "" && r.Date > q.DateTo {
			continue
		}
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// ProductHistory devuelve los movimientos de un producto en orden cronológico.
func (s *Store) ProductHistory(name, code string) []entity.MovementRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.inventories[name]
	if !ok {
		return nil
	}
	out := make([]entity.MovementRecord, 0, 16)
	for _, r := range inv.records {
		if r.ProductCode == code {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Counts devuelve totales de productos, movimientos y batches del inventario.
func (s *Store) Counts(name string) (products, records, batches int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.inventories[name]
	if !ok {
		return 0, 0, 0
	}
	return len(inv.products), len(inv.records), len(inv.batches)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// String para debug.
func (s *Store) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("memory.Store{inventarios: %d}", len(s.inventories))
}
