package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ImportBatch representa un archivo importado (base o actualización).
// El checksum SHA-256 evita que el mismo archivo entre dos veces al mismo inventario.
type ImportBatch struct {
	ID            string     `json:"id"`
	FileName      string     `json:"file_name"`
	InventoryName string     `json:"inventory_name"`
	StartedAt     time.Time  `json:"started_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	RowsTotal     int        `json:"rows_total"`
	RowsImported  int        `json:"rows_imported"`
	Checksum      string     `json:"checksum"`
}

// Summary es el resumen global del inventario que muestra la primera pestaña
// del dashboard.
type Summary struct {
	InventoryName string          `json:"inventory_name"`
	TotalProducts int             `json:"total_products"`
	TotalRecords  int             `json:"total_records"`
	TotalBatches  int             `json:"total_batches"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// UploadResult es el resultado estructurado de una carga de archivo.
// Un status no-200 o un cuerpo malformado producen Ok=false con el mensaje
// disponible, nunca un error de Go: la UI decide qué mostrar.
type UploadResult struct {
	Ok      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// LastUpdate es la marca del último batch procesado en el inventario.
type LastUpdate struct {
	InventoryName string     `json:"inventory_name"`
	LastUpdate    *time.Time `json:"last_update,omitempty"`
}
