package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento de movimiento (2 letras al inicio del número de documento).
const (
	DocumentTypeEntrada       = "EA" // entrada de almacén
	DocumentTypeSalida        = "SA" // salida de almacén
	DocumentTypeEntradaGlobal = "GF" // entrada por gasto/factura
)

// MovementRecord es una fila de movimiento tal como la entrega el backend.
// Inmutable una vez recibida; se descarta al siguiente fetch o cambio de filtro.
//
// Quantity es firmada: positiva = entrada, negativa = salida.
// Date viaja como fecha ISO (YYYY-MM-DD); se conserva cruda porque el
// agregador mensual decide qué hacer con fechas no parseables.
type MovementRecord struct {
	ID                 int64           `json:"id,omitempty"`
	ProductCode        string          `json:"product_code"`
	ProductDescription string          `json:"product_description"`
	Warehouse          string          `json:"warehouse"`
	Date               string          `json:"date"`
	DocumentType       string          `json:"document_type"`
	DocumentNumber     string          `json:"document_number"`
	Quantity           decimal.Decimal `json:"quantity"`
	UnitCost           decimal.Decimal `json:"unit_cost"`
	Total              decimal.Decimal `json:"total"`
	Category           string          `json:"category,omitempty"`
	BatchID            string          `json:"batch_id,omitempty"`
}

// ParsedDate interpreta Date como fecha ISO de día completo.
func (r MovementRecord) ParsedDate() (time.Time, error) {
	return time.Parse("2006-01-02", r.Date)
}

// MonthlyMovement es el agregado de movimientos de un mes calendario.
// Una instancia por mes presente en la entrada, ordenadas ascendentemente.
//
// ClosingBalance es el neto del mes (entradas − salidas de ese mes), no un
// saldo acumulado de la serie.
type MonthlyMovement struct {
	Month          string          `json:"month"` // clave YYYY-MM
	TotalEntries   decimal.Decimal `json:"total_entries"`
	TotalExits     decimal.Decimal `json:"total_exits"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}
