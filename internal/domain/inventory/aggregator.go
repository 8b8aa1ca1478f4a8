package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/inventario-dashboard/internal/domain/entity"
)

// SkippedRecord documenta una fila que la agregación mensual no pudo usar.
// Se devuelve junto al agregado para que el caller reporte la calidad de los
// datos en lugar de perder filas de forma invisible.
type SkippedRecord struct {
	Index   int    // posición de la fila en la entrada
	RawDate string // valor de fecha que no se pudo interpretar
	Reason  string
}

// AggregateMonthly agrupa movimientos por mes calendario (YYYY-MM).
//
// Por cada mes: TotalEntries = suma de cantidades positivas, TotalExits =
// suma de |cantidades negativas|; las filas con cantidad cero pertenecen al
// mes pero no aportan a ninguno de los dos totales. ClosingBalance es el neto
// del mes (entradas − salidas), no un acumulado de la serie.
//
// La salida queda ordenada ascendentemente por clave de mes. Entrada vacía
// produce salida vacía. Filas con fecha no parseable no abortan la agregación:
// se reportan en el segundo valor de retorno.
func AggregateMonthly(records []entity.MovementRecord) ([]entity.MonthlyMovement, []SkippedRecord) {
	type bucket struct {
		entries decimal.Decimal
		exits   decimal.Decimal
	}

	buckets := make(map[string]*bucket)
	var skipped []SkippedRecord

	for i, r := range records {
		date, err := r.ParsedDate()
		if err != nil {
			skipped = append(skipped, SkippedRecord{
				Index:   i,
				RawDate: r.Date,
				Reason:  "fecha no parseable",
			})
			continue
		}

		key := date.Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			// Se agrupa estrictamente por fecha: un mes con solo filas de
			// cantidad cero igual aparece en la salida, con totales en cero.
			b = &bucket{entries: decimal.Zero, exits: decimal.Zero}
			buckets[key] = b
		}

		switch r.Quantity.Sign() {
		case 1:
			b.entries = b.entries.Add(r.Quantity)
		case -1:
			b.exits = b.exits.Add(r.Quantity.Abs())
		}
	}

	months := make([]entity.MonthlyMovement, 0, len(buckets))
	for key, b := range buckets {
		months = append(months, entity.MonthlyMovement{
			Month:          key,
			TotalEntries:   b.entries,
			TotalExits:     b.exits,
			ClosingBalance: b.entries.Sub(b.exits),
		})
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })

	return months, skipped
}
