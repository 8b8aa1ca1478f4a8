// Package analytics construye el análisis de productos y el resumen que sirve
// el servidor stub: la misma clasificación de rotación/estancamiento que
// calcula el backend real, sobre el almacén en memoria.
package analytics

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/inventario-dashboard/internal/domain/entity"
	"github.com/tu-usuario/inventario-dashboard/internal/domain/inventory"
)

// InventoryReader es la porción del almacén que necesita el análisis.
type InventoryReader interface {
	Products(inventoryName string) []entity.ProductInfo
	ProductHistory(inventoryName, code string) []entity.MovementRecord
	Counts(inventoryName string) (products, records, batches int)
}

// AnalysisUseCase calcula análisis y resumen por inventario.
type AnalysisUseCase struct {
	reader InventoryReader
	// now inyectable para fijar el año de análisis en tests.
	now func() time.Time
}

// NewAnalysisUseCase construye el caso de uso.
func NewAnalysisUseCase(reader InventoryReader) *AnalysisUseCase {
	return &AnalysisUseCase{reader: reader, now: time.Now}
}

// BuildAnalysis genera una fila de análisis por producto del inventario.
// categoryFilter, si no es vacío, filtra por grupo (contains, sin mayúsculas).
//
// Por producto: stock actual = saldo inicial + neto de todos los movimientos;
// costo unitario = el del último movimiento, o el inicial si no hay; la
// clasificación sale de los doce saldos mensuales del año en curso.
func (uc *AnalysisUseCase) BuildAnalysis(inventoryName, categoryFilter string) []entity.AnalysisItem {
	products := uc.reader.Products(inventoryName)
	year := uc.now().Year()

	items := make([]entity.AnalysisItem, 0, len(products))
	for _, p := range products {
		if categoryFilter != "" && !strings.Contains(strings.ToLower(p.Group), strings.ToLower(categoryFilter)) {
			continue
		}

		history := uc.reader.ProductHistory(inventoryName, p.Code)

		currentStock := p.InitialBalance
		currentUnitCost := p.InitialUnitCost
		preYearNet := decimal.Zero
		monthlyNet := make(map[time.Month]decimal.Decimal)
		lastDate := ""

		for _, r := range history {
			currentStock = currentStock.Add(r.Quantity)
			if r.Date >= lastDate && !r.UnitCost.IsZero() {
				lastDate = r.Date
				currentUnitCost = r.UnitCost
			}
			date, err := r.ParsedDate()
			if err != nil {
				continue
			}
			switch {
			case date.Year() < year:
				preYearNet = preYearNet.Add(r.Quantity)
			case date.Year() == year:
				monthlyNet[date.Month()] = monthlyNet[date.Month()].Add(r.Quantity)
			}
		}

		c := inventory.Classify(inventory.BalanceHistory{
			InitialBalance: p.InitialBalance,
			PreYearNet:     preYearNet,
			MonthlyNet:     monthlyNet,
		})

		items = append(items, entity.AnalysisItem{
			Code:         p.Code,
			ProductName:  p.Description,
			Group:        p.Group,
			Quantity:     currentStock,
			Value:        currentStock.Mul(currentUnitCost),
			UnitCost:     currentUnitCost,
			Consumed:     inventory.ConsumedFlag(currentStock),
			Stagnant:     c.Stagnant,
			Rotation:     c.Rotation,
			HighRotation: c.HighRotation,
		})
	}
	return items
}

// BuildSummary arma el resumen global: conteos del almacén más los totales
// valorizados del análisis (la cantidad total solo suma stocks positivos).
func (uc *AnalysisUseCase) BuildSummary(inventoryName string) entity.Summary {
	products, records, batches := uc.reader.Counts(inventoryName)

	totalQuantity := decimal.Zero
	totalValue := decimal.Zero
	for _, item := range uc.BuildAnalysis(inventoryName, "") {
		if item.Quantity.IsPositive() {
			totalQuantity = totalQuantity.Add(item.Quantity)
		}
		totalValue = totalValue.Add(item.Value)
	}

	return entity.Summary{
		InventoryName: inventoryName,
		TotalProducts: products,
		TotalRecords:  records,
		TotalBatches:  batches,
		TotalQuantity: totalQuantity,
		TotalValue:    totalValue,
	}
}
