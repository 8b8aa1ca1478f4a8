package inventory

import "github.com/shopspring/decimal"

// CompleteCost rellena costo unitario y total cuando el archivo trae solo uno
// de los dos. Total = |cantidad| * unitario; unitario = total / |cantidad|.
// Si no hay información suficiente ambos quedan como llegaron.
func CompleteCost(quantity, unitCost, total decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	absQty := quantity.Abs()
	if total.IsZero() && !unitCost.IsZero() {
		total = absQty.Mul(unitCost)
	}
	if unitCost.IsZero() && !total.IsZero() && !absQty.IsZero() {
		unitCost = total.Div(absQty)
	}
	return unitCost, total
}
