package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/inventario-dashboard/internal/domain/entity"
)

// BalanceHistory es la serie de un producto que necesita el clasificador:
// saldo inicial del archivo base, neto de movimientos anteriores al año
// analizado y neto por mes calendario (1..12) dentro del año.
type BalanceHistory struct {
	InitialBalance decimal.Decimal
	PreYearNet     decimal.Decimal
	MonthlyNet     map[time.Month]decimal.Decimal
}

// Classification es el veredicto de salud de inventario de un producto.
type Classification struct {
	Rotation     string // Activo | Estancado | Obsoleto
	Stagnant     string // "Sí" cuando Rotation es Estancado u Obsoleto
	HighRotation string // "Sí" con 2+ cambios de saldo mes a mes
}

// Classify reproduce la clasificación de rotación del backend sobre los doce
// saldos acumulados del año:
//
//   - serie completa en cero y sin saldo previo  → Activo (producto nuevo, sin historia)
//   - serie completa en cero con saldo previo    → Obsoleto
//   - saldo positivo idéntico los doce meses      → Obsoleto (nunca se movió)
//   - últimos tres meses sin cambio y saldo > 0  → Estancado
//   - cualquier otro patrón                       → Activo
func Classify(h BalanceHistory) Classification {
	opening := h.InitialBalance.Add(h.PreYearNet)

	balances := make([]decimal.Decimal, 0, 12)
	running := opening
	for m := time.January; m <= time.December; m++ {
		if net, ok := h.MonthlyNet[m]; ok {
			running = running.Add(net)
		}
		balances = append(balances, running)
	}

	allZero := true
	for _, b := range balances {
		if !b.IsZero() {
			allZero = false
			break
		}
	}

	distinct := distinctCount(balances)
	lastThreeFlat := distinctCount(balances[len(balances)-3:]) == 1

	var rotation string
	switch {
	case allZero && opening.IsZero():
		rotation = entity.RotationActivo
	case allZero && opening.IsPositive():
		rotation = entity.RotationObsoleto
	case distinct == 1 && balances[0].IsPositive():
		rotation = entity.RotationObsoleto
	case lastThreeFlat && balances[len(balances)-1].IsPositive():
		rotation = entity.RotationEstancado
	default:
		rotation = entity.RotationActivo
	}

	stagnant := entity.FlagNo
	if rotation == entity.RotationEstancado || rotation == entity.RotationObsoleto {
		stagnant = entity.FlagYes
	}

	changes := 0
	for i := 0; i < len(balances)-1; i++ {
		if !balances[i].Equal(balances[i+1]) {
			changes++
		}
	}
	high := entity.FlagNo
	if changes >= 2 {
		high = entity.FlagYes
	}

	return Classification{Rotation: rotation, Stagnant: stagnant, HighRotation: high}
}

func distinctCount(balances []decimal.Decimal) int {
	seen := make(map[string]bool, len(balances))
	for _, b := range balances {
		seen[b.String()] = true
	}
	return len(seen)
}

// ConsumedFlag marca como consumido un producto cuyo stock actual es <= 0.
func ConsumedFlag(currentStock decimal.Decimal) string {
	if currentStock.Sign() <= 0 {
		return entity.FlagYes
	}
	return entity.FlagNo
}
