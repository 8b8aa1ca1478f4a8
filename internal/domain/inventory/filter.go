package inventory

import (
	"strings"
	"time"

	"github.com/tu-usuario/inventario-dashboard/internal/domain/entity"
)

// FilterState es el conjunto de filtros opcionales de una pestaña del
// dashboard. Campo vacío (o nil en fechas) significa "sin restricción".
// Es un value object explícito: las funciones de filtrado lo reciben y no
// leen estado ambiente de ningún lado.
type FilterState struct {
	Warehouse    string
	Group        string
	Rotation     string
	Stagnant     string
	HighRotation string
	Search       string
	DateFrom     *time.Time
	DateTo       *time.Time
}

// IsZero indica que ningún filtro está activo.
func (f FilterState) IsZero() bool {
	return f.Warehouse == "" && f.Group == "" && f.Rotation == "" &&
		f.Stagnant == "" && f.HighRotation == "" && f.Search == "" &&
		f.DateFrom == nil && f.DateTo == nil
}

// matchesSearch implementa la búsqueda libre: substring de la consulta en
// minúsculas dentro del código o del nombre del producto en minúsculas.
func matchesSearch(query, code, name string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(code), q) ||
		strings.Contains(strings.ToLower(name), q)
}

// Matches evalúa la conjunción (AND) de los predicados activos sobre una fila
// del análisis. Igualdad exacta para los campos categóricos: los valores
// vienen canonicalizados del backend, así que no se normaliza mayúsculas.
// El rango de fechas no aplica al análisis (las filas no tienen fecha); el
// backend lo resuelve en el query.
func (f FilterState) Matches(item entity.AnalysisItem) bool {
	if f.Warehouse != "" && item.Warehouse != f.Warehouse {
		return false
	}
	if f.Group != "" && GroupName(item.Group) != f.Group {
		return false
	}
	if f.Rotation != "" && item.Rotation != f.Rotation {
		return false
	}
	if f.Stagnant != "" && item.Stagnant != f.Stagnant {
		return false
	}
	if f.HighRotation != "" && item.HighRotation != f.HighRotation {
		return false
	}
	if f.Search != "" && !matchesSearch(f.Search, item.Code, item.ProductName) {
		return false
	}
	return true
}

// MatchesMovement evalúa los predicados aplicables a una fila de movimientos:
// almacén, búsqueda libre y rango de fechas inclusivo a granularidad de día.
// Una fila con fecha no parseable no puede satisfacer un rango activo.
func (f FilterState) MatchesMovement(r entity.MovementRecord) bool {
	if f.Warehouse != "" && r.Warehouse != f.Warehouse {
		return false
	}
	if f.Search != "" && !matchesSearch(f.Search, r.ProductCode, r.ProductDescription) {
		return false
	}
	if f.DateFrom != nil || f.DateTo != nil {
		date, err := r.ParsedDate()
		if err != nil {
			return false
		}
		if f.DateFrom != nil && date.Before(truncateDay(*f.DateFrom)) {
			return false
		}
		if f.DateTo != nil && date.After(truncateDay(*f.DateTo)) {
			return false
		}
	}
	return true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FilterAnalysis devuelve las filas del análisis que satisfacen todos los
// filtros activos, en el orden original.
func FilterAnalysis(items []entity.AnalysisItem, f FilterState) []entity.AnalysisItem {
	if f.IsZero() {
		return items
	}
	out := make([]entity.AnalysisItem, 0, len(items))
	for _, item := range items {
		if f.Matches(Normalize(item)) {
			out = append(out, item)
		}
	}
	return out
}

// FilterMovements devuelve los movimientos que satisfacen los filtros activos.
func FilterMovements(records []entity.MovementRecord, f FilterState) []entity.MovementRecord {
	if f.IsZero() {
		return records
	}
	out := make([]entity.MovementRecord, 0, len(records))
	for _, r := range records {
		if f.MatchesMovement(r) {
			out = append(out, r)
		}
	}
	return out
}

// Normalize aplica los fallbacks defensivos del contrato: rotación faltante se
// trata como Activo, flags faltantes como "No". Los numéricos decimales ya
// llegan en cero cuando faltan (zero value de decimal.Decimal).
func Normalize(item entity.AnalysisItem) entity.AnalysisItem {
	if item.Rotation == "" {
		item.Rotation = entity.RotationActivo
	}
	if item.Stagnant == "" {
		item.Stagnant = entity.FlagNo
	}
	if item.HighRotation == "" {
		item.HighRotation = entity.FlagNo
	}
	return item
}

// DeriveProducts deduplica el análisis por código de producto.
//
// Gana la primera aparición de cada código: un duplicado posterior suele ser
// el mismo producto visto desde otro almacén, y el resumen debe reflejar la
// fila con la que el usuario ya se encontró en la tabla. El grupo sale
// canonicalizado.
func DeriveProducts(items []entity.AnalysisItem) []entity.Product {
	seen := make(map[string]bool, len(items))
	products := make([]entity.Product, 0, len(items))
	for _, raw := range items {
		if seen[raw.Code] {
			continue
		}
		seen[raw.Code] = true

		item := Normalize(raw)
		products = append(products, entity.Product{
			Code:         item.Code,
			Description:  item.ProductName,
			Group:        GroupName(item.Group),
			Quantity:     item.Quantity,
			UnitCost:     item.UnitCost,
			TotalValue:   item.Value,
			Rotation:     item.Rotation,
			Stagnant:     item.Stagnant,
			HighRotation: item.HighRotation,
		})
	}
	return products
}
