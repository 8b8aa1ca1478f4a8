package entity

import "github.com/shopspring/decimal"

// Valores canónicos de rotación que asigna el backend.
const (
	RotationActivo    = "Activo"
	RotationEstancado = "Estancado"
	RotationObsoleto  = "Obsoleto"
)

// Valores canónicos de los flags booleanos del análisis ("Sí"/"No").
const (
	FlagYes = "Sí"
	FlagNo  = "No"
)

// AnalysisItem es una fila del análisis de productos que calcula el backend:
// saldo actual, valorización y clasificación de rotación/estancamiento.
// Las claves JSON conservan los nombres en español del contrato original.
type AnalysisItem struct {
	Code         string          `json:"codigo"`
	ProductName  string          `json:"nombre_producto"`
	Group        string          `json:"grupo"`
	Quantity     decimal.Decimal `json:"cantidad_saldo_actual"`
	Value        decimal.Decimal `json:"valor_saldo_actual"`
	UnitCost     decimal.Decimal `json:"costo_unitario"`
	Consumed     string          `json:"consumed,omitempty"`
	Stagnant     string          `json:"estancado"`
	Rotation     string          `json:"rotacion"`
	HighRotation string          `json:"alta_rotacion"`
	Warehouse    string          `json:"almacen,omitempty"`
}

// Product es el resumen deduplicado por código que deriva el cliente a partir
// del análisis (una entrada por código, gana la primera aparición).
// Group llega ya canonicalizado por el mapeo de grupos.
type Product struct {
	Code         string          `json:"code"`
	Description  string          `json:"description"`
	Group        string          `json:"group"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	TotalValue   decimal.Decimal `json:"total_value"`
	Rotation     string          `json:"rotation"`
	Stagnant     string          `json:"stagnant"`
	HighRotation string          `json:"high_rotation"`
}

// ProductInfo es la ficha de producto que expone el endpoint products/ del
// backend (datos del archivo base, sin clasificación).
type ProductInfo struct {
	Code            string          `json:"code"`
	Description     string          `json:"description"`
	Group           string          `json:"group"`
	InitialBalance  decimal.Decimal `json:"initial_balance"`
	InitialUnitCost decimal.Decimal `json:"initial_unit_cost"`
}
