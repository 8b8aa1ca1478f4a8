// Package format contiene helpers puros de presentación: moneda en pesos
// colombianos y fechas del dominio de inventario.
package format

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var esCO = message.NewPrinter(language.MustParse("es-CO"))

// Currency formatea un valor en COP con separador de miles local: $ 1.234.567,89.
// Los valores de inventario se muestran siempre con 2 decimales.
func Currency(v decimal.Decimal) string {
	f, _ := v.Float64()
	return esCO.Sprintf("$ %v", number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Quantity formatea una cantidad de inventario sin ceros de relleno
// (las cantidades del backend traen hasta 3 decimales).
func Quantity(v decimal.Decimal) string {
	f, _ := v.Float64()
	return esCO.Sprintf("%v", number.Decimal(f, number.MaxFractionDigits(3)))
}

// Date formatea una fecha a YYYY-MM-DD, el mismo formato ISO que usan los
// query params del backend.
func Date(t time.Time) string {
	return t.Format("2006-01-02")
}

// MonthKey trunca una fecha a su clave de mes YYYY-MM.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}
