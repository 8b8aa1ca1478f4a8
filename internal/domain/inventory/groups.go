// Package inventory contiene la lógica de dominio del dashboard: agregación
// mensual de movimientos, filtrado del análisis de productos y el mapeo de
// grupos a categorías canónicas. Todo es puro: sin red, sin estado compartido.
package inventory

// GroupUncategorized es el sentinel para productos sin grupo asignado.
const GroupUncategorized = "SIN CATEGORÍA"

// Los archivos base traen el grupo como código numérico 1..5; el backend y el
// dashboard trabajan con el nombre canónico.
var groupNames = map[string]string{
	"1": "MATERIA PRIMA",
	"2": "INSUMOS",
	"3": "MANTENIMIENTO",
	"4": "REPUESTOS",
	"5": "EQUIPOS DE SEGURIDAD",
}

// Abreviaturas para etiquetas de gráficos y columnas angostas.
var groupShortNames = map[string]string{
	"MATERIA PRIMA":        "M. PRIMA",
	"INSUMOS":              "INSUMOS",
	"MANTENIMIENTO":        "MANTTO",
	"REPUESTOS":            "REPTOS",
	"EQUIPOS DE SEGURIDAD": "SEGURIDAD",
	GroupUncategorized:     "S/C",
}

var canonicalGroups = func() map[string]bool {
	m := make(map[string]bool, len(groupNames))
	for _, name := range groupNames {
		m[name] = true
	}
	return m
}()

// GroupName canonicaliza un grupo: códigos 1..5 se traducen a su nombre,
// nombres ya canónicos pasan sin cambio (idempotente), cualquier otro valor
// no vacío se devuelve tal cual (categoría futura/desconocida) y el vacío
// mapea al sentinel.
func GroupName(raw string) string {
	if raw == "" {
		return GroupUncategorized
	}
	if name, ok := groupNames[raw]; ok {
		return name
	}
	return raw
}

// GroupShortName abrevia un nombre canónico para etiquetas de gráficos.
// Nombres desconocidos pasan sin abreviar.
func GroupShortName(name string) string {
	if short, ok := groupShortNames[name]; ok {
		return short
	}
	return name
}

// IsCanonicalGroup indica si el valor es uno de los 5 nombres canónicos.
func IsCanonicalGroup(name string) bool {
	return canonicalGroups[name]
}

// CanonicalGroups devuelve los 5 nombres canónicos, útil para poblar selects.
func CanonicalGroups() []string {
	return []string{
		groupNames["1"], groupNames["2"], groupNames["3"], groupNames["4"], groupNames["5"],
	}
}
