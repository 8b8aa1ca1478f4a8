// Package prefs persiste las preferencias de filtros de la pestaña de
// análisis entre sesiones, como un adaptador separado que la capa de estado
// invoca explícitamente al cambiar un filtro.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/tu-usuario/inventario-dashboard/internal/domain/inventory"
)

// Claves fijas del almacén de preferencias. Los nombres vienen del contrato
// histórico del dashboard y no deben cambiar: hay preferencias ya guardadas.
const (
	keySearchQuery        = "searchQueryAnalysis"
	keySelectedWarehouse  = "selectedWarehouseAnalysis"
	keySelectedGroup      = "selectedGroupAnalysis"
	keySelectedRotation   = "selectedRotationAnalysis"
	keySelectedStagnant   = "selectedStagnantAnalysis"
	keySelectedHighRot    = "selectedHighRotationAnalysis"
	keyDateRangeStart     = "selectedDateRangeAnalysisStart"
	keyDateRangeEnd       = "selectedDateRangeAnalysisEnd"
)

// Store es el almacén clave-valor sobre un archivo JSON manejado por Viper.
type Store struct {
	v    *viper.Viper
	path string
}

// New abre (o prepara) el archivo de preferencias. Un archivo inexistente o
// corrupto no es un error: se parte de preferencias vacías.
func New(path string) (*Store, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = "."
		}
		path = filepath.Join(dir, "inventario-dashboard", "prefs.json")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creando directorio de preferencias: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	_ = v.ReadInConfig() // sin archivo previo o corrupto: preferencias vacías

	return &Store{v: v, path: path}, nil
}

// LoadAnalysisFilters reconstruye el FilterState persistido de la pestaña de
// análisis. Fechas malformadas se descartan en silencio (sin restricción).
func (s *Store) LoadAnalysisFilters() inventory.FilterState {
	f := inventory.FilterState{
		Search:       s.v.GetString(keySearchQuery),
		Warehouse:    s.v.GetString(keySelectedWarehouse),
		Group:        s.v.GetString(keySelectedGroup),
		Rotation:     s.v.GetString(keySelectedRotation),
		Stagnant:     s.v.GetString(keySelectedStagnant),
		HighRotation: s.v.GetString(keySelectedHighRot),
	}
	f.DateFrom = parseDate(s.v.GetString(keyDateRangeStart))
	f.DateTo = parseDate(s.v.GetString(keyDateRangeEnd))
	return f
}

// SaveAnalysisFilters persiste el FilterState completo de la pestaña de
// análisis. Campos vacíos se escriben vacíos: limpiar un filtro también es
// un cambio que debe sobrevivir a la sesión.
func (s *Store) SaveAnalysisFilters(f inventory.FilterState) error {
	s.v.Set(keySearchQuery, f.Search)
	s.v.Set(keySelectedWarehouse, f.Warehouse)
	s.v.Set(keySelectedGroup, f.Group)
	s.v.Set(keySelectedRotation, f.Rotation)
	s.v.Set(keySelectedStagnant, f.Stagnant)
	s.v.Set(keySelectedHighRot, f.HighRotation)
	s.v.Set(keyDateRangeStart, formatDate(f.DateFrom))
	s.v.Set(keyDateRangeEnd, formatDate(f.DateTo))

	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("guardando preferencias: %w", err)
	}
	return nil
}

func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
