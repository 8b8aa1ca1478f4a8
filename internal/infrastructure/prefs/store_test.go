package prefs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/inventario-dashboard/internal/domain/entity"
	"github.com/tu-usuario/inventario-dashboard/internal/domain/inventory"
)

func tempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.json")
	s, err := New(path)
	require.NoError(t, err)
	return s, path
}

func TestLoadAnalysisFilters_SinArchivoPrevioEsVacio(t *testing.T) {
	s, _ := tempStore(t)
	assert.True(t, s.LoadAnalysisFilters().IsZero())
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	s, path := tempStore(t)

	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	saved := inventory.FilterState{
		Search:       "aceite",
		Warehouse:    "BODEGA NORTE",
		Group:        "MANTENIMIENTO",
		Rotation:     entity.RotationObsoleto,
		Stagnant:     entity.FlagYes,
		HighRotation: entity.FlagNo,
		DateFrom:     &from,
		DateTo:       &to,
	}
	require.NoError(t, s.SaveAnalysisFilters(saved))

	// Reabrir desde el archivo, como en una sesión nueva.
	reopened, err := New(path)
	require.NoError(t, err)
	got := reopened.LoadAnalysisFilters()

	assert.Equal(t, saved.Search, got.Search)
	assert.Equal(t, saved.Warehouse, got.Warehouse)
	assert.Equal(t, saved.Group, got.Group)
	assert.Equal(t, saved.Rotation, got.Rotation)
	assert.Equal(t, saved.Stagnant, got.Stagnant)
	assert.Equal(t, saved.HighRotation, got.HighRotation)
	require.NotNil(t, got.DateFrom)
	assert.Equal(t, "2024-01-15", got.DateFrom.Format("2006-01-02"))
	require.NotNil(t, got.DateTo)
	assert.Equal(t, "2024-03-31", got.DateTo.Format("2006-01-02"))
}

func TestSaveAnalysisFilters_LimpiarFiltrosTambienPersiste(t *testing.T) {
	s, path := tempStore(t)
	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveAnalysisFilters(inventory.FilterState{Search: "grasa", DateFrom: &from}))
	require.NoError(t, s.SaveAnalysisFilters(inventory.FilterState{}))

	reopened, err := New(path)
	require.NoError(t, err)
	assert.True(t, reopened.LoadAnalysisFilters().IsZero(), "los filtros limpiados no reaparecen")
}

func TestNew_ArchivoCorruptoNoEsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("{no es json"), 0o644))

	s, err := New(path)
	require.NoError(t, err)
	assert.True(t, s.LoadAnalysisFilters().IsZero())
}

func TestParseDate_FechaMalformadaSeDescarta(t *testing.T) {
	assert.Nil(t, parseDate("ayer"))
	assert.Nil(t, parseDate(""))
	require.NotNil(t, parseDate("2024-05-01"))
}
