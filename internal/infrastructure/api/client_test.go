package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/inventario-dashboard/internal/domain"
	"github.com/tu-usuario/inventario-dashboard/internal/domain/inventory"
	"github.com/tu-usuario/inventario-dashboard/internal/infrastructure/api"
	"github.com/tu-usuario/inventario-dashboard/pkg/config"
	"github.com/tu-usuario/inventario-dashboard/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.New(config.APIConfig{
		BaseURL:       srv.URL,
		InventoryName: "planta_norte",
		ReadTimeout:   5 * time.Second,
		UploadTimeout: 5 * time.Second,
	}, logger.New(logger.Config{Env: "test", Level: "error"}))
}

func TestGetAnalysis_OmiteParametrosVacios(t *testing.T) {
	var gotQuery map[string][]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	_, err := c.GetAnalysis(context.Background(), inventory.FilterState{
		Warehouse: "BODEGA NORTE",
		Rotation:  "Obsoleto",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"planta_norte"}, gotQuery["inventory_name"])
	assert.Equal(t, []string{"BODEGA NORTE"}, gotQuery["warehouse"])
	assert.Equal(t, []string{"Obsoleto"}, gotQuery["rotation"])
	// Los filtros sin valor no viajan, ni siquiera como key=.
	assert.NotContains(t, gotQuery, "category")
	assert.NotContains(t, gotQuery, "search")
	assert.NotContains(t, gotQuery, "stagnant")
	assert.NotContains(t, gotQuery, "date_from")
}

func TestGetMovements_NoEnviaFiltrosDeRotacion(t *testing.T) {
	var gotQuery map[string][]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	})

	_, err := c.GetMovements(context.Background(), inventory.FilterState{Rotation: "Activo"})
	require.NoError(t, err)
	assert.NotContains(t, gotQuery, "rotation")
}

func TestGetAnalysis_DecodificaCamposEnEspanol(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/inventory/analysis/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"codigo":"AB-123","nombre_producto":"Abono","rotacion":"Activo","estancado":"No","cantidad_saldo_actual":"12.5"}]`))
	})

	items, err := c.GetAnalysis(context.Background(), inventory.FilterState{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "AB-123", items[0].Code)
	assert.Equal(t, "Abono", items[0].ProductName)
	assert.Equal(t, "12.5", items[0].Quantity.String())
}

func TestGetJSON_Errores(t *testing.T) {
	t.Run("404 es ErrNotFound", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		_, err := c.GetMonthlyMovements(context.Background(), inventory.FilterState{})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.True(t, api.IsNotFound(err))
	})

	t.Run("500 es ErrServer con el mensaje del cuerpo", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"ok":false,"error":"algo explotó"}`))
		})
		_, err := c.GetSummary(context.Background())
		assert.ErrorIs(t, err, domain.ErrServer)
		assert.Contains(t, err.Error(), "algo explotó")
	})

	t.Run("JSON inválido es ErrDecode", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>no soy json</html>`))
		})
		_, err := c.GetSummary(context.Background())
		assert.ErrorIs(t, err, domain.ErrDecode)
	})
}

func TestValidateUploadFile(t *testing.T) {
	assert.NoError(t, api.ValidateUploadFile("base.xlsx", []byte("x")))
	assert.NoError(t, api.ValidateUploadFile("BASE.XLS", []byte("x")))
	assert.ErrorIs(t, api.ValidateUploadFile("", []byte("x")), domain.ErrValidation)
	assert.ErrorIs(t, api.ValidateUploadFile("base.csv", []byte("x")), domain.ErrValidation)
	assert.ErrorIs(t, api.ValidateUploadFile("base.xlsx", nil), domain.ErrValidation)
}

func TestUploadBaseFile_ArchivoVacioNoTocaLaRed(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.UploadBaseFile(context.Background(), nil, "base.xlsx")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, called, "la validación local debe cortar antes del POST")
}

func TestUploadBaseFile_Status500NoDevuelveError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"ok":false,"error":"Primero debe subir un archivo base"}`))
	})

	result, err := c.UploadBaseFile(context.Background(), []byte("contenido"), "base.xlsx")
	require.NoError(t, err, "el contrato de la carga es nunca lanzar por status")
	assert.False(t, result.Ok)
	assert.Equal(t, "Primero debe subir un archivo base", result.Error)
}

func TestUploadBaseFile_RespuestaNoJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	})

	result, err := c.UploadBaseFile(context.Background(), []byte("contenido"), "base.xlsx")
	require.NoError(t, err)
	assert.False(t, result.Ok)
	assert.Contains(t, result.Error, "502")
}

func TestUploadUpdateFiles_CampoRepetido(t *testing.T) {
	var names []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		for _, fh := range r.MultipartForm.File["update_files"] {
			names = append(names, fh.Filename)
		}
		w.Write([]byte(`{"ok":true}`))
	})

	status, _, err := c.UploadUpdateFiles(context.Background(), []api.UploadFile{
		{Name: "enero.xlsx", Content: []byte("a")},
		{Name: "febrero.xlsx", Content: []byte("b")},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"enero.xlsx", "febrero.xlsx"}, names)
}

func TestExportAnalysis_PassthroughCrudo(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "excel", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Write([]byte{0x50, 0x4b, 0x03, 0x04})
	})

	res, err := c.ExportAnalysis(context.Background(), api.FormatExcel, inventory.FilterState{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.ContentType, "spreadsheetml")
	assert.Equal(t, []byte{0x50, 0x4b, 0x03, 0x04}, res.Body)
}

func TestExport_FormatoInvalido(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := c.ExportMovements(context.Background(), "csv", inventory.FilterState{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
