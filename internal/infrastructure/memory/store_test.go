package memory

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/inventario-dashboard/internal/domain"
	"github.com/tu-usuario/inventario-dashboard/internal/domain/entity"
)

func TestNormalizeInventoryName(t *testing.T) {
	assert.Equal(t, "default", NormalizeInventoryName(""))
	assert.Equal(t, "default", NormalizeInventoryName("   "))
	assert.Equal(t, "planta_norte", NormalizeInventoryName("  Planta_Norte "))
}

func TestChecksum_EsSHA256Hex(t *testing.T) {
	// Vector conocido de SHA-256 para cadena vacía.
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		Checksum(nil))
	assert.Equal(t, Checksum([]byte("a")), Checksum([]byte("a")))
	assert.NotEqual(t, Checksum([]byte("a")), Checksum([]byte("b")))
}

func TestCreateInventory_NombreDuplicado(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.CreateInventory("bodega"))
	assert.ErrorIs(t, s.CreateInventory("bodega"), domain.ErrInventoryExists)
	assert.Equal(t, []string{"bodega"}, s.ListInventories())
}

func TestAddProducts_NoQuitaExistentesNiAceptaCodigoVacio(t *testing.T) {
	s := NewStore()
	added := s.AddProducts("default", []entity.ProductInfo{
		{Code: "A1", Description: "Aceite"},
		{Code: ""},
		{Code: "A1", Description: "Aceite duplicado"},
		{Code: "B2", Description: "Bujía"},
	})
	assert.Equal(t, 2, added)

	products := s.Products("default")
	require.Len(t, products, 2)
	assert.Equal(t, "A1", products[0].Code, "orden de inserción")
	assert.Equal(t, "Aceite", products[0].Description, "la primera carga no se pisa")

	assert.True(t, s.HasBase("default"))
	assert.False(t, s.HasBase("otro"))
}

func TestAddRecords_CreaProductoFaltanteConSaldoCero(t *testing.T) {
	s := NewStore()
	s.AddRecords("default", []entity.MovementRecord{
		{ProductCode: "Z9", ProductDescription: "Zapata", Category: "3", Quantity: decimal.NewFromInt(2)},
	})

	p := s.Product("default", "Z9")
	require.NotNil(t, p)
	assert.Equal(t, "Zapata", p.Description)
	assert.Equal(t, "MANTENIMIENTO", p.Group, "la categoría entra canonicalizada")
	assert.True(t, p.InitialBalance.IsZero())
}

func TestRecords_FiltrosYOrden(t *testing.T) {
	s := NewStore()
	s.AddRecords("default", []entity.MovementRecord{
		{ProductCode: "A1", ProductDescription: "Aceite", Warehouse: "BODEGA NORTE", Date: "2024-01-10"},
		{ProductCode: "B2", ProductDescription: "Bujía", Warehouse: "BODEGA SUR", Date: "2024-02-05"},
		{ProductCode: "A1", ProductDescription: "Aceite", Warehouse: "BODEGA NORTE", Date: "2024-03-01"},
	})

	t.Run("sin filtros, más recientes primero", func(t *testing.T) {
		got := s.Records("default", RecordsQuery{})
		require.Len(t, got, 3)
		assert.Equal(t, "2024-03-01", got[0].Date)
		assert.Equal(t, "2024-01-10", got[2].Date)
	})

	t.Run("almacén contains sin mayúsculas", func(t *testing.T) {
		got := s.Records("default", RecordsQuery{Warehouse: "sur"})
		require.Len(t, got, 1)
		assert.Equal(t, "B2", got[0].ProductCode)
	})

	t.Run("búsqueda por código o descripción", func(t *testing.T) {
		assert.Len(t, s.Records("default", RecordsQuery{Search: "bujía"}), 1)
		assert.Len(t, s.Records("default", RecordsQuery{Search: "a1"}), 2)
	})

	t.Run("rango de fechas inclusivo", func(t *testing.T) {
		got := s.Records("default", RecordsQuery{DateFrom: "2024-02-05", DateTo: "2024-03-01"})
		assert.Len(t, got, 2)
	})

	t.Run("tope de filas", func(t *testing.T) {
		got := s.Records("default", RecordsQuery{Limit: 2})
		require.Len(t, got, 2)
		assert.Equal(t, "2024-03-01", got[0].Date, "el tope corta las más viejas")
	})
}

func TestRecords_TopeConMuchasFilas(t *testing.T) {
	s := NewStore()
	var records []entity.MovementRecord
	for i := 0; i < 1100; i++ {
		records = append(records, entity.MovementRecord{
			ProductCode: "A1",
			Date:        fmt.Sprintf("2024-01-%02d", i%28+1),
		})
	}
	s.AddRecords("default", records)
	assert.Len(t, s.Records("default", RecordsQuery{Limit: 1000}), 1000)
}

func TestProductHistory_OrdenCronologico(t *testing.T) {
	s := NewStore()
	s.AddRecords("default", []entity.MovementRecord{
		{ProductCode: "A1", Date: "2024-03-01"},
		{ProductCode: "B2", Date: "2024-01-05"},
		{ProductCode: "A1", Date: "2024-01-10"},
		{ProductCode: "A1", Date: "2024-01-10"},
	})

	history := s.ProductHistory("default", "A1")
	require.Len(t, history, 3)
	assert.Equal(t, "2024-01-10", history[0].Date)
	assert.Less(t, history[0].ID, history[1].ID, "misma fecha desempata por ID de inserción")
	assert.Equal(t, "2024-03-01", history[2].Date)
}

func TestHasChecksumYBatches(t *testing.T) {
	s := NewStore()
	assert.False(t, s.HasChecksum("default", "abc"))

	b := s.AddBatch("default", "base.xlsx", "abc", 10, 9)
	assert.NotEmpty(t, b.ID)
	assert.True(t, s.HasChecksum("default", "abc"))

	batches := s.Batches("default")
	require.Len(t, batches, 1)
	assert.Equal(t, "base.xlsx", batches[0].FileName)

	lu := s.LastUpdate("default")
	require.NotNil(t, lu)
	assert.Equal(t, *batches[0].ProcessedAt, *lu)
}

func TestLastUpdate_SinBatches(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.LastUpdate("default"))
}

func TestCounts(t *testing.T) {
	s := NewStore()
	s.AddProducts("default", []entity.ProductInfo{{Code: "A1"}})
	s.AddRecords("default", []entity.MovementRecord{{ProductCode: "A1"}, {ProductCode: "A1"}})
	s.AddBatch("default", "f.xlsx", "x", 3, 3)

	products, records, batches := s.Counts("default")
	assert.Equal(t, 1, products)
	assert.Equal(t, 2, records)
	assert.Equal(t, 1, batches)
}
