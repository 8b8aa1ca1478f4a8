package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/inventario-dashboard/internal/domain/entity"
)

type fakeReader struct {
	products  []entity.ProductInfo
	histories map[string][]entity.MovementRecord
	counts    [3]int
}

func (r *fakeReader) Products(string) []entity.ProductInfo { return r.products }

func (r *fakeReader) ProductHistory(_, code string) []entity.MovementRecord {
	return r.histories[code]
}

func (r *fakeReader) Counts(string) (int, int, int) {
	return r.counts[0], r.counts[1], r.counts[2]
}

// fixedYear ancla el análisis a 2024 para que los tests no dependan del reloj.
func fixedYear(uc *AnalysisUseCase) *AnalysisUseCase {
	uc.now = func() time.Time { return time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) }
	return uc
}

func TestBuildAnalysis_StockYCostoDelUltimoMovimiento(t *testing.T) {
	reader := &fakeReader{
		products: []entity.ProductInfo{{
			Code:            "A1",
			Description:     "Aceite",
			Group:           "MANTENIMIENTO",
			InitialBalance:  decimal.NewFromInt(10),
			InitialUnitCost: decimal.NewFromInt(100),
		}},
		histories: map[string][]entity.MovementRecord{
			"A1": {
				{Date: "2024-01-10", Quantity: decimal.NewFromInt(5), UnitCost: decimal.NewFromInt(120)},
				{Date: "2024-03-20", Quantity: decimal.NewFromInt(-3), UnitCost: decimal.NewFromInt(130)},
			},
		},
	}
	uc := fixedYear(NewAnalysisUseCase(reader))

	items := uc.BuildAnalysis("default", "")
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "12", item.Quantity.String(), "10 inicial + 5 - 3")
	assert.Equal(t, "130", item.UnitCost.String(), "gana el costo del movimiento más reciente")
	assert.Equal(t, "1560", item.Value.String())
	assert.Equal(t, entity.FlagNo, item.Consumed)
	// Último movimiento en marzo: los saldos de octubre a diciembre quedan
	// planos y positivos.
	assert.Equal(t, entity.RotationEstancado, item.Rotation)
	assert.Equal(t, entity.FlagYes, item.Stagnant)
	assert.Equal(t, entity.FlagYes, item.HighRotation, "dos cambios de saldo en el año")
}

func TestBuildAnalysis_CostoCeroNoPisaElVigente(t *testing.T) {
	reader := &fakeReader{
		products: []entity.ProductInfo{{
			Code:            "A1",
			InitialBalance:  decimal.NewFromInt(2),
			InitialUnitCost: decimal.NewFromInt(50),
		}},
		histories: map[string][]entity.MovementRecord{
			"A1": {{Date: "2024-02-01", Quantity: decimal.NewFromInt(1)}},
		},
	}
	uc := fixedYear(NewAnalysisUseCase(reader))

	items := uc.BuildAnalysis("default", "")
	require.Len(t, items, 1)
	assert.Equal(t, "50", items[0].UnitCost.String())
}

func TestBuildAnalysis_SinMovimientosEsObsoleto(t *testing.T) {
	reader := &fakeReader{
		products: []entity.ProductInfo{{
			Code:           "B2",
			InitialBalance: decimal.NewFromInt(7),
		}},
		histories: map[string][]entity.MovementRecord{},
	}
	uc := fixedYear(NewAnalysisUseCase(reader))

	items := uc.BuildAnalysis("default", "")
	require.Len(t, items, 1)
	assert.Equal(t, entity.RotationObsoleto, items[0].Rotation)
	assert.Equal(t, entity.FlagYes, items[0].Stagnant)
}

func TestBuildAnalysis_MovimientoDeAnioAnteriorVaAlSaldoDeApertura(t *testing.T) {
	// Base en cero, compra en 2023: la apertura de 2024 es positiva y sin
	// movimientos del año el producto queda obsoleto.
	reader := &fakeReader{
		products: []entity.ProductInfo{{Code: "C3"}},
		histories: map[string][]entity.MovementRecord{
			"C3": {{Date: "2023-11-05", Quantity: decimal.NewFromInt(4)}},
		},
	}
	uc := fixedYear(NewAnalysisUseCase(reader))

	items := uc.BuildAnalysis("default", "")
	require.Len(t, items, 1)
	assert.Equal(t, entity.RotationObsoleto, items[0].Rotation)
	assert.Equal(t, "4", items[0].Quantity.String())
}

func TestBuildAnalysis_FiltroDeCategoria(t *testing.T) {
	reader := &fakeReader{
		products: []entity.ProductInfo{
			{Code: "A1", Group: "MANTENIMIENTO"},
			{Code: "B2", Group: "INSUMOS"},
		},
		histories: map[string][]entity.MovementRecord{},
	}
	uc := fixedYear(NewAnalysisUseCase(reader))

	items := uc.BuildAnalysis("default", "mante")
	require.Len(t, items, 1, "el filtro es contains sin mayúsculas")
	assert.Equal(t, "A1", items[0].Code)
}

func TestBuildAnalysis_StockConsumido(t *testing.T) {
	reader := &fakeReader{
		products: []entity.ProductInfo{{Code: "A1", InitialBalance: decimal.NewFromInt(3)}},
		histories: map[string][]entity.MovementRecord{
			"A1": {{Date: "2024-01-15", Quantity: decimal.NewFromInt(-3)}},
		},
	}
	uc := fixedYear(NewAnalysisUseCase(reader))

	items := uc.BuildAnalysis("default", "")
	require.Len(t, items, 1)
	assert.Equal(t, entity.FlagYes, items[0].Consumed)
	assert.True(t, items[0].Quantity.IsZero())
}

func TestBuildSummary_CantidadSoloSumaStocksPositivos(t *testing.T) {
	reader := &fakeReader{
		products: []entity.ProductInfo{
			{Code: "A1", InitialBalance: decimal.NewFromInt(10), InitialUnitCost: decimal.NewFromInt(2)},
			{Code: "B2", InitialBalance: decimal.NewFromInt(-4), InitialUnitCost: decimal.NewFromInt(3)},
		},
		histories: map[string][]entity.MovementRecord{},
		counts:    [3]int{2, 0, 1},
	}
	uc := fixedYear(NewAnalysisUseCase(reader))

	s := uc.BuildSummary("default")
	assert.Equal(t, 2, s.TotalProducts)
	assert.Equal(t, 1, s.TotalBatches)
	assert.Equal(t, "10", s.TotalQuantity.String(), "el stock negativo no suma cantidad")
	assert.Equal(t, "8", s.TotalValue.String(), "pero sí resta valor: 20 - 12")
}
