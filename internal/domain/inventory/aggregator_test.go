package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/inventario-dashboard/internal/domain/entity"
	"github.com/tu-usuario/inventario-dashboard/internal/domain/inventory"
)

func record(date string, qty float64) entity.MovementRecord {
	return entity.MovementRecord{
		Date:     date,
		Quantity: decimal.NewFromFloat(qty),
		UnitCost: decimal.NewFromInt(100),
		Total:    decimal.NewFromFloat(qty).Abs().Mul(decimal.NewFromInt(100)),
	}
}

func TestAggregateMonthly_EntradaVacia(t *testing.T) {
	months, skipped := inventory.AggregateMonthly(nil)
	assert.Empty(t, months, "sin movimientos no debe haber meses")
	assert.Empty(t, skipped)
}

func TestAggregateMonthly_UnMesConEntradasYSalidas(t *testing.T) {
	months, skipped := inventory.AggregateMonthly([]entity.MovementRecord{
		record("2024-01-15", 10),
		record("2024-01-20", -4),
	})
	require.Len(t, months, 1)
	require.Empty(t, skipped)

	m := months[0]
	assert.Equal(t, "2024-01", m.Month)
	assert.True(t, m.TotalEntries.Equal(decimal.NewFromInt(10)), "entradas: %s", m.TotalEntries)
	assert.True(t, m.TotalExits.Equal(decimal.NewFromInt(4)), "salidas: %s", m.TotalExits)
	assert.True(t, m.ClosingBalance.Equal(decimal.NewFromInt(6)), "balance: %s", m.ClosingBalance)
}

func TestAggregateMonthly_SoloEntradas(t *testing.T) {
	months, _ := inventory.AggregateMonthly([]entity.MovementRecord{
		record("2024-03-01", 7),
	})
	require.Len(t, months, 1)
	assert.True(t, months[0].TotalExits.IsZero())
	assert.True(t, months[0].ClosingBalance.Equal(months[0].TotalEntries))
}

func TestAggregateMonthly_OrdenAscendentePorMes(t *testing.T) {
	months, _ := inventory.AggregateMonthly([]entity.MovementRecord{
		record("2024-02-10", 5),
		record("2024-01-05", 3),
		record("2024-02-20", -1),
	})
	require.Len(t, months, 2, "exactamente un agregado por mes distinto")
	assert.Equal(t, "2024-01", months[0].Month)
	assert.Equal(t, "2024-02", months[1].Month)
}

// La conservación de masa del agregado: la suma firmada de cantidades de la
// entrada debe igualar entradas − salidas acumuladas de la salida.
func TestAggregateMonthly_ConservaLaSumaFirmada(t *testing.T) {
	records := []entity.MovementRecord{
		record("2023-11-02", 12.5),
		record("2023-11-15", -3.25),
		record("2023-12-01", -8),
		record("2024-01-09", 4),
		record("2024-01-09", 0), // cantidad cero: pertenece al mes, no suma
		record("2024-02-28", -4.75),
	}

	signedSum := decimal.Zero
	for _, r := range records {
		signedSum = signedSum.Add(r.Quantity)
	}

	months, skipped := inventory.AggregateMonthly(records)
	require.Empty(t, skipped)

	aggregateSum := decimal.Zero
	for _, m := range months {
		aggregateSum = aggregateSum.Add(m.TotalEntries).Sub(m.TotalExits)
	}
	assert.True(t, aggregateSum.Equal(signedSum),
		"agregado %s vs suma firmada %s", aggregateSum, signedSum)
}

func TestAggregateMonthly_MesConSoloCantidadCero(t *testing.T) {
	months, _ := inventory.AggregateMonthly([]entity.MovementRecord{
		record("2024-05-10", 0),
	})
	// La fila agrupa por fecha aunque no mueva cantidad.
	require.Len(t, months, 1)
	assert.Equal(t, "2024-05", months[0].Month)
	assert.True(t, months[0].TotalEntries.IsZero())
	assert.True(t, months[0].TotalExits.IsZero())
	assert.True(t, months[0].ClosingBalance.IsZero())
}

func TestAggregateMonthly_FechasInvalidasSeReportanNoSePierden(t *testing.T) {
	months, skipped := inventory.AggregateMonthly([]entity.MovementRecord{
		record("2024-01-10", 5),
		record("no-es-fecha", 99),
		record("", -2),
	})
	require.Len(t, months, 1)
	require.Len(t, skipped, 2, "cada fila inválida debe quedar en el reporte")

	assert.Equal(t, 1, skipped[0].Index)
	assert.Equal(t, "no-es-fecha", skipped[0].RawDate)
	assert.Equal(t, 2, skipped[1].Index)
	// La fila válida no se ve afectada.
	assert.True(t, months[0].TotalEntries.Equal(decimal.NewFromInt(5)))
}
