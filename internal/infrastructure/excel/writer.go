package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tu-usuario/inventario-dashboard/internal/domain/entity"
)

// MIMEXLSX es el content type de las exportaciones Excel.
const MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteAnalysis genera el .xlsx de la exportación del análisis de productos,
// con las mismas columnas en español que la tabla del dashboard.
func WriteAnalysis(items []entity.AnalysisItem) ([]byte, error) {
	headers := []any{
		"Código", "Producto", "Grupo", "Cantidad", "Valor",
		"Costo unitario", "Rotación", "Estancado", "Alta rotación",
	}
	rows := make([][]any, 0, len(items))
	for _, it := range items {
		rows = append(rows, []any{
			it.Code, it.ProductName, it.Group,
			it.Quantity.InexactFloat64(), it.Value.InexactFloat64(),
			it.UnitCost.InexactFloat64(), it.Rotation, it.Stagnant, it.HighRotation,
		})
	}
	return writeSheet("Análisis", headers, rows)
}

// WriteMovements genera el .xlsx de la exportación de movimientos.
func WriteMovements(records []entity.MovementRecord) ([]byte, error) {
	headers := []any{
		"Fecha", "Código", "Producto", "Almacén", "Tipo doc", "N° doc",
		"Cantidad", "Costo unitario", "Total",
	}
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{
			r.Date, r.ProductCode, r.ProductDescription, r.Warehouse,
			r.DocumentType, r.DocumentNumber,
			r.Quantity.InexactFloat64(), r.UnitCost.InexactFloat64(), r.Total.InexactFloat64(),
		})
	}
	return writeSheet("Movimientos", headers, rows)
}

func writeSheet(name string, headers []any, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	if err := f.SetSheetName(defaultSheet, name); err != nil {
		return nil, fmt.Errorf("renombrando hoja: %w", err)
	}

	if err := f.SetSheetRow(name, "A1", &headers); err != nil {
		return nil, fmt.Errorf("escribiendo encabezados: %w", err)
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(name, cellRef, &row); err != nil {
			return nil, fmt.Errorf("escribiendo fila %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializando xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
