// Package excel lee los archivos de carga (base y actualización) y genera las
// exportaciones .xlsx del servidor stub. Los layouts de columnas replican los
// archivos reales del sistema contable origen.
package excel

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/tu-usuario/inventario-dashboard/internal/domain"
	"github.com/tu-usuario/inventario-dashboard/internal/domain/entity"
	"github.com/tu-usuario/inventario-dashboard/internal/domain/inventory"
)

// BaseRow es una fila del archivo base ya limpia, antes de agrupar por código.
type BaseRow struct {
	Warehouse   string
	Group       string
	Code        string
	Description string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	TotalValue  decimal.Decimal
}

// safeDecimal convierte un valor de celda a decimal tolerando vacíos y el
// formato colombiano (coma decimal). Valores inválidos quedan en cero:
// los archivos reales traen celdas sucias y una fila no debe tumbar la carga.
func safeDecimal(raw string) decimal.Decimal {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// cleanCode normaliza un código de producto: trim y sin ceros a la izquierda.
func cleanCode(raw string) string {
	return strings.TrimLeft(strings.TrimSpace(raw), "0")
}

func openSheet(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: el archivo no es un Excel válido: %v", domain.ErrValidation, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: leyendo hoja %q: %v", domain.ErrValidation, sheet, err)
	}
	return rows, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// ReadBaseFile parsea el archivo base y lo agrupa por código de producto:
// cantidades y valores se suman entre almacenes, la descripción es la primera
// vista y el costo unitario el último. Devuelve las fichas en orden de primera
// aparición, el total de filas de datos y las filas descartadas.
//
// Columnas (A..J, encabezados en la fila 1): fecha_corte, mes, almacen, grupo,
// codigo, descripcion, cantidad, unidad_medida, costo_unitario, valor_total.
func ReadBaseFile(content []byte) ([]entity.ProductInfo, int, int, error) {
	rows, err := openSheet(content)
	if err != nil {
		return nil, 0, 0, err
	}
	if len(rows) < 2 {
		return nil, 0, 0, fmt.Errorf("%w: el archivo base no tiene filas de datos", domain.ErrValidation)
	}

	type acc struct {
		info  entity.ProductInfo
		total decimal.Decimal
	}
	byCode := make(map[string]*acc)
	var order []string
	rowsTotal, skipped := 0, 0

	for _, row := range rows[1:] { // fila 1 = encabezados
		rowsTotal++
		code := cleanCode(cell(row, 4))
		desc := cell(row, 5)
		if code == "" || desc == "" {
			skipped++
			continue
		}

		qty := safeDecimal(cell(row, 6))
		unitCost := safeDecimal(cell(row, 8))
		totalValue := safeDecimal(cell(row, 9))

		a, ok := byCode[code]
		if !ok {
			a = &acc{info: entity.ProductInfo{
				Code:        code,
				Description: desc,
				Group:       inventory.GroupName(cell(row, 3)),
			}}
			byCode[code] = a
			order = append(order, code)
		}
		a.info.InitialBalance = a.info.InitialBalance.Add(qty)
		a.total = a.total.Add(totalValue)
		// Último costo unitario del archivo gana, como en el proceso original.
		if !unitCost.IsZero() {
			a.info.InitialUnitCost = unitCost
		}
	}

	products := make([]entity.ProductInfo, 0, len(order))
	for _, code := range order {
		a := byCode[code]
		if a.info.InitialUnitCost.IsZero() && !a.info.InitialBalance.IsZero() {
			a.info.InitialUnitCost = a.total.Div(a.info.InitialBalance.Abs())
		}
		products = append(products, a.info)
	}
	return products, rowsTotal, skipped, nil
}

// ReadUpdateFile parsea un archivo de actualización a movimientos.
// quantity = entradas − salidas; filas sin movimiento neto se saltan; el
// documento se parte en tipo (2 letras: EA/SA/GF) y número; costo o total
// faltante se deriva del otro. Devuelve movimientos, filas totales y saltadas.
//
// Columnas (A..J, encabezados en la fila 1): item, desc_item, localizacion,
// categoria, fecha, documento, entradas, salidas, unitario, total.
func ReadUpdateFile(content []byte) ([]entity.MovementRecord, int, int, error) {
	rows, err := openSheet(content)
	if err != nil {
		return nil, 0, 0, err
	}
	if len(rows) < 2 {
		return nil, 0, 0, fmt.Errorf("%w: el archivo de actualización no tiene filas de datos", domain.ErrValidation)
	}

	var records []entity.MovementRecord
	rowsTotal, skipped := 0, 0

	for _, row := range rows[1:] {
		rowsTotal++
		code := cleanCode(cell(row, 0))
		date := parseCellDate(cell(row, 4))
		document := strings.TrimSpace(cell(row, 5))
		if code == "" || date == "" || document == "" {
			skipped++
			continue
		}

		entries := safeDecimal(cell(row, 6))
		exits := safeDecimal(cell(row, 7))
		quantity := entries.Sub(exits)
		if quantity.IsZero() {
			skipped++
			continue
		}

		unitCost, total := inventory.CompleteCost(quantity, safeDecimal(cell(row, 8)), safeDecimal(cell(row, 9)))

		docType, docNumber := "", document
		if len(document) >= 2 {
			docType, docNumber = document[:2], document[2:]
		}

		records = append(records, entity.MovementRecord{
			ProductCode:        code,
			ProductDescription: cell(row, 1),
			Warehouse:          cell(row, 2),
			Category:           inventory.GroupName(cell(row, 3)),
			Date:               date,
			DocumentType:       docType,
			DocumentNumber:     docNumber,
			Quantity:           quantity,
			UnitCost:           unitCost,
			Total:              total,
		})
	}
	return records, rowsTotal, skipped, nil
}

// parseCellDate acepta los formatos de fecha que aparecen en los archivos
// reales y normaliza a ISO. Devuelve "" si no se pudo interpretar.
func parseCellDate(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range []string{"2006-01-02", "20060102", "02/01/2006", "2/1/2006", "01-02-06", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}
