// Package output renderiza las tablas del dashboard en la terminal.
package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/tu-usuario/inventario-dashboard/internal/application/dashboard"
	"github.com/tu-usuario/inventario-dashboard/internal/domain/entity"
	"github.com/tu-usuario/inventario-dashboard/internal/domain/inventory"
	"github.com/tu-usuario/inventario-dashboard/pkg/format"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// Summary imprime la pestaña de resumen.
func Summary(w io.Writer, s *entity.Summary) {
	if s == nil {
		fmt.Fprintln(w, "Sin datos de resumen.")
		return
	}
	tw := newTable(w)
	fmt.Fprintf(tw, "Inventario:\t%s\n", s.InventoryName)
	fmt.Fprintf(tw, "Productos:\t%d\n", s.TotalProducts)
	fmt.Fprintf(tw, "Movimientos:\t%d\n", s.TotalRecords)
	fmt.Fprintf(tw, "Batches:\t%d\n", s.TotalBatches)
	fmt.Fprintf(tw, "Cantidad total:\t%s\n", format.Quantity(s.TotalQuantity))
	fmt.Fprintf(tw, "Valor total:\t%s\n", format.Currency(s.TotalValue))
	tw.Flush()
}

// Analysis imprime la tabla del análisis de productos.
func Analysis(w io.Writer, result dashboard.AnalysisResult) {
	if len(result.Items) == 0 {
		fmt.Fprintln(w, "Sin filas de análisis para los filtros activos.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "CÓDIGO\tPRODUCTO\tGRUPO\tCANTIDAD\tVALOR\tROTACIÓN\tESTANCADO\tALTA ROT.")
	for _, it := range result.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			it.Code, it.ProductName, inventory.GroupShortName(inventory.GroupName(it.Group)),
			format.Quantity(it.Quantity), format.Currency(it.Value),
			it.Rotation, it.Stagnant, it.HighRotation)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d filas, %d productos únicos\n", len(result.Items), len(result.Products))
}

// Movements imprime la tabla de movimientos y su agregado mensual.
func Movements(w io.Writer, result dashboard.MovementsResult) {
	if len(result.Records) == 0 {
		fmt.Fprintln(w, "Sin movimientos para los filtros activos.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "FECHA\tCÓDIGO\tPRODUCTO\tALMACÉN\tDOC\tCANTIDAD\tCOSTO UNIT.\tTOTAL")
	for _, r := range result.Records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Date, r.ProductCode, r.ProductDescription, r.Warehouse,
			r.DocumentType+r.DocumentNumber,
			format.Quantity(r.Quantity), format.Currency(r.UnitCost), format.Currency(r.Total))
	}
	tw.Flush()

	if len(result.Monthly) > 0 {
		fmt.Fprintln(w)
		Monthly(w, result.Monthly)
	}
	if n := len(result.Skipped); n > 0 {
		fmt.Fprintf(w, "\nAdvertencia: %d fila(s) con fecha inválida quedaron fuera del agregado mensual.\n", n)
	}
}

// Monthly imprime el agregado mensual con una barra proporcional por mes,
// el reemplazo de terminal del gráfico del dashboard.
func Monthly(w io.Writer, months []entity.MonthlyMovement) {
	if len(months) == 0 {
		fmt.Fprintln(w, "Sin agregado mensual.")
		return
	}

	maxMove := months[0].TotalEntries
	for _, m := range months {
		if m.TotalEntries.GreaterThan(maxMove) {
			maxMove = m.TotalEntries
		}
		if m.TotalExits.GreaterThan(maxMove) {
			maxMove = m.TotalExits
		}
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "MES\tENTRADAS\tSALIDAS\tBALANCE\t")
	for _, m := range months {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			m.Month,
			format.Quantity(m.TotalEntries),
			format.Quantity(m.TotalExits),
			format.Quantity(m.ClosingBalance),
			bar(m.TotalEntries.InexactFloat64(), m.TotalExits.InexactFloat64(), maxMove.InexactFloat64()))
	}
	tw.Flush()
}

// bar dibuja entradas (+) y salidas (-) a escala de 20 caracteres.
func bar(entries, exits, max float64) string {
	if max <= 0 {
		return ""
	}
	const width = 20
	plus := int(entries / max * width)
	minus := int(exits / max * width)
	return strings.Repeat("+", plus) + strings.Repeat("-", minus)
}

// Products imprime las fichas de producto del archivo base.
func Products(w io.Writer, products []entity.ProductInfo) {
	if len(products) == 0 {
		fmt.Fprintln(w, "Sin productos. ¿Ya cargó el archivo base?")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "CÓDIGO\tDESCRIPCIÓN\tGRUPO\tSALDO INICIAL\tCOSTO INICIAL")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.Code, p.Description, p.Group,
			format.Quantity(p.InitialBalance), format.Currency(p.InitialUnitCost))
	}
	tw.Flush()
}

// Batches imprime los batches de importación.
func Batches(w io.Writer, batches []entity.ImportBatch) {
	if len(batches) == 0 {
		fmt.Fprintln(w, "Sin batches importados.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tARCHIVO\tINICIADO\tFILAS\tIMPORTADAS")
	for _, b := range batches {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n",
			b.ID, b.FileName, b.StartedAt.Format("2006-01-02 15:04"), b.RowsTotal, b.RowsImported)
	}
	tw.Flush()
}

// History imprime el historial de movimientos de un producto.
func History(w io.Writer, code string, records []entity.MovementRecord) {
	if len(records) == 0 {
		fmt.Fprintf(w, "Sin movimientos para el producto %s.\n", code)
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "FECHA\tDOC\tALMACÉN\tCANTIDAD\tCOSTO UNIT.\tTOTAL")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Date, r.DocumentType+r.DocumentNumber, r.Warehouse,
			format.Quantity(r.Quantity), format.Currency(r.UnitCost), format.Currency(r.Total))
	}
	tw.Flush()
}

// Inventories imprime la lista de inventarios.
func Inventories(w io.Writer, names []string) {
	if len(names) == 0 {
		fmt.Fprintln(w, "Sin inventarios creados.")
		return
	}
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
}
