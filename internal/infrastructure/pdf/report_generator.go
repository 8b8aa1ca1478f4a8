// Package pdf genera las exportaciones PDF del análisis de inventario y de
// los movimientos, usando Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del reporte + inventario  │  Fecha           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: columnas según el reporte                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PIE: total de filas y totales valorizados                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/inventario-dashboard/internal/domain/entity"
	"github.com/tu-usuario/inventario-dashboard/pkg/format"
)

// MIMEPDF es el content type de las exportaciones PDF.
const MIMEPDF = "application/pdf"

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ReportGenerator genera los PDFs de exportación del dashboard.
type ReportGenerator struct{}

// NewReportGenerator construye el generador.
func NewReportGenerator() *ReportGenerator { return &ReportGenerator{} }

func newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(title, true).
		Build()
	return maroto.New(cfg)
}

// GenerateAnalysis genera el PDF del análisis de productos.
func (g *ReportGenerator) GenerateAnalysis(inventoryName string, items []entity.AnalysisItem) ([]byte, error) {
	m := newDocument("Análisis de Inventario")

	m.AddRows(headerRow("Análisis de Inventario", inventoryName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(analysisHeaderRow())

	totalValue := decimal.Zero
	for _, it := range items {
		m.AddRows(analysisDetailRow(it))
		totalValue = totalValue.Add(it.Value)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(len(items), "Valor total: "+format.Currency(totalValue)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar análisis: %w", err)
	}
	return doc.GetBytes(), nil
}

// GenerateMovements genera el PDF de los movimientos.
func (g *ReportGenerator) GenerateMovements(inventoryName string, records []entity.MovementRecord) ([]byte, error) {
	m := newDocument("Movimientos de Inventario")

	m.AddRows(headerRow("Movimientos de Inventario", inventoryName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(movementsHeaderRow())

	total := decimal.Zero
	for _, r := range records {
		m.AddRows(movementDetailRow(r))
		total = total.Add(r.Total)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(len(records), "Total movido: "+format.Currency(total)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar movimientos: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título del reporte (izq) y fecha de generación (der).
func headerRow(title, inventoryName string) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Inventario: "+inventoryName, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+time.Now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 1, Color: colorGray,
			}),
		),
	)
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 7, Align: a,
		Color: colorPrimary, Top: 1,
	}))
}

func analysisHeaderRow() core.Row {
	return row.New(7).Add(
		headerCell("Código", 1, align.Left),
		headerCell("Producto", 4, align.Left),
		headerCell("Grupo", 2, align.Left),
		headerCell("Cant.", 1, align.Right),
		headerCell("Valor", 2, align.Right),
		headerCell("Rotación", 1, align.Center),
		headerCell("Alta rot.", 1, align.Center),
	)
}

func analysisDetailRow(it entity.AnalysisItem) core.Row {
	cell := func(v string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(v, props.Text{Size: 7, Align: a, Top: 1}))
	}
	return row.New(6).Add(
		cell(it.Code, 1, align.Left),
		cell(it.ProductName, 4, align.Left),
		cell(it.Group, 2, align.Left),
		cell(format.Quantity(it.Quantity), 1, align.Right),
		cell(format.Currency(it.Value), 2, align.Right),
		cell(it.Rotation, 1, align.Center),
		cell(it.HighRotation, 1, align.Center),
	)
}

func movementsHeaderRow() core.Row {
	return row.New(7).Add(
		headerCell("Fecha", 1, align.Left),
		headerCell("Código", 1, align.Left),
		headerCell("Producto", 4, align.Left),
		headerCell("Almacén", 2, align.Left),
		headerCell("Doc", 1, align.Center),
		headerCell("Cant.", 1, align.Right),
		headerCell("Total", 2, align.Right),
	)
}

func movementDetailRow(r entity.MovementRecord) core.Row {
	cell := func(v string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(v, props.Text{Size: 7, Align: a, Top: 1}))
	}
	return row.New(6).Add(
		cell(r.Date, 1, align.Left),
		cell(r.ProductCode, 1, align.Left),
		cell(r.ProductDescription, 4, align.Left),
		cell(r.Warehouse, 2, align.Left),
		cell(r.DocumentType+r.DocumentNumber, 1, align.Center),
		cell(format.Quantity(r.Quantity), 1, align.Right),
		cell(format.Currency(r.Total), 2, align.Right),
	)
}

func footerRow(rows int, totals string) core.Row {
	return row.New(8).Add(
		col.New(6).Add(text.New(fmt.Sprintf("%d filas", rows), props.Text{
			Size: 8, Color: colorGray, Top: 2,
		})),
		col.New(6).Add(text.New(totals, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
		})),
	)
}
