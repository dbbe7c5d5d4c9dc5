// Package pdf implementa el reporte de stock por rango de fechas.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + categoría  │  Rango de fechas              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Producto | Apertura | Entradas | Salidas |   │
//	│         Cierre                                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: por producto, totales del rango + último cierre    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/bimal-bp/DPR/internal/application/inventory"
	"github.com/bimal-bp/DPR/internal/domain/entity"
	"github.com/bimal-bp/DPR/internal/domain/ledger"
)

var _ inventory.ReportPDFGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var categoryLabels = map[entity.Category]string{
	entity.CategoryFinished: "Productos terminados",
	entity.CategoryRaw:      "Materias primas",
	entity.CategoryBag:      "Sacos",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa inventory.ReportPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	author string
}

// NewMarotoReportGenerator construye el generador. author se graba en los metadatos del PDF.
func NewMarotoReportGenerator(author string) *MarotoReportGenerator {
	return &MarotoReportGenerator{author: author}
}

// GenerateHistoryPDF genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateHistoryPDF(_ context.Context, report inventory.HistoryReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(report.Rows) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos registrados en el rango.", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}
	for _, r := range tableDetailRows(report.Rows) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range summaryRows(report.Pivot) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + categoría (izq) y rango de fechas (der).
func headerRow(report inventory.HistoryReport) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(report.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(categoryLabels[report.Category], string(report.Category)), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Desde: "+report.Start.Format("02/01/2006"), props.Text{
				Size: 9, Align: align.Right, Top: 2,
			}),
			text.New("Hasta: "+report.End.Format("02/01/2006"), props.Text{
				Size: 9, Align: align.Right, Top: 8,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, a align.Type) core.Col {
		return col.New(2).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", align.Left),
		h("Producto", align.Left),
		h("Apertura", align.Right),
		h("Entradas", align.Right),
		h("Salidas", align.Right),
		h("Cierre", align.Right),
	)
}

// tableDetailRows: una fila por entrada (ya ordenadas por fecha y producto).
func tableDetailRows(rows []entity.LedgerRow) []core.Row {
	cell := func(s string, a align.Type) core.Col {
		return col.New(2).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		result = append(result, row.New(6).Add(
			cell(ledger.FormatDate(r.Date), align.Left),
			cell(r.ProductName, align.Left),
			cell(formatQty(r.Opening, r.Unit), align.Right),
			cell(formatQty(r.Inflow(), r.Unit), align.Right),
			cell(formatQty(r.Outflow(), r.Unit), align.Right),
			cell(formatQty(r.Closing, r.Unit), align.Right),
		))
	}
	return result
}

// summaryRows: totales por producto y último cierre conocido del rango.
func summaryRows(p inventory.HistoryPivot) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New("RESUMEN DEL RANGO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	for _, l := range p.Lines {
		last := "-"
		for i := len(l.Closing) - 1; i >= 0; i-- {
			if l.Closing[i] != nil {
				last = formatQty(*l.Closing[i], l.Unit)
				break
			}
		}
		rows = append(rows, row.New(6).Add(
			col.New(4).Add(text.New(l.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New("Entradas: "+formatQty(l.Totals.Inflow(), l.Unit), props.Text{
				Size: 8, Align: align.Right, Top: 1,
			})),
			col.New(3).Add(text.New("Salidas: "+formatQty(l.Totals.Outflow(), l.Unit), props.Text{
				Size: 8, Align: align.Right, Top: 1,
			})),
			col.New(2).Add(text.New(last, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQty: sacos sin decimales, masas con 3.
func formatQty(d decimal.Decimal, unit entity.Unit) string {
	if unit == entity.UnitCount {
		return d.StringFixed(0)
	}
	return d.StringFixed(ledger.MaxScale)
}
