// Package pdf genera el reporte de stock por local en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Aleman Experto + Local   │  Fecha + Unidad          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Formato | Stock | UMB               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de productos                                  │
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

	"github.com/jhoicas/aleman-inventario/internal/application/dto"
	appinventory "github.com/jhoicas/aleman-inventario/internal/application/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 221, Green: 0, Blue: 0}
	colorAccent  = &props.Color{Red: 255, Green: 204, Blue: 0}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appinventory.StockPDFRenderer = (*StockReportGenerator)(nil)

// StockReportGenerator implementa inventory.StockPDFRenderer usando Maroto v2.
type StockReportGenerator struct {
	title string
}

// NewStockReportGenerator construye el generador; title encabeza cada reporte.
func NewStockReportGenerator(title string) *StockReportGenerator {
	if title == "" {
		title = "Aleman Experto"
	}
	return &StockReportGenerator{title: title}
}

// RenderStockPDF genera el PDF y devuelve sus bytes.
func (g *StockReportGenerator) RenderStockPDF(_ context.Context, report *dto.StockReportResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Stock "+report.LocationName, true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow(report.Unit))
	m.AddRows(tableRows(report)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorAccent, Thickness: 0.3}))
	m.AddRows(footerRow(len(report.Lines)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, report *dto.StockReportResponse) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Stock: "+report.LocationName, props.Text{
				Size: 10, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REPORTE DE STOCK", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
			text.New("Unidad: "+unitLabel(report.Unit), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow(unit string) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	qty := "Stock"
	if unit == appinventory.ReportUnitPack {
		qty = "Packs"
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Formato", 2, align.Left),
		h(qty, 2, align.Right),
		h("UMB", 2, align.Left),
	)
}

func tableRows(report *dto.StockReportResponse) []core.Row {
	result := make([]core.Row, 0, len(report.Lines))
	for _, l := range report.Lines {
		qty := l.Quantity.StringFixed(3)
		unit := l.BaseUnit
		if report.Unit == appinventory.ReportUnitPack && l.PackQuantity != nil {
			qty = l.PackQuantity.StringFixed(3)
			unit = "packs"
		}
		qtyProps := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
		if l.Quantity.IsNegative() {
			qtyProps.Color = colorPrimary
			qtyProps.Style = fontstyle.Bold
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(nonEmpty(l.SKU, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(l.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(l.Format, props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
			col.New(2).Add(text.New(qty, qtyProps)),
			col.New(2).Add(text.New(unit, props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
		))
	}
	return result
}

func footerRow(n int) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("%d productos con movimientos", n), props.Text{
			Size: 7, Align: align.Right, Color: colorGray, Top: 2,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func unitLabel(unit string) string {
	if unit == appinventory.ReportUnitPack {
		return "packs"
	}
	return "unidad base"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
