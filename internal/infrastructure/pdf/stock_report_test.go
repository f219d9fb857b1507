package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/aleman-inventario/internal/application/dto"
	"github.com/jhoicas/aleman-inventario/internal/infrastructure/pdf"
)

func TestRenderStockPDF_GeneraDocumento(t *testing.T) {
	packs := decimal.RequireFromString("1")
	report := &dto.StockReportResponse{
		LocationName: "Providencia",
		Unit:         "pack",
		GeneratedAt:  time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		Lines: []dto.StockLineResponse{
			{ProductID: "p1", Name: "Aceite", Format: "Pack 6", BaseUnit: "unidades", PackSize: 6, Quantity: decimal.NewFromInt(6), PackQuantity: &packs},
			{ProductID: "p2", SKU: "H-1", Name: "Harina", Format: "Saco 25", BaseUnit: "gramos", PackSize: 25000, Quantity: decimal.NewFromInt(-500)},
		},
	}
	out, err := pdf.NewStockReportGenerator("").RenderStockPDF(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderStockPDF_ReporteVacio(t *testing.T) {
	report := &dto.StockReportResponse{LocationName: "Todos los locales", Unit: "base", GeneratedAt: time.Now()}
	out, err := pdf.NewStockReportGenerator("Aleman Experto").RenderStockPDF(context.Background(), report)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
