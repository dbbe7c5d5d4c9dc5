package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bimal-bp/DPR/internal/application/inventory"
	"github.com/bimal-bp/DPR/internal/domain/entity"
	"github.com/bimal-bp/DPR/internal/infrastructure/pdf"
)

func sampleReport() inventory.HistoryReport {
	d20 := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)
	d21 := d20.AddDate(0, 0, 1)
	rows := []entity.LedgerRow{
		{
			LedgerEntry: entity.LedgerEntry{
				ProductID: "p1", Date: d20,
				Movement: entity.Movement{Production: decimal.RequireFromString("42.55")},
				Closing:  decimal.RequireFromString("42.55"),
			},
			ProductName: "MS-AMS", Category: entity.CategoryFinished, Unit: entity.UnitMass,
		},
		{
			LedgerEntry: entity.LedgerEntry{
				ProductID: "p1", Date: d21,
				Opening:  decimal.RequireFromString("42.55"),
				Movement: entity.Movement{Dispatch: decimal.NewFromInt(10)},
				Closing:  decimal.RequireFromString("32.55"),
			},
			ProductName: "MS-AMS", Category: entity.CategoryFinished, Unit: entity.UnitMass,
		},
	}
	return inventory.HistoryReport{
		Title:    "Reporte diario de stock",
		Category: entity.CategoryFinished,
		Start:    d20,
		End:      d21,
		Rows:     rows,
		Pivot:    inventory.PivotHistory(entity.CategoryFinished, d20, d21, rows),
	}
}

func TestGenerateHistoryPDF_ProduceDocumento(t *testing.T) {
	g := pdf.NewMarotoReportGenerator("dpr-ledger")

	out, err := g.GenerateHistoryPDF(context.Background(), sampleReport())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")
}

func TestGenerateHistoryPDF_RangoSinDatos(t *testing.T) {
	g := pdf.NewMarotoReportGenerator("dpr-ledger")
	report := sampleReport()
	report.Rows = nil
	report.Pivot = inventory.PivotHistory(report.Category, report.Start, report.End, nil)

	out, err := g.GenerateHistoryPDF(context.Background(), report)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
