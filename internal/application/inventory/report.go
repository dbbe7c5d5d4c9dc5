package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/bimal-bp/DPR/internal/domain/entity"
	"github.com/bimal-bp/DPR/internal/domain/ledger"
)

// HistoryReport datos completos de un reporte de rango.
type HistoryReport struct {
	Title    string
	Category entity.Category
	Start    time.Time
	End      time.Time
	Rows     []entity.LedgerRow
	Pivot    HistoryPivot
}

// ReportPDFGenerator puerto de salida: renderiza un HistoryReport como PDF.
type ReportPDFGenerator interface {
	GenerateHistoryPDF(ctx context.Context, report HistoryReport) ([]byte, error)
}

// ReportUseCase genera el PDF de la consulta histórica.
type ReportUseCase struct {
	history   *HistoryUseCase
	generator ReportPDFGenerator
	title     string
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(history *HistoryUseCase, generator ReportPDFGenerator, title string) *ReportUseCase {
	return &ReportUseCase{history: history, generator: generator, title: title}
}

// DownloadHistoryPDF ejecuta QueryRange y devuelve el PDF con su nombre de archivo.
// Un rango sin datos produce un PDF con la tabla vacía.
func (uc *ReportUseCase) DownloadHistoryPDF(ctx context.Context, category entity.Category, start, end time.Time) ([]byte, string, error) {
	rows, err := uc.history.QueryRange(ctx, category, start, end)
	if err != nil {
		return nil, "", err
	}
	report := HistoryReport{
		Title:    uc.title,
		Category: category,
		Start:    ledger.NormalizeDate(start),
		End:      ledger.NormalizeDate(end),
		Rows:     rows,
		Pivot:    PivotHistory(category, start, end, rows),
	}
	pdf, err := uc.generator.GenerateHistoryPDF(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar reporte: %w", err)
	}
	filename := fmt.Sprintf("stock_%s_%s_%s.pdf", category, ledger.FormatDate(report.Start), ledger.FormatDate(report.End))
	return pdf, filename, nil
}
