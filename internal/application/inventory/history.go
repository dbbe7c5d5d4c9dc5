package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bimal-bp/DPR/internal/domain"
	"github.com/bimal-bp/DPR/internal/domain/entity"
	"github.com/bimal-bp/DPR/internal/domain/ledger"
	"github.com/bimal-bp/DPR/internal/domain/repository"
)

// HistoryUseCase consultas de solo lectura sobre rangos del libro diario.
type HistoryUseCase struct {
	txRunner TxRunner
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(txRunner TxRunner) *HistoryUseCase {
	return &HistoryUseCase{txRunner: txRunner}
}

// QueryRange devuelve las entradas de la categoría entre start y end (inclusive),
// ordenadas por (fecha, nombre de producto). Sin datos devuelve una lista vacía, no un error.
// start > end es domain.ErrInvalidRange.
func (uc *HistoryUseCase) QueryRange(ctx context.Context, category entity.Category, start, end time.Time) ([]entity.LedgerRow, error) {
	if !category.Valid() {
		return nil, domain.NewValidationError("", "category", "categoría desconocida")
	}
	start, end = ledger.NormalizeDate(start), ledger.NormalizeDate(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: inicio %s posterior a fin %s", domain.ErrInvalidRange, ledger.FormatDate(start), ledger.FormatDate(end))
	}

	var rows []entity.LedgerRow
	err := uc.txRunner.Run(ctx, func(_ repository.ProductRepository, ledgerRepo repository.LedgerRepository) error {
		var err error
		rows, err = ledgerRepo.ListRange(ctx, repository.RangeFilter{Category: category, Start: start, End: end})
		if err != nil {
			return err
		}
		for i := range rows {
			if err := ledger.Verify(&rows[i].LedgerEntry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("consulta histórica", err)
	}
	if rows == nil {
		rows = []entity.LedgerRow{}
	}
	return rows, nil
}

// PivotLine fila del pivote: un producto con su cierre por fecha.
type PivotLine struct {
	ProductID   string
	ProductName string
	Unit        entity.Unit
	Closing     []*decimal.Decimal // alineado con HistoryPivot.Dates; nil = sin entrada ese día
	Totals      entity.Movement    // suma de movimientos del rango
}

// HistoryPivot matriz fechas × productos para reportes.
type HistoryPivot struct {
	Category entity.Category
	Start    time.Time
	End      time.Time
	Dates    []time.Time
	Lines    []PivotLine
}

// PivotHistory pivotea filas (ya ordenadas o no) por producto y fecha.
func PivotHistory(category entity.Category, start, end time.Time, rows []entity.LedgerRow) HistoryPivot {
	pivot := HistoryPivot{Category: category, Start: ledger.NormalizeDate(start), End: ledger.NormalizeDate(end)}

	// Clave por string: time.Time como clave de map compara también la Location.
	dateIdx := make(map[string]int)
	for _, r := range rows {
		k := ledger.FormatDate(r.Date)
		if _, ok := dateIdx[k]; !ok {
			dateIdx[k] = 0
			pivot.Dates = append(pivot.Dates, ledger.NormalizeDate(r.Date))
		}
	}
	sort.Slice(pivot.Dates, func(i, j int) bool { return pivot.Dates[i].Before(pivot.Dates[j]) })
	for i, d := range pivot.Dates {
		dateIdx[ledger.FormatDate(d)] = i
	}

	lineIdx := make(map[string]int)
	for _, r := range rows {
		i, ok := lineIdx[r.ProductID]
		if !ok {
			i = len(pivot.Lines)
			lineIdx[r.ProductID] = i
			pivot.Lines = append(pivot.Lines, PivotLine{
				ProductID:   r.ProductID,
				ProductName: r.ProductName,
				Unit:        r.Unit,
				Closing:     make([]*decimal.Decimal, len(pivot.Dates)),
			})
		}
		line := &pivot.Lines[i]
		closing := r.Closing
		line.Closing[dateIdx[ledger.FormatDate(r.Date)]] = &closing
		line.Totals.Production = line.Totals.Production.Add(r.Production)
		line.Totals.Received = line.Totals.Received.Add(r.Received)
		line.Totals.Dispatch = line.Totals.Dispatch.Add(r.Dispatch)
		line.Totals.Used = line.Totals.Used.Add(r.Used)
		line.Totals.Purchase = line.Totals.Purchase.Add(r.Purchase)
	}
	sort.SliceStable(pivot.Lines, func(i, j int) bool { return pivot.Lines[i].ProductName < pivot.Lines[j].ProductName })
	return pivot
}
