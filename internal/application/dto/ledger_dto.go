package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bimal-bp/DPR/internal/application/inventory"
	"github.com/bimal-bp/DPR/internal/domain/entity"
	"github.com/bimal-bp/DPR/internal/domain/ledger"
)

// MovementDTO movimientos de un producto en un día. Los campos omitidos valen 0.
type MovementDTO struct {
	Production decimal.Decimal `json:"production"`
	Received   decimal.Decimal `json:"received"`
	Dispatch   decimal.Decimal `json:"dispatch"`
	Used       decimal.Decimal `json:"used"`
	Purchase   decimal.Decimal `json:"purchase"`
}

// ToMovement convierte al tipo de dominio.
func (m MovementDTO) ToMovement() entity.Movement {
	return entity.Movement{
		Production: m.Production,
		Received:   m.Received,
		Dispatch:   m.Dispatch,
		Used:       m.Used,
		Purchase:   m.Purchase,
	}
}

func fromMovement(m entity.Movement) MovementDTO {
	return MovementDTO{
		Production: m.Production,
		Received:   m.Received,
		Dispatch:   m.Dispatch,
		Used:       m.Used,
		Purchase:   m.Purchase,
	}
}

// SaveDayRequest body de PUT /api/ledger/daily/:date (product_id → movimientos).
type SaveDayRequest struct {
	Edits map[string]MovementDTO `json:"edits"`
}

// ToEdits convierte el body al mapa que recibe SaveDay.
func (r SaveDayRequest) ToEdits() map[string]entity.Movement {
	edits := make(map[string]entity.Movement, len(r.Edits))
	for id, m := range r.Edits {
		edits[id] = m.ToMovement()
	}
	return edits
}

// OpeningResponse salida de GET /api/ledger/opening.
type OpeningResponse struct {
	ProductID string          `json:"product_id"`
	Date      string          `json:"date"`
	Opening   decimal.Decimal `json:"opening"`
}

// LedgerEntryResponse entrada del libro diario.
type LedgerEntryResponse struct {
	ProductID string          `json:"product_id"`
	Date      string          `json:"date"`
	Opening   decimal.Decimal `json:"opening"`
	MovementDTO
	Closing   decimal.Decimal `json:"closing"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// FromEntry mapea una entrada.
func FromEntry(e *entity.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ProductID:   e.ProductID,
		Date:        ledger.FormatDate(e.Date),
		Opening:     e.Opening,
		MovementDTO: fromMovement(e.Movement),
		Closing:     e.Closing,
		UpdatedAt:   e.UpdatedAt,
	}
}

// SaveDayResponse entradas resultantes del lote.
type SaveDayResponse struct {
	Date    string                `json:"date"`
	Entries []LedgerEntryResponse `json:"entries"`
}

// FromSavedDay mapea el resultado de SaveDay.
func FromSavedDay(date time.Time, entries []*entity.LedgerEntry) SaveDayResponse {
	out := SaveDayResponse{Date: ledger.FormatDate(date), Entries: make([]LedgerEntryResponse, 0, len(entries))}
	for _, e := range entries {
		out.Entries = append(out.Entries, FromEntry(e))
	}
	return out
}

// DailyViewItemResponse fila de la vista diaria.
type DailyViewItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	Unit        string          `json:"unit"`
	Opening     decimal.Decimal `json:"opening"`
	MovementDTO
	Total   decimal.Decimal `json:"total"`
	Closing decimal.Decimal `json:"closing"`
}

// DailyViewResponse salida de GET /api/ledger/daily.
type DailyViewResponse struct {
	Date  string                  `json:"date"`
	Items []DailyViewItemResponse `json:"items"`
}

// FromDailyView mapea la vista diaria.
func FromDailyView(date time.Time, items []inventory.DailyViewItem) DailyViewResponse {
	out := DailyViewResponse{Date: ledger.FormatDate(date), Items: make([]DailyViewItemResponse, 0, len(items))}
	for _, it := range items {
		out.Items = append(out.Items, DailyViewItemResponse{
			ProductID:   it.Product.ID,
			ProductName: it.Product.Name,
			Category:    string(it.Product.Category),
			Unit:        string(it.Product.Unit),
			Opening:     it.Entry.Opening,
			MovementDTO: fromMovement(it.Entry.Movement),
			Total:       it.Total,
			Closing:     it.Entry.Closing,
		})
	}
	return out
}

// HistoryRowResponse fila de la consulta histórica.
type HistoryRowResponse struct {
	Date        string          `json:"date"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit"`
	Opening     decimal.Decimal `json:"opening"`
	MovementDTO
	Closing decimal.Decimal `json:"closing"`
}

// HistoryResponse salida de GET /api/ledger/history.
type HistoryResponse struct {
	Category string               `json:"category"`
	Range    RangeResponse        `json:"range"`
	Rows     []HistoryRowResponse `json:"rows"`
}

// FromHistory mapea las filas de QueryRange.
func FromHistory(category entity.Category, start, end time.Time, rows []entity.LedgerRow) HistoryResponse {
	out := HistoryResponse{
		Category: string(category),
		Range:    RangeResponse{Start: ledger.FormatDate(start), End: ledger.FormatDate(end)},
		Rows:     make([]HistoryRowResponse, 0, len(rows)),
	}
	for _, r := range rows {
		out.Rows = append(out.Rows, HistoryRowResponse{
			Date:        ledger.FormatDate(r.Date),
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			Unit:        string(r.Unit),
			Opening:     r.Opening,
			MovementDTO: fromMovement(r.Movement),
			Closing:     r.Closing,
		})
	}
	return out
}

// PivotLineResponse un producto con su cierre por fecha (null = sin entrada).
type PivotLineResponse struct {
	ProductID   string             `json:"product_id"`
	ProductName string             `json:"product_name"`
	Unit        string             `json:"unit"`
	Closing     []*decimal.Decimal `json:"closing"`
	Totals      MovementDTO        `json:"totals"`
}

// PivotResponse salida de GET /api/ledger/history/pivot.
type PivotResponse struct {
	Category string              `json:"category"`
	Range    RangeResponse       `json:"range"`
	Dates    []string            `json:"dates"`
	Lines    []PivotLineResponse `json:"lines"`
}

// FromPivot mapea el pivote.
func FromPivot(p inventory.HistoryPivot) PivotResponse {
	out := PivotResponse{
		Category: string(p.Category),
		Range:    RangeResponse{Start: ledger.FormatDate(p.Start), End: ledger.FormatDate(p.End)},
		Dates:    make([]string, 0, len(p.Dates)),
		Lines:    make([]PivotLineResponse, 0, len(p.Lines)),
	}
	for _, d := range p.Dates {
		out.Dates = append(out.Dates, ledger.FormatDate(d))
	}
	for _, l := range p.Lines {
		out.Lines = append(out.Lines, PivotLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Unit:        string(l.Unit),
			Closing:     l.Closing,
			Totals:      fromMovement(l.Totals),
		})
	}
	return out
}
