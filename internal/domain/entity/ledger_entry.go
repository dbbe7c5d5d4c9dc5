package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Campos de movimiento (nombres usados en validaciones y respuestas de error).
const (
	FieldProduction = "production"
	FieldReceived   = "received"
	FieldDispatch   = "dispatch"
	FieldUsed       = "used"
	FieldPurchase   = "purchase"
)

// Movement cantidades de un día para un producto. Los campos ausentes valen 0.
type Movement struct {
	Production decimal.Decimal
	Received   decimal.Decimal
	Dispatch   decimal.Decimal
	Used       decimal.Decimal
	Purchase   decimal.Decimal
}

// Inflow suma de entradas (producción, recibido, compra).
func (m Movement) Inflow() decimal.Decimal {
	return m.Production.Add(m.Received).Add(m.Purchase)
}

// Outflow suma de salidas (despacho, usado).
func (m Movement) Outflow() decimal.Decimal {
	return m.Dispatch.Add(m.Used)
}

// Fields devuelve los movimientos indexados por nombre de campo.
func (m Movement) Fields() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		FieldProduction: m.Production,
		FieldReceived:   m.Received,
		FieldDispatch:   m.Dispatch,
		FieldUsed:       m.Used,
		FieldPurchase:   m.Purchase,
	}
}

// LedgerEntry registro diario de un producto. Única por (ProductID, Date).
// Closing es derivado: nunca se asigna a mano, lo calcula ledger.Apply antes de escribir.
type LedgerEntry struct {
	ProductID string
	Date      time.Time // medianoche UTC
	Opening   decimal.Decimal
	Movement
	Closing   decimal.Decimal
	UpdatedAt time.Time
}

// LedgerRow entrada del libro con los datos del producto (consultas históricas).
type LedgerRow struct {
	LedgerEntry
	ProductName string
	Category    Category
	Unit        Unit
}
