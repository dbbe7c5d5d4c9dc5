// Package ledger contiene las reglas puras del libro diario de stock:
// derivación del cierre, campos admitidos por categoría y manejo de fechas.
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bimal-bp/DPR/internal/domain"
	"github.com/bimal-bp/DPR/internal/domain/entity"
)

// DateLayout formato de fecha de negocio (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// MaxScale decimales admitidos en cantidades (NUMERIC(18,3) en la tabla).
const MaxScale = 3

// MaxMagnitude cota exclusiva de |cantidad|: NUMERIC(18,3) deja 15 dígitos enteros.
var MaxMagnitude = decimal.New(1, 15)

// NormalizeDate lleva t a la medianoche UTC de su día calendario.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PreviousDay devuelve el día calendario anterior (normalizado).
func PreviousDay(t time.Time) time.Time {
	return NormalizeDate(t).AddDate(0, 0, -1)
}

// ParseDate interpreta "YYYY-MM-DD". Un formato incorrecto es ValidationError sobre field.
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, domain.NewValidationError("", field, fmt.Sprintf("fecha %q no tiene formato YYYY-MM-DD", s))
	}
	return NormalizeDate(t), nil
}

// FormatDate inversa de ParseDate.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// AllowedFields campos de movimiento que aplican a la categoría.
func AllowedFields(c entity.Category) []string {
	switch c {
	case entity.CategoryFinished:
		return []string{entity.FieldProduction, entity.FieldDispatch}
	case entity.CategoryRaw:
		return []string{entity.FieldReceived, entity.FieldUsed}
	case entity.CategoryBag:
		return []string{entity.FieldPurchase, entity.FieldUsed}
	}
	return nil
}

// ValidateMovement verifica que los movimientos sean no negativos, que solo se informen
// los campos de la categoría del producto y que los sacos sean enteros.
func ValidateMovement(p *entity.Product, m entity.Movement) error {
	allowed := make(map[string]bool, 2)
	for _, f := range AllowedFields(p.Category) {
		allowed[f] = true
	}
	// Orden fijo para que el campo reportado sea determinista.
	fields := m.Fields()
	for _, name := range []string{entity.FieldProduction, entity.FieldReceived, entity.FieldDispatch, entity.FieldUsed, entity.FieldPurchase} {
		v := fields[name]
		if v.IsNegative() {
			return domain.NewValidationError(p.ID, name, "el movimiento no puede ser negativo")
		}
		if v.IsZero() {
			continue
		}
		if v.Abs().GreaterThanOrEqual(MaxMagnitude) {
			return domain.NewValidationError(p.ID, name, fmt.Sprintf("cantidad fuera de rango (máximo %s)", MaxMagnitude))
		}
		if !v.Equal(v.Truncate(MaxScale)) {
			return domain.NewValidationError(p.ID, name, fmt.Sprintf("máximo %d decimales", MaxScale))
		}
		if !allowed[name] {
			return domain.NewValidationError(p.ID, name, fmt.Sprintf("no aplica a la categoría %s", p.Category))
		}
		if p.Category == entity.CategoryBag && !v.Equal(v.Truncate(0)) {
			return domain.NewValidationError(p.ID, name, "los sacos se registran en cantidades enteras")
		}
	}
	return nil
}

// ComputeClosing cierre = apertura + entradas - salidas.
// Para terminados y materia prima: opening + production + received - dispatch - used.
// Para sacos: opening + purchase - used (los demás campos son 0 tras ValidateMovement).
func ComputeClosing(opening decimal.Decimal, m entity.Movement) decimal.Decimal {
	return opening.Add(m.Inflow()).Sub(m.Outflow())
}

// ValidateClosing rechaza un cierre que no cabe en la columna.
func ValidateClosing(entry *entity.LedgerEntry) error {
	if entry.Closing.Abs().GreaterThanOrEqual(MaxMagnitude) {
		return domain.NewValidationError(entry.ProductID, "closing", fmt.Sprintf("cierre fuera de rango (máximo %s)", MaxMagnitude))
	}
	return nil
}

// Apply recalcula entry.Closing desde su apertura y movimientos.
func Apply(entry *entity.LedgerEntry) {
	entry.Closing = ComputeClosing(entry.Opening, entry.Movement)
}

// Verify comprueba que el cierre almacenado coincide con la derivación.
func Verify(entry *entity.LedgerEntry) error {
	want := ComputeClosing(entry.Opening, entry.Movement)
	if !entry.Closing.Equal(want) {
		return fmt.Errorf("%w: producto %s fecha %s (almacenado %s, esperado %s)",
			domain.ErrClosingMismatch, entry.ProductID, FormatDate(entry.Date), entry.Closing, want)
	}
	return nil
}

// Total existencia disponible del día antes de salidas (apertura + entradas).
func Total(entry *entity.LedgerEntry) decimal.Decimal {
	return entry.Opening.Add(entry.Inflow())
}
