package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrInvalidRange    = errors.New("rango de fechas inválido")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrPersistence     = errors.New("falla de persistencia")
	ErrClosingMismatch = errors.New("el cierre almacenado no coincide con los movimientos")
)

// ValidationError rechazo de una entrada antes de escribir. Unwrap devuelve ErrInvalidInput.
type ValidationError struct {
	ProductID string
	Field     string
	Reason    string
}

func (e *ValidationError) Error() string {
	if e.ProductID == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("producto %s, %s: %s", e.ProductID, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un ValidationError.
func NewValidationError(productID, field, reason string) *ValidationError {
	return &ValidationError{ProductID: productID, Field: field, Reason: reason}
}

// Persistence envuelve un error de almacenamiento como ErrPersistence conservando la causa.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
