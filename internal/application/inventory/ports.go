package inventory

import (
	"context"
	"errors"

	"github.com/bimal-bp/DPR/internal/domain"
	"github.com/bimal-bp/DPR/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad del lote diario: o se confirman todas las entradas o ninguna.
// La implementación debe acotar la duración de la transacción (timeout).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error
}

// storageErr deja pasar los errores de validación y de búsqueda; el resto es falla de persistencia.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrInvalidRange) ||
		errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return domain.Persistence(op, err)
}
