package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bimal-bp/DPR/internal/domain"
	"github.com/bimal-bp/DPR/internal/domain/ledger"
	"github.com/bimal-bp/DPR/internal/domain/repository"
)

// Resolver calcula la apertura de un producto en una fecha a partir del cierre del día anterior.
type Resolver struct {
	txRunner TxRunner
}

// NewResolver construye el resolvedor.
func NewResolver(txRunner TxRunner) *Resolver {
	return &Resolver{txRunner: txRunner}
}

// ResolveOpening devuelve el cierre de (productID, date-1) o 0 si no existe esa entrada.
// Es una consulta puntual de un salto: no busca más atrás de D-1.
func (r *Resolver) ResolveOpening(ctx context.Context, productID string, date time.Time) (decimal.Decimal, error) {
	var opening decimal.Decimal
	err := r.txRunner.Run(ctx, func(productRepo repository.ProductRepository, ledgerRepo repository.LedgerRepository) error {
		p, err := productRepo.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
		}
		opening, err = openingFor(ctx, ledgerRepo, productID, date)
		return err
	})
	if err != nil {
		return decimal.Zero, storageErr("resolver apertura", err)
	}
	return opening, nil
}

// openingFor lógica de arrastre usada dentro de una transacción ya abierta.
func openingFor(ctx context.Context, ledgerRepo repository.LedgerRepository, productID string, date time.Time) (decimal.Decimal, error) {
	prev, err := ledgerRepo.Get(ctx, productID, ledger.PreviousDay(date))
	if err != nil {
		return decimal.Zero, err
	}
	if prev == nil {
		return decimal.Zero, nil
	}
	if err := ledger.Verify(prev); err != nil {
		return decimal.Zero, err
	}
	return prev.Closing, nil
}
