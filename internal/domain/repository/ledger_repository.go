package repository

import (
	"context"
	"time"

	"github.com/bimal-bp/DPR/internal/domain/entity"
)

// RangeFilter filtro de la consulta histórica. Start y End inclusivos.
type RangeFilter struct {
	Category entity.Category
	Start    time.Time
	End      time.Time
}

// LedgerRepository define el puerto del libro diario (una fila por producto y fecha).
type LedgerRepository interface {
	// Get devuelve nil, nil si no hay entrada para (productID, date).
	Get(ctx context.Context, productID string, date time.Time) (*entity.LedgerEntry, error)
	// GetForUpdate igual que Get pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, productID string, date time.Time) (*entity.LedgerEntry, error)
	// ListByDate entradas de una fecha, indexadas por producto.
	ListByDate(ctx context.Context, date time.Time) (map[string]*entity.LedgerEntry, error)
	// Upsert inserta la entrada o actualiza movimientos y cierre de la existente.
	// Si la fila existe con una apertura distinta de entry.Opening no modifica nada y
	// devuelve domain.ErrConflict.
	Upsert(ctx context.Context, entry *entity.LedgerEntry) error
	// InsertIfAbsent crea la entrada si no existe; inserted=false si ya estaba.
	InsertIfAbsent(ctx context.Context, entry *entity.LedgerEntry) (inserted bool, err error)
	// ListRange entradas con datos de producto ordenadas por (fecha, nombre).
	ListRange(ctx context.Context, filter RangeFilter) ([]entity.LedgerRow, error)
}
