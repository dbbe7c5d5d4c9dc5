package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bimal-bp/DPR/internal/domain"
	"github.com/bimal-bp/DPR/internal/domain/entity"
	"github.com/bimal-bp/DPR/internal/domain/ledger"
	"github.com/bimal-bp/DPR/internal/domain/repository"
	"github.com/bimal-bp/DPR/pkg/logger"
)

// SaveDayUseCase aplica en una sola transacción las ediciones de movimientos de un día.
// Nunca sobrescribe la apertura de una entrada existente: solo movimientos y cierre.
type SaveDayUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
}

// NewSaveDayUseCase construye el caso de uso.
func NewSaveDayUseCase(txRunner TxRunner, log *logger.Logger) *SaveDayUseCase {
	return &SaveDayUseCase{txRunner: txRunner, log: log}
}

// SaveDay persiste edits (productID → movimientos) para date y devuelve las entradas resultantes
// ordenadas por productID. Todo el lote se valida antes de la primera escritura; cualquier error
// revierte la transacción completa. Repetir la llamada con las mismas ediciones es idempotente.
func (uc *SaveDayUseCase) SaveDay(ctx context.Context, date time.Time, edits map[string]entity.Movement) ([]*entity.LedgerEntry, error) {
	date = ledger.NormalizeDate(date)
	if len(edits) == 0 {
		return []*entity.LedgerEntry{}, nil
	}

	// Orden fijo de bloqueo: dos lotes concurrentes no se interbloquean.
	ids := make([]string, 0, len(edits))
	for id := range edits {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var saved []*entity.LedgerEntry
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, ledgerRepo repository.LedgerRepository) error {
		saved = make([]*entity.LedgerEntry, 0, len(ids))

		// 1. Validación completa del lote
		for _, id := range ids {
			p, err := productRepo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.NewValidationError(id, "product_id", "producto desconocido")
			}
			if err := ledger.ValidateMovement(p, edits[id]); err != nil {
				return err
			}
		}

		// 2. Escritura con arrastre de apertura
		now := time.Now().UTC()
		for _, id := range ids {
			entry, err := uc.upsertOne(ctx, ledgerRepo, id, date, edits[id], now)
			if err != nil {
				return err
			}
			saved = append(saved, entry)
		}
		return nil
	})
	if err != nil {
		err = storageErr("guardar día", err)
		if errors.Is(err, domain.ErrPersistence) {
			uc.log.Error().Err(err).Str("date", ledger.FormatDate(date)).Int("products", len(ids)).Msg("lote diario revertido")
		}
		return nil, err
	}
	return saved, nil
}

// upsertOne resuelve la apertura (existente o arrastrada), recalcula el cierre y escribe.
// Si otro escritor creó la fila entre la lectura y la escritura, reintenta una vez la rama de actualización.
func (uc *SaveDayUseCase) upsertOne(
	ctx context.Context,
	ledgerRepo repository.LedgerRepository,
	productID string,
	date time.Time,
	m entity.Movement,
	now time.Time,
) (*entity.LedgerEntry, error) {
	existing, err := ledgerRepo.GetForUpdate(ctx, productID, date)
	if err != nil {
		return nil, err
	}
	entry := &entity.LedgerEntry{ProductID: productID, Date: date, Movement: m, UpdatedAt: now}
	if existing != nil {
		entry.Opening = existing.Opening
	} else {
		entry.Opening, err = openingFor(ctx, ledgerRepo, productID, date)
		if err != nil {
			return nil, err
		}
	}
	ledger.Apply(entry)
	if err := ledger.ValidateClosing(entry); err != nil {
		return nil, err
	}

	err = ledgerRepo.Upsert(ctx, entry)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return nil, err
	}

	uc.log.Warn().Str("product_id", productID).Str("date", ledger.FormatDate(date)).Msg("conflicto de upsert, reintentando actualización")
	existing, err = ledgerRepo.GetForUpdate(ctx, productID, date)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: entrada %s/%s desapareció tras el conflicto", domain.ErrConflict, productID, ledger.FormatDate(date))
	}
	entry.Opening = existing.Opening
	ledger.Apply(entry)
	if err := ledger.ValidateClosing(entry); err != nil {
		return nil, err
	}
	if err := ledgerRepo.Upsert(ctx, entry); err != nil {
		uc.log.Error().Err(err).Str("product_id", productID).Str("date", ledger.FormatDate(date)).Msg("reintento de upsert fallido")
		return nil, fmt.Errorf("reintento de upsert: %w", err)
	}
	return entry, nil
}
