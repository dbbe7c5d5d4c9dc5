package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bimal-bp/DPR/internal/domain"
	"github.com/bimal-bp/DPR/internal/domain/entity"
	"github.com/bimal-bp/DPR/internal/domain/ledger"
	"github.com/bimal-bp/DPR/internal/domain/repository"
)

// DailyViewItem fila de la vista diaria: producto, entrada del día y total disponible.
type DailyViewItem struct {
	Product *entity.Product
	Entry   *entity.LedgerEntry
	Total   decimal.Decimal // apertura + entradas
}

// DailyViewUseCase compone catálogo y arrastre para el render inicial de un día.
type DailyViewUseCase struct {
	txRunner TxRunner
}

// NewDailyViewUseCase construye el caso de uso.
func NewDailyViewUseCase(txRunner TxRunner) *DailyViewUseCase {
	return &DailyViewUseCase{txRunner: txRunner}
}

// GetOrCreateDailyView devuelve una fila por producto para date. Los productos sin entrada
// en esa fecha la obtienen creada con apertura arrastrada de D-1 y movimientos en 0.
// Las entradas existentes se devuelven tal cual (su apertura no se vuelve a resolver).
// category vacío incluye todo el catálogo, ordenado por categoría y luego por nombre.
func (uc *DailyViewUseCase) GetOrCreateDailyView(ctx context.Context, date time.Time, category entity.Category) ([]DailyViewItem, error) {
	if category != "" && !category.Valid() {
		return nil, domain.NewValidationError("", "category", "categoría desconocida")
	}
	date = ledger.NormalizeDate(date)

	var items []DailyViewItem
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, ledgerRepo repository.LedgerRepository) error {
		products, err := productRepo.List(ctx, category)
		if err != nil {
			return err
		}
		current, err := ledgerRepo.ListByDate(ctx, date)
		if err != nil {
			return err
		}
		previous, err := ledgerRepo.ListByDate(ctx, ledger.PreviousDay(date))
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		items = make([]DailyViewItem, 0, len(products))
		for _, p := range products {
			entry, ok := current[p.ID]
			if !ok {
				entry, err = materialize(ctx, ledgerRepo, p.ID, date, previous[p.ID], now)
				if err != nil {
					return err
				}
			}
			if err := ledger.Verify(entry); err != nil {
				return err
			}
			items = append(items, DailyViewItem{Product: p, Entry: entry, Total: ledger.Total(entry)})
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("vista diaria", err)
	}

	order := make(map[entity.Category]int)
	for i, c := range entity.Categories() {
		order[c] = i
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Product, items[j].Product
		if a.Category != b.Category {
			return order[a.Category] < order[b.Category]
		}
		return a.Name < b.Name
	})
	return items, nil
}

// materialize crea la entrada vacía del día. Si otro escritor la creó antes, devuelve la suya.
func materialize(
	ctx context.Context,
	ledgerRepo repository.LedgerRepository,
	productID string,
	date time.Time,
	prev *entity.LedgerEntry,
	now time.Time,
) (*entity.LedgerEntry, error) {
	entry := &entity.LedgerEntry{ProductID: productID, Date: date, Opening: decimal.Zero, UpdatedAt: now}
	if prev != nil {
		if err := ledger.Verify(prev); err != nil {
			return nil, err
		}
		entry.Opening = prev.Closing
	}
	ledger.Apply(entry)

	inserted, err := ledgerRepo.InsertIfAbsent(ctx, entry)
	if err != nil {
		return nil, err
	}
	if inserted {
		return entry, nil
	}
	existing, err := ledgerRepo.Get(ctx, productID, date)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return entry, nil
	}
	return existing, nil
}
