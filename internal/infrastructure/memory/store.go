// Package memory implementa los puertos de catálogo y libro diario en memoria.
// Cada transacción trabaja sobre una copia del estado y la publica solo al confirmar,
// con la misma semántica de upsert que el adaptador PostgreSQL. Uso: tests y LEDGER_STORE=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bimal-bp/DPR/internal/application/inventory"
	"github.com/bimal-bp/DPR/internal/domain"
	"github.com/bimal-bp/DPR/internal/domain/entity"
	"github.com/bimal-bp/DPR/internal/domain/ledger"
	"github.com/bimal-bp/DPR/internal/domain/repository"
)

var (
	_ inventory.TxRunner           = (*Store)(nil)
	_ repository.ProductRepository = (*txState)(nil)
	_ repository.LedgerRepository  = (*txState)(nil)
)

type entryKey struct {
	productID string
	date      string
}

type state struct {
	products map[string]entity.Product
	entries  map[entryKey]entity.LedgerEntry
}

func (s *state) clone() *state {
	c := &state{
		products: make(map[string]entity.Product, len(s.products)),
		entries:  make(map[entryKey]entity.LedgerEntry, len(s.entries)),
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = v
	}
	return c
}

// Store estado compartido. Las transacciones se serializan con mu.
type Store struct {
	mu      sync.Mutex
	current *state
	timeout time.Duration

	// Inyección de fallas para tests (protegidas por mu).
	failUpsert map[string]error
	raceCount  map[string]int
}

// NewStore crea un store vacío. timeout <= 0 no acota las transacciones.
func NewStore(timeout time.Duration) *Store {
	return &Store{
		current:    &state{products: map[string]entity.Product{}, entries: map[entryKey]entity.LedgerEntry{}},
		timeout:    timeout,
		failUpsert: map[string]error{},
		raceCount:  map[string]int{},
	}
}

// Run ejecuta fn sobre una copia del estado; si fn no falla y el contexto sigue vivo, la publica.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	ledgerRepo repository.LedgerRepository,
) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	tx := &txState{store: s, st: s.current.clone()}
	if err := fn(tx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	s.current = tx.st
	return nil
}

// Products repositorio fuera de transacción (lectura del último estado confirmado).
func (s *Store) Products() repository.ProductRepository {
	return &committedProducts{store: s}
}

// Seed inserta productos directamente (fixtures).
func (s *Store) Seed(products ...entity.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range products {
		if err := insertProduct(s.current, p); err != nil {
			return err
		}
	}
	return nil
}

// FailUpsertOn hace que el próximo Upsert de productID devuelva err.
func (s *Store) FailUpsertOn(productID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failUpsert[productID] = err
}

// SimulateConcurrentInsert hace que el próximo Upsert de productID encuentre una fila
// recién creada por otro escritor (apertura distinta), como en una carrera de inserción.
// Cada llamada arma una carrera más: dos llamadas hacen fallar también el reintento.
func (s *Store) SimulateConcurrentInsert(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raceCount[productID]++
}

// EntryCount número de entradas confirmadas.
func (s *Store) EntryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.current.entries)
}

func insertProduct(st *state, p entity.Product) error {
	if _, ok := st.products[p.ID]; ok {
		return domain.ErrConflict
	}
	for _, other := range st.products {
		if other.Name == p.Name {
			return domain.ErrConflict
		}
	}
	st.products[p.ID] = p
	return nil
}

func listProducts(st *state, category entity.Category) []*entity.Product {
	list := make([]*entity.Product, 0, len(st.products))
	for _, p := range st.products {
		if category != "" && p.Category != category {
			continue
		}
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func keyOf(productID string, date time.Time) entryKey {
	return entryKey{productID: productID, date: ledger.FormatDate(date)}
}

// txState vista transaccional: implementa ambos repositorios.
type txState struct {
	store *Store
	st    *state
}

func (t *txState) Create(_ context.Context, product *entity.Product) error {
	return insertProduct(t.st, *product)
}

func (t *txState) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := t.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (t *txState) List(_ context.Context, category entity.Category) ([]*entity.Product, error) {
	return listProducts(t.st, category), nil
}

func (t *txState) Get(_ context.Context, productID string, date time.Time) (*entity.LedgerEntry, error) {
	e, ok := t.st.entries[keyOf(productID, date)]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// GetForUpdate las transacciones ya están serializadas; equivale a Get.
func (t *txState) GetForUpdate(ctx context.Context, productID string, date time.Time) (*entity.LedgerEntry, error) {
	return t.Get(ctx, productID, date)
}

func (t *txState) ListByDate(_ context.Context, date time.Time) (map[string]*entity.LedgerEntry, error) {
	d := ledger.FormatDate(date)
	out := make(map[string]*entity.LedgerEntry)
	for k, e := range t.st.entries {
		if k.date != d {
			continue
		}
		e := e
		out[k.productID] = &e
	}
	return out, nil
}

func (t *txState) Upsert(_ context.Context, entry *entity.LedgerEntry) error {
	if err, ok := t.store.failUpsert[entry.ProductID]; ok {
		delete(t.store.failUpsert, entry.ProductID)
		return fmt.Errorf("upsert ledger entry: %w", err)
	}
	k := keyOf(entry.ProductID, entry.Date)
	if n := t.store.raceCount[entry.ProductID]; n > 0 {
		if n == 1 {
			delete(t.store.raceCount, entry.ProductID)
		} else {
			t.store.raceCount[entry.ProductID] = n - 1
		}
		rival := *entry
		rival.Opening = entry.Opening.Add(decimal.NewFromInt(1))
		rival.Movement = entity.Movement{}
		ledger.Apply(&rival)
		t.st.entries[k] = rival
	}
	if existing, ok := t.st.entries[k]; ok {
		if !existing.Opening.Equal(entry.Opening) {
			return domain.ErrConflict
		}
	}
	t.st.entries[k] = *entry
	return nil
}

func (t *txState) InsertIfAbsent(_ context.Context, entry *entity.LedgerEntry) (bool, error) {
	k := keyOf(entry.ProductID, entry.Date)
	if _, ok := t.st.entries[k]; ok {
		return false, nil
	}
	t.st.entries[k] = *entry
	return true, nil
}

func (t *txState) ListRange(_ context.Context, filter repository.RangeFilter) ([]entity.LedgerRow, error) {
	start, end := ledger.NormalizeDate(filter.Start), ledger.NormalizeDate(filter.End)
	var rows []entity.LedgerRow
	for _, e := range t.st.entries {
		p, ok := t.st.products[e.ProductID]
		if !ok || (filter.Category != "" && p.Category != filter.Category) {
			continue
		}
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		rows = append(rows, entity.LedgerRow{LedgerEntry: e, ProductName: p.Name, Category: p.Category, Unit: p.Unit})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].ProductName < rows[j].ProductName
	})
	return rows, nil
}

// committedProducts lectura del catálogo confirmado, sin abrir transacción.
type committedProducts struct {
	store *Store
}

func (c *committedProducts) Create(_ context.Context, product *entity.Product) error {
	return c.store.Seed(*product)
}

func (c *committedProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	p, ok := c.store.current.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *committedProducts) List(_ context.Context, category entity.Category) ([]*entity.Product, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return listProducts(c.store.current, category), nil
}
