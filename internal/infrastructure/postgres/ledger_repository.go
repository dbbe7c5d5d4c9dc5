package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/bimal-bp/DPR/internal/domain"
	"github.com/bimal-bp/DPR/internal/domain/entity"
	"github.com/bimal-bp/DPR/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

const entryColumns = `product_id, entry_date, opening, production, received, dispatch, used, purchase, closing, updated_at`

// LedgerRepo implementación de LedgerRepository sobre la tabla ledger_entries (pool o tx).
type LedgerRepo struct {
	q       Querier
	builder squirrel.StatementBuilderType
}

// NewLedgerRepository construye el adaptador del libro diario. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{
		q:       q,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Get obtiene la entrada de un producto en una fecha.
func (r *LedgerRepo) Get(ctx context.Context, productID string, date time.Time) (*entity.LedgerEntry, error) {
	return r.getOne(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE product_id = $1 AND entry_date = $2`, productID, date)
}

// GetForUpdate obtiene la entrada y bloquea la fila para update (SELECT FOR UPDATE).
func (r *LedgerRepo) GetForUpdate(ctx context.Context, productID string, date time.Time) (*entity.LedgerEntry, error) {
	return r.getOne(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE product_id = $1 AND entry_date = $2 FOR UPDATE`, productID, date)
}

func (r *LedgerRepo) getOne(ctx context.Context, query, productID string, date time.Time) (*entity.LedgerEntry, error) {
	e, err := scanEntry(r.q.QueryRow(ctx, query, productID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	return e, nil
}

// ListByDate entradas de una fecha indexadas por producto.
func (r *LedgerRepo) ListByDate(ctx context.Context, date time.Time) (map[string]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE entry_date = $1`, date)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries by date: %w", err)
	}
	defer rows.Close()
	out := make(map[string]*entity.LedgerEntry)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out[e.ProductID] = e
	}
	return out, rows.Err()
}

// Upsert inserta o actualiza movimientos y cierre. La apertura de una fila existente nunca se toca:
// si difiere de entry.Opening el WHERE del DO UPDATE no afecta filas y se devuelve domain.ErrConflict.
func (r *LedgerRepo) Upsert(ctx context.Context, entry *entity.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (product_id, entry_date)
		DO UPDATE SET
			production = EXCLUDED.production,
			received   = EXCLUDED.received,
			dispatch   = EXCLUDED.dispatch,
			used       = EXCLUDED.used,
			purchase   = EXCLUDED.purchase,
			closing    = EXCLUDED.closing,
			updated_at = EXCLUDED.updated_at
		WHERE ledger_entries.opening = EXCLUDED.opening`
	cmd, err := r.q.Exec(ctx, query, entryArgs(entry)...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("upsert ledger entry: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// InsertIfAbsent crea la entrada si no existe (ON CONFLICT DO NOTHING).
func (r *LedgerRepo) InsertIfAbsent(ctx context.Context, entry *entity.LedgerEntry) (bool, error) {
	query := `
		INSERT INTO ledger_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (product_id, entry_date) DO NOTHING`
	cmd, err := r.q.Exec(ctx, query, entryArgs(entry)...)
	if err != nil {
		return false, fmt.Errorf("insert ledger entry: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// ledgerRowRecord fila de la consulta por rango (mapeo pgxscan por tag db).
type ledgerRowRecord struct {
	ProductID   string          `db:"product_id"`
	EntryDate   time.Time       `db:"entry_date"`
	Opening     decimal.Decimal `db:"opening"`
	Production  decimal.Decimal `db:"production"`
	Received    decimal.Decimal `db:"received"`
	Dispatch    decimal.Decimal `db:"dispatch"`
	Used        decimal.Decimal `db:"used"`
	Purchase    decimal.Decimal `db:"purchase"`
	Closing     decimal.Decimal `db:"closing"`
	UpdatedAt   time.Time       `db:"updated_at"`
	ProductName string          `db:"product_name"`
	Category    string          `db:"category"`
	Unit        string          `db:"unit"`
}

// ListRange entradas entre Start y End (inclusive) con nombre de producto, orden (fecha, nombre).
func (r *LedgerRepo) ListRange(ctx context.Context, filter repository.RangeFilter) ([]entity.LedgerRow, error) {
	query, args, err := r.rangeQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build range query: %w", err)
	}
	var records []ledgerRowRecord
	if err := pgxscan.Select(ctx, r.q, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list ledger range: %w", err)
	}
	rows := make([]entity.LedgerRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, entity.LedgerRow{
			LedgerEntry: entity.LedgerEntry{
				ProductID: rec.ProductID,
				Date:      rec.EntryDate,
				Opening:   rec.Opening,
				Movement: entity.Movement{
					Production: rec.Production,
					Received:   rec.Received,
					Dispatch:   rec.Dispatch,
					Used:       rec.Used,
					Purchase:   rec.Purchase,
				},
				Closing:   rec.Closing,
				UpdatedAt: rec.UpdatedAt,
			},
			ProductName: rec.ProductName,
			Category:    entity.Category(rec.Category),
			Unit:        entity.Unit(rec.Unit),
		})
	}
	return rows, nil
}

func (r *LedgerRepo) rangeQuery(filter repository.RangeFilter) (string, []any, error) {
	q := r.builder.
		Select(
			"e.product_id", "e.entry_date", "e.opening", "e.production", "e.received",
			"e.dispatch", "e.used", "e.purchase", "e.closing", "e.updated_at",
			"p.name AS product_name", "p.category", "p.unit",
		).
		From("ledger_entries e").
		Join("products p ON p.id = e.product_id").
		Where(squirrel.GtOrEq{"e.entry_date": filter.Start}).
		Where(squirrel.LtOrEq{"e.entry_date": filter.End})
	if filter.Category != "" {
		q = q.Where(squirrel.Eq{"p.category": string(filter.Category)})
	}
	return q.OrderBy("e.entry_date ASC", "p.name ASC").ToSql()
}

func entryArgs(e *entity.LedgerEntry) []any {
	return []any{
		e.ProductID, e.Date, e.Opening, e.Production, e.Received,
		e.Dispatch, e.Used, e.Purchase, e.Closing, e.UpdatedAt,
	}
}

func scanEntry(row pgx.Row) (*entity.LedgerEntry, error) {
	var e entity.LedgerEntry
	err := row.Scan(
		&e.ProductID, &e.Date, &e.Opening, &e.Production, &e.Received,
		&e.Dispatch, &e.Used, &e.Purchase, &e.Closing, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
