package etf

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Source is the read side used by the dashboard handlers.
type Source interface {
	List(ctx context.Context) ([]ETF, error)
}

// DB is satisfied by *pgxpool.Pool and *pgx.Conn.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PGStore reads and bulk-replaces the etfs table.
type PGStore struct {
	db DB
}

func NewPGStore(db DB) *PGStore {
	return &PGStore{db: db}
}

var columns = []string{
	"ticker", "name", "inception_date", "canary_health", "latest_date", "roc_date",
	"aum", "expense_ratio", "latest_adj_close", "headline_yield_ttm",
	"roc_latest", "true_income_yield", "death_clock_years",
	"dividends_1y", "dividends_ytd", "dividends_inception",
	"price_1y_ago", "price_ytd_start", "price_inception",
	"total_return_1y", "total_return_ytd", "total_return_inception",
	"spent_dividends_return_1y", "spent_dividends_return_ytd", "spent_dividends_return_inception",
	"take_home_return_1y", "take_home_return_ytd", "take_home_return_inception",
	"take_home_cash_return_1y", "take_home_cash_return_ytd", "take_home_cash_return_inception",
}

// scanTargets returns destinations in columns order followed by updated_at.
func scanTargets(e *ETF, health **string) []any {
	return []any{
		&e.Ticker, &e.Name, &e.InceptionDate, health, &e.LatestDate, &e.RocDate,
		&e.AUM, &e.ExpenseRatio, &e.LatestAdjClose, &e.HeadlineYieldTTM,
		&e.RocLatest, &e.TrueIncomeYield, &e.DeathClockYears,
		&e.Dividends1Y, &e.DividendsYTD, &e.DividendsInception,
		&e.Price1YAgo, &e.PriceYTDStart, &e.PriceInception,
		&e.TotalReturn1Y, &e.TotalReturnYTD, &e.TotalReturnInception,
		&e.SpentDividendsReturn1Y, &e.SpentDividendsReturnYTD, &e.SpentDividendsReturnInception,
		&e.TakeHomeReturn1Y, &e.TakeHomeReturnYTD, &e.TakeHomeReturnInception,
		&e.TakeHomeCashReturn1Y, &e.TakeHomeCashReturnYTD, &e.TakeHomeCashReturnInception,
		&e.UpdatedAt,
	}
}

// copyValues returns e's values in columns order.
func copyValues(e ETF) []any {
	var health *string
	if e.CanaryHealth != "" {
		h := string(e.CanaryHealth)
		health = &h
	}
	return []any{
		e.Ticker, e.Name, e.InceptionDate, health, e.LatestDate, e.RocDate,
		e.AUM, e.ExpenseRatio, e.LatestAdjClose, e.HeadlineYieldTTM,
		e.RocLatest, e.TrueIncomeYield, e.DeathClockYears,
		e.Dividends1Y, e.DividendsYTD, e.DividendsInception,
		e.Price1YAgo, e.PriceYTDStart, e.PriceInception,
		e.TotalReturn1Y, e.TotalReturnYTD, e.TotalReturnInception,
		e.SpentDividendsReturn1Y, e.SpentDividendsReturnYTD, e.SpentDividendsReturnInception,
		e.TakeHomeReturn1Y, e.TakeHomeReturnYTD, e.TakeHomeReturnInception,
		e.TakeHomeCashReturn1Y, e.TakeHomeCashReturnYTD, e.TakeHomeCashReturnInception,
	}
}

// List returns every stored ETF ordered by ticker.
func (s *PGStore) List(ctx context.Context) ([]ETF, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+strings.Join(columns, ", ")+`, updated_at FROM etfs ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %w", ErrStoreFailure, err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ETF, error) {
		var (
			e      ETF
			health *string
		)
		if err := row.Scan(scanTargets(&e, &health)...); err != nil {
			return ETF{}, err
		}
		if health != nil {
			e.CanaryHealth, _ = ParseHealth(*health)
		}
		return e, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scan: %w", ErrStoreFailure, err)
	}
	return out, nil
}

// ReplaceAll swaps the table contents for rows in a single transaction and
// returns the number of rows written.
func (s *PGStore) ReplaceAll(ctx context.Context, rows []ETF) (int64, error) {
	if len(rows) == 0 {
		return 0, ErrEmptyImport
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: begin: %w", ErrStoreFailure, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM etfs`); err != nil {
		return 0, fmt.Errorf("%w: clear: %w", ErrStoreFailure, err)
	}
	n, err := tx.CopyFrom(ctx, pgx.Identifier{"etfs"}, columns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			return copyValues(rows[i]), nil
		}))
	if err != nil {
		return 0, fmt.Errorf("%w: copy: %w", ErrStoreFailure, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%w: commit: %w", ErrStoreFailure, err)
	}
	return n, nil
}
