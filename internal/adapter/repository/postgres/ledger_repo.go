package postgres

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/infrastructure/postgres/generated"
	"github.com/iho/finledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository on top of SQL
// aggregates.
type LedgerRepository struct {
	db      generated.DBTX
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{
		db:      db,
		queries: generated.New(db),
	}
}

// TotalBalance sums the stored balances of every account of the owner.
func (r *LedgerRepository) TotalBalance(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	total, err := r.queries.SumAccountBalances(ctx, ownerID)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// TotalsByCategory returns per-category sums, largest first.
func (r *LedgerRepository) TotalsByCategory(ctx context.Context, ownerID string, txType domain.TransactionType, from, to time.Time, limit int) ([]domain.CategoryTotal, error) {
	rows, err := r.queries.SumCategoryTotals(ctx, generated.SumCategoryTotalsParams{
		OwnerID:         ownerID,
		TransactionType: string(txType),
		From:            optionalTimestamptz(from),
		To:              optionalTimestamptz(to),
		Limit:           optionalLimit(limit),
	})
	if err != nil {
		return nil, err
	}

	totals := make([]domain.CategoryTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, domain.CategoryTotal{
			CategoryID: row.ID,
			Name:       row.Name,
			Color:      row.Color,
			Total:      numericToDecimal(row.Total),
		})
	}

	return totals, nil
}

// TotalsByPeriod buckets [from, to) by UTC day or month, oldest first.
// Empty buckets are omitted.
func (r *LedgerRepository) TotalsByPeriod(ctx context.Context, ownerID string, granularity domain.Granularity, from, to time.Time) ([]domain.PeriodTotals, error) {
	rows, err := r.queries.SumPeriodTotals(ctx, generated.SumPeriodTotalsParams{
		OwnerID:     ownerID,
		Granularity: string(granularity),
		From:        timeToPgTimestamptz(from),
		To:          timeToPgTimestamptz(to),
	})
	if err != nil {
		return nil, err
	}

	return rowsToPeriodTotals(rows), nil
}

// RecentMonthlyTotals returns the latest months with activity, newest first.
func (r *LedgerRepository) RecentMonthlyTotals(ctx context.Context, ownerID string, limit int) ([]domain.PeriodTotals, error) {
	rows, err := r.queries.ListRecentMonthlyTotals(ctx, generated.ListRecentMonthlyTotalsParams{
		OwnerID: ownerID,
		Limit:   int32(limit),
	})
	if err != nil {
		return nil, err
	}

	return rowsToPeriodTotals(rows), nil
}

// SumSignedBefore is the net of every transaction dated before the cutoff.
func (r *LedgerRepository) SumSignedBefore(ctx context.Context, ownerID string, before time.Time) (decimal.Decimal, error) {
	total, err := r.queries.SumSignedBefore(ctx, generated.SumSignedBeforeParams{
		OwnerID: ownerID,
		Before:  timeToPgTimestamptz(before),
	})
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// BalanceChecks pairs each stored balance with the sum of its
// transactions in a single statement, so both sides come from one snapshot.
func (r *LedgerRepository) BalanceChecks(ctx context.Context, tx usecase.Transaction, ownerID string) ([]domain.BalanceCheck, error) {
	rows, err := queriesFor(r.db, tx).ListBalanceChecks(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	checks := make([]domain.BalanceCheck, 0, len(rows))
	for _, row := range rows {
		checks = append(checks, domain.BalanceCheck{
			AccountID:   row.ID,
			AccountName: row.Name,
			Recorded:    numericToDecimal(row.Balance),
			Calculated:  numericToDecimal(row.Calculated),
		})
	}

	return checks, nil
}

func rowsToPeriodTotals(rows []generated.PeriodTotalsRow) []domain.PeriodTotals {
	totals := make([]domain.PeriodTotals, 0, len(rows))
	for _, row := range rows {
		p := row.Period.Time
		totals = append(totals, domain.PeriodTotals{
			Period:  time.Date(p.Year(), p.Month(), p.Day(), 0, 0, 0, 0, time.UTC),
			Income:  numericToDecimal(row.Income),
			Expense: numericToDecimal(row.Expense),
		})
	}

	return totals
}
