package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	s *Store
}

func (r *LedgerRepository) TotalBalance(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	total := decimal.Zero
	for _, acc := range r.s.committed.accounts {
		if acc.OwnerID == ownerID {
			total = total.Add(acc.Balance)
		}
	}

	return total, nil
}

func (r *LedgerRepository) TotalsByCategory(ctx context.Context, ownerID string, txType domain.TransactionType, from, to time.Time, limit int) ([]domain.CategoryTotal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st := r.s.committed
	sums := make(map[string]decimal.Decimal)
	for _, t := range st.transactions {
		if t.OwnerID != ownerID || t.Type != txType || !inRange(t.Date, from, to) {
			continue
		}
		sums[t.CategoryID] = sums[t.CategoryID].Add(t.Amount)
	}

	out := make([]domain.CategoryTotal, 0, len(sums))
	for id, total := range sums {
		c := st.categories[id]
		out = append(out, domain.CategoryTotal{CategoryID: id, Name: c.Name, Color: c.Color, Total: total})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Name < out[j].Name
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *LedgerRepository) TotalsByPeriod(ctx context.Context, ownerID string, granularity domain.Granularity, from, to time.Time) ([]domain.PeriodTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.fail(OpTotalsByPeriod); err != nil {
		return nil, err
	}

	out := r.bucket(ownerID, granularity, from, to)
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Before(out[j].Period) })

	return out, nil
}

func (r *LedgerRepository) RecentMonthlyTotals(ctx context.Context, ownerID string, limit int) ([]domain.PeriodTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := r.bucket(ownerID, domain.GranularityMonth, time.Time{}, time.Time{})
	sort.Slice(out, func(i, j int) bool { return out[i].Period.After(out[j].Period) })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *LedgerRepository) SumSignedBefore(ctx context.Context, ownerID string, before time.Time) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	total := decimal.Zero
	for _, t := range r.s.committed.transactions {
		if t.OwnerID == ownerID && t.Date.Before(before) {
			total = total.Add(t.SignedAmount())
		}
	}

	return total, nil
}

func (r *LedgerRepository) BalanceChecks(ctx context.Context, tx usecase.Transaction, ownerID string) ([]domain.BalanceCheck, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.fail(OpBalanceChecks); err != nil {
		return nil, err
	}

	st, err := r.s.view(tx)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]decimal.Decimal)
	for _, t := range st.transactions {
		sums[t.AccountID] = sums[t.AccountID].Add(t.SignedAmount())
	}

	accounts := ownedAccounts(st, ownerID)
	out := make([]domain.BalanceCheck, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, domain.BalanceCheck{
			AccountID:   acc.ID,
			AccountName: acc.Name,
			Recorded:    acc.Balance,
			Calculated:  sums[acc.ID],
		})
	}

	return out, nil
}

func (r *LedgerRepository) bucket(ownerID string, granularity domain.Granularity, from, to time.Time) []domain.PeriodTotals {
	buckets := make(map[int64]*domain.PeriodTotals)
	for _, t := range r.s.committed.transactions {
		if t.OwnerID != ownerID || !inRange(t.Date, from, to) {
			continue
		}

		start := truncate(t.Date, granularity)
		b, ok := buckets[start.Unix()]
		if !ok {
			b = &domain.PeriodTotals{Period: start}
			buckets[start.Unix()] = b
		}

		if t.Type == domain.TransactionTypeIncome {
			b.Income = b.Income.Add(t.Amount)
		} else {
			b.Expense = b.Expense.Add(t.Amount)
		}
	}

	out := make([]domain.PeriodTotals, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}

	return out
}

func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}

	return true
}

func truncate(t time.Time, granularity domain.Granularity) time.Time {
	t = t.UTC()
	if granularity == domain.GranularityMonth {
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
