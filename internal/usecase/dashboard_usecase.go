package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/iho/finledger/internal/domain"
)

// Dashboard is the owner's overview.
type Dashboard struct {
	Balance            decimal.Decimal
	RecentTransactions []*domain.Transaction
	CategorySpending   []domain.CategoryTotal
	MonthlySummary     []domain.PeriodTotals
}

// DashboardUseCase assembles the dashboard from independent aggregate
// reads and caches the result per owner.
type DashboardUseCase struct {
	ledgerRepo      LedgerRepository
	transactionRepo TransactionRepository
	cache           Cache
	cacheTTL        time.Duration
	recorder        Recorder
}

// NewDashboardUseCase creates a new DashboardUseCase. cache may be nil.
func NewDashboardUseCase(ledgerRepo LedgerRepository, transactionRepo TransactionRepository, cache Cache, cacheTTL time.Duration) *DashboardUseCase {
	if cacheTTL <= 0 {
		cacheTTL = DefaultDashboardCacheTTL
	}

	return &DashboardUseCase{
		ledgerRepo:      ledgerRepo,
		transactionRepo: transactionRepo,
		cache:           cache,
		cacheTTL:        cacheTTL,
		recorder:        NopRecorder{},
	}
}

// WithRecorder sets the metrics recorder.
func (uc *DashboardUseCase) WithRecorder(r Recorder) *DashboardUseCase {
	uc.recorder = r
	return uc
}

// GetDashboard returns the total balance, the five most recent
// transactions, the five largest expense categories and up to six months
// of income and expense totals, newest month first.
func (uc *DashboardUseCase) GetDashboard(ctx context.Context, ownerID string) (*Dashboard, error) {
	generation, cacheable := uc.generation(ctx, ownerID)
	if cacheable {
		if cached, ok := uc.fromCache(ctx, ownerID, generation); ok {
			return cached, nil
		}
	}

	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		balance, err := uc.ledgerRepo.TotalBalance(gctx, ownerID)
		d.Balance = balance
		return err
	})
	g.Go(func() error {
		recent, err := uc.transactionRepo.List(gctx, ownerID, recentTransactionsLimit, 0)
		d.RecentTransactions = recent
		return err
	})
	g.Go(func() error {
		spending, err := uc.ledgerRepo.TotalsByCategory(gctx, ownerID, domain.TransactionTypeExpense, time.Time{}, time.Time{}, topCategoriesLimit)
		d.CategorySpending = spending
		return err
	})
	g.Go(func() error {
		months, err := uc.ledgerRepo.RecentMonthlyTotals(gctx, ownerID, monthlySummaryLimit)
		d.MonthlySummary = months
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if cacheable {
		uc.toCache(ctx, ownerID, generation, &d)
	}

	return &d, nil
}

// Invalidate retires the cached dashboard of ownerID.
func (uc *DashboardUseCase) Invalidate(ctx context.Context, ownerID string) {
	invalidateDashboard(ctx, uc.cache, ownerID)
}

// generation reads the owner's cache generation before any aggregate read
// starts. A missing counter is generation 0.
func (uc *DashboardUseCase) generation(ctx context.Context, ownerID string) (int64, bool) {
	if uc.cache == nil {
		return 0, false
	}

	raw, err := uc.cache.Get(ctx, dashboardGenerationKey(ownerID))
	if errors.Is(err, ErrCacheMiss) {
		return 0, true
	}
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("dashboard cache generation read failed")
		uc.recorder.CacheLookup(false)
		return 0, false
	}

	generation, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("undecodable dashboard cache generation")
		uc.recorder.CacheLookup(false)
		return 0, false
	}

	return generation, true
}

func (uc *DashboardUseCase) fromCache(ctx context.Context, ownerID string, generation int64) (*Dashboard, bool) {
	raw, err := uc.cache.Get(ctx, dashboardCacheKey(ownerID, generation))
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("dashboard cache read failed")
		}
		uc.recorder.CacheLookup(false)
		return nil, false
	}

	var d Dashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("discarding undecodable dashboard cache entry")
		uc.recorder.CacheLookup(false)
		return nil, false
	}

	uc.recorder.CacheLookup(true)

	return &d, true
}

func (uc *DashboardUseCase) toCache(ctx context.Context, ownerID string, generation int64, d *Dashboard) {
	raw, err := json.Marshal(d)
	if err != nil {
		return
	}

	if err := uc.cache.Set(ctx, dashboardCacheKey(ownerID, generation), raw, uc.cacheTTL); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("dashboard cache write failed")
	}
}
