package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
	"github.com/iho/finledger/internal/usecase/mocks"
)

func expectDashboardReads(ledger *mocks.MockLedgerRepository, txns *mocks.MockTransactionRepository) {
	ledger.EXPECT().TotalBalance(gomock.Any(), owner).Return(decimal.NewFromInt(1250), nil)
	txns.EXPECT().List(gomock.Any(), owner, 5, 0).Return([]*domain.Transaction{
		{ID: "t1", Amount: decimal.NewFromInt(20), Type: domain.TransactionTypeExpense},
	}, nil)
	ledger.EXPECT().
		TotalsByCategory(gomock.Any(), owner, domain.TransactionTypeExpense, time.Time{}, time.Time{}, 5).
		Return([]domain.CategoryTotal{{Name: "Food", Color: "#0A84FF", Total: decimal.NewFromInt(20)}}, nil)
	ledger.EXPECT().RecentMonthlyTotals(gomock.Any(), owner, 6).Return([]domain.PeriodTotals{
		{Period: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Income: decimal.NewFromInt(100), Expense: decimal.NewFromInt(20)},
	}, nil)
}

func TestDashboardUseCase_GetDashboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := mocks.NewMockLedgerRepository(ctrl)
	txns := mocks.NewMockTransactionRepository(ctrl)
	expectDashboardReads(ledger, txns)

	uc := usecase.NewDashboardUseCase(ledger, txns, nil, 0)

	d, err := uc.GetDashboard(context.Background(), owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !d.Balance.Equal(decimal.NewFromInt(1250)) {
		t.Errorf("expected balance 1250, got %s", d.Balance)
	}
	if len(d.RecentTransactions) != 1 || len(d.CategorySpending) != 1 || len(d.MonthlySummary) != 1 {
		t.Errorf("unexpected dashboard shape: %+v", d)
	}
}

func TestDashboardUseCase_CacheMissPopulatesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := mocks.NewMockLedgerRepository(ctrl)
	txns := mocks.NewMockTransactionRepository(ctrl)
	cache := mocks.NewMockCache(ctrl)
	recorder := mocks.NewMockRecorder(ctrl)
	expectDashboardReads(ledger, txns)

	cache.EXPECT().Get(gomock.Any(), "dashboard-gen:"+owner).Return(nil, usecase.ErrCacheMiss)
	cache.EXPECT().Get(gomock.Any(), "dashboard:"+owner+":0").Return(nil, usecase.ErrCacheMiss)
	cache.EXPECT().Set(gomock.Any(), "dashboard:"+owner+":0", gomock.Any(), time.Minute).Return(nil)
	recorder.EXPECT().CacheLookup(false)

	uc := usecase.NewDashboardUseCase(ledger, txns, cache, time.Minute).WithRecorder(recorder)
	if _, err := uc.GetDashboard(context.Background(), owner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDashboardUseCase_CacheHitSkipsReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := mocks.NewMockLedgerRepository(ctrl)
	txns := mocks.NewMockTransactionRepository(ctrl)
	cache := mocks.NewMockCache(ctrl)
	recorder := mocks.NewMockRecorder(ctrl)

	raw, err := json.Marshal(usecase.Dashboard{Balance: decimal.NewFromInt(42)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	cache.EXPECT().Get(gomock.Any(), "dashboard-gen:"+owner).Return([]byte("4"), nil)
	cache.EXPECT().Get(gomock.Any(), "dashboard:"+owner+":4").Return(raw, nil)
	recorder.EXPECT().CacheLookup(true)

	uc := usecase.NewDashboardUseCase(ledger, txns, cache, time.Minute).WithRecorder(recorder)

	d, err := uc.GetDashboard(context.Background(), owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Balance.Equal(decimal.NewFromInt(42)) {
		t.Fatalf("expected cached balance 42, got %s", d.Balance)
	}
}

func TestDashboardUseCase_ReadErrorFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := mocks.NewMockLedgerRepository(ctrl)
	txns := mocks.NewMockTransactionRepository(ctrl)
	boom := errors.New("boom")

	ledger.EXPECT().TotalBalance(gomock.Any(), owner).Return(decimal.Zero, boom)
	txns.EXPECT().List(gomock.Any(), owner, 5, 0).Return(nil, nil).AnyTimes()
	ledger.EXPECT().TotalsByCategory(gomock.Any(), owner, gomock.Any(), gomock.Any(), gomock.Any(), 5).Return(nil, nil).AnyTimes()
	ledger.EXPECT().RecentMonthlyTotals(gomock.Any(), owner, 6).Return(nil, nil).AnyTimes()

	uc := usecase.NewDashboardUseCase(ledger, txns, nil, 0)
	if _, err := uc.GetDashboard(context.Background(), owner); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

// memCache is a process-local usecase.Cache.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, usecase.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(string(c.data[key]), 10, 64)
	n++
	c.data[key] = []byte(strconv.FormatInt(n, 10))
	return n, nil
}

// pausingLedger blocks the first TotalBalance call after it has read the
// balance, until release is closed.
type pausingLedger struct {
	usecase.LedgerRepository
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (p *pausingLedger) TotalBalance(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	balance, err := p.LedgerRepository.TotalBalance(ctx, ownerID)
	p.once.Do(func() {
		close(p.entered)
		<-p.release
	})
	return balance, err
}

func TestDashboardUseCase_ReadOverlappingMutationIsNotServedAfterwards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cache := newMemCache()
	acc := f.account(t, "Checking", 500)
	f.txns.WithCache(cache)

	ledger := &pausingLedger{
		LedgerRepository: f.store.Ledger(),
		entered:          make(chan struct{}),
		release:          make(chan struct{}),
	}
	uc := usecase.NewDashboardUseCase(ledger, f.store.Transactions(), cache, time.Hour)

	type result struct {
		d   *usecase.Dashboard
		err error
	}
	done := make(chan result, 1)
	go func() {
		d, err := uc.GetDashboard(ctx, owner)
		done <- result{d, err}
	}()

	// The read holds the old balance while an expense commits.
	<-ledger.entered
	f.create(t, acc.ID, 100, domain.TransactionTypeExpense, "Food")
	close(ledger.release)

	first := <-done
	if first.err != nil {
		t.Fatalf("overlapping read: %v", first.err)
	}
	if !first.d.Balance.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("overlapping read should see the old balance, got %s", first.d.Balance)
	}

	for i := 0; i < 2; i++ {
		d, err := uc.GetDashboard(ctx, owner)
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if !d.Balance.Equal(decimal.NewFromInt(400)) {
			t.Fatalf("read %d: expected balance 400, got %s", i, d.Balance)
		}
	}
}
