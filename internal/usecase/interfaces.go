package usecase

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// AccountRepository defines data access for accounts. Every method is
// scoped to an owner; an account of another owner is reported as not found.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Account, error)
	List(ctx context.Context, ownerID string) ([]*domain.Account, error)
	ListForUpdate(ctx context.Context, tx Transaction, ownerID string) ([]*domain.Account, error)
	// AdjustBalance adds delta to the stored balance in a single statement.
	AdjustBalance(ctx context.Context, tx Transaction, ownerID, id string, delta decimal.Decimal, updatedAt time.Time) error
	SetBalance(ctx context.Context, tx Transaction, ownerID, id string, balance decimal.Decimal, updatedAt time.Time) error
	Delete(ctx context.Context, ownerID, id string) error
}

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Category, error)
	GetByName(ctx context.Context, ownerID, name string) (*domain.Category, error)
	List(ctx context.Context, ownerID string) ([]*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, ownerID, id string) error
}

// TransactionRepository defines data access for transactions. Reads
// outside a unit of work return rows with CategoryName and AccountName
// filled in.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, ownerID, id string) (*domain.Transaction, error)
	Update(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	Delete(ctx context.Context, tx Transaction, ownerID, id string) error
	List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error)
}

// LedgerRepository defines the aggregate reads behind the dashboard,
// reports and reconciliation. A zero from or to leaves that side of the
// range open; a zero limit returns every row.
type LedgerRepository interface {
	TotalBalance(ctx context.Context, ownerID string) (decimal.Decimal, error)
	TotalsByCategory(ctx context.Context, ownerID string, txType domain.TransactionType, from, to time.Time, limit int) ([]domain.CategoryTotal, error)
	TotalsByPeriod(ctx context.Context, ownerID string, granularity domain.Granularity, from, to time.Time) ([]domain.PeriodTotals, error)
	RecentMonthlyTotals(ctx context.Context, ownerID string, limit int) ([]domain.PeriodTotals, error)
	SumSignedBefore(ctx context.Context, ownerID string, before time.Time) (decimal.Decimal, error)
	// BalanceChecks reads every account with its derived balance in one
	// statement. tx may be nil.
	BalanceChecks(ctx context.Context, tx Transaction, ownerID string) ([]domain.BalanceCheck, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Incr atomically increments the integer stored at key, starting from 0.
	Incr(ctx context.Context, key string) (int64, error)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// Recorder receives business measurements from the use cases.
type Recorder interface {
	MutationCompleted(operation string, duration time.Duration, err error)
	BalanceAdjusted(count int)
	Reconciled(discrepancies int)
	BalancesRepaired(count int)
	CacheLookup(hit bool)
}
