package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/infrastructure/postgres/generated"
	"github.com/iho/finledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	db      generated.DBTX
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository. db is usually a
// *pgxpool.Pool.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{
		db:      db,
		queries: generated.New(db),
	}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	return r.queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:        account.ID,
		OwnerID:   account.OwnerID,
		Name:      account.Name,
		Balance:   decimalToNumeric(account.Balance),
		CreatedAt: timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(account.UpdatedAt),
	})
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, generated.GetAccountByIDParams{ID: id, OwnerID: ownerID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// List returns every account of the owner in creation order.
func (r *AccountRepository) List(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccountsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return rowsToAccounts(rows), nil
}

// ListForUpdate locks every account of the owner in ID order.
func (r *AccountRepository) ListForUpdate(ctx context.Context, tx usecase.Transaction, ownerID string) ([]*domain.Account, error) {
	rows, err := queriesFor(r.db, tx).ListAccountsForUpdate(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return rowsToAccounts(rows), nil
}

// AdjustBalance adds delta to the stored balance. The increment happens
// inside the UPDATE so concurrent adjustments never lose an update.
func (r *AccountRepository) AdjustBalance(ctx context.Context, tx usecase.Transaction, ownerID, id string, delta decimal.Decimal, updatedAt time.Time) error {
	n, err := queriesFor(r.db, tx).AdjustAccountBalance(ctx, generated.AdjustAccountBalanceParams{
		ID:        id,
		OwnerID:   ownerID,
		Delta:     decimalToNumeric(delta),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// SetBalance overwrites the stored balance.
func (r *AccountRepository) SetBalance(ctx context.Context, tx usecase.Transaction, ownerID, id string, balance decimal.Decimal, updatedAt time.Time) error {
	n, err := queriesFor(r.db, tx).SetAccountBalance(ctx, generated.SetAccountBalanceParams{
		ID:        id,
		OwnerID:   ownerID,
		Balance:   decimalToNumeric(balance),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// Delete removes an account. Accounts still referenced by transactions
// are rejected by the foreign key.
func (r *AccountRepository) Delete(ctx context.Context, ownerID, id string) error {
	n, err := r.queries.DeleteAccount(ctx, generated.DeleteAccountParams{ID: id, OwnerID: ownerID})
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrAccountInUse
		}

		return err
	}

	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func rowsToAccounts(rows []generated.Account) []*domain.Account {
	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Name:      row.Name,
		Balance:   numericToDecimal(row.Balance),
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
