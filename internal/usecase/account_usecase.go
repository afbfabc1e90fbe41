package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/iho/finledger/internal/domain"
)

// AccountUseCase handles account business logic. Balances are never
// written here; they move only through TransactionUseCase and repair.
type AccountUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	OwnerID string
	Name    string
}

// CreateAccount creates a new account with a zero balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	name := strings.TrimSpace(input.Name)
	if err := domain.ValidateAccountName(name); err != nil {
		return nil, err
	}

	account := domain.NewAccount(uc.idGen.Generate(), input.OwnerID, name, time.Now().UTC())

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, ownerID, id)
}

// ListAccounts lists the owner's accounts.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, ownerID string) ([]*domain.Account, error) {
	return uc.accountRepo.List(ctx, ownerID)
}

// DeleteAccount removes an account that no transaction references.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, ownerID, id string) error {
	return uc.accountRepo.Delete(ctx, ownerID, id)
}
