package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
	"github.com/iho/finledger/internal/usecase/memstore"
)

const owner = "owner-1"

type fixture struct {
	store      *memstore.Store
	txns       *usecase.TransactionUseCase
	accounts   *usecase.AccountUseCase
	categories *usecase.CategoryUseCase
	recon      *usecase.ReconciliationUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	ids := memstore.NewSequentialIDs("id")

	f := &fixture{
		store: store,
		txns: usecase.NewTransactionUseCase(
			store, store.Accounts(), store.Categories(), store.Transactions(), store.Outbox(), ids,
		),
		accounts:   usecase.NewAccountUseCase(store.Accounts(), ids),
		categories: usecase.NewCategoryUseCase(store.Categories(), ids),
		recon: usecase.NewReconciliationUseCase(
			store, store.Accounts(), store.Ledger(), store.Outbox(), ids,
		),
	}

	if _, err := f.categories.SeedDefaults(context.Background(), owner); err != nil {
		t.Fatalf("seed categories: %v", err)
	}

	return f
}

// account creates an account and brings it to opening through an income
// or expense transaction, so the stored balance is backed by a row.
func (f *fixture) account(t *testing.T, name string, opening int64) *domain.Account {
	t.Helper()
	ctx := context.Background()

	acc, err := f.accounts.CreateAccount(ctx, usecase.CreateAccountInput{OwnerID: owner, Name: name})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	if opening != 0 {
		typ := domain.TransactionTypeIncome
		if opening < 0 {
			typ = domain.TransactionTypeExpense
		}
		f.create(t, acc.ID, abs(opening), typ, "Income")
	}

	return acc
}

func (f *fixture) create(t *testing.T, accountID string, amount int64, typ domain.TransactionType, category string) *domain.Transaction {
	t.Helper()

	txn, err := f.txns.CreateTransaction(context.Background(), input(accountID, amount, typ, category))
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	return txn
}

func (f *fixture) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()

	acc, err := f.accounts.GetAccount(context.Background(), owner, accountID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}

	return acc.Balance
}

func (f *fixture) assertBalance(t *testing.T, accountID string, want int64) {
	t.Helper()

	if got := f.balance(t, accountID); !got.Equal(decimal.NewFromInt(want)) {
		t.Fatalf("account %s: expected balance %d, got %s", accountID, want, got)
	}
}

func (f *fixture) assertConsistent(t *testing.T) {
	t.Helper()

	report, err := f.recon.Reconcile(context.Background(), owner)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !report.Consistent {
		for _, a := range report.Accounts {
			if !a.IsReconciled {
				t.Errorf("account %s: recorded %s, calculated %s", a.AccountID, a.RecordedBalance, a.CalculatedBalance)
			}
		}
		t.FailNow()
	}
}

func input(accountID string, amount int64, typ domain.TransactionType, category string) usecase.TransactionInput {
	return usecase.TransactionInput{
		OwnerID:   owner,
		Amount:    decimal.NewFromInt(amount),
		Type:      typ,
		Date:      time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
		Note:      "test",
		Category:  category,
		AccountID: accountID,
	}
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
