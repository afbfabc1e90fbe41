package usecase_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
	"github.com/iho/finledger/internal/usecase/memstore"
	"github.com/iho/finledger/internal/usecase/mocks"
)

func TestTransactionUseCase_CreateExpense(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "Checking", 500)

	txn := f.create(t, a.ID, 100, domain.TransactionTypeExpense, "Food")

	if !txn.SignedAmount().Equal(decimal.NewFromInt(-100)) {
		t.Errorf("expected signed amount -100, got %s", txn.SignedAmount())
	}
	if txn.CategoryName != "Food" || txn.AccountName != "Checking" {
		t.Errorf("expected names to be resolved, got %q/%q", txn.CategoryName, txn.AccountName)
	}
	f.assertBalance(t, a.ID, 400)
	f.assertConsistent(t)
}

func TestTransactionUseCase_CreateResolvesCategoryCaseInsensitively(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "Checking", 0)

	txn := f.create(t, a.ID, 25, domain.TransactionTypeExpense, "food")
	if txn.CategoryName != "Food" {
		t.Fatalf("expected Food, got %q", txn.CategoryName)
	}
}

func TestTransactionUseCase_CreateRejections(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "Checking", 500)
	before := f.store.Transactions().Count()

	tests := []struct {
		name  string
		input usecase.TransactionInput
		want  error
	}{
		{"unknown category", input(a.ID, 10, domain.TransactionTypeExpense, "Yachts"), domain.ErrInvalidCategory},
		{"unknown account", input("missing", 10, domain.TransactionTypeExpense, "Food"), domain.ErrInvalidAccount},
		{"zero amount", input(a.ID, 0, domain.TransactionTypeExpense, "Food"), domain.ErrInvalidAmount},
		{"negative amount", input(a.ID, -10, domain.TransactionTypeExpense, "Food"), domain.ErrInvalidAmount},
		{"bad type", input(a.ID, 10, "transfer", "Food"), domain.ErrInvalidTransactionType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.txns.CreateTransaction(context.Background(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if got := f.store.Transactions().Count(); got != before {
		t.Fatalf("expected no new rows, had %d now %d", before, got)
	}
	f.assertBalance(t, a.ID, 500)
}

func TestTransactionUseCase_CreateAccountOfAnotherOwner(t *testing.T) {
	f := newFixture(t)

	other, err := f.accounts.CreateAccount(context.Background(), usecase.CreateAccountInput{OwnerID: "owner-2", Name: "Theirs"})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	_, err = f.txns.CreateTransaction(context.Background(), input(other.ID, 10, domain.TransactionTypeIncome, "Income"))
	if !errors.Is(err, domain.ErrInvalidAccount) {
		t.Fatalf("expected ErrInvalidAccount, got %v", err)
	}
}

func TestTransactionUseCase_UpdateSameAccount(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "Checking", 500)
	txn := f.create(t, a.ID, 100, domain.TransactionTypeExpense, "Food")
	f.assertBalance(t, a.ID, 400)

	updated, err := f.txns.UpdateTransaction(context.Background(), txn.ID, input(a.ID, 150, domain.TransactionTypeExpense, "Food"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !updated.SignedAmount().Equal(decimal.NewFromInt(-150)) {
		t.Errorf("expected -150, got %s", updated.SignedAmount())
	}
	f.assertBalance(t, a.ID, 350)
	f.assertConsistent(t)
}

func TestTransactionUseCase_UpdateFlipsType(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "Checking", 500)
	txn := f.create(t, a.ID, 100, domain.TransactionTypeExpense, "Food")

	if _, err := f.txns.UpdateTransaction(context.Background(), txn.ID, input(a.ID, 100, domain.TransactionTypeIncome, "Income")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.assertBalance(t, a.ID, 600)
	f.assertConsistent(t)
}

func TestTransactionUseCase_UpdateMovesAccount(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "Checking", 500)
	b := f.account(t, "Savings", 1000)
	txn := f.create(t, a.ID, 100, domain.TransactionTypeExpense, "Food")
	f.assertBalance(t, a.ID, 400)

	updated, err := f.txns.UpdateTransaction(context.Background(), txn.ID, input(b.ID, 100, domain.TransactionTypeExpense, "Food"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.AccountID != b.ID || updated.AccountName != "Savings" {
		t.Errorf("expected transaction to move to %s, got %s (%s)", b.ID, updated.AccountID, updated.AccountName)
	}
	f.assertBalance(t, a.ID, 500)
	f.assertBalance(t, b.ID, 900)
	f.assertConsistent(t)
}

func TestTransactionUseCase_UpdateRejections(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "Checking", 500)
	txn := f.create(t, a.ID, 100, domain.TransactionTypeExpense, "Food")
	ctx := context.Background()

	if _, err := f.txns.UpdateTransaction(ctx, "missing", input(a.ID, 10, domain.TransactionTypeExpense, "Food")); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound, got %v", err)
	}
	if _, err := f.txns.UpdateTransaction(ctx, txn.ID, input(a.ID, 10, domain.TransactionTypeExpense, "Yachts")); !errors.Is(err, domain.ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
	if _, err := f.txns.UpdateTransaction(ctx, txn.ID, input("missing", 10, domain.TransactionTypeExpense, "Food")); !errors.Is(err, domain.ErrInvalidAccount) {
		t.Errorf("expected ErrInvalidAccount, got %v", err)
	}

	stored, err := f.txns.GetTransaction(ctx, owner, txn.ID)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if !stored.Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("rejected updates must not change the row, amount is %s", stored.Amount)
	}
	f.assertBalance(t, a.ID, 400)
}

func TestTransactionUseCase_Delete(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		typ     domain.TransactionType
		balance int64
		want    int64
	}{
		{"expense", 150, domain.TransactionTypeExpense, 350, 500},
		{"income", 200, domain.TransactionTypeIncome, 700, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			a := f.account(t, "Checking", 500)
			txn := f.create(t, a.ID, tt.amount, tt.typ, "Other")
			f.assertBalance(t, a.ID, tt.balance)

			if err := f.txns.DeleteTransaction(context.Background(), owner, txn.ID); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			f.assertBalance(t, a.ID, tt.want)
			if _, err := f.txns.GetTransaction(context.Background(), owner, txn.ID); !errors.Is(err, domain.ErrTransactionNotFound) {
				t.Fatalf("expected row to be gone, got %v", err)
			}
			f.assertConsistent(t)
		})
	}
}

func TestTransactionUseCase_DeleteNotFound(t *testing.T) {
	f := newFixture(t)

	if err := f.txns.DeleteTransaction(context.Background(), owner, "missing"); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestTransactionUseCase_OwnerIsolation(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "Checking", 500)
	txn := f.create(t, a.ID, 100, domain.TransactionTypeExpense, "Food")
	ctx := context.Background()

	if _, err := f.txns.GetTransaction(ctx, "owner-2", txn.ID); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound for other owner, got %v", err)
	}
	if err := f.txns.DeleteTransaction(ctx, "owner-2", txn.ID); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound for other owner, got %v", err)
	}
	f.assertBalance(t, a.ID, 400)
}

func TestTransactionUseCase_FailuresLeaveNoTrace(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name string
		op   string
		run  func(*fixture, *domain.Account, *domain.Transaction) error
	}{
		{
			name: "create fails applying balance",
			op:   memstore.OpAdjustBalance,
			run: func(f *fixture, a *domain.Account, _ *domain.Transaction) error {
				_, err := f.txns.CreateTransaction(context.Background(), input(a.ID, 10, domain.TransactionTypeExpense, "Food"))
				return err
			},
		},
		{
			name: "create fails writing event",
			op:   memstore.OpOutboxCreate,
			run: func(f *fixture, a *domain.Account, _ *domain.Transaction) error {
				_, err := f.txns.CreateTransaction(context.Background(), input(a.ID, 10, domain.TransactionTypeExpense, "Food"))
				return err
			},
		},
		{
			name: "update fails applying balance",
			op:   memstore.OpAdjustBalance,
			run: func(f *fixture, a *domain.Account, txn *domain.Transaction) error {
				_, err := f.txns.UpdateTransaction(context.Background(), txn.ID, input(a.ID, 999, domain.TransactionTypeIncome, "Income"))
				return err
			},
		},
		{
			name: "delete fails on commit",
			op:   memstore.OpCommit,
			run: func(f *fixture, _ *domain.Account, txn *domain.Transaction) error {
				return f.txns.DeleteTransaction(context.Background(), owner, txn.ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			a := f.account(t, "Checking", 500)
			txn := f.create(t, a.ID, 100, domain.TransactionTypeExpense, "Food")
			rows := f.store.Transactions().Count()
			events := len(f.store.Outbox().Events())

			f.store.FailOn(tt.op, boom)
			if err := tt.run(f, a, txn); !errors.Is(err, boom) {
				t.Fatalf("expected injected error, got %v", err)
			}

			f.assertBalance(t, a.ID, 400)
			if got := f.store.Transactions().Count(); got != rows {
				t.Errorf("expected %d rows, got %d", rows, got)
			}
			if got := len(f.store.Outbox().Events()); got != events {
				t.Errorf("expected %d events, got %d", events, got)
			}
			stored, err := f.txns.GetTransaction(context.Background(), owner, txn.ID)
			if err != nil {
				t.Fatalf("original transaction must survive: %v", err)
			}
			if !stored.SignedAmount().Equal(decimal.NewFromInt(-100)) {
				t.Errorf("original transaction changed to %s", stored.SignedAmount())
			}
			f.assertConsistent(t)
		})
	}
}

func TestTransactionUseCase_RecordsOutboxEvents(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "Checking", 0)
	b := f.account(t, "Savings", 0)
	ctx := context.Background()

	txn := f.create(t, a.ID, 40, domain.TransactionTypeExpense, "Food")
	if _, err := f.txns.UpdateTransaction(ctx, txn.ID, input(b.ID, 40, domain.TransactionTypeExpense, "Food")); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := f.txns.DeleteTransaction(ctx, owner, txn.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	events := f.store.Outbox().Events()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	wantTypes := []string{domain.EventTypeTransactionCreated, domain.EventTypeTransactionUpdated, domain.EventTypeTransactionDeleted}
	for i, e := range events {
		if e.EventType != wantTypes[i] {
			t.Errorf("event %d: expected %s, got %s", i, wantTypes[i], e.EventType)
		}
		if e.AggregateID != txn.ID || e.AggregateType != domain.AggregateTypeTransaction {
			t.Errorf("event %d: unexpected aggregate %s/%s", i, e.AggregateType, e.AggregateID)
		}
	}

	deltas, ok := events[1].Payload["deltas"].([]any)
	if !ok || len(deltas) != 2 {
		t.Fatalf("expected two deltas on the move event, got %v", events[1].Payload["deltas"])
	}
}

func TestTransactionUseCase_InvalidatesDashboardAndRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(t)
	a := f.account(t, "Checking", 0)

	cache := mocks.NewMockCache(ctrl)
	recorder := mocks.NewMockRecorder(ctrl)
	f.txns.WithCache(cache).WithRecorder(recorder)

	cache.EXPECT().Incr(gomock.Any(), "dashboard-gen:"+owner).Return(int64(0), errors.New("redis down"))
	recorder.EXPECT().BalanceAdjusted(1)
	recorder.EXPECT().MutationCompleted(usecase.OperationCreateTransaction, gomock.Any(), nil)

	// A cache failure after commit does not fail the mutation.
	f.create(t, a.ID, 10, domain.TransactionTypeIncome, "Income")
	f.assertBalance(t, a.ID, 10)
}

// Random sequences of mutations, including rejected ones, must keep every
// stored balance equal to the sum of its transactions.
func TestTransactionUseCase_RandomSequencesStayConsistent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	accounts := []*domain.Account{
		f.account(t, "Checking", 0),
		f.account(t, "Savings", 0),
		f.account(t, "Cash", 0),
	}
	accountID := func() string {
		if rng.Intn(10) == 0 {
			return "missing"
		}
		return accounts[rng.Intn(len(accounts))].ID
	}
	category := func() string {
		if rng.Intn(10) == 0 {
			return "Nope"
		}
		return domain.DefaultCategoryNames[rng.Intn(len(domain.DefaultCategoryNames))]
	}
	txType := func() domain.TransactionType {
		if rng.Intn(2) == 0 {
			return domain.TransactionTypeIncome
		}
		return domain.TransactionTypeExpense
	}

	var live []string
	for i := 0; i < 300; i++ {
		amount := int64(rng.Intn(1000) + 1)

		switch op := rng.Intn(3); {
		case op == 0 || len(live) == 0:
			txn, err := f.txns.CreateTransaction(ctx, input(accountID(), amount, txType(), category()))
			if err == nil {
				live = append(live, txn.ID)
			}
		case op == 1:
			id := live[rng.Intn(len(live))]
			_, _ = f.txns.UpdateTransaction(ctx, id, input(accountID(), amount, txType(), category()))
		default:
			idx := rng.Intn(len(live))
			if err := f.txns.DeleteTransaction(ctx, owner, live[idx]); err == nil {
				live = append(live[:idx], live[idx+1:]...)
			}
		}

		f.assertConsistent(t)
	}

	if got := f.store.Transactions().Count(); got != len(live) {
		t.Fatalf("expected %d live transactions, got %d", len(live), got)
	}
}

func TestTransactionUseCase_ListPagination(t *testing.T) {
	f := newFixture(t)
	a := f.account(t, "Checking", 0)
	for i := 0; i < 5; i++ {
		f.create(t, a.ID, int64(i+1), domain.TransactionTypeIncome, "Income")
	}

	page, err := f.txns.ListTransactions(context.Background(), owner, 2, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(page))
	}

	all, err := f.txns.ListTransactions(context.Background(), owner, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected default limit to return all 5 rows, got %d", len(all))
	}
}
