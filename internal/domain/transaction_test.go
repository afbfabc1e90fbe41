package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func TestParseTransactionType(t *testing.T) {
	tests := []struct {
		in      string
		want    TransactionType
		wantErr bool
	}{
		{"income", TransactionTypeIncome, false},
		{"Expense", TransactionTypeExpense, false},
		{" expense ", TransactionTypeExpense, false},
		{"transfer", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseTransactionType(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidTransactionType) {
				t.Errorf("%q: expected ErrInvalidTransactionType, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestTransaction_SignedAmount(t *testing.T) {
	income := &Transaction{Amount: decimal.NewFromInt(100), Type: TransactionTypeIncome}
	expense := &Transaction{Amount: decimal.NewFromInt(100), Type: TransactionTypeExpense}

	if !income.SignedAmount().Equal(decimal.NewFromInt(100)) {
		t.Errorf("income should be positive, got %s", income.SignedAmount())
	}
	if !expense.SignedAmount().Equal(decimal.NewFromInt(-100)) {
		t.Errorf("expense should be negative, got %s", expense.SignedAmount())
	}
}

func TestTransaction_Validate(t *testing.T) {
	valid := func() *Transaction {
		return &Transaction{
			Amount:     decimal.NewFromInt(10),
			Type:       TransactionTypeExpense,
			CategoryID: "cat-1",
			AccountID:  "acc-1",
			Date:       fixedNow,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"valid", func(*Transaction) {}, nil},
		{"zero amount", func(tx *Transaction) { tx.Amount = decimal.Zero }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-5) }, ErrInvalidAmount},
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidTransactionType},
		{"long note", func(tx *Transaction) { tx.Note = strings.Repeat("x", MaxNoteLength+1) }, ErrInvalidNote},
		{"no category", func(tx *Transaction) { tx.CategoryID = "" }, ErrInvalidCategory},
		{"no account", func(tx *Transaction) { tx.AccountID = "" }, ErrInvalidAccount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid()
			tt.mutate(tx)
			err := tx.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
