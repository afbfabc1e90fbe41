package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType says whether a transaction adds money to or removes
// money from its account.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// ParseTransactionType accepts "income" or "expense" in any case.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTransactionType, s)
	}

	return t, nil
}

// IsValid reports whether t is a known type.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// Sign applies the type's sign to a non-negative magnitude.
func (t TransactionType) Sign(amount decimal.Decimal) decimal.Decimal {
	if t == TransactionTypeExpense {
		return amount.Neg()
	}

	return amount
}

// Transaction is a single income or expense. Amount is always stored as a
// positive magnitude; the signed value is derived from Type. Going the
// other way, a negative signed value is an expense of |value| and a
// positive one is income.
type Transaction struct {
	ID         string
	OwnerID    string
	Amount     decimal.Decimal
	Type       TransactionType
	Date       time.Time
	Note       string
	CategoryID string
	AccountID  string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Filled by read projections.
	CategoryName string
	AccountName  string
}

// SignedAmount is +Amount for income and -Amount for expense.
func (t *Transaction) SignedAmount() decimal.Decimal {
	return t.Type.Sign(t.Amount)
}

// Validate checks the fields that do not need a store lookup.
func (t *Transaction) Validate() error {
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}

	if !t.Type.IsValid() {
		return ErrInvalidTransactionType
	}

	if err := ValidateNote(t.Note); err != nil {
		return err
	}

	if t.CategoryID == "" {
		return ErrInvalidCategory
	}

	if t.AccountID == "" {
		return ErrInvalidAccount
	}

	return nil
}
