package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a money container owned by a single user. Balance is the
// materialised sum of the signed amounts of every transaction that
// references the account.
type Account struct {
	ID        string
	OwnerID   string
	Name      string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount returns an account with a zero balance.
func NewAccount(id, ownerID, name string, now time.Time) *Account {
	return &Account{
		ID:        id,
		OwnerID:   ownerID,
		Name:      name,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ApplyDelta returns the balance after adding delta.
func (a *Account) ApplyDelta(delta decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(delta)
}

// BalanceCheck compares the stored balance of an account with the sum
// derived from its transactions.
type BalanceCheck struct {
	AccountID   string
	AccountName string
	Recorded    decimal.Decimal
	Calculated  decimal.Decimal
}

// Difference is recorded minus calculated.
func (c BalanceCheck) Difference() decimal.Decimal {
	return c.Recorded.Sub(c.Calculated)
}

// Reconciled reports whether the stored balance matches the transactions.
func (c BalanceCheck) Reconciled() bool {
	return c.Recorded.Equal(c.Calculated)
}
