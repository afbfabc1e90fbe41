package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BalanceDelta is an increment applied to one account's stored balance.
type BalanceDelta struct {
	AccountID string
	Amount    decimal.Decimal
}

// CreateDeltas are the balance changes caused by recording t.
func CreateDeltas(t *Transaction) []BalanceDelta {
	return normalizeDeltas([]BalanceDelta{
		{AccountID: t.AccountID, Amount: t.SignedAmount()},
	})
}

// DeleteDeltas reverse the effect of t.
func DeleteDeltas(t *Transaction) []BalanceDelta {
	return normalizeDeltas([]BalanceDelta{
		{AccountID: t.AccountID, Amount: t.SignedAmount().Neg()},
	})
}

// UpdateDeltas move a transaction from prev to next. When the account is
// unchanged only the net difference is applied; otherwise the old account
// loses prev's effect and the new account gains next's.
func UpdateDeltas(prev, next *Transaction) []BalanceDelta {
	if prev.AccountID == next.AccountID {
		return normalizeDeltas([]BalanceDelta{
			{AccountID: next.AccountID, Amount: next.SignedAmount().Sub(prev.SignedAmount())},
		})
	}

	return normalizeDeltas([]BalanceDelta{
		{AccountID: prev.AccountID, Amount: prev.SignedAmount().Neg()},
		{AccountID: next.AccountID, Amount: next.SignedAmount()},
	})
}

// normalizeDeltas drops no-op deltas and orders the rest by account ID so
// that concurrent units lock account rows in the same order.
func normalizeDeltas(deltas []BalanceDelta) []BalanceDelta {
	out := make([]BalanceDelta, 0, len(deltas))
	for _, d := range deltas {
		if d.Amount.IsZero() {
			continue
		}
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].AccountID < out[j].AccountID
	})

	return out
}
