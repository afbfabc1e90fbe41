package domain

import (
	"encoding/json"
	"time"
)

// Event types
const (
	EventTypeTransactionCreated = "transaction.created"
	EventTypeTransactionUpdated = "transaction.updated"
	EventTypeTransactionDeleted = "transaction.deleted"
	EventTypeBalancesRepaired   = "balances.repaired"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
	AggregateTypeOwner       = "owner"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// DeltaPayload is a balance change carried by an event.
type DeltaPayload struct {
	AccountID string `json:"account_id"`
	Amount    string `json:"amount"`
}

// TransactionEvent payload, shared by created, updated and deleted events.
type TransactionEvent struct {
	TransactionID   string         `json:"transaction_id"`
	OwnerID         string         `json:"owner_id"`
	AccountID       string         `json:"account_id"`
	CategoryID      string         `json:"category_id"`
	Amount          string         `json:"amount"`
	TransactionType string         `json:"transaction_type"`
	Date            string         `json:"date"`
	Deltas          []DeltaPayload `json:"deltas"`
	EventAt         string         `json:"event_at"`
}

// RepairedBalance describes one corrected account.
type RepairedBalance struct {
	AccountID string `json:"account_id"`
	Previous  string `json:"previous"`
	Current   string `json:"current"`
}

// BalancesRepairedEvent payload
type BalancesRepairedEvent struct {
	OwnerID  string            `json:"owner_id"`
	Accounts []RepairedBalance `json:"accounts"`
	EventAt  string            `json:"event_at"`
}

// NewTransactionEvent builds the payload for t and the deltas it caused.
func NewTransactionEvent(t *Transaction, deltas []BalanceDelta, at time.Time) TransactionEvent {
	payload := make([]DeltaPayload, 0, len(deltas))
	for _, d := range deltas {
		payload = append(payload, DeltaPayload{AccountID: d.AccountID, Amount: d.Amount.String()})
	}

	return TransactionEvent{
		TransactionID:   t.ID,
		OwnerID:         t.OwnerID,
		AccountID:       t.AccountID,
		CategoryID:      t.CategoryID,
		Amount:          t.SignedAmount().String(),
		TransactionType: string(t.Type),
		Date:            t.Date.UTC().Format(time.RFC3339),
		Deltas:          payload,
		EventAt:         at.UTC().Format(time.RFC3339Nano),
	}
}

// ToPayload converts an event struct into the generic map stored in the
// outbox. It returns nil if v cannot be represented as a JSON object.
func ToPayload(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}

	return out
}
