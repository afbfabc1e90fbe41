package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
	ID        string             `json:"id"`
	OwnerID   string             `json:"owner_id"`
	Name      string             `json:"name"`
	Balance   pgtype.Numeric     `json:"balance"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type Category struct {
	ID        string             `json:"id"`
	OwnerID   string             `json:"owner_id"`
	Name      string             `json:"name"`
	Color     string             `json:"color"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	Published     bool               `json:"published"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
}

type Transaction struct {
	ID              string             `json:"id"`
	OwnerID         string             `json:"owner_id"`
	Amount          pgtype.Numeric     `json:"amount"`
	TransactionType string             `json:"transaction_type"`
	Date            pgtype.Timestamptz `json:"date"`
	Note            string             `json:"note"`
	CategoryID      string             `json:"category_id"`
	AccountID       string             `json:"account_id"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}
