package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createTransaction = `-- name: CreateTransaction :exec
INSERT INTO transactions (id, owner_id, amount, transaction_type, date, note, category_id, account_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

type CreateTransactionParams struct {
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

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) error {
	_, err := q.db.Exec(ctx, createTransaction,
		arg.ID,
		arg.OwnerID,
		arg.Amount,
		arg.TransactionType,
		arg.Date,
		arg.Note,
		arg.CategoryID,
		arg.AccountID,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const deleteTransaction = `-- name: DeleteTransaction :execrows
DELETE FROM transactions WHERE id = $1 AND owner_id = $2
`

type DeleteTransactionParams struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

func (q *Queries) DeleteTransaction(ctx context.Context, arg DeleteTransactionParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteTransaction, arg.ID, arg.OwnerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getTransactionByID = `-- name: GetTransactionByID :one
SELECT t.id, t.owner_id, t.amount, t.transaction_type, t.date, t.note, t.category_id, t.account_id, t.created_at, t.updated_at,
       c.name AS category_name, a.name AS account_name
FROM transactions t
JOIN categories c ON c.id = t.category_id
JOIN accounts a ON a.id = t.account_id
WHERE t.id = $1 AND t.owner_id = $2
`

type GetTransactionByIDParams struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

type GetTransactionByIDRow struct {
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
	CategoryName    string             `json:"category_name"`
	AccountName     string             `json:"account_name"`
}

func (q *Queries) GetTransactionByID(ctx context.Context, arg GetTransactionByIDParams) (GetTransactionByIDRow, error) {
	row := q.db.QueryRow(ctx, getTransactionByID, arg.ID, arg.OwnerID)
	var i GetTransactionByIDRow
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Amount,
		&i.TransactionType,
		&i.Date,
		&i.Note,
		&i.CategoryID,
		&i.AccountID,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.CategoryName,
		&i.AccountName,
	)
	return i, err
}

const getTransactionByIDForUpdate = `-- name: GetTransactionByIDForUpdate :one
SELECT id, owner_id, amount, transaction_type, date, note, category_id, account_id, created_at, updated_at
FROM transactions
WHERE id = $1 AND owner_id = $2
FOR UPDATE
`

type GetTransactionByIDForUpdateParams struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

func (q *Queries) GetTransactionByIDForUpdate(ctx context.Context, arg GetTransactionByIDForUpdateParams) (Transaction, error) {
	row := q.db.QueryRow(ctx, getTransactionByIDForUpdate, arg.ID, arg.OwnerID)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Amount,
		&i.TransactionType,
		&i.Date,
		&i.Note,
		&i.CategoryID,
		&i.AccountID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listTransactionsByOwner = `-- name: ListTransactionsByOwner :many
SELECT t.id, t.owner_id, t.amount, t.transaction_type, t.date, t.note, t.category_id, t.account_id, t.created_at, t.updated_at,
       c.name AS category_name, a.name AS account_name
FROM transactions t
JOIN categories c ON c.id = t.category_id
JOIN accounts a ON a.id = t.account_id
WHERE t.owner_id = $1
ORDER BY t.date DESC, t.id DESC
LIMIT $2 OFFSET $3
`

type ListTransactionsByOwnerParams struct {
	OwnerID string `json:"owner_id"`
	Limit   int32  `json:"limit"`
	Offset  int32  `json:"offset"`
}

type ListTransactionsByOwnerRow struct {
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
	CategoryName    string             `json:"category_name"`
	AccountName     string             `json:"account_name"`
}

func (q *Queries) ListTransactionsByOwner(ctx context.Context, arg ListTransactionsByOwnerParams) ([]ListTransactionsByOwnerRow, error) {
	rows, err := q.db.Query(ctx, listTransactionsByOwner, arg.OwnerID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListTransactionsByOwnerRow
	for rows.Next() {
		var i ListTransactionsByOwnerRow
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.Amount,
			&i.TransactionType,
			&i.Date,
			&i.Note,
			&i.CategoryID,
			&i.AccountID,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.CategoryName,
			&i.AccountName,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateTransaction = `-- name: UpdateTransaction :execrows
UPDATE transactions
SET amount = $3, transaction_type = $4, date = $5, note = $6, category_id = $7, account_id = $8, updated_at = $9
WHERE id = $1 AND owner_id = $2
`

type UpdateTransactionParams struct {
	ID              string             `json:"id"`
	OwnerID         string             `json:"owner_id"`
	Amount          pgtype.Numeric     `json:"amount"`
	TransactionType string             `json:"transaction_type"`
	Date            pgtype.Timestamptz `json:"date"`
	Note            string             `json:"note"`
	CategoryID      string             `json:"category_id"`
	AccountID       string             `json:"account_id"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateTransaction(ctx context.Context, arg UpdateTransactionParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateTransaction,
		arg.ID,
		arg.OwnerID,
		arg.Amount,
		arg.TransactionType,
		arg.Date,
		arg.Note,
		arg.CategoryID,
		arg.AccountID,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
