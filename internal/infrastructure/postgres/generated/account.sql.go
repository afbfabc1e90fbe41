package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const adjustAccountBalance = `-- name: AdjustAccountBalance :execrows
UPDATE accounts SET balance = balance + $3, updated_at = $4
WHERE id = $1 AND owner_id = $2
`

type AdjustAccountBalanceParams struct {
	ID        string             `json:"id"`
	OwnerID   string             `json:"owner_id"`
	Delta     pgtype.Numeric     `json:"delta"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) AdjustAccountBalance(ctx context.Context, arg AdjustAccountBalanceParams) (int64, error) {
	result, err := q.db.Exec(ctx, adjustAccountBalance,
		arg.ID,
		arg.OwnerID,
		arg.Delta,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const createAccount = `-- name: CreateAccount :exec
INSERT INTO accounts (id, owner_id, name, balance, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreateAccountParams struct {
	ID        string             `json:"id"`
	OwnerID   string             `json:"owner_id"`
	Name      string             `json:"name"`
	Balance   pgtype.Numeric     `json:"balance"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) error {
	_, err := q.db.Exec(ctx, createAccount,
		arg.ID,
		arg.OwnerID,
		arg.Name,
		arg.Balance,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const deleteAccount = `-- name: DeleteAccount :execrows
DELETE FROM accounts WHERE id = $1 AND owner_id = $2
`

type DeleteAccountParams struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

func (q *Queries) DeleteAccount(ctx context.Context, arg DeleteAccountParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteAccount, arg.ID, arg.OwnerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getAccountByID = `-- name: GetAccountByID :one
SELECT id, owner_id, name, balance, created_at, updated_at FROM accounts
WHERE id = $1 AND owner_id = $2
`

type GetAccountByIDParams struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

func (q *Queries) GetAccountByID(ctx context.Context, arg GetAccountByIDParams) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByID, arg.ID, arg.OwnerID)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Name,
		&i.Balance,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listAccountsByOwner = `-- name: ListAccountsByOwner :many
SELECT id, owner_id, name, balance, created_at, updated_at FROM accounts
WHERE owner_id = $1
ORDER BY created_at, id
`

func (q *Queries) ListAccountsByOwner(ctx context.Context, ownerID string) ([]Account, error) {
	rows, err := q.db.Query(ctx, listAccountsByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.Name,
			&i.Balance,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const listAccountsForUpdate = `-- name: ListAccountsForUpdate :many
SELECT id, owner_id, name, balance, created_at, updated_at FROM accounts
WHERE owner_id = $1
ORDER BY id
FOR UPDATE
`

func (q *Queries) ListAccountsForUpdate(ctx context.Context, ownerID string) ([]Account, error) {
	rows, err := q.db.Query(ctx, listAccountsForUpdate, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.Name,
			&i.Balance,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const setAccountBalance = `-- name: SetAccountBalance :execrows
UPDATE accounts SET balance = $3, updated_at = $4
WHERE id = $1 AND owner_id = $2
`

type SetAccountBalanceParams struct {
	ID        string             `json:"id"`
	OwnerID   string             `json:"owner_id"`
	Balance   pgtype.Numeric     `json:"balance"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) SetAccountBalance(ctx context.Context, arg SetAccountBalanceParams) (int64, error) {
	result, err := q.db.Exec(ctx, setAccountBalance,
		arg.ID,
		arg.OwnerID,
		arg.Balance,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const sumAccountBalances = `-- name: SumAccountBalances :one
SELECT COALESCE(SUM(balance), 0)::numeric AS total FROM accounts WHERE owner_id = $1
`

func (q *Queries) SumAccountBalances(ctx context.Context, ownerID string) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumAccountBalances, ownerID)
	var total pgtype.Numeric
	err := row.Scan(&total)
	return total, err
}
