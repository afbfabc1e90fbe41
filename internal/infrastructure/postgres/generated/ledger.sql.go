package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const listBalanceChecks = `-- name: ListBalanceChecks :many
SELECT a.id, a.name, a.balance,
       COALESCE(SUM(CASE WHEN t.transaction_type = 'income' THEN t.amount ELSE -t.amount END), 0)::numeric AS calculated
FROM accounts a
LEFT JOIN transactions t ON t.account_id = a.id
WHERE a.owner_id = $1
GROUP BY a.id, a.name, a.balance
ORDER BY a.id
`

type ListBalanceChecksRow struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Balance    pgtype.Numeric `json:"balance"`
	Calculated pgtype.Numeric `json:"calculated"`
}

func (q *Queries) ListBalanceChecks(ctx context.Context, ownerID string) ([]ListBalanceChecksRow, error) {
	rows, err := q.db.Query(ctx, listBalanceChecks, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListBalanceChecksRow
	for rows.Next() {
		var i ListBalanceChecksRow
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Balance,
			&i.Calculated,
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

const listRecentMonthlyTotals = `-- name: ListRecentMonthlyTotals :many
SELECT date_trunc('month', date AT TIME ZONE 'UTC')::timestamp AS period,
       COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'income'), 0)::numeric AS income,
       COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'expense'), 0)::numeric AS expense
FROM transactions
WHERE owner_id = $1
GROUP BY period
ORDER BY period DESC
LIMIT $2
`

type ListRecentMonthlyTotalsParams struct {
	OwnerID string `json:"owner_id"`
	Limit   int32  `json:"limit"`
}

type PeriodTotalsRow struct {
	Period  pgtype.Timestamp `json:"period"`
	Income  pgtype.Numeric   `json:"income"`
	Expense pgtype.Numeric   `json:"expense"`
}

func (q *Queries) ListRecentMonthlyTotals(ctx context.Context, arg ListRecentMonthlyTotalsParams) ([]PeriodTotalsRow, error) {
	rows, err := q.db.Query(ctx, listRecentMonthlyTotals, arg.OwnerID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPeriodTotals(rows)
}

const sumCategoryTotals = `-- name: SumCategoryTotals :many
SELECT c.id, c.name, c.color, SUM(t.amount)::numeric AS total
FROM transactions t
JOIN categories c ON c.id = t.category_id
WHERE t.owner_id = $1
  AND t.transaction_type = $2
  AND ($3::timestamptz IS NULL OR t.date >= $3)
  AND ($4::timestamptz IS NULL OR t.date < $4)
GROUP BY c.id, c.name, c.color
ORDER BY total DESC, c.name
LIMIT $5
`

type SumCategoryTotalsParams struct {
	OwnerID         string             `json:"owner_id"`
	TransactionType string             `json:"transaction_type"`
	From            pgtype.Timestamptz `json:"from"`
	To              pgtype.Timestamptz `json:"to"`
	Limit           pgtype.Int4        `json:"limit"`
}

type SumCategoryTotalsRow struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Color string         `json:"color"`
	Total pgtype.Numeric `json:"total"`
}

func (q *Queries) SumCategoryTotals(ctx context.Context, arg SumCategoryTotalsParams) ([]SumCategoryTotalsRow, error) {
	rows, err := q.db.Query(ctx, sumCategoryTotals,
		arg.OwnerID,
		arg.TransactionType,
		arg.From,
		arg.To,
		arg.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SumCategoryTotalsRow
	for rows.Next() {
		var i SumCategoryTotalsRow
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Color,
			&i.Total,
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

const sumPeriodTotals = `-- name: SumPeriodTotals :many
SELECT date_trunc($2::text, date AT TIME ZONE 'UTC')::timestamp AS period,
       COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'income'), 0)::numeric AS income,
       COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'expense'), 0)::numeric AS expense
FROM transactions
WHERE owner_id = $1
  AND date >= $3
  AND date < $4
GROUP BY period
ORDER BY period
`

type SumPeriodTotalsParams struct {
	OwnerID     string             `json:"owner_id"`
	Granularity string             `json:"granularity"`
	From        pgtype.Timestamptz `json:"from"`
	To          pgtype.Timestamptz `json:"to"`
}

func (q *Queries) SumPeriodTotals(ctx context.Context, arg SumPeriodTotalsParams) ([]PeriodTotalsRow, error) {
	rows, err := q.db.Query(ctx, sumPeriodTotals,
		arg.OwnerID,
		arg.Granularity,
		arg.From,
		arg.To,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPeriodTotals(rows)
}

const sumSignedBefore = `-- name: SumSignedBefore :one
SELECT COALESCE(SUM(CASE WHEN transaction_type = 'income' THEN amount ELSE -amount END), 0)::numeric AS total
FROM transactions
WHERE owner_id = $1 AND date < $2
`

type SumSignedBeforeParams struct {
	OwnerID string             `json:"owner_id"`
	Before  pgtype.Timestamptz `json:"before"`
}

func (q *Queries) SumSignedBefore(ctx context.Context, arg SumSignedBeforeParams) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumSignedBefore, arg.OwnerID, arg.Before)
	var total pgtype.Numeric
	err := row.Scan(&total)
	return total, err
}

type periodRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanPeriodTotals(rows periodRows) ([]PeriodTotalsRow, error) {
	var items []PeriodTotalsRow
	for rows.Next() {
		var i PeriodTotalsRow
		if err := rows.Scan(
			&i.Period,
			&i.Income,
			&i.Expense,
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
