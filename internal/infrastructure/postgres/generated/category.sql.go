package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createCategory = `-- name: CreateCategory :exec
INSERT INTO categories (id, owner_id, name, color, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreateCategoryParams struct {
	ID        string             `json:"id"`
	OwnerID   string             `json:"owner_id"`
	Name      string             `json:"name"`
	Color     string             `json:"color"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) error {
	_, err := q.db.Exec(ctx, createCategory,
		arg.ID,
		arg.OwnerID,
		arg.Name,
		arg.Color,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const deleteCategory = `-- name: DeleteCategory :execrows
DELETE FROM categories WHERE id = $1 AND owner_id = $2
`

type DeleteCategoryParams struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

func (q *Queries) DeleteCategory(ctx context.Context, arg DeleteCategoryParams) (int64, error) {
	result, err := q.db.Exec(ctx, deleteCategory, arg.ID, arg.OwnerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getCategoryByID = `-- name: GetCategoryByID :one
SELECT id, owner_id, name, color, created_at, updated_at FROM categories
WHERE id = $1 AND owner_id = $2
`

type GetCategoryByIDParams struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

func (q *Queries) GetCategoryByID(ctx context.Context, arg GetCategoryByIDParams) (Category, error) {
	row := q.db.QueryRow(ctx, getCategoryByID, arg.ID, arg.OwnerID)
	var i Category
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Name,
		&i.Color,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getCategoryByName = `-- name: GetCategoryByName :one
SELECT id, owner_id, name, color, created_at, updated_at FROM categories
WHERE owner_id = $1 AND LOWER(name) = LOWER($2)
`

type GetCategoryByNameParams struct {
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
}

func (q *Queries) GetCategoryByName(ctx context.Context, arg GetCategoryByNameParams) (Category, error) {
	row := q.db.QueryRow(ctx, getCategoryByName, arg.OwnerID, arg.Name)
	var i Category
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Name,
		&i.Color,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listCategoriesByOwner = `-- name: ListCategoriesByOwner :many
SELECT id, owner_id, name, color, created_at, updated_at FROM categories
WHERE owner_id = $1
ORDER BY name, id
`

func (q *Queries) ListCategoriesByOwner(ctx context.Context, ownerID string) ([]Category, error) {
	rows, err := q.db.Query(ctx, listCategoriesByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var i Category
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.Name,
			&i.Color,
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

const updateCategory = `-- name: UpdateCategory :execrows
UPDATE categories SET name = $3, color = $4, updated_at = $5
WHERE id = $1 AND owner_id = $2
`

type UpdateCategoryParams struct {
	ID        string             `json:"id"`
	OwnerID   string             `json:"owner_id"`
	Name      string             `json:"name"`
	Color     string             `json:"color"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateCategory,
		arg.ID,
		arg.OwnerID,
		arg.Name,
		arg.Color,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
