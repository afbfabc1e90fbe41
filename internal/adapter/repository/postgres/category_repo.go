package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/infrastructure/postgres/generated"
)

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	queries *generated.Queries
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db generated.DBTX) *CategoryRepository {
	return &CategoryRepository{queries: generated.New(db)}
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	err := r.queries.CreateCategory(ctx, generated.CreateCategoryParams{
		ID:        category.ID,
		OwnerID:   category.OwnerID,
		Name:      category.Name,
		Color:     category.Color,
		CreatedAt: timeToPgTimestamptz(category.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(category.UpdatedAt),
	})
	if isUniqueViolation(err) {
		return domain.ErrDuplicateCategory
	}

	return err
}

func (r *CategoryRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Category, error) {
	row, err := r.queries.GetCategoryByID(ctx, generated.GetCategoryByIDParams{ID: id, OwnerID: ownerID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}

		return nil, err
	}

	return rowToCategory(row), nil
}

// GetByName matches the name case-insensitively.
func (r *CategoryRepository) GetByName(ctx context.Context, ownerID, name string) (*domain.Category, error) {
	row, err := r.queries.GetCategoryByName(ctx, generated.GetCategoryByNameParams{OwnerID: ownerID, Name: name})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}

		return nil, err
	}

	return rowToCategory(row), nil
}

func (r *CategoryRepository) List(ctx context.Context, ownerID string) ([]*domain.Category, error) {
	rows, err := r.queries.ListCategoriesByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	categories := make([]*domain.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, rowToCategory(row))
	}

	return categories, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	n, err := r.queries.UpdateCategory(ctx, generated.UpdateCategoryParams{
		ID:        category.ID,
		OwnerID:   category.OwnerID,
		Name:      category.Name,
		Color:     category.Color,
		UpdatedAt: timeToPgTimestamptz(category.UpdatedAt),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCategory
		}

		return err
	}

	if n == 0 {
		return domain.ErrCategoryNotFound
	}

	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, ownerID, id string) error {
	n, err := r.queries.DeleteCategory(ctx, generated.DeleteCategoryParams{ID: id, OwnerID: ownerID})
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryInUse
		}

		return err
	}

	if n == 0 {
		return domain.ErrCategoryNotFound
	}

	return nil
}

func rowToCategory(row generated.Category) *domain.Category {
	return &domain.Category{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Name:      row.Name,
		Color:     row.Color,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
