package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iho/finledger/internal/domain"
)

// CategoryUseCase handles category business logic.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
	idGen        IDGenerator
	cache        Cache
}

// NewCategoryUseCase creates a new CategoryUseCase.
func NewCategoryUseCase(categoryRepo CategoryRepository, idGen IDGenerator) *CategoryUseCase {
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
		idGen:        idGen,
	}
}

// WithCache sets the dashboard cache invalidated when a category changes.
func (uc *CategoryUseCase) WithCache(cache Cache) *CategoryUseCase {
	uc.cache = cache
	return uc
}

// CategoryInput represents input for creating or updating a category.
type CategoryInput struct {
	OwnerID string
	Name    string
	Color   string
}

func (in CategoryInput) validate() (string, error) {
	name := strings.TrimSpace(in.Name)
	if err := domain.ValidateCategoryName(name); err != nil {
		return "", err
	}

	if err := domain.ValidateColor(in.Color); err != nil {
		return "", err
	}

	return name, nil
}

// ListCategories lists the owner's categories ordered by name.
func (uc *CategoryUseCase) ListCategories(ctx context.Context, ownerID string) ([]*domain.Category, error) {
	return uc.categoryRepo.List(ctx, ownerID)
}

// GetCategory retrieves a category by ID.
func (uc *CategoryUseCase) GetCategory(ctx context.Context, ownerID, id string) (*domain.Category, error) {
	return uc.categoryRepo.GetByID(ctx, ownerID, id)
}

// CreateCategory creates a category. Names are unique per owner.
func (uc *CategoryUseCase) CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	name, err := input.validate()
	if err != nil {
		return nil, err
	}

	category := domain.NewCategory(uc.idGen.Generate(), input.OwnerID, name, input.Color, time.Now().UTC())
	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// UpdateCategory renames or recolors a category.
func (uc *CategoryUseCase) UpdateCategory(ctx context.Context, id string, input CategoryInput) (*domain.Category, error) {
	name, err := input.validate()
	if err != nil {
		return nil, err
	}

	category, err := uc.categoryRepo.GetByID(ctx, input.OwnerID, id)
	if err != nil {
		return nil, err
	}

	category.Name = name
	if input.Color != "" {
		category.Color = input.Color
	}
	category.UpdatedAt = time.Now().UTC()

	if err := uc.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	invalidateDashboard(ctx, uc.cache, input.OwnerID)

	return category, nil
}

// DeleteCategory removes a category that no transaction references.
func (uc *CategoryUseCase) DeleteCategory(ctx context.Context, ownerID, id string) error {
	return uc.categoryRepo.Delete(ctx, ownerID, id)
}

// SeedDefaults creates the default categories the owner does not have yet
// and returns how many were added. Running it again is a no-op.
func (uc *CategoryUseCase) SeedDefaults(ctx context.Context, ownerID string) (int, error) {
	created := 0
	now := time.Now().UTC()

	for _, name := range domain.DefaultCategoryNames {
		_, err := uc.categoryRepo.GetByName(ctx, ownerID, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrCategoryNotFound) {
			return created, err
		}

		category := domain.NewCategory(uc.idGen.Generate(), ownerID, name, domain.DefaultCategoryColor, now)
		if err := uc.categoryRepo.Create(ctx, category); err != nil {
			if errors.Is(err, domain.ErrDuplicateCategory) {
				continue
			}
			return created, err
		}
		created++
	}

	return created, nil
}
