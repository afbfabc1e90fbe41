package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/iho/finledger/internal/domain"
)

// CategoryRepository implements usecase.CategoryRepository.
type CategoryRepository struct {
	s *Store
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(category.OwnerID, category.Name, "") {
		return domain.ErrDuplicateCategory
	}

	r.s.committed.categories[category.ID] = *category

	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.committed.categories[id]
	if !ok || c.OwnerID != ownerID {
		return nil, domain.ErrCategoryNotFound
	}

	return &c, nil
}

func (r *CategoryRepository) GetByName(ctx context.Context, ownerID, name string) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.committed.categories {
		if c.OwnerID == ownerID && strings.EqualFold(c.Name, name) {
			found := c
			return &found, nil
		}
	}

	return nil, domain.ErrCategoryNotFound
}

func (r *CategoryRepository) List(ctx context.Context, ownerID string) ([]*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*domain.Category, 0)
	for _, c := range r.s.committed.categories {
		if c.OwnerID == ownerID {
			found := c
			out = append(out, &found)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.committed.categories[category.ID]
	if !ok || existing.OwnerID != category.OwnerID {
		return domain.ErrCategoryNotFound
	}

	if r.nameTaken(category.OwnerID, category.Name, category.ID) {
		return domain.ErrDuplicateCategory
	}

	r.s.committed.categories[category.ID] = *category

	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, ownerID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st := r.s.committed
	c, ok := st.categories[id]
	if !ok || c.OwnerID != ownerID {
		return domain.ErrCategoryNotFound
	}

	for _, t := range st.transactions {
		if t.CategoryID == id {
			return domain.ErrCategoryInUse
		}
	}

	delete(st.categories, id)

	return nil
}

func (r *CategoryRepository) nameTaken(ownerID, name, exceptID string) bool {
	for _, c := range r.s.committed.categories {
		if c.ID != exceptID && c.OwnerID == ownerID && strings.EqualFold(c.Name, name) {
			return true
		}
	}

	return false
}
