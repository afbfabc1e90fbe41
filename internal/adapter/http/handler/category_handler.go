package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/finledger/internal/adapter/http/dto"
	"github.com/iho/finledger/internal/adapter/http/middleware"
	"github.com/iho/finledger/internal/domain"
	"github.com/iho/finledger/internal/usecase"
)

// CategoryService defines the behavior needed by CategoryHandler.
type CategoryService interface {
	ListCategories(ctx context.Context, ownerID string) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, input usecase.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, input usecase.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, ownerID, id string) error
}

// CategoryHandler handles category HTTP requests.
type CategoryHandler struct {
	categoryUC CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryUC CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryUC: categoryUC}
}

// List lists the owner's categories.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryUC.ListCategories(r.Context(), middleware.OwnerFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoriesFromDomain(categories))
}

// Create creates a category.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.categoryUC.CreateCategory(r.Context(), req.ToUseCaseInput(middleware.OwnerFromContext(r.Context())))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CategoryFromDomain(category))
}

// Update renames or recolors a category.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.CategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	category, err := h.categoryUC.UpdateCategory(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput(middleware.OwnerFromContext(r.Context())))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CategoryFromDomain(category))
}

// Delete removes an unreferenced category.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.categoryUC.DeleteCategory(r.Context(), middleware.OwnerFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
