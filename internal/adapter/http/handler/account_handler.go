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

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, ownerID, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, ownerID string) ([]*domain.Account, error)
	DeleteAccount(ctx context.Context, ownerID, id string) error
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create creates a new account with a zero balance.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput(middleware.OwnerFromContext(r.Context())))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountUC.GetAccount(r.Context(), middleware.OwnerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists the owner's accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUC.ListAccounts(r.Context(), middleware.OwnerFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// Delete removes an account no transaction references.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.accountUC.DeleteAccount(r.Context(), middleware.OwnerFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
