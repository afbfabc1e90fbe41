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

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	ListTransactions(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Transaction, error)
	GetTransaction(ctx context.Context, ownerID, id string) (*domain.Transaction, error)
	CreateTransaction(ctx context.Context, input usecase.TransactionInput) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, input usecase.TransactionInput) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, ownerID, id string) error
}

// TransactionHandler handles transaction HTTP requests.
type TransactionHandler struct {
	transactionUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionUC TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionUC: transactionUC}
}

// List returns the owner's transactions, newest first.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 0)
	offset := parseIntQuery(r, "offset", 0)

	txns, err := h.transactionUC.ListTransactions(r.Context(), middleware.OwnerFromContext(r.Context()), limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txns))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	txn, err := h.transactionUC.GetTransaction(r.Context(), middleware.OwnerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Create records a transaction and moves its account balance.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	txn, err := h.transactionUC.CreateTransaction(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Update replaces a transaction and rebalances the affected accounts.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	txn, err := h.transactionUC.UpdateTransaction(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Delete removes a transaction and reverses its effect on the balance.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.transactionUC.DeleteTransaction(r.Context(), middleware.OwnerFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TransactionHandler) decodeInput(w http.ResponseWriter, r *http.Request) (usecase.TransactionInput, bool) {
	var req dto.TransactionRequest
	if !decodeJSON(w, r, &req) {
		return usecase.TransactionInput{}, false
	}

	input, err := req.ToUseCaseInput(middleware.OwnerFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return usecase.TransactionInput{}, false
	}

	return input, true
}
