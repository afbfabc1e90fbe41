package handler

import (
	"context"
	"net/http"

	"github.com/iho/finledger/internal/adapter/http/dto"
	"github.com/iho/finledger/internal/adapter/http/middleware"
	"github.com/iho/finledger/internal/usecase"
)

// ReconciliationService defines the behavior needed by ReconciliationHandler.
type ReconciliationService interface {
	Reconcile(ctx context.Context, ownerID string) (*usecase.ReconciliationReport, error)
	Repair(ctx context.Context, ownerID string) (*usecase.ReconciliationReport, error)
}

// ReconciliationHandler exposes the balance check and repair routines.
type ReconciliationHandler struct {
	reconciliationUC ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationUC ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationUC: reconciliationUC}
}

// Check compares stored balances with the ledger without changing them.
func (h *ReconciliationHandler) Check(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.Reconcile(r.Context(), middleware.OwnerFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(report))
}

// Repair overwrites drifted balances with the ledger sums.
func (h *ReconciliationHandler) Repair(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.Repair(r.Context(), middleware.OwnerFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(report))
}
