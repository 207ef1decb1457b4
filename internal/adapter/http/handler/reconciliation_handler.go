package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/trustbook/internal/adapter/http/dto"
	"github.com/iho/trustbook/internal/usecase"
)

// ReconciliationService defines the behavior needed by ReconciliationHandler.
type ReconciliationService interface {
	ReconcileAccount(ctx context.Context, accountID, callerID string) (*usecase.ReconciliationResult, error)
	RebuildAccount(ctx context.Context, accountID, ownerID string) (*usecase.ReconciliationResult, error)
}

// ReconciliationHandler exposes the account consistency check and rebuild.
type ReconciliationHandler struct {
	reconUC ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconUC ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconUC: reconUC}
}

// Verify compares cached values with a rescan without changing anything.
func (h *ReconciliationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	result, err := h.reconUC.ReconcileAccount(r.Context(), chi.URLParam(r, "id"), caller)
	if err != nil {
		writeDomainError(w, r, "failed to verify account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(result))
}

// Rebuild recomputes every running balance and the cached summary.
func (h *ReconciliationHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	result, err := h.reconUC.RebuildAccount(r.Context(), chi.URLParam(r, "id"), caller)
	if err != nil {
		writeDomainError(w, r, "failed to rebuild account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(result))
}
