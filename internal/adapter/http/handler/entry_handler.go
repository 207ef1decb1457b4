package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/trustbook/internal/adapter/http/dto"
	"github.com/iho/trustbook/internal/domain"
	"github.com/iho/trustbook/internal/usecase"
)

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	AddEntry(ctx context.Context, input usecase.AddEntryInput) (*domain.Entry, error)
	DeleteEntry(ctx context.Context, entryID, ownerID string) (*usecase.DeleteEntryResult, error)
	ListEntries(ctx context.Context, input usecase.ListEntriesInput) (*usecase.EntryPage, error)
	ListOwnerEntries(ctx context.Context, ownerID string, pageNum, pageSize int) (*usecase.EntryPage, error)
}

// EntryHandler handles entry-related HTTP requests.
type EntryHandler struct {
	ledgerUC EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(ledgerUC EntryService) *EntryHandler {
	return &EntryHandler{ledgerUC: ledgerUC}
}

// Create posts an entry to one of the caller's accounts.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req dto.CreateEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput(caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry", err.Error())
		return
	}

	entry, err := h.ledgerUC.AddEntry(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to add entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Delete removes an entry and returns the refreshed account summary.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	result, err := h.ledgerUC.DeleteEntry(r.Context(), chi.URLParam(r, "id"), caller)
	if err != nil {
		writeDomainError(w, r, "failed to delete entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DeleteEntryFromUseCase(result))
}

// ListByAccount lists an account's entries, newest first.
func (h *EntryHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	page, err := h.ledgerUC.ListEntries(r.Context(), usecase.ListEntriesInput{
		AccountID: chi.URLParam(r, "id"),
		CallerID:  caller,
		Page:      parseIntQuery(r, "page", 1),
		PageSize:  parseIntQuery(r, "page_size", domain.DefaultPageSize),
	})
	if err != nil {
		writeDomainError(w, r, "failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryPageFromUseCase(page))
}

// ListRecent lists entries across all of the caller's accounts.
func (h *EntryHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	page, err := h.ledgerUC.ListOwnerEntries(r.Context(), caller,
		parseIntQuery(r, "page", 1),
		parseIntQuery(r, "page_size", domain.DefaultPageSize),
	)
	if err != nil {
		writeDomainError(w, r, "failed to list entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryPageFromUseCase(page))
}
