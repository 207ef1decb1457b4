package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/trustbook/internal/adapter/http/dto"
	"github.com/iho/trustbook/internal/domain"
	"github.com/iho/trustbook/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id, callerID string) (*usecase.AccountView, error)
	UpdateAccount(ctx context.Context, input usecase.UpdateAccountInput) (*domain.Account, error)
	DeleteAccount(ctx context.Context, id, ownerID string) error
	ListAccounts(ctx context.Context, ownerID string) ([]*domain.Account, error)
	ListSharedAccounts(ctx context.Context, userID string) ([]*domain.Account, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create creates a new account owned by the caller.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req dto.CreateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput(caller))
	if err != nil {
		writeDomainError(w, r, "failed to create account", err)
		return
	}

	resp := dto.AccountFromDomain(account)
	resp.Role = domain.RoleOwner
	writeJSON(w, http.StatusCreated, resp)
}

// Get retrieves an account visible to the caller.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	view, err := h.accountUC.GetAccount(r.Context(), chi.URLParam(r, "id"), caller)
	if err != nil {
		writeDomainError(w, r, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountViewFromUseCase(view))
}

// Update patches an owned account.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.accountUC.UpdateAccount(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id"), caller))
	if err != nil {
		writeDomainError(w, r, "failed to update account", err)
		return
	}

	resp := dto.AccountFromDomain(account)
	resp.Role = domain.RoleOwner
	writeJSON(w, http.StatusOK, resp)
}

// Delete removes an owned account without entries.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.accountUC.DeleteAccount(r.Context(), chi.URLParam(r, "id"), caller); err != nil {
		writeDomainError(w, r, "failed to delete account", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List lists the caller's own accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	accounts, err := h.accountUC.ListAccounts(r.Context(), caller)
	if err != nil {
		writeDomainError(w, r, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts, domain.RoleOwner),
		Total:    int64(len(accounts)),
	})
}

// ListShared lists accounts other users linked to the caller.
func (h *AccountHandler) ListShared(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}

	accounts, err := h.accountUC.ListSharedAccounts(r.Context(), caller)
	if err != nil {
		writeDomainError(w, r, "failed to list shared accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts, domain.RoleParty),
		Total:    int64(len(accounts)),
	})
}
