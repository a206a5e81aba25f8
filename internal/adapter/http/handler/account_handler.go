package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, ownerID, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error)
	ArchiveAccount(ctx context.Context, ownerID, id string) (*domain.Account, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create creates a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	var req dto.CreateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput(scope.OwnerID))
	if err != nil {
		writeDomainError(w, r, "failed to create account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), scope.OwnerID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	accounts, err := h.accountUC.ListAccounts(r.Context(), usecase.ListAccountsInput{
		OwnerID: scope.OwnerID,
		Limit:   parseIntQuery(r, "limit", 20),
		Offset:  parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// Archive hides an account from new activity.
func (h *AccountHandler) Archive(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	account, err := h.accountUC.ArchiveAccount(r.Context(), scope.OwnerID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to archive account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}
