package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, ownerID, id string) (*domain.Transaction, error)
	ListAccountTransactions(ctx context.Context, input usecase.ListAccountTransactionsInput) ([]*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, input usecase.UpdateTransactionInput) (*domain.Transaction, error)
	SoftDeleteTransaction(ctx context.Context, ownerID, id string) error
	RestoreTransaction(ctx context.Context, ownerID, id string) error
}

// TransactionHandler handles cash-book transaction requests.
type TransactionHandler struct {
	txUC TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txUC TransactionService) *TransactionHandler {
	return &TransactionHandler{txUC: txUC}
}

// Create records a transaction. The Idempotency-Key header doubles as the
// client request id.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input := req.ToUseCaseInput(scope.OwnerID, r.Header.Get(IdempotencyKeyHeader))
	tx, err := h.txUC.CreateTransaction(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to create transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(tx))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	tx, err := h.txUC.GetTransaction(r.Context(), scope.OwnerID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(tx))
}

// ListByAccount lists an account's transactions in ledger order.
func (h *TransactionHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	txs, err := h.txUC.ListAccountTransactions(r.Context(), usecase.ListAccountTransactionsInput{
		OwnerID:        scope.OwnerID,
		AccountID:      chi.URLParam(r, "id"),
		IncludeDeleted: parseBoolQuery(r, "include_deleted"),
		Limit:          parseIntQuery(r, "limit", 50),
		Offset:         parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txs))
}

// Update applies a partial edit.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tx, err := h.txUC.UpdateTransaction(r.Context(), req.ToUseCaseInput(scope.OwnerID, chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, r, "failed to update transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(tx))
}

// Delete soft-deletes a transaction.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	if err := h.txUC.SoftDeleteTransaction(r.Context(), scope.OwnerID, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, "failed to delete transaction", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Restore brings a soft-deleted transaction back and returns it.
func (h *TransactionHandler) Restore(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.txUC.RestoreTransaction(r.Context(), scope.OwnerID, id); err != nil {
		writeDomainError(w, r, "failed to restore transaction", err)
		return
	}

	tx, err := h.txUC.GetTransaction(r.Context(), scope.OwnerID, id)
	if err != nil {
		writeDomainError(w, r, "failed to get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(tx))
}
