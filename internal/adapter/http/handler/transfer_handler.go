package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	CreateTransfer(ctx context.Context, input usecase.CreateTransferInput) (*domain.Transfer, error)
	GetTransfer(ctx context.Context, ownerID, id string) (*domain.Transfer, error)
	ListTransfersByAccount(ctx context.Context, input usecase.ListTransfersByAccountInput) ([]*domain.Transfer, error)
}

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	transferUC TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService) *TransferHandler {
	return &TransferHandler{transferUC: transferUC}
}

// Create creates a new transfer.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	var req dto.CreateTransferRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	transfer, err := h.transferUC.CreateTransfer(r.Context(), req.ToUseCaseInput(scope.OwnerID))
	if err != nil {
		writeDomainError(w, r, "failed to create transfer", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromDomain(transfer))
}

// Get retrieves a transfer by ID.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	transfer, err := h.transferUC.GetTransfer(r.Context(), scope.OwnerID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get transfer", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferFromDomain(transfer))
}

// ListByAccount lists transfers for an account.
func (h *TransferHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	transfers, err := h.transferUC.ListTransfersByAccount(r.Context(), usecase.ListTransfersByAccountInput{
		OwnerID:   scope.OwnerID,
		AccountID: chi.URLParam(r, "id"),
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, "failed to list transfers", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransfersFromDomain(transfers))
}
