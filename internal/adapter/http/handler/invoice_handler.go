package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// InvoiceService defines the behavior needed by InvoiceHandler.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, input usecase.CreateInvoiceInput) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, ownerID, id string) (*domain.Invoice, error)
	IssueInvoice(ctx context.Context, ownerID, id string) (*domain.Invoice, error)
	CancelInvoice(ctx context.Context, ownerID, id string) (*domain.Invoice, error)
	RecordPayment(ctx context.Context, input usecase.RecordPaymentInput) (*domain.Invoice, error)
	RefreshOverdue(ctx context.Context, ownerID string, now time.Time) (int, error)
}

// InvoiceHandler handles invoice and payment requests.
type InvoiceHandler struct {
	invoiceUC InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceUC InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceUC: invoiceUC}
}

// Create creates an invoice.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	var req dto.CreateInvoiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	invoice, err := h.invoiceUC.CreateInvoice(r.Context(), req.ToUseCaseInput(scope.OwnerID))
	if err != nil {
		writeDomainError(w, r, "failed to create invoice", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.InvoiceFromDomain(invoice))
}

// Get retrieves an invoice by ID.
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "failed to get invoice", h.invoiceUC.GetInvoice)
}

// Issue moves a draft invoice to pending.
func (h *InvoiceHandler) Issue(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "failed to issue invoice", h.invoiceUC.IssueInvoice)
}

// Cancel cancels an invoice without payments.
func (h *InvoiceHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "failed to cancel invoice", h.invoiceUC.CancelInvoice)
}

func (h *InvoiceHandler) respond(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	fn func(ctx context.Context, ownerID, id string) (*domain.Invoice, error),
) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	invoice, err := fn(r.Context(), scope.OwnerID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, message, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.InvoiceFromDomain(invoice))
}

// RecordPayment applies a payment to the invoice.
func (h *InvoiceHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input := req.ToUseCaseInput(scope.OwnerID, chi.URLParam(r, "id"), r.Header.Get(IdempotencyKeyHeader))
	invoice, err := h.invoiceUC.RecordPayment(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to record payment", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.InvoiceFromDomain(invoice))
}

// RefreshOverdue marks every pending invoice of the owner that is past its
// due date as overdue.
func (h *InvoiceHandler) RefreshOverdue(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeOf(w, r)
	if !ok {
		return
	}

	changed, err := h.invoiceUC.RefreshOverdue(r.Context(), scope.OwnerID, time.Now().UTC())
	if err != nil {
		writeDomainError(w, r, "failed to refresh overdue invoices", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OverdueRefreshResponse{Updated: changed})
}
