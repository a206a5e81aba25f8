package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name           string          `json:"name"`
	Currency       string          `json:"currency"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(ownerID string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		OwnerID:        ownerID,
		Name:           r.Name,
		Currency:       r.Currency,
		OpeningBalance: r.OpeningBalance,
	}
}

// CreatePartyRequest represents a request to create a customer or supplier.
type CreatePartyRequest struct {
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePartyRequest) ToUseCaseInput(ownerID string) usecase.CreatePartyInput {
	return usecase.CreatePartyInput{
		OwnerID:        ownerID,
		Name:           r.Name,
		Kind:           domain.PartyKind(r.Kind),
		OpeningBalance: r.OpeningBalance,
	}
}

// CreateTransactionRequest represents a request to record a transaction.
type CreateTransactionRequest struct {
	Date            time.Time       `json:"date"`
	PartyID         *string         `json:"party_id,omitempty"`
	CategoryID      *string         `json:"category_id,omitempty"`
	ClientRequestID *string         `json:"client_request_id,omitempty"`
	AccountID       string          `json:"account_id"`
	Type            string          `json:"type"`
	Description     string          `json:"description"`
	Notes           string          `json:"notes"`
	PaymentMethod   string          `json:"payment_method"`
	Amount          decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input. idempotencyKey is used as the
// client request id when the body does not carry one.
func (r *CreateTransactionRequest) ToUseCaseInput(ownerID, idempotencyKey string) usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		OwnerID:         ownerID,
		AccountID:       r.AccountID,
		PartyID:         r.PartyID,
		CategoryID:      r.CategoryID,
		ClientRequestID: requestID(r.ClientRequestID, idempotencyKey),
		Type:            domain.TransactionType(r.Type),
		Amount:          r.Amount,
		Date:            r.Date,
		Description:     r.Description,
		Notes:           r.Notes,
		PaymentMethod:   r.PaymentMethod,
	}
}

// UpdateTransactionRequest is a partial edit; absent fields are unchanged.
type UpdateTransactionRequest struct {
	Date          *time.Time       `json:"date,omitempty"`
	AccountID     *string          `json:"account_id,omitempty"`
	PartyID       *string          `json:"party_id,omitempty"`
	CategoryID    *string          `json:"category_id,omitempty"`
	Type          *string          `json:"type,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
	PaymentMethod *string          `json:"payment_method,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	ClearParty    bool             `json:"clear_party"`
	ClearCategory bool             `json:"clear_category"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTransactionRequest) ToUseCaseInput(ownerID, id string) usecase.UpdateTransactionInput {
	input := usecase.UpdateTransactionInput{
		OwnerID:       ownerID,
		ID:            id,
		Date:          r.Date,
		AccountID:     r.AccountID,
		PartyID:       r.PartyID,
		CategoryID:    r.CategoryID,
		Description:   r.Description,
		Notes:         r.Notes,
		PaymentMethod: r.PaymentMethod,
		Amount:        r.Amount,
		ClearParty:    r.ClearParty,
		ClearCategory: r.ClearCategory,
	}
	if r.Type != nil {
		t := domain.TransactionType(*r.Type)
		input.Type = &t
	}
	return input
}

// CreateTransferRequest represents a request to create a transfer.
type CreateTransferRequest struct {
	Date          time.Time       `json:"date"`
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransferRequest) ToUseCaseInput(ownerID string) usecase.CreateTransferInput {
	return usecase.CreateTransferInput{
		OwnerID:       ownerID,
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        r.Amount,
		Date:          r.Date,
		Description:   r.Description,
	}
}

// CreateInvoiceRequest represents a request to create an invoice.
type CreateInvoiceRequest struct {
	IssueDate  time.Time       `json:"issue_date"`
	DueDate    *time.Time      `json:"due_date,omitempty"`
	PartyID    *string         `json:"party_id,omitempty"`
	Number     string          `json:"number"`
	Kind       string          `json:"kind"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	Issue      bool            `json:"issue"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateInvoiceRequest) ToUseCaseInput(ownerID string) usecase.CreateInvoiceInput {
	return usecase.CreateInvoiceInput{
		OwnerID:    ownerID,
		PartyID:    r.PartyID,
		Number:     r.Number,
		Kind:       domain.InvoiceKind(r.Kind),
		GrandTotal: r.GrandTotal,
		IssueDate:  r.IssueDate,
		DueDate:    r.DueDate,
		Issue:      r.Issue,
	}
}

// RecordPaymentRequest represents a payment against an invoice.
type RecordPaymentRequest struct {
	Date            time.Time       `json:"date"`
	ClientRequestID *string         `json:"client_request_id,omitempty"`
	AccountID       string          `json:"account_id"`
	PaymentMethod   string          `json:"payment_method"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordPaymentRequest) ToUseCaseInput(ownerID, invoiceID, idempotencyKey string) usecase.RecordPaymentInput {
	return usecase.RecordPaymentInput{
		OwnerID:         ownerID,
		InvoiceID:       invoiceID,
		AccountID:       r.AccountID,
		Amount:          r.Amount,
		Date:            r.Date,
		PaymentMethod:   r.PaymentMethod,
		Description:     r.Description,
		ClientRequestID: requestID(r.ClientRequestID, idempotencyKey),
	}
}

func requestID(body *string, header string) *string {
	if body != nil && *body != "" {
		return body
	}
	if header != "" {
		return &header
	}
	return nil
}
