package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Currency       string          `json:"currency"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Archived       bool            `json:"archived"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:             a.ID,
		Name:           a.Name,
		Currency:       a.Currency,
		OpeningBalance: a.OpeningBalance,
		CurrentBalance: a.CurrentBalance,
		Archived:       a.Archived,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	return mapAll(accounts, AccountFromDomain)
}

// ListAccountsResponse represents a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// PartyResponse represents a customer or supplier in API responses.
type PartyResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Archived       bool            `json:"archived"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PartyFromDomain converts domain party to response.
func PartyFromDomain(p *domain.Party) *PartyResponse {
	return &PartyResponse{
		ID:             p.ID,
		Name:           p.Name,
		Kind:           string(p.Kind),
		OpeningBalance: p.OpeningBalance,
		CurrentBalance: p.CurrentBalance,
		Archived:       p.Archived,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// PartiesFromDomain converts domain parties to responses.
func PartiesFromDomain(parties []*domain.Party) []*PartyResponse {
	return mapAll(parties, PartyFromDomain)
}

// TransactionResponse represents a transaction with its balance snapshots.
type TransactionResponse struct {
	ID                      string           `json:"id"`
	AccountID               string           `json:"account_id"`
	PartyID                 *string          `json:"party_id,omitempty"`
	CategoryID              *string          `json:"category_id,omitempty"`
	InvoiceID               *string          `json:"invoice_id,omitempty"`
	TransferID              *string          `json:"transfer_id,omitempty"`
	TransferDirection       string           `json:"transfer_direction,omitempty"`
	ClientRequestID         *string          `json:"client_request_id,omitempty"`
	Type                    string           `json:"type"`
	State                   string           `json:"state"`
	Amount                  decimal.Decimal  `json:"amount"`
	Date                    time.Time        `json:"date"`
	Sequence                int64            `json:"sequence"`
	Description             string           `json:"description"`
	Notes                   string           `json:"notes,omitempty"`
	PaymentMethod           string           `json:"payment_method,omitempty"`
	BalanceAfterTransaction decimal.Decimal  `json:"balance_after_transaction"`
	PartyBalanceAfter       *decimal.Decimal `json:"party_balance_after,omitempty"`
	CreatedAt               time.Time        `json:"created_at"`
	UpdatedAt               time.Time        `json:"updated_at"`
	DeletedAt               *time.Time       `json:"deleted_at,omitempty"`
	RestoredAt              *time.Time       `json:"restored_at,omitempty"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:                      t.ID,
		AccountID:               t.AccountID,
		PartyID:                 t.PartyID,
		CategoryID:              t.CategoryID,
		InvoiceID:               t.InvoiceID,
		TransferID:              t.TransferID,
		TransferDirection:       string(t.TransferDirection),
		ClientRequestID:         t.ClientRequestID,
		Type:                    string(t.Type),
		State:                   string(t.State),
		Amount:                  t.Amount,
		Date:                    t.Date,
		Sequence:                t.Sequence,
		Description:             t.Description,
		Notes:                   t.Notes,
		PaymentMethod:           t.PaymentMethod,
		BalanceAfterTransaction: t.BalanceAfterTransaction,
		PartyBalanceAfter:       t.PartyBalanceAfter,
		CreatedAt:               t.CreatedAt,
		UpdatedAt:               t.UpdatedAt,
		DeletedAt:               t.DeletedAt,
		RestoredAt:              t.RestoredAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txs []*domain.Transaction) []*TransactionResponse {
	return mapAll(txs, TransactionFromDomain)
}

// TransferResponse represents a transfer in API responses.
type TransferResponse struct {
	ID                    string          `json:"id"`
	FromAccountID         string          `json:"from_account_id"`
	ToAccountID           string          `json:"to_account_id"`
	OutgoingTransactionID string          `json:"outgoing_transaction_id"`
	IncomingTransactionID string          `json:"incoming_transaction_id"`
	Amount                decimal.Decimal `json:"amount"`
	Description           string          `json:"description,omitempty"`
	Date                  time.Time       `json:"date"`
	CreatedAt             time.Time       `json:"created_at"`
}

// TransferFromDomain converts domain transfer to response.
func TransferFromDomain(t *domain.Transfer) *TransferResponse {
	return &TransferResponse{
		ID:                    t.ID,
		FromAccountID:         t.FromAccountID,
		ToAccountID:           t.ToAccountID,
		OutgoingTransactionID: t.OutgoingTransactionID,
		IncomingTransactionID: t.IncomingTransactionID,
		Amount:                t.Amount,
		Description:           t.Description,
		Date:                  t.Date,
		CreatedAt:             t.CreatedAt,
	}
}

// TransfersFromDomain converts domain transfers to responses.
func TransfersFromDomain(transfers []*domain.Transfer) []*TransferResponse {
	return mapAll(transfers, TransferFromDomain)
}

// InvoiceResponse represents an invoice with its payment state.
type InvoiceResponse struct {
	ID         string          `json:"id"`
	PartyID    *string         `json:"party_id,omitempty"`
	Number     string          `json:"number"`
	Kind       string          `json:"kind"`
	Status     string          `json:"status"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	BalanceDue decimal.Decimal `json:"balance_due"`
	IssueDate  time.Time       `json:"issue_date"`
	DueDate    *time.Time      `json:"due_date,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// InvoiceFromDomain converts domain invoice to response.
func InvoiceFromDomain(i *domain.Invoice) *InvoiceResponse {
	return &InvoiceResponse{
		ID:         i.ID,
		PartyID:    i.PartyID,
		Number:     i.Number,
		Kind:       string(i.Kind),
		Status:     string(i.Status),
		GrandTotal: i.GrandTotal,
		AmountPaid: i.AmountPaid,
		BalanceDue: i.BalanceDue,
		IssueDate:  i.IssueDate,
		DueDate:    i.DueDate,
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}

// ReconciliationResponse reports stored against replayed balances.
type ReconciliationResponse struct {
	AccountID         string          `json:"account_id"`
	RecordedBalance   decimal.Decimal `json:"recorded_balance"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	Difference        decimal.Decimal `json:"difference"`
	StaleSnapshots    int             `json:"stale_snapshots"`
	IsReconciled      bool            `json:"is_reconciled"`
	LastChecked       time.Time       `json:"last_checked"`
}

// ReconciliationsFromUseCase converts reconciliation results to responses.
func ReconciliationsFromUseCase(results []*usecase.ReconciliationResult) []*ReconciliationResponse {
	return mapAll(results, func(r *usecase.ReconciliationResult) *ReconciliationResponse {
		return &ReconciliationResponse{
			AccountID:         r.AccountID,
			RecordedBalance:   r.RecordedBalance,
			CalculatedBalance: r.CalculatedBalance,
			Difference:        r.Difference,
			StaleSnapshots:    r.StaleSnapshots,
			IsReconciled:      r.IsReconciled,
			LastChecked:       r.LastChecked,
		}
	})
}

// OverdueRefreshResponse reports how many invoices became overdue.
type OverdueRefreshResponse struct {
	Updated int `json:"updated"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapAll[T, R any](items []T, fn func(T) R) []R {
	result := make([]R, len(items))
	for i, item := range items {
		result[i] = fn(item)
	}
	return result
}
