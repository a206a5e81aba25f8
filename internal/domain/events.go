package domain

import "time"

// Event types
const (
	EventTypeTransactionCreated  = "transaction.created"
	EventTypeTransactionUpdated  = "transaction.updated"
	EventTypeTransactionDeleted  = "transaction.deleted"
	EventTypeTransactionRestored = "transaction.restored"
	EventTypeTransferCreated     = "transfer.created"
	EventTypeInvoicePayment      = "invoice.payment_recorded"
	EventTypeInvoiceStatus       = "invoice.status_changed"
	EventTypeAccountCreated      = "account.created"
	EventTypeLedgerRecalculated  = "ledger.recalculated"
)

// Aggregate types
const (
	AggregateTypeTransaction = "transaction"
	AggregateTypeTransfer    = "transfer"
	AggregateTypeInvoice     = "invoice"
	AggregateTypeAccount     = "account"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Payload       map[string]any
	ID            string
	OwnerID       string
	AggregateID   string
	AggregateType string
	EventType     string
	Published     bool
}

// TransactionEvent payload
type TransactionEvent struct {
	TransactionID string `json:"transaction_id"`
	AccountID     string `json:"account_id"`
	PartyID       string `json:"party_id,omitempty"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	Date          string `json:"date"`
	State         string `json:"state"`
}

// TransferCreatedEvent payload
type TransferCreatedEvent struct {
	TransferID    string `json:"transfer_id"`
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        string `json:"amount"`
	Date          string `json:"date"`
}

// InvoicePaymentEvent payload
type InvoicePaymentEvent struct {
	InvoiceID     string `json:"invoice_id"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	AmountPaid    string `json:"amount_paid"`
	BalanceDue    string `json:"balance_due"`
	Status        string `json:"status"`
}

// LedgerRecalculatedEvent payload
type LedgerRecalculatedEvent struct {
	AccountsProcessed   int `json:"accounts_processed"`
	PartiesProcessed    int `json:"parties_processed"`
	TransactionsUpdated int `json:"transactions_updated"`
	Skipped             int `json:"skipped"`
}

// NewTransactionEvent builds the payload for a transaction lifecycle event.
func NewTransactionEvent(tx *Transaction) TransactionEvent {
	return TransactionEvent{
		TransactionID: tx.ID,
		AccountID:     tx.AccountID,
		PartyID:       Deref(tx.PartyID),
		Type:          string(tx.Type),
		Amount:        tx.Amount.String(),
		Date:          tx.Date.Format(time.RFC3339),
		State:         string(tx.State),
	}
}
