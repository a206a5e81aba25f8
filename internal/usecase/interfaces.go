package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
)

// ErrClientRequestIDTaken is returned by TransactionRepository.Create when an
// active row of the same owner already holds the client request id.
var ErrClientRequestIDTaken = errors.New("client request id taken")

// AccountRepository defines data access for accounts. Balance writes go
// through AccountBalanceWriter, which only the ledger engine holds.
type AccountRepository interface {
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, ownerID, id string) (*domain.Account, error)
	List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error)
	ListIDs(ctx context.Context, ownerID string) ([]string, error)
	UpdateArchived(ctx context.Context, tx Transaction, ownerID, id string, archived bool, updatedAt time.Time) error
}

// AccountBalanceWriter persists the derived current balance of an account.
type AccountBalanceWriter interface {
	UpdateCurrentBalance(ctx context.Context, tx Transaction, ownerID, id string, balance decimal.Decimal, updatedAt time.Time) error
}

// PartyRepository defines data access for parties.
type PartyRepository interface {
	Create(ctx context.Context, tx Transaction, party *domain.Party) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Party, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, ownerID, id string) (*domain.Party, error)
	List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Party, error)
	ListIDs(ctx context.Context, ownerID string) ([]string, error)
}

// PartyBalanceWriter persists the derived current balance of a party.
type PartyBalanceWriter interface {
	UpdateCurrentBalance(ctx context.Context, tx Transaction, ownerID, id string, balance decimal.Decimal, updatedAt time.Time) error
}

// TransactionRepository defines data access for ledger transactions.
// List methods return rows in ledger order (date, sequence, id).
type TransactionRepository interface {
	// Create inserts the row and assigns its creation Sequence.
	Create(ctx context.Context, tx Transaction, t *domain.Transaction) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, ownerID, id string) (*domain.Transaction, error)
	// GetActiveByClientRequestID returns nil, nil when no active row holds the key.
	GetActiveByClientRequestID(ctx context.Context, tx Transaction, ownerID, clientRequestID string) (*domain.Transaction, error)
	// Update writes caller-owned fields and the soft-delete state. Balance
	// snapshots are left untouched.
	Update(ctx context.Context, tx Transaction, t *domain.Transaction) error

	ListActiveByAccount(ctx context.Context, tx Transaction, ownerID, accountID string, from *time.Time) ([]*domain.Transaction, error)
	// LastActiveBefore* return the last active row dated strictly before
	// the given time, or nil, nil when there is none.
	LastActiveBeforeOnAccount(ctx context.Context, tx Transaction, ownerID, accountID string, before time.Time) (*domain.Transaction, error)
	ListActiveByParty(ctx context.Context, tx Transaction, ownerID, partyID string, from *time.Time) ([]*domain.Transaction, error)
	LastActiveBeforeOnParty(ctx context.Context, tx Transaction, ownerID, partyID string, before time.Time) (*domain.Transaction, error)
	SumActiveByInvoice(ctx context.Context, tx Transaction, ownerID, invoiceID string) (decimal.Decimal, error)

	// DistinctAccountIDs and DistinctPartyIDs return every id referenced by an
	// active transaction of the owner, whether or not the entity still exists.
	DistinctAccountIDs(ctx context.Context, ownerID string) ([]string, error)
	DistinctPartyIDs(ctx context.Context, ownerID string) ([]string, error)

	ListByAccount(ctx context.Context, ownerID, accountID string, includeDeleted bool, limit, offset int) ([]*domain.Transaction, error)
}

// TransactionBalanceWriter persists derived balance snapshots in bulk.
type TransactionBalanceWriter interface {
	UpdateBalances(ctx context.Context, tx Transaction, ownerID string, changes []domain.BalanceChange) error
	UpdatePartyBalances(ctx context.Context, tx Transaction, ownerID string, changes []domain.BalanceChange) error
}

// TransferRepository defines data access for transfers.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	Update(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Transfer, error)
	ListByAccount(ctx context.Context, ownerID, accountID string, limit, offset int) ([]*domain.Transfer, error)
}

// InvoiceRepository defines data access for invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, tx Transaction, invoice *domain.Invoice) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Invoice, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, ownerID, id string) (*domain.Invoice, error)
	ListIDs(ctx context.Context, ownerID string) ([]string, error)
	UpdateStatus(ctx context.Context, tx Transaction, ownerID, id string, status domain.InvoiceStatus, updatedAt time.Time) error
}

// InvoicePaymentWriter persists the derived payment state of an invoice.
type InvoicePaymentWriter interface {
	UpdatePaymentState(ctx context.Context, tx Transaction, invoice *domain.Invoice) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	ListByResource(ctx context.Context, ownerID, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// Store bundles the repositories of one storage backend.
type Store struct {
	TxManager       TransactionManager
	Accounts        AccountRepository
	AccountBalances AccountBalanceWriter
	Parties         PartyRepository
	PartyBalances   PartyBalanceWriter
	Transactions    TransactionRepository
	TxBalances      TransactionBalanceWriter
	Transfers       TransferRepository
	Invoices        InvoiceRepository
	InvoicePayments InvoicePaymentWriter
	Outbox          OutboxRepository
	Audit           AuditRepository
}
