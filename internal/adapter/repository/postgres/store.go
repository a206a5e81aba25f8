package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/cashbook/internal/usecase"
)

// NewStore wires every repository of this package over pool.
func NewStore(pool *pgxpool.Pool) usecase.Store {
	accounts := NewAccountRepository(pool)
	parties := NewPartyRepository(pool)
	transactions := NewTransactionRepository(pool)
	invoices := NewInvoiceRepository(pool)

	return usecase.Store{
		TxManager:       NewTxManager(pool),
		Accounts:        accounts,
		AccountBalances: accounts,
		Parties:         parties,
		PartyBalances:   parties,
		Transactions:    transactions,
		TxBalances:      transactions,
		Transfers:       NewTransferRepository(pool),
		Invoices:        invoices,
		InvoicePayments: invoices,
		Outbox:          NewOutboxRepository(pool),
		Audit:           NewAuditRepository(pool),
	}
}
