package bolt

import "github.com/iho/cashbook/internal/usecase"

// NewStore wires every repository of this package over db.
func NewStore(db *DB) usecase.Store {
	accounts := NewAccountRepository(db)
	parties := NewPartyRepository(db)
	transactions := NewTransactionRepository(db)
	invoices := NewInvoiceRepository(db)

	return usecase.Store{
		TxManager:       NewTxManager(db),
		Accounts:        accounts,
		AccountBalances: accounts,
		Parties:         parties,
		PartyBalances:   parties,
		Transactions:    transactions,
		TxBalances:      transactions,
		Transfers:       NewTransferRepository(db),
		Invoices:        invoices,
		InvoicePayments: invoices,
		Outbox:          NewOutboxRepository(db),
		Audit:           NewAuditRepository(db),
	}
}
