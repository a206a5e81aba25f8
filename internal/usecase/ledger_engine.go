package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
)

// Impact collects the ledgers a mutation touched and the earliest date each
// one must be replayed from.
type Impact struct {
	accounts map[string]time.Time
	parties  map[string]time.Time
	invoices map[string]struct{}
}

func NewImpact() *Impact {
	return &Impact{
		accounts: make(map[string]time.Time),
		parties:  make(map[string]time.Time),
		invoices: make(map[string]struct{}),
	}
}

// Account marks accountID dirty from the given date onward.
func (i *Impact) Account(accountID string, from time.Time) {
	i.accounts[accountID] = domain.EarliestDate(i.accounts[accountID], from)
}

// Party marks partyID dirty from the given date onward. A nil id is ignored.
func (i *Impact) Party(partyID *string, from time.Time) {
	if partyID == nil {
		return
	}
	i.parties[*partyID] = domain.EarliestDate(i.parties[*partyID], from)
}

// Invoice marks an invoice whose payment state must be recomputed.
func (i *Impact) Invoice(invoiceID *string) {
	if invoiceID == nil {
		return
	}
	i.invoices[*invoiceID] = struct{}{}
}

// Transaction marks every ledger t belongs to, from t's date.
func (i *Impact) Transaction(t *domain.Transaction) {
	i.Account(t.AccountID, t.Date)
	i.Party(t.PartyID, t.Date)
	i.Invoice(t.InvoiceID)
}

func (i *Impact) AccountIDs() []string { return sortedKeys(i.accounts) }
func (i *Impact) PartyIDs() []string   { return sortedKeys(i.parties) }

func (i *Impact) InvoiceIDs() []string {
	ids := make([]string, 0, len(i.invoices))
	for id := range i.invoices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LockKeys returns the keys guarding the impacted ledgers: accounts sorted by
// id, then parties sorted by id, then invoices.
func (i *Impact) LockKeys(ownerID string) []string {
	keys := make([]string, 0, len(i.accounts)+len(i.parties)+len(i.invoices))
	for _, id := range i.AccountIDs() {
		keys = append(keys, accountLockKey(ownerID, id))
	}
	for _, id := range i.PartyIDs() {
		keys = append(keys, partyLockKey(ownerID, id))
	}
	for _, id := range i.InvoiceIDs() {
		keys = append(keys, invoiceLockKey(ownerID, id))
	}
	return keys
}

func sortedKeys(m map[string]time.Time) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Recalculation summarises one ledger replay.
type Recalculation struct {
	ID      string
	Final   decimal.Decimal
	Visited int
	Updated int
}

// LedgerEngine is the only component that writes derived balances.
type LedgerEngine struct {
	accountRepo     AccountRepository
	accountBalances AccountBalanceWriter
	partyRepo       PartyRepository
	partyBalances   PartyBalanceWriter
	txRepo          TransactionRepository
	txBalances      TransactionBalanceWriter
	invoiceRepo     InvoiceRepository
	invoicePayments InvoicePaymentWriter
	convention      domain.PartyConvention
}

// NewLedgerEngine creates a new LedgerEngine over the given store.
func NewLedgerEngine(store Store, convention domain.PartyConvention) *LedgerEngine {
	return &LedgerEngine{
		accountRepo:     store.Accounts,
		accountBalances: store.AccountBalances,
		partyRepo:       store.Parties,
		partyBalances:   store.PartyBalances,
		txRepo:          store.Transactions,
		txBalances:      store.TxBalances,
		invoiceRepo:     store.Invoices,
		invoicePayments: store.InvoicePayments,
		convention:      convention,
	}
}

// RecalculateAccount replays the account ledger inside tx. With from set, only
// rows dated on or after from are replayed, seeded from the last earlier row.
func (e *LedgerEngine) RecalculateAccount(
	ctx context.Context,
	tx Transaction,
	ownerID, accountID string,
	from *time.Time,
) (Recalculation, error) {
	account, err := e.accountRepo.GetByIDForUpdate(ctx, tx, ownerID, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Recalculation{}, fmt.Errorf("%w: account %s", domain.ErrDanglingReference, accountID)
		}
		return Recalculation{}, err
	}

	seed := account.OpeningBalance
	if from != nil {
		last, err := e.txRepo.LastActiveBeforeOnAccount(ctx, tx, ownerID, accountID, *from)
		if err != nil {
			return Recalculation{}, err
		}
		seed = domain.AccountSeed(account.OpeningBalance, last)
	}

	rows, err := e.txRepo.ListActiveByAccount(ctx, tx, ownerID, accountID, from)
	if err != nil {
		return Recalculation{}, err
	}

	res := domain.ReplayAccount(seed, rows)
	if len(res.Changes) > 0 {
		if err := e.txBalances.UpdateBalances(ctx, tx, ownerID, res.Changes); err != nil {
			return Recalculation{}, err
		}
	}

	if !account.CurrentBalance.Equal(res.Final) {
		if err := e.accountBalances.UpdateCurrentBalance(ctx, tx, ownerID, accountID, res.Final, time.Now().UTC()); err != nil {
			return Recalculation{}, err
		}
	}

	return Recalculation{ID: accountID, Final: res.Final, Visited: res.Visited, Updated: len(res.Changes)}, nil
}

// RecalculateParty is RecalculateAccount for the party ledger.
func (e *LedgerEngine) RecalculateParty(
	ctx context.Context,
	tx Transaction,
	ownerID, partyID string,
	from *time.Time,
) (Recalculation, error) {
	party, err := e.partyRepo.GetByIDForUpdate(ctx, tx, ownerID, partyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Recalculation{}, fmt.Errorf("%w: party %s", domain.ErrDanglingReference, partyID)
		}
		return Recalculation{}, err
	}

	seed := party.OpeningBalance
	if from != nil {
		last, err := e.txRepo.LastActiveBeforeOnParty(ctx, tx, ownerID, partyID, *from)
		if err != nil {
			return Recalculation{}, err
		}
		var ok bool
		if seed, ok = domain.PartySeed(party.OpeningBalance, last); !ok {
			seed, from = party.OpeningBalance, nil
		}
	}

	rows, err := e.txRepo.ListActiveByParty(ctx, tx, ownerID, partyID, from)
	if err != nil {
		return Recalculation{}, err
	}

	res := e.convention.ReplayParty(seed, rows)
	if len(res.Changes) > 0 {
		if err := e.txBalances.UpdatePartyBalances(ctx, tx, ownerID, res.Changes); err != nil {
			return Recalculation{}, err
		}
	}

	if !party.CurrentBalance.Equal(res.Final) {
		if err := e.partyBalances.UpdateCurrentBalance(ctx, tx, ownerID, partyID, res.Final, time.Now().UTC()); err != nil {
			return Recalculation{}, err
		}
	}

	return Recalculation{ID: partyID, Final: res.Final, Visited: res.Visited, Updated: len(res.Changes)}, nil
}

// RecomputeInvoice derives amount paid, balance due and status from the
// active payments linked to the invoice.
func (e *LedgerEngine) RecomputeInvoice(ctx context.Context, tx Transaction, ownerID, invoiceID string) (*domain.Invoice, error) {
	invoice, err := e.invoiceRepo.GetByIDForUpdate(ctx, tx, ownerID, invoiceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: invoice %s", domain.ErrDanglingReference, invoiceID)
		}
		return nil, err
	}

	paid, err := e.txRepo.SumActiveByInvoice(ctx, tx, ownerID, invoiceID)
	if err != nil {
		return nil, err
	}

	before := invoice.Status
	unchanged := invoice.AmountPaid.Equal(paid)
	invoice.ApplyPayments(paid, time.Now().UTC())
	if unchanged && before == invoice.Status {
		return invoice, nil
	}

	if err := e.invoicePayments.UpdatePaymentState(ctx, tx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Apply brings every ledger in impact up to date: accounts in id order, then
// parties, then invoices. It returns the number of rows rewritten.
func (e *LedgerEngine) Apply(ctx context.Context, tx Transaction, ownerID string, impact *Impact) (int, error) {
	updated := 0

	for _, id := range impact.AccountIDs() {
		from := impact.accounts[id]
		rec, err := e.RecalculateAccount(ctx, tx, ownerID, id, &from)
		if err != nil {
			return updated, err
		}
		updated += rec.Updated
	}

	for _, id := range impact.PartyIDs() {
		from := impact.parties[id]
		rec, err := e.RecalculateParty(ctx, tx, ownerID, id, &from)
		if err != nil {
			return updated, err
		}
		updated += rec.Updated
	}

	for _, id := range impact.InvoiceIDs() {
		if _, err := e.RecomputeInvoice(ctx, tx, ownerID, id); err != nil {
			return updated, err
		}
	}

	return updated, nil
}
