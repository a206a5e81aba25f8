package bolt

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	bolt "go.etcd.io/bbolt"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository and
// usecase.TransactionBalanceWriter.
//
// Ledger indexes hold deleted rows too and are keyed
// owner/ledger/date/sequence/id, so a cursor walk yields ledger order.
type TransactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts the row and assigns its creation sequence.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return err
	}

	if err := claimRequestID(btx, t); err != nil {
		return err
	}

	seq, err := btx.Bucket([]byte(bucketTransactions)).NextSequence()
	if err != nil {
		return fmt.Errorf("failed to allocate sequence: %w", err)
	}
	t.Sequence = int64(seq)

	if err := putRecord(btx, bucketTransactions, t.ID, t); err != nil {
		return err
	}
	return indexTransaction(btx, t)
}

// GetByID retrieves a transaction by ID, deleted or not.
func (r *TransactionRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	var t *domain.Transaction
	err := r.db.view(ctx, func(btx *bolt.Tx) error {
		var err error
		t, err = loadTransaction(btx, ownerID, id)
		return err
	})
	return t, err
}

// GetByIDForUpdate reads the row inside the write transaction.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, ownerID, id string) (*domain.Transaction, error) {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	return loadTransaction(btx, ownerID, id)
}

// GetActiveByClientRequestID returns the active row holding the key, or nil.
func (r *TransactionRepository) GetActiveByClientRequestID(ctx context.Context, tx usecase.Transaction, ownerID, clientRequestID string) (*domain.Transaction, error) {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	id := btx.Bucket([]byte(idxTxRequest)).Get(key(ownerID, clientRequestID))
	if id == nil {
		return nil, nil
	}
	return loadTransaction(btx, ownerID, string(id))
}

// Update writes caller-owned fields and the soft-delete state. Stored
// balance snapshots and the sequence are kept.
func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return err
	}

	old, err := loadTransaction(btx, t.OwnerID, t.ID)
	if err != nil {
		return err
	}

	row := t.Clone()
	row.Sequence = old.Sequence
	row.BalanceAfterTransaction = old.BalanceAfterTransaction
	row.PartyBalanceAfter = old.PartyBalanceAfter
	if row.PartyID == nil {
		row.PartyBalanceAfter = nil
	}

	if err := claimRequestID(btx, row); err != nil {
		return err
	}
	if err := unindexTransaction(btx, old); err != nil {
		return err
	}
	if err := putRecord(btx, bucketTransactions, row.ID, row); err != nil {
		return err
	}
	return indexTransaction(btx, row)
}

// ListActiveByAccount returns active rows of the account in ledger order,
// starting at from when it is set.
func (r *TransactionRepository) ListActiveByAccount(ctx context.Context, tx usecase.Transaction, ownerID, accountID string, from *time.Time) ([]*domain.Transaction, error) {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	return listActive(btx, idxTxAccount, ownerID, accountID, from)
}

// LastActiveBeforeOnAccount returns the last active row dated before the
// given time.
func (r *TransactionRepository) LastActiveBeforeOnAccount(ctx context.Context, tx usecase.Transaction, ownerID, accountID string, before time.Time) (*domain.Transaction, error) {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	return lastActiveBefore(btx, idxTxAccount, ownerID, accountID, before)
}

// ListActiveByParty returns active rows of the party in ledger order.
func (r *TransactionRepository) ListActiveByParty(ctx context.Context, tx usecase.Transaction, ownerID, partyID string, from *time.Time) ([]*domain.Transaction, error) {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	return listActive(btx, idxTxParty, ownerID, partyID, from)
}

// LastActiveBeforeOnParty returns the last active party row dated before the
// given time.
func (r *TransactionRepository) LastActiveBeforeOnParty(ctx context.Context, tx usecase.Transaction, ownerID, partyID string, before time.Time) (*domain.Transaction, error) {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	return lastActiveBefore(btx, idxTxParty, ownerID, partyID, before)
}

// SumActiveByInvoice sums the amounts of active payments linked to an invoice.
func (r *TransactionRepository) SumActiveByInvoice(ctx context.Context, tx usecase.Transaction, ownerID, invoiceID string) (decimal.Decimal, error) {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return decimal.Zero, err
	}

	sum := decimal.Zero
	err = scan(btx, idxTxInvoice, prefix(ownerID, invoiceID), func(_, v []byte) error {
		t, err := loadTransaction(btx, ownerID, string(v))
		if err != nil {
			return err
		}
		if !t.IsDeleted() {
			sum = sum.Add(t.Amount)
		}
		return nil
	})
	return sum, err
}

// DistinctAccountIDs returns account ids referenced by active rows.
func (r *TransactionRepository) DistinctAccountIDs(ctx context.Context, ownerID string) ([]string, error) {
	return r.distinct(ctx, idxTxAccount, ownerID)
}

// DistinctPartyIDs returns party ids referenced by active rows.
func (r *TransactionRepository) DistinctPartyIDs(ctx context.Context, ownerID string) ([]string, error) {
	return r.distinct(ctx, idxTxParty, ownerID)
}

func (r *TransactionRepository) distinct(ctx context.Context, index, ownerID string) ([]string, error) {
	ids := []string{}
	err := r.db.view(ctx, func(btx *bolt.Tx) error {
		last := ""
		return scan(btx, index, prefix(ownerID), func(k, v []byte) error {
			ledgerID := splitKey(k)[1]
			if ledgerID == last {
				return nil
			}
			t, err := loadTransaction(btx, ownerID, string(v))
			if err != nil {
				return err
			}
			if !t.IsDeleted() {
				ids = append(ids, ledgerID)
				last = ledgerID
			}
			return nil
		})
	})
	return ids, err
}

// ListByAccount lists the account's rows in ledger order.
func (r *TransactionRepository) ListByAccount(ctx context.Context, ownerID, accountID string, includeDeleted bool, limit, offset int) ([]*domain.Transaction, error) {
	var rows []*domain.Transaction
	err := r.db.view(ctx, func(btx *bolt.Tx) error {
		return scan(btx, idxTxAccount, prefix(ownerID, accountID), func(_, v []byte) error {
			t, err := loadTransaction(btx, ownerID, string(v))
			if err != nil {
				return err
			}
			if includeDeleted || !t.IsDeleted() {
				rows = append(rows, t)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return page(rows, limit, offset), nil
}

// UpdateBalances writes account balance snapshots.
func (r *TransactionRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, ownerID string, changes []domain.BalanceChange) error {
	return r.writeSnapshots(ctx, tx, ownerID, changes, func(t *domain.Transaction, balance decimal.Decimal) {
		t.BalanceAfterTransaction = balance
	})
}

// UpdatePartyBalances writes party balance snapshots.
func (r *TransactionRepository) UpdatePartyBalances(ctx context.Context, tx usecase.Transaction, ownerID string, changes []domain.BalanceChange) error {
	return r.writeSnapshots(ctx, tx, ownerID, changes, func(t *domain.Transaction, balance decimal.Decimal) {
		t.PartyBalanceAfter = &balance
	})
}

func (r *TransactionRepository) writeSnapshots(
	ctx context.Context,
	tx usecase.Transaction,
	ownerID string,
	changes []domain.BalanceChange,
	set func(t *domain.Transaction, balance decimal.Decimal),
) error {
	btx, err := boltTx(ctx, tx)
	if err != nil {
		return err
	}
	for _, change := range changes {
		t, err := loadTransaction(btx, ownerID, change.TransactionID)
		if err != nil {
			return err
		}
		set(t, change.Balance)
		if err := putRecord(btx, bucketTransactions, t.ID, t); err != nil {
			return err
		}
	}
	return nil
}

func loadTransaction(btx *bolt.Tx, ownerID, id string) (*domain.Transaction, error) {
	t, err := getRecord[domain.Transaction](btx, bucketTransactions, id)
	if err != nil {
		return nil, err
	}
	if t == nil || t.OwnerID != ownerID {
		return nil, domain.ErrTransactionNotFound
	}
	return t, nil
}

func ledgerKey(ownerID, ledgerID string, t *domain.Transaction) []byte {
	return key(ownerID, ledgerID, stamp(t.Date), seqKey(t.Sequence), t.ID)
}

// claimRequestID fails when another active row of the owner holds the key.
func claimRequestID(btx *bolt.Tx, t *domain.Transaction) error {
	if t.ClientRequestID == nil || t.IsDeleted() {
		return nil
	}
	holder := btx.Bucket([]byte(idxTxRequest)).Get(key(t.OwnerID, *t.ClientRequestID))
	if holder != nil && string(holder) != t.ID {
		return usecase.ErrClientRequestIDTaken
	}
	return nil
}

func indexTransaction(btx *bolt.Tx, t *domain.Transaction) error {
	id := []byte(t.ID)
	if err := btx.Bucket([]byte(idxTxAccount)).Put(ledgerKey(t.OwnerID, t.AccountID, t), id); err != nil {
		return err
	}
	if t.PartyID != nil {
		if err := btx.Bucket([]byte(idxTxParty)).Put(ledgerKey(t.OwnerID, *t.PartyID, t), id); err != nil {
			return err
		}
	}
	if t.InvoiceID != nil {
		if err := btx.Bucket([]byte(idxTxInvoice)).Put(key(t.OwnerID, *t.InvoiceID, t.ID), id); err != nil {
			return err
		}
	}
	if t.ClientRequestID != nil && !t.IsDeleted() {
		if err := btx.Bucket([]byte(idxTxRequest)).Put(key(t.OwnerID, *t.ClientRequestID), id); err != nil {
			return err
		}
	}
	return nil
}

func unindexTransaction(btx *bolt.Tx, t *domain.Transaction) error {
	if err := btx.Bucket([]byte(idxTxAccount)).Delete(ledgerKey(t.OwnerID, t.AccountID, t)); err != nil {
		return err
	}
	if t.PartyID != nil {
		if err := btx.Bucket([]byte(idxTxParty)).Delete(ledgerKey(t.OwnerID, *t.PartyID, t)); err != nil {
			return err
		}
	}
	if t.InvoiceID != nil {
		if err := btx.Bucket([]byte(idxTxInvoice)).Delete(key(t.OwnerID, *t.InvoiceID, t.ID)); err != nil {
			return err
		}
	}
	if t.ClientRequestID != nil && !t.IsDeleted() {
		requests := btx.Bucket([]byte(idxTxRequest))
		k := key(t.OwnerID, *t.ClientRequestID)
		if string(requests.Get(k)) == t.ID {
			if err := requests.Delete(k); err != nil {
				return err
			}
		}
	}
	return nil
}

func listActive(btx *bolt.Tx, index, ownerID, ledgerID string, from *time.Time) ([]*domain.Transaction, error) {
	p := prefix(ownerID, ledgerID)
	start := p
	if from != nil {
		start = append(append([]byte{}, p...), stamp(*from)...)
	}

	rows := []*domain.Transaction{}
	c := btx.Bucket([]byte(index)).Cursor()
	for k, v := c.Seek(start); k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
		t, err := loadTransaction(btx, ownerID, string(v))
		if err != nil {
			return nil, err
		}
		if !t.IsDeleted() {
			rows = append(rows, t)
		}
	}
	return rows, nil
}

func lastActiveBefore(btx *bolt.Tx, index, ownerID, ledgerID string, before time.Time) (*domain.Transaction, error) {
	p := prefix(ownerID, ledgerID)
	seek := append(append([]byte{}, p...), stamp(before)...)

	c := btx.Bucket([]byte(index)).Cursor()
	k, v := c.Seek(seek)
	if k == nil {
		k, v = c.Last()
	} else {
		k, v = c.Prev()
	}
	for ; k != nil && bytes.HasPrefix(k, p); k, v = c.Prev() {
		t, err := loadTransaction(btx, ownerID, string(v))
		if err != nil {
			return nil, err
		}
		if !t.IsDeleted() {
			return t, nil
		}
	}
	return nil, nil
}
