// Package bolt implements the usecase repositories on an embedded bbolt file.
// Secondary indexes are kept in their own buckets and maintained in the same
// write transaction as the records they point to.
package bolt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/iho/cashbook/internal/usecase"
)

// Bucket names.
const (
	bucketAccounts     = "accounts"
	bucketParties      = "parties"
	bucketTransactions = "transactions"
	bucketTransfers    = "transfers"
	bucketInvoices     = "invoices"
	bucketOutbox       = "outbox"
	bucketAudit        = "audit_logs"

	idxOwnerAccounts   = "idx_owner_accounts"
	idxOwnerParties    = "idx_owner_parties"
	idxOwnerInvoices   = "idx_owner_invoices"
	idxTxAccount       = "idx_tx_account"
	idxTxParty         = "idx_tx_party"
	idxTxInvoice       = "idx_tx_invoice"
	idxTxRequest       = "idx_tx_request"
	idxTransferAccount = "idx_transfer_account"
	idxAuditResource   = "idx_audit_resource"
)

var allBuckets = []string{
	bucketAccounts, bucketParties, bucketTransactions, bucketTransfers,
	bucketInvoices, bucketOutbox, bucketAudit,
	idxOwnerAccounts, idxOwnerParties, idxOwnerInvoices,
	idxTxAccount, idxTxParty, idxTxInvoice, idxTxRequest,
	idxTransferAccount, idxAuditResource,
}

// ErrForeignTransaction is returned when a repository receives a transaction
// that was not started by this package's TxManager.
var ErrForeignTransaction = errors.New("bolt: transaction was not started by bolt.TxManager")

// DB wraps a bbolt database.
type DB struct {
	db *bolt.DB
}

// Open opens (or creates) the database file and initializes buckets.
func Open(path string) (*DB, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// view runs fn in a read-only transaction.
func (d *DB) view(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.db.View(fn)
}

// TxManager implements usecase.TransactionManager. bbolt allows a single
// writer, so Begin blocks while another write transaction is open.
type TxManager struct {
	db *DB
}

// NewTxManager creates a new TxManager.
func NewTxManager(db *DB) *TxManager {
	return &TxManager{db: db}
}

// Begin starts a new write transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tx, err := m.db.db.Begin(true)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Tx wraps a writable bbolt transaction.
type Tx struct {
	tx   *bolt.Tx
	done bool
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return bolt.ErrTxClosed
	}
	t.done = true
	if err := ctx.Err(); err != nil {
		_ = t.tx.Rollback()
		return err
	}
	return t.tx.Commit()
}

// Rollback rolls back the transaction. It is a no-op after Commit.
func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	return t.tx.Rollback()
}

// BoltTx returns the underlying bbolt transaction.
func (t *Tx) BoltTx() *bolt.Tx {
	return t.tx
}

func boltTx(ctx context.Context, tx usecase.Transaction) (*bolt.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, ok := tx.(*Tx)
	if !ok || t.done {
		return nil, ErrForeignTransaction
	}
	return t.tx, nil
}

// key joins parts with a zero byte, which never appears in ids.
func key(parts ...string) []byte {
	return []byte(strings.Join(parts, "\x00"))
}

// prefix is key followed by the separator, so "a" does not match "ab".
func prefix(parts ...string) []byte {
	return append(key(parts...), 0)
}

func splitKey(k []byte) []string {
	return strings.Split(string(k), "\x00")
}

// stamp renders t so that byte order equals chronological order.
func stamp(t time.Time) string {
	return t.UTC().Format("20060102150405.000000000")
}

func seqKey(seq int64) string {
	return fmt.Sprintf("%020d", seq)
}

func getRecord[T any](tx *bolt.Tx, bucket, id string) (*T, error) {
	data := tx.Bucket([]byte(bucket)).Get([]byte(id))
	if data == nil {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode %s/%s: %w", bucket, id, err)
	}
	return &v, nil
}

func putRecord(tx *bolt.Tx, bucket, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return tx.Bucket([]byte(bucket)).Put([]byte(id), data)
}

// scan calls fn for every key of bucket starting with p, in byte order.
// Returning errStop from fn ends the scan without error.
func scan(tx *bolt.Tx, bucket string, p []byte, fn func(k, v []byte) error) error {
	c := tx.Bucket([]byte(bucket)).Cursor()
	k, v := c.First()
	if len(p) > 0 {
		k, v = c.Seek(p)
	}
	for ; k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
		if err := fn(k, v); err != nil {
			if errors.Is(err, errStop) {
				return nil
			}
			return err
		}
	}
	return nil
}

var errStop = errors.New("stop scan")

// page applies offset and limit to an already ordered slice.
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
