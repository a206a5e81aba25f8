package usecase

import (
	"context"
	"errors"
	"time"
)

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation that failed with a transient storage error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Locker provides exclusive sections keyed by ledger identity. Keys are
// acquired in the order given; release frees all of them.
type Locker interface {
	Lock(ctx context.Context, keys []string) (release func(), err error)
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// IdempotencyInFlight is the value an IdempotencyStore holds for a key whose
// first request has not finished yet.
const IdempotencyInFlight = "processing"

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops the claim on key after a failed request.
	Release(ctx context.Context, key string) error
}
