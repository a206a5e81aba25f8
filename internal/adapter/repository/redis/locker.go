package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

// LockOptions tunes the distributed mutexes.
type LockOptions struct {
	// Expiry bounds how long a crashed holder can block a ledger.
	Expiry      time.Duration
	Tries       int
	RetryDelay  time.Duration
	DriftFactor float64
}

// lockSlack covers lock acquisition and commit on top of the transaction
// deadline.
const lockSlack = 5 * time.Second

// DefaultLockOptions returns options suited to a single ledger mutation. The
// expiry outlives the transaction deadline.
func DefaultLockOptions() LockOptions {
	return LockOptions{
		Expiry:      usecase.DefaultTransactionTimeout + lockSlack,
		Tries:       3,
		RetryDelay:  500 * time.Millisecond,
		DriftFactor: 0.01,
	}
}

// Locker implements usecase.Locker with redsync mutexes, so writers in
// different processes exclude each other per ledger.
type Locker struct {
	rs     *redsync.Redsync
	opts   LockOptions
	prefix string
	logger zerolog.Logger
}

// NewLocker creates a new Locker.
func NewLocker(client *redis.Client, opts LockOptions, logger zerolog.Logger) *Locker {
	return &Locker{
		rs:     redsync.New(goredis.NewPool(client)),
		opts:   opts,
		prefix: "cashbook:lock:",
		logger: logger,
	}
}

// Lock takes the keys in order. If any key cannot be taken, the ones already
// held are released and a conflict is reported.
func (l *Locker) Lock(ctx context.Context, keys []string) (func(), error) {
	held := make([]*redsync.Mutex, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))

	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			m := held[i]
			if ok, err := m.Unlock(); !ok || err != nil {
				l.logger.Warn().Err(err).Str("lock_key", m.Name()).Msg("failed to release lock")
			}
		}
	}

	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		m := l.rs.NewMutex(
			l.prefix+key,
			redsync.WithExpiry(l.opts.Expiry),
			redsync.WithTries(l.opts.Tries),
			redsync.WithRetryDelay(l.opts.RetryDelay),
			redsync.WithDriftFactor(l.opts.DriftFactor),
		)
		if err := m.LockContext(ctx); err != nil {
			release()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if errors.Is(err, redsync.ErrFailed) || strings.Contains(err.Error(), "lock already taken") {
				return nil, fmt.Errorf("%w: %s is locked", domain.ErrConcurrentModification, key)
			}
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		held = append(held, m)
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		release()
	}, nil
}
