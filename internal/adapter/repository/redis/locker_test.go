package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

func testLockOptions() LockOptions {
	return LockOptions{
		Expiry:      5 * time.Second,
		Tries:       2,
		RetryDelay:  10 * time.Millisecond,
		DriftFactor: 0.01,
	}
}

func TestLockerExcludesHeldKey(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	locker := NewLocker(client, testLockOptions(), zerolog.Nop())
	ctx := context.Background()

	release, err := locker.Lock(ctx, []string{"ledger:account:o:a"})
	if err != nil {
		t.Fatalf("lock failed: %v", err)
	}
	if !mr.Exists("cashbook:lock:ledger:account:o:a") {
		t.Fatalf("expected lock key in redis")
	}

	_, err = locker.Lock(ctx, []string{"ledger:account:o:a"})
	if !errors.Is(err, domain.ErrConcurrentModification) {
		t.Fatalf("expected ErrConcurrentModification, got %v", err)
	}
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected a conflict kind, got %v", err)
	}

	release()
	release()

	again, err := locker.Lock(ctx, []string{"ledger:account:o:a"})
	if err != nil {
		t.Fatalf("relock after release failed: %v", err)
	}
	again()
}

func TestDefaultLockOptionsOutliveTransaction(t *testing.T) {
	opts := DefaultLockOptions()
	if opts.Expiry <= usecase.DefaultTransactionTimeout {
		t.Fatalf("expiry %s must exceed transaction timeout %s", opts.Expiry, usecase.DefaultTransactionTimeout)
	}

	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	release, err := NewLocker(client, opts, zerolog.Nop()).Lock(context.Background(), []string{"ledger:account:o:a"})
	if err != nil {
		t.Fatalf("lock failed: %v", err)
	}
	defer release()

	if ttl := mr.TTL("cashbook:lock:ledger:account:o:a"); ttl <= usecase.DefaultTransactionTimeout {
		t.Fatalf("lock ttl %s does not outlive transaction timeout %s", ttl, usecase.DefaultTransactionTimeout)
	}
}

func TestLockerReleasesPartialSet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	locker := NewLocker(client, testLockOptions(), zerolog.Nop())
	ctx := context.Background()

	holdB, err := locker.Lock(ctx, []string{"b"})
	if err != nil {
		t.Fatalf("lock b failed: %v", err)
	}
	defer holdB()

	if _, err := locker.Lock(ctx, []string{"a", "b"}); err == nil {
		t.Fatalf("expected lock on a,b to fail while b is held")
	}

	if mr.Exists("cashbook:lock:a") {
		t.Fatalf("expected a to be released after the failed attempt")
	}
}
