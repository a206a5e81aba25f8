package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/iho/cashbook/internal/infrastructure/metrics"
)

func TestRetrierRetriesOnRetryableError(t *testing.T) {
	r := NewRetrier(zerolog.Nop())
	r.maxRetries = 2
	r.initialInterval = 1 * time.Millisecond
	r.maxInterval = 2 * time.Millisecond
	r.maxElapsedTime = 10 * time.Millisecond

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return &pgconn.PgError{Code: pgErrDeadlock}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestRetrierStopsOnPermanentError(t *testing.T) {
	r := NewRetrier(zerolog.Nop())
	attempts := 0
	permanentErr := errors.New("permanent")

	err := r.Retry(context.Background(), func() error {
		attempts++
		return permanentErr
	})

	if !errors.Is(err, permanentErr) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestRetryableCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		ok   bool
	}{
		{"deadlock", &pgconn.PgError{Code: pgErrDeadlock}, pgErrDeadlock, true},
		{"wrapped serialization failure", fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: pgErrSerializationFailure}), pgErrSerializationFailure, true},
		{"nowait lock", &pgconn.PgError{Code: pgErrLockNotAvailable}, pgErrLockNotAvailable, true},
		{"unique violation", &pgconn.PgError{Code: pgErrUniqueViolation}, "", false},
		{"plain error", errors.New("other"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := retryableCode(tt.err)
			if code != tt.code || ok != tt.ok {
				t.Fatalf("expected (%q, %v), got (%q, %v)", tt.code, tt.ok, code, ok)
			}
		})
	}
}

func TestRetrierCountsRetriesBySQLState(t *testing.T) {
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	r := NewRetrier(zerolog.Nop()).WithMetrics(m)
	r.initialInterval = time.Millisecond
	r.maxInterval = time.Millisecond

	codes := []string{pgErrDeadlock, pgErrLockNotAvailable}
	attempts := 0
	err := r.Retry(context.Background(), func() error {
		if attempts < len(codes) {
			code := codes[attempts]
			attempts++
			return &pgconn.PgError{Code: code}
		}
		attempts++
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}

	for _, code := range codes {
		if got := testutil.ToFloat64(m.StorageRetries.WithLabelValues(code)); got != 1 {
			t.Fatalf("expected one retry for %s, got %v", code, got)
		}
	}
	if got := testutil.ToFloat64(m.StorageRetries.WithLabelValues(pgErrSerializationFailure)); got != 0 {
		t.Fatalf("expected no serialization retries, got %v", got)
	}
}

func TestRetrierGivesUpAfterMaxRetries(t *testing.T) {
	r := NewRetrier(zerolog.Nop())
	r.maxRetries = 2
	r.initialInterval = time.Millisecond
	r.maxInterval = time.Millisecond

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		return &pgconn.PgError{Code: pgErrDeadlock}
	})

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgErrDeadlock {
		t.Fatalf("expected deadlock error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}
