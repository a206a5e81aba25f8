package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/iho/cashbook/internal/infrastructure/metrics"
)

// PostgreSQL error codes for retryable errors.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrLockNotAvailable     = "55P03"
)

// Retrier implements usecase.Retrier with exponential backoff. A ledger unit
// of work that loses a deadlock, a serialization check or a NOWAIT row lock is
// replayed from the start, locks included.
type Retrier struct {
	logger          zerolog.Logger
	metrics         *metrics.Metrics
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
}

// NewRetrier creates a new PostgreSQL retrier with default settings.
func NewRetrier(logger zerolog.Logger) *Retrier {
	return &Retrier{
		maxRetries:      3,
		initialInterval: 50 * time.Millisecond,
		maxInterval:     1 * time.Second,
		maxElapsedTime:  10 * time.Second,
		logger:          logger,
	}
}

// WithMetrics counts retries on m by SQLSTATE.
func (r *Retrier) WithMetrics(m *metrics.Metrics) *Retrier {
	r.metrics = m
	return r
}

// Retry executes an operation with exponential backoff on retryable errors.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval
	b.MaxElapsedTime = r.maxElapsedTime

	retryCount := 0

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		code, ok := retryableCode(err)
		if !ok {
			return backoff.Permanent(err)
		}

		retryCount++
		if retryCount > r.maxRetries {
			return backoff.Permanent(err)
		}

		if r.metrics != nil {
			r.metrics.StorageRetries.WithLabelValues(code).Inc()
		}
		r.logger.Warn().
			Err(err).
			Str("sqlstate", code).
			Int("retry", retryCount).
			Msg("ledger write hit a transient storage conflict, retrying")

		return err
	}, backoff.WithContext(b, ctx))
}

// retryableCode returns the SQLSTATE of err when it is worth another attempt.
func retryableCode(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	switch pgErr.Code {
	case pgErrDeadlock, pgErrSerializationFailure, pgErrLockNotAvailable:
		return pgErr.Code, true
	}
	return "", false
}
