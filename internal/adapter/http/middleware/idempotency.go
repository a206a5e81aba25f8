package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"

	defaultIdempotencyTTL = 24 * time.Hour
)

// IdempotencyMiddleware replays the stored response of a mutating request
// that carries an already used Idempotency-Key. Keys are scoped per owner.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
	ttl   time.Duration
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		if scope, ok := domain.ScopeFromContext(r.Context()); ok {
			key = scope.OwnerID + ":" + key
		}

		ctx := r.Context()
		exists, cachedResponse, err := m.store.CheckAndSet(ctx, key, nil, m.ttl)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("idempotency check failed")
			http.Error(w, "idempotency check failed", http.StatusInternalServerError)
			return
		}

		if exists {
			if cachedResponse == nil || string(cachedResponse) == usecase.IdempotencyInFlight {
				http.Error(w, "request with this idempotency key is in progress", http.StatusConflict)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Idempotency-Replay", "true")
			_, _ = w.Write(cachedResponse)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode >= 200 && recorder.statusCode < 300 {
			if err := m.store.Update(ctx, key, recorder.body.Bytes(), m.ttl); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to store idempotent response")
			}
			return
		}
		// Failed requests may be retried with the same key.
		if err := m.store.Release(ctx, key); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to release idempotency key")
		}
	})
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}
