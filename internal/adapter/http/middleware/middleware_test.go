package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/iho/cashbook/internal/infrastructure/metrics"
)

func TestMetricsMiddlewareLabelsRoutePattern(t *testing.T) {
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/api/v1/accounts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"A1", "B2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/accounts/"+id, nil))
	}

	got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/api/v1/accounts/{id}", "418"))
	if got != 2 {
		t.Fatalf("expected both ids under one pattern label, got %v", got)
	}
	if n := testutil.CollectAndCount(m.HTTPDuration); n != 1 {
		t.Fatalf("expected a single duration series, got %d", n)
	}
}

func TestRateLimiterPerIP(t *testing.T) {
	m := metrics.NewWithRegisterer(prometheus.NewRegistry())
	rl := NewRateLimiter(1, 1).WithMetrics(m)
	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func(addr, forwarded string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := send("1.2.3.4:1000", ""); code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := send("1.2.3.4:2000", ""); code != http.StatusTooManyRequests {
		t.Fatalf("expected same host on another port to be limited, got %d", code)
	}
	if code := send("9.9.9.9:1000", "5.6.7.8, 10.0.0.1"); code != http.StatusOK {
		t.Fatalf("expected a different client to pass, got %d", code)
	}

	if got := testutil.ToFloat64(m.RateLimitHits.WithLabelValues("1.2.3.4")); got != 1 {
		t.Fatalf("expected one rate limit hit, got %v", got)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(10, 10)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.getLimiter("old")
	now = now.Add(2 * time.Hour)
	rl.getLimiter("fresh")

	if removed := rl.CleanupLimiters(time.Hour); removed != 1 {
		t.Fatalf("expected one idle visitor removed, got %d", removed)
	}
	if _, ok := rl.visitors["fresh"]; !ok {
		t.Fatalf("expected recent visitor to be kept")
	}
}

func TestRecoveryReturnsJSON500(t *testing.T) {
	var buf bytes.Buffer
	h := Recovery(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Fatalf("expected panic to be logged, got %s", buf.String())
	}
}

func TestLoggingMiddlewareCarriesRequestAndOwner(t *testing.T) {
	var buf bytes.Buffer
	logging := NewLoggingMiddleware(zerolog.New(&buf))

	h := chimiddleware.RequestID(logging.Wrap(Authenticate(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusAccepted)
	}))))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", nil)
	req.Header.Set(OwnerIDHeader, "owner-7")
	h.ServeHTTP(httptest.NewRecorder(), req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected handler line and access line, got %q", buf.String())
	}
	for _, line := range lines {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		if entry["owner_id"] != "owner-7" || entry["request_id"] == nil {
			t.Fatalf("expected owner and request id on every line, got %v", entry)
		}
	}
	if !strings.Contains(lines[1], `"status":202`) {
		t.Fatalf("expected access log with status, got %s", lines[1])
	}
}
