package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/cashbook/internal/adapter/http/handler"
	"github.com/iho/cashbook/internal/adapter/http/middleware"
	"github.com/iho/cashbook/internal/infrastructure/auth"
	"github.com/iho/cashbook/internal/infrastructure/metrics"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	PartyHandler       *handler.PartyHandler
	TransactionHandler *handler.TransactionHandler
	TransferHandler    *handler.TransferHandler
	InvoiceHandler     *handler.InvoiceHandler
	AdminHandler       *handler.AdminHandler
	HealthHandler      *handler.HealthHandler

	// Optional
	Idempotency    *middleware.IdempotencyMiddleware
	RateLimiter    *middleware.RateLimiter
	JWTManager     *auth.JWTManager // nil trusts the X-Owner-ID headers
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	Logger         zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// Mutations other than transaction creation and invoice payments are
	// replayed by the idempotency middleware; those two carry the key into
	// the ledger as a client request id instead.
	write := chi.Middlewares{middleware.RequireWrite}
	replayed := chi.Middlewares{middleware.RequireWrite}
	if cfg.Idempotency != nil {
		replayed = append(replayed, cfg.Idempotency.Wrap)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
		r.Use(middleware.Authenticate(cfg.JWTManager))

		r.Route("/accounts", func(r chi.Router) {
			r.With(replayed...).Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/transactions", cfg.TransactionHandler.ListByAccount)
			r.Get("/{id}/transfers", cfg.TransferHandler.ListByAccount)
			r.With(middleware.RequireAdmin).Post("/{id}/archive", cfg.AccountHandler.Archive)
		})

		r.Route("/parties", func(r chi.Router) {
			r.With(replayed...).Post("/", cfg.PartyHandler.Create)
			r.Get("/", cfg.PartyHandler.List)
			r.Get("/{id}", cfg.PartyHandler.Get)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.With(write...).Post("/", cfg.TransactionHandler.Create)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.With(write...).Patch("/{id}", cfg.TransactionHandler.Update)
			r.With(write...).Delete("/{id}", cfg.TransactionHandler.Delete)
			r.With(write...).Post("/{id}/restore", cfg.TransactionHandler.Restore)
		})

		r.Route("/transfers", func(r chi.Router) {
			r.With(replayed...).Post("/", cfg.TransferHandler.Create)
			r.Get("/{id}", cfg.TransferHandler.Get)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.With(replayed...).Post("/", cfg.InvoiceHandler.Create)
			r.Get("/{id}", cfg.InvoiceHandler.Get)
			r.With(replayed...).Post("/{id}/issue", cfg.InvoiceHandler.Issue)
			r.With(replayed...).Post("/{id}/cancel", cfg.InvoiceHandler.Cancel)
			r.With(write...).Post("/{id}/payments", cfg.InvoiceHandler.RecordPayment)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Post("/recalculate", cfg.AdminHandler.Recalculate)
			r.Post("/accounts/{id}/recalculate", cfg.AdminHandler.RecalculateAccount)
			r.Post("/invoices/refresh-overdue", cfg.InvoiceHandler.RefreshOverdue)
			r.Get("/reconcile", cfg.AdminHandler.Reconcile)
		})
	})

	return r
}
