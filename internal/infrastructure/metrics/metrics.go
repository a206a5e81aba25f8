package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction lifecycle metrics
	TransactionsCreated  prometheus.Counter
	TransactionsUpdated  prometheus.Counter
	TransactionsDeleted  prometheus.Counter
	TransactionsRestored prometheus.Counter
	IdempotentReplays    prometheus.Counter
	MutationErrors       *prometheus.CounterVec

	// Transfer metrics
	TransfersCreated prometheus.Counter
	TransferAmount   prometheus.Histogram

	// Invoice metrics
	InvoicePayments      prometheus.Counter
	InvoicesStatusChange *prometheus.CounterVec

	// Ledger engine metrics
	BalanceSnapshotsWritten prometheus.Counter
	RecalculationRuns       prometheus.Counter
	RecalculationSkipped    prometheus.Counter
	RecalculationDuration   prometheus.Histogram

	// Account metrics
	AccountsCreated prometheus.Counter
	PartiesCreated  prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Storage metrics
	StorageRetries *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics and registers them on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Transaction lifecycle metrics
		TransactionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_transactions_created_total",
			Help: "Total number of transactions created",
		}),
		TransactionsUpdated: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_transactions_updated_total",
			Help: "Total number of transactions updated",
		}),
		TransactionsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_transactions_deleted_total",
			Help: "Total number of transactions soft-deleted",
		}),
		TransactionsRestored: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_transactions_restored_total",
			Help: "Total number of transactions restored",
		}),
		IdempotentReplays: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_idempotent_replays_total",
			Help: "Creates answered from an existing row with the same client request id",
		}),
		MutationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbook_mutation_errors_total",
				Help: "Ledger mutation failures by operation and error kind",
			},
			[]string{"operation", "kind"},
		),

		// Transfer metrics
		TransfersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_transfers_created_total",
			Help: "Total number of transfers created",
		}),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cashbook_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		// Invoice metrics
		InvoicePayments: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_invoice_payments_total",
			Help: "Total number of invoice payments recorded",
		}),
		InvoicesStatusChange: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbook_invoice_status_changes_total",
				Help: "Invoice status transitions by target status",
			},
			[]string{"status"},
		),

		// Ledger engine metrics
		BalanceSnapshotsWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_balance_snapshots_written_total",
			Help: "Transaction balance snapshots rewritten by the ledger engine",
		}),
		RecalculationRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_recalculation_runs_total",
			Help: "Total number of owner recalculation runs",
		}),
		RecalculationSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_recalculation_skipped_total",
			Help: "Ledgers skipped by recalculation because of integrity errors",
		}),
		RecalculationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cashbook_recalculation_duration_seconds",
			Help:    "Duration of owner recalculation runs",
			Buckets: prometheus.DefBuckets,
		}),

		// Account metrics
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		PartiesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_parties_created_total",
			Help: "Total number of parties created",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbook_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cashbook_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbook_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Storage metrics
		StorageRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbook_storage_retries_total",
				Help: "Ledger units of work retried after a transient storage conflict",
			},
			[]string{"sqlstate"},
		),
	}
}
