package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/cashbook/internal/adapter/http"
	"github.com/iho/cashbook/internal/adapter/http/handler"
	"github.com/iho/cashbook/internal/adapter/http/middleware"
	"github.com/iho/cashbook/internal/adapter/lock"
	boltRepo "github.com/iho/cashbook/internal/adapter/repository/bolt"
	postgresRepo "github.com/iho/cashbook/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/cashbook/internal/adapter/repository/redis"
	"github.com/iho/cashbook/internal/domain"
	"github.com/iho/cashbook/internal/infrastructure/auth"
	"github.com/iho/cashbook/internal/infrastructure/config"
	"github.com/iho/cashbook/internal/infrastructure/eventpublisher"
	"github.com/iho/cashbook/internal/infrastructure/idgen"
	"github.com/iho/cashbook/internal/infrastructure/logger"
	"github.com/iho/cashbook/internal/infrastructure/metrics"
	"github.com/iho/cashbook/internal/infrastructure/postgres"
	"github.com/iho/cashbook/internal/infrastructure/redis"
	"github.com/iho/cashbook/internal/usecase"
)

const (
	eventStream       = "cashbook:events"
	eventStreamMaxLen = 100000
	outboxRetention   = 7 * 24 * time.Hour
	visitorIdle       = 10 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}
}

// backend is the storage selected by STORAGE_BACKEND.
type backend struct {
	store   usecase.Store
	retrier usecase.Retrier
	checks  []handler.Check
	close   func()
}

func openBackend(ctx context.Context, cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) (*backend, error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info().Msg("connected to postgres")
		return &backend{
			store:   postgresRepo.NewStore(pool),
			retrier: postgresRepo.NewRetrier(logger).WithMetrics(m),
			checks:  []handler.Check{{Name: "postgres", Ping: pool.Ping}},
			close:   pool.Close,
		}, nil

	case config.StorageBolt:
		db, err := boltRepo.Open(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("path", cfg.BoltPath).Msg("opened bolt database")
		return &backend{
			store: boltRepo.NewStore(db),
			close: func() {
				if err := db.Close(); err != nil {
					logger.Warn().Err(err).Msg("failed to close bolt database")
				}
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func newLocker(cfg *config.Config, client *goredis.Client, logger zerolog.Logger) (usecase.Locker, error) {
	switch cfg.LockBackend {
	case config.LockLocal:
		return lock.NewKeyedMutex(), nil
	case config.LockRedis:
		if client == nil {
			return nil, errors.New("redis lock backend requires redis")
		}
		return redisRepo.NewLocker(client, redisRepo.DefaultLockOptions(), logger), nil
	default:
		return nil, fmt.Errorf("unknown lock backend %q", cfg.LockBackend)
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	convention, err := domain.ParsePartyConvention(cfg.PartyBalanceConvention)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewWithRegisterer(registry)

	be, err := openBackend(ctx, cfg, m, logger)
	if err != nil {
		return err
	}
	defer be.close()

	var redisClient *goredis.Client
	if cfg.RedisEnabled {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()
		logger.Info().Msg("connected to redis")
		be.checks = append(be.checks, handler.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}

	locker, err := newLocker(cfg, redisClient, logger)
	if err != nil {
		return err
	}

	deps := usecase.LedgerDeps{
		Store:   be.store,
		Engine:  usecase.NewLedgerEngine(be.store, convention),
		Locker:  locker,
		Retrier: be.retrier,
		IDGen:   idgen.NewULIDGenerator(),
		Metrics: m,
		Logger:  logger,

		AllowOverpayment: cfg.InvoiceAllowOverpayment,
	}

	routerCfg := httpAdapter.RouterConfig{
		Metrics:        m,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:         logger,
	}

	var eventSink eventpublisher.Publisher = eventpublisher.NewLogPublisher(logger)
	if redisClient != nil {
		deps.Cache = redisRepo.NewCache(redisClient)
		routerCfg.Idempotency = middleware.NewIdempotencyMiddleware(redisRepo.NewIdempotencyStore(redisClient), cfg.IdempotencyTTL)
		eventSink = eventpublisher.NewStreamPublisher(redisClient, eventStream, eventStreamMaxLen)
	}

	routerCfg.AccountHandler = handler.NewAccountHandler(usecase.NewAccountUseCase(deps))
	routerCfg.PartyHandler = handler.NewPartyHandler(usecase.NewPartyUseCase(deps))
	routerCfg.TransactionHandler = handler.NewTransactionHandler(usecase.NewTransactionUseCase(deps))
	routerCfg.TransferHandler = handler.NewTransferHandler(usecase.NewTransferUseCase(deps))
	routerCfg.InvoiceHandler = handler.NewInvoiceHandler(usecase.NewInvoiceUseCase(deps))
	routerCfg.AdminHandler = handler.NewAdminHandler(usecase.NewRecalculationUseCase(deps), usecase.NewReconciliationUseCase(be.store))
	routerCfg.HealthHandler = handler.NewHealthHandler(be.checks...)

	if cfg.AuthEnabled {
		routerCfg.JWTManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	} else {
		logger.Warn().Msg("authentication disabled, trusting X-Owner-ID headers")
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)
	routerCfg.RateLimiter = limiter
	go limiter.RunCleanup(ctx, time.Minute, visitorIdle)

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: be.store.Outbox,
		Publisher:  eventSink,
		Logger:     logger,
		Interval:   cfg.OutboxPollInterval,
		Retention:  outboxRetention,
	})
	go func() {
		if err := publisher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageBackend).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info().Msg("server stopped")
	return nil
}
