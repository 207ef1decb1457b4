package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/trustbook/internal/adapter/http"
	"github.com/iho/trustbook/internal/adapter/http/handler"
	"github.com/iho/trustbook/internal/adapter/http/middleware"
	"github.com/iho/trustbook/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/trustbook/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/trustbook/internal/adapter/repository/redis"
	"github.com/iho/trustbook/internal/infrastructure/auth"
	"github.com/iho/trustbook/internal/infrastructure/config"
	"github.com/iho/trustbook/internal/infrastructure/logger"
	"github.com/iho/trustbook/internal/infrastructure/metrics"
	"github.com/iho/trustbook/internal/infrastructure/postgres"
	"github.com/iho/trustbook/internal/infrastructure/redis"
	"github.com/iho/trustbook/internal/usecase"
)

const (
	rateLimitCleanupInterval = time.Minute
	rateLimitIdleTimeout     = 10 * time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// storage is the persistence wiring selected by STORAGE_DRIVER.
type storage struct {
	txManager   usecase.TransactionManager
	accountRepo usecase.AccountRepository
	entryRepo   usecase.EntryRepository
	retrier     usecase.Retrier
	ready       handler.Pinger
	close       func()
}

// app is a fully wired server.
type app struct {
	router      http.Handler
	rateLimiter *middleware.RateLimiter
	closers     []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	a, err := newApp(ctx, cfg, log, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer a.Close()

	go a.rateLimiter.RunCleanup(ctx, rateLimitCleanupInterval, rateLimitIdleTimeout)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      a.router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageDriver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, reg prometheus.Registerer) (*app, error) {
	a := &app{}

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.close)

	m := metrics.New(reg)

	var (
		statementCache   usecase.StatementCache
		idempotencyStore usecase.IdempotencyStore
		redisReady       handler.Pinger
	)
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		log.Info().Msg("connected to redis")

		statementCache = redisRepo.NewStatementCache(client)
		idempotencyStore = redisRepo.NewIdempotencyStore(client)
		redisReady = handler.PingerFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
	} else {
		log.Warn().Msg("REDIS_URL not set; statement cache and idempotency keys disabled")
	}

	var verifier middleware.TokenVerifier
	if cfg.AuthEnabled {
		verifier = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	idGen := postgresRepo.NewULIDGenerator()
	ledgerCfg := usecase.LedgerConfig{
		StrictOrdering:   cfg.StrictOrdering,
		MaxRecalcEntries: cfg.MaxRecalcEntries,
		Retrier:          store.retrier,
		Metrics:          m,
		Logger:           &log,
	}

	accountUC := usecase.NewAccountUseCase(store.txManager, store.accountRepo, store.entryRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(store.txManager, store.accountRepo, store.entryRepo, idGen, ledgerCfg)
	statementUC := usecase.NewStatementUseCase(store.txManager, store.accountRepo, store.entryRepo, usecase.StatementConfig{
		Cache:    statementCache,
		CacheTTL: cfg.StatementCacheTTL,
		Metrics:  m,
		Logger:   &log,
	})
	dashboardUC := usecase.NewDashboardUseCase(store.txManager, store.accountRepo, store.entryRepo)
	reconUC := usecase.NewReconciliationUseCase(store.txManager, store.accountRepo, store.entryRepo, ledgerCfg)

	checks := map[string]handler.Pinger{}
	if store.ready != nil {
		checks["database"] = store.ready
	}
	if redisReady != nil {
		checks["redis"] = redisReady
	}

	a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).OnLimited(m.RateLimited)

	a.router = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:        handler.NewAccountHandler(accountUC),
		EntryHandler:          handler.NewEntryHandler(ledgerUC),
		StatementHandler:      handler.NewStatementHandler(statementUC),
		DashboardHandler:      handler.NewDashboardHandler(dashboardUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconUC),
		HealthHandler:         handler.NewHealthHandler(checks),
		Logger:                log,
		Metrics:               m,
		MetricsHandler:        m.Handler(),
		TokenVerifier:         verifier,
		RateLimiter:           a.rateLimiter,
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
	})

	return a, nil
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	if cfg.StorageDriver == config.StorageMemory {
		log.Warn().Msg("using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return &storage{
			txManager:   memory.NewTxManager(store),
			accountRepo: memory.NewAccountRepository(store),
			entryRepo:   memory.NewEntryRepository(store),
			close:       func() {},
		}, nil
	}

	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return nil, err
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	defer cancel()

	pool, err := postgres.NewPool(connectCtx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	log.Info().Msg("connected to postgres")

	return &storage{
		txManager:   postgresRepo.NewTxManager(pool),
		accountRepo: postgresRepo.NewAccountRepository(),
		entryRepo:   postgresRepo.NewEntryRepository(),
		retrier:     postgresRepo.NewRetrier(log),
		ready:       pool,
		close:       pool.Close,
	}, nil
}
