package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/iho/finledger/internal/adapter/http"
	"github.com/iho/finledger/internal/adapter/http/handler"
	"github.com/iho/finledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/finledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/finledger/internal/adapter/repository/redis"
	"github.com/iho/finledger/internal/infrastructure/config"
	"github.com/iho/finledger/internal/infrastructure/logger"
	"github.com/iho/finledger/internal/infrastructure/metrics"
	"github.com/iho/finledger/internal/infrastructure/postgres"
	"github.com/iho/finledger/internal/infrastructure/redis"
	"github.com/iho/finledger/internal/usecase"
)

func main() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// Amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	ctx = log.WithContext(ctx)

	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseConnectTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if cfg.MigrationsEnabled {
		if err := postgres.RunMigrations(cfg.DatabaseURL, log); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	var redisClient *goredis.Client
	if cfg.RedisEnabled {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL, cfg.DatabaseConnectTimeout)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	categoryRepo := postgresRepo.NewCategoryRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, idGen)
	transactionUC := usecase.NewTransactionUseCase(txManager, accountRepo, categoryRepo, transactionRepo, outboxRepo, idGen).
		WithRecorder(m)
	reconciliationUC := usecase.NewReconciliationUseCase(txManager, accountRepo, ledgerRepo, outboxRepo, idGen).
		WithRecorder(m)
	reportUC := usecase.NewReportUseCase(ledgerRepo)

	var (
		cache            usecase.Cache
		idempotencyStore middleware.IdempotencyStore
		redisPinger      handler.Pinger
	)
	if redisClient != nil {
		cache = redisRepo.NewCache(redisClient)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		redisPinger = handler.PingerFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		transactionUC.WithCache(cache)
		categoryUC.WithCache(cache)
		reconciliationUC.WithCache(cache)
	}
	dashboardUC := usecase.NewDashboardUseCase(ledgerRepo, transactionRepo, cache, cfg.DashboardCacheTTL).
		WithRecorder(m)

	if cfg.SeedDefaultCategories {
		created, err := categoryUC.SeedDefaults(ctx, cfg.DefaultOwnerID)
		if err != nil {
			return fmt.Errorf("seed default categories: %w", err)
		}
		log.Info().Int("created", created).Str("owner_id", cfg.DefaultOwnerID).Msg("default categories seeded")
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	rateLimiter.OnLimited = m.RateLimited

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransactionHandler:    handler.NewTransactionHandler(transactionUC),
		AccountHandler:        handler.NewAccountHandler(accountUC),
		CategoryHandler:       handler.NewCategoryHandler(categoryUC),
		DashboardHandler:      handler.NewDashboardHandler(dashboardUC, reportUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		HealthHandler:         handler.NewHealthHandler(pool, redisPinger),
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		RateLimiter:           rateLimiter,
		Metrics:               m,
		MetricsHandler:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:                log,
		DefaultOwnerID:        cfg.DefaultOwnerID,
		AllowedOrigin:         cfg.CORSAllowedOrigin,
	})

	server := newHTTPServer(cfg, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting server")
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

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")

	return nil
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}
