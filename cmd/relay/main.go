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

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	postgresRepo "github.com/iho/finledger/internal/adapter/repository/postgres"
	"github.com/iho/finledger/internal/infrastructure/amqp"
	"github.com/iho/finledger/internal/infrastructure/config"
	"github.com/iho/finledger/internal/infrastructure/eventpublisher"
	"github.com/iho/finledger/internal/infrastructure/logger"
	"github.com/iho/finledger/internal/infrastructure/metrics"
	"github.com/iho/finledger/internal/infrastructure/postgres"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("relay failed")
	}
}

type closer interface {
	Close() error
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
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

	publisher, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	if c, ok := publisher.(closer); ok {
		defer c.Close()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	if cfg.RelayMetricsPort != "" {
		server := newMetricsServer(cfg.RelayMetricsPort, registry)
		go func() {
			log.Info().Str("addr", server.Addr).Msg("serving relay metrics")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("relay metrics server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTPShutdownTimeout)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	relay := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: postgresRepo.NewOutboxRepository(pool),
		Publisher:  publisher,
		Recorder:   m,
		Logger:     log,
		BatchSize:  cfg.RelayBatchSize,
		Interval:   cfg.RelayInterval,
	})

	if err := relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

// newPublisher returns the broker publisher, or a log-only publisher when
// no AMQP URL is configured.
func newPublisher(cfg *config.Config, log zerolog.Logger) (eventpublisher.Publisher, error) {
	if cfg.AMQPURL == "" {
		log.Warn().Msg("AMQP_URL not set, events are only logged")
		return eventpublisher.NewLogPublisher(log), nil
	}

	p, err := amqp.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	log.Info().Str("exchange", cfg.AMQPExchange).Msg("connected to broker")

	return p, nil
}

// newMetricsServer exposes the relay's registry on /metrics.
func newMetricsServer(port string, gatherer prometheus.Gatherer) *http.Server {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
