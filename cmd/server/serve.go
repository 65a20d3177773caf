package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notifyhub/dashcore/internal/api"
	"github.com/notifyhub/dashcore/internal/cache"
	"github.com/notifyhub/dashcore/internal/config"
	"github.com/notifyhub/dashcore/internal/db"
	"github.com/notifyhub/dashcore/internal/mediator"
	"github.com/notifyhub/dashcore/internal/metrics"
	"github.com/notifyhub/dashcore/internal/pipeline"
	"github.com/notifyhub/dashcore/internal/provider"
	"github.com/notifyhub/dashcore/internal/publisher"
	"github.com/notifyhub/dashcore/internal/ratelimiter"
	"github.com/notifyhub/dashcore/internal/relay"
	"github.com/notifyhub/dashcore/internal/repository"
	"github.com/notifyhub/dashcore/internal/service"
	"github.com/notifyhub/dashcore/internal/worker"
)

func newServeCommand() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, event relays and cache sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			return serve(cmd.Context(), cfg, logger, skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on startup")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger, skipMigrations bool) error {
	// ---- database ----
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if !skipMigrations {
		if err := db.Migrate(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("database migrations applied")
	}

	// ---- metrics ----
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// ---- cache ----
	registry := cache.NewRegistry(cfg.CacheTTL, m.OnRefresh)
	store := cache.NewStore(cfg.CacheSize, cfg.CacheEntryTTL, m.StoreHooks())

	// ---- notification publisher + mediator ----
	pub, err := publisher.New(publisher.Strategy(cfg.PublisherStrategy), cfg.PublisherCapacity, logger, m.PublisherHooks())
	if err != nil {
		return err
	}
	m.RegisterQueueDepth(pub.Stats)

	med := mediator.New(pub, pipeline.Default(pipeline.Deps{
		Logger:        logger,
		Registry:      registry,
		Store:         store,
		SlowThreshold: cfg.SlowRequestThreshold,
		Observe:       m.ObserveRequest,
	})...)

	if err := service.Register(med, repository.NewPgCustomerRepository(pool), logger); err != nil {
		return err
	}

	// ---- event relays ----
	if err := relay.SubscribeCustomerEvents(med, "log", relay.NewLogHandler(logger)); err != nil {
		return err
	}
	if cfg.WebhookURL != "" {
		forwarder := relay.NewWebhookForwarder(
			ratelimiter.New(cfg.WebhookRateLimit),
			provider.NewWebhookProvider(cfg.WebhookURL, cfg.WebhookTimeout),
		)
		if err := relay.SubscribeCustomerEvents(med, "webhook", forwarder); err != nil {
			return err
		}
		logger.Info("webhook relay enabled", zap.String("url", cfg.WebhookURL))
	}
	if cfg.AMQPURL != "" {
		conn, err := relay.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return err
		}
		defer conn.Close() //nolint:errcheck

		if err := relay.SubscribeCustomerEvents(med, "amqp", relay.NewAMQPRelay(conn.Channel(), cfg.AMQPExchange)); err != nil {
			return err
		}
		logger.Info("amqp relay enabled", zap.String("exchange", cfg.AMQPExchange))
	}

	// ---- background workers ----
	// Context for all background goroutines; cancelled on shutdown signal.
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	sweeper := worker.NewCacheSweeper(store, cfg.CacheSweepInterval, logger)
	go sweeper.Run(workerCtx)

	// ---- HTTP server ----
	srv := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: api.NewRouter(api.Deps{
			Sender:    med,
			Publisher: pub,
			Registry:  registry,
			Store:     store,
			Gatherer:  reg,
			DB:        pool,
			Logger:    logger,
		}),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("publisher_strategy", cfg.PublisherStrategy),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// ---- graceful shutdown ----
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var runErr error
	select {
	case <-sigCtx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-serverErr:
		logger.Error("server error", zap.Error(runErr))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer shutdownCancel()

	// 1. Stop accepting new HTTP requests; in-flight requests may still publish.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// 2. Drain queued notifications, cancelling handlers still running at the deadline.
	if err := pub.Close(shutdownCtx); err != nil {
		logger.Warn("notification publisher did not drain before the deadline", zap.Error(err))
	}

	// 3. Stop background workers.
	cancelWorkers()

	if runErr != nil {
		return runErr
	}
	logger.Info("server stopped cleanly")
	return nil
}
