// Package main runs the fee advisor HTTP API:
// - REST endpoints for network status, historical data, fee quotes and notifications
// - WebSocket network-update broadcasts
// - Async persistence of sampled congestion reports
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solana-fee-advisor/internal/api"
	"solana-fee-advisor/internal/config"
	"solana-fee-advisor/internal/congestion"
	"solana-fee-advisor/internal/fees"
	"solana-fee-advisor/internal/logging"
	"solana-fee-advisor/internal/notifications"
	"solana-fee-advisor/internal/observability"
	"solana-fee-advisor/internal/recorder"
	"solana-fee-advisor/internal/sampling"
	"solana-fee-advisor/internal/storage"
	chstore "solana-fee-advisor/internal/storage/clickhouse"
	"solana-fee-advisor/internal/storage/memory"
	"solana-fee-advisor/internal/storage/migrations"
	pgstore "solana-fee-advisor/internal/storage/postgres"
)

// allStores holds all storage implementations.
type allStores struct {
	sinks      []recorder.Sink
	alertStore storage.AlertStore
	mode       string
}

func main() {
	// Load .env file if exists
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Named("server")

	if cfg.LogFormat != logging.FormatConsole {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to create stores", zap.Error(err))
	}
	defer cleanup()

	rec := recorder.New(recorder.Options{
		Sinks:        stores.sinks,
		BufferSize:   cfg.RecordBuffer,
		WriteTimeout: cfg.WriteTimeout,
		Logger:       logger,
	})

	src := sampling.New()
	calculator := fees.NewCalculator(fees.WithMalformedOverrideHook(func(raw string, err error) {
		observability.RecordMalformedOverride()
		logger.Debug("ignoring priority fee override", zap.String("raw", raw), zap.Error(err))
	}))

	server := api.NewServer(api.Options{
		Classifier:        congestion.NewClassifier(src),
		Generator:         congestion.NewGenerator(src),
		Calculator:        calculator,
		Notifications:     notifications.NewService(stores.alertStore, logger),
		Recorder:          rec,
		CORSOrigins:       cfg.CORSOrigins,
		BroadcastInterval: cfg.BroadcastInterval,
		StorageMode:       stores.mode,
		Logger:            logger,
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to signal completion
	done := make(chan struct{})

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info("received signal, initiating graceful shutdown", zap.String("signal", sig.String()))
		cancel()

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			log.Warn("received second signal, forcing immediate shutdown", zap.String("signal", sig.String()))
			os.Exit(1)
		case <-time.After(30 * time.Second):
			log.Warn("graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	// The recorder outlives ctx so samples from requests drained by
	// Shutdown are still flushed.
	recCtx, recCancel := context.WithCancel(context.Background())
	defer recCancel()
	recorderDone := make(chan struct{})
	go func() {
		defer close(recorderDone)
		rec.Run(recCtx)
	}()
	go server.Hub().Run(ctx)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server",
			zap.String("addr", cfg.Addr),
			zap.String("storage", stores.mode),
			zap.Duration("broadcast_interval", cfg.BroadcastInterval),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		log.Error("HTTP server error", zap.Error(err))
		cancel()
	}

	drain(httpServer, recCancel, recorderDone, 10*time.Second, log)
	close(done)
	log.Info("shutdown complete")
}

// drain stops accepting requests, waits for in-flight ones, then stops the
// recorder and waits for its final flush.
func drain(srv *http.Server, stopRecorder context.CancelFunc, recorderDone <-chan struct{}, timeout time.Duration, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("HTTP server shutdown", zap.Error(err))
	}

	stopRecorder()
	<-recorderDone
}

// createStores creates the alert store and the recorder sinks.
func createStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*allStores, func(), error) {
	if cfg.UseMemory {
		stores := &allStores{
			sinks:      []recorder.Sink{{Name: "memory", Store: memory.NewNetworkStatusStore(cfg.MemoryCapacity)}},
			alertStore: memory.NewAlertStore(),
			mode:       "memory",
		}
		return stores, func() {}, nil
	}

	stores := &allStores{}
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// PostgreSQL
	if cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		closers = append(closers, pool.Close)

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("postgres migrations: %w", err)
		}
		log.Info("postgres migrations applied")

		stores.sinks = append(stores.sinks, recorder.Sink{Name: "postgres", Store: pgstore.NewNetworkStatusStore(pool)})
		stores.alertStore = pgstore.NewAlertStore(pool)
		stores.mode = "postgres"
	} else {
		stores.alertStore = memory.NewAlertStore()
		stores.mode = "memory"
	}

	// ClickHouse
	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		closers = append(closers, func() { conn.Close() })
		log.Info("clickhouse migrations applied")

		stores.sinks = append(stores.sinks, recorder.Sink{Name: "clickhouse", Store: chstore.NewCongestionSampleStore(conn)})
		stores.mode += "+clickhouse"
	}

	return stores, cleanup, nil
}
