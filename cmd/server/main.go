// Package main is the entry point for the bistro API server.
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

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"bistro/internal/config"
	coresequence "bistro/internal/core/sequence"
	"bistro/internal/domain/documents/bill"
	"bistro/internal/domain/documents/order"
	v1 "bistro/internal/infrastructure/http/v1"
	"bistro/internal/infrastructure/http/v1/handlers"
	"bistro/internal/infrastructure/sequence"
	"bistro/internal/infrastructure/storage/postgres"
	"bistro/internal/infrastructure/storage/postgres/document_repo"
	"bistro/pkg/logger"
)

func main() {
	configFile := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logging.Logger())
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infow("starting bistro server", "sequence_backend", cfg.Sequence.Backend)

	// --- Database ---
	pool, err := postgres.NewPool(ctx, cfg.Database.Pool())
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatalw("failed to apply schema", "error", err)
		}
	}

	txManager := postgres.NewTxManager(pool)
	checks := []handlers.ReadinessCheck{{Name: "postgres", Probe: pool.Ready}}

	// --- Sequences ---
	var numbers coresequence.Generator
	switch cfg.Sequence.Backend {
	case config.SequenceRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = client.Close() }()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalw("failed to connect to redis", "addr", cfg.Redis.Addr, "error", err)
		}
		numbers = sequence.NewRedis(client, cfg.Redis.Prefix)
		checks = append(checks, handlers.ReadinessCheck{
			Name:  "redis",
			Probe: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
	case config.SequenceMemory:
		log.Warn("in-memory sequences: counters are rebuilt from stored documents on startup")
		numbers = sequence.NewMemory()
	default:
		numbers = sequence.NewPostgres(pool)
	}

	// --- Documents ---
	orderRepo := document_repo.NewOrderRepo(txManager)
	billRepo := document_repo.NewBillRepo(txManager)

	if cfg.Sequence.Backend == config.SequenceMemory {
		if err := sequence.SeedFloors(ctx, numbers,
			sequence.Floor{Name: coresequence.OrderNumber, Max: orderRepo.MaxNumber},
			sequence.Floor{Name: coresequence.BillNumber, Max: billRepo.MaxNumber},
		); err != nil {
			log.Fatalw("failed to seed in-memory sequences", "error", err)
		}
	}

	orderService := order.NewService(orderRepo, numbers, txManager)
	billService := bill.NewService(billRepo, orderService, numbers, txManager)

	routerCfg := v1.RouterConfig{
		Logger:          log,
		Orders:          orderService,
		Bills:           billService,
		Sequences:       numbers,
		ReadinessChecks: checks,
	}

	if cfg.Idempotency.Enabled {
		store := postgres.NewIdempotencyStore(txManager, cfg.Idempotency.TTL)
		routerCfg.Idempotency = store
		go cleanupIdempotency(ctx, store, cfg.Idempotency.CleanupInterval)
	}

	go logPoolStats(ctx, pool)

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      v1.NewRouter(routerCfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// cleanupIdempotency drops expired idempotency keys until ctx is done.
func cleanupIdempotency(ctx context.Context, store *postgres.IdempotencyStore, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.CleanupExpired(ctx)
			if err != nil {
				logger.Warn(ctx, "idempotency cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Debug(ctx, "idempotency keys expired", "count", n)
			}
		}
	}
}

func logPoolStats(ctx context.Context, pool *postgres.Pool) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pool.LogStats(ctx)
		}
	}
}
