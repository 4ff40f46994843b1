// Package main is the entry point for the greenbook API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"greenbook/internal/core/clock"
	"greenbook/internal/core/lock"
	"greenbook/internal/core/tx"
	"greenbook/internal/domain/audit"
	"greenbook/internal/domain/catalog"
	"greenbook/internal/domain/costing"
	"greenbook/internal/domain/ledger"
	"greenbook/internal/domain/pricing"
	"greenbook/internal/domain/reports"
	v1 "greenbook/internal/infrastructure/http/v1"
	"greenbook/internal/infrastructure/storage/memory"
	"greenbook/internal/infrastructure/storage/postgres"
	"greenbook/pkg/logger"
)

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting greenbook server")

	// --- Product catalog ---
	products := catalog.FromCSV(os.Getenv("CATALOG_PRODUCTS"))
	log.Infow("product catalog loaded", "products", products.Len())

	// --- Storage ---
	var (
		eventStore ledger.Store
		priceStore pricing.Store
		txm        tx.Manager
		sink       audit.Sink
		pool       *postgres.Pool
	)

	switch getEnv("STORAGE", "postgres") {
	case "memory":
		eventStore = memory.NewEventStore()
		priceStore = memory.NewPriceStore()
		txm = tx.Nop{}
		sink = audit.LogSink{}
		log.Info("running on in-memory storage")

	default:
		dsn := mustEnv("DATABASE_URL")
		pool, err = postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()
		log.Info("database connection established")

		txManager := postgres.NewTxManager(pool)
		eventStore = postgres.NewEventRepo(txManager)
		priceStore = postgres.NewPriceRepo(txManager)
		txm = txManager

		auditSink, err := postgres.NewAuditSink(txManager)
		if err != nil {
			log.Fatalw("failed to initialize audit sink", "error", err)
		}
		sink = auditSink
	}

	// --- Domain services ---
	locks := lock.NewKeyed(getEnvDuration("LOCK_WAIT", 5*time.Second))
	calendar := clock.System{}

	pricingService := pricing.NewService(priceStore, products, locks, txm)
	costCalculator := costing.NewCalculator(eventStore)
	engine := ledger.NewEngine(eventStore, products, pricingService, costCalculator, calendar, locks, txm, sink)
	aggregator := reports.NewAggregator(engine)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Engine:   engine,
		Pricing:  pricingService,
		Reports:  aggregator,
		Products: products,
		Pool:     pool,
		Logger:   log,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
