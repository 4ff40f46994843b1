// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"greenbook/internal/domain/catalog"
	"greenbook/internal/domain/ledger"
	"greenbook/internal/domain/pricing"
	"greenbook/internal/domain/reports"
	"greenbook/internal/infrastructure/http/v1/handlers"
	"greenbook/internal/infrastructure/http/v1/middleware"
	"greenbook/internal/infrastructure/storage/postgres"
	"greenbook/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Engine is the ledger orchestration core
	Engine *ledger.Engine

	// Pricing manages price versions
	Pricing *pricing.Service

	// Reports aggregates the ledger
	Reports *reports.Aggregator

	// Products is the fixed product catalog
	Products *catalog.Catalog

	// Pool is nil when running on the memory store
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Actor())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Products)
	healthHandler.RegisterRoutes(router.Group("/health"))

	baseHandler := handlers.NewBaseHandler()

	// API v1
	v1 := router.Group("/api/v1")
	{
		ledgerHandler := handlers.NewLedgerHandler(baseHandler, cfg.Engine)
		ledgerHandler.RegisterRoutes(v1.Group("/ledger"))

		priceHandler := handlers.NewPriceHandler(baseHandler, cfg.Pricing)
		priceHandler.RegisterRoutes(v1.Group("/prices"))

		reportHandler := handlers.NewReportHandler(baseHandler, cfg.Reports)
		reportHandler.RegisterRoutes(v1.Group("/reports"))

		// Product catalog is read-only over HTTP; it is configured at startup.
		v1.GET("/products", func(c *gin.Context) {
			c.JSON(200, gin.H{"items": cfg.Products.Names()})
		})
	}

	return router
}
