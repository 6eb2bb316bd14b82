// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"bistro/internal/core/sequence"
	"bistro/internal/infrastructure/http/v1/handlers"
	"bistro/internal/infrastructure/http/v1/middleware"
	"bistro/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	Orders handlers.OrderService
	Bills  handlers.BillService

	// Sequences backs the counter inspection and seed endpoints
	Sequences sequence.Generator

	// Idempotency enables replay of POST requests carrying Idempotency-Key. Optional.
	Idempotency middleware.IdempotencyStore

	// ReadinessChecks are probed by /health/ready
	ReadinessChecks []handlers.ReadinessCheck
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.ReadinessChecks...)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	v1 := router.Group("/api/v1")
	if cfg.Idempotency != nil {
		v1.Use(middleware.Idempotency(cfg.Idempotency))
	}

	base := handlers.NewBaseHandler()
	orderHandler := handlers.NewOrderHandler(base, cfg.Orders)
	billHandler := handlers.NewBillHandler(base, cfg.Bills)

	registerOrderRoutes(v1.Group("/orders"), orderHandler, billHandler)
	registerBillRoutes(v1.Group("/bills"), billHandler)

	billingHandler := handlers.NewBillingHandler(base)
	v1.POST("/billing/quote", billingHandler.Quote)

	if cfg.Sequences != nil {
		seqHandler := handlers.NewSequenceHandler(base, cfg.Sequences)
		seq := v1.Group("/sequences")
		seq.GET("/:name", seqHandler.Get)
		seq.PUT("/:name", seqHandler.Seed)
	}

	return router
}
