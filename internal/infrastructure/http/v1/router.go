// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"estoque/internal/core/paging"
	"estoque/internal/infrastructure/http/v1/handlers"
	"estoque/internal/infrastructure/http/v1/middleware"
	"estoque/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Service computes the reports
	Service handlers.ReportService

	// Sources answers readiness probes
	Sources handlers.Pinger

	// Logger for request logging
	Logger *logger.Logger

	// Paging holds page size defaults and caps
	Paging paging.Config

	// Debug switches gin to debug mode
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!). Recovery sits inside ErrorHandler
	// so a recovered panic still gets a JSON body.
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(cfg.Sources)
	healthHandler.RegisterRoutes(router.Group("/health"))

	baseHandler := handlers.NewBaseHandler(cfg.Paging)
	reportHandler := handlers.NewReportsHandler(baseHandler, cfg.Service)

	// The dashboard calls the root paths; /api/v1 is the versioned alias.
	reportHandler.RegisterRoutes(router)
	reportHandler.RegisterRoutes(router.Group("/api/v1"))

	router.NoRoute(baseHandler.NotFound)

	return router
}
