// Package main is the entry point for the estoque reporting API server.
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

	"estoque/internal/config"
	"estoque/internal/domain/reports"
	v1 "estoque/internal/infrastructure/http/v1"
	"estoque/internal/infrastructure/storage/postgres"
	"estoque/internal/infrastructure/storage/postgres/report_repo"
	"estoque/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx := context.Background()
	log.Infow("starting estoque server",
		"env", cfg.AppEnv,
		"data_sources", cfg.DataSources.Names(),
		"report_data_source", cfg.ReportDataSource,
	)

	// --- Data sources ---
	pools := make([]postgres.PoolConfig, 0, len(cfg.DataSources))
	for _, name := range cfg.DataSources.Names() {
		pc := postgres.DefaultPoolConfig(name, cfg.DataSources[name])
		pc.MaxConns = cfg.DBMaxConns
		pc.MinConns = cfg.DBMinConns
		pools = append(pools, pc)
	}
	registry, err := postgres.Open(ctx, pools)
	if err != nil {
		log.Fatalw("failed to open data sources", "error", err)
	}
	defer registry.Close()
	registry.LogStats(ctx)

	// --- Reports ---
	executor := postgres.NewExecutor(registry, cfg.QueryTimeout)
	repo := report_repo.NewReportRepo(executor, cfg.ReportDataSource, report_repo.TablesFor(cfg.TableSuffix))
	service := reports.NewService(repo, reports.WithDefaultSalesMonths(cfg.SalesMonthsDefault))

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Service: service,
		Sources: registry,
		Logger:  log,
		Paging:  cfg.Paging(),
		Debug:   cfg.IsDevelopment(),
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.AppPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
		log.Errorw("server forced to shutdown", "error", err)
	}

	registry.LogStats(shutdownCtx)
	log.Info("server stopped")
}
