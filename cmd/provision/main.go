package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FairviewRisk/provision/internal/api"
	"github.com/FairviewRisk/provision/internal/calibration"
	"github.com/FairviewRisk/provision/internal/collateral"
	"github.com/FairviewRisk/provision/internal/config"
	"github.com/FairviewRisk/provision/internal/ecl"
	"github.com/FairviewRisk/provision/internal/engine"
	"github.com/FairviewRisk/provision/internal/events"
	"github.com/FairviewRisk/provision/internal/scores"
	"github.com/FairviewRisk/provision/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	// Collateral tables (fixed at startup)
	table, err := collateral.NewTable(cfg.Collateral.Data, cfg.Collateral.Weights)
	if err != nil {
		logger.Error("invalid collateral configuration", "error", err)
		os.Exit(1)
	}

	// Event bus (optional)
	var eventsClient events.Client
	if cfg.Events.URL != "" {
		ec, err := events.NewNATSClient(ctx, cfg.Events.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to event bus, running without events", "error", err)
		} else {
			eventsClient = ec
			defer ec.Close()
			logger.Info("connected to event bus")
		}
	}

	// Score provider
	scoresClient := scores.NewHTTPClient(cfg.Scores.URL, cfg.Scores.Token)

	calib := calibration.New()
	calc := ecl.NewCalculator(table, ecl.SystemClock())

	// Revaluation engine
	eng := engine.New(db, eventsClient, calc, cfg, logger)
	eng.Start(ctx)
	defer eng.Stop()
	logger.Info("revaluation engine started", "tick_interval", cfg.TickInterval())

	eng.SetupSubscriptions()

	// API server
	router := api.NewRouter(db, eventsClient, scoresClient, calib, calc, table, cfg, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsRouter := api.NewMetricsRouter()
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: metricsRouter,
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}
