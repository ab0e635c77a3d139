// Package main is the entry point of the demand forecast web service.
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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/your-org/demand-forecast/internal/config"
	"github.com/your-org/demand-forecast/internal/forecast"
	"github.com/your-org/demand-forecast/internal/http/handler"
	"github.com/your-org/demand-forecast/internal/http/router"
	"github.com/your-org/demand-forecast/internal/metrics"
	"github.com/your-org/demand-forecast/internal/model"
	"github.com/your-org/demand-forecast/internal/synth"
	"github.com/your-org/demand-forecast/internal/training"
	"github.com/your-org/demand-forecast/pkg/logger"
)

func main() {
	// --- Configuration ---
	configPath := flag.String("config", "config/config.yaml", "Path to the configuration file")
	envFile := flag.String("env", ".env", "Optional .env file loaded before the configuration")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", *envFile, err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger ---
	logger.SetGlobalLogLevel(cfg.LogLevel)
	zapLogger, err := logger.NewZap(cfg.LogLevel)
	if err != nil {
		logger.Fatalf("Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	logger.Info("Demand forecast service starting...")
	logger.Infof("Loaded configuration from: %s", *configPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// --- Model ---
	gen := newGenerator(cfg)
	store := model.NewStore()
	trainer, err := training.NewTrainer(gen, store, training.Options{
		Start:          cfg.Data.StartDate.Time,
		End:            cfg.Data.EndDate.Time,
		ModelPath:      cfg.Model.Path,
		RetrainOnStart: bool(cfg.Model.RetrainOnStart),
		Params:         cfg.Model.Params,
	}, zapLogger.Named("trainer"), m)
	if err != nil {
		logger.Fatalf("Failed to create trainer: %v", err)
	}
	snap, err := trainer.Bootstrap(ctx)
	if err != nil {
		logger.Fatalf("Failed to bootstrap model: %v", err)
	}
	logger.Infof("Serving model %s trained on %d days of history", snap.Version, len(snap.History))

	if interval := cfg.Model.RetrainInterval(); interval > 0 {
		go trainer.Run(ctx, interval)
	}

	// --- HTTP ---
	forecaster, err := forecast.New(gen, cfg.Forecast.Horizon, zapLogger.Named("forecast"))
	if err != nil {
		logger.Fatalf("Failed to create forecaster: %v", err)
	}
	forecastHandler, err := handler.NewForecastHandler(store, forecaster, cfg.Forecast.ChartHistoryDays, zapLogger.Named("handler"), m)
	if err != nil {
		logger.Fatalf("Failed to create forecast handler: %v", err)
	}
	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: router.NewRouter(&router.Config{
			ForecastHandler: forecastHandler,
			Store:           store,
			Metrics:         m,
			Logger:          zapLogger.Named("http"),
			RequestTimeout:  cfg.Server.RequestTimeout,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP server listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- Graceful Shutdown ---
	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal, initiating shutdown...")
	case err := <-errCh:
		logger.Errorf("HTTP server failed: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP server shutdown failed: %v", err)
	}
	logger.Info("Demand forecast service shut down gracefully.")
}

func newGenerator(cfg *config.Config) *synth.Generator {
	if cfg.Data.Seed != nil {
		return synth.New(synth.WithSeed(*cfg.Data.Seed))
	}
	return synth.New()
}
