// Package main exports the synthetic demand series as CSV on stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/your-org/demand-forecast/internal/config"
	"github.com/your-org/demand-forecast/internal/csvwriter"
	"github.com/your-org/demand-forecast/internal/feature"
	"github.com/your-org/demand-forecast/internal/forecast"
	"github.com/your-org/demand-forecast/internal/model"
	"github.com/your-org/demand-forecast/internal/synth"
	"github.com/your-org/demand-forecast/internal/training"
	"github.com/your-org/demand-forecast/pkg/logger"
)

func main() {
	// --- Argument Parsing ---
	configPath := flag.String("config", "config/config.yaml", "Path to the configuration file")
	startStr := flag.String("start", "", "First day to export (YYYY-MM-DD), defaults to data.start_date")
	endStr := flag.String("end", "", "Last day to export (YYYY-MM-DD), defaults to data.end_date or today")
	mode := flag.String("mode", "enriched", `"enriched" for drivers and features, "combined" for history plus forecast`)
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Fatalf("Failed to load .env: %v", err)
	}

	// --- Config and Logger Setup ---
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	// stdout carries the CSV, so every log line goes to stderr.
	zapLogger, err := logger.NewZap(cfg.LogLevel)
	if err != nil {
		logger.Fatalf("Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	logger.SetGlobal(logger.FromZap(zapLogger))

	start := cfg.Data.StartDate.Time
	end := cfg.Data.EndDate.Time
	if *startStr != "" {
		if start, err = time.Parse(time.DateOnly, *startStr); err != nil {
			logger.Fatalf("Invalid --start: %v", err)
		}
	}
	if *endStr != "" {
		if end, err = time.Parse(time.DateOnly, *endStr); err != nil {
			logger.Fatalf("Invalid --end: %v", err)
		}
	}
	if end.IsZero() {
		end = time.Now()
	}

	gen := synth.New()
	if cfg.Data.Seed != nil {
		gen = synth.New(synth.WithSeed(*cfg.Data.Seed))
	}

	// --- CSV Writer Setup ---
	writer := csvwriter.NewWriter(os.Stdout, zapLogger)

	switch *mode {
	case "enriched":
		history, err := gen.Historical(start, end)
		if err != nil {
			logger.Fatalf("Failed to generate history: %v", err)
		}
		if err := writer.WriteEnriched(feature.Enrich(history)); err != nil {
			logger.Fatalf("Failed to write CSV: %v", err)
		}
		logger.Infof("Exported %d rows from %s to %s.", len(history), start.Format(time.DateOnly), end.Format(time.DateOnly))

	case "combined":
		ctx := context.Background()
		trainer, err := training.NewTrainer(gen, model.NewStore(), training.Options{
			Start:          start,
			End:            end,
			RetrainOnStart: true,
			Params:         cfg.Model.Params,
		}, zapLogger, nil)
		if err != nil {
			logger.Fatalf("Failed to create trainer: %v", err)
		}
		snap, err := trainer.Bootstrap(ctx)
		if err != nil {
			logger.Fatalf("Failed to train model: %v", err)
		}
		forecaster, err := forecast.New(gen, cfg.Forecast.Horizon, zapLogger)
		if err != nil {
			logger.Fatalf("Failed to create forecaster: %v", err)
		}
		res, err := forecaster.Forecast(ctx, snap)
		if err != nil {
			logger.Fatalf("Forecast failed: %v", err)
		}
		if err := writer.WriteCombined(res.Combined()); err != nil {
			logger.Fatalf("Failed to write CSV: %v", err)
		}
		logger.Infof("Exported %d historical and %d forecast rows.", len(res.History), len(res.Points))

	default:
		logger.Fatalf("Unknown --mode %q", *mode)
	}
}
