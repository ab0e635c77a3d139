// Package main trains a demand model once and writes the artifact.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/your-org/demand-forecast/internal/config"
	"github.com/your-org/demand-forecast/internal/model"
	"github.com/your-org/demand-forecast/internal/synth"
	"github.com/your-org/demand-forecast/internal/training"
	"github.com/your-org/demand-forecast/pkg/logger"
)

func main() {
	var configPath, outPath string
	flag.StringVar(&configPath, "config", "config/config.yaml", "path to config file")
	flag.StringVar(&outPath, "out", "", "artifact path, overrides model.path")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(fmt.Sprintf("failed to load .env: %v", err))
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	if outPath != "" {
		cfg.Model.Path = outPath
	}

	logger.SetGlobalLogLevel(cfg.LogLevel)
	zapLogger, err := logger.NewZap(cfg.LogLevel)
	if err != nil {
		logger.Fatalf("Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen := synth.New()
	if cfg.Data.Seed != nil {
		gen = synth.New(synth.WithSeed(*cfg.Data.Seed))
	}

	trainer, err := training.NewTrainer(gen, model.NewStore(), training.Options{
		Start:     cfg.Data.StartDate.Time,
		End:       cfg.Data.EndDate.Time,
		ModelPath: cfg.Model.Path,
		Params:    cfg.Model.Params,
	}, zapLogger, nil)
	if err != nil {
		logger.Fatalf("Failed to create trainer: %v", err)
	}

	snap, err := trainer.Retrain(ctx)
	if err != nil {
		logger.Fatalf("Training failed: %v", err)
	}
	logger.Infof("Wrote model %s to %s", snap.Version, cfg.Model.Path)
}
