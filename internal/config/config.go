// Package config handles application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/your-org/demand-forecast/internal/model"
)

// Config defines the structure for all application configuration.
type Config struct {
	LogLevel string       `yaml:"log_level"` // Overridden by env
	Server   ServerConf   `yaml:"server"`
	Data     DataConf     `yaml:"data"`
	Forecast ForecastConf `yaml:"forecast"`
	Model    ModelConf    `yaml:"model"`
}

// ServerConf holds HTTP server settings.
type ServerConf struct {
	Addr           string        `yaml:"addr"` // Overridden by env
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// DataConf holds settings for the synthetic history.
type DataConf struct {
	StartDate Date    `yaml:"start_date"`
	EndDate   Date    `yaml:"end_date"` // Zero means today
	Seed      *uint64 `yaml:"seed"`     // Overridden by env; nil means unseeded
}

// ForecastConf holds settings for the iterative forecast.
type ForecastConf struct {
	Horizon          int `yaml:"horizon"`
	ChartHistoryDays int `yaml:"chart_history_days"`
}

// ModelConf holds the model lifecycle settings.
type ModelConf struct {
	Path                   string       `yaml:"path"` // Overridden by env
	RetrainOnStart         FlexBool     `yaml:"retrain_on_start"`
	RetrainIntervalMinutes int          `yaml:"retrain_interval_minutes"`
	Params                 model.Params `yaml:"params"`
}

// RetrainInterval returns the periodic retrain interval, zero when disabled.
func (m ModelConf) RetrainInterval() time.Duration {
	return time.Duration(m.RetrainIntervalMinutes) * time.Minute
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Server: ServerConf{
			Addr:           ":8080",
			RequestTimeout: 60 * time.Second,
		},
		Data: DataConf{
			StartDate: Date{time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
		Forecast: ForecastConf{
			Horizon:          7,
			ChartHistoryDays: 60,
		},
		Model: ModelConf{
			Path:           "models/model.json",
			RetrainOnStart: true,
			Params:         model.DefaultParams(),
		},
	}
}

// LoadConfig loads configuration from the specified YAML file path
// and environment variables. An empty path uses the defaults only.
func LoadConfig(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
		}
	}

	// Overrides from environment variables
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if addr := os.Getenv("SERVER_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if path := os.Getenv("MODEL_PATH"); path != "" {
		cfg.Model.Path = path
	}
	if seed := os.Getenv("DATA_SEED"); seed != "" {
		v, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid DATA_SEED %q: %w", seed, err)
		}
		cfg.Data.Seed = &v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values the services cannot run without.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must be set")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive")
	}
	if c.Data.StartDate.IsZero() {
		return fmt.Errorf("data.start_date must be set")
	}
	if !c.Data.EndDate.IsZero() && c.Data.EndDate.Before(c.Data.StartDate.Time) {
		return fmt.Errorf("data.end_date %s is before data.start_date %s", c.Data.EndDate, c.Data.StartDate)
	}
	if c.Forecast.Horizon <= 0 {
		return fmt.Errorf("forecast.horizon must be positive, got %d", c.Forecast.Horizon)
	}
	if c.Forecast.ChartHistoryDays <= 0 {
		return fmt.Errorf("forecast.chart_history_days must be positive, got %d", c.Forecast.ChartHistoryDays)
	}
	if c.Model.RetrainIntervalMinutes < 0 {
		return fmt.Errorf("model.retrain_interval_minutes must not be negative")
	}
	if err := c.Model.Params.Validate(); err != nil {
		return fmt.Errorf("model.params: %w", err)
	}
	return nil
}
