package forecast

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/your-org/demand-forecast/internal/model"
	"github.com/your-org/demand-forecast/internal/series"
)

// DefaultHorizon is the number of days forecast when none is configured.
const DefaultHorizon = 7

// Record types emitted by Result.
const (
	TypeHistorical = "historical"
	TypeForecast   = "forecast"
)

// ExogenousSource supplies simulated drivers for the days after a date.
type ExogenousSource interface {
	Future(after time.Time, n int) series.Series
}

// Forecaster runs Extend against published snapshots.
type Forecaster struct {
	exo     ExogenousSource
	horizon int
	logger  *zap.Logger
}

// New creates a Forecaster. A nil logger disables logging.
func New(exo ExogenousSource, horizon int, logger *zap.Logger) (*Forecaster, error) {
	if exo == nil {
		return nil, fmt.Errorf("forecaster needs an exogenous source")
	}
	if horizon <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHorizon, horizon)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Forecaster{exo: exo, horizon: horizon, logger: logger}, nil
}

// Horizon returns the number of days each forecast covers.
func (f *Forecaster) Horizon() int {
	return f.horizon
}

// Forecast draws future drivers and extends snap's history with snap's model.
// The whole forecast uses the one snapshot passed in.
func (f *Forecaster) Forecast(ctx context.Context, snap *model.Snapshot) (*Result, error) {
	if snap == nil {
		return nil, model.ErrModelUnavailable
	}
	last, err := snap.History.Last()
	if err != nil {
		return nil, fmt.Errorf("snapshot history: %w", err)
	}

	start := time.Now()
	future := f.exo.Future(last.Date, f.horizon)
	points, err := Extend(ctx, snap.Model, snap.History, future)
	if err != nil {
		f.logger.Error("forecast failed",
			zap.String("model_version", snap.Version),
			zap.Error(err))
		return nil, err
	}
	f.logger.Debug("forecast complete",
		zap.String("model_version", snap.Version),
		zap.Int("horizon", len(points)),
		zap.Duration("elapsed", time.Since(start)))

	return &Result{Version: snap.Version, History: snap.History, Points: points}, nil
}

// Result is one forecast together with the history it extends.
type Result struct {
	Version string
	History series.Series
	Points  []Point
}

// Record is one forecast day as served to clients.
type Record struct {
	Date           string  `json:"date"`
	ForecastDemand float64 `json:"forecast_demand"`
}

// CombinedRecord is one day of the merged historical and forecast series.
type CombinedRecord struct {
	Date   string  `json:"date"`
	Demand float64 `json:"demand"`
	Type   string  `json:"type"`
}

// Records returns the forecast days in date order.
func (r *Result) Records() []Record {
	out := make([]Record, len(r.Points))
	for i, p := range r.Points {
		out[i] = Record{Date: p.Date.Format(time.DateOnly), ForecastDemand: p.Demand}
	}
	return out
}

// Combined returns the history followed by the forecast, in date order.
func (r *Result) Combined() []CombinedRecord {
	out := make([]CombinedRecord, 0, len(r.History)+len(r.Points))
	for _, o := range r.History {
		out = append(out, CombinedRecord{Date: o.Date.Format(time.DateOnly), Demand: o.Demand, Type: TypeHistorical})
	}
	for _, p := range r.Points {
		out = append(out, CombinedRecord{Date: p.Date.Format(time.DateOnly), Demand: p.Demand, Type: TypeForecast})
	}
	return out
}
