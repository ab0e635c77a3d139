// Package metrics provides the Prometheus collectors for the forecast service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "demand_forecast"

// Outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "model_unavailable"
	OutcomeFailed      = "prediction_failed"
	OutcomeBadInput    = "bad_input"
	OutcomeError       = "error"
)

// Metrics holds all Prometheus metrics for the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Serving metrics
	ForecastRequests *prometheus.CounterVec
	ForecastDuration prometheus.Histogram
	Simulations      *prometheus.CounterVec

	// Training metrics
	TrainingRuns     *prometheus.CounterVec
	TrainingDuration prometheus.Histogram
	TrainingRows     prometheus.Gauge
	ModelInfo        *prometheus.GaugeVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. A nil reg uses a
// fresh private registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		ForecastRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "requests_total",
			Help:      "Forecast requests by outcome",
		}, []string{"outcome"}),
		ForecastDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "duration_seconds",
			Help:      "Time spent producing one forecast horizon",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		Simulations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulate",
			Name:      "requests_total",
			Help:      "Single-point simulations by outcome",
		}, []string{"outcome"}),
		TrainingRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "training",
			Name:      "runs_total",
			Help:      "Model bootstrap and retrain runs by source and outcome",
		}, []string{"source", "outcome"}),
		TrainingDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "training",
			Name:      "duration_seconds",
			Help:      "Time spent fitting a model",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		TrainingRows: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "training",
			Name:      "rows",
			Help:      "Rows in the most recent training set",
		}),
		ModelInfo: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "info",
			Help:      "Set to 1 for the model version currently served",
		}, []string{"version"}),
		gatherer: reg,
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveForecast records one forecast request.
func (m *Metrics) ObserveForecast(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ForecastRequests.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		m.ForecastDuration.Observe(elapsed.Seconds())
	}
}

// ObserveSimulation records one single-point simulation.
func (m *Metrics) ObserveSimulation(outcome string) {
	if m == nil {
		return
	}
	m.Simulations.WithLabelValues(outcome).Inc()
}

// ObserveTraining records a training run. rows and elapsed are ignored for
// runs that loaded an artifact instead of fitting.
func (m *Metrics) ObserveTraining(source, outcome string, rows int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.TrainingRuns.WithLabelValues(source, outcome).Inc()
	if outcome == OutcomeOK && rows > 0 {
		m.TrainingRows.Set(float64(rows))
		m.TrainingDuration.Observe(elapsed.Seconds())
	}
}

// SetModel marks version as the served model.
func (m *Metrics) SetModel(version string) {
	if m == nil {
		return
	}
	m.ModelInfo.Reset()
	m.ModelInfo.WithLabelValues(version).Set(1)
}
