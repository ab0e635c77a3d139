package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveForecast(OutcomeOK, 5*time.Millisecond)
	m.ObserveForecast(OutcomeOK, 7*time.Millisecond)
	m.ObserveForecast(OutcomeUnavailable, 0)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ForecastRequests.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ForecastRequests.WithLabelValues(OutcomeUnavailable)))

	m.ObserveSimulation(OutcomeBadInput)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Simulations.WithLabelValues(OutcomeBadInput)))

	m.ObserveTraining("fit", OutcomeOK, 420, time.Second)
	assert.Equal(t, 420.0, testutil.ToFloat64(m.TrainingRows))

	m.SetModel("model-a")
	m.SetModel("model-b")
	assert.Equal(t, 1, testutil.CollectAndCount(m.ModelInfo))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ModelInfo.WithLabelValues("model-b")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveForecast(OutcomeOK, time.Second)
		m.ObserveSimulation(OutcomeOK)
		m.ObserveTraining("fit", OutcomeOK, 1, time.Second)
		m.SetModel("x")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New(nil)
	m.ObserveSimulation(OutcomeOK)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `demand_forecast_simulate_requests_total{outcome="ok"} 1`))
}
