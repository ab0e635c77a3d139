package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/your-org/demand-forecast/internal/feature"
	"github.com/your-org/demand-forecast/internal/forecast"
	"github.com/your-org/demand-forecast/internal/metrics"
)

// SimulationResult is the JSON form of a simulation.
type SimulationResult struct {
	Prediction   float64 `json:"prediction"`
	ModelVersion string  `json:"model_version"`
}

// Simulate predicts demand for one hand-entered feature vector. The form
// carries every feature by name. Clients asking for application/json get
// a SimulationResult instead of the HTML page.
func (h *ForecastHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	wantJSON := strings.Contains(r.Header.Get("Accept"), "application/json")
	fail := func(err error) {
		h.metrics.ObserveSimulation(outcomeFor(err))
		h.logger.Warn("simulation failed", zap.Error(err))
		if wantJSON {
			writeJSONError(w, err)
			return
		}
		h.renderError(w, err)
	}

	if err := r.ParseForm(); err != nil {
		fail(fmt.Errorf("%w: malformed form: %v", feature.ErrInvalidInput, err))
		return
	}
	v, err := feature.ParseVector(r.PostForm)
	if err != nil {
		fail(err)
		return
	}
	snap, err := h.store.Current()
	if err != nil {
		fail(err)
		return
	}
	y, err := snap.Model.Predict(r.Context(), v)
	if err != nil {
		fail(fmt.Errorf("%w: %w", forecast.ErrPredictionFailed, err))
		return
	}
	h.metrics.ObserveSimulation(metrics.OutcomeOK)

	res := SimulationResult{
		Prediction:   decimal.NewFromFloat(y).RoundBank(2).InexactFloat64(),
		ModelVersion: snap.Version,
	}
	w.Header().Set(versionHeader, snap.Version)
	if wantJSON {
		writeJSON(w, res)
		return
	}
	h.pages.render(w, h.logger, http.StatusOK, "simulate.html", map[string]any{
		"Prediction": res.Prediction,
		"Version":    res.ModelVersion,
	})
}
