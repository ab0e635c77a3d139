package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/your-org/demand-forecast/internal/feature"
	"github.com/your-org/demand-forecast/internal/forecast"
	"github.com/your-org/demand-forecast/internal/metrics"
	"github.com/your-org/demand-forecast/internal/model"
)

// statusFor maps a domain error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrModelUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, feature.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, forecast.ErrPredictionFailed):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// outcomeFor maps a domain error to its metric label.
func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, model.ErrModelUnavailable):
		return metrics.OutcomeUnavailable
	case errors.Is(err, feature.ErrInvalidInput):
		return metrics.OutcomeBadInput
	case errors.Is(err, forecast.ErrPredictionFailed):
		return metrics.OutcomeFailed
	default:
		return metrics.OutcomeError
	}
}

// publicMessage is the text shown to clients. Internal failures are not
// detailed.
func publicMessage(err error) string {
	switch statusFor(err) {
	case http.StatusServiceUnavailable:
		return "Model is not available yet, try again shortly"
	case http.StatusBadRequest:
		return err.Error()
	default:
		return "Forecast failed"
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSONError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(err))
	json.NewEncoder(w).Encode(errorBody{Error: publicMessage(err)})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response to JSON", http.StatusInternalServerError)
	}
}
