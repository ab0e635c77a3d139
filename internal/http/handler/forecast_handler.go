package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/your-org/demand-forecast/internal/chart"
	"github.com/your-org/demand-forecast/internal/csvwriter"
	"github.com/your-org/demand-forecast/internal/feature"
	"github.com/your-org/demand-forecast/internal/forecast"
	"github.com/your-org/demand-forecast/internal/metrics"
	"github.com/your-org/demand-forecast/internal/model"
)

// ForecastHandler serves the forecast pages, the combined series and the
// what-if simulation.
type ForecastHandler struct {
	store      *model.Store
	forecaster *forecast.Forecaster
	chartDays  int
	logger     *zap.Logger
	metrics    *metrics.Metrics
	pages      pages
}

// NewForecastHandler creates a ForecastHandler. logger and m may be nil.
func NewForecastHandler(store *model.Store, f *forecast.Forecaster, chartDays int, logger *zap.Logger, m *metrics.Metrics) (*ForecastHandler, error) {
	if store == nil || f == nil {
		return nil, errors.New("forecast handler needs a store and a forecaster")
	}
	p, err := parsePages()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ForecastHandler{
		store:      store,
		forecaster: f,
		chartDays:  chartDays,
		logger:     logger,
		metrics:    m,
		pages:      p,
	}, nil
}

// RegisterRoutes registers the forecast routes on r.
func (h *ForecastHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/forecast", h.ForecastPage)
	r.Get("/forecast/plot.png", h.ForecastPlot)
	r.Get("/combined_data_json", h.CombinedJSON)
	r.Get("/combined_data", h.CombinedCSV)
	r.Post("/simulate", h.Simulate)
}

type formField struct {
	Name    string
	Kind    string
	Example string
}

var fieldExamples = map[string]string{
	"price":          "10.00",
	"promotion":      "0",
	"holiday":        "0",
	"temperature":    "20.00",
	"day_of_week":    "2",
	"weekend":        "0",
	"month":          "6",
	"quarter":        "2",
	"is_month_start": "0",
	"is_month_end":   "0",
	"lag_1":          "100",
	"lag_7":          "100",
	"rolling_mean_3": "100",
	"rolling_mean_7": "100",
}

// Index renders the what-if form.
func (h *ForecastHandler) Index(w http.ResponseWriter, r *http.Request) {
	names := feature.Names()
	fields := make([]formField, len(names))
	for i, name := range names {
		kind := "integer"
		if feature.Continuous(name) {
			kind = "number"
		}
		fields[i] = formField{Name: name, Kind: kind, Example: fieldExamples[name]}
	}
	h.pages.render(w, h.logger, http.StatusOK, "index.html", map[string]any{
		"Fields":  fields,
		"Horizon": h.forecaster.Horizon(),
	})
}

// run forecasts against the current snapshot and records the outcome.
func (h *ForecastHandler) run(ctx context.Context) (*forecast.Result, error) {
	start := time.Now()
	snap, err := h.store.Current()
	if err == nil {
		var res *forecast.Result
		res, err = h.forecaster.Forecast(ctx, snap)
		if err == nil {
			h.metrics.ObserveForecast(metrics.OutcomeOK, time.Since(start))
			return res, nil
		}
	}
	h.metrics.ObserveForecast(outcomeFor(err), time.Since(start))
	h.logger.Warn("forecast request failed", zap.Error(err))
	return nil, err
}

func (h *ForecastHandler) renderError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	h.pages.render(w, h.logger, status, "error.html", map[string]any{
		"Status":  http.StatusText(status),
		"Message": publicMessage(err),
	})
}

func (h *ForecastHandler) plot(res *forecast.Result) ([]byte, error) {
	hist := make([]chart.Point, len(res.History))
	for i, o := range res.History {
		hist[i] = chart.Point{Date: o.Date, Value: o.Demand}
	}
	fc := make([]chart.Point, len(res.Points))
	for i, p := range res.Points {
		fc[i] = chart.Point{Date: p.Date, Value: p.Demand}
	}
	var buf bytes.Buffer
	if err := chart.PNG(&buf, hist, fc, chart.Options{HistoryDays: h.chartDays}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ForecastPage renders the chart and the forecast table.
func (h *ForecastHandler) ForecastPage(w http.ResponseWriter, r *http.Request) {
	res, err := h.run(r.Context())
	if err != nil {
		h.renderError(w, err)
		return
	}
	png, err := h.plot(res)
	if err != nil {
		h.logger.Error("failed to render chart", zap.Error(err))
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}
	h.pages.render(w, h.logger, http.StatusOK, "forecast.html", map[string]any{
		"Version": res.Version,
		"Chart":   template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)),
		"Records": res.Records(),
	})
}

// ForecastPlot serves the chart alone.
func (h *ForecastHandler) ForecastPlot(w http.ResponseWriter, r *http.Request) {
	res, err := h.run(r.Context())
	if err != nil {
		http.Error(w, publicMessage(err), statusFor(err))
		return
	}
	png, err := h.plot(res)
	if err != nil {
		h.logger.Error("failed to render chart", zap.Error(err))
		http.Error(w, "Failed to render chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

// CombinedJSON serves the historical and forecast series as JSON records.
func (h *ForecastHandler) CombinedJSON(w http.ResponseWriter, r *http.Request) {
	res, err := h.run(r.Context())
	if err != nil {
		writeJSONError(w, err)
		return
	}
	w.Header().Set(versionHeader, res.Version)
	writeJSON(w, res.Combined())
}

// CombinedCSV serves the historical and forecast series as CSV.
func (h *ForecastHandler) CombinedCSV(w http.ResponseWriter, r *http.Request) {
	res, err := h.run(r.Context())
	if err != nil {
		http.Error(w, publicMessage(err), statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="combined_data.csv"`)
	w.Header().Set(versionHeader, res.Version)
	if err := csvwriter.NewWriter(w, h.logger).WriteCombined(res.Combined()); err != nil {
		h.logger.Error("failed to write combined csv", zap.Error(err))
	}
}
