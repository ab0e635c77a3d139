// Package router wires the HTTP handlers into a chi router.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/your-org/demand-forecast/internal/http/handler"
	"github.com/your-org/demand-forecast/internal/metrics"
	"github.com/your-org/demand-forecast/internal/model"
)

// Config holds router configuration
type Config struct {
	ForecastHandler *handler.ForecastHandler
	Store           *model.Store
	Metrics         *metrics.Metrics
	Logger          *zap.Logger
	RequestTimeout  time.Duration
}

// NewRouter creates a new HTTP router
func NewRouter(cfg *Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(AccessLog(logger, "/health", "/metrics"))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	// Health check and metrics
	r.Get("/health", handler.NewHealthHandler(cfg.Store))
	r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())

	cfg.ForecastHandler.RegisterRoutes(r)

	return r
}

// AccessLog logs one line per request. 4xx responses log at warn, 5xx at
// error. Requests to skipPaths are not logged.
func AccessLog(logger *zap.Logger, skipPaths ...string) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			level := zap.InfoLevel
			switch {
			case status >= 500:
				level = zap.ErrorLevel
			case status >= 400:
				level = zap.WarnLevel
			}

			logger.Log(level, "request completed",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("response_size", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("ip", r.RemoteAddr))

			if d := time.Since(start); d > time.Second {
				logger.Warn("slow request", zap.String("path", r.URL.Path), zap.Duration("duration", d))
			}
		})
	}
}
