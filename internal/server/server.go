package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmorgan81/dallebot/internal/handler"
	"github.com/dmorgan81/dallebot/internal/log"
	"github.com/dmorgan81/dallebot/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do"
)

// New constructs the HTTP handler for the server.
func New(i *do.Injector) (http.Handler, error) {
	h, err := do.Invoke[*handler.Handler](i)
	if err != nil {
		return nil, err
	}
	return Routes(do.MustInvoke[*slog.Logger](i), h, do.MustInvoke[*prometheus.Registry](i)), nil
}

// Routes wires the endpoints onto a chi router. CORS is open to any origin.
func Routes(logger *slog.Logger, h *handler.Handler, reg *prometheus.Registry) http.Handler {
	metrics.Register(reg)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", h.Health)
	r.Post("/dalle", h.Generate)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return r
}

func requestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			logger := base.With("request_id", id, "method", r.Method, "path", r.URL.Path)
			w.Header().Set("X-Request-Id", id)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(log.NewContext(r.Context(), logger)))

			logger.Debug("request served", "status", ww.Status(), "bytes", ww.BytesWritten(), "duration", time.Since(start))
		})
	}
}
