// Package httptransport is the HTTP edge of the gateway: routing,
// request-scoped middleware, and translation between domain errors and the
// JSON error contract.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codyjhsieh/axlepolicy/internal/platform/middleware"
)

// NewRouter wires the public endpoints behind the shared middleware chain.
func NewRouter(policies *PolicyHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	policies.Register(r)
	return r
}
