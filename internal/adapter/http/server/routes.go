package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ratepiratepi/webfleet-gps-api/internal/adapter/http/handler"
	"github.com/Ratepiratepi/webfleet-gps-api/internal/adapter/http/middleware"
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	// System health, unauthenticated (Docker healthcheck uses HEAD)
	mux.HandleFunc("GET /health", routes.health.Check)
	mux.HandleFunc("HEAD /health", routes.health.Check)

	setupMetricsRoute(mux)

	mux.Handle("GET /{$}", m.RequireKey(routes.positions.List))                  // Full snapshot, root alias
	mux.Handle("GET /positions", m.RequireKey(routes.positions.List))            // Full snapshot
	mux.Handle("GET /positions/vehicle", m.RequireKey(routes.positions.Vehicle)) // Filter by plate or number
	mux.Handle("GET /positions/moving", m.RequireKey(routes.positions.Moving))   // Moving vehicles only
	mux.Handle("GET /positions/stopped", m.RequireKey(routes.positions.Stopped)) // Stopped vehicles only
	mux.Handle("GET /stats", m.RequireKey(routes.positions.Stats))               // Operational counters

	if routes.stream != nil {
		mux.Handle("GET /positions/ws", m.RequireKey(routes.stream.Subscribe)) // Live snapshot stream
	}

	// Everything else documents the API surface, behind the same key as
	// the data endpoints
	mux.Handle("/", m.RequireKey(handler.NotFound))
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func setupMetricsRoute(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())
}
