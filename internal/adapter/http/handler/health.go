package handler

import (
	"net/http"

	"github.com/Ratepiratepi/webfleet-gps-api/internal/domain/models"
	"github.com/Ratepiratepi/webfleet-gps-api/internal/service/query"
	"github.com/Ratepiratepi/webfleet-gps-api/pkg/logger"
)

type Health struct {
	source SnapshotSource
	log    logger.Logger
}

func NewHealth(source SnapshotSource, log logger.Logger) *Health {
	return &Health{
		source: source,
		log:    log,
	}
}

type healthResponse struct {
	Status string `json:"status"`
	models.StatsView
}

// Check reports service health: 200 once a snapshot exists and no error
// is pending, 503 otherwise. HEAD gets the status code without a body
// (the Docker healthcheck uses it).
func (h *Health) Check(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "health_check")

	stats := h.source.Stats()
	status := query.Health(stats)

	code := http.StatusOK
	if status != query.StatusHealthy {
		code = http.StatusServiceUnavailable
	}

	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		return
	}

	response := healthResponse{
		Status:    status,
		StatsView: stats,
	}
	if err := writeJSON(w, code, response, nil); err != nil {
		h.log.Error(ctx, "failed to write health response", err)
	}
}
