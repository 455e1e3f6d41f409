package handler

import (
	"net/http"

	"github.com/Ratepiratepi/webfleet-gps-api/internal/service/query"
	"github.com/Ratepiratepi/webfleet-gps-api/pkg/logger"
)

type Positions struct {
	source SnapshotSource
	log    logger.Logger
}

func NewPositions(source SnapshotSource, log logger.Logger) *Positions {
	return &Positions{
		source: source,
		log:    log,
	}
}

// List returns the full snapshot view.
func (h *Positions) List(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "positions_list")

	if err := writeJSON(w, http.StatusOK, h.source.Get(), nil); err != nil {
		h.log.Error(ctx, "failed to write positions", err)
	}
}

// Vehicle filters the snapshot by license plate substring or exact fleet
// number. Plate takes precedence when both parameters are present.
func (h *Positions) Vehicle(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "positions_vehicle")

	snapshot := h.source.Get()
	params := r.URL.Query()

	if plate := params.Get("plate"); plate != "" {
		snapshot = query.FilterByPlate(snapshot, plate)
	} else if number := params.Get("number"); number != "" {
		snapshot = query.FilterByNumber(snapshot, number)
	}

	if err := writeJSON(w, http.StatusOK, snapshot, nil); err != nil {
		h.log.Error(ctx, "failed to write filtered positions", err)
	}
}

// Moving returns only vehicles currently in motion.
func (h *Positions) Moving(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "positions_moving")

	if err := writeJSON(w, http.StatusOK, query.FilterMoving(h.source.Get()), nil); err != nil {
		h.log.Error(ctx, "failed to write moving positions", err)
	}
}

// Stopped returns only vehicles standing still.
func (h *Positions) Stopped(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "positions_stopped")

	if err := writeJSON(w, http.StatusOK, query.FilterStopped(h.source.Get()), nil); err != nil {
		h.log.Error(ctx, "failed to write stopped positions", err)
	}
}

// Stats returns the operational counters.
func (h *Positions) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "stats")

	if err := writeJSON(w, http.StatusOK, h.source.Stats(), nil); err != nil {
		h.log.Error(ctx, "failed to write stats", err)
	}
}
