package handler

import (
	"encoding/json"
	"errors"
	"maps"
	"net/http"

	"github.com/Ratepiratepi/webfleet-gps-api/internal/domain/models"
)

// SnapshotSource is the read-side contract the handlers need from the
// cache: point-in-time consistent views, nothing more.
type SnapshotSource interface {
	Get() models.SnapshotView
	Stats() models.StatsView
}

func writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return errors.New("failed to encode json")
	}

	js = append(js, '\n')

	maps.Copy(w.Header(), headers)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)

	return nil
}
