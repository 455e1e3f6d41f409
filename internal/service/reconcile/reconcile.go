// Package reconcile merges the portal's two independently captured
// streams, static object identity and live telemetry, into one canonical
// position record per tracked asset.
package reconcile

import (
	"strings"

	"github.com/Ratepiratepi/webfleet-gps-api/internal/domain/models"
)

const unknownIgnition = "UNKNOWN"

// Positions builds one PositionRecord per object, in object-stream order.
// A missing telemetry record degrades fields to the object's own values or
// documented defaults; it never drops the record. An empty object stream
// yields an empty result, which the caller treats as a failed capture
// rather than a fleet of zero vehicles.
func Positions(objects []models.RawObjectRecord, telemetry []models.RawTelemetryRecord) []models.PositionRecord {
	if len(objects) == 0 {
		return nil
	}

	// Last write wins when the telemetry stream repeats an objectId.
	telemByID := make(map[string]models.RawTelemetryRecord, len(telemetry))
	for _, t := range telemetry {
		telemByID[t.ObjectID] = t
	}

	positions := make([]models.PositionRecord, 0, len(objects))
	for _, obj := range objects {
		telem, hasTelem := telemByID[obj.ObjectID]

		// Telemetry's embedded position wins over the object's own.
		pos := obj.Position
		if hasTelem && telem.Position != nil {
			pos = telem.Position
		}

		rec := models.PositionRecord{
			ObjectID:     obj.ObjectID,
			Number:       obj.Number,
			Name:         obj.Name,
			LicensePlate: strings.TrimSpace(obj.LicensePlate),
			Type:         obj.Type,
			Address:      resolveAddress(pos, obj.LocationDescription),
			Ignition:     unknownIgnition,
			LastGpsTime:  obj.LastGpsTime,
			OdometerKm:   float64(obj.Odometer) / 100,
		}

		if pos != nil {
			rec.Latitude = pos.Latitude
			rec.Longitude = pos.Longitude
			if pos.Time != "" {
				rec.LastGpsTime = pos.Time
			}
		}

		if hasTelem {
			rec.Speed = telem.Speed
			rec.StandStill = telem.StandStill
			// Unknown ignition states pass through verbatim.
			if telem.Ignition != "" {
				rec.Ignition = telem.Ignition
			}
		}

		positions = append(positions, rec)
	}

	return positions
}

// resolveAddress prefers the structured position's address and falls back
// to the object's own location description only when no position exists.
func resolveAddress(pos *models.RawPosition, desc *models.RawLocation) string {
	if pos != nil {
		if pos.Location != nil {
			return pos.Location.Address
		}
		return ""
	}
	if desc != nil {
		return desc.Address
	}
	return ""
}
