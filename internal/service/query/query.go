// Package query provides the stateless read-side filters over a snapshot
// view. Filters preserve record order, recompute the count and never
// mutate the underlying snapshot.
package query

import (
	"strings"

	"github.com/Ratepiratepi/webfleet-gps-api/internal/domain/models"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// FilterByPlate keeps records whose license plate contains the given
// substring, case-insensitively.
func FilterByPlate(snapshot models.SnapshotView, plate string) models.SnapshotView {
	needle := strings.ToUpper(plate)
	return filter(snapshot, func(p models.PositionRecord) bool {
		return strings.Contains(strings.ToUpper(p.LicensePlate), needle)
	})
}

// FilterByNumber keeps records whose fleet number matches exactly.
func FilterByNumber(snapshot models.SnapshotView, number string) models.SnapshotView {
	return filter(snapshot, func(p models.PositionRecord) bool {
		return p.Number == number
	})
}

// FilterMoving keeps records that are not standing still or report speed.
func FilterMoving(snapshot models.SnapshotView) models.SnapshotView {
	return filter(snapshot, func(p models.PositionRecord) bool {
		return !p.StandStill || p.Speed > 0
	})
}

// FilterStopped keeps records standing still with zero speed.
func FilterStopped(snapshot models.SnapshotView) models.SnapshotView {
	return filter(snapshot, func(p models.PositionRecord) bool {
		return p.StandStill && p.Speed == 0
	})
}

// Health derives the service status from the stats view: healthy iff at
// least one snapshot exists and no error is pending.
func Health(stats models.StatsView) string {
	if stats.LastUpdate != nil && stats.Error == nil {
		return StatusHealthy
	}
	return StatusUnhealthy
}

func filter(snapshot models.SnapshotView, keep func(models.PositionRecord) bool) models.SnapshotView {
	filtered := make([]models.PositionRecord, 0, len(snapshot.Positions))
	for _, p := range snapshot.Positions {
		if keep(p) {
			filtered = append(filtered, p)
		}
	}

	snapshot.Positions = filtered
	snapshot.Count = len(filtered)
	return snapshot
}
