// Package cache holds the latest reconciled snapshot plus freshness and
// error metadata behind a single lock. The supervisor is the only writer;
// every other component reads through Get or Stats.
package cache

import (
	"math"
	"sync"
	"time"

	"github.com/Ratepiratepi/webfleet-gps-api/internal/domain/models"
)

type SnapshotCache struct {
	mu sync.Mutex

	positions  []models.PositionRecord
	lastUpdate time.Time
	lastErr    string

	loginCount   int64
	refreshCount int64

	now func() time.Time
}

func New() *SnapshotCache {
	return &SnapshotCache{
		positions: []models.PositionRecord{},
		now:       time.Now,
	}
}

// Update replaces the snapshot wholesale, stamps the update time, clears
// any pending error and counts the refresh. The positions slice is owned
// by the cache from here on and never mutated in place.
func (c *SnapshotCache) Update(positions []models.PositionRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.positions = positions
	c.lastUpdate = c.now()
	c.lastErr = ""
	c.refreshCount++
}

// SetError records a transient failure without discarding the last good
// positions or their timestamp.
func (c *SnapshotCache) SetError(err error) {
	if err == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastErr = err.Error()
}

// IncLogin counts one login attempt, successful or not.
func (c *SnapshotCache) IncLogin() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loginCount++
}

// Get returns a point-in-time consistent view of the snapshot.
func (c *SnapshotCache) Get() models.SnapshotView {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := models.SnapshotView{
		Positions: c.positions,
		Count:     len(c.positions),
		Error:     c.errorLocked(),
	}

	if !c.lastUpdate.IsZero() {
		view.LastUpdate = c.lastUpdateLocked()
		age := math.Round(c.now().Sub(c.lastUpdate).Seconds()*10) / 10
		view.CacheAgeSeconds = &age
	}

	return view
}

// Stats returns the operational counters without the positions payload.
func (c *SnapshotCache) Stats() models.StatsView {
	c.mu.Lock()
	defer c.mu.Unlock()

	return models.StatsView{
		LoginCount:   c.loginCount,
		RefreshCount: c.refreshCount,
		VehicleCount: len(c.positions),
		LastUpdate:   c.lastUpdateLocked(),
		Error:        c.errorLocked(),
	}
}

func (c *SnapshotCache) lastUpdateLocked() *string {
	if c.lastUpdate.IsZero() {
		return nil
	}
	s := c.lastUpdate.Format(time.RFC3339)
	return &s
}

func (c *SnapshotCache) errorLocked() *string {
	if c.lastErr == "" {
		return nil
	}
	e := c.lastErr
	return &e
}
