package models

// SnapshotView is the point-in-time read model of the cache, returned by
// the positions endpoints and mirrored to disk after every update.
type SnapshotView struct {
	Positions []PositionRecord `json:"positions"`
	Count     int              `json:"count"`
	// LastUpdate is RFC 3339, nil until the first successful update.
	LastUpdate *string `json:"last_update"`
	// CacheAgeSeconds is rounded to one decimal, nil until the first update.
	CacheAgeSeconds *float64 `json:"cache_age_seconds"`
	Error           *string  `json:"error"`
}

// StatsView exposes the operational counters without the positions
// payload, cheap enough to poll on every health check.
type StatsView struct {
	LoginCount   int64   `json:"login_count"`
	RefreshCount int64   `json:"refresh_count"`
	VehicleCount int     `json:"vehicle_count"`
	LastUpdate   *string `json:"last_update"`
	Error        *string `json:"error"`
}
