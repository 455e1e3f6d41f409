package models

// RawObjectRecord carries the identity and static attributes of a tracked
// asset exactly as the portal's background objects stream reports them.
type RawObjectRecord struct {
	ObjectID            string       `json:"objectId"`
	Number              string       `json:"number"`
	Name                string       `json:"name"`
	LicensePlate        string       `json:"licensePlate"`
	Type                string       `json:"type"`
	Position            *RawPosition `json:"position"`
	LocationDescription *RawLocation `json:"locationDescription"`
	// Odometer is reported in hundredths of a kilometer.
	Odometer    int64  `json:"odometer"`
	LastGpsTime string `json:"lastGpsTime"`
}

// RawTelemetryRecord carries the live attributes for one asset from the
// portal's telemetry stream, keyed by the same objectId.
type RawTelemetryRecord struct {
	ObjectID   string       `json:"objectId"`
	Position   *RawPosition `json:"position"`
	Speed      float64      `json:"speed"`
	Ignition   string       `json:"ignition"`
	StandStill bool         `json:"standStill"`
}

// RawPosition is the embedded position shape shared by both streams.
type RawPosition struct {
	Latitude  *float64     `json:"latitude"`
	Longitude *float64     `json:"longitude"`
	Time      string       `json:"time"`
	Location  *RawLocation `json:"location"`
}

type RawLocation struct {
	Address string `json:"address"`
}

// PositionRecord is the canonical, reconciled view of one tracked asset.
type PositionRecord struct {
	ObjectID     string   `json:"object_id"`
	Number       string   `json:"number"`
	Name         string   `json:"name"`
	LicensePlate string   `json:"license_plate"`
	Type         string   `json:"type"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Address      string   `json:"address"`
	Speed        float64  `json:"speed"`
	Ignition     string   `json:"ignition"`
	StandStill   bool     `json:"stand_still"`
	LastGpsTime  string   `json:"last_gps_time"`
	OdometerKm   float64  `json:"odometer_km"`
}
