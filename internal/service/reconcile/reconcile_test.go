package reconcile

import (
	"testing"

	"github.com/Ratepiratepi/webfleet-gps-api/internal/domain/models"
)

func fptr(f float64) *float64 { return &f }

func TestPositions_EmptyObjects(t *testing.T) {
	telemetry := []models.RawTelemetryRecord{
		{ObjectID: "A1", Speed: 50},
	}
	if got := Positions(nil, telemetry); len(got) != 0 {
		t.Fatalf("empty object stream must yield no records, got %d", len(got))
	}
}

func TestPositions_OnePerObjectInOrder(t *testing.T) {
	objects := []models.RawObjectRecord{
		{ObjectID: "C3"},
		{ObjectID: "A1"},
		{ObjectID: "B2"},
	}

	got := Positions(objects, nil)
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for i, want := range []string{"C3", "A1", "B2"} {
		if got[i].ObjectID != want {
			t.Fatalf("record %d: expected %s, got %s", i, want, got[i].ObjectID)
		}
	}
}

func TestPositions_DefaultsWithoutTelemetry(t *testing.T) {
	objects := []models.RawObjectRecord{{ObjectID: "A1", Odometer: 15050}}

	rec := Positions(objects, nil)[0]
	if rec.Speed != 0 {
		t.Errorf("speed must default to 0, got %v", rec.Speed)
	}
	if rec.Ignition != "UNKNOWN" {
		t.Errorf("ignition must default to UNKNOWN, got %q", rec.Ignition)
	}
	if rec.StandStill {
		t.Errorf("stand_still must default to false")
	}
	if rec.OdometerKm != 150.5 {
		t.Errorf("odometer_km = %v, want 150.5", rec.OdometerKm)
	}
}

func TestPositions_TelemetryWins(t *testing.T) {
	objects := []models.RawObjectRecord{{
		ObjectID: "A1",
		Position: &models.RawPosition{
			Latitude:  fptr(1),
			Longitude: fptr(1),
			Time:      "2026-01-01T00:00:00Z",
			Location:  &models.RawLocation{Address: "object street"},
		},
	}}
	telemetry := []models.RawTelemetryRecord{{
		ObjectID: "A1",
		Position: &models.RawPosition{
			Latitude:  fptr(48.85),
			Longitude: fptr(2.35),
			Time:      "2026-02-02T00:00:00Z",
			Location:  &models.RawLocation{Address: "telemetry street"},
		},
		Speed:    42,
		Ignition: "ON",
	}}

	rec := Positions(objects, telemetry)[0]
	if *rec.Latitude != 48.85 || *rec.Longitude != 2.35 {
		t.Errorf("telemetry position must win, got %v/%v", *rec.Latitude, *rec.Longitude)
	}
	if rec.Address != "telemetry street" {
		t.Errorf("address = %q, want telemetry street", rec.Address)
	}
	if rec.LastGpsTime != "2026-02-02T00:00:00Z" {
		t.Errorf("last_gps_time = %q", rec.LastGpsTime)
	}
	if rec.Ignition != "ON" {
		t.Errorf("ignition = %q, want ON", rec.Ignition)
	}
}

func TestPositions_AddressFallsBackToLocationDescription(t *testing.T) {
	objects := []models.RawObjectRecord{{
		ObjectID:            "A1",
		LocationDescription: &models.RawLocation{Address: "depot"},
		LastGpsTime:         "2026-01-01T12:00:00Z",
	}}

	rec := Positions(objects, nil)[0]
	if rec.Address != "depot" {
		t.Errorf("address = %q, want depot", rec.Address)
	}
	if rec.Latitude != nil || rec.Longitude != nil {
		t.Errorf("coordinates must stay nil without any position")
	}
	if rec.LastGpsTime != "2026-01-01T12:00:00Z" {
		t.Errorf("last_gps_time should fall back to object stream, got %q", rec.LastGpsTime)
	}
}

func TestPositions_PlateTrimmed(t *testing.T) {
	objects := []models.RawObjectRecord{{ObjectID: "A1", LicensePlate: " AB-123 "}}
	if got := Positions(objects, nil)[0].LicensePlate; got != "AB-123" {
		t.Fatalf("license_plate = %q, want AB-123", got)
	}
}

func TestPositions_DuplicateTelemetryLastWins(t *testing.T) {
	objects := []models.RawObjectRecord{{ObjectID: "A1"}}
	telemetry := []models.RawTelemetryRecord{
		{ObjectID: "A1", Speed: 10},
		{ObjectID: "A1", Speed: 99},
	}

	if got := Positions(objects, telemetry)[0].Speed; got != 99 {
		t.Fatalf("speed = %v, want the last duplicate to win (99)", got)
	}
}

func TestPositions_UnknownIgnitionPassesThrough(t *testing.T) {
	objects := []models.RawObjectRecord{{ObjectID: "A1"}}
	telemetry := []models.RawTelemetryRecord{{ObjectID: "A1", Ignition: "WEIRD_STATE"}}

	if got := Positions(objects, telemetry)[0].Ignition; got != "WEIRD_STATE" {
		t.Fatalf("ignition = %q, unknown values must pass through", got)
	}
}

func TestPositions_EndToEndScenario(t *testing.T) {
	objects := []models.RawObjectRecord{{
		ObjectID:     "A1",
		LicensePlate: " AB-123 ",
		Odometer:     15050,
	}}
	telemetry := []models.RawTelemetryRecord{{
		ObjectID:   "A1",
		Speed:      42,
		StandStill: false,
	}}

	got := Positions(objects, telemetry)
	if len(got) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(got))
	}
	rec := got[0]
	if rec.ObjectID != "A1" || rec.LicensePlate != "AB-123" ||
		rec.Speed != 42 || rec.StandStill || rec.OdometerKm != 150.5 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}
