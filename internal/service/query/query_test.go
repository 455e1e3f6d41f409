package query

import (
	"testing"

	"github.com/Ratepiratepi/webfleet-gps-api/internal/domain/models"
)

func sptr(s string) *string { return &s }

func snapshot() models.SnapshotView {
	return models.SnapshotView{
		Positions: []models.PositionRecord{
			{ObjectID: "A1", Number: "001", LicensePlate: "AB-123", Speed: 42, StandStill: false},
			{ObjectID: "B2", Number: "002", LicensePlate: "CD-456", Speed: 0, StandStill: true},
			{ObjectID: "C3", Number: "003", LicensePlate: "ab-789", Speed: 0, StandStill: false},
		},
		Count:      3,
		LastUpdate: sptr("2026-08-30T12:00:00Z"),
	}
}

func ids(s models.SnapshotView) []string {
	out := make([]string, 0, len(s.Positions))
	for _, p := range s.Positions {
		out = append(out, p.ObjectID)
	}
	return out
}

func TestFilterByPlate_CaseInsensitiveSubstring(t *testing.T) {
	got := FilterByPlate(snapshot(), "ab")
	if got.Count != 2 {
		t.Fatalf("count = %d, want 2", got.Count)
	}
	if got.Positions[0].ObjectID != "A1" || got.Positions[1].ObjectID != "C3" {
		t.Fatalf("order not preserved: %v", ids(got))
	}
}

func TestFilterByNumber_Exact(t *testing.T) {
	got := FilterByNumber(snapshot(), "002")
	if got.Count != 1 || got.Positions[0].ObjectID != "B2" {
		t.Fatalf("unexpected result: %v", ids(got))
	}
	if got := FilterByNumber(snapshot(), "00"); got.Count != 0 {
		t.Fatalf("number filter must be exact, got %v", ids(got))
	}
}

func TestFilterMovingAndStopped(t *testing.T) {
	s := snapshot()

	moving := FilterMoving(s)
	if want := []string{"A1", "C3"}; len(moving.Positions) != 2 ||
		moving.Positions[0].ObjectID != want[0] || moving.Positions[1].ObjectID != want[1] {
		t.Fatalf("moving = %v, want %v", ids(moving), want)
	}

	stopped := FilterStopped(s)
	if stopped.Count != 1 || stopped.Positions[0].ObjectID != "B2" {
		t.Fatalf("stopped = %v, want [B2]", ids(stopped))
	}

	if moving.Count+stopped.Count > s.Count {
		t.Fatalf("moving+stopped exceeds total: %d+%d > %d", moving.Count, stopped.Count, s.Count)
	}
}

func TestFilter_DoesNotMutateSource(t *testing.T) {
	s := snapshot()
	FilterByNumber(s, "001")
	if s.Count != 3 || len(s.Positions) != 3 {
		t.Fatalf("source snapshot was mutated")
	}
}

func TestFilter_PreservesMetadata(t *testing.T) {
	got := FilterMoving(snapshot())
	if got.LastUpdate == nil || *got.LastUpdate != "2026-08-30T12:00:00Z" {
		t.Fatalf("filters must carry snapshot metadata through")
	}
}

func TestHealth(t *testing.T) {
	cases := []struct {
		name  string
		stats models.StatsView
		want  string
	}{
		{"updated and clean", models.StatsView{LastUpdate: sptr("2026-08-30T12:00:00Z")}, StatusHealthy},
		{"updated with error", models.StatsView{LastUpdate: sptr("2026-08-30T12:00:00Z"), Error: sptr("x")}, StatusUnhealthy},
		{"never updated", models.StatsView{}, StatusUnhealthy},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Health(tc.stats); got != tc.want {
				t.Fatalf("Health() = %s, want %s", got, tc.want)
			}
		})
	}
}
