package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Ratepiratepi/webfleet-gps-api/config"
	"github.com/Ratepiratepi/webfleet-gps-api/internal/cache"
	"github.com/Ratepiratepi/webfleet-gps-api/internal/domain/models"
	"github.com/Ratepiratepi/webfleet-gps-api/internal/service/reconcile"
	"github.com/Ratepiratepi/webfleet-gps-api/internal/stream"
	"github.com/Ratepiratepi/webfleet-gps-api/pkg/logger"
)

const testKey = "test-api-key"

func newTestAPI(t *testing.T, c *cache.SnapshotCache) http.Handler {
	t.Helper()

	api, err := New(
		config.APIConfig{Port: "0", Key: testKey},
		c,
		nil,
		logger.InitLogger("test", logger.LevelError),
	)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	return api.Handler()
}

// seededCache reconciles the end-to-end scenario streams into a cache.
func seededCache(t *testing.T) *cache.SnapshotCache {
	t.Helper()

	objects := []models.RawObjectRecord{{
		ObjectID:     "A1",
		Number:       "001",
		LicensePlate: " AB-123 ",
		Odometer:     15050,
	}}
	telemetry := []models.RawTelemetryRecord{{
		ObjectID:   "A1",
		Speed:      42,
		StandStill: false,
	}}

	c := cache.New()
	c.Update(reconcile.Positions(objects, telemetry))
	return c
}

func get(t *testing.T, h http.Handler, path string, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, path, nil)
	if authed {
		r.Header.Set("Authorization", "Bearer "+testKey)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) models.SnapshotView {
	t.Helper()

	var view models.SnapshotView
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return view
}

func TestHealth_Unhealthy(t *testing.T) {
	h := newTestAPI(t, cache.New())

	w := get(t, h, "/health", false)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "unhealthy" {
		t.Fatalf("status field = %v, want unhealthy", body["status"])
	}
}

func TestHealth_Healthy(t *testing.T) {
	h := newTestAPI(t, seededCache(t))

	w := get(t, h, "/health", false)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" {
		t.Fatalf("status field = %v, want healthy", body["status"])
	}
	if body["vehicle_count"] != float64(1) {
		t.Fatalf("vehicle_count = %v, want 1", body["vehicle_count"])
	}
}

func TestHealth_Head(t *testing.T) {
	h := newTestAPI(t, seededCache(t))

	r := httptest.NewRequest(http.MethodHead, "/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("HEAD must not carry a body")
	}
}

func TestPositions_RequiresAuth(t *testing.T) {
	h := newTestAPI(t, seededCache(t))

	for _, path := range []string{"/", "/positions", "/positions/moving", "/positions/stopped", "/stats"} {
		if w := get(t, h, path, false); w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", path, w.Code)
		}
	}
}

func TestPositions_List(t *testing.T) {
	h := newTestAPI(t, seededCache(t))

	for _, path := range []string{"/", "/positions"} {
		w := get(t, h, path, true)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, want 200", path, w.Code)
		}
		view := decodeSnapshot(t, w)
		if view.Count != 1 || view.Positions[0].LicensePlate != "AB-123" {
			t.Fatalf("%s: unexpected snapshot %+v", path, view)
		}
		if view.Positions[0].OdometerKm != 150.5 {
			t.Fatalf("odometer_km = %v, want 150.5", view.Positions[0].OdometerKm)
		}
	}
}

func TestPositions_QueryParamAuth(t *testing.T) {
	h := newTestAPI(t, seededCache(t))

	w := get(t, h, "/positions?api_key="+testKey, false)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with api_key parameter", w.Code)
	}
}

func TestPositions_MovingAndStopped(t *testing.T) {
	h := newTestAPI(t, seededCache(t))

	moving := decodeSnapshot(t, get(t, h, "/positions/moving", true))
	if moving.Count != 1 || moving.Positions[0].ObjectID != "A1" {
		t.Fatalf("moving must include A1, got %+v", moving)
	}

	stopped := decodeSnapshot(t, get(t, h, "/positions/stopped", true))
	if stopped.Count != 0 {
		t.Fatalf("stopped must exclude A1, got %+v", stopped)
	}
}

func TestPositions_VehicleFilter(t *testing.T) {
	h := newTestAPI(t, seededCache(t))

	byPlate := decodeSnapshot(t, get(t, h, "/positions/vehicle?plate=ab-1", true))
	if byPlate.Count != 1 {
		t.Fatalf("plate filter missed the record: %+v", byPlate)
	}

	byNumber := decodeSnapshot(t, get(t, h, "/positions/vehicle?number=001", true))
	if byNumber.Count != 1 {
		t.Fatalf("number filter missed the record: %+v", byNumber)
	}

	miss := decodeSnapshot(t, get(t, h, "/positions/vehicle?number=999", true))
	if miss.Count != 0 {
		t.Fatalf("number filter must be exact: %+v", miss)
	}
}

func TestUnknownPath_RequiresAuth(t *testing.T) {
	h := newTestAPI(t, seededCache(t))

	if w := get(t, h, "/nope", false); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 before the endpoints listing", w.Code)
	}
}

// streamServer stands up the full middleware-wrapped handler with a
// live hub, so the websocket path is exercised the way clients hit it.
func streamServer(t *testing.T, c *cache.SnapshotCache) *httptest.Server {
	t.Helper()

	log := logger.InitLogger("test", logger.LevelError)
	api, err := New(config.APIConfig{Port: "0", Key: testKey}, c, stream.NewHub(log), log)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestStream_UpgradeThroughMiddleware(t *testing.T) {
	srv := streamServer(t, seededCache(t))

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/positions/ws?api_key=" + testKey
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial through middleware chain: %v", err)
	}
	defer conn.Close()

	// The current snapshot arrives immediately on subscribe.
	conn.SetReadDeadline(time.Now().Add(time.Second))
	var got models.SnapshotView
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got.Count != 1 || got.Positions[0].ObjectID != "A1" {
		t.Fatalf("unexpected initial snapshot: %+v", got)
	}
}

func TestStream_RequiresAuth(t *testing.T) {
	srv := streamServer(t, seededCache(t))

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/positions/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial without a key must fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("handshake response = %+v, want 401", resp)
	}
}

func TestUnknownPath_ListsEndpoints(t *testing.T) {
	h := newTestAPI(t, seededCache(t))

	w := get(t, h, "/nope", true)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	var body struct {
		Error     string   `json:"error"`
		Endpoints []string `json:"endpoints"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "Not found" || len(body.Endpoints) == 0 {
		t.Fatalf("unexpected 404 body: %+v", body)
	}
}

func TestOptions_Preflight(t *testing.T) {
	h := newTestAPI(t, seededCache(t))

	r := httptest.NewRequest(http.MethodOptions, "/positions", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestCORSHeader_OnDataResponses(t *testing.T) {
	h := newTestAPI(t, seededCache(t))

	w := get(t, h, "/positions", true)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
