// Package browser isolates the supervisor from the concrete automation
// technology driving the portal. The supervisor only sees the Session
// port; the chromedp adapter and the test fakes both implement it.
package browser

import (
	"context"
	"time"

	"github.com/Ratepiratepi/webfleet-gps-api/internal/domain/models"
)

// Session is one interactive portal session. Instances are owned by a
// single supervisor for the duration of one session lifecycle and are
// never shared.
type Session interface {
	// Navigate loads the given URL and waits for the page to settle.
	Navigate(ctx context.Context, url string, timeout time.Duration) error

	// Location returns the current page URL, which may differ from the
	// navigated one after an authentication redirect.
	Location(ctx context.Context) (string, error)

	// SubmitField fills the first form field matched by the selector
	// hints, tried in order.
	SubmitField(ctx context.Context, hints []string, value string) error

	// Click clicks the first element matched by the selector hints.
	Click(ctx context.Context, hints []string) error

	// WaitForLocation blocks until the page URL contains the fragment.
	WaitForLocation(ctx context.Context, fragment string, timeout time.Duration) error

	// LatestCapture returns the most recent object and telemetry streams
	// intercepted from the portal's background requests. Either may be
	// empty when the portal has not emitted them since the last reload.
	LatestCapture() ([]models.RawObjectRecord, []models.RawTelemetryRecord)

	// Reload discards the current capture and reloads the page so the
	// portal emits fresh streams.
	Reload(ctx context.Context, timeout time.Duration) error

	// Close releases the session and every browser resource behind it.
	Close() error
}

// Factory creates a fresh Session for one supervisor lifecycle.
type Factory func(ctx context.Context) (Session, error)
