package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/Ratepiratepi/webfleet-gps-api/internal/domain/models"
	"github.com/Ratepiratepi/webfleet-gps-api/pkg/logger"
)

const (
	objectsPath   = "/api/objects"
	telemetryPath = "/api/latestTelemetry/objects"

	// Per-hint timeout while discovering login form fields.
	hintTimeout = 3 * time.Second

	locationPollInterval = 500 * time.Millisecond
)

var ErrNoFieldMatched = errors.New("no element matched the selector hints")

// ChromeSession drives a headless Chrome tab and passively intercepts the
// portal's background JSON responses through the CDP network domain.
type ChromeSession struct {
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc

	mu        sync.Mutex
	objects   []models.RawObjectRecord
	telemetry []models.RawTelemetryRecord
	// pending maps in-flight request IDs to the stream they belong to,
	// resolved once CDP reports the body as fully loaded.
	pending map[network.RequestID]string

	log logger.Logger
}

// NewChromeSession launches a browser and starts listening for the
// portal's data streams. The caller owns the session and must Close it.
func NewChromeSession(ctx context.Context, log logger.Logger) (*ChromeSession, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &ChromeSession{
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
		pending:     make(map[network.RequestID]string),
		log:         log,
	}

	chromedp.ListenTarget(tabCtx, s.intercept)

	if err := chromedp.Run(tabCtx, network.Enable()); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return s, nil
}

// NewFactory returns a Factory producing ChromeSessions.
func NewFactory(log logger.Logger) Factory {
	return func(ctx context.Context) (Session, error) {
		return NewChromeSession(ctx, log)
	}
}

func (s *ChromeSession) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	return s.run(ctx, timeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (s *ChromeSession) Location(ctx context.Context) (string, error) {
	var url string
	if err := s.run(ctx, hintTimeout, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

func (s *ChromeSession) SubmitField(ctx context.Context, hints []string, value string) error {
	for _, sel := range hints {
		err := s.run(ctx, hintTimeout,
			chromedp.SetValue(sel, "", chromedp.ByQuery),
			chromedp.SendKeys(sel, value, chromedp.ByQuery),
		)
		if err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNoFieldMatched, strings.Join(hints, ", "))
}

func (s *ChromeSession) Click(ctx context.Context, hints []string) error {
	for _, sel := range hints {
		if err := s.run(ctx, hintTimeout, chromedp.Click(sel, chromedp.ByQuery)); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNoFieldMatched, strings.Join(hints, ", "))
}

func (s *ChromeSession) WaitForLocation(ctx context.Context, fragment string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		url, err := s.Location(ctx)
		if err != nil {
			return err
		}
		if strings.Contains(url, fragment) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out waiting for URL containing %q, still at %s", fragment, url)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(locationPollInterval):
		}
	}
}

func (s *ChromeSession) LatestCapture() ([]models.RawObjectRecord, []models.RawTelemetryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.objects, s.telemetry
}

func (s *ChromeSession) Reload(ctx context.Context, timeout time.Duration) error {
	s.mu.Lock()
	s.objects = nil
	s.telemetry = nil
	s.mu.Unlock()

	return s.run(ctx, timeout,
		chromedp.Reload(),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (s *ChromeSession) Close() error {
	err := chromedp.Cancel(s.tabCtx)
	s.tabCancel()
	s.allocCancel()
	return err
}

// run executes chromedp actions on the tab, bounded by the timeout and
// released early if the caller's context is cancelled.
func (s *ChromeSession) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(s.tabCtx, timeout)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// intercept watches the CDP event stream. Matching responses are marked
// pending on arrival and their bodies fetched once loading finishes,
// since CDP only guarantees body availability at that point.
func (s *ChromeSession) intercept(ev any) {
	switch e := ev.(type) {
	case *network.EventResponseReceived:
		stream := streamFor(e.Response.URL)
		if stream == "" {
			return
		}
		s.mu.Lock()
		s.pending[e.RequestID] = stream
		s.mu.Unlock()

	case *network.EventLoadingFinished:
		s.mu.Lock()
		stream, ok := s.pending[e.RequestID]
		delete(s.pending, e.RequestID)
		s.mu.Unlock()
		if !ok {
			return
		}
		go s.capture(e.RequestID, stream)
	}
}

func (s *ChromeSession) capture(id network.RequestID, stream string) {
	c := chromedp.FromContext(s.tabCtx)
	body, err := network.GetResponseBody(id).Do(cdp.WithExecutor(s.tabCtx, c.Target))
	if err != nil {
		s.log.Warn(s.tabCtx, "failed to read intercepted response body", "stream", stream, "error", err.Error())
		return
	}

	switch stream {
	case "objects":
		var objects []models.RawObjectRecord
		if err := json.Unmarshal(body, &objects); err != nil {
			s.log.Warn(s.tabCtx, "failed to decode objects stream", "error", err.Error())
			return
		}
		s.mu.Lock()
		s.objects = objects
		s.mu.Unlock()
		s.log.Debug(s.tabCtx, "intercepted objects stream", "items", len(objects))

	case "telemetry":
		var telemetry []models.RawTelemetryRecord
		if err := json.Unmarshal(body, &telemetry); err != nil {
			s.log.Warn(s.tabCtx, "failed to decode telemetry stream", "error", err.Error())
			return
		}
		s.mu.Lock()
		s.telemetry = telemetry
		s.mu.Unlock()
		s.log.Debug(s.tabCtx, "intercepted telemetry stream", "items", len(telemetry))
	}
}

// streamFor classifies a response URL. The objects endpoint only counts
// without a query string; the portal also issues parameterized variants
// carrying partial data.
func streamFor(url string) string {
	if strings.Contains(url, telemetryPath) {
		return "telemetry"
	}
	if strings.Contains(url, objectsPath) && !strings.Contains(url, "?") {
		return "objects"
	}
	return ""
}
