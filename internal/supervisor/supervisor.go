// Package supervisor drives the portal session through its
// authenticate/poll/refresh cycles and is the single writer of the
// snapshot cache. Every failure class is handled locally; the loop only
// ends when the process shuts down.
package supervisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Ratepiratepi/webfleet-gps-api/internal/browser"
	"github.com/Ratepiratepi/webfleet-gps-api/internal/cache"
	"github.com/Ratepiratepi/webfleet-gps-api/internal/domain/models"
	"github.com/Ratepiratepi/webfleet-gps-api/internal/service/reconcile"
	"github.com/Ratepiratepi/webfleet-gps-api/pkg/logger"
	"github.com/Ratepiratepi/webfleet-gps-api/pkg/metrics"
)

// State names of the session lifecycle, carried as log context.
const (
	stateStarting       = "STARTING"
	stateAuthenticating = "AUTHENTICATING"
	statePolling        = "POLLING"
	stateBackoff        = "BACKOFF"
)

// Persister mirrors each successful snapshot outside the process.
type Persister interface {
	Write(view models.SnapshotView) error
}

// Broadcaster pushes each fresh snapshot to live subscribers.
type Broadcaster interface {
	Broadcast(view models.SnapshotView)
}

type Credentials struct {
	Account  string
	Username string
	Password string
}

type Config struct {
	LandingURL  string
	Credentials Credentials
	Form        browser.LoginForm

	RefreshInterval   time.Duration
	NavigationTimeout time.Duration
	ReloadTimeout     time.Duration
	RetryDelay        time.Duration
	// SettleDelay gives the portal time to fire its background requests
	// after a navigation or reload.
	SettleDelay time.Duration
}

type Supervisor struct {
	cfg        Config
	newSession browser.Factory
	cache      *cache.SnapshotCache
	store      Persister
	hub        Broadcaster
	log        logger.Logger
}

// New wires a supervisor. store and hub may be nil.
func New(cfg Config, factory browser.Factory, c *cache.SnapshotCache, store Persister, hub Broadcaster, log logger.Logger) *Supervisor {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = 60 * time.Second
	}
	if cfg.ReloadTimeout <= 0 {
		cfg.ReloadTimeout = 30 * time.Second
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 30 * time.Second
	}

	return &Supervisor{
		cfg:        cfg,
		newSession: factory,
		cache:      c,
		store:      store,
		hub:        hub,
		log:        log,
	}
}

// Run loops over full session lifecycles until ctx is cancelled. Every
// exit from a lifecycle funnels through the same teardown and backoff.
func (s *Supervisor) Run(ctx context.Context) {
	for {
		s.session(ctx)

		if ctx.Err() != nil {
			return
		}

		bctx := logger.WithSessionState(ctx, stateBackoff)
		s.log.Info(bctx, "restarting session", "retry_delay", s.cfg.RetryDelay.String())
		if !sleep(ctx, s.cfg.RetryDelay) {
			return
		}
	}
}

// session runs one lifecycle: STARTING, AUTHENTICATING, then POLLING
// until a failure that requires a fresh session. The deferred Close is
// the single teardown path for the browser resources.
func (s *Supervisor) session(ctx context.Context) {
	sctx := logger.WithSessionState(ctx, stateStarting)
	s.log.Info(sctx, "starting browser session")

	sess, err := s.newSession(ctx)
	if err != nil {
		s.recordFailure(sctx, fmt.Errorf("%w: %w", ErrSessionConstruction, err))
		return
	}
	defer func() {
		if err := sess.Close(); err != nil {
			s.log.Warn(sctx, "failed to close browser session", "error", err.Error())
		}
	}()

	if err := s.authenticate(ctx, sess); err != nil {
		s.recordFailure(logger.WithSessionState(ctx, stateAuthenticating), err)
		return
	}

	s.poll(ctx, sess)
}

// authenticate navigates to the landing URL and, when redirected to the
// login page, discovers and submits the credential fields. The login
// counter increments on every attempt regardless of outcome.
func (s *Supervisor) authenticate(ctx context.Context, sess browser.Session) error {
	actx := logger.WithSessionState(ctx, stateAuthenticating)

	s.cache.IncLogin()
	metrics.LoginAttemptsTotal.Inc()
	s.log.Info(actx, "connecting to portal", "url", s.cfg.LandingURL)

	if err := sess.Navigate(ctx, s.cfg.LandingURL, s.cfg.NavigationTimeout); err != nil {
		return fmt.Errorf("%w: navigation: %w", ErrAuthentication, err)
	}
	if !sleep(ctx, s.cfg.SettleDelay) {
		return ctx.Err()
	}

	loc, err := sess.Location(ctx)
	if err != nil {
		return fmt.Errorf("%w: reading location: %w", ErrTransport, err)
	}

	if strings.Contains(strings.ToLower(loc), s.cfg.Form.LoginFragment) {
		s.log.Info(actx, "login page detected, submitting credentials")
		if err := s.submitLoginForm(ctx, sess); err != nil {
			return err
		}

		if err := sess.WaitForLocation(ctx, s.cfg.Form.AppFragment, s.cfg.NavigationTimeout); err != nil {
			return fmt.Errorf("%w: no redirect into the application: %w", ErrAuthentication, err)
		}
		s.log.Info(actx, "authentication succeeded")
		if !sleep(ctx, s.cfg.SettleDelay) {
			return ctx.Err()
		}
	}

	return nil
}

func (s *Supervisor) submitLoginForm(ctx context.Context, sess browser.Session) error {
	form := s.cfg.Form
	creds := s.cfg.Credentials

	if creds.Account != "" {
		if err := sess.SubmitField(ctx, form.AccountHints, creds.Account); err != nil {
			return fmt.Errorf("%w: account field: %w", ErrAuthentication, err)
		}
	}
	if err := sess.SubmitField(ctx, form.UsernameHints, creds.Username); err != nil {
		return fmt.Errorf("%w: username field: %w", ErrAuthentication, err)
	}
	if err := sess.SubmitField(ctx, form.PasswordHints, creds.Password); err != nil {
		return fmt.Errorf("%w: password field: %w", ErrAuthentication, err)
	}
	if err := sess.Click(ctx, form.SubmitHints); err != nil {
		return fmt.Errorf("%w: submit button: %w", ErrAuthentication, err)
	}

	return nil
}

// poll reconciles captures into the cache until the session breaks. An
// empty capture triggers an immediate re-login without leaving POLLING;
// only a failed re-login ends the lifecycle.
func (s *Supervisor) poll(ctx context.Context, sess browser.Session) {
	pctx := logger.WithSessionState(ctx, statePolling)

	for {
		objects, telemetry := sess.LatestCapture()
		positions := reconcile.Positions(objects, telemetry)

		if len(positions) > 0 {
			s.publish(pctx, positions)
		} else {
			s.log.Warn(pctx, "capture produced no records, re-authenticating")
			metrics.RecordSessionFailure(failureClass(ErrCaptureEmpty))
			if err := s.authenticate(ctx, sess); err != nil {
				s.recordFailure(pctx, err)
				return
			}
		}

		if !sleep(ctx, s.cfg.RefreshInterval) {
			return
		}

		if err := sess.Reload(ctx, s.cfg.ReloadTimeout); err != nil {
			s.log.Warn(pctx, "reload failed, re-authenticating", "error", err.Error())
			metrics.RecordSessionFailure(failureClass(ErrRefresh))
			if err := s.authenticate(ctx, sess); err != nil {
				s.recordFailure(pctx, err)
				return
			}
			continue
		}
		if !sleep(ctx, s.cfg.SettleDelay) {
			return
		}
	}
}

// publish replaces the snapshot and mirrors it to the file store and the
// live stream. Mirror failures are logged, never fatal: the cache update
// already succeeded.
func (s *Supervisor) publish(ctx context.Context, positions []models.PositionRecord) {
	s.cache.Update(positions)
	metrics.SnapshotRefreshTotal.Inc()
	metrics.SnapshotVehicles.Set(float64(len(positions)))

	s.log.Info(ctx, "snapshot updated", "vehicles", len(positions))

	view := s.cache.Get()
	if s.store != nil {
		if err := s.store.Write(view); err != nil {
			s.log.Warn(ctx, "failed to persist snapshot", "error", err.Error())
		}
	}
	if s.hub != nil {
		s.hub.Broadcast(view)
	}
}

func (s *Supervisor) recordFailure(ctx context.Context, err error) {
	s.cache.SetError(err)
	metrics.RecordSessionFailure(failureClass(err))
	s.log.Error(ctx, "session failure", err)
}

// sleep waits for d or until ctx is cancelled, reporting whether the
// caller should keep going.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
