package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ratepiratepi/webfleet-gps-api/config"
	"github.com/Ratepiratepi/webfleet-gps-api/internal/adapter/http/server"
	"github.com/Ratepiratepi/webfleet-gps-api/internal/browser"
	"github.com/Ratepiratepi/webfleet-gps-api/internal/cache"
	"github.com/Ratepiratepi/webfleet-gps-api/internal/storage"
	"github.com/Ratepiratepi/webfleet-gps-api/internal/stream"
	"github.com/Ratepiratepi/webfleet-gps-api/internal/supervisor"
	"github.com/Ratepiratepi/webfleet-gps-api/pkg/keygen"
	"github.com/Ratepiratepi/webfleet-gps-api/pkg/logger"
)

// settleDelay gives the portal time to fire its background requests
// after a navigation or reload before the capture buffer is read.
const settleDelay = 3 * time.Second

type App struct {
	snapshots  *cache.SnapshotCache
	store      *storage.SnapshotFile
	hub        *stream.Hub
	supervisor *supervisor.Supervisor
	httpServer *server.API

	cfg config.Config
	log logger.Logger
}

// EnsureAPIKey fills an empty API key with a generated one, logged once
// so the operator can still reach the API. Runs before the startup
// banner so the banner shows the key actually in effect.
func EnsureAPIKey(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	if cfg.API.Key != "" {
		return nil
	}

	key, err := keygen.NewKey()
	if err != nil {
		return err
	}
	cfg.API.Key = key
	log.Warn(ctx, "API_KEY not set, generated one for this run", "api_key", key)

	return nil
}

// NewApplication wires every component of the service. The API key must
// already be in place (EnsureAPIKey), so the service never runs
// unauthenticated.
func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	if err := EnsureAPIKey(ctx, &cfg, log); err != nil {
		log.Error(ctx, "Failed to generate API key", err)
		return nil, err
	}

	store, err := storage.NewSnapshotFile(cfg.API.DataDir)
	if err != nil {
		log.Error(ctx, "Failed to setup snapshot storage", err)
		return nil, err
	}

	snapshots := cache.New()
	hub := stream.NewHub(log)

	sup := supervisor.New(
		supervisor.Config{
			LandingURL: cfg.Webfleet.URL,
			Credentials: supervisor.Credentials{
				Account:  cfg.Webfleet.Account,
				Username: cfg.Webfleet.Username,
				Password: cfg.Webfleet.Password,
			},
			Form:              browser.DefaultLoginForm(),
			RefreshInterval:   cfg.Webfleet.RefreshInterval,
			NavigationTimeout: cfg.Webfleet.NavigationTimeout,
			ReloadTimeout:     cfg.Webfleet.ReloadTimeout,
			RetryDelay:        cfg.Webfleet.RetryDelay,
			SettleDelay:       settleDelay,
		},
		browser.NewFactory(log),
		snapshots,
		store,
		hub,
		log,
	)

	httpServer, err := server.New(cfg.API, snapshots, hub, log)
	if err != nil {
		log.Error(ctx, "Failed to setup http server", err)
		return nil, err
	}

	return &App{
		snapshots:  snapshots,
		store:      store,
		hub:        hub,
		supervisor: sup,
		httpServer: httpServer,
		cfg:        cfg,
		log:        log,
	}, nil
}

// Start runs the session supervisor and the HTTP API until the first
// server error or a termination signal.
func (a *App) Start(ctx context.Context) error {
	supCtx, stopSupervisor := context.WithCancel(ctx)
	supDone := make(chan struct{})
	go func() {
		defer close(supDone)
		a.supervisor.Run(supCtx)
	}()

	errCh := make(chan error, 1)
	a.httpServer.Run(ctx, errCh)

	defer func() {
		a.close(ctx, stopSupervisor, supDone)
		a.log.Info(ctx, "application closed")
	}()

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info(ctx, "application started",
		"addr", a.cfg.API.Addr(),
		"snapshot_file", a.store.Path(),
	)

	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

func (a *App) close(ctx context.Context, stopSupervisor context.CancelFunc, supDone <-chan struct{}) {
	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Warn(ctx, "Failed to gracefully close http server", "error", err.Error())
		}
	}

	stopSupervisor()
	select {
	case <-supDone:
	case <-time.After(5 * time.Second):
		a.log.Warn(ctx, "session supervisor did not stop in time")
	}

	if a.hub != nil {
		a.hub.Close()
	}
}
