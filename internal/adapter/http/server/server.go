package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Ratepiratepi/webfleet-gps-api/config"
	"github.com/Ratepiratepi/webfleet-gps-api/internal/adapter/http/handler"
	"github.com/Ratepiratepi/webfleet-gps-api/internal/adapter/http/middleware"
	"github.com/Ratepiratepi/webfleet-gps-api/internal/stream"
	"github.com/Ratepiratepi/webfleet-gps-api/pkg/logger"
)

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	log  logger.Logger
}

type handlers struct {
	positions *handler.Positions
	health    *handler.Health
	stream    *handler.Stream
}

func New(
	cfg config.APIConfig,
	source handler.SnapshotSource,
	hub *stream.Hub,
	log logger.Logger,
) (*API, error) {
	if source == nil {
		return nil, errors.New("snapshot source is required")
	}

	routes := &handlers{
		positions: handler.NewPositions(source, log),
		health:    handler.NewHealth(source, log),
	}
	if hub != nil {
		routes.stream = handler.NewStream(hub, source, log)
	}

	mid := middleware.NewMiddleware(cfg.Key, log)

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      mid,
		addr:   cfg.Addr(),
		log:    log,
	}

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	setupRoutes(api.mux, api.routes, api.m)

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = logger.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = logger.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// Handler exposes the full middleware-wrapped handler, used by the
// server itself and by end-to-end tests.
func (a *API) Handler() http.Handler {
	return a.withMiddleware()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(a.m.CORS(a.m.RequestID(a.m.Logging(a.m.Metrics(a.mux)))))
}
