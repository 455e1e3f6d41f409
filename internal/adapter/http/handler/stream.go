package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Ratepiratepi/webfleet-gps-api/internal/stream"
	"github.com/Ratepiratepi/webfleet-gps-api/pkg/logger"
)

type Stream struct {
	hub      *stream.Hub
	source   SnapshotSource
	upgrader websocket.Upgrader
	log      logger.Logger
}

func NewStream(hub *stream.Hub, source SnapshotSource, log logger.Logger) *Stream {
	return &Stream{
		hub:    hub,
		source: source,
		upgrader: websocket.Upgrader{
			// CORS is open on the whole API; the stream follows suit.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// Subscribe upgrades the connection and feeds it every fresh snapshot
// until the client disconnects. The current snapshot is sent
// immediately so subscribers do not wait a full refresh interval.
func (h *Stream) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "stream_subscribe")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn(ctx, "websocket upgrade failed", "error", err.Error())
		return
	}

	// Send the current snapshot before registering, so this write never
	// races a hub broadcast on the same connection.
	if err := conn.WriteJSON(h.source.Get()); err != nil {
		conn.Close()
		return
	}

	id, err := h.hub.Add(conn)
	if err != nil {
		h.log.Error(ctx, "failed to register stream client", err)
		conn.Close()
		return
	}
	h.log.Info(ctx, "stream client connected", "client_id", id.String())

	// Drain the connection; the read only returns on close or error.
	go func() {
		defer h.hub.Remove(id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
