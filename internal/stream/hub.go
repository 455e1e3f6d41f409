// Package stream fans each fresh snapshot out to websocket subscribers.
// Delivery is best-effort: a client that cannot keep up is dropped
// rather than ever blocking the supervisor.
package stream

import (
	"context"
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Ratepiratepi/webfleet-gps-api/internal/domain/models"
	"github.com/Ratepiratepi/webfleet-gps-api/pkg/logger"
	"github.com/Ratepiratepi/webfleet-gps-api/pkg/metrics"
	"github.com/Ratepiratepi/webfleet-gps-api/pkg/uuid"
)

var ErrEmptyConn = errors.New("connection is empty")

// Hub stores and manages the active snapshot stream subscribers.
type Hub struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*client
	log     logger.Logger
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(view models.SnapshotView) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(view)
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*client),
		log:     log,
	}
}

// Add registers a new subscriber and returns its identity.
func (h *Hub) Add(conn *websocket.Conn) (uuid.UUID, error) {
	if conn == nil {
		return uuid.UUID{}, ErrEmptyConn
	}

	id, err := uuid.New()
	if err != nil {
		return uuid.UUID{}, err
	}

	h.mu.Lock()
	h.clients[id] = &client{id: id, conn: conn}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.StreamClientsGauge.Set(float64(total))
	return id, nil
}

// Remove closes and forgets a subscriber. Safe to call twice.
func (h *Hub) Remove(id uuid.UUID) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if ok {
		_ = c.conn.Close()
	}
	metrics.StreamClientsGauge.Set(float64(total))
}

// Broadcast sends the snapshot view to every subscriber. Writes happen
// outside the hub lock; a failing client is dropped on the spot.
func (h *Hub) Broadcast(view models.SnapshotView) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	ctx := logger.WithAction(context.Background(), "stream_broadcast")
	for _, c := range clients {
		if err := c.send(view); err != nil {
			h.log.Warn(ctx, "dropping stream client", "client_id", c.id.String(), "error", err.Error())
			h.Remove(c.id)
		}
	}
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	ids := make([]uuid.UUID, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.Unlock()

	for _, id := range ids {
		h.Remove(id)
	}
}
