// Package live fans transaction events out to connected dashboard viewers.
// The hub does not buffer or replay: a viewer that connects late catches up
// through the pending/recent endpoints.
package live

import (
	"sync"

	"github.com/labstack/gommon/log"
)

// Conn is the slice of a websocket connection the hub needs. Satisfied by
// *websocket.Conn from gorilla/websocket.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Hub struct {
	mu    sync.Mutex
	conns map[Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: make(map[Conn]struct{})}
}

func (h *Hub) Connect(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
}

// Disconnect removes the connection from the set. Removing a connection
// that was already pruned is a no-op.
func (h *Hub) Disconnect(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
}

// Broadcast delivers the event to a snapshot of the current connection set.
// A connection whose write fails is closed and dropped; delivery to the
// remaining connections continues regardless.
func (h *Hub) Broadcast(event interface{}) {
	h.mu.Lock()
	snapshot := make([]Conn, 0, len(h.conns))
	for c := range h.conns {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	for _, c := range snapshot {
		if err := c.WriteJSON(event); err != nil {
			log.Errorf("dropping stale dashboard connection: %v", err)
			c.Close()
			h.Disconnect(c)
		}
	}
}

// Count reports the number of live connections.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
