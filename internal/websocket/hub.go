package websocket

import (
	"sync"

	"chat-relay/internal/models"
	"chat-relay/pkg/logger"
)

// Hub tracks every live client by connection ID and fans outbound frames
// out to them. It implements the router's Sender. Deliveries are
// fire-and-forget: a client whose send buffer is full simply misses the
// frame, it never blocks the routing of the triggering event.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	count := len(h.clients)
	h.mu.Unlock()
	logger.Debug("Client %s registered. Total clients: %d", c.id, count)
}

// Unregister removes the client and closes its send channel. Safe to call
// for clients that were already removed.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	current, ok := h.clients[c.id]
	if !ok || current != c {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	c.closed = true
	count := len(h.clients)
	h.mu.Unlock()

	// Close the channel after releasing the lock.
	close(c.send)
	logger.Debug("Client %s unregistered. Total clients: %d", c.id, count)
}

// ConnectionCount returns the number of live connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Send delivers one frame to one connection. Unknown connection IDs are
// ignored; the recipient may have disconnected since routing started.
func (h *Hub) Send(connID, event string, payload interface{}) {
	frame, err := models.EncodeFrame(event, payload)
	if err != nil {
		logger.Error("Error encoding %s frame: %v", event, err)
		return
	}
	h.mu.RLock()
	c, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	h.safeSend(c, frame)
}

// Broadcast delivers one frame to every connection, bound or not.
func (h *Hub) Broadcast(event string, payload interface{}) {
	h.broadcast("", event, payload)
}

// BroadcastExcept delivers one frame to every connection but excludeID.
func (h *Hub) BroadcastExcept(excludeID, event string, payload interface{}) {
	h.broadcast(excludeID, event, payload)
}

func (h *Hub) broadcast(excludeID, event string, payload interface{}) {
	frame, err := models.EncodeFrame(event, payload)
	if err != nil {
		logger.Error("Error encoding %s frame: %v", event, err)
		return
	}
	for _, c := range h.snapshot() {
		if excludeID != "" && c.id == excludeID {
			continue
		}
		h.safeSend(c, frame)
	}
}

func (h *Hub) snapshot() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	return clients
}

// safeSend enqueues a frame on the client's buffered channel, dropping it
// when the buffer is full. The channel may be closed by a concurrent
// Unregister, hence the recover.
func (h *Hub) safeSend(c *Client, frame []byte) bool {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("Send to %s raced its shutdown: %v", c.id, r)
		}
	}()

	h.mu.RLock()
	defer h.mu.RUnlock()

	if current, ok := h.clients[c.id]; !ok || current != c || c.closed {
		return false
	}

	select {
	case c.send <- frame:
		return true
	default:
		logger.Debug("Client %s send buffer full; frame dropped", c.id)
		return false
	}
}
