package handlers

import (
	"net/http"

	"chat-relay/internal/router"
	ws "chat-relay/internal/websocket"
	"chat-relay/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type WebSocketHandlers struct {
	hub      *ws.Hub
	router   *router.Router
	upgrader websocket.Upgrader
}

func NewWebSocketHandlers(hub *ws.Hub, rt *router.Router, allowedOrigins []string) *WebSocketHandlers {
	return &WebSocketHandlers{
		hub:    hub,
		router: rt,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(r, allowedOrigins)
			},
		},
	}
}

func (h *WebSocketHandlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Upgrade error: %v", err)
		return
	}

	// Opaque server-assigned connection identifier
	connID := uuid.NewString()

	client := ws.NewClient(connID, conn, h.hub, h.router)
	h.hub.Register(client)
	h.router.Connect(connID)

	// Start client pumps
	go client.WritePump()
	go client.ReadPump()
}

// originAllowed matches the request Origin against the configured allowlist.
// Requests without an Origin header (non-browser clients) are accepted.
func originAllowed(r *http.Request, allowed []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, candidate := range allowed {
		if candidate == "*" || candidate == origin {
			return true
		}
	}
	return false
}
