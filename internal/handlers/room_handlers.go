package handlers

import (
	"encoding/json"
	"net/http"

	"chat-relay/internal/rooms"
	ws "chat-relay/internal/websocket"
	"chat-relay/pkg/logger"
)

type RoomHandlers struct {
	directory *rooms.Directory
}

func NewRoomHandlers(directory *rooms.Directory) *RoomHandlers {
	return &RoomHandlers{directory: directory}
}

// ListRooms returns the fixed room catalog. The same list reaches websocket
// clients as the roomsList event after they join.
func (h *RoomHandlers) ListRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.directory.Catalog()); err != nil {
		logger.Error("List rooms error: %v", err)
	}
}

type HealthHandlers struct {
	hub *ws.Hub
}

func NewHealthHandlers(hub *ws.Hub) *HealthHandlers {
	return &HealthHandlers{hub: hub}
}

func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":      "ok",
		"connections": h.hub.ConnectionCount(),
	})
}
