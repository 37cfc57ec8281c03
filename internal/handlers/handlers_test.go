package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"chat-relay/internal/rooms"
	ws "chat-relay/internal/websocket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRooms(t *testing.T) {
	h := NewRoomHandlers(rooms.New([]string{"General", "Tech"}))

	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	rec := httptest.NewRecorder()
	h.ListRooms(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var catalog []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &catalog))
	assert.Equal(t, []string{"General", "Tech"}, catalog)
}

func TestListRoomsRejectsNonGet(t *testing.T) {
	h := NewRoomHandlers(rooms.New([]string{"General"}))

	req := httptest.NewRequest(http.MethodPost, "/rooms", nil)
	rec := httptest.NewRecorder()
	h.ListRooms(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthz(t *testing.T) {
	h := NewHealthHandlers(ws.NewHub())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.Healthz(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status      string `json:"status"`
		Connections int    `json:"connections"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 0, body.Connections)
}

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		allowed []string
		want    bool
	}{
		{"no origin header", "", []string{"http://localhost:5173"}, true},
		{"wildcard", "http://anywhere.example", []string{"*"}, true},
		{"exact match", "http://localhost:5173", []string{"http://localhost:5173"}, true},
		{"mismatch", "http://evil.example", []string{"http://localhost:5173"}, false},
		{"empty allowlist", "http://localhost:5173", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, originAllowed(req, tt.allowed))
		})
	}
}
