package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"chat-relay/internal/config"
	"chat-relay/internal/handlers"
	"chat-relay/internal/registry"
	"chat-relay/internal/rooms"
	"chat-relay/internal/router"
	"chat-relay/internal/websocket"
	"chat-relay/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize routing core
	reg := registry.New()
	directory := rooms.New(cfg.Rooms)
	hub := websocket.NewHub()
	rt := router.New(reg, directory, hub)

	// Initialize handlers
	wsHandlers := handlers.NewWebSocketHandlers(hub, rt, cfg.Server.AllowedOrigins)
	roomHandlers := handlers.NewRoomHandlers(directory)
	healthHandlers := handlers.NewHealthHandlers(hub)

	// Setup routes
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandlers.HandleWebSocket)
	mux.HandleFunc("/rooms", roomHandlers.ListRooms)
	mux.HandleFunc("/healthz", healthHandlers.Healthz)

	// Create server
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      corsMiddleware(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	logger.Info("🚀 Server started on http://localhost%s", cfg.Server.Port)
	logger.Info("📡 WebSocket endpoint: ws://localhost%s/ws", cfg.Server.Port)
	logger.Info("🏠 Rooms: %v", cfg.Rooms)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error: %v", err)
	}
	logger.Info("Server stopped")
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
