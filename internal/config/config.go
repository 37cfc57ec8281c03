package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig
	Rooms  []string
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// defaultRooms is the room catalog used when ROOMS is not set.
const defaultRooms = "General,Tech,Gaming,Random"

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found or error loading .env file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("PORT", ":3000"),
			ReadTimeout:     getDurationOrDefault("READ_TIMEOUT", "15s"),
			WriteTimeout:    getDurationOrDefault("WRITE_TIMEOUT", "15s"),
			ShutdownTimeout: getDurationOrDefault("SHUTDOWN_TIMEOUT", "10s"),
			AllowedOrigins:  getListOrDefault("ALLOWED_ORIGINS", "*"),
		},
		Rooms: getListOrDefault("ROOMS", defaultRooms),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key, defaultValue string) time.Duration {
	value := getEnvOrDefault(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("Invalid duration for %s: %v", key, err)
	}
	return duration
}

func getListOrDefault(key, defaultValue string) []string {
	parts := strings.Split(getEnvOrDefault(key, defaultValue), ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}
