package config

import (
	"os"
	"strconv"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Telemetry TelemetryConfig
	Ingest    IngestConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// TelemetryConfig holds error-report sink settings. An empty DSN selects
// the log-backed sink.
type TelemetryConfig struct {
	PostgresDSN string
}

// IngestConfig holds ingestion tuning knobs
type IngestConfig struct {
	MaxConcurrentParses int64
}

// Load reads configuration from environment variables. Tier resource limits
// are compiled-in constants and deliberately not configurable here.
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Telemetry: TelemetryConfig{
			PostgresDSN: getEnvOrDefault("TELEMETRY_DSN", ""),
		},
		Ingest: IngestConfig{
			MaxConcurrentParses: int64(getEnvIntOrDefault("MAX_CONCURRENT_PARSES", 4)),
		},
	}, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
