// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all mirror client configuration.
type Config struct {
	// Server
	Endpoint string

	// Security
	SecurityPolicy string
	SecurityMode   string
	CertFile       string
	KeyFile        string
	Username       string
	Password       string

	// Dial retries
	ConnectAttempts int
	ConnectBackoff  time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Metrics (watch mode)
	MetricsAddr string
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Endpoint:        envOr("UAMIRROR_ENDPOINT", ""),
		SecurityPolicy:  envOr("UAMIRROR_SECURITY_POLICY", "None"),
		SecurityMode:    envOr("UAMIRROR_SECURITY_MODE", "None"),
		CertFile:        envOr("UAMIRROR_CERT_FILE", ""),
		KeyFile:         envOr("UAMIRROR_KEY_FILE", ""),
		Username:        envOr("UAMIRROR_USERNAME", ""),
		Password:        envOr("UAMIRROR_PASSWORD", ""),
		ConnectAttempts: envInt("UAMIRROR_CONNECT_ATTEMPTS", 3),
		ConnectBackoff:  envDuration("UAMIRROR_CONNECT_BACKOFF", 500*time.Millisecond),
		LogLevel:        envOr("UAMIRROR_LOG_LEVEL", "info"),
		LogFormat:       envOr("UAMIRROR_LOG_FORMAT", "console"),
		MetricsAddr:     envOr("UAMIRROR_METRICS_ADDR", ":9090"),
	}

	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("UAMIRROR_ENDPOINT is required")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
