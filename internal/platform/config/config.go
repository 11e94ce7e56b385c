// Package config loads runtime configuration from environment variables so
// main stays lean. Config files are deliberately not parsed here; anything
// that wants files (or .env in development) loads them into the environment
// before FromEnv runs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Registration holds the registration manager settings.
type Registration struct {
	// ExpirationDays is the TTL of a pending registration in days.
	ExpirationDays int
	// SpeedupFactor divides the effective TTL. It exists to make expiry
	// testable without waiting out real days and must stay 1 in production.
	SpeedupFactor int
	// SweepInterval is how often the background sweeper runs. Lazy sweeps on
	// every public operation remain the correctness mechanism; the timer only
	// bounds how long expired garbage can linger while the service is idle.
	SweepInterval time.Duration
}

// Server captures process-level settings.
type Server struct {
	// MetricsAddr is the listen address for /metrics and /healthz.
	MetricsAddr  string
	Registration Registration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() (Server, error) {
	expirationDays, err := getEnvInt("ENROLLD_EXPIRATION_DAYS", 3)
	if err != nil {
		return Server{}, err
	}
	if expirationDays <= 0 {
		return Server{}, fmt.Errorf("ENROLLD_EXPIRATION_DAYS must be positive, got %d", expirationDays)
	}

	speedup, err := getEnvInt("ENROLLD_SPEEDUP_FACTOR", 1)
	if err != nil {
		return Server{}, err
	}
	if speedup <= 0 {
		return Server{}, fmt.Errorf("ENROLLD_SPEEDUP_FACTOR must be positive, got %d", speedup)
	}

	sweepInterval, err := getEnvDuration("ENROLLD_SWEEP_INTERVAL", time.Minute)
	if err != nil {
		return Server{}, err
	}

	return Server{
		MetricsAddr: getEnv("ENROLLD_METRICS_ADDR", ":9102"),
		Registration: Registration{
			ExpirationDays: expirationDays,
			SpeedupFactor:  speedup,
			SweepInterval:  sweepInterval,
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
