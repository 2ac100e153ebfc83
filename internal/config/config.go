// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// StaticAuthResult values accepted by AUTH_STATIC_RESULT. They drive the
// built-in authenticator when no platform bridge URL is configured.
const (
	StaticAuthSuccess     = "success"
	StaticAuthFailure     = "failure"
	StaticAuthCancel      = "cancel"
	StaticAuthNoHardware  = "no-hardware"
	StaticAuthNotEnrolled = "not-enrolled"
)

// Config holds application configuration
type Config struct {
	Port     int
	LogLevel string
	DevMode  bool

	// MaskToken replaces amounts in list responses while the viewer is not
	// authenticated.
	MaskToken string

	// RefreshDelay is the simulated I/O latency of the refresh operation.
	RefreshDelay time.Duration

	// AuthSessionTTL controls whether an authenticated session survives view
	// re-activation. Zero means every activation re-runs the biometric check.
	AuthSessionTTL time.Duration

	// AuthBridgeURL points at the local platform biometric bridge. When empty
	// the static authenticator is used instead (dev mode).
	AuthBridgeURL    string
	AuthStaticResult string
	AuthPrompt       string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnvAsInt("PORT", 8080),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DevMode:          getEnvAsBool("DEV_MODE", false),
		MaskToken:        getEnv("MASK_TOKEN", "****"),
		RefreshDelay:     getEnvAsDuration("REFRESH_DELAY", 1500*time.Millisecond),
		AuthSessionTTL:   getEnvAsDuration("AUTH_SESSION_TTL", 0),
		AuthBridgeURL:    getEnv("AUTH_BRIDGE_URL", ""),
		AuthStaticResult: getEnv("AUTH_STATIC_RESULT", StaticAuthSuccess),
		AuthPrompt:       getEnv("AUTH_PROMPT", "Authenticate to view transactions"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}

	if c.MaskToken == "" {
		return fmt.Errorf("MASK_TOKEN cannot be empty")
	}

	if c.RefreshDelay < 0 {
		return fmt.Errorf("REFRESH_DELAY cannot be negative")
	}

	if c.AuthSessionTTL < 0 {
		return fmt.Errorf("AUTH_SESSION_TTL cannot be negative")
	}

	switch c.AuthStaticResult {
	case StaticAuthSuccess, StaticAuthFailure, StaticAuthCancel,
		StaticAuthNoHardware, StaticAuthNotEnrolled:
	default:
		return fmt.Errorf("invalid AUTH_STATIC_RESULT: %s", c.AuthStaticResult)
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
