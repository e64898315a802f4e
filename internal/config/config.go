// Package config loads server configuration from environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port         int    `envconfig:"SHOPHOUSE_PORT" default:"8080"`
	DatabasePath string `envconfig:"SHOPHOUSE_DB_PATH" default:"shophouse.db"`
	LogLevel     string `envconfig:"SHOPHOUSE_LOG_LEVEL" default:"info"`

	// Resend credentials for reset code emails. Optional: when the key is
	// empty the reset flow logs codes instead of sending mail.
	ResendAPIKey string `envconfig:"SHOPHOUSE_RESEND_API_KEY"`
	EmailFrom    string `envconfig:"SHOPHOUSE_EMAIL_FROM" default:"noreply@shophouse.local"`

	// Requests per minute allowed on the auth endpoints, per client IP.
	AuthRateLimit int `envconfig:"SHOPHOUSE_AUTH_RATE_LIMIT" default:"20"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return &cfg, nil
}
