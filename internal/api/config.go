package api

import (
	"fmt"
	"os"
)

// Config holds server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string // CORS and WebSocket origins (empty = allow all)
	RateLimit      RateLimiterConfig
	Auth           AuthConfig
	TLS            TLSConfig
	// DefaultVersion answers per-version endpoints called without ?version=.
	DefaultVersion string
	// BuildVersion is reported by / and /health.
	BuildVersion string
}

// TLSConfig holds TLS/HTTPS configuration.
type TLSConfig struct {
	Enabled  bool
	CertFile string
	KeyFile  string
}

// Validate checks auth and TLS settings before the server starts.
func (c Config) Validate() error {
	if err := ValidateAuthConfig(c.Auth); err != nil {
		return fmt.Errorf("invalid auth config: %w", err)
	}
	if c.TLS.Enabled {
		if c.TLS.CertFile == "" || c.TLS.KeyFile == "" {
			return fmt.Errorf("TLS enabled but cert or key file not specified")
		}
		if _, err := os.Stat(c.TLS.CertFile); err != nil {
			return fmt.Errorf("TLS cert file not found: %w", err)
		}
		if _, err := os.Stat(c.TLS.KeyFile); err != nil {
			return fmt.Errorf("TLS key file not found: %w", err)
		}
	}
	return nil
}
