// Package config loads the projection configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/FocuswithJustin/ChurchProjection/core/errors"
	"github.com/FocuswithJustin/ChurchProjection/core/scripture"
	"github.com/FocuswithJustin/ChurchProjection/internal/logging"
)

// Environment variables read by Locate and Load.
const (
	EnvConfig   = "PROJECTION_CONFIG"
	EnvBibleDir = "PROJECTION_BIBLE_DIR"
	EnvAPIKey   = "PROJECTION_API_KEY"
)

// MinAPIKeyLength is the shortest API key accepted when auth is enabled.
const MinAPIKeyLength = 16

// Config is the full configuration.
type Config struct {
	// BibleDir is tried before the discovery candidates.
	BibleDir string `yaml:"bible_dir"`
	// DefaultVersion is used when a caller does not name a version.
	DefaultVersion string       `yaml:"default_version"`
	LogLevel       string       `yaml:"log_level"`
	LogFormat      string       `yaml:"log_format"`
	Server         ServerConfig `yaml:"server"`
	Watch          WatchConfig  `yaml:"watch"`
	Search         SearchConfig `yaml:"search"`
}

// ServerConfig configures `projection serve`.
type ServerConfig struct {
	Port           int             `yaml:"port"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
	Auth           AuthConfig      `yaml:"auth"`
	TLS            TLSConfig       `yaml:"tls"`
}

// RateLimitConfig is the per-client token bucket. Zero requests per second
// disables limiting. TrustProxyHeaders keys clients by X-Forwarded-For or
// X-Real-IP; enable it only behind a reverse proxy that sets them.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	TrustProxyHeaders bool    `yaml:"trust_proxy_headers"`
}

// AuthConfig enables X-API-Key authentication.
type AuthConfig struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key"`
}

// TLSConfig holds HTTPS settings.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// WatchConfig configures reloading on source changes.
type WatchConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Debounce string `yaml:"debounce"`
}

// SearchConfig tunes the query engine.
type SearchConfig struct {
	MaxResults       int `yaml:"max_results"`
	ChapterPreview   int `yaml:"chapter_preview"`
	MinKeywordLength int `yaml:"min_keyword_length"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultVersion: "NKJV",
		LogLevel:       "info",
		LogFormat:      "text",
		Server: ServerConfig{
			Port: 8080,
			RateLimit: RateLimitConfig{
				RequestsPerSecond: 20,
				Burst:             40,
			},
		},
		Watch: WatchConfig{
			Debounce: "500ms",
		},
		Search: SearchConfig{
			MaxResults:       scripture.DefaultMaxResults,
			ChapterPreview:   scripture.DefaultChapterPreview,
			MinKeywordLength: scripture.DefaultMinKeywordLength,
		},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/projection/config.yaml or the platform
// equivalent. It returns "" when no user config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "projection", "config.yaml")
}

// Locate picks the configuration file: the flag value, then $PROJECTION_CONFIG,
// then DefaultPath if that file exists. It returns "" when there is none, in
// which case the defaults apply.
func Locate(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	if p := DefaultPath(); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads path over the defaults and applies environment overrides. An
// empty path yields the defaults; a named file that does not exist is an
// error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.NewIO("read", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.NewParse("yaml", path, 0, err.Error())
		}
		logging.Debug("config loaded", "path", path)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv(EnvBibleDir); dir != "" {
		c.BibleDir = dir
	}
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.Server.Auth.APIKey = key
		c.Server.Auth.Enabled = true
	}
}

// Save writes the configuration as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewIO("mkdir", filepath.Dir(path), err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.NewIO("write", path, err)
	}
	return nil
}

// DebounceDuration parses Watch.Debounce, falling back to 500ms.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// SearchOptions converts the search section for scripture.NewEngine.
func (c *Config) SearchOptions() scripture.SearchOptions {
	return scripture.SearchOptions{
		MaxResults:       c.Search.MaxResults,
		ChapterPreview:   c.Search.ChapterPreview,
		MinKeywordLength: c.Search.MinKeywordLength,
	}
}

// Logging returns the parsed log level and format.
func (c *Config) Logging() (logging.Level, logging.Format, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return level, 0, errors.NewValidation("log_level", err.Error())
	}
	format, err := logging.ParseFormat(c.LogFormat)
	if err != nil {
		return level, format, errors.NewValidation("log_format", err.Error())
	}
	return level, format, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, _, err := c.Logging(); err != nil {
		return err
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.NewValidation("server.port", fmt.Sprintf("must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.RateLimit.RequestsPerSecond < 0 {
		return errors.NewValidation("server.rate_limit.requests_per_second", "must not be negative")
	}
	if c.Server.RateLimit.Burst < 0 {
		return errors.NewValidation("server.rate_limit.burst", "must not be negative")
	}
	if c.Server.Auth.Enabled && len(c.Server.Auth.APIKey) < MinAPIKeyLength {
		return errors.NewValidation("server.auth.api_key",
			fmt.Sprintf("must be at least %d characters when auth is enabled", MinAPIKeyLength))
	}
	if c.Server.TLS.Enabled && (c.Server.TLS.CertFile == "" || c.Server.TLS.KeyFile == "") {
		return errors.NewValidation("server.tls", "cert_file and key_file are required when TLS is enabled")
	}
	if c.Watch.Debounce != "" {
		if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
			return errors.NewValidation("watch.debounce", err.Error())
		}
	}
	for _, f := range []struct {
		name  string
		value int
	}{
		{"search.max_results", c.Search.MaxResults},
		{"search.chapter_preview", c.Search.ChapterPreview},
		{"search.min_keyword_length", c.Search.MinKeywordLength},
	} {
		if f.value < 0 {
			return errors.NewValidation(f.name, "must not be negative")
		}
	}
	if strings.TrimSpace(c.DefaultVersion) != c.DefaultVersion {
		return errors.NewValidation("default_version", "must not have surrounding whitespace")
	}
	return nil
}
