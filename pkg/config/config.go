// Package config loads PDV service settings from the environment.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds service settings. Every field has a default.
type Config struct {
	Host       string `env:"ADRESTIA_PDV_SVC_HOST" envDefault:"127.0.0.1"`
	Port       int    `env:"ADRESTIA_PDV_SVC_PORT" envDefault:"8999"`
	ResultsDir string `env:"RESULTS_DIRECTORY"     envDefault:"data"`
	Backend    string `env:"PDV_STORE_BACKEND"     envDefault:"file"`

	LogLevel string `env:"PDV_LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"PDV_LOG_FILE"`

	// RateLimit is requests per second across all clients; 0 disables it.
	RateLimit float64 `env:"PDV_RATE_LIMIT" envDefault:"0"`
	RateBurst int     `env:"PDV_RATE_BURST" envDefault:"500"`

	ShutdownTimeout time.Duration `env:"PDV_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges that the env tags cannot express.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q (want %s, %s or %s)", c.Backend, BackendFile, BackendSQLite, BackendMemory)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.ResultsDir == "" && c.Backend != BackendMemory {
		return fmt.Errorf("results directory is required for the %s backend", c.Backend)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %v", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return fmt.Errorf("rate burst must be at least 1, got %d", c.RateBurst)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %v", c.ShutdownTimeout)
	}
	return nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
