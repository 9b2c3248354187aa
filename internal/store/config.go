// File path: internal/store/config.go
package store

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config controls the Postgres connection pool backing the record store.
type Config struct {
	// DatabaseURL is the Postgres connection string. For a Supabase project
	// this is the "Connection string" from the database settings page.
	DatabaseURL string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// Merge overlays the non-zero fields of the override onto the base
// configuration.
func (c Config) Merge(override Config) Config {
	result := c
	if strings.TrimSpace(override.DatabaseURL) != "" {
		result.DatabaseURL = strings.TrimSpace(override.DatabaseURL)
	}
	if override.MaxOpenConns > 0 {
		result.MaxOpenConns = override.MaxOpenConns
	}
	if override.MaxIdleConns > 0 {
		result.MaxIdleConns = override.MaxIdleConns
	}
	if override.ConnMaxLifetime > 0 {
		result.ConnMaxLifetime = override.ConnMaxLifetime
	}
	if override.ConnMaxIdleTime > 0 {
		result.ConnMaxIdleTime = override.ConnMaxIdleTime
	}
	if override.PingTimeout > 0 {
		result.PingTimeout = override.PingTimeout
	}
	return result
}

// LoadConfig builds a Config from the environment.
func LoadConfig() (Config, error) {
	cfg := Config{}
	if url := strings.TrimSpace(os.Getenv("FAM_DATABASE_URL")); url != "" {
		cfg.DatabaseURL = url
	} else if url := strings.TrimSpace(os.Getenv("SUPABASE_DB_URL")); url != "" {
		cfg.DatabaseURL = url
	}
	if raw := strings.TrimSpace(os.Getenv("FAM_DB_MAX_OPEN_CONNS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, envError("FAM_DB_MAX_OPEN_CONNS", err)
		}
		cfg.MaxOpenConns = value
	}
	if raw := strings.TrimSpace(os.Getenv("FAM_DB_MAX_IDLE_CONNS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, envError("FAM_DB_MAX_IDLE_CONNS", err)
		}
		cfg.MaxIdleConns = value
	}
	if raw := strings.TrimSpace(os.Getenv("FAM_DB_CONN_MAX_LIFETIME")); raw != "" {
		dur, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, envError("FAM_DB_CONN_MAX_LIFETIME", err)
		}
		cfg.ConnMaxLifetime = dur
	}
	if raw := strings.TrimSpace(os.Getenv("FAM_DB_CONN_MAX_IDLE_TIME")); raw != "" {
		dur, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, envError("FAM_DB_CONN_MAX_IDLE_TIME", err)
		}
		cfg.ConnMaxIdleTime = dur
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 8
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = c.MaxOpenConns
	}
	if c.ConnMaxLifetime <= 0 {
		c.ConnMaxLifetime = 15 * time.Minute
	}
	if c.ConnMaxIdleTime <= 0 {
		c.ConnMaxIdleTime = 5 * time.Minute
	}
	if c.PingTimeout <= 0 {
		c.PingTimeout = 5 * time.Second
	}
}
