// File path: internal/telegram/config.go
package telegram

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultChat is the lookup group the original deployment used. Override
// with TELEGRAM_CHAT (either a -100-prefixed channel ID or an @username).
const DefaultChat = "-1003674153946"

const defaultLookupTimeout = 30 * time.Second

// Config carries the MTProto credentials and lookup settings.
type Config struct {
	APIID   int
	APIHash string

	// SessionString is a Telethon-format string session; SessionFile points
	// at a session file written by "famapi session generate". One of the two
	// is required for non-interactive use.
	SessionString string
	SessionFile   string

	// Phone and Password are only needed for interactive login (session
	// generation, or accounts with 2FA enabled).
	Phone    string
	Password string

	Chat          string
	LookupTimeout time.Duration
}

// LoadConfig builds a Config from the environment.
func LoadConfig() (Config, error) {
	cfg := Config{
		SessionString: strings.TrimSpace(os.Getenv("TELEGRAM_SESSION_STRING")),
		SessionFile:   strings.TrimSpace(os.Getenv("TELEGRAM_SESSION_FILE")),
		Phone:         strings.TrimSpace(os.Getenv("TELEGRAM_PHONE")),
		Password:      os.Getenv("TELEGRAM_PASSWORD"),
		Chat:          strings.TrimSpace(os.Getenv("TELEGRAM_CHAT")),
	}
	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_API_ID")); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse TELEGRAM_API_ID: %w", err)
		}
		cfg.APIID = id
	}
	cfg.APIHash = strings.TrimSpace(os.Getenv("TELEGRAM_API_HASH"))
	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_LOOKUP_TIMEOUT")); raw != "" {
		dur, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse TELEGRAM_LOOKUP_TIMEOUT: %w", err)
		}
		cfg.LookupTimeout = dur
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Chat) == "" {
		c.Chat = DefaultChat
	}
	if c.LookupTimeout <= 0 {
		c.LookupTimeout = defaultLookupTimeout
	}
}

// Validate checks that the API credentials are present.
func (c Config) Validate() error {
	if c.APIID == 0 || strings.TrimSpace(c.APIHash) == "" {
		return errors.New("TELEGRAM_API_ID and TELEGRAM_API_HASH are required")
	}
	return nil
}

func (c Config) hasSession() bool {
	return strings.TrimSpace(c.SessionString) != "" || strings.TrimSpace(c.SessionFile) != ""
}
