// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Secrets are plain fields; adapters receive them at construction.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Storage backends for the events and RSVP tables.
const (
	BackendSheets   = "sheets"
	BackendFirebase = "firebase"
	BackendSQLite   = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// WriteTimeoutMS bounds a whole request, including the model call.
	WriteTimeoutMS int `koanf:"write_timeout_ms"`

	// StorageBackend selects where the tables live: sheets, firebase or sqlite.
	StorageBackend string `koanf:"storage_backend"`

	// Spreadsheet settings.
	SpreadsheetID            string `koanf:"spreadsheet_id"`
	GoogleServiceAccount     string `koanf:"google_service_account"`
	GoogleServiceAccountFile string `koanf:"google_service_account_file"`
	EventsRange              string `koanf:"events_range"`
	RSVPRange                string `koanf:"rsvp_range"`

	FirebaseDatabaseURL string `koanf:"firebase_database_url"`
	SQLitePath          string `koanf:"sqlite_path"`

	// Text generation.
	AnthropicAPIKey  string `koanf:"anthropic_api_key"`
	AnthropicBaseURL string `koanf:"anthropic_base_url"`
	Model            string `koanf:"model"`
	MaxTokens        int    `koanf:"max_tokens"`

	// PromptMode is pace_aware or uniform.
	PromptMode string `koanf:"prompt_mode"`

	// RSVPBaseURL prefixes the rsvp.html link returned by create-event.
	RSVPBaseURL string `koanf:"rsvp_base_url"`

	// Optional Telegram notification on every RSVP.
	TelegramBotToken string `koanf:"telegram_bot_token"`
	TelegramChatID   int64  `koanf:"telegram_chat_id"`

	// Background delivery of RSVP notifications.
	NotifyWorkers   int `koanf:"notify_workers"`
	NotifyQueueSize int `koanf:"notify_queue_size"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		WriteTimeoutMS: 30_000,
		StorageBackend: BackendSheets,
		EventsRange:    "Events!A:I",
		RSVPRange:      "Sheet1!A:G",
		SQLitePath:     "runclub.db",
		Model:          "claude-sonnet-4-5-20250929",
		MaxTokens:      500,
		PromptMode:     "pace_aware",
		RSVPBaseURL:    "http://localhost:9080",

		NotifyWorkers:   2,
		NotifyQueueSize: 100,
	}
}

// WriteTimeout returns WriteTimeoutMS as a duration.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMS) * time.Millisecond
}

// NotificationsEnabled reports whether RSVP notifications are configured.
func (c *Config) NotificationsEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.StorageBackend {
	case BackendSheets, BackendFirebase, BackendSQLite:
	default:
		return fmt.Errorf("%w: unknown storage_backend %q", ErrInvalidConfig, c.StorageBackend)
	}
	switch c.PromptMode {
	case "", "pace_aware", "pace-aware", "uniform":
	default:
		return fmt.Errorf("%w: unknown prompt_mode %q", ErrInvalidConfig, c.PromptMode)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("%w: max_tokens must be positive", ErrInvalidConfig)
	}
	if c.WriteTimeoutMS <= 0 {
		return fmt.Errorf("%w: write_timeout_ms must be positive", ErrInvalidConfig)
	}
	if c.NotifyWorkers <= 0 || c.NotifyQueueSize <= 0 {
		return fmt.Errorf("%w: notify_workers and notify_queue_size must be positive", ErrInvalidConfig)
	}
	return nil
}
