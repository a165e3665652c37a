// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, the optional
// secrets and config files, and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in defaults for all optional settings
//  2. Secrets File: Optional YAML file holding API credentials (secrets.yaml)
//  3. Config File: Optional YAML config file (config.yaml)
//  4. Environment Variables: Override any setting
//
// The resolved Config is built once at process start and passed explicitly to
// every component that needs it. Nothing in this package keeps global state.
type Config struct {
	Twitch   TwitchConfig   `koanf:"twitch"`
	Database DatabaseConfig `koanf:"database"`
	Sync     SyncConfig     `koanf:"sync"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
	Import   ImportConfig   `koanf:"import"`
}

// TwitchConfig is the credential bundle for the upstream Helix API.
type TwitchConfig struct {
	// ClientID and ClientSecret are used for the client-credentials exchange.
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`

	// ChannelName is the login name of the archived channel.
	ChannelName string `koanf:"channel_name"`

	// UserLogin is the legacy name for ChannelName, used only when ChannelName is empty.
	UserLogin string `koanf:"user_login"`

	// AccessToken is an optional pre-issued bearer token. When set, no token
	// exchange is performed and the token is never refreshed.
	AccessToken string `koanf:"access_token"`

	// UserID skips the channel lookup when set.
	UserID string `koanf:"user_id"`

	// APIURL and AuthURL point at the Helix and OAuth hosts. Overridable for tests.
	APIURL  string `koanf:"api_url" validate:"required,url"`
	AuthURL string `koanf:"auth_url" validate:"required,url"`

	// AuthTimeout bounds token exchange and user lookup calls.
	// Default: 10s
	AuthTimeout time.Duration `koanf:"auth_timeout" validate:"gt=0"`

	// FetchTimeout bounds each collection page request.
	// Default: 30s
	FetchTimeout time.Duration `koanf:"fetch_timeout" validate:"gt=0"`

	// RequestsPerSecond paces outgoing requests. Helix allows 800 points per minute.
	// Default: 10
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"gt=0"`

	// RateLimitRetries is how many times an HTTP 429 is retried.
	// Default: 3
	RateLimitRetries uint `koanf:"rate_limit_retries"`
}

// Channel returns the configured channel login, falling back to UserLogin.
func (t *TwitchConfig) Channel() string {
	if t.ChannelName != "" {
		return t.ChannelName
	}
	return t.UserLogin
}

// IsConfigured reports whether client id, client secret and channel are all present.
func (t *TwitchConfig) IsConfigured() bool {
	return len(t.MissingFields()) == 0
}

// MissingFields lists the environment names of the required credential fields
// that are empty, in a stable order.
func (t *TwitchConfig) MissingFields() []string {
	var missing []string
	if t.ClientID == "" {
		missing = append(missing, "TWITCH_CLIENT_ID")
	}
	if t.ClientSecret == "" {
		missing = append(missing, "TWITCH_CLIENT_SECRET")
	}
	if t.Channel() == "" {
		missing = append(missing, "TWITCH_CHANNEL_NAME")
	}
	return missing
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the database file. ":memory:" opens an in-memory database.
	Path string `koanf:"path" validate:"required"`

	// MaxMemory is DuckDB's memory limit, e.g. "512MB".
	MaxMemory string `koanf:"max_memory"`

	// Threads is DuckDB's worker count. 0 = runtime.NumCPU().
	Threads int `koanf:"threads" validate:"gte=0"`

	// SchemaVersion pins the highest migration applied. 0 = latest.
	// Older pins keep the store on a narrower column set.
	SchemaVersion int `koanf:"schema_version" validate:"gte=0"`
}

// SyncConfig controls the automatic and manual sync behaviour.
type SyncConfig struct {
	// Enabled turns on the periodic automatic sync service.
	Enabled bool `koanf:"enabled"`

	// OnStartup runs one automatic sync as soon as the service starts.
	OnStartup bool `koanf:"on_startup"`

	// Interval between automatic syncs.
	// Default: 1h
	Interval time.Duration `koanf:"interval" validate:"gt=0"`

	// Lookback is the clip window used when no checkpoint exists.
	// Default: 720h (30 days)
	Lookback time.Duration `koanf:"lookback" validate:"gt=0"`

	// ErrorLookback is the clip window used when reading the checkpoint fails.
	// Default: 168h (7 days)
	ErrorLookback time.Duration `koanf:"error_lookback" validate:"gt=0"`

	// ClipOverlap moves the automatic clip window start earlier than the checkpoint.
	// Default: 1h
	ClipOverlap time.Duration `koanf:"clip_overlap" validate:"gte=0"`

	// Window is the maximum span of one clip sub-window request.
	// Default: 168h (7 days)
	Window time.Duration `koanf:"window" validate:"gt=0"`

	// PageSize is the "first" parameter of collection requests (1..100).
	// Default: 100
	PageSize int `koanf:"page_size" validate:"min=1,max=100"`

	// MaxExtraPages caps pages beyond the first on date-ranged fetches.
	// Default: 10
	MaxExtraPages int `koanf:"max_extra_pages" validate:"gte=0"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// SecurityConfig holds editor authentication and HTTP protection settings.
type SecurityConfig struct {
	// EditorPassword is the shared editor password. Empty disables editor routes.
	EditorPassword string `koanf:"editor_password"`

	// JWTSecret signs editor session tokens. Required when EditorPassword is set.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTimeout is the editor token lifetime.
	// Default: 24h
	SessionTimeout time.Duration `koanf:"session_timeout" validate:"gt=0"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// EditorEnabled reports whether editor routes should be mounted.
func (s *SecurityConfig) EditorEnabled() bool {
	return s.EditorPassword != ""
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level" validate:"oneof=trace debug info warn warning error"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number.
	Caller bool `koanf:"caller"`

	// File enables a rotating log file in addition to stderr.
	File string `koanf:"file"`

	MaxSizeMB  int `koanf:"max_size_mb" validate:"gte=0"`
	MaxBackups int `koanf:"max_backups" validate:"gte=0"`
	MaxAgeDays int `koanf:"max_age_days" validate:"gte=0"`
}

// ImportConfig controls the one-shot legacy archive import.
type ImportConfig struct {
	// LegacyPath is the SQLite file written by the previous application. Empty disables import.
	LegacyPath string `koanf:"legacy_path"`

	// BatchSize is the number of legacy rows read per query.
	// Default: 500
	BatchSize int `koanf:"batch_size" validate:"min=1,max=10000"`

	// ProgressDir holds the badger store used to resume an interrupted import.
	// Empty keeps progress in memory only.
	ProgressDir string `koanf:"progress_dir"`
}

// Enabled reports whether a legacy import was requested.
func (i *ImportConfig) Enabled() bool {
	return i.LegacyPath != ""
}
