// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is not set.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/vodarchive/config.yaml",
	"/etc/vodarchive/config.yml",
}

// DefaultSecretsPaths are searched in order when SECRETS_PATH is not set.
var DefaultSecretsPaths = []string{
	"secrets.yaml",
	"secrets.yml",
	"/etc/vodarchive/secrets.yaml",
	"/run/secrets/vodarchive.yaml",
}

const (
	// ConfigPathEnvVar overrides the config file location.
	ConfigPathEnvVar = "CONFIG_PATH"

	// SecretsPathEnvVar overrides the secrets file location.
	SecretsPathEnvVar = "SECRETS_PATH"
)

func defaultConfig() *Config {
	return &Config{
		Twitch: TwitchConfig{
			APIURL:            "https://api.twitch.tv/helix",
			AuthURL:           "https://id.twitch.tv/oauth2/token",
			AuthTimeout:       10 * time.Second,
			FetchTimeout:      30 * time.Second,
			RequestsPerSecond: 10,
			RateLimitRetries:  3,
		},
		Database: DatabaseConfig{
			Path:      "/data/vodarchive.duckdb",
			MaxMemory: "512MB",
			Threads:   0,
		},
		Sync: SyncConfig{
			Enabled:       true,
			OnStartup:     false,
			Interval:      time.Hour,
			Lookback:      30 * 24 * time.Hour,
			ErrorLookback: 7 * 24 * time.Hour,
			ClipOverlap:   time.Hour,
			Window:        7 * 24 * time.Hour,
			PageSize:      100,
			MaxExtraPages: 10,
		},
		Server: ServerConfig{
			Port:            8501,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			SessionTimeout:  24 * time.Hour,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Import: ImportConfig{
			BatchSize: 500,
		},
	}
}

// Load is the entry point used by cmd/server.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// LoadWithKoanf builds the configuration from all layers and validates it.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if secretsPath := findFile(SecretsPathEnvVar, DefaultSecretsPaths); secretsPath != "" {
		if err := k.Load(file.Provider(secretsPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load secrets file %s: %w", secretsPath, err)
		}
	}

	if configPath := findFile(ConfigPathEnvVar, DefaultConfigPaths); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findFile returns the path named by envVar when it exists, otherwise the
// first existing candidate, otherwise "".
func findFile(envVar string, candidates []string) string {
	if envPath := os.Getenv(envVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields turns comma-separated env strings into string slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment names to koanf paths.
var envMappings = map[string]string{
	"twitch_client_id":           "twitch.client_id",
	"twitch_client_secret":       "twitch.client_secret",
	"twitch_channel_name":        "twitch.channel_name",
	"twitch_user_login":          "twitch.user_login",
	"twitch_access_token":        "twitch.access_token",
	"twitch_user_id":             "twitch.user_id",
	"twitch_api_url":             "twitch.api_url",
	"twitch_auth_url":            "twitch.auth_url",
	"twitch_auth_timeout":        "twitch.auth_timeout",
	"twitch_fetch_timeout":       "twitch.fetch_timeout",
	"twitch_requests_per_second": "twitch.requests_per_second",
	"twitch_rate_limit_retries":  "twitch.rate_limit_retries",

	"duckdb_path":           "database.path",
	"duckdb_max_memory":     "database.max_memory",
	"duckdb_threads":        "database.threads",
	"duckdb_schema_version": "database.schema_version",

	"sync_enabled":         "sync.enabled",
	"sync_on_startup":      "sync.on_startup",
	"sync_interval":        "sync.interval",
	"sync_lookback":        "sync.lookback",
	"sync_error_lookback":  "sync.error_lookback",
	"sync_clip_overlap":    "sync.clip_overlap",
	"sync_window":          "sync.window",
	"sync_page_size":       "sync.page_size",
	"sync_max_extra_pages": "sync.max_extra_pages",

	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	"editor_password":     "security.editor_password",
	"jwt_secret":          "security.jwt_secret",
	"session_timeout":     "security.session_timeout",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"rate_limit_disabled": "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	"log_level":        "logging.level",
	"log_format":       "logging.format",
	"log_caller":       "logging.caller",
	"log_file":         "logging.file",
	"log_max_size_mb":  "logging.max_size_mb",
	"log_max_backups":  "logging.max_backups",
	"log_max_age_days": "logging.max_age_days",

	"import_legacy_path":  "import.legacy_path",
	"import_batch_size":   "import.batch_size",
	"import_progress_dir": "import.progress_dir",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped variables return "" and are ignored by the provider.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
