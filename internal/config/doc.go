// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

/*
Package config provides centralized configuration management for Vodarchive.

Configuration is layered with Koanf v2. Later layers override earlier ones:

  - Built-in defaults (defaultConfig)
  - Secrets file: SECRETS_PATH, else secrets.yaml or /etc/vodarchive/secrets.yaml
  - Config file: CONFIG_PATH, else config.yaml or /etc/vodarchive/config.yaml
  - Environment variables (explicitly mapped, see envMappings)

# Twitch Credentials

The credential bundle lives in TwitchConfig:

  - TWITCH_CLIENT_ID, TWITCH_CLIENT_SECRET: client-credentials exchange
  - TWITCH_CHANNEL_NAME (fallback TWITCH_USER_LOGIN): archived channel
  - TWITCH_ACCESS_TOKEN: optional pre-issued token, used as-is
  - TWITCH_USER_ID: optional, skips the channel lookup

A bundle is configured when client id, client secret and channel are all
non-empty. Missing credentials do not fail Load; the sync orchestrator reports
them before making any network call.

# Example

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if !cfg.Twitch.IsConfigured() {
	    logging.Warn().Strs("missing", cfg.Twitch.MissingFields()).Msg("Sync disabled until credentials are set")
	}
*/
package config
