// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

/*
Command server runs Vodarchive: it keeps a local DuckDB archive of one
Twitch channel's videos and clips in step with the Helix API and serves the
archive over HTTP.

Startup order:

 1. Configuration (koanf: defaults, secrets.yaml, config.yaml, environment)
 2. Logging (zerolog, optional rotating file)
 3. DuckDB store with pending migrations applied
 4. Editor authentication (disabled without EDITOR_PASSWORD)
 5. Helix client, sync manager and websocket hub
 6. Legacy import, when IMPORT_LEGACY_PATH is set
 7. HTTP router, then the supervisor tree

SIGINT or SIGTERM cancels the tree: the HTTP server drains for
HTTP_SHUTDOWN_TIMEOUT, the scheduler waits for an in-flight scheduled run
and websocket clients receive a close frame.

Minimal run:

	export TWITCH_CLIENT_ID=...
	export TWITCH_CLIENT_SECRET=...
	export TWITCH_CHANNEL_NAME=somechannel
	export EDITOR_PASSWORD=...
	export JWT_SECRET=$(openssl rand -base64 48)
	./vodarchive

Without Twitch credentials the archive is still browsable; sync endpoints
answer 503 SYNC_NOT_CONFIGURED.
*/
package main
