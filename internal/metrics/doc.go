// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

/*
Package metrics holds the Prometheus collectors exported at /metrics.

Collectors are registered with promauto at package init, so importing the
package is enough to expose them. Groups:

  - sync_*: run duration, outcome, records added, stage errors, last success
  - helix_*: upstream requests, latency, 429 responses, pages fetched
  - circuit_breaker_*: state of the upstream breaker
  - duckdb_*: query latency and errors
  - api_*, websocket_*: HTTP surface
  - legacy_import_rows_total: one-shot import progress
*/
package metrics
