// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package models

import "time"

// HealthStatus is returned by GET /api/v1/health.
type HealthStatus struct {
	Status            string     `json:"status"` // "healthy" or "degraded"
	Version           string     `json:"version"`
	DatabaseConnected bool       `json:"database_connected"`
	SchemaVersion     int        `json:"schema_version,omitempty"`
	SyncConfigured    bool       `json:"sync_configured"`
	SyncInProgress    bool       `json:"sync_in_progress"`
	LastSyncTime      *time.Time `json:"last_sync_time,omitempty"`
	EditorEnabled     bool       `json:"editor_enabled"`
	WebSocketClients  int        `json:"websocket_clients"`
	Uptime            float64    `json:"uptime_seconds"`

	// Endpoints is the recent per-endpoint latency summary, only with ?verbose=true.
	Endpoints interface{} `json:"endpoints,omitempty"`
}
