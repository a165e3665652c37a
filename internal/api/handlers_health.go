// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/vodarchive/internal/models"
)

// Health handles GET /api/v1/health. It always answers 200 while the
// process is up; Status is "degraded" when the database does not respond.
// ?verbose=true adds the recent per-endpoint latency summary.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	dbConnected := h.store != nil && h.store.Ping(ctx) == nil

	health := models.HealthStatus{
		Status:            "healthy",
		Version:           Version,
		DatabaseConnected: dbConnected,
		EditorEnabled:     h.editor != nil && h.editor.Enabled(),
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	if !dbConnected {
		health.Status = "degraded"
	} else if version, err := h.store.GetCurrentSchemaVersion(ctx); err == nil {
		health.SchemaVersion = version
	}

	if h.config != nil {
		health.SyncConfigured = h.config.Twitch.IsConfigured()
	}
	if h.sync != nil {
		if last := h.sync.LastResult(); last != nil {
			started := last.StartedAt
			health.LastSyncTime = &started
		}
		if dbConnected {
			if report, err := h.sync.Status(ctx); err == nil {
				health.SyncInProgress = report.InProgress
			}
		}
	}
	if h.wsHub != nil {
		health.WebSocketClients = h.wsHub.GetClientCount()
	}
	if r.URL.Query().Get("verbose") == "true" {
		health.Endpoints = h.perfMon.GetStats()
	}

	respondSuccess(w, http.StatusOK, health, start)
}
