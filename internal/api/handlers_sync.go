// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/vodarchive/internal/logging"
	"github.com/tomtom215/vodarchive/internal/models"
	syncpkg "github.com/tomtom215/vodarchive/internal/sync"
)

// TriggerSync handles POST /api/v1/sync. An empty body runs an automatic
// sync from the checkpoints; {"start_date","end_date"} runs a manual sync
// over that inclusive range. The response carries the full result; a run
// with stage failures is still 200 with status "partial" or "failed".
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.SyncRequest
	if !decodeBody(w, r, &req, true) {
		return
	}

	window, err := syncpkg.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", sanitizeLogValue(err.Error()), nil)
		return
	}

	// The run outlives a client disconnect; the result still lands in the
	// store, the status endpoint and the websocket feed.
	ctx := context.WithoutCancel(r.Context())
	result, err := h.sync.RunSync(ctx, window)
	if err != nil {
		if errors.Is(err, syncpkg.ErrSyncInProgress) {
			respondError(w, http.StatusConflict, "SYNC_IN_PROGRESS", "A sync is already running", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Sync could not be started", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("sync_run", result.RunID).
		Str("status", string(result.Status)).
		Msg("Sync triggered by editor finished")
	respondSuccess(w, http.StatusOK, result, start)
}

// SyncStatus handles GET /api/v1/sync/status.
func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	report, err := h.sync.Status(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, report, start)
}

// SyncTest handles GET /api/v1/sync/test: token exchange and channel
// lookup only, nothing is fetched or written.
func (h *Handler) SyncTest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	result, err := h.sync.TestConnection(r.Context())
	if err != nil {
		respondSyncError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, result, start)
}

// RepairLinks handles POST /api/v1/repair/links.
func (h *Handler) RepairLinks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	fixed, err := h.sync.RepairLinks(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, models.RepairResult{Fixed: fixed}, start)
}

// RepairLinkIDs handles POST /api/v1/repair/link-ids.
func (h *Handler) RepairLinkIDs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	fixed, err := h.sync.RepairLinkIDs(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, models.RepairResult{Fixed: fixed}, start)
}

// respondSyncError maps the sync error taxonomy to HTTP responses.
func respondSyncError(w http.ResponseWriter, err error) {
	details := map[string]interface{}{"error_type": syncpkg.ErrorType(err)}

	var (
		cfgErr  *syncpkg.ConfigurationError
		authErr *syncpkg.AuthenticationError
		chanErr *syncpkg.ChannelNotFoundError
		upErr   *syncpkg.UpstreamRequestError
	)
	switch {
	case errors.As(err, &cfgErr):
		details["missing"] = cfgErr.Missing
		respondErrorWithDetails(w, http.StatusServiceUnavailable, "SYNC_NOT_CONFIGURED", cfgErr.Error(), details, nil)
	case errors.As(err, &authErr):
		respondErrorWithDetails(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Upstream rejected the configured credentials", details, err)
	case errors.As(err, &chanErr):
		respondErrorWithDetails(w, http.StatusNotFound, "NOT_FOUND", sanitizeLogValue(chanErr.Error()), details, nil)
	case errors.As(err, &upErr):
		respondErrorWithDetails(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Upstream request failed", details, err)
	default:
		respondErrorWithDetails(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Connection test failed", details, err)
	}
}
