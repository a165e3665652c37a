// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

/*
Package api provides the HTTP REST API layer for Vodarchive.

The API serves the archive to browsers and lets a single editor trigger
syncs, run repairs and correct records by hand. Handlers depend on the Store
and SyncService interfaces, implemented by *database.DB and *sync.Manager.

Routes:

Public (/api/v1/):
  - GET health: liveness plus database, sync and editor state
  - POST auth/login: exchange the editor password for a token (5/min per IP)
  - GET videos, videos/{id}: paginated browse and video detail with links and clips
  - GET clips, clips/{id}: paginated browse, filterable by video and favorites
  - GET categories: distinct category tags
  - GET sync/status: checkpoints, counts and the last run
  - GET ws: websocket feed of sync_progress and sync_completed messages

Editor (/api/v1/, bearer token or "token" cookie):
  - POST sync: automatic run, or manual with {"start_date","end_date"}
  - GET sync/test: credential and channel check without fetching
  - POST repair/links, repair/link-ids
  - POST/PUT/DELETE videos[/{id}], POST/DELETE videos/{id}/links[/{linkID}]
  - POST/PUT/DELETE clips[/{id}], PUT clips/{id}/favorite, PUT clips/{id}/video

Without EDITOR_PASSWORD every editor route answers 503 EDITOR_DISABLED.
GET /metrics exposes Prometheus metrics.

Response Format:

Every JSON response uses the models.APIResponse envelope:

	{
	    "status": "success",
	    "data": {...},
	    "metadata": {"timestamp": "2026-01-10T18:00:00Z", "query_time_ms": 3}
	}

Errors carry a stable code:

	{
	    "status": "error",
	    "error": {"code": "NOT_FOUND", "message": "Video not found"}
	}

Middleware Stack (in order):

  - Request ID (X-Request-ID, echoed and added to the request logger)
  - Real IP, panic recovery
  - CORS (go-chi/cors)
  - Prometheus request metrics and the in-memory latency window
  - Per-IP rate limiting (go-chi/httprate)
  - Compression on public reads
*/
package api
