// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/vodarchive/internal/auth"
	"github.com/tomtom215/vodarchive/internal/config"
	"github.com/tomtom215/vodarchive/internal/logging"
	"github.com/tomtom215/vodarchive/internal/middleware"
	"github.com/tomtom215/vodarchive/internal/models"
	syncpkg "github.com/tomtom215/vodarchive/internal/sync"
	ws "github.com/tomtom215/vodarchive/internal/websocket"
)

// Version is reported by the health endpoint. Overridden at build time with
// -ldflags "-X github.com/tomtom215/vodarchive/internal/api.Version=...".
var Version = "dev"

// Store is the part of the database the HTTP surface reads and edits.
// Implemented by *database.DB.
type Store interface {
	Ping(ctx context.Context) error
	GetCurrentSchemaVersion(ctx context.Context) (int, error)

	ListVideos(ctx context.Context, f models.VideoFilter) (*models.Page[models.Video], error)
	ListClips(ctx context.Context, f models.ClipFilter) (*models.Page[models.Clip], error)
	ListCategories(ctx context.Context) ([]string, error)

	GetVideoDetail(ctx context.Context, id int64) (*models.VideoDetail, error)
	CreateVideo(ctx context.Context, in *models.VideoInput) (*models.Video, error)
	UpdateVideo(ctx context.Context, id int64, in *models.VideoInput) (*models.Video, error)
	DeleteVideo(ctx context.Context, id int64) error

	GetClip(ctx context.Context, id int64) (*models.Clip, error)
	CreateClip(ctx context.Context, in *models.ClipInput) (*models.Clip, error)
	UpdateClip(ctx context.Context, id int64, in *models.ClipInput) (*models.Clip, error)
	SetClipVideo(ctx context.Context, id int64, videoID *int64) (*models.Clip, error)
	SetClipFavorite(ctx context.Context, id int64, favorite bool) (*models.Clip, error)
	DeleteClip(ctx context.Context, id int64) error

	AddVideoLink(ctx context.Context, videoID int64, url, title string) (*models.VideoLink, error)
	DeleteVideoLink(ctx context.Context, videoID, linkID int64) error
}

// SyncService runs and reports syncs. Implemented by *sync.Manager.
type SyncService interface {
	RunSync(ctx context.Context, window *syncpkg.DateRange) (*syncpkg.Result, error)
	Status(ctx context.Context) (*syncpkg.Report, error)
	LastResult() *syncpkg.Result
	TestConnection(ctx context.Context) (*models.ConnectionTest, error)
	RepairLinks(ctx context.Context) (int, error)
	RepairLinkIDs(ctx context.Context) (int, error)
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, websocket upgrade
//   - handlers_helpers.go: response envelope, decoding, error mapping
//   - handlers_health.go: health endpoint
//   - handlers_auth.go: editor login
//   - handlers_browse.go: public video/clip/category reads
//   - handlers_editor.go: editor CRUD
//   - handlers_sync.go: sync trigger, status, connectivity test, repairs
type Handler struct {
	store     Store
	sync      SyncService
	editor    *auth.Editor
	config    *config.Config
	wsHub     *ws.Hub
	perfMon   *middleware.PerformanceMonitor
	startTime time.Time
}

// NewHandler creates a new API handler. wsHub may be nil, which disables
// /api/v1/ws.
//
// Example:
//
//	handler := api.NewHandler(db, syncMgr, editor, cfg, wsHub)
//	router := api.NewRouter(handler, auth.NewMiddleware(editor), nil)
//	http.ListenAndServe(":8080", router.SetupChi())
func NewHandler(store Store, syncSvc SyncService, editor *auth.Editor, cfg *config.Config, wsHub *ws.Hub) *Handler {
	return &Handler{
		store:     store,
		sync:      syncSvc,
		editor:    editor,
		config:    cfg,
		wsHub:     wsHub,
		perfMon:   middleware.NewPerformanceMonitor(1000),
		startTime: time.Now(),
	}
}

// PerformanceMonitor returns the request window shared with the router.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}

// WebSocket upgrades GET /api/v1/ws and attaches the connection to the hub.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		respondError(w, http.StatusServiceUnavailable, "WEBSOCKET_DISABLED", "Live updates are not available", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error response.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	h.wsHub.Register <- client
	client.Start()
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts same-host origins and the configured CORS
// origins. Browsers always send Origin on websocket handshakes; a request
// without one is a non-browser client and is allowed.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}

	if h.config != nil {
		for _, allowed := range h.config.Security.CORSOrigins {
			if allowed == "*" || strings.EqualFold(allowed, origin) {
				return true
			}
		}
	}

	logging.Ctx(r.Context()).Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected: origin not allowed")
	return false
}
