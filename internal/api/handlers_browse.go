// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/vodarchive/internal/models"
)

// browsePage wraps a page with the has_more flag clients paginate on.
type browsePage[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

func newBrowsePage[T any](p *models.Page[T]) browsePage[T] {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return browsePage[T]{Items: items, Total: p.Total, Limit: p.Limit, Offset: p.Offset, HasMore: p.HasMore()}
}

// dateRangeParams reads the shared from/to query parameters.
func dateRangeParams(w http.ResponseWriter, r *http.Request) (from, to *time.Time, ok bool) {
	from, err := parseDateParam(r, "from", false)
	if err == nil {
		to, err = parseDateParam(r, "to", true)
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return nil, nil, false
	}
	if from != nil && to != nil && !from.Before(*to) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "from must be before to", nil)
		return nil, nil, false
	}
	return from, to, true
}

// ListVideos handles GET /api/v1/videos.
//
// Query: search, category, type (comma-separated kinds), from, to, limit, offset.
func (h *Handler) ListVideos(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	from, to, ok := dateRangeParams(w, r)
	if !ok {
		return
	}

	filter := models.VideoFilter{
		Search:   strings.TrimSpace(q.Get("search")),
		Category: strings.TrimSpace(q.Get("category")),
		From:     from,
		To:       to,
		Limit:    models.NormalizeLimit(getIntParam(r, "limit", models.DefaultPageLimit)),
		Offset:   max(getIntParam(r, "offset", 0), 0),
	}
	for _, kind := range parseCommaSeparated(q.Get("type")) {
		switch k := models.VideoKind(kind); k {
		case models.VideoKindArchive, models.VideoKindUpload, models.VideoKindHighlight, models.VideoKindManual:
			filter.Kinds = append(filter.Kinds, k)
		default:
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
				"type must be one of: archive upload highlight upload_manual", nil)
			return
		}
	}

	page, err := h.store.ListVideos(r.Context(), filter)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, newBrowsePage(page), start)
}

// GetVideo handles GET /api/v1/videos/{id}: the video with its links and clips.
func (h *Handler) GetVideo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.store.GetVideoDetail(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, detail, start)
}

// ListClips handles GET /api/v1/clips.
//
// Query: search, category, vod_id, favorite=true, from, to, limit, offset.
func (h *Handler) ListClips(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	from, to, ok := dateRangeParams(w, r)
	if !ok {
		return
	}

	filter := models.ClipFilter{
		Search:       strings.TrimSpace(q.Get("search")),
		Category:     strings.TrimSpace(q.Get("category")),
		FavoriteOnly: q.Get("favorite") == "true",
		From:         from,
		To:           to,
		Limit:        models.NormalizeLimit(getIntParam(r, "limit", models.DefaultPageLimit)),
		Offset:       max(getIntParam(r, "offset", 0), 0),
	}
	if raw := q.Get("vod_id"); raw != "" {
		videoID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || videoID <= 0 {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "vod_id must be a positive integer", nil)
			return
		}
		filter.VideoID = &videoID
	}

	page, err := h.store.ListClips(r.Context(), filter)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, newBrowsePage(page), start)
}

// GetClip handles GET /api/v1/clips/{id}.
func (h *Handler) GetClip(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	clip, err := h.store.GetClip(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, clip, start)
}

// Categories handles GET /api/v1/categories: every distinct category tag.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	respondSuccess(w, http.StatusOK, categories, start)
}
