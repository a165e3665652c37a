// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/vodarchive/internal/logging"
	"github.com/tomtom215/vodarchive/internal/models"
)

// Editor CRUD. Every route here sits behind auth.Middleware.RequireEditor.

// CreateVideo handles POST /api/v1/videos. The video is stored under a
// generated manual id.
func (h *Handler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var in models.VideoInput
	if !decodeBody(w, r, &in, false) {
		return
	}

	video, err := h.store.CreateVideo(r.Context(), &in)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, video, start)
}

// UpdateVideo handles PUT /api/v1/videos/{id}.
func (h *Handler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var in models.VideoInput
	if !decodeBody(w, r, &in, false) {
		return
	}

	video, err := h.store.UpdateVideo(r.Context(), id, &in)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, video, start)
}

// DeleteVideo handles DELETE /api/v1/videos/{id}. Links go with the video;
// clips that referenced it become unresolved.
func (h *Handler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.store.DeleteVideo(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	logging.Ctx(r.Context()).Info().Int64("video_id", id).Msg("Video deleted by editor")
	w.WriteHeader(http.StatusNoContent)
}

// AddVideoLink handles POST /api/v1/videos/{id}/links.
func (h *Handler) AddVideoLink(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var in models.VideoLinkInput
	if !decodeBody(w, r, &in, false) {
		return
	}

	link, err := h.store.AddVideoLink(r.Context(), id, in.URL, in.Title)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, link, start)
}

// DeleteVideoLink handles DELETE /api/v1/videos/{id}/links/{linkID}.
func (h *Handler) DeleteVideoLink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	linkID, ok := pathID(w, r, "linkID")
	if !ok {
		return
	}

	if err := h.store.DeleteVideoLink(r.Context(), id, linkID); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateClip handles POST /api/v1/clips.
func (h *Handler) CreateClip(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var in models.ClipInput
	if !decodeBody(w, r, &in, false) {
		return
	}

	clip, err := h.store.CreateClip(r.Context(), &in)
	if err != nil {
		respondParentError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, clip, start)
}

// UpdateClip handles PUT /api/v1/clips/{id}.
func (h *Handler) UpdateClip(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var in models.ClipInput
	if !decodeBody(w, r, &in, false) {
		return
	}

	clip, err := h.store.UpdateClip(r.Context(), id, &in)
	if err != nil {
		respondParentError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, clip, start)
}

// SetClipFavorite handles PUT /api/v1/clips/{id}/favorite.
func (h *Handler) SetClipFavorite(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var in models.FavoriteInput
	if !decodeBody(w, r, &in, false) {
		return
	}

	clip, err := h.store.SetClipFavorite(r.Context(), id, in.Favorite)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, clip, start)
}

// SetClipVideo handles PUT /api/v1/clips/{id}/video. {"vod_id": null}
// clears the link.
func (h *Handler) SetClipVideo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var in models.ClipVideoInput
	if !decodeBody(w, r, &in, false) {
		return
	}

	clip, err := h.store.SetClipVideo(r.Context(), id, in.VideoID)
	if err != nil {
		respondParentError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, clip, start)
}

// DeleteClip handles DELETE /api/v1/clips/{id}.
func (h *Handler) DeleteClip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.store.DeleteClip(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	logging.Ctx(r.Context()).Info().Int64("clip_id", id).Msg("Clip deleted by editor")
	w.WriteHeader(http.StatusNoContent)
}
