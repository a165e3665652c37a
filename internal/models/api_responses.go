// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package models

import (
	"time"
)

// APIResponse is the envelope for every HTTP response.
//
//	{"status":"success","data":{...},"metadata":{"timestamp":"2026-01-01T12:00:00Z"}}
//	{"status":"error","error":{"code":"NOT_FOUND","message":"video not found"},"metadata":{...}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries server time and, when measured, handler time.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is the error body of an APIResponse.
//
// Codes in use: VALIDATION_ERROR, DATABASE_ERROR, AUTHENTICATION_ERROR,
// NOT_FOUND, CONFLICT, RATE_LIMIT_EXCEEDED, EDITOR_DISABLED,
// SYNC_IN_PROGRESS, UPSTREAM_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SyncRequest is the body of POST /api/v1/sync. Both dates or neither.
type SyncRequest struct {
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// LoginRequest is the body of POST /api/v1/auth/login.
type LoginRequest struct {
	Password string `json:"password" validate:"required,max=256"`
}

// LoginResponse carries the editor session token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VideoInput is the editor create/update body for a video.
type VideoInput struct {
	Title     string    `json:"title" validate:"required,max=500"`
	Category  string    `json:"category" validate:"max=500,category"`
	URL       string    `json:"url" validate:"omitempty,url,max=2048"`
	CreatedAt time.Time `json:"created_at" validate:"required"`
	Kind      VideoKind `json:"type" validate:"omitempty,oneof=archive upload highlight upload_manual"`
}

// ClipInput is the editor create/update body for a clip.
type ClipInput struct {
	Title        string    `json:"title" validate:"required,max=500"`
	Category     string    `json:"category" validate:"max=500,category"`
	URL          string    `json:"url" validate:"omitempty,url,max=2048"`
	CreatedAt    time.Time `json:"created_at" validate:"required"`
	ThumbnailURL string    `json:"thumbnail_url" validate:"omitempty,url,max=2048"`
	VideoID      *int64    `json:"vod_id" validate:"omitempty,gt=0"`
}

// VideoLinkInput is the editor body for attaching a cross-platform link.
type VideoLinkInput struct {
	URL   string `json:"url" validate:"required,url,max=2048"`
	Title string `json:"title" validate:"max=500"`
}

// FavoriteInput toggles a clip favorite.
type FavoriteInput struct {
	Favorite bool `json:"favorite"`
}

// ClipVideoInput re-links a clip. A nil VideoID clears the link.
type ClipVideoInput struct {
	VideoID *int64 `json:"vod_id" validate:"omitempty,gt=0"`
}

// RepairResult is returned by the repair endpoints.
type RepairResult struct {
	Fixed int `json:"fixed"`
}

// ConnectionTest is returned by GET /api/v1/sync/test.
type ConnectionTest struct {
	ChannelLogin string `json:"channel_login"`
	DisplayName  string `json:"display_name"`
	UserID       string `json:"user_id"`
	TokenSource  string `json:"token_source"` // "configured" or "exchanged"
}
