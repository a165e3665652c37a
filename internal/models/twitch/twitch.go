// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

// Package twitch holds the JSON wire records of the Helix REST API.
//
// Timestamps are kept as strings. The reconciler parses them per record so a
// malformed value fails that one record rather than the whole page decode.
package twitch

// Pagination is the continuation block of a collection response.
// An empty Cursor means there are no further pages.
type Pagination struct {
	Cursor string `json:"cursor,omitempty"`
}

// Response is the common shape of every Helix collection endpoint.
type Response[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// TokenResponse is the body of a successful client-credentials exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// User is one record of GET /users.
type User struct {
	ID              string `json:"id"`
	Login           string `json:"login"`
	DisplayName     string `json:"display_name"`
	Type            string `json:"type"`
	BroadcasterType string `json:"broadcaster_type"`
	ProfileImageURL string `json:"profile_image_url"`
	CreatedAt       string `json:"created_at"`
}

// Video is one record of GET /videos.
//
// GameID and GameName are not part of every response shape; they are read when
// present and stored as the category.
type Video struct {
	ID           string `json:"id"`
	StreamID     string `json:"stream_id"`
	UserID       string `json:"user_id"`
	UserLogin    string `json:"user_login"`
	UserName     string `json:"user_name"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	CreatedAt    string `json:"created_at"`
	PublishedAt  string `json:"published_at"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Viewable     string `json:"viewable"`
	ViewCount    int64  `json:"view_count"`
	Language     string `json:"language"`
	Type         string `json:"type"`
	Duration     string `json:"duration"`
	GameID       string `json:"game_id,omitempty"`
	GameName     string `json:"game_name,omitempty"`
}

// Clip is one record of GET /clips. VideoID is empty when the source video is
// unavailable or was deleted.
type Clip struct {
	ID              string  `json:"id"`
	URL             string  `json:"url"`
	EmbedURL        string  `json:"embed_url"`
	BroadcasterID   string  `json:"broadcaster_id"`
	BroadcasterName string  `json:"broadcaster_name"`
	CreatorID       string  `json:"creator_id"`
	CreatorName     string  `json:"creator_name"`
	VideoID         string  `json:"video_id"`
	GameID          string  `json:"game_id"`
	GameName        string  `json:"game_name,omitempty"`
	Language        string  `json:"language"`
	Title           string  `json:"title"`
	ViewCount       int64   `json:"view_count"`
	CreatedAt       string  `json:"created_at"`
	ThumbnailURL    string  `json:"thumbnail_url"`
	Duration        float64 `json:"duration"`
	VODOffset       *int64  `json:"vod_offset"`
	IsFeatured      bool    `json:"is_featured"`
}
