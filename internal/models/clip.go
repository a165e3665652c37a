// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package models

import "time"

// Clip is a short highlight excerpted from a video.
//
// VideoTwitchID is the natural key of the parent video as reported upstream and
// may name a video that is not stored yet. VideoID is the resolved local
// reference; when set, the referenced video's TwitchID equals VideoTwitchID.
// VideoID is filled in later by the link resolver once the parent is synced.
type Clip struct {
	ID            int64     `json:"id"`
	TwitchID      string    `json:"twitch_id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	URL           string    `json:"url"`
	CreatedAt     time.Time `json:"created_at"`
	ThumbnailURL  *string   `json:"thumbnail_url,omitempty"`
	VideoTwitchID *string   `json:"vod_twitch_id,omitempty"`
	VideoID       *int64    `json:"vod_id,omitempty"`
	IsFavorite    bool      `json:"is_favorite"`

	// Schema version 2 columns.
	Duration    *float64 `json:"duration,omitempty"`
	ViewCount   *int64   `json:"view_count,omitempty"`
	GameName    *string  `json:"game_name,omitempty"`
	CreatorName *string  `json:"creator_name,omitempty"`
}

// Categories splits Category into its non-empty, trimmed tags.
func (c *Clip) Categories() []string {
	return SplitCategories(c.Category)
}

// Linked reports whether the clip has a resolved parent video.
func (c *Clip) Linked() bool {
	return c.VideoID != nil
}

// Unresolved reports whether the clip names a parent that is not linked yet.
func (c *Clip) Unresolved() bool {
	return c.VideoID == nil && c.VideoTwitchID != nil && *c.VideoTwitchID != ""
}
