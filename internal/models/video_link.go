// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package models

import "time"

// VideoLink is an alternate-platform URL attached to a video. The owning video
// exclusively owns its links; deleting the video deletes them.
//
// PlatformID is derived from URL by linkid.Extract and is nil when no rule
// matches. It is never edited directly.
type VideoLink struct {
	ID         int64     `json:"id"`
	VideoID    int64     `json:"vod_id"`
	URL        string    `json:"url"`
	Title      *string   `json:"title,omitempty"`
	PlatformID *string   `json:"video_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
