// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package models

import (
	"strings"
	"time"
)

// VideoKind is the upstream video type, or the marker for editor-entered rows.
type VideoKind string

const (
	VideoKindArchive   VideoKind = "archive"
	VideoKindUpload    VideoKind = "upload"
	VideoKindHighlight VideoKind = "highlight"

	// VideoKindManual marks videos entered by an editor rather than synced.
	VideoKindManual VideoKind = "upload_manual"
)

// SyncedVideoKinds are fetched, in this order, by an automatic sync.
var SyncedVideoKinds = []VideoKind{VideoKindArchive, VideoKindUpload, VideoKindHighlight}

// Valid reports whether k is one of the known kinds.
func (k VideoKind) Valid() bool {
	switch k {
	case VideoKindArchive, VideoKindUpload, VideoKindHighlight, VideoKindManual:
		return true
	}
	return false
}

// ManualIDPrefix prefixes the remote identifier of editor-entered rows so they
// can never collide with upstream ids.
const ManualIDPrefix = "manual_"

// CategoryDelimiter separates tags in the multi-value category column.
const CategoryDelimiter = "|"

// Video is one archived stream recording or upload.
//
// TwitchID is the upstream natural key and is unique among videos. URL may be
// upgraded from a channel-root form to the canonical per-video form by sync,
// never the reverse. Duration, ViewCount, GameName and ThumbnailURL only exist
// on schema version 1 and later and are nil on narrower stores.
type Video struct {
	ID        int64     `json:"id"`
	TwitchID  string    `json:"twitch_id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	Kind      VideoKind `json:"type"`

	Duration     *string `json:"duration,omitempty"`
	ViewCount    *int64  `json:"view_count,omitempty"`
	GameName     *string `json:"game_name,omitempty"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
}

// Categories splits Category into its non-empty, trimmed tags.
func (v *Video) Categories() []string {
	return SplitCategories(v.Category)
}

// IsManual reports whether the video was entered by an editor.
func (v *Video) IsManual() bool {
	return v.Kind == VideoKindManual || strings.HasPrefix(v.TwitchID, ManualIDPrefix)
}

// VideoDetail is a video with the records that hang off it.
type VideoDetail struct {
	Video
	Links []VideoLink `json:"links"`
	Clips []Clip      `json:"clips"`
}

// SplitCategories splits a "|"-delimited category string into trimmed tags.
func SplitCategories(category string) []string {
	if category == "" {
		return nil
	}
	parts := strings.Split(category, CategoryDelimiter)
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// JoinCategories is the inverse of SplitCategories.
func JoinCategories(tags []string) string {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	return strings.Join(clean, CategoryDelimiter)
}
