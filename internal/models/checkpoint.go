// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package models

import "time"

// Checkpoint kinds. The automatic sync reads and writes CheckpointVideos and
// CheckpointClips; a date-ranged sync only ever appends CheckpointManual.
const (
	CheckpointVideos = "videos"
	CheckpointClips  = "clips"
	CheckpointManual = "manual"
)

// Checkpoint is one row of the append-only sync log.
type Checkpoint struct {
	ID           int64     `json:"id"`
	Kind         string    `json:"sync_type"`
	LastSyncTime time.Time `json:"last_sync_time"`
	CreatedAt    time.Time `json:"created_at"`
}

// SyncStatus summarizes the store for operators.
type SyncStatus struct {
	// LastSync maps checkpoint kind to its most recent instant.
	LastSync map[string]time.Time `json:"last_sync"`

	TotalVideos      int64 `json:"total_videos"`
	TotalClips       int64 `json:"total_clips"`
	TotalLinks       int64 `json:"total_links"`
	LinkedClipCount  int64 `json:"linked_clip_count"`
	PendingClipLinks int64 `json:"pending_clip_links"`

	LatestVideoAt *time.Time `json:"latest_video_at,omitempty"`
	LatestClipAt  *time.Time `json:"latest_clip_at,omitempty"`
	VideosToday   int64      `json:"videos_today"`
	ClipsToday    int64      `json:"clips_today"`

	SchemaVersion int `json:"schema_version"`
}
