// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/vodarchive/internal/models"
)

// GetSyncStatus summarizes the store: per-kind checkpoint instants, row
// counts, link resolution counts and today's additions (UTC day).
func (db *DB) GetSyncStatus(ctx context.Context) (*models.SyncStatus, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	lastSync, err := db.latestCheckpoints(ctx)
	if err != nil {
		return nil, err
	}

	now := db.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	status := &models.SyncStatus{
		LastSync:      lastSync,
		SchemaVersion: db.schema.Version,
	}

	var latestVideo, latestClip sql.NullTime
	err = db.conn.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM videos),
			(SELECT COUNT(*) FROM clips),
			(SELECT COUNT(*) FROM video_links),
			(SELECT COUNT(*) FROM clips WHERE vod_id IS NOT NULL),
			(SELECT COUNT(*) FROM clips WHERE vod_id IS NULL AND vod_twitch_id IS NOT NULL AND vod_twitch_id <> ''),
			(SELECT MAX(created_at) FROM videos),
			(SELECT MAX(created_at) FROM clips),
			(SELECT COUNT(*) FROM videos WHERE created_at >= ?),
			(SELECT COUNT(*) FROM clips WHERE created_at >= ?)
	`, today, today).Scan(
		&status.TotalVideos,
		&status.TotalClips,
		&status.TotalLinks,
		&status.LinkedClipCount,
		&status.PendingClipLinks,
		&latestVideo,
		&latestClip,
		&status.VideosToday,
		&status.ClipsToday,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read sync status: %w", err)
	}
	if latestVideo.Valid {
		t := latestVideo.Time.UTC()
		status.LatestVideoAt = &t
	}
	if latestClip.Valid {
		t := latestClip.Time.UTC()
		status.LatestClipAt = &t
	}
	return status, nil
}
