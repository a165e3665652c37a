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
)

// ResolveLinks sets the resolved parent reference of every clip whose
// reference is null and whose natural parent key matches a stored video.
//
// One pass reaches the fixpoint: videos are never created by this step, so
// a second call links nothing.
func (db *DB) ResolveLinks(ctx context.Context) (linked int, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("resolve_links", "clips", start, err) }()

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE clips SET vod_id = v.id
			FROM videos v
			WHERE clips.vod_id IS NULL
			  AND clips.vod_twitch_id IS NOT NULL
			  AND clips.vod_twitch_id <> ''
			  AND v.twitch_id = clips.vod_twitch_id
		`)
		if err != nil {
			return fmt.Errorf("failed to resolve clip links: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to count resolved clip links: %w", err)
		}
		linked = int(n)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return linked, nil
}

// CountUnresolvedClips returns how many clips carry a natural parent key
// that has not been resolved yet.
func (db *DB) CountUnresolvedClips(ctx context.Context) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int64
	err := db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM clips
		WHERE vod_id IS NULL AND vod_twitch_id IS NOT NULL AND vod_twitch_id <> ''
	`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unresolved clips: %w", err)
	}
	return n, nil
}
