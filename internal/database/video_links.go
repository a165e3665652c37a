// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/vodarchive/internal/linkid"
	"github.com/tomtom215/vodarchive/internal/logging"
	"github.com/tomtom215/vodarchive/internal/models"
)

// AddVideoLink attaches a cross-platform URL to a video. The platform
// identifier is derived from the URL at write time.
func (db *DB) AddVideoLink(ctx context.Context, videoID int64, url, title string) (link *models.VideoLink, err error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: url", ErrMissingField)
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("insert", "video_links", start, err) }()

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireVideo(ctx, tx, videoID); err != nil {
			return err
		}
		id, err := nextID(ctx, tx, "video_links")
		if err != nil {
			return err
		}
		link = &models.VideoLink{
			ID:         id,
			VideoID:    videoID,
			URL:        url,
			Title:      optionalString(strings.TrimSpace(title)),
			PlatformID: linkid.ExtractPtr(url),
			CreatedAt:  db.now().UTC(),
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO video_links (id, vod_id, url, title, video_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			link.ID, link.VideoID, link.URL, nullableString(link.Title), nullableString(link.PlatformID), link.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert video link: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

// HasVideoLink reports whether videoID already has a link with url.
func (db *DB) HasVideoLink(ctx context.Context, videoID int64, url string) (bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int64
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM video_links WHERE vod_id = ? AND url = ?`, videoID, strings.TrimSpace(url)).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check video link: %w", err)
	}
	return n > 0, nil
}

// ListVideoLinks returns the links of a video, oldest first.
func (db *DB) ListVideoLinks(ctx context.Context, videoID int64) ([]models.VideoLink, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+videoLinkColumns+` FROM video_links WHERE vod_id = ? ORDER BY created_at, id`, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list video links: %w", err)
	}
	links, err := scanVideoLinks(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan video links: %w", err)
	}
	return links, nil
}

// DeleteVideoLink removes one link of a video.
func (db *DB) DeleteVideoLink(ctx context.Context, videoID, linkID int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM video_links WHERE id = ? AND vod_id = ?`, linkID, videoID)
		if err != nil {
			return fmt.Errorf("failed to delete video link: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrLinkNotFound
		}
		return nil
	})
}

// RepairLinkIdentifiers re-derives the platform identifier of every link
// from its URL and stores it where it differs, including clearing an
// identifier the current rule set no longer derives. Returns the number of
// rows changed; a second run returns 0.
func (db *DB) RepairLinkIdentifiers(ctx context.Context) (fixed int, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("repair", "video_links", start, err) }()

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT id, url, video_id FROM video_links ORDER BY id`)
		if err != nil {
			return fmt.Errorf("failed to read video links: %w", err)
		}

		type change struct {
			id      int64
			derived *string
		}
		var changes []change
		for rows.Next() {
			var id int64
			var url string
			var stored *string
			if err := rows.Scan(&id, &url, &stored); err != nil {
				closeQuietly(rows)
				return fmt.Errorf("failed to scan video link: %w", err)
			}
			derived := linkid.ExtractPtr(url)
			if derefString(derived) != derefString(stored) || (derived == nil) != (stored == nil) {
				changes = append(changes, change{id: id, derived: derived})
			}
		}
		if err := rows.Err(); err != nil {
			closeQuietly(rows)
			return err
		}
		closeWithLog(rows, "video link rows")

		for _, c := range changes {
			if _, err := tx.ExecContext(ctx, `UPDATE video_links SET video_id = ? WHERE id = ?`, nullableString(c.derived), c.id); err != nil {
				return fmt.Errorf("failed to update video link %d: %w", c.id, err)
			}
		}
		fixed = len(changes)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if fixed > 0 {
		logging.Info().Int("fixed", fixed).Msg("Repaired video link identifiers")
	}
	return fixed, nil
}

func requireVideo(ctx context.Context, q querier, videoID int64) error {
	var n int64
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM videos WHERE id = ?`, videoID).Scan(&n); err != nil {
		return fmt.Errorf("failed to look up video %d: %w", videoID, err)
	}
	if n == 0 {
		return ErrVideoNotFound
	}
	return nil
}
