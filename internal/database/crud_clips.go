// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/vodarchive/internal/logging"
	"github.com/tomtom215/vodarchive/internal/models"
)

// GetClip returns one clip by local id.
func (db *DB) GetClip(ctx context.Context, id int64) (*models.Clip, error) {
	return db.getClipWhere(ctx, "id = ?", id)
}

// GetClipByTwitchID returns one clip by remote identifier.
func (db *DB) GetClipByTwitchID(ctx context.Context, twitchID string) (*models.Clip, error) {
	return db.getClipWhere(ctx, "twitch_id = ?", twitchID)
}

func (db *DB) getClipWhere(ctx context.Context, where string, arg interface{}) (*models.Clip, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var r clipRow
	cs := clipScanSet(db.schema, &r)
	err := db.conn.QueryRowContext(ctx, "SELECT "+cs.selectList("")+" FROM clips WHERE "+where, arg).Scan(cs.values...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get clip: %w", err)
	}
	c := r.model()
	return &c, nil
}

// parentKey returns the remote identifier of a video, enforcing that the
// resolved reference and the natural key of a clip always agree.
func parentKey(ctx context.Context, q querier, videoID int64) (string, error) {
	var twitchID string
	err := q.QueryRowContext(ctx, `SELECT twitch_id FROM videos WHERE id = ?`, videoID).Scan(&twitchID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrVideoNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up video %d: %w", videoID, err)
	}
	return twitchID, nil
}

// CreateClip stores an editor-entered clip under a generated manual id.
func (db *DB) CreateClip(ctx context.Context, in *models.ClipInput) (c *models.Clip, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	c = &models.Clip{
		TwitchID:     NewManualID(),
		Title:        strings.TrimSpace(in.Title),
		Category:     models.JoinCategories(models.SplitCategories(in.Category)),
		URL:          strings.TrimSpace(in.URL),
		CreatedAt:    in.CreatedAt.UTC(),
		ThumbnailURL: optionalString(strings.TrimSpace(in.ThumbnailURL)),
	}

	start := time.Now()
	defer func() { observe("insert", "clips", start, err) }()

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		if in.VideoID != nil {
			key, err := parentKey(ctx, tx, *in.VideoID)
			if err != nil {
				return err
			}
			id := *in.VideoID
			c.VideoID = &id
			c.VideoTwitchID = &key
		}
		_, err := insertClip(ctx, tx, db.schema, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	logging.Info().Int64("clip_id", c.ID).Str("twitch_id", c.TwitchID).Msg("Clip created by editor")
	return c, nil
}

// UpdateClip applies an editor edit, including the parent video.
func (db *DB) UpdateClip(ctx context.Context, id int64, in *models.ClipInput) (*models.Clip, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		upd := &pendingUpdate{}
		upd.set("title", strings.TrimSpace(in.Title))
		upd.set("category", models.JoinCategories(models.SplitCategories(in.Category)))
		upd.set("url", strings.TrimSpace(in.URL))
		upd.set("created_at", in.CreatedAt.UTC())
		upd.set("thumbnail_url", nullString(strings.TrimSpace(in.ThumbnailURL)))
		if err := setClipParent(ctx, tx, upd, in.VideoID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, upd.sql("clips"), append(upd.values, id)...)
		if err != nil {
			return fmt.Errorf("failed to update clip: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrClipNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetClip(ctx, id)
}

// SetClipVideo re-links a clip to a video, or clears the link when videoID
// is nil. The natural parent key follows the resolved reference.
func (db *DB) SetClipVideo(ctx context.Context, id int64, videoID *int64) (*models.Clip, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		upd := &pendingUpdate{}
		if err := setClipParent(ctx, tx, upd, videoID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, upd.sql("clips"), append(upd.values, id)...)
		if err != nil {
			return fmt.Errorf("failed to re-link clip: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrClipNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetClip(ctx, id)
}

func setClipParent(ctx context.Context, q querier, upd *pendingUpdate, videoID *int64) error {
	if videoID == nil {
		upd.set("vod_id", nil)
		upd.set("vod_twitch_id", nil)
		return nil
	}
	key, err := parentKey(ctx, q, *videoID)
	if err != nil {
		return err
	}
	upd.set("vod_id", *videoID)
	upd.set("vod_twitch_id", key)
	return nil
}

// SetClipFavorite persists the editor favorite flag.
func (db *DB) SetClipFavorite(ctx context.Context, id int64, favorite bool) (*models.Clip, error) {
	if !db.schema.Has("clips", "is_favorite") {
		return nil, ErrUnsupportedColumn
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE clips SET is_favorite = ? WHERE id = ?`, favorite, id)
		if err != nil {
			return fmt.Errorf("failed to set favorite: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrClipNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetClip(ctx, id)
}

// DeleteClip removes a clip.
func (db *DB) DeleteClip(ctx context.Context, id int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM clips WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete clip: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrClipNotFound
		}
		return nil
	})
}
