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

	"github.com/google/uuid"

	"github.com/tomtom215/vodarchive/internal/logging"
	"github.com/tomtom215/vodarchive/internal/models"
)

// NewManualID returns a remote identifier for an editor-entered record.
func NewManualID() string {
	return models.ManualIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// GetVideo returns one video by local id.
func (db *DB) GetVideo(ctx context.Context, id int64) (*models.Video, error) {
	return db.getVideoWhere(ctx, "id = ?", id)
}

// GetVideoByTwitchID returns one video by remote identifier.
func (db *DB) GetVideoByTwitchID(ctx context.Context, twitchID string) (*models.Video, error) {
	return db.getVideoWhere(ctx, "twitch_id = ?", twitchID)
}

func (db *DB) getVideoWhere(ctx context.Context, where string, arg interface{}) (*models.Video, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var r videoRow
	cs := videoScanSet(db.schema, &r)
	err := db.conn.QueryRowContext(ctx, "SELECT "+cs.selectList("")+" FROM videos WHERE "+where, arg).Scan(cs.values...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	v := r.model()
	return &v, nil
}

// GetVideoDetail returns a video with its links and resolved clips.
func (db *DB) GetVideoDetail(ctx context.Context, id int64) (*models.VideoDetail, error) {
	v, err := db.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	links, err := db.ListVideoLinks(ctx, id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	rows, err := db.conn.QueryContext(ctx,
		"SELECT "+clipSelect(db.schema, "")+" FROM clips WHERE vod_id = ? ORDER BY created_at DESC, id DESC", id)
	if err != nil {
		return nil, fmt.Errorf("failed to list video clips: %w", err)
	}
	clips, err := scanClips(db.schema, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan video clips: %w", err)
	}

	return &models.VideoDetail{Video: *v, Links: links, Clips: clips}, nil
}

// CreateVideo stores an editor-entered video under a generated manual id.
func (db *DB) CreateVideo(ctx context.Context, in *models.VideoInput) (v *models.Video, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	kind := in.Kind
	if kind == "" {
		kind = models.VideoKindManual
	}
	v = &models.Video{
		TwitchID:  NewManualID(),
		Title:     strings.TrimSpace(in.Title),
		Category:  models.JoinCategories(models.SplitCategories(in.Category)),
		URL:       strings.TrimSpace(in.URL),
		CreatedAt: in.CreatedAt.UTC(),
		Kind:      kind,
	}

	start := time.Now()
	defer func() { observe("insert", "videos", start, err) }()

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		_, err := insertVideo(ctx, tx, db.schema, v)
		return err
	})
	if err != nil {
		return nil, err
	}
	logging.Info().Int64("video_id", v.ID).Str("twitch_id", v.TwitchID).Msg("Video created by editor")
	return v, nil
}

// UpdateVideo applies an editor edit. Unlike reconciliation, every editable
// field is overwritten.
func (db *DB) UpdateVideo(ctx context.Context, id int64, in *models.VideoInput) (*models.Video, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		upd := &pendingUpdate{}
		upd.set("title", strings.TrimSpace(in.Title))
		upd.set("category", models.JoinCategories(models.SplitCategories(in.Category)))
		upd.set("url", strings.TrimSpace(in.URL))
		upd.set("created_at", in.CreatedAt.UTC())
		if in.Kind != "" {
			upd.set("type", string(in.Kind))
		}
		res, err := tx.ExecContext(ctx, upd.sql("videos"), append(upd.values, id)...)
		if err != nil {
			return fmt.Errorf("failed to update video: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrVideoNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db.GetVideo(ctx, id)
}

// DeleteVideo removes a video, its links, and un-resolves the clips that
// referenced it. The clips keep their natural parent key.
func (db *DB) DeleteVideo(ctx context.Context, id int64) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireVideo(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM video_links WHERE vod_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete video links: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE clips SET vod_id = NULL WHERE vod_id = ?`, id); err != nil {
			return fmt.Errorf("failed to unlink clips: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM videos WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete video: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logging.Info().Int64("video_id", id).Msg("Video deleted by editor")
	return nil
}
