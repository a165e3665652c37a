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
	"github.com/tomtom215/vodarchive/internal/models/twitch"
)

// ReconcileVideos merges a batch of upstream videos into the store.
//
// fallbackKind is stored when a record's own type is not a synced kind.
// Records without an id are skipped and reported; records with a missing or
// malformed created_at are reported. Neither stops the batch. The error is
// non-nil only when the batch transaction itself failed, in which case
// nothing from the batch was written.
func (db *DB) ReconcileVideos(ctx context.Context, records []twitch.Video, fallbackKind models.VideoKind) (ReconcileResult, error) {
	var result ReconcileResult
	videos := make([]models.Video, 0, len(records))

	for i := range records {
		v, recErr := videoFromRemote(i, &records[i], fallbackKind)
		if recErr != nil {
			if errors.Is(recErr, ErrMissingRemoteID) {
				result.Skipped++
			}
			result.Errors = append(result.Errors, recErr)
			logging.Warn().Err(recErr).Msg("Skipping video record")
			continue
		}
		videos = append(videos, v)
	}

	inserted, updated, err := db.upsertVideos(ctx, videos)
	if err != nil {
		return result, err
	}
	result.Inserted, result.Updated = inserted, updated
	return result, nil
}

// ReconcileStoredVideos merges already-mapped videos, e.g. rows read from a
// legacy archive, with the same insert and repair rules as ReconcileVideos.
func (db *DB) ReconcileStoredVideos(ctx context.Context, videos []models.Video) (ReconcileResult, error) {
	var result ReconcileResult
	valid := make([]models.Video, 0, len(videos))

	for i, v := range videos {
		switch {
		case strings.TrimSpace(v.TwitchID) == "":
			result.Skipped++
			result.Errors = append(result.Errors, &RecordError{Entity: "video", Index: i, Err: ErrMissingRemoteID})
			continue
		case v.CreatedAt.IsZero():
			result.Errors = append(result.Errors, &RecordError{Entity: "video", Index: i, RemoteID: v.TwitchID, Field: "created_at", Err: ErrMissingField})
			continue
		}
		if !v.Kind.Valid() {
			v.Kind = models.VideoKindArchive
		}
		v.Category = models.JoinCategories(models.SplitCategories(v.Category))
		v.CreatedAt = v.CreatedAt.UTC()
		valid = append(valid, v)
	}

	inserted, updated, err := db.upsertVideos(ctx, valid)
	if err != nil {
		return result, err
	}
	result.Inserted, result.Updated = inserted, updated
	return result, nil
}

func videoFromRemote(index int, rec *twitch.Video, fallbackKind models.VideoKind) (models.Video, *RecordError) {
	id := strings.TrimSpace(rec.ID)
	if id == "" {
		return models.Video{}, &RecordError{Entity: "video", Index: index, Err: ErrMissingRemoteID}
	}
	created, recErr := parseRemoteTime("video", index, id, rec.CreatedAt)
	if recErr != nil {
		return models.Video{}, recErr
	}

	kind := models.VideoKind(rec.Type)
	if !kind.Valid() || kind == models.VideoKindManual {
		kind = fallbackKind
	}
	if !kind.Valid() {
		kind = models.VideoKindArchive
	}

	category := rec.GameName
	if category == "" {
		category = rec.GameID
	}
	viewCount := rec.ViewCount

	return models.Video{
		TwitchID:     id,
		Title:        rec.Title,
		Category:     models.JoinCategories(models.SplitCategories(category)),
		URL:          rec.URL,
		CreatedAt:    created,
		Kind:         kind,
		Duration:     optionalString(rec.Duration),
		ViewCount:    &viewCount,
		GameName:     optionalString(rec.GameName),
		ThumbnailURL: optionalString(rec.ThumbnailURL),
	}, nil
}

// upsertVideos applies insert-if-absent plus the repair rules in one
// transaction.
func (db *DB) upsertVideos(ctx context.Context, videos []models.Video) (inserted, updated int, err error) {
	if len(videos) == 0 {
		return 0, 0, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("reconcile", "videos", start, err) }()

	d := db.schema
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		inserted, updated = 0, 0
		for i := range videos {
			v := &videos[i]

			existing, found, err := videoForRepair(ctx, tx, d, v.TwitchID)
			if err != nil {
				return err
			}
			if !found {
				if _, err := insertVideo(ctx, tx, d, v); err != nil {
					return err
				}
				inserted++
				continue
			}

			upd := videoRepairs(d, existing, v)
			if upd.empty() {
				continue
			}
			if _, err := tx.ExecContext(ctx, upd.sql("videos"), append(upd.values, existing.ID)...); err != nil {
				return fmt.Errorf("failed to repair video %s: %w", v.TwitchID, err)
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return inserted, updated, nil
}

// videoRepairs lists the changes sync may make to an existing video: the
// monotonic URL upgrade and filling an absent thumbnail.
func videoRepairs(d SchemaDescriptor, existing, incoming *models.Video) *pendingUpdate {
	upd := &pendingUpdate{}
	if shouldUpgradeURL(existing.URL, incoming.URL) {
		upd.set("url", incoming.URL)
	}
	if d.Has("videos", "thumbnail_url") && blank(existing.ThumbnailURL) && !blank(incoming.ThumbnailURL) {
		upd.set("thumbnail_url", *incoming.ThumbnailURL)
	}
	return upd
}

func videoForRepair(ctx context.Context, q querier, d SchemaDescriptor, twitchID string) (*models.Video, bool, error) {
	var r videoRow
	cs := videoScanSet(d, &r)
	err := q.QueryRowContext(ctx, "SELECT "+cs.selectList("")+" FROM videos WHERE twitch_id = ?", twitchID).Scan(cs.values...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up video %s: %w", twitchID, err)
	}
	v := r.model()
	return &v, true, nil
}

// insertVideo writes a new row with every column the schema supports and
// returns its id. Caller must hold writeMu.
func insertVideo(ctx context.Context, q querier, d SchemaDescriptor, v *models.Video) (int64, error) {
	id, err := nextID(ctx, q, "videos")
	if err != nil {
		return 0, err
	}

	cs := &columnSet{}
	cs.add(d, "videos", "id", id)
	cs.add(d, "videos", "twitch_id", v.TwitchID)
	cs.add(d, "videos", "title", v.Title)
	cs.add(d, "videos", "category", v.Category)
	cs.add(d, "videos", "url", v.URL)
	cs.add(d, "videos", "created_at", v.CreatedAt.UTC())
	cs.add(d, "videos", "type", string(v.Kind))
	cs.add(d, "videos", "duration", nullableString(v.Duration))
	cs.add(d, "videos", "view_count", nullableInt64(v.ViewCount))
	cs.add(d, "videos", "game_name", nullableString(v.GameName))
	cs.add(d, "videos", "thumbnail_url", nullableString(v.ThumbnailURL))

	if _, err := q.ExecContext(ctx, cs.insertSQL("videos"), cs.values...); err != nil {
		return 0, fmt.Errorf("failed to insert video %s: %w", v.TwitchID, err)
	}
	v.ID = id
	return id, nil
}
