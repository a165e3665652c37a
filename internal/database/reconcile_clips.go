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

// ReconcileClips merges a batch of upstream clips into the store.
//
// The natural parent key (vod_twitch_id) is stored as received; resolving it
// to a local video is left to ResolveLinks. The favorite flag is never
// touched by reconciliation.
func (db *DB) ReconcileClips(ctx context.Context, records []twitch.Clip) (ReconcileResult, error) {
	var result ReconcileResult
	clips := make([]models.Clip, 0, len(records))

	for i := range records {
		c, recErr := clipFromRemote(i, &records[i])
		if recErr != nil {
			if errors.Is(recErr, ErrMissingRemoteID) {
				result.Skipped++
			}
			result.Errors = append(result.Errors, recErr)
			logging.Warn().Err(recErr).Msg("Skipping clip record")
			continue
		}
		clips = append(clips, c)
	}

	inserted, updated, err := db.upsertClips(ctx, clips)
	if err != nil {
		return result, err
	}
	result.Inserted, result.Updated = inserted, updated
	return result, nil
}

// ReconcileStoredClips merges already-mapped clips with the ReconcileClips
// rules. A resolved VideoID on the input is ignored; only the natural key is
// carried over.
func (db *DB) ReconcileStoredClips(ctx context.Context, clips []models.Clip) (ReconcileResult, error) {
	var result ReconcileResult
	valid := make([]models.Clip, 0, len(clips))

	for i, c := range clips {
		switch {
		case strings.TrimSpace(c.TwitchID) == "":
			result.Skipped++
			result.Errors = append(result.Errors, &RecordError{Entity: "clip", Index: i, Err: ErrMissingRemoteID})
			continue
		case c.CreatedAt.IsZero():
			result.Errors = append(result.Errors, &RecordError{Entity: "clip", Index: i, RemoteID: c.TwitchID, Field: "created_at", Err: ErrMissingField})
			continue
		}
		c.VideoID = nil
		if blank(c.VideoTwitchID) {
			c.VideoTwitchID = nil
		}
		c.Category = models.JoinCategories(models.SplitCategories(c.Category))
		c.CreatedAt = c.CreatedAt.UTC()
		valid = append(valid, c)
	}

	inserted, updated, err := db.upsertClips(ctx, valid)
	if err != nil {
		return result, err
	}
	result.Inserted, result.Updated = inserted, updated
	return result, nil
}

func clipFromRemote(index int, rec *twitch.Clip) (models.Clip, *RecordError) {
	id := strings.TrimSpace(rec.ID)
	if id == "" {
		return models.Clip{}, &RecordError{Entity: "clip", Index: index, Err: ErrMissingRemoteID}
	}
	created, recErr := parseRemoteTime("clip", index, id, rec.CreatedAt)
	if recErr != nil {
		return models.Clip{}, recErr
	}

	category := rec.GameName
	if category == "" {
		category = rec.GameID
	}
	duration := rec.Duration
	viewCount := rec.ViewCount

	return models.Clip{
		TwitchID:      id,
		Title:         rec.Title,
		Category:      models.JoinCategories(models.SplitCategories(category)),
		URL:           rec.URL,
		CreatedAt:     created,
		ThumbnailURL:  optionalString(rec.ThumbnailURL),
		VideoTwitchID: optionalString(strings.TrimSpace(rec.VideoID)),
		Duration:      &duration,
		ViewCount:     &viewCount,
		GameName:      optionalString(rec.GameName),
		CreatorName:   optionalString(rec.CreatorName),
	}, nil
}

func (db *DB) upsertClips(ctx context.Context, clips []models.Clip) (inserted, updated int, err error) {
	if len(clips) == 0 {
		return 0, 0, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("reconcile", "clips", start, err) }()

	d := db.schema
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		inserted, updated = 0, 0
		for i := range clips {
			c := &clips[i]

			existing, found, err := clipForRepair(ctx, tx, d, c.TwitchID)
			if err != nil {
				return err
			}
			if !found {
				if _, err := insertClip(ctx, tx, d, c); err != nil {
					return err
				}
				inserted++
				continue
			}

			upd := clipRepairs(existing, c)
			if upd.empty() {
				continue
			}
			if _, err := tx.ExecContext(ctx, upd.sql("clips"), append(upd.values, existing.ID)...); err != nil {
				return fmt.Errorf("failed to repair clip %s: %w", c.TwitchID, err)
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

// clipRepairs lists the changes sync may make to an existing clip: filling
// an absent thumbnail, URL or natural parent key.
func clipRepairs(existing, incoming *models.Clip) *pendingUpdate {
	upd := &pendingUpdate{}
	if blank(existing.ThumbnailURL) && !blank(incoming.ThumbnailURL) {
		upd.set("thumbnail_url", *incoming.ThumbnailURL)
	}
	if existing.URL == "" && incoming.URL != "" {
		upd.set("url", incoming.URL)
	}
	if blank(existing.VideoTwitchID) && !blank(incoming.VideoTwitchID) {
		upd.set("vod_twitch_id", *incoming.VideoTwitchID)
	}
	return upd
}

func clipForRepair(ctx context.Context, q querier, d SchemaDescriptor, twitchID string) (*models.Clip, bool, error) {
	var r clipRow
	cs := clipScanSet(d, &r)
	err := q.QueryRowContext(ctx, "SELECT "+cs.selectList("")+" FROM clips WHERE twitch_id = ?", twitchID).Scan(cs.values...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up clip %s: %w", twitchID, err)
	}
	c := r.model()
	return &c, true, nil
}

// insertClip writes a new row and returns its id. Caller must hold writeMu.
func insertClip(ctx context.Context, q querier, d SchemaDescriptor, c *models.Clip) (int64, error) {
	id, err := nextID(ctx, q, "clips")
	if err != nil {
		return 0, err
	}

	cs := &columnSet{}
	cs.add(d, "clips", "id", id)
	cs.add(d, "clips", "twitch_id", c.TwitchID)
	cs.add(d, "clips", "title", c.Title)
	cs.add(d, "clips", "category", c.Category)
	cs.add(d, "clips", "url", c.URL)
	cs.add(d, "clips", "created_at", c.CreatedAt.UTC())
	cs.add(d, "clips", "thumbnail_url", nullableString(c.ThumbnailURL))
	cs.add(d, "clips", "vod_twitch_id", nullableString(c.VideoTwitchID))
	cs.add(d, "clips", "vod_id", nullableInt64(c.VideoID))
	cs.add(d, "clips", "duration", nullableFloat64(c.Duration))
	cs.add(d, "clips", "view_count", nullableInt64(c.ViewCount))
	cs.add(d, "clips", "game_name", nullableString(c.GameName))
	cs.add(d, "clips", "creator_name", nullableString(c.CreatorName))
	cs.add(d, "clips", "is_favorite", c.IsFavorite)

	if _, err := q.ExecContext(ctx, cs.insertSQL("clips"), cs.values...); err != nil {
		return 0, fmt.Errorf("failed to insert clip %s: %w", c.TwitchID, err)
	}
	c.ID = id
	return id, nil
}
