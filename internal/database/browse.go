// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/vodarchive/internal/models"
)

// whereBuilder accumulates AND-ed conditions with their arguments.
type whereBuilder struct {
	conds []string
	args  []interface{}
}

func (w *whereBuilder) add(cond string, args ...interface{}) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func (w *whereBuilder) common(search, category string, from, to *time.Time) {
	if s := strings.TrimSpace(search); s != "" {
		w.add(`title ILIKE ? ESCAPE '\'`, likePattern(s))
	}
	if c := strings.TrimSpace(category); c != "" {
		w.add(`list_contains(string_split(COALESCE(category, ''), '|'), ?)`, c)
	}
	if from != nil {
		w.add(`created_at >= ?`, from.UTC())
	}
	if to != nil {
		w.add(`created_at < ?`, to.UTC())
	}
}

// ListVideos returns one page of videos matching f, newest first.
func (db *DB) ListVideos(ctx context.Context, f models.VideoFilter) (page *models.Page[models.Video], err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("select", "videos", start, err) }()

	w := &whereBuilder{}
	w.common(f.Search, f.Category, f.From, f.To)
	if len(f.Kinds) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(f.Kinds)), ", ")
		args := make([]interface{}, len(f.Kinds))
		for i, k := range f.Kinds {
			args[i] = string(k)
		}
		w.add("type IN ("+placeholders+")", args...)
	}

	limit := models.NormalizeLimit(f.Limit)
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM videos"+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count videos: %w", err)
	}

	query := "SELECT " + videoSelect(db.schema, "") + " FROM videos" + w.sql() + " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	rows, err := db.conn.QueryContext(ctx, query, append(w.args, limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	videos, err := scanVideos(db.schema, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan videos: %w", err)
	}

	return &models.Page[models.Video]{Items: videos, Total: total, Limit: limit, Offset: offset}, nil
}

// ListClips returns one page of clips matching f, newest first.
func (db *DB) ListClips(ctx context.Context, f models.ClipFilter) (page *models.Page[models.Clip], err error) {
	if f.FavoriteOnly && !db.schema.Has("clips", "is_favorite") {
		return nil, ErrUnsupportedColumn
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("select", "clips", start, err) }()

	w := &whereBuilder{}
	w.common(f.Search, f.Category, f.From, f.To)
	if f.VideoID != nil {
		w.add(`vod_id = ?`, *f.VideoID)
	}
	if f.FavoriteOnly {
		w.add(`is_favorite = true`)
	}

	limit := models.NormalizeLimit(f.Limit)
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM clips"+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count clips: %w", err)
	}

	query := "SELECT " + clipSelect(db.schema, "") + " FROM clips" + w.sql() + " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	rows, err := db.conn.QueryContext(ctx, query, append(w.args, limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clips: %w", err)
	}
	clips, err := scanClips(db.schema, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan clips: %w", err)
	}

	return &models.Page[models.Clip]{Items: clips, Total: total, Limit: limit, Offset: offset}, nil
}

// ListCategories returns the distinct category tags used by videos and
// clips, sorted.
func (db *DB) ListCategories(ctx context.Context) ([]string, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT DISTINCT tag FROM (
			SELECT unnest(string_split(category, '|')) AS tag FROM videos WHERE category IS NOT NULL AND category <> ''
			UNION ALL
			SELECT unnest(string_split(category, '|')) AS tag FROM clips WHERE category IS NOT NULL AND category <> ''
		) t
		WHERE tag <> ''
		ORDER BY tag
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
