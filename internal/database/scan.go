// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package database

import (
	"database/sql"

	"github.com/tomtom215/vodarchive/internal/models"
)

// videoRow receives one videos row. Nullable base columns go through
// sql.Null* holders; optional columns scan straight into model pointers.
type videoRow struct {
	v        models.Video
	category sql.NullString
	url      sql.NullString
	kind     sql.NullString
}

func videoScanSet(d SchemaDescriptor, r *videoRow) *columnSet {
	cs := &columnSet{}
	cs.add(d, "videos", "id", &r.v.ID)
	cs.add(d, "videos", "twitch_id", &r.v.TwitchID)
	cs.add(d, "videos", "title", &r.v.Title)
	cs.add(d, "videos", "category", &r.category)
	cs.add(d, "videos", "url", &r.url)
	cs.add(d, "videos", "created_at", &r.v.CreatedAt)
	cs.add(d, "videos", "type", &r.kind)
	cs.add(d, "videos", "duration", &r.v.Duration)
	cs.add(d, "videos", "view_count", &r.v.ViewCount)
	cs.add(d, "videos", "game_name", &r.v.GameName)
	cs.add(d, "videos", "thumbnail_url", &r.v.ThumbnailURL)
	return cs
}

func (r *videoRow) model() models.Video {
	v := r.v
	v.Category = r.category.String
	v.URL = r.url.String
	v.Kind = models.VideoKind(r.kind.String)
	v.CreatedAt = v.CreatedAt.UTC()
	return v
}

// videoSelect renders the SELECT column list of videos under alias.
func videoSelect(d SchemaDescriptor, alias string) string {
	return videoScanSet(d, &videoRow{}).selectList(alias)
}

func scanVideos(d SchemaDescriptor, rows *sql.Rows) ([]models.Video, error) {
	defer rows.Close()
	videos := []models.Video{}
	for rows.Next() {
		var r videoRow
		if err := rows.Scan(videoScanSet(d, &r).values...); err != nil {
			return nil, err
		}
		videos = append(videos, r.model())
	}
	return videos, rows.Err()
}

type clipRow struct {
	c          models.Clip
	category   sql.NullString
	url        sql.NullString
	isFavorite sql.NullBool
}

func clipScanSet(d SchemaDescriptor, r *clipRow) *columnSet {
	cs := &columnSet{}
	cs.add(d, "clips", "id", &r.c.ID)
	cs.add(d, "clips", "twitch_id", &r.c.TwitchID)
	cs.add(d, "clips", "title", &r.c.Title)
	cs.add(d, "clips", "category", &r.category)
	cs.add(d, "clips", "url", &r.url)
	cs.add(d, "clips", "created_at", &r.c.CreatedAt)
	cs.add(d, "clips", "thumbnail_url", &r.c.ThumbnailURL)
	cs.add(d, "clips", "vod_twitch_id", &r.c.VideoTwitchID)
	cs.add(d, "clips", "vod_id", &r.c.VideoID)
	cs.add(d, "clips", "duration", &r.c.Duration)
	cs.add(d, "clips", "view_count", &r.c.ViewCount)
	cs.add(d, "clips", "game_name", &r.c.GameName)
	cs.add(d, "clips", "creator_name", &r.c.CreatorName)
	cs.add(d, "clips", "is_favorite", &r.isFavorite)
	return cs
}

func (r *clipRow) model() models.Clip {
	c := r.c
	c.Category = r.category.String
	c.URL = r.url.String
	c.IsFavorite = r.isFavorite.Valid && r.isFavorite.Bool
	c.CreatedAt = c.CreatedAt.UTC()
	return c
}

func clipSelect(d SchemaDescriptor, alias string) string {
	return clipScanSet(d, &clipRow{}).selectList(alias)
}

func scanClips(d SchemaDescriptor, rows *sql.Rows) ([]models.Clip, error) {
	defer rows.Close()
	clips := []models.Clip{}
	for rows.Next() {
		var r clipRow
		if err := rows.Scan(clipScanSet(d, &r).values...); err != nil {
			return nil, err
		}
		clips = append(clips, r.model())
	}
	return clips, rows.Err()
}

func scanVideoLinks(rows *sql.Rows) ([]models.VideoLink, error) {
	defer rows.Close()
	links := []models.VideoLink{}
	for rows.Next() {
		var l models.VideoLink
		if err := rows.Scan(&l.ID, &l.VideoID, &l.URL, &l.Title, &l.PlatformID, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.CreatedAt = l.CreatedAt.UTC()
		links = append(links, l)
	}
	return links, rows.Err()
}

const videoLinkColumns = "id, vod_id, url, title, video_id, created_at"

// nullString maps "" to NULL.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Pointer-typed optional fields are passed to the driver as plain values.
func nullableString(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func nullableInt64(p *int64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func nullableFloat64(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
