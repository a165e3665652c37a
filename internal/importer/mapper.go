// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package importer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/vodarchive/internal/models"
)

// ErrBadTimestamp is returned for a legacy timestamp in no known layout.
var ErrBadTimestamp = errors.New("unrecognized legacy timestamp")

// legacyLayouts are the timestamp shapes the legacy application wrote:
// upstream RFC 3339 strings, Python datetime str() with and without an
// offset, isoformat() without an offset, and SQLite CURRENT_TIMESTAMP.
var legacyLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseLegacyTime parses a legacy timestamp. Values without an offset are UTC.
func ParseLegacyTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrBadTimestamp)
	}
	for _, layout := range legacyLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadTimestamp, value)
}

// MapVideo converts a vods row. A row without a twitch_id was entered by
// hand in the legacy application; it gets a stable manual id derived from
// its legacy row id so a repeated import finds it again.
func MapVideo(v *LegacyVideo) (models.Video, error) {
	created, err := ParseLegacyTime(v.CreatedAt)
	video := models.Video{
		TwitchID:     strings.TrimSpace(v.TwitchID),
		Title:        v.Title,
		Category:     v.Category,
		URL:          v.URL,
		CreatedAt:    created,
		Kind:         models.VideoKind(strings.TrimSpace(v.Kind)),
		Duration:     v.Duration,
		ViewCount:    v.ViewCount,
		GameName:     v.GameName,
		ThumbnailURL: v.ThumbnailURL,
	}
	if video.TwitchID == "" {
		video.TwitchID = fmt.Sprintf("%slegacy_%d", models.ManualIDPrefix, v.ID)
		video.Kind = models.VideoKindManual
	}
	if err != nil {
		return video, fmt.Errorf("vods row %d: %w", v.ID, err)
	}
	return video, nil
}

// MapClip converts a clips row. The legacy vod_id is dropped; the parent is
// re-linked from VideoTwitchID.
func MapClip(c *LegacyClip) (models.Clip, error) {
	created, err := ParseLegacyTime(c.CreatedAt)
	clip := models.Clip{
		TwitchID:      strings.TrimSpace(c.TwitchID),
		Title:         c.Title,
		Category:      c.Category,
		URL:           c.URL,
		CreatedAt:     created,
		ThumbnailURL:  c.ThumbnailURL,
		VideoTwitchID: c.VideoTwitchID,
		IsFavorite:    c.IsFavorite,
		Duration:      c.Duration,
		ViewCount:     c.ViewCount,
		GameName:      c.GameName,
		CreatorName:   c.CreatorName,
	}
	if err != nil {
		return clip, fmt.Errorf("clips row %d: %w", c.ID, err)
	}
	return clip, nil
}

// MapCheckpoint converts a sync_log row into a kind, instant and creation time.
// The legacy "vods" kind becomes "videos". An unparseable created_at falls
// back to the instant.
func MapCheckpoint(c *LegacyCheckpoint) (kind string, instant, createdAt time.Time, err error) {
	kind = strings.TrimSpace(c.Kind)
	if kind == "" {
		return "", time.Time{}, time.Time{}, fmt.Errorf("sync_log row %d: empty sync_type", c.ID)
	}
	if kind == TableVideos {
		kind = models.CheckpointVideos
	}
	instant, err = ParseLegacyTime(c.LastSyncTime)
	if err != nil {
		return "", time.Time{}, time.Time{}, fmt.Errorf("sync_log row %d: %w", c.ID, err)
	}
	createdAt, cerr := ParseLegacyTime(c.CreatedAt)
	if cerr != nil {
		createdAt = instant
	}
	return kind, instant, createdAt, nil
}
