// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package importer

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/tomtom215/vodarchive/internal/config"
	"github.com/tomtom215/vodarchive/internal/database"
)

// baseSchema is the first layout the legacy application wrote.
var baseSchema = []string{
	`CREATE TABLE vods (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		twitch_id TEXT UNIQUE,
		title TEXT NOT NULL,
		category TEXT,
		url TEXT,
		created_at TIMESTAMP,
		type TEXT DEFAULT 'archive'
	)`,
	`CREATE TABLE clips (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		twitch_id TEXT UNIQUE,
		title TEXT NOT NULL,
		category TEXT,
		url TEXT,
		created_at TIMESTAMP,
		vod_twitch_id TEXT,
		vod_id INTEGER,
		thumbnail_url TEXT
	)`,
	`CREATE TABLE youtube_links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		vod_id INTEGER,
		url TEXT NOT NULL,
		title TEXT,
		video_id TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE sync_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sync_type TEXT NOT NULL,
		last_sync_time TEXT NOT NULL,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
}

// extendedColumns are the columns later legacy versions added.
var extendedColumns = []string{
	`ALTER TABLE vods ADD COLUMN duration TEXT`,
	`ALTER TABLE vods ADD COLUMN view_count INTEGER DEFAULT 0`,
	`ALTER TABLE vods ADD COLUMN game_name TEXT`,
	`ALTER TABLE vods ADD COLUMN thumbnail_url TEXT`,
	`ALTER TABLE clips ADD COLUMN duration REAL`,
	`ALTER TABLE clips ADD COLUMN view_count INTEGER DEFAULT 0`,
	`ALTER TABLE clips ADD COLUMN game_name TEXT`,
	`ALTER TABLE clips ADD COLUMN creator_name TEXT`,
	`ALTER TABLE clips ADD COLUMN is_favorite BOOLEAN DEFAULT 0`,
}

// seedRows fills a base-schema archive: two vods, three clips (one whose
// parent never existed), two links and two sync_log rows.
var seedRows = []string{
	`INSERT INTO vods (id, twitch_id, title, category, url, created_at, type) VALUES
		(1, 'v1', 'Chess and chill', 'Chess|Music', 'https://www.twitch.tv/videos/v1', '2024-03-01 09:00:00+00:00', 'archive'),
		(2, 'v2', 'Piano practice', 'Music', 'https://www.twitch.tv/somechannel', '2024-02-20T09:00:00Z', 'upload')`,
	`INSERT INTO clips (id, twitch_id, title, category, url, created_at, vod_twitch_id, vod_id, thumbnail_url) VALUES
		(1, 'c1', 'clip one', 'Chess', 'https://clips.example/c1', '2024-03-01 10:00:00+00:00', 'v1', 1, 'https://img.example/c1.jpg'),
		(2, 'c2', 'clip two', 'Music', 'https://clips.example/c2', '2024-02-20T10:00:00Z', 'v2', 2, NULL),
		(3, 'c3', 'clip three', 'Art', 'https://clips.example/c3', '2024-02-25 10:00:00', 'v-gone', NULL, NULL)`,
	`INSERT INTO youtube_links (id, vod_id, url, title, video_id) VALUES
		(1, 1, 'https://www.youtube.com/watch?v=dQw4w9WgXcQ', 'Full VOD', 'stale'),
		(2, 99, 'https://youtu.be/aaaaaaaaaaa', 'Orphan', NULL)`,
	`INSERT INTO sync_log (id, sync_type, last_sync_time, created_at) VALUES
		(1, 'clips', '2024-03-02T09:00:00.123456', '2024-03-02 09:00:01'),
		(2, 'vods', '2024-03-02T09:00:00.123456', '2024-03-02 09:00:01')`,
}

// writeLegacy creates a legacy archive in a temp dir and returns its path.
func writeLegacy(t *testing.T, statements ...[]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "vods.db")
	db, err := sql.Open("sqlite3", path)
	checkNoError(t, err)
	defer db.Close() //nolint:errcheck // test cleanup

	for _, group := range statements {
		for _, stmt := range group {
			_, err := db.Exec(stmt)
			checkNoError(t, err)
		}
	}
	return path
}

func openLegacy(t *testing.T, path string) *LegacyReader {
	t.Helper()
	r, err := OpenLegacy(path)
	checkNoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func newStore(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 2})
	checkNoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
