// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

/*
database_schema.go - Base Schema

Tables:
  - videos: archived streams, uploads, highlights and editor entries
  - clips: highlights with a natural parent key (vod_twitch_id) and a
    resolved parent reference (vod_id)
  - video_links: alternate-platform URLs owned by a video
  - sync_checkpoints: append-only log of sync completion instants
  - schema_migrations: applied migration versions (see migrations.go)

The CREATE TABLE statements here are the version 0 column set. Optional
columns are added by migrations and must never be added here.

There are no FOREIGN KEY constraints. Cascades (video -> links, video -> clip
references) are done explicitly in the delete paths so that ALTER TABLE
migrations are never blocked by dependent constraints.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the base tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS videos (
		id BIGINT PRIMARY KEY,
		twitch_id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		category TEXT,
		url TEXT,
		created_at TIMESTAMP NOT NULL,
		type TEXT NOT NULL DEFAULT 'archive'
	);`,
	`CREATE TABLE IF NOT EXISTS clips (
		id BIGINT PRIMARY KEY,
		twitch_id TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		category TEXT,
		url TEXT,
		created_at TIMESTAMP NOT NULL,
		thumbnail_url TEXT,
		vod_twitch_id TEXT,
		vod_id BIGINT
	);`,
	`CREATE TABLE IF NOT EXISTS video_links (
		id BIGINT PRIMARY KEY,
		vod_id BIGINT NOT NULL,
		url TEXT NOT NULL,
		title TEXT,
		video_id TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS sync_checkpoints (
		id BIGINT PRIMARY KEY,
		sync_type TEXT NOT NULL,
		last_sync_time TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL
	);`,
}

// createIndexes creates secondary indexes. Only tables that migrations never
// alter are indexed: DuckDB refuses ALTER TABLE on a table with dependent
// indexes.
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range indexQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

var indexQueries = []string{
	`CREATE INDEX IF NOT EXISTS idx_video_links_vod_id ON video_links(vod_id);`,
	`CREATE INDEX IF NOT EXISTS idx_sync_checkpoints_type_time ON sync_checkpoints(sync_type, last_sync_time);`,
}
