// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

// Package database is the DuckDB store of the archive.
//
// # Overview
//
// The store holds four tables (videos, clips, video_links, sync_checkpoints)
// and implements the reconciliation side of a sync: merging upstream records,
// resolving clip parents, and keeping the checkpoint log.
//
// # Architecture
//
// Core:
//   - database.go: lifecycle (open, initialize, close)
//   - database_schema.go: base tables and indexes
//   - migrations.go: versioned additive migrations
//   - schema_descriptor.go: column set per schema version
//   - database_connection.go: pool settings, transactions, id allocation
//
// Sync support:
//   - reconcile.go, reconcile_videos.go, reconcile_clips.go: upsert reconciler
//   - links.go: clip to video link resolver
//   - checkpoints.go: append-only checkpoint log with look-back fallback
//   - status.go: store summary
//   - video_links.go: cross-platform links and identifier repair
//
// Editor and browsing:
//   - crud_videos.go, crud_clips.go: editor create/update/delete
//   - browse.go: filtered, paginated listings and category tags
//
// # Schema Versions
//
// Optional columns arrive through migrations and every read and write is
// built from the SchemaDescriptor of the live version. A store pinned to an
// older version (DUCKDB_SCHEMA_VERSION) keeps working; values for columns it
// lacks are dropped on insert and left nil on read.
//
// # Concurrency
//
// Writes are serialized by a mutex on DB and each reconciliation batch is one
// transaction. Reads use the pool directly.
//
// # Usage
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	res, err := db.ReconcileVideos(ctx, batch, models.VideoKindArchive)
//	linked, err := db.ResolveLinks(ctx)
package database
