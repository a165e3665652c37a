// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

/*
Package importer moves an archive written by the previous application (a
SQLite file, usually vods.db) into the DuckDB store.

# Source Tables

The legacy file carries four tables, read in this order:

  - vods: videos, keyed by twitch_id
  - clips: clips, keyed by twitch_id, with vod_twitch_id as the parent key
  - youtube_links: cross-platform links, owned by a vods row through vod_id
  - sync_log: checkpoint history

Columns added by later versions of the legacy application (duration,
view_count, game_name, thumbnail_url, creator_name, is_favorite) are read
when present and left empty otherwise.

# Mapping

Videos and clips go through the store's reconciler, so importing into a
non-empty store behaves like a sync: new rows are inserted, existing rows
only receive the narrow repairs the reconciler allows. Legacy local ids are
never carried over; clips are re-linked by natural key once every clip is in.
Links are attached to the stored video with the same twitch_id as their
legacy owner, and their platform identifier is derived again from the URL.
sync_log rows become checkpoints, skipping exact duplicates.

# Resuming

After every batch the importer saves the last legacy row id per table. A
restarted import continues after those ids. Progress is kept in badger when a
progress directory is configured and in memory otherwise; a finished import
clears it.

# Usage

	reader, err := importer.OpenLegacy(cfg.Import.LegacyPath)
	...
	imp := importer.New(&cfg.Import, db, progress)
	stats, err := imp.Import(ctx, reader)
*/
package importer
