// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package importer

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/vodarchive/internal/config"
	"github.com/tomtom215/vodarchive/internal/database"
	"github.com/tomtom215/vodarchive/internal/models"
)

func TestImport_BaseSchema(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	reader := openLegacy(t, writeLegacy(t, baseSchema, seedRows))

	imp := New(&config.ImportConfig{BatchSize: 2}, store, nil)
	stats, err := imp.Import(ctx, reader)
	checkNoError(t, err)

	checkFalse(t, stats.Resumed, `stats.Resumed = true, want false`)
	checkEqual(t, *stats.Tables[TableVideos], TableStats{Total: 2, Read: 2, Added: 2, LastID: 2})
	checkEqual(t, *stats.Tables[TableClips], TableStats{Total: 3, Read: 3, Added: 3, LastID: 3})
	checkEqual(t, *stats.Tables[TableLinks], TableStats{Total: 2, Read: 2, Added: 1, Failed: 1, LastID: 2})
	checkEqual(t, *stats.Tables[TableCheckpoint], TableStats{Total: 2, Read: 2, Added: 2, LastID: 2})
	checkEqual(t, stats.Linked, 2)
	checkLen(t, len(stats.Errors), 1)
	checkTrue(t, imp.LastStats() == stats, "LastStats() did not return the finished import")

	v1, err := store.GetVideoByTwitchID(ctx, "v1")
	checkNoError(t, err)
	checkEqual(t, v1.Title, "Chess and chill")
	checkEqual(t, v1.CreatedAt.UTC(), time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	checkEqual(t, v1.Kind, models.VideoKindArchive)

	v2, err := store.GetVideoByTwitchID(ctx, "v2")
	checkNoError(t, err)
	checkEqual(t, v2.Kind, models.VideoKindUpload)

	c1, err := store.GetClipByTwitchID(ctx, "c1")
	checkNoError(t, err)
	requireNotNil(t, c1.VideoID)
	checkEqual(t, *c1.VideoID, v1.ID)
	requireNotNil(t, c1.ThumbnailURL)
	checkEqual(t, *c1.ThumbnailURL, "https://img.example/c1.jpg")

	c3, err := store.GetClipByTwitchID(ctx, "c3")
	checkNoError(t, err)
	checkNil(t, c3.VideoID)
	checkTrue(t, c3.Unresolved(), `c3.Unresolved() = false, want true`)

	links, err := store.ListVideoLinks(ctx, v1.ID)
	checkNoError(t, err)
	requireLen(t, len(links), 1)
	requireNotNil(t, links[0].PlatformID)
	checkEqual(t, *links[0].PlatformID, "dQw4w9WgXcQ")

	want := time.Date(2024, 3, 2, 9, 0, 0, 123456000, time.UTC)
	for _, kind := range []string{models.CheckpointVideos, models.CheckpointClips} {
		at, ok, err := store.LatestCheckpoint(ctx, kind)
		checkNoError(t, err)
		requireTrue(t, ok, "no %s checkpoint", kind)
		checkTrue(t, at.Equal(want), "%s checkpoint = %v, want %v", kind, at, want)
	}
}

func TestImport_ExtendedColumns(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	reader := openLegacy(t, writeLegacy(t, baseSchema, extendedColumns, []string{
		`INSERT INTO vods (id, twitch_id, title, created_at, duration, view_count, game_name, thumbnail_url)
			VALUES (1, 'v1', 'Long stream', '2024-03-01T09:00:00Z', '3h2m1s', 42, 'Chess', 'https://img.example/v1.jpg')`,
		`INSERT INTO clips (id, twitch_id, title, created_at, vod_twitch_id, duration, view_count, creator_name, is_favorite)
			VALUES (1, 'c1', 'Great move', '2024-03-01T10:00:00Z', 'v1', 29.5, 7, 'viewer', 1)`,
	}))

	checkTrue(t, reader.HasColumn(TableClips, "is_favorite"), `reader.HasColumn(TableClips, "is_favorite") = false, want true`)

	stats, err := New(&config.ImportConfig{}, store, nil).Import(ctx, reader)
	checkNoError(t, err)
	checkEqual(t, stats.Tables[TableVideos].Added, int64(1))
	checkEqual(t, stats.Tables[TableLinks].Read, int64(0))

	v1, err := store.GetVideoByTwitchID(ctx, "v1")
	checkNoError(t, err)
	requireNotNil(t, v1.Duration)
	checkEqual(t, *v1.Duration, "3h2m1s")
	requireNotNil(t, v1.ViewCount)
	checkEqual(t, *v1.ViewCount, int64(42))
	checkEqual(t, v1.Kind, models.VideoKindArchive)

	c1, err := store.GetClipByTwitchID(ctx, "c1")
	checkNoError(t, err)
	checkTrue(t, c1.IsFavorite, `c1.IsFavorite = false, want true`)
	requireNotNil(t, c1.Duration)
	checkTrue(t, math.Abs(*c1.Duration-29.5) < 0.001, "clip duration = %v, want 29.5", *c1.Duration)
	requireNotNil(t, c1.CreatorName)
	checkEqual(t, *c1.CreatorName, "viewer")
}

func TestImport_RepeatedImportAddsNothing(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	path := writeLegacy(t, baseSchema, seedRows)

	_, err := New(&config.ImportConfig{}, store, nil).Import(ctx, openLegacy(t, path))
	checkNoError(t, err)

	stats, err := New(&config.ImportConfig{}, store, nil).Import(ctx, openLegacy(t, path))
	checkNoError(t, err)

	for _, table := range []string{TableVideos, TableClips, TableCheckpoint} {
		ts := stats.Tables[table]
		checkEqual(t, ts.Added, int64(0))
		checkEqual(t, ts.Existing, ts.Read)
	}
	checkEqual(t, stats.Tables[TableLinks].Existing, int64(1))
	checkEqual(t, stats.Linked, 0)
}

func TestImport_ResumesFromSavedProgress(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	path := writeLegacy(t, baseSchema, seedRows)
	reader := openLegacy(t, path)

	abs, err := filepath.Abs(path)
	checkNoError(t, err)
	progress := NewInMemoryProgress()
	checkNoError(t, progress.Save(ctx, &Progress{
		Source:  abs,
		LastIDs: map[string]int64{TableVideos: 1, TableClips: 3, TableLinks: 2, TableCheckpoint: 2},
	}))

	stats, err := New(&config.ImportConfig{}, store, progress).Import(ctx, reader)
	checkNoError(t, err)

	checkTrue(t, stats.Resumed, `stats.Resumed = false, want true`)
	checkEqual(t, stats.Tables[TableVideos].Read, int64(1))
	checkEqual(t, stats.Tables[TableClips].Read, int64(0))

	_, err = store.GetVideoByTwitchID(ctx, "v1")
	checkErrorIs(t, err, database.ErrVideoNotFound)
	_, err = store.GetVideoByTwitchID(ctx, "v2")
	checkNoError(t, err)

	saved, err := progress.Load(ctx, abs)
	checkNoError(t, err)
	checkNil(t, saved)
}

func TestImport_RowProblemsAreCounted(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	reader := openLegacy(t, writeLegacy(t, baseSchema, []string{
		`INSERT INTO vods (id, twitch_id, title, created_at) VALUES
			(1, 'v1', 'ok', '2024-03-01T09:00:00Z'),
			(2, 'v2', 'bad date', 'yesterday'),
			(3, NULL, 'entered by hand', '2024-03-03')`,
		`INSERT INTO clips (id, twitch_id, title, created_at) VALUES
			(1, NULL, 'no id', '2024-03-01T09:00:00Z')`,
		`INSERT INTO youtube_links (id, vod_id, url) VALUES (1, 3, 'https://youtube.com/live/bbbbbbbbbbb')`,
		`INSERT INTO sync_log (id, sync_type, last_sync_time) VALUES (1, 'clips', 'never')`,
	}))

	stats, err := New(&config.ImportConfig{}, store, nil).Import(ctx, reader)
	checkNoError(t, err)

	checkEqual(t, stats.Tables[TableVideos].Added, int64(2))
	checkEqual(t, stats.Tables[TableVideos].Failed, int64(1))
	checkEqual(t, stats.Tables[TableClips].Failed, int64(1))
	checkEqual(t, stats.Tables[TableLinks].Added, int64(1))
	checkEqual(t, stats.Tables[TableCheckpoint].Failed, int64(1))
	checkLen(t, len(stats.Errors), 3)

	manual, err := store.GetVideoByTwitchID(ctx, "manual_legacy_3")
	checkNoError(t, err)
	checkEqual(t, manual.Kind, models.VideoKindManual)
	checkTrue(t, manual.IsManual(), `manual.IsManual() = false, want true`)
}

func TestImport_RejectsConcurrentImport(t *testing.T) {
	imp := New(&config.ImportConfig{}, newStore(t), nil)
	imp.running = true

	_, err := imp.Import(context.Background(), openLegacy(t, writeLegacy(t, baseSchema)))
	checkErrorIs(t, err, ErrImportInProgress)
}

func TestImport_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&config.ImportConfig{}, newStore(t), nil).Import(ctx, openLegacy(t, writeLegacy(t, baseSchema, seedRows)))
	checkError(t, err)
}

func TestOpenLegacy(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := OpenLegacy(filepath.Join(t.TempDir(), "nope.db"))
		checkError(t, err)
	})

	t.Run("missing required table", func(t *testing.T) {
		path := writeLegacy(t, []string{`CREATE TABLE vods (id INTEGER PRIMARY KEY, twitch_id TEXT, title TEXT, created_at TEXT)`})
		_, err := OpenLegacy(path)
		checkErrorIs(t, err, ErrMissingTable)
	})

	t.Run("optional tables absent", func(t *testing.T) {
		reader := openLegacy(t, writeLegacy(t, baseSchema[:2]))
		checkFalse(t, reader.HasTable(TableLinks), `reader.HasTable(TableLinks) = true, want false`)
		n, err := reader.Count(context.Background(), TableCheckpoint, 0)
		checkNoError(t, err)
		checkEqual(t, n, int64(0))
		links, err := reader.ReadLinks(context.Background(), 0, 10)
		checkNoError(t, err)
		checkLen(t, len(links), 0)
	})
}

func TestImportFile(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	imp := New(&config.ImportConfig{}, store, nil)

	stats, err := imp.ImportFile(ctx, writeLegacy(t, baseSchema, seedRows))
	checkNoError(t, err)
	checkEqual(t, stats.Tables[TableVideos].Added, int64(2))
	checkFalse(t, imp.IsRunning(), `imp.IsRunning() = true, want false`)

	_, err = imp.ImportFile(ctx, filepath.Join(t.TempDir(), "missing.db"))
	checkError(t, err)
}
