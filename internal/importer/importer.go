// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package importer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/vodarchive/internal/config"
	"github.com/tomtom215/vodarchive/internal/database"
	"github.com/tomtom215/vodarchive/internal/logging"
	"github.com/tomtom215/vodarchive/internal/metrics"
	"github.com/tomtom215/vodarchive/internal/models"
)

// ErrImportInProgress is returned when Import is called while another import runs.
var ErrImportInProgress = errors.New("import already in progress")

// Store is the part of the database an import writes to.
// Implemented by *database.DB.
type Store interface {
	ReconcileStoredVideos(ctx context.Context, videos []models.Video) (database.ReconcileResult, error)
	ReconcileStoredClips(ctx context.Context, clips []models.Clip) (database.ReconcileResult, error)
	ResolveLinks(ctx context.Context) (int, error)
	GetVideoByTwitchID(ctx context.Context, twitchID string) (*models.Video, error)
	HasVideoLink(ctx context.Context, videoID int64, url string) (bool, error)
	AddVideoLink(ctx context.Context, videoID int64, url, title string) (*models.VideoLink, error)
	ImportCheckpoint(ctx context.Context, kind string, instant, createdAt time.Time) (bool, error)
}

// Importer copies a legacy archive into the store.
type Importer struct {
	cfg      *config.ImportConfig
	store    Store
	progress ProgressTracker

	mu      sync.Mutex
	running bool
	last    *Stats
}

// New creates an importer. A nil progress tracker keeps progress in memory.
func New(cfg *config.ImportConfig, store Store, progress ProgressTracker) *Importer {
	if progress == nil {
		progress = NewInMemoryProgress()
	}
	return &Importer{cfg: cfg, store: store, progress: progress}
}

// LastStats returns the outcome of the most recent import, or nil.
func (i *Importer) LastStats() *Stats {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.last
}

// IsRunning reports whether an import is in progress.
func (i *Importer) IsRunning() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.running
}

// ImportFile opens the legacy archive at path, imports it and closes it.
func (i *Importer) ImportFile(ctx context.Context, path string) (*Stats, error) {
	reader, err := OpenLegacy(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close() //nolint:errcheck // read-only handle

	return i.Import(ctx, reader)
}

func (i *Importer) batchSize() int {
	if i.cfg == nil || i.cfg.BatchSize <= 0 {
		return 500
	}
	return i.cfg.BatchSize
}

// run is the per-import state threaded through the table passes.
type run struct {
	reader   *LegacyReader
	stats    *Stats
	progress *Progress
}

func (r *run) fail(table string, n int64, err error) {
	r.stats.Tables[table].Failed += n
	r.stats.Errors = append(r.stats.Errors, err.Error())
	metrics.ImportRows.WithLabelValues(table, "failed").Add(float64(n))
}

func (r *run) count(table string, added, existing int64) {
	ts := r.stats.Tables[table]
	ts.Added += added
	ts.Existing += existing
	if added > 0 {
		metrics.ImportRows.WithLabelValues(table, "added").Add(float64(added))
	}
	if existing > 0 {
		metrics.ImportRows.WithLabelValues(table, "existing").Add(float64(existing))
	}
}

// Import reads every legacy table and writes it to the store, resuming after
// the last saved position for this file. Row-level problems are counted in
// the returned Stats; an error is returned only when reading the file or
// writing the store fails, in which case progress up to the last complete
// batch is kept.
func (i *Importer) Import(ctx context.Context, reader *LegacyReader) (*Stats, error) {
	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return nil, ErrImportInProgress
	}
	i.running = true
	i.mu.Unlock()

	stats := newStats()
	stats.StartTime = time.Now()
	defer func() {
		stats.EndTime = time.Now()
		i.mu.Lock()
		i.running = false
		i.last = stats
		i.mu.Unlock()
	}()

	source := reader.Path()
	if abs, err := filepath.Abs(source); err == nil {
		source = abs
	}

	progress, err := i.progress.Load(ctx, source)
	if err != nil {
		logging.Warn().Err(err).Msg("Import progress unreadable, starting from the beginning")
		progress = nil
	}
	if progress != nil {
		stats.Resumed = true
		logging.Info().Interface("last_ids", progress.LastIDs).Msg("Resuming legacy import")
	} else {
		progress = &Progress{Source: source}
	}
	if progress.LastIDs == nil {
		progress.LastIDs = make(map[string]int64)
	}

	r := &run{reader: reader, stats: stats, progress: progress}
	for _, table := range Tables {
		total, err := reader.Count(ctx, table, progress.LastIDs[table])
		if err != nil {
			return stats, err
		}
		stats.Tables[table].Total = total
	}

	logging.Info().
		Str("source", source).
		Int64("vods", stats.Tables[TableVideos].Total).
		Int64("clips", stats.Tables[TableClips].Total).
		Int64("links", stats.Tables[TableLinks].Total).
		Int64("sync_log", stats.Tables[TableCheckpoint].Total).
		Msg("Starting legacy import")

	passes := []struct {
		table string
		fn    func(context.Context, *run, int64) (int64, int, error)
	}{
		{TableVideos, i.importVideos},
		{TableClips, i.importClips},
		{TableLinks, i.importLinks},
		{TableCheckpoint, i.importCheckpoints},
	}
	for _, pass := range passes {
		if err := i.drain(ctx, r, pass.table, pass.fn); err != nil {
			return stats, fmt.Errorf("import %s: %w", pass.table, err)
		}
		if pass.table == TableClips {
			linked, err := i.store.ResolveLinks(ctx)
			if err != nil {
				return stats, fmt.Errorf("link imported clips: %w", err)
			}
			stats.Linked = linked
		}
	}

	if err := i.progress.Clear(ctx, source); err != nil {
		logging.Warn().Err(err).Msg("Failed to clear import progress")
	}

	logging.Info().
		Str("summary", stats.String()).
		Dur("duration", stats.Duration()).
		Msg("Legacy import completed")
	return stats, nil
}

// drain runs fn batch by batch until the table is exhausted, saving progress
// after every batch. fn returns the last row id it consumed and the number of
// rows read.
func (i *Importer) drain(ctx context.Context, r *run, table string, fn func(context.Context, *run, int64) (int64, int, error)) error {
	limit := i.batchSize()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		since := r.progress.LastIDs[table]
		lastID, n, err := fn(ctx, r, since)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}

		r.stats.Tables[table].Read += int64(n)
		r.stats.Tables[table].LastID = lastID
		r.progress.LastIDs[table] = lastID
		r.progress.UpdatedAt = time.Now().UTC()
		if err := i.progress.Save(ctx, r.progress); err != nil {
			logging.Warn().Err(err).Str("table", table).Msg("Failed to save import progress")
		}

		logging.Debug().Str("table", table).Int("rows", n).Int64("last_id", lastID).Msg("Legacy batch imported")
		if n < limit {
			return nil
		}
	}
}

// absorb folds a reconcile result for mapped rows into the stats.
func (r *run) absorb(table string, mapped int, res *database.ReconcileResult) {
	failed := len(res.Errors)
	for _, e := range res.Errors {
		r.stats.Errors = append(r.stats.Errors, e.Error())
	}
	if failed > 0 {
		r.stats.Tables[table].Failed += int64(failed)
		metrics.ImportRows.WithLabelValues(table, "failed").Add(float64(failed))
	}
	r.count(table, int64(res.Inserted), int64(mapped-res.Inserted-failed))
}

func (i *Importer) importVideos(ctx context.Context, r *run, since int64) (int64, int, error) {
	rows, err := r.reader.ReadVideos(ctx, since, i.batchSize())
	if err != nil || len(rows) == 0 {
		return since, 0, err
	}

	videos := make([]models.Video, 0, len(rows))
	for idx := range rows {
		v, err := MapVideo(&rows[idx])
		if err != nil {
			r.fail(TableVideos, 1, err)
			continue
		}
		videos = append(videos, v)
	}

	res, err := i.store.ReconcileStoredVideos(ctx, videos)
	if err != nil {
		return since, 0, err
	}
	r.absorb(TableVideos, len(videos), &res)
	return rows[len(rows)-1].ID, len(rows), nil
}

func (i *Importer) importClips(ctx context.Context, r *run, since int64) (int64, int, error) {
	rows, err := r.reader.ReadClips(ctx, since, i.batchSize())
	if err != nil || len(rows) == 0 {
		return since, 0, err
	}

	clips := make([]models.Clip, 0, len(rows))
	for idx := range rows {
		c, err := MapClip(&rows[idx])
		if err != nil {
			r.fail(TableClips, 1, err)
			continue
		}
		clips = append(clips, c)
	}

	res, err := i.store.ReconcileStoredClips(ctx, clips)
	if err != nil {
		return since, 0, err
	}
	r.absorb(TableClips, len(clips), &res)
	return rows[len(rows)-1].ID, len(rows), nil
}

func (i *Importer) importLinks(ctx context.Context, r *run, since int64) (int64, int, error) {
	rows, err := r.reader.ReadLinks(ctx, since, i.batchSize())
	if err != nil || len(rows) == 0 {
		return since, 0, err
	}

	owners := make(map[string]int64)
	for _, l := range rows {
		if strings.TrimSpace(l.URL) == "" {
			r.fail(TableLinks, 1, fmt.Errorf("youtube_links row %d: empty url", l.ID))
			continue
		}
		if l.VideoTwitchID == "" {
			r.fail(TableLinks, 1, fmt.Errorf("youtube_links row %d: owning video is missing", l.ID))
			continue
		}

		videoID, ok := owners[l.VideoTwitchID]
		if !ok {
			v, err := i.store.GetVideoByTwitchID(ctx, l.VideoTwitchID)
			if errors.Is(err, database.ErrVideoNotFound) {
				r.fail(TableLinks, 1, fmt.Errorf("youtube_links row %d: video %s not in store", l.ID, l.VideoTwitchID))
				continue
			}
			if err != nil {
				return since, 0, err
			}
			videoID = v.ID
			owners[l.VideoTwitchID] = videoID
		}

		exists, err := i.store.HasVideoLink(ctx, videoID, l.URL)
		if err != nil {
			return since, 0, err
		}
		if exists {
			r.count(TableLinks, 0, 1)
			continue
		}
		if _, err := i.store.AddVideoLink(ctx, videoID, l.URL, l.Title); err != nil {
			return since, 0, err
		}
		r.count(TableLinks, 1, 0)
	}
	return rows[len(rows)-1].ID, len(rows), nil
}

func (i *Importer) importCheckpoints(ctx context.Context, r *run, since int64) (int64, int, error) {
	rows, err := r.reader.ReadCheckpoints(ctx, since, i.batchSize())
	if err != nil || len(rows) == 0 {
		return since, 0, err
	}

	for idx := range rows {
		kind, instant, createdAt, err := MapCheckpoint(&rows[idx])
		if err != nil {
			r.fail(TableCheckpoint, 1, err)
			continue
		}
		added, err := i.store.ImportCheckpoint(ctx, kind, instant, createdAt)
		if err != nil {
			return since, 0, err
		}
		if added {
			r.count(TableCheckpoint, 1, 0)
		} else {
			r.count(TableCheckpoint, 0, 1)
		}
	}
	return rows[len(rows)-1].ID, len(rows), nil
}
