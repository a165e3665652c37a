// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	// SQLite driver for the legacy archive file
	_ "github.com/mattn/go-sqlite3"

	"github.com/tomtom215/vodarchive/internal/models"
)

// ErrMissingTable is returned when the legacy file lacks a required table.
var ErrMissingTable = errors.New("legacy table not found")

// requiredTables must exist in every legacy file. youtube_links and sync_log
// were added later and are optional.
var requiredTables = []string{TableVideos, TableClips}

// LegacyReader reads rows from a legacy SQLite archive. The file is opened
// read-only and never modified.
type LegacyReader struct {
	db      *sql.DB
	path    string
	columns map[string]map[string]bool
}

// OpenLegacy opens the SQLite file at path and inspects its tables.
func OpenLegacy(path string) (*LegacyReader, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("legacy archive: %w", err)
	}

	dsn := "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=ro"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open legacy archive: %w", err)
	}
	db.SetMaxOpenConns(1)

	r := &LegacyReader{db: db, path: path, columns: make(map[string]map[string]bool)}
	if err := r.inspect(context.Background()); err != nil {
		db.Close() //nolint:errcheck // best-effort cleanup on error path
		return nil, err
	}
	return r, nil
}

// inspect records the column set of every legacy table present.
func (r *LegacyReader) inspect(ctx context.Context) error {
	for _, table := range Tables {
		rows, err := r.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
		if err != nil {
			return fmt.Errorf("inspect %s: %w", table, err)
		}
		cols := make(map[string]bool)
		for rows.Next() {
			var (
				cid        int
				name, typ  string
				notNull    int
				defaultVal sql.NullString
				pk         int
			)
			if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
				rows.Close() //nolint:errcheck,gosec // returning the scan error
				return fmt.Errorf("inspect %s: %w", table, err)
			}
			cols[strings.ToLower(name)] = true
		}
		if err := rows.Err(); err != nil {
			rows.Close() //nolint:errcheck,gosec // returning the iteration error
			return fmt.Errorf("inspect %s: %w", table, err)
		}
		rows.Close() //nolint:errcheck,gosec // read-only query
		if len(cols) > 0 {
			r.columns[table] = cols
		}
	}

	for _, table := range requiredTables {
		if !r.HasTable(table) {
			return fmt.Errorf("%w: %s", ErrMissingTable, table)
		}
	}
	return nil
}

// Path returns the file the reader was opened on.
func (r *LegacyReader) Path() string { return r.path }

// Close closes the legacy file.
func (r *LegacyReader) Close() error {
	return r.db.Close()
}

// HasTable reports whether the legacy file has table.
func (r *LegacyReader) HasTable(table string) bool {
	return len(r.columns[table]) > 0
}

// HasColumn reports whether table has column.
func (r *LegacyReader) HasColumn(table, column string) bool {
	return r.columns[table][column]
}

// optional selects column when the table has it and NULL otherwise.
func (r *LegacyReader) optional(table, alias, column string) string {
	if r.HasColumn(table, column) {
		return alias + "." + column
	}
	return "NULL"
}

// text selects column as text so timestamps are never converted by the driver.
func text(alias, column string) string {
	return fmt.Sprintf("COALESCE(CAST(%s.%s AS TEXT), '')", alias, column)
}

// Count returns the number of rows in table with id greater than sinceID.
// A missing optional table counts zero rows.
func (r *LegacyReader) Count(ctx context.Context, table string, sinceID int64) (int64, error) {
	if !r.HasTable(table) {
		return 0, nil
	}
	var n int64
	if err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE id > ?", table), sinceID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// ReadVideos reads up to limit vods rows with id greater than sinceID, in id order.
func (r *LegacyReader) ReadVideos(ctx context.Context, sinceID int64, limit int) ([]LegacyVideo, error) {
	t := TableVideos
	query := fmt.Sprintf(`
		SELECT v.id, COALESCE(v.twitch_id, ''), COALESCE(v.title, ''), COALESCE(v.category, ''),
		       COALESCE(v.url, ''), %s, %s,
		       %s, %s, %s, %s
		FROM vods v
		WHERE v.id > ?
		ORDER BY v.id
		LIMIT ?`,
		text("v", "created_at"), r.kindColumn(),
		r.optional(t, "v", "duration"), r.optional(t, "v", "view_count"),
		r.optional(t, "v", "game_name"), r.optional(t, "v", "thumbnail_url"))

	rows, err := r.db.QueryContext(ctx, query, sinceID, limit)
	if err != nil {
		return nil, fmt.Errorf("query vods: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only query

	var out []LegacyVideo
	for rows.Next() {
		var (
			v                         LegacyVideo
			duration, game, thumbnail sql.NullString
			views                     sql.NullInt64
		)
		if err := rows.Scan(&v.ID, &v.TwitchID, &v.Title, &v.Category, &v.URL, &v.CreatedAt, &v.Kind,
			&duration, &views, &game, &thumbnail); err != nil {
			return nil, fmt.Errorf("scan vods: %w", err)
		}
		v.Duration = nullString(duration)
		v.ViewCount = nullInt(views)
		v.GameName = nullString(game)
		v.ThumbnailURL = nullString(thumbnail)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vods: %w", err)
	}
	return out, nil
}

func (r *LegacyReader) kindColumn() string {
	if r.HasColumn(TableVideos, "type") {
		return "COALESCE(v.type, '')"
	}
	return "''"
}

// ReadClips reads up to limit clips rows with id greater than sinceID, in id order.
func (r *LegacyReader) ReadClips(ctx context.Context, sinceID int64, limit int) ([]LegacyClip, error) {
	t := TableClips
	favorite := "0"
	if r.HasColumn(t, "is_favorite") {
		favorite = "COALESCE(c.is_favorite, 0)"
	}
	query := fmt.Sprintf(`
		SELECT c.id, COALESCE(c.twitch_id, ''), COALESCE(c.title, ''), COALESCE(c.category, ''),
		       COALESCE(c.url, ''), %s, %s, %s,
		       %s, %s, %s, %s, %s
		FROM clips c
		WHERE c.id > ?
		ORDER BY c.id
		LIMIT ?`,
		text("c", "created_at"),
		r.optional(t, "c", "vod_twitch_id"), r.optional(t, "c", "thumbnail_url"),
		r.optional(t, "c", "duration"), r.optional(t, "c", "view_count"),
		r.optional(t, "c", "game_name"), r.optional(t, "c", "creator_name"), favorite)

	rows, err := r.db.QueryContext(ctx, query, sinceID, limit)
	if err != nil {
		return nil, fmt.Errorf("query clips: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only query

	var out []LegacyClip
	for rows.Next() {
		var (
			c                             LegacyClip
			parent, thumbnail, game, user sql.NullString
			duration                      sql.NullFloat64
			views                         sql.NullInt64
			fav                           sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.TwitchID, &c.Title, &c.Category, &c.URL, &c.CreatedAt,
			&parent, &thumbnail, &duration, &views, &game, &user, &fav); err != nil {
			return nil, fmt.Errorf("scan clips: %w", err)
		}
		c.VideoTwitchID = nullString(parent)
		c.ThumbnailURL = nullString(thumbnail)
		if duration.Valid {
			d := duration.Float64
			c.Duration = &d
		}
		c.ViewCount = nullInt(views)
		c.GameName = nullString(game)
		c.CreatorName = nullString(user)
		c.IsFavorite = fav.Valid && fav.Int64 != 0
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clips: %w", err)
	}
	return out, nil
}

// ReadLinks reads up to limit youtube_links rows with id greater than
// sinceID, each joined to the twitch_id of its owning vods row.
func (r *LegacyReader) ReadLinks(ctx context.Context, sinceID int64, limit int) ([]LegacyLink, error) {
	if !r.HasTable(TableLinks) {
		return nil, nil
	}
	title := "''"
	if r.HasColumn(TableLinks, "title") {
		title = "COALESCE(l.title, '')"
	}
	// Owners without a twitch_id carry the manual id MapVideo gives them.
	query := fmt.Sprintf(`
		SELECT l.id,
		       CASE
		           WHEN v.id IS NULL THEN ''
		           WHEN TRIM(COALESCE(v.twitch_id, '')) = '' THEN '%slegacy_' || v.id
		           ELSE TRIM(v.twitch_id)
		       END,
		       COALESCE(l.url, ''), %s
		FROM youtube_links l
		LEFT JOIN vods v ON v.id = l.vod_id
		WHERE l.id > ?
		ORDER BY l.id
		LIMIT ?`, models.ManualIDPrefix, title)

	rows, err := r.db.QueryContext(ctx, query, sinceID, limit)
	if err != nil {
		return nil, fmt.Errorf("query youtube_links: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only query

	var out []LegacyLink
	for rows.Next() {
		var l LegacyLink
		if err := rows.Scan(&l.ID, &l.VideoTwitchID, &l.URL, &l.Title); err != nil {
			return nil, fmt.Errorf("scan youtube_links: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate youtube_links: %w", err)
	}
	return out, nil
}

// ReadCheckpoints reads up to limit sync_log rows with id greater than sinceID.
func (r *LegacyReader) ReadCheckpoints(ctx context.Context, sinceID int64, limit int) ([]LegacyCheckpoint, error) {
	if !r.HasTable(TableCheckpoint) {
		return nil, nil
	}
	createdAt := "''"
	if r.HasColumn(TableCheckpoint, "created_at") {
		createdAt = text("s", "created_at")
	}
	query := fmt.Sprintf(`
		SELECT s.id, COALESCE(s.sync_type, ''), %s, %s
		FROM sync_log s
		WHERE s.id > ?
		ORDER BY s.id
		LIMIT ?`, text("s", "last_sync_time"), createdAt)

	rows, err := r.db.QueryContext(ctx, query, sinceID, limit)
	if err != nil {
		return nil, fmt.Errorf("query sync_log: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only query

	var out []LegacyCheckpoint
	for rows.Next() {
		var c LegacyCheckpoint
		if err := rows.Scan(&c.ID, &c.Kind, &c.LastSyncTime, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sync_log: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync_log: %w", err)
	}
	return out, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return nil
	}
	s := ns.String
	return &s
}

func nullInt(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	n := ni.Int64
	return &n
}
