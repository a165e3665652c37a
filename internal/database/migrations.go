// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/vodarchive/internal/logging"
)

// ColumnDef is one column added by a migration.
type ColumnDef struct {
	Name string
	Type string
}

// Migration is a versioned, additive schema change. Each migration adds
// columns to exactly one table.
type Migration struct {
	Version     int         // Unique version number (monotonically increasing)
	Name        string      // Human-readable migration name
	Description string      // Description of what this migration does
	Table       string      // Table the columns are added to
	Columns     []ColumnDef // Columns added, in order
	AppliedAt   time.Time   // When the migration was applied (populated on query)
}

// Statements returns the DDL of the migration.
func (m Migration) Statements() []string {
	stmts := make([]string, 0, len(m.Columns))
	for _, c := range m.Columns {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s", m.Table, c.Name, c.Type))
	}
	return stmts
}

const schemaMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// migrations is append-only. Never edit or remove an entry once released.
var migrations = []Migration{
	{
		Version:     1,
		Name:        "video_metadata",
		Description: "Add duration, view count, game name and thumbnail to videos",
		Table:       "videos",
		Columns: []ColumnDef{
			{"duration", "TEXT"},
			{"view_count", "BIGINT"},
			{"game_name", "TEXT"},
			{"thumbnail_url", "TEXT"},
		},
	},
	{
		Version:     2,
		Name:        "clip_metadata",
		Description: "Add duration, view count, game name and creator to clips",
		Table:       "clips",
		Columns: []ColumnDef{
			{"duration", "DOUBLE"},
			{"view_count", "BIGINT"},
			{"game_name", "TEXT"},
			{"creator_name", "TEXT"},
		},
	},
	{
		Version:     3,
		Name:        "clip_favorites",
		Description: "Add the editor favorite flag to clips",
		Table:       "clips",
		Columns: []ColumnDef{
			{"is_favorite", "BOOLEAN DEFAULT false"},
		},
	},
}

// LatestSchemaVersion is the highest migration version known to this build.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].Version
}

// Migrations returns a copy of the migration list.
func Migrations() []Migration {
	out := make([]Migration, len(migrations))
	copy(out, migrations)
	return out
}

func (db *DB) getAppliedMigrations(ctx context.Context) (map[int]Migration, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT version, name, COALESCE(description, ''), applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]Migration)
	for rows.Next() {
		var m Migration
		if err := rows.Scan(&m.Version, &m.Name, &m.Description, &m.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[m.Version] = m
	}
	return applied, rows.Err()
}

// runVersionedMigrations applies every migration not yet recorded, up to
// target (0 = latest), and returns the resulting schema version.
//
// A store already past target stays where it is: migrations only add
// columns, so the live schema is reported as-is.
func (db *DB) runVersionedMigrations(target int) (int, error) {
	ctx, cancel := schemaContext()
	defer cancel()

	if target <= 0 || target > LatestSchemaVersion() {
		target = LatestSchemaVersion()
	}

	if _, err := db.conn.ExecContext(ctx, schemaMigrationsTable); err != nil {
		return 0, fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := db.getAppliedMigrations(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	newMigrations := 0
	for _, m := range migrations {
		if m.Version > target {
			break
		}
		if _, exists := applied[m.Version]; exists {
			continue
		}

		for _, stmt := range m.Statements() {
			if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
				return 0, fmt.Errorf("failed to execute migration v%d (%s): %w", m.Version, m.Name, err)
			}
		}
		if _, err := db.conn.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name, description) VALUES (?, ?, ?)`,
			m.Version, m.Name, m.Description); err != nil {
			return 0, fmt.Errorf("failed to record migration v%d: %w", m.Version, err)
		}
		applied[m.Version] = m
		newMigrations++
	}

	if newMigrations > 0 {
		logging.Info().Int("count", newMigrations).Int("target", target).Msg("Applied database migrations")
	}

	// The live version is the longest applied prefix of the migration list.
	version := 0
	for _, m := range migrations {
		if _, ok := applied[m.Version]; !ok {
			break
		}
		version = m.Version
	}
	return version, nil
}

// GetCurrentSchemaVersion returns the highest applied migration version.
func (db *DB) GetCurrentSchemaVersion(ctx context.Context) (int, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var version int
	err := db.conn.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// GetMigrationHistory returns all applied migrations in order.
func (db *DB) GetMigrationHistory(ctx context.Context) ([]Migration, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	applied, err := db.getAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	history := make([]Migration, 0, len(applied))
	for _, m := range migrations {
		if a, ok := applied[m.Version]; ok {
			m.AppliedAt = a.AppliedAt
			history = append(history, m)
		}
	}
	return history, nil
}
