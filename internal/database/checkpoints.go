// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/vodarchive/internal/models"
)

// Default look-back windows used when no checkpoint can be read.
const (
	DefaultLookback      = 30 * 24 * time.Hour
	DefaultErrorLookback = 7 * 24 * time.Hour
)

// CheckpointPolicy decides the instant returned when a kind has no usable
// checkpoint.
type CheckpointPolicy struct {
	// Lookback is used when the kind has never been recorded.
	Lookback time.Duration
	// ErrorLookback is used when reading the log fails.
	ErrorLookback time.Duration
}

func (p CheckpointPolicy) withDefaults() CheckpointPolicy {
	if p.Lookback <= 0 {
		p.Lookback = DefaultLookback
	}
	if p.ErrorLookback <= 0 {
		p.ErrorLookback = DefaultErrorLookback
	}
	return p
}

// GetCheckpoint returns the most recent recorded instant of kind.
//
// With no recorded checkpoint it returns now minus policy.Lookback. If the
// log cannot be read it returns now minus policy.ErrorLookback together with
// the read error, so the caller can log it and still proceed.
func (db *DB) GetCheckpoint(ctx context.Context, kind string, policy CheckpointPolicy) (time.Time, error) {
	policy = policy.withDefaults()
	now := db.now().UTC()

	last, ok, err := db.LatestCheckpoint(ctx, kind)
	switch {
	case err != nil:
		return now.Add(-policy.ErrorLookback), err
	case !ok:
		return now.Add(-policy.Lookback), nil
	default:
		return last, nil
	}
}

// LatestCheckpoint returns the largest recorded instant of kind.
func (db *DB) LatestCheckpoint(ctx context.Context, kind string) (time.Time, bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var last sql.NullTime
	err := db.conn.QueryRowContext(ctx,
		`SELECT MAX(last_sync_time) FROM sync_checkpoints WHERE sync_type = ?`, kind).Scan(&last)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read %s checkpoint: %w", kind, err)
	}
	if !last.Valid {
		return time.Time{}, false, nil
	}
	return last.Time.UTC(), true, nil
}

// RecordCheckpoint appends a checkpoint row. Prior rows are never changed.
func (db *DB) RecordCheckpoint(ctx context.Context, kind string, instant time.Time) error {
	return db.recordCheckpointAt(ctx, kind, instant, db.now())
}

// recordCheckpointAt is RecordCheckpoint with an explicit creation instant,
// used when importing a legacy sync log.
func (db *DB) recordCheckpointAt(ctx context.Context, kind string, instant, createdAt time.Time) (err error) {
	if kind == "" {
		return fmt.Errorf("checkpoint kind is required")
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("insert", "sync_checkpoints", start, err) }()

	return db.withTx(ctx, func(tx *sql.Tx) error {
		id, err := nextID(ctx, tx, "sync_checkpoints")
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO sync_checkpoints (id, sync_type, last_sync_time, created_at) VALUES (?, ?, ?, ?)`,
			id, kind, instant.UTC(), createdAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to record %s checkpoint: %w", kind, err)
		}
		return nil
	})
}

// ImportCheckpoint appends a checkpoint carried over from another store
// unless an identical row (kind and instant) already exists.
func (db *DB) ImportCheckpoint(ctx context.Context, kind string, instant, createdAt time.Time) (bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int64
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sync_checkpoints WHERE sync_type = ? AND last_sync_time = ?`,
		kind, instant.UTC()).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check checkpoint: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if createdAt.IsZero() {
		createdAt = instant
	}
	if err := db.recordCheckpointAt(ctx, kind, instant, createdAt); err != nil {
		return false, err
	}
	return true, nil
}

// ListCheckpoints returns the newest checkpoints of kind (all kinds when
// kind is empty), newest first.
func (db *DB) ListCheckpoints(ctx context.Context, kind string, limit int) ([]models.Checkpoint, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	limit = models.NormalizeLimit(limit)
	query := `SELECT id, sync_type, last_sync_time, created_at FROM sync_checkpoints`
	args := []interface{}{}
	if kind != "" {
		query += ` WHERE sync_type = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY last_sync_time DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}
	defer rows.Close()

	checkpoints := []models.Checkpoint{}
	for rows.Next() {
		var c models.Checkpoint
		if err := rows.Scan(&c.ID, &c.Kind, &c.LastSyncTime, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan checkpoint: %w", err)
		}
		c.LastSyncTime = c.LastSyncTime.UTC()
		c.CreatedAt = c.CreatedAt.UTC()
		checkpoints = append(checkpoints, c)
	}
	return checkpoints, rows.Err()
}

// latestCheckpoints maps every recorded kind to its largest instant.
func (db *DB) latestCheckpoints(ctx context.Context) (map[string]time.Time, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT sync_type, MAX(last_sync_time) FROM sync_checkpoints GROUP BY sync_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoints: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var kind string
		var last time.Time
		if err := rows.Scan(&kind, &last); err != nil {
			return nil, fmt.Errorf("failed to scan checkpoint: %w", err)
		}
		out[kind] = last.UTC()
	}
	return out, rows.Err()
}
