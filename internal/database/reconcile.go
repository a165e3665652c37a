// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

/*
reconcile.go - Upsert Reconciliation

Fetched upstream records are merged into the store by remote identifier:

  - absent rows are inserted with every column the live schema supports
  - present rows only receive narrow repairs (see videoRepairs/clipRepairs);
    everything else on an existing row belongs to the editor
  - a record that cannot be mapped becomes a RecordError and the batch
    continues

Each batch is one transaction. Record validation happens before any SQL runs,
so a RecordError never poisons the transaction; a failing statement aborts
the whole batch and is returned as the error.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"fmt"
	"strings"
	"time"
)

// ReconcileResult summarizes one reconciliation batch.
type ReconcileResult struct {
	Inserted int
	Updated  int

	// Skipped counts records that carried no remote identifier. Each one
	// also has an entry in Errors.
	Skipped int

	Errors []*RecordError
}

// Messages renders Errors as strings.
func (r *ReconcileResult) Messages() []string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return msgs
}

// Merge adds o's counts and errors to r.
func (r *ReconcileResult) Merge(o ReconcileResult) {
	r.Inserted += o.Inserted
	r.Updated += o.Updated
	r.Skipped += o.Skipped
	r.Errors = append(r.Errors, o.Errors...)
}

func (r *ReconcileResult) String() string {
	return fmt.Sprintf("inserted=%d updated=%d skipped=%d errors=%d", r.Inserted, r.Updated, r.Skipped, len(r.Errors))
}

// parseRemoteTime parses an upstream RFC 3339 timestamp into UTC.
func parseRemoteTime(entity string, index int, id, value string) (time.Time, *RecordError) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, &RecordError{Entity: entity, Index: index, RemoteID: id, Field: "created_at", Err: ErrMissingField}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, &RecordError{Entity: entity, Index: index, RemoteID: id, Field: "created_at", Err: fmt.Errorf("%w: %q", ErrMalformedField, value)}
	}
	return t.UTC(), nil
}

// isCanonicalVideoURL reports whether u addresses one video rather than a
// channel root.
func isCanonicalVideoURL(u string) bool {
	return strings.Contains(u, "/videos/")
}

// shouldUpgradeURL implements the monotonic video URL rule: a non-canonical
// stored URL is replaced by a canonical one, never the other way round.
func shouldUpgradeURL(stored, incoming string) bool {
	return !isCanonicalVideoURL(stored) && isCanonicalVideoURL(incoming)
}

// pendingUpdate collects column assignments for one existing row.
type pendingUpdate struct {
	sets   []string
	values []interface{}
}

func (p *pendingUpdate) set(column string, value interface{}) {
	p.sets = append(p.sets, column+" = ?")
	p.values = append(p.values, value)
}

func (p *pendingUpdate) empty() bool { return len(p.sets) == 0 }

func (p *pendingUpdate) sql(table string) string {
	return "UPDATE " + table + " SET " + strings.Join(p.sets, ", ") + " WHERE id = ?"
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func blank(p *string) bool {
	return p == nil || strings.TrimSpace(*p) == ""
}
