// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package database

import (
	"errors"
	"fmt"
	"io"

	"github.com/tomtom215/vodarchive/internal/logging"
)

// Sentinel errors returned by store operations. Match with errors.Is.
var (
	ErrVideoNotFound = errors.New("video not found")
	ErrClipNotFound  = errors.New("clip not found")
	ErrLinkNotFound  = errors.New("video link not found")
	ErrDuplicate     = errors.New("record already exists")
	ErrConflict      = errors.New("transaction conflict")

	// ErrUnsupportedColumn is returned when an operation needs a column the
	// live schema version does not have.
	ErrUnsupportedColumn = errors.New("column not available in this schema version")
)

// RecordError is a per-record reconciliation failure. It never aborts the
// batch it occurred in.
type RecordError struct {
	Entity   string // "video" or "clip"
	Index    int    // position in the batch
	RemoteID string // empty when the record had none
	Field    string // offending field, when known
	Err      error
}

func (e *RecordError) Error() string {
	id := e.RemoteID
	if id == "" {
		id = fmt.Sprintf("#%d", e.Index)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s %s: %s: %v", e.Entity, id, e.Field, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Entity, id, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Record-level causes wrapped by RecordError.
var (
	ErrMissingRemoteID = errors.New("missing remote identifier")
	ErrMissingField    = errors.New("missing required field")
	ErrMalformedField  = errors.New("malformed field")
)

// closeQuietly closes a resource and explicitly ignores any error.
// Use this for cleanup in error paths where Close errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// closeWithLog closes a resource and logs any error.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}
