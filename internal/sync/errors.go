// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/vodarchive/internal/database"
	"github.com/tomtom215/vodarchive/internal/helix"
)

// ErrSyncInProgress is returned when a run is requested while another one holds the sync lock.
var ErrSyncInProgress = errors.New("sync already in progress")

// ErrInvalidDateRange is returned by ParseDateRange.
var ErrInvalidDateRange = errors.New("invalid date range")

// Upstream and store errors surfaced unchanged in Result.Failures.
type (
	AuthenticationError       = helix.AuthenticationError
	ChannelNotFoundError      = helix.ChannelNotFoundError
	UpstreamRequestError      = helix.UpstreamRequestError
	RecordReconciliationError = database.RecordError
)

// ConfigurationError reports missing credential fields. It is raised before
// any network call and stays until the configuration changes.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "sync not configured: missing " + strings.Join(e.Missing, ", ")
}

// LinkResolutionError wraps a store failure while linking clips to videos.
type LinkResolutionError struct {
	Err error
}

func (e *LinkResolutionError) Error() string {
	return fmt.Sprintf("link resolution failed: %v", e.Err)
}

func (e *LinkResolutionError) Unwrap() error { return e.Err }

// StageError tags a failure with the state and resource it happened in.
type StageError struct {
	Stage    State
	Resource string // e.g. "videos:archive", "clips"; empty for whole-stage failures
	Err      error
}

func (e *StageError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s %s: %v", e.Stage, e.Resource, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ErrorType classifies err for metrics labels and API details.
func ErrorType(err error) string {
	var (
		cfgErr  *ConfigurationError
		authErr *AuthenticationError
		chanErr *ChannelNotFoundError
		upErr   *UpstreamRequestError
		recErr  *RecordReconciliationError
		linkErr *LinkResolutionError
	)
	switch {
	case errors.As(err, &cfgErr):
		return "configuration"
	case errors.As(err, &authErr):
		return "authentication"
	case errors.As(err, &chanErr):
		return "channel_not_found"
	case errors.As(err, &recErr):
		return "record"
	case errors.As(err, &linkErr):
		return "link_resolution"
	case errors.As(err, &upErr):
		if upErr.Timeout() {
			return "timeout"
		}
		return "upstream"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "store"
	}
}

// splitJoined flattens an errors.Join result into its parts.
func splitJoined(err error) []error {
	if err == nil {
		return nil
	}
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range multi.Unwrap() {
			out = append(out, splitJoined(e)...)
		}
		return out
	}
	return []error{err}
}
