// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	// syncRunKey tags every log line of one sync run.
	syncRunKey contextKey = "sync_run"

	requestIDKey contextKey = "request_id"
)

// NewSyncRunID returns a short identifier for one sync run.
func NewSyncRunID() string {
	return uuid.New().String()[:8]
}

// GenerateRequestID returns a full UUID for an HTTP request.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithSyncRun attaches a sync run id.
func ContextWithSyncRun(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, syncRunKey, id)
}

// SyncRunFromContext returns the sync run id, or "".
func SyncRunFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(syncRunKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithRequestID attaches an HTTP request id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request id, or "".
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns the global logger enriched with the sync_run and request_id
// values found in ctx.
//
//	logging.Ctx(ctx).Info().Int("added", n).Msg("Videos reconciled")
func Ctx(ctx context.Context) *zerolog.Logger {
	lc := Logger().With()
	if id := SyncRunFromContext(ctx); id != "" {
		lc = lc.Str("sync_run", id)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	l := lc.Logger()
	return &l
}

// WithComponent returns a child logger tagged with a component name.
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
