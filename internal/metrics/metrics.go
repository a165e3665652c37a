// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Sync Metrics
	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sync_duration_seconds",
			Help:    "Duration of sync runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"mode"}, // "auto", "manual"
	)

	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_runs_total",
			Help: "Total number of sync runs by outcome",
		},
		[]string{"mode", "status"}, // status: "success", "partial", "failed"
	)

	SyncRecordsAdded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_records_added_total",
			Help: "Total number of videos and clips newly inserted by sync",
		},
		[]string{"kind"}, // "video", "clip"
	)

	SyncErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_errors_total",
			Help: "Total number of errors reported by sync stages",
		},
		[]string{"stage", "error_type"},
	)

	SyncLinksResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sync_links_resolved_total",
			Help: "Total number of clips linked to their source video",
		},
	)

	SyncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_last_success_timestamp",
			Help: "Unix timestamp of last sync that finished without errors",
		},
	)

	SyncInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sync_in_progress",
			Help: "1 while a sync run is executing",
		},
	)

	// Upstream (Helix) Metrics
	HelixRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helix_requests_total",
			Help: "Total number of requests sent to the upstream platform",
		},
		[]string{"endpoint", "status_code"},
	)

	HelixRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "helix_request_duration_seconds",
			Help:    "Upstream request latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	HelixRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "helix_rate_limited_total",
			Help: "Total number of HTTP 429 responses from the upstream platform",
		},
	)

	HelixPagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helix_pages_fetched_total",
			Help: "Total number of collection pages fetched",
		},
		[]string{"resource"}, // "videos", "clips"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	// Legacy Import Metrics
	ImportRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legacy_import_rows_total",
			Help: "Rows read from the legacy archive, by table and outcome",
		},
		[]string{"table", "outcome"}, // outcome: "added", "existing", "failed"
	)
)

// RecordSyncOperation records the outcome of one sync run.
func RecordSyncOperation(mode, status string, duration time.Duration, videosAdded, clipsAdded int) {
	SyncDuration.WithLabelValues(mode).Observe(duration.Seconds())
	SyncRuns.WithLabelValues(mode, status).Inc()
	SyncRecordsAdded.WithLabelValues("video").Add(float64(videosAdded))
	SyncRecordsAdded.WithLabelValues("clip").Add(float64(clipsAdded))
	if status == "success" {
		SyncLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordSyncError counts one error reported by a sync stage.
func RecordSyncError(stage, errorType string) {
	SyncErrors.WithLabelValues(stage, errorType).Inc()
}

// RecordHelixRequest records one upstream HTTP exchange. statusCode 0 means
// no response was received.
func RecordHelixRequest(endpoint string, statusCode int, duration time.Duration) {
	code := "none"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	HelixRequests.WithLabelValues(endpoint, code).Inc()
	HelixRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	if statusCode == 429 {
		HelixRateLimited.Inc()
	}
}

func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
