// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

/*
Package middleware provides HTTP middleware components for the API router.

Every middleware has chi's shape, func(http.Handler) http.Handler, and is
installed with r.Use in internal/api.

Key Components:

  - RequestID: request id from X-Request-ID or a fresh UUID, attached to the
    context so logging.Ctx tags every line of the request
  - PrometheusMetrics: api_requests_total and api_request_duration_seconds,
    labeled by chi route pattern
  - PerformanceMonitor: sliding window of recent requests with per-endpoint
    percentiles, served by the health endpoint, and a slow request warning

Middleware Stack:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perfMon.Middleware)

Route patterns are read after the wrapped handler returns, when chi has
finished matching, so these middlewares may be mounted on the root router.
The response writer wrapper forwards Hijack, which the websocket upgrade at
/api/v1/ws needs.
*/
package middleware
