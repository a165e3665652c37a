// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/vodarchive/internal/metrics"
)

func TestPrometheusMetrics_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/api/v1/videos/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/videos/{id}", "404")
	before := testutil.ToFloat64(counter)

	for _, path := range []string{"/api/v1/videos/1", "/api/v1/videos/2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	}

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("api_requests_total delta = %v, want 2", got)
	}
}

func TestRoutePattern_Unmatched(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	if got := RoutePattern(req); got != unmatchedRoute {
		t.Errorf("RoutePattern() = %q, want %q", got, unmatchedRoute)
	}
}

func TestStatusRecorder(t *testing.T) {
	t.Parallel()

	t.Run("defaults to 200", func(t *testing.T) {
		rec := newStatusRecorder(httptest.NewRecorder())
		if _, err := rec.Write([]byte("ok")); err != nil {
			t.Fatal(err)
		}
		if rec.statusCode != http.StatusOK {
			t.Errorf("statusCode = %d, want 200", rec.statusCode)
		}
	})

	t.Run("first WriteHeader wins", func(t *testing.T) {
		rec := newStatusRecorder(httptest.NewRecorder())
		rec.WriteHeader(http.StatusCreated)
		rec.WriteHeader(http.StatusInternalServerError)
		if rec.statusCode != http.StatusCreated {
			t.Errorf("statusCode = %d, want 201", rec.statusCode)
		}
	})

	t.Run("hijack without support", func(t *testing.T) {
		rec := newStatusRecorder(httptest.NewRecorder())
		if _, _, err := rec.Hijack(); err == nil {
			t.Error("expected error from non-hijackable writer")
		}
	})

	t.Run("unwrap", func(t *testing.T) {
		inner := httptest.NewRecorder()
		if newStatusRecorder(inner).Unwrap() != inner {
			t.Error("Unwrap() did not return the wrapped writer")
		}
	})
}
