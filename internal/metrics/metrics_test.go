// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordSyncOperation(t *testing.T) {
	beforeRuns := testutil.ToFloat64(SyncRuns.WithLabelValues("manual", "partial"))
	beforeVideos := testutil.ToFloat64(SyncRecordsAdded.WithLabelValues("video"))
	beforeClips := testutil.ToFloat64(SyncRecordsAdded.WithLabelValues("clip"))

	RecordSyncOperation("manual", "partial", 3*time.Second, 4, 7)

	if got := testutil.ToFloat64(SyncRuns.WithLabelValues("manual", "partial")) - beforeRuns; got != 1 {
		t.Errorf("sync_runs_total delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(SyncRecordsAdded.WithLabelValues("video")) - beforeVideos; got != 4 {
		t.Errorf("videos added delta = %v, want 4", got)
	}
	if got := testutil.ToFloat64(SyncRecordsAdded.WithLabelValues("clip")) - beforeClips; got != 7 {
		t.Errorf("clips added delta = %v, want 7", got)
	}
}

func TestRecordSyncOperationSetsLastSuccess(t *testing.T) {
	SyncLastSuccess.Set(0)

	RecordSyncOperation("auto", "failed", time.Second, 0, 0)
	if got := testutil.ToFloat64(SyncLastSuccess); got != 0 {
		t.Errorf("failed run should not set last success, got %v", got)
	}

	RecordSyncOperation("auto", "success", time.Second, 0, 0)
	if got := testutil.ToFloat64(SyncLastSuccess); got < float64(time.Now().Add(-time.Minute).Unix()) {
		t.Errorf("last success = %v, want about now", got)
	}
}

func TestRecordHelixRequest(t *testing.T) {
	before429 := testutil.ToFloat64(HelixRateLimited)
	beforeNone := testutil.ToFloat64(HelixRequests.WithLabelValues("videos", "none"))

	RecordHelixRequest("videos", 429, 10*time.Millisecond)
	RecordHelixRequest("videos", 0, 10*time.Millisecond)
	RecordHelixRequest("videos", 200, 10*time.Millisecond)

	if got := testutil.ToFloat64(HelixRateLimited) - before429; got != 1 {
		t.Errorf("rate limited delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(HelixRequests.WithLabelValues("videos", "none")) - beforeNone; got != 1 {
		t.Errorf("no-response delta = %v, want 1", got)
	}
}

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("insert", "clips"))

	RecordDBQuery("insert", "clips", time.Millisecond, nil)
	RecordDBQuery("insert", "clips", time.Millisecond, errors.New("constraint"))

	if got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("insert", "clips")) - before; got != 1 {
		t.Errorf("db error delta = %v, want 1", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/videos", "200"))
	RecordAPIRequest("GET", "/api/v1/videos", 200, 5*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/videos", "200")) - before; got != 1 {
		t.Errorf("api requests delta = %v, want 1", got)
	}
}
