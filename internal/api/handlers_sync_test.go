// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/vodarchive/internal/models"
	syncpkg "github.com/tomtom215/vodarchive/internal/sync"
)

func TestTriggerSync_Automatic(t *testing.T) {
	srv := newTestServer(t, true)
	token := srv.login(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/sync", "", token)
	expectStatus(t, rec, http.StatusOK)

	if srv.sync.runs != 1 || srv.sync.lastWindow != nil {
		t.Fatalf("runs = %d, window = %v; want one automatic run", srv.sync.runs, srv.sync.lastWindow)
	}
	var resp struct {
		Data syncpkg.Result `json:"data"`
	}
	decodeResponse(t, rec, &resp)
	if resp.Data.Mode != syncpkg.ModeAutomatic || resp.Data.Details.VideosAdded != 2 {
		t.Errorf("result = %+v", resp.Data)
	}
}

func TestTriggerSync_Manual(t *testing.T) {
	srv := newTestServer(t, true)
	token := srv.login(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/sync", `{"start_date":"2026-01-01","end_date":"2026-01-31"}`, token)
	expectStatus(t, rec, http.StatusOK)

	w := srv.sync.lastWindow
	if w == nil {
		t.Fatal("manual run received no window")
	}
	if !w.Start.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) || !w.End.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("window = %v..%v, want inclusive January", w.Start, w.End)
	}
}

func TestTriggerSync_BadRange(t *testing.T) {
	srv := newTestServer(t, true)
	token := srv.login(t)

	for _, body := range []string{
		`{"start_date":"2026-01-31","end_date":"2026-01-01"}`,
		`{"start_date":"2026-01-01"}`,
		`{"start_date":"01/01/2026","end_date":"2026-01-31"}`,
	} {
		rec := srv.do(t, http.MethodPost, "/api/v1/sync", body, token)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, rec.Code)
		}
	}
	if srv.sync.runs != 0 {
		t.Errorf("runs = %d, want none for invalid ranges", srv.sync.runs)
	}
}

func TestTriggerSync_InProgress(t *testing.T) {
	srv := newTestServer(t, true)
	token := srv.login(t)
	srv.sync.runErr = syncpkg.ErrSyncInProgress

	rec := srv.do(t, http.MethodPost, "/api/v1/sync", "", token)
	expectStatus(t, rec, http.StatusConflict)
	if code := errorCode(t, rec); code != "SYNC_IN_PROGRESS" {
		t.Errorf("error code = %q, want SYNC_IN_PROGRESS", code)
	}
}

func TestSyncStatus_Public(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(t, http.MethodGet, "/api/v1/sync/status", "", "")
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"total_videos":4`) || !strings.Contains(rec.Body.String(), `"configured":true`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestSyncTest(t *testing.T) {
	srv := newTestServer(t, true)
	token := srv.login(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/sync/test", "", token)
	expectStatus(t, rec, http.StatusOK)

	var resp struct {
		Data models.ConnectionTest `json:"data"`
	}
	decodeResponse(t, rec, &resp)
	if resp.Data.UserID != "1234" {
		t.Errorf("UserID = %q", resp.Data.UserID)
	}
}

func TestSyncTest_Errors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantErr   string
		wantType  string
		wantInMsg string
	}{
		{
			name:     "not configured",
			err:      &syncpkg.ConfigurationError{Missing: []string{"TWITCH_CLIENT_ID"}},
			wantCode: http.StatusServiceUnavailable, wantErr: "SYNC_NOT_CONFIGURED", wantType: "configuration",
			wantInMsg: "TWITCH_CLIENT_ID",
		},
		{
			name:     "bad credentials",
			err:      &syncpkg.AuthenticationError{StatusCode: http.StatusUnauthorized, Body: "invalid client secret"},
			wantCode: http.StatusBadGateway, wantErr: "UPSTREAM_ERROR", wantType: "authentication",
		},
		{
			name:     "unknown channel",
			err:      &syncpkg.ChannelNotFoundError{Channel: "ghost"},
			wantCode: http.StatusNotFound, wantErr: "NOT_FOUND", wantType: "channel_not_found",
			wantInMsg: "ghost",
		},
		{
			name:     "upstream down",
			err:      fmt.Errorf("lookup: %w", &syncpkg.UpstreamRequestError{Resource: "users", StatusCode: http.StatusServiceUnavailable}),
			wantCode: http.StatusBadGateway, wantErr: "UPSTREAM_ERROR", wantType: "upstream",
		},
		{
			name:     "other",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError, wantErr: "INTERNAL_ERROR", wantType: "store",
		},
	}

	srv := newTestServer(t, true)
	token := srv.login(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv.sync.testErr = tt.err

			rec := srv.do(t, http.MethodGet, "/api/v1/sync/test", "", token)
			expectStatus(t, rec, tt.wantCode)

			var resp models.APIResponse
			decodeResponse(t, rec, &resp)
			if resp.Error == nil || resp.Error.Code != tt.wantErr {
				t.Fatalf("error = %+v, want code %s", resp.Error, tt.wantErr)
			}
			if got := resp.Error.Details["error_type"]; got != tt.wantType {
				t.Errorf("error_type = %v, want %s", got, tt.wantType)
			}
			if tt.wantInMsg != "" && !strings.Contains(rec.Body.String(), tt.wantInMsg) {
				t.Errorf("body %s does not mention %q", rec.Body.String(), tt.wantInMsg)
			}
		})
	}
}

func TestRepairs(t *testing.T) {
	srv := newTestServer(t, true)
	token := srv.login(t)

	for target, want := range map[string]int{
		"/api/v1/repair/links":    3,
		"/api/v1/repair/link-ids": 1,
	} {
		rec := srv.do(t, http.MethodPost, target, "", token)
		expectStatus(t, rec, http.StatusOK)

		var resp struct {
			Data models.RepairResult `json:"data"`
		}
		decodeResponse(t, rec, &resp)
		if resp.Data.Fixed != want {
			t.Errorf("%s: fixed = %d, want %d", target, resp.Data.Fixed, want)
		}
	}

	srv.sync.repairErr = errStoreDown
	rec := srv.do(t, http.MethodPost, "/api/v1/repair/links", "", token)
	expectStatus(t, rec, http.StatusInternalServerError)
}

func TestHealth_ReportsLastSync(t *testing.T) {
	srv := newTestServer(t, true)
	token := srv.login(t)
	srv.do(t, http.MethodPost, "/api/v1/sync", "", token)

	rec := srv.do(t, http.MethodGet, "/api/v1/health", "", "")
	var resp struct {
		Data models.HealthStatus `json:"data"`
	}
	decodeResponse(t, rec, &resp)
	if resp.Data.LastSyncTime == nil || !resp.Data.LastSyncTime.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("LastSyncTime = %v", resp.Data.LastSyncTime)
	}
}
