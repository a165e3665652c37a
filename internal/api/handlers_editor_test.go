// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/tomtom215/vodarchive/internal/database"
	"github.com/tomtom215/vodarchive/internal/models"
)

func TestEditorRoutes_RequireToken(t *testing.T) {
	srv := newTestServer(t, true)

	routes := []struct{ method, target string }{
		{http.MethodPost, "/api/v1/sync"},
		{http.MethodGet, "/api/v1/sync/test"},
		{http.MethodPost, "/api/v1/repair/links"},
		{http.MethodPost, "/api/v1/repair/link-ids"},
		{http.MethodPost, "/api/v1/videos"},
		{http.MethodPut, "/api/v1/videos/1"},
		{http.MethodDelete, "/api/v1/videos/1"},
		{http.MethodPost, "/api/v1/videos/1/links"},
		{http.MethodDelete, "/api/v1/videos/1/links/2"},
		{http.MethodPost, "/api/v1/clips"},
		{http.MethodPut, "/api/v1/clips/1"},
		{http.MethodDelete, "/api/v1/clips/1"},
		{http.MethodPut, "/api/v1/clips/1/favorite"},
		{http.MethodPut, "/api/v1/clips/1/video"},
	}
	for _, rt := range routes {
		rec := srv.do(t, rt.method, rt.target, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status = %d, want 401", rt.method, rt.target, rec.Code)
		}

		rec = srv.do(t, rt.method, rt.target, "", "not-a-jwt")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s with bad token: status = %d, want 401", rt.method, rt.target, rec.Code)
		}
	}
	if srv.sync.runs != 0 {
		t.Error("an unauthenticated request reached the sync service")
	}
}

func TestEditorRoutes_Disabled(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(t, http.MethodPost, "/api/v1/videos", `{}`, "")
	expectStatus(t, rec, http.StatusServiceUnavailable)
	if code := errorCode(t, rec); code != "EDITOR_DISABLED" {
		t.Errorf("error code = %q, want EDITOR_DISABLED", code)
	}
}

func TestEditor_CookieToken(t *testing.T) {
	srv := newTestServer(t, true)
	token := srv.login(t)

	req := newRequest(http.MethodDelete, "/api/v1/clips/999", "")
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rec := serve(srv, req)

	// Authenticated, so the store answers: the clip does not exist.
	expectStatus(t, rec, http.StatusNotFound)
}

func TestVideoCRUD(t *testing.T) {
	srv := newTestServer(t, true)
	token := srv.login(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/videos",
		`{"title":"Charity marathon","category":"Just Chatting|Retro","created_at":"2026-01-10T18:00:00Z"}`, token)
	expectStatus(t, rec, http.StatusCreated)

	var created struct {
		Data models.Video `json:"data"`
	}
	decodeResponse(t, rec, &created)
	if created.Data.ID == 0 || created.Data.Kind != models.VideoKindManual {
		t.Fatalf("created = %+v, want manual video with id", created.Data)
	}
	id := itoa(created.Data.ID)

	rec = srv.do(t, http.MethodPut, "/api/v1/videos/"+id,
		`{"title":"Charity marathon (part 1)","created_at":"2026-01-10T18:00:00Z"}`, token)
	expectStatus(t, rec, http.StatusOK)
	if got := srv.store.videos[created.Data.ID].Title; got != "Charity marathon (part 1)" {
		t.Errorf("title after update = %q", got)
	}

	rec = srv.do(t, http.MethodPost, "/api/v1/videos/"+id+"/links",
		`{"url":"https://www.youtube.com/watch?v=abc123","title":"YouTube"}`, token)
	expectStatus(t, rec, http.StatusCreated)
	var link struct {
		Data models.VideoLink `json:"data"`
	}
	decodeResponse(t, rec, &link)

	rec = srv.do(t, http.MethodDelete, "/api/v1/videos/"+id+"/links/"+itoa(link.Data.ID), "", token)
	expectStatus(t, rec, http.StatusNoContent)

	rec = srv.do(t, http.MethodDelete, "/api/v1/videos/"+id+"/links/"+itoa(link.Data.ID), "", token)
	expectStatus(t, rec, http.StatusNotFound)

	rec = srv.do(t, http.MethodDelete, "/api/v1/videos/"+id, "", token)
	expectStatus(t, rec, http.StatusNoContent)

	rec = srv.do(t, http.MethodGet, "/api/v1/videos/"+id, "", "")
	expectStatus(t, rec, http.StatusNotFound)
}

func TestVideoCreate_Validation(t *testing.T) {
	srv := newTestServer(t, true)
	token := srv.login(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"created_at":"2026-01-10T18:00:00Z"}`},
		{"missing created_at", `{"title":"x"}`},
		{"bad url", `{"title":"x","url":"not a url","created_at":"2026-01-10T18:00:00Z"}`},
		{"bad type", `{"title":"x","type":"livestream","created_at":"2026-01-10T18:00:00Z"}`},
		{"empty body", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPost, "/api/v1/videos", tt.body, token)
			expectStatus(t, rec, http.StatusBadRequest)
			if code := errorCode(t, rec); code != "VALIDATION_ERROR" {
				t.Errorf("error code = %q, want VALIDATION_ERROR", code)
			}
		})
	}
}

func TestVideoUpdate_NotFound(t *testing.T) {
	srv := newTestServer(t, true)
	token := srv.login(t)

	rec := srv.do(t, http.MethodPut, "/api/v1/videos/999",
		`{"title":"x","created_at":"2026-01-10T18:00:00Z"}`, token)
	expectStatus(t, rec, http.StatusNotFound)
}

func TestClipCRUD(t *testing.T) {
	srv := newTestServer(t, true)
	token := srv.login(t)
	video := srv.store.addVideo(models.Video{TwitchID: "2001", Title: "VOD", CreatedAt: time.Now(), Kind: models.VideoKindArchive})

	rec := srv.do(t, http.MethodPost, "/api/v1/clips",
		`{"title":"Big play","created_at":"2026-01-10T19:00:00Z","vod_id":`+itoa(video.ID)+`}`, token)
	expectStatus(t, rec, http.StatusCreated)
	var created struct {
		Data models.Clip `json:"data"`
	}
	decodeResponse(t, rec, &created)
	id := itoa(created.Data.ID)

	rec = srv.do(t, http.MethodPut, "/api/v1/clips/"+id+"/favorite", `{"favorite":true}`, token)
	expectStatus(t, rec, http.StatusOK)
	if !srv.store.clips[created.Data.ID].IsFavorite {
		t.Error("favorite flag not set")
	}

	rec = srv.do(t, http.MethodPut, "/api/v1/clips/"+id+"/video", `{"vod_id":null}`, token)
	expectStatus(t, rec, http.StatusOK)
	if srv.store.clips[created.Data.ID].VideoID != nil {
		t.Error("video link not cleared")
	}

	rec = srv.do(t, http.MethodPut, "/api/v1/clips/"+id+"/video", `{"vod_id":`+itoa(video.ID)+`}`, token)
	expectStatus(t, rec, http.StatusOK)

	rec = srv.do(t, http.MethodPut, "/api/v1/clips/"+id,
		`{"title":"Bigger play","created_at":"2026-01-10T19:00:00Z"}`, token)
	expectStatus(t, rec, http.StatusOK)

	rec = srv.do(t, http.MethodDelete, "/api/v1/clips/"+id, "", token)
	expectStatus(t, rec, http.StatusNoContent)
}

func TestClipWrite_UnknownVideo(t *testing.T) {
	srv := newTestServer(t, true)
	token := srv.login(t)
	clip := srv.store.addClip(models.Clip{Title: "c"})

	rec := srv.do(t, http.MethodPost, "/api/v1/clips",
		`{"title":"x","created_at":"2026-01-10T19:00:00Z","vod_id":424242}`, token)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = srv.do(t, http.MethodPut, "/api/v1/clips/"+itoa(clip.ID)+"/video", `{"vod_id":424242}`, token)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = srv.do(t, http.MethodPut, "/api/v1/clips/"+itoa(clip.ID)+"/video", `{"vod_id":-1}`, token)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestRespondStoreError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"video", database.ErrVideoNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"link", database.ErrLinkNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"conflict", database.ErrConflict, http.StatusConflict, "CONFLICT"},
		{"missing field", database.ErrMissingField, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"other", errStoreDown, http.StatusInternalServerError, "DATABASE_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newRecorder()
			respondStoreError(rec, tt.err)
			expectStatus(t, rec, tt.wantCode)
			if code := errorCode(t, rec); code != tt.wantErr {
				t.Errorf("error code = %q, want %q", code, tt.wantErr)
			}
		})
	}
}
