// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package helix

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vodarchive/internal/config"
)

// fakeHelix is an httptest server with per-endpoint handlers and counters.
type fakeHelix struct {
	srv        *httptest.Server
	tokenCalls atomic.Int32
	apiCalls   atomic.Int32

	token func(w http.ResponseWriter, r *http.Request)
	users func(w http.ResponseWriter, r *http.Request)
	video func(w http.ResponseWriter, r *http.Request)
	clips func(w http.ResponseWriter, r *http.Request)
}

func newFakeHelix(t *testing.T) *fakeHelix {
	t.Helper()
	f := &fakeHelix{
		token: func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"access_token": "app-token", "expires_in": 3600, "token_type": "bearer"})
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		f.token(w, r)
	})
	route := func(h *func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.apiCalls.Add(1)
			if *h == nil {
				http.NotFound(w, r)
				return
			}
			(*h)(w, r)
		}
	}
	mux.HandleFunc("/helix/users", route(&f.users))
	mux.HandleFunc("/helix/videos", route(&f.video))
	mux.HandleFunc("/helix/clips", route(&f.clips))

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeHelix) config() *config.TwitchConfig {
	return &config.TwitchConfig{
		ClientID:          "client-id",
		ClientSecret:      "client-secret",
		ChannelName:       "somechannel",
		APIURL:            f.srv.URL + "/helix",
		AuthURL:           f.srv.URL + "/oauth2/token",
		AuthTimeout:       2 * time.Second,
		FetchTimeout:      2 * time.Second,
		RequestsPerSecond: 1000,
		RateLimitRetries:  2,
	}
}

func (f *fakeHelix) client() *Client {
	c := NewClient(f.config())
	c.retryBaseDelay = time.Millisecond
	return c
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type page struct {
	Data       []map[string]interface{} `json:"data"`
	Pagination map[string]string        `json:"pagination"`
}

func pageOf(cursor string, ids ...string) page {
	p := page{Data: []map[string]interface{}{}, Pagination: map[string]string{}}
	for _, id := range ids {
		p.Data = append(p.Data, map[string]interface{}{"id": id, "title": "t-" + id, "created_at": "2024-01-01T00:00:00Z"})
	}
	if cursor != "" {
		p.Pagination["cursor"] = cursor
	}
	return p
}
