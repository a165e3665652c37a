// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vodarchive/internal/auth"
	"github.com/tomtom215/vodarchive/internal/config"
	"github.com/tomtom215/vodarchive/internal/database"
	"github.com/tomtom215/vodarchive/internal/models"
	syncpkg "github.com/tomtom215/vodarchive/internal/sync"
)

const (
	testPassword  = "correct horse battery staple"
	testJWTSecret = "0123456789abcdef0123456789abcdef"
)

var errStoreDown = errors.New("connection refused")

// fakeStore is an in-memory Store.
type fakeStore struct {
	mu     sync.Mutex
	nextID int64
	videos map[int64]*models.Video
	clips  map[int64]*models.Clip
	links  map[int64]*models.VideoLink

	pingErr error
	listErr error

	lastVideoFilter models.VideoFilter
	lastClipFilter  models.ClipFilter
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID: 100,
		videos: make(map[int64]*models.Video),
		clips:  make(map[int64]*models.Clip),
		links:  make(map[int64]*models.VideoLink),
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) addVideo(v models.Video) *models.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == 0 {
		v.ID = s.id()
	}
	s.videos[v.ID] = &v
	return &v
}

func (s *fakeStore) addClip(c models.Clip) *models.Clip {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.id()
	}
	s.clips[c.ID] = &c
	return &c
}

func (s *fakeStore) Ping(ctx context.Context) error { return s.pingErr }

func (s *fakeStore) GetCurrentSchemaVersion(ctx context.Context) (int, error) { return 3, nil }

func (s *fakeStore) ListVideos(ctx context.Context, f models.VideoFilter) (*models.Page[models.Video], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastVideoFilter = f
	if s.listErr != nil {
		return nil, s.listErr
	}
	page := &models.Page[models.Video]{Limit: f.Limit, Offset: f.Offset}
	for _, v := range s.videos {
		if f.Search != "" && !strings.Contains(strings.ToLower(v.Title), strings.ToLower(f.Search)) {
			continue
		}
		page.Items = append(page.Items, *v)
	}
	sort.Slice(page.Items, func(i, j int) bool { return page.Items[i].CreatedAt.After(page.Items[j].CreatedAt) })
	page.Total = int64(len(page.Items))
	if f.Offset >= len(page.Items) {
		page.Items = nil
	} else {
		page.Items = page.Items[f.Offset:min(len(page.Items), f.Offset+f.Limit)]
	}
	return page, nil
}

func (s *fakeStore) ListClips(ctx context.Context, f models.ClipFilter) (*models.Page[models.Clip], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastClipFilter = f
	page := &models.Page[models.Clip]{Limit: f.Limit, Offset: f.Offset}
	for _, c := range s.clips {
		if f.FavoriteOnly && !c.IsFavorite {
			continue
		}
		page.Items = append(page.Items, *c)
	}
	page.Total = int64(len(page.Items))
	return page, nil
}

func (s *fakeStore) ListCategories(ctx context.Context) ([]string, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return nil, nil
}

func (s *fakeStore) GetVideoDetail(ctx context.Context, id int64) (*models.VideoDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[id]
	if !ok {
		return nil, database.ErrVideoNotFound
	}
	detail := &models.VideoDetail{Video: *v, Links: []models.VideoLink{}, Clips: []models.Clip{}}
	for _, l := range s.links {
		if l.VideoID == id {
			detail.Links = append(detail.Links, *l)
		}
	}
	return detail, nil
}

func (s *fakeStore) CreateVideo(ctx context.Context, in *models.VideoInput) (*models.Video, error) {
	kind := in.Kind
	if kind == "" {
		kind = models.VideoKindManual
	}
	v := s.addVideo(models.Video{Title: in.Title, Category: in.Category, URL: in.URL, CreatedAt: in.CreatedAt, Kind: kind})
	v.TwitchID = "manual_test"
	return v, nil
}

func (s *fakeStore) UpdateVideo(ctx context.Context, id int64, in *models.VideoInput) (*models.Video, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.videos[id]
	if !ok {
		return nil, database.ErrVideoNotFound
	}
	v.Title, v.Category, v.URL, v.CreatedAt = in.Title, in.Category, in.URL, in.CreatedAt
	return v, nil
}

func (s *fakeStore) DeleteVideo(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.videos[id]; !ok {
		return database.ErrVideoNotFound
	}
	delete(s.videos, id)
	return nil
}

func (s *fakeStore) GetClip(ctx context.Context, id int64) (*models.Clip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clips[id]
	if !ok {
		return nil, database.ErrClipNotFound
	}
	return c, nil
}

func (s *fakeStore) CreateClip(ctx context.Context, in *models.ClipInput) (*models.Clip, error) {
	if in.VideoID != nil {
		s.mu.Lock()
		_, ok := s.videos[*in.VideoID]
		s.mu.Unlock()
		if !ok {
			return nil, database.ErrVideoNotFound
		}
	}
	return s.addClip(models.Clip{Title: in.Title, Category: in.Category, URL: in.URL, CreatedAt: in.CreatedAt, VideoID: in.VideoID}), nil
}

func (s *fakeStore) UpdateClip(ctx context.Context, id int64, in *models.ClipInput) (*models.Clip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clips[id]
	if !ok {
		return nil, database.ErrClipNotFound
	}
	c.Title, c.Category, c.URL, c.CreatedAt = in.Title, in.Category, in.URL, in.CreatedAt
	return c, nil
}

func (s *fakeStore) SetClipVideo(ctx context.Context, id int64, videoID *int64) (*models.Clip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clips[id]
	if !ok {
		return nil, database.ErrClipNotFound
	}
	if videoID != nil {
		if _, ok := s.videos[*videoID]; !ok {
			return nil, database.ErrVideoNotFound
		}
	}
	c.VideoID = videoID
	return c, nil
}

func (s *fakeStore) SetClipFavorite(ctx context.Context, id int64, favorite bool) (*models.Clip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clips[id]
	if !ok {
		return nil, database.ErrClipNotFound
	}
	c.IsFavorite = favorite
	return c, nil
}

func (s *fakeStore) DeleteClip(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clips[id]; !ok {
		return database.ErrClipNotFound
	}
	delete(s.clips, id)
	return nil
}

func (s *fakeStore) AddVideoLink(ctx context.Context, videoID int64, url, title string) (*models.VideoLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.videos[videoID]; !ok {
		return nil, database.ErrVideoNotFound
	}
	link := &models.VideoLink{ID: s.id(), VideoID: videoID, URL: url, CreatedAt: time.Now().UTC()}
	if title != "" {
		link.Title = &title
	}
	s.links[link.ID] = link
	return link, nil
}

func (s *fakeStore) DeleteVideoLink(ctx context.Context, videoID, linkID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.links[linkID]
	if !ok || link.VideoID != videoID {
		return database.ErrLinkNotFound
	}
	delete(s.links, linkID)
	return nil
}

// fakeSync is a scripted SyncService.
type fakeSync struct {
	mu         sync.Mutex
	runErr     error
	testErr    error
	repairErr  error
	lastWindow *syncpkg.DateRange
	runs       int
	last       *syncpkg.Result
}

func (f *fakeSync) RunSync(ctx context.Context, window *syncpkg.DateRange) (*syncpkg.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs++
	f.lastWindow = window
	if f.runErr != nil {
		return nil, f.runErr
	}
	mode := syncpkg.ModeAutomatic
	if window != nil {
		mode = syncpkg.ModeManual
	}
	f.last = &syncpkg.Result{
		RunID:     "run-1",
		Mode:      mode,
		Success:   true,
		Status:    syncpkg.StatusSuccess,
		State:     syncpkg.StateDone,
		Details:   syncpkg.Details{VideosAdded: 2, Errors: []string{}},
		Range:     window,
		StartedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	return f.last, nil
}

func (f *fakeSync) Status(ctx context.Context) (*syncpkg.Report, error) {
	return &syncpkg.Report{
		SyncStatus: &models.SyncStatus{LastSync: map[string]time.Time{}, TotalVideos: 4},
		Configured: true,
	}, nil
}

func (f *fakeSync) LastResult() *syncpkg.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func (f *fakeSync) TestConnection(ctx context.Context) (*models.ConnectionTest, error) {
	if f.testErr != nil {
		return nil, f.testErr
	}
	return &models.ConnectionTest{ChannelLogin: "somechannel", DisplayName: "SomeChannel", UserID: "1234", TokenSource: "exchanged"}, nil
}

func (f *fakeSync) RepairLinks(ctx context.Context) (int, error) {
	if f.repairErr != nil {
		return 0, f.repairErr
	}
	return 3, nil
}

func (f *fakeSync) RepairLinkIDs(ctx context.Context) (int, error) {
	if f.repairErr != nil {
		return 0, f.repairErr
	}
	return 1, nil
}

// testServer bundles the router with its fakes.
type testServer struct {
	handler http.Handler
	store   *fakeStore
	sync    *fakeSync
}

func newTestConfig(editorEnabled bool) *config.Config {
	cfg := &config.Config{
		Twitch: config.TwitchConfig{ClientID: "id", ClientSecret: "secret", ChannelName: "somechannel"},
		Security: config.SecurityConfig{
			SessionTimeout:    time.Hour,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: true,
		},
	}
	if editorEnabled {
		cfg.Security.EditorPassword = testPassword
		cfg.Security.JWTSecret = testJWTSecret
	}
	return cfg
}

func newTestServerWithConfig(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()

	editor, err := auth.NewEditor(&cfg.Security)
	if err != nil {
		t.Fatalf("NewEditor: %v", err)
	}
	store := newFakeStore()
	syncSvc := &fakeSync{}
	handler := NewHandler(store, syncSvc, editor, cfg, nil)
	router := NewRouter(handler, auth.NewMiddleware(editor), NewChiMiddleware(ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	return &testServer{handler: router.SetupChi(), store: store, sync: syncSvc}
}

func newTestServer(t *testing.T, editorEnabled bool) *testServer {
	t.Helper()
	return newTestServerWithConfig(t, newTestConfig(editorEnabled))
}

// do sends a request through the router. token, when set, is sent as a
// bearer token.
func (s *testServer) do(t *testing.T, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// login returns a valid editor token.
func (s *testServer) login(t *testing.T) string {
	t.Helper()

	rec := s.do(t, http.MethodPost, "/api/v1/auth/login", `{"password":"`+testPassword+`"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data models.LoginResponse `json:"data"`
	}
	decodeResponse(t, rec, &resp)
	if resp.Data.Token == "" {
		t.Fatal("login returned an empty token")
	}
	return resp.Data.Token
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// errorCode extracts error.code from an error envelope.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.APIResponse
	decodeResponse(t, rec, &resp)
	if resp.Error == nil {
		t.Fatalf("expected an error envelope, got %s", rec.Body.String())
	}
	return resp.Error.Code
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}
func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func newRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func serve(s *testServer, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func newRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}
