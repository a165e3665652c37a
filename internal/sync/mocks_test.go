// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package sync

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/vodarchive/internal/config"
	"github.com/tomtom215/vodarchive/internal/database"
	"github.com/tomtom215/vodarchive/internal/helix"
	"github.com/tomtom215/vodarchive/internal/models"
	"github.com/tomtom215/vodarchive/internal/models/twitch"
)

// newTestConfig returns a configured bundle with small, fast settings.
func newTestConfig() *config.Config {
	return &config.Config{
		Twitch: config.TwitchConfig{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			ChannelName:  "somechannel",
		},
		Sync: config.SyncConfig{
			Interval:      time.Hour,
			Lookback:      30 * 24 * time.Hour,
			ErrorLookback: 7 * 24 * time.Hour,
			ClipOverlap:   time.Hour,
			Window:        7 * 24 * time.Hour,
			PageSize:      100,
			MaxExtraPages: 10,
		},
	}
}

// mockUpstream records every call. Nil function fields succeed with no data.
type mockUpstream struct {
	mu sync.Mutex

	token       func(ctx context.Context) (string, error)
	resolveUser func(ctx context.Context, login string) (*twitch.User, error)
	fetchVideos func(ctx context.Context, q helix.VideoQuery, fn func([]twitch.Video) error) error
	fetchClips  func(ctx context.Context, q helix.ClipQuery, fn func(helix.Window, []twitch.Clip) error) error

	tokenCalls   int
	resolveCalls int
	videoQueries []helix.VideoQuery
	clipQueries  []helix.ClipQuery
}

func (m *mockUpstream) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	m.tokenCalls++
	m.mu.Unlock()
	if m.token != nil {
		return m.token(ctx)
	}
	return "token", nil
}

func (m *mockUpstream) TokenSource() string { return "exchanged" }

func (m *mockUpstream) ResolveChannelUser(ctx context.Context, login string) (*twitch.User, error) {
	m.mu.Lock()
	m.resolveCalls++
	m.mu.Unlock()
	if m.resolveUser != nil {
		return m.resolveUser(ctx, login)
	}
	return &twitch.User{ID: "1234", Login: login, DisplayName: "SomeChannel"}, nil
}

func (m *mockUpstream) FetchVideos(ctx context.Context, q helix.VideoQuery, fn func([]twitch.Video) error) error {
	m.mu.Lock()
	m.videoQueries = append(m.videoQueries, q)
	m.mu.Unlock()
	if m.fetchVideos != nil {
		return m.fetchVideos(ctx, q, fn)
	}
	return nil
}

func (m *mockUpstream) FetchClips(ctx context.Context, q helix.ClipQuery, fn func(helix.Window, []twitch.Clip) error) error {
	m.mu.Lock()
	m.clipQueries = append(m.clipQueries, q)
	m.mu.Unlock()
	if m.fetchClips != nil {
		return m.fetchClips(ctx, q, fn)
	}
	return nil
}

type recordedCheckpoint struct {
	kind    string
	instant time.Time
}

// mockStore inserts every record it is given unless a function field says otherwise.
type mockStore struct {
	mu sync.Mutex

	reconcileVideos func(records []twitch.Video, kind models.VideoKind) (database.ReconcileResult, error)
	reconcileClips  func(records []twitch.Clip) (database.ReconcileResult, error)
	resolveLinks    func() (int, error)
	getCheckpoint   func(kind string, policy database.CheckpointPolicy) (time.Time, error)
	recordErr       error

	videoKinds      []models.VideoKind
	checkpointReads int
	checkpoints     []recordedCheckpoint
	status          *models.SyncStatus
	repaired        int
}

func (s *mockStore) ReconcileVideos(_ context.Context, records []twitch.Video, kind models.VideoKind) (database.ReconcileResult, error) {
	s.mu.Lock()
	s.videoKinds = append(s.videoKinds, kind)
	s.mu.Unlock()
	if s.reconcileVideos != nil {
		return s.reconcileVideos(records, kind)
	}
	return database.ReconcileResult{Inserted: len(records)}, nil
}

func (s *mockStore) ReconcileClips(_ context.Context, records []twitch.Clip) (database.ReconcileResult, error) {
	if s.reconcileClips != nil {
		return s.reconcileClips(records)
	}
	return database.ReconcileResult{Inserted: len(records)}, nil
}

func (s *mockStore) ResolveLinks(context.Context) (int, error) {
	if s.resolveLinks != nil {
		return s.resolveLinks()
	}
	return 0, nil
}

func (s *mockStore) GetCheckpoint(_ context.Context, kind string, policy database.CheckpointPolicy) (time.Time, error) {
	s.mu.Lock()
	s.checkpointReads++
	s.mu.Unlock()
	if s.getCheckpoint != nil {
		return s.getCheckpoint(kind, policy)
	}
	return time.Time{}, nil
}

func (s *mockStore) RecordCheckpoint(_ context.Context, kind string, instant time.Time) error {
	if s.recordErr != nil {
		return s.recordErr
	}
	s.mu.Lock()
	s.checkpoints = append(s.checkpoints, recordedCheckpoint{kind, instant})
	s.mu.Unlock()
	return nil
}

func (s *mockStore) GetSyncStatus(context.Context) (*models.SyncStatus, error) {
	if s.status != nil {
		return s.status, nil
	}
	return &models.SyncStatus{LastSync: map[string]time.Time{}}, nil
}

func (s *mockStore) RepairLinkIdentifiers(context.Context) (int, error) {
	return s.repaired, nil
}

func (s *mockStore) checkpointKinds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	kinds := make([]string, len(s.checkpoints))
	for i, c := range s.checkpoints {
		kinds[i] = c.kind
	}
	return kinds
}

// recordingHub captures broadcasts.
type recordingHub struct {
	mu       sync.Mutex
	messages []string
	payloads []interface{}
}

func (h *recordingHub) BroadcastJSON(messageType string, data interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, messageType)
	h.payloads = append(h.payloads, data)
}

func videos(ids ...string) []twitch.Video {
	out := make([]twitch.Video, len(ids))
	for i, id := range ids {
		out[i] = twitch.Video{ID: id, CreatedAt: "2024-03-01T00:00:00Z"}
	}
	return out
}

func clips(ids ...string) []twitch.Clip {
	out := make([]twitch.Clip, len(ids))
	for i, id := range ids {
		out[i] = twitch.Clip{ID: id, CreatedAt: "2024-03-01T00:00:00Z"}
	}
	return out
}

// newTestOrchestrator pins the clock at now.
func newTestOrchestrator(up *mockUpstream, store *mockStore, cfg *config.Config, now time.Time) *Orchestrator {
	o := NewOrchestrator(up, store, &cfg.Twitch, &cfg.Sync)
	o.now = func() time.Time { return now }
	return o
}
