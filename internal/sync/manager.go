// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

/*
manager.go - Sync Manager Lifecycle

The Manager owns the Orchestrator and is the only entry point used by the
HTTP layer and the supervisor:

  - Start()/Stop(): periodic automatic sync (SYNC_ENABLED, SYNC_INTERVAL)
    and the optional run on startup (SYNC_ON_STARTUP)
  - TriggerSync()/RunSync(): on-demand automatic or date-ranged runs
  - Status(), TestConnection(), RepairLinks(), RepairLinkIDs()

Thread Safety:
  - syncMu serializes runs. A run requested while another holds it fails
    fast with ErrSyncInProgress instead of queueing.
  - mu protects running, lastResult and the completion callback.
*/

//nolint:staticcheck // File documentation, not package doc
package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/vodarchive/internal/config"
	"github.com/tomtom215/vodarchive/internal/logging"
	"github.com/tomtom215/vodarchive/internal/metrics"
	"github.com/tomtom215/vodarchive/internal/models"
)

// WebSocket message types broadcast by the manager.
const (
	MessageSyncProgress  = "sync_progress"
	MessageSyncCompleted = "sync_completed"
)

// WebSocketHub interface for broadcasting messages to frontend clients
// Implemented by internal/websocket/Hub
type WebSocketHub interface {
	BroadcastJSON(messageType string, data interface{})
}

// StatusStore is the read side of the store used by Status and the repair
// operations. Implemented by *database.DB.
type StatusStore interface {
	Store
	GetSyncStatus(ctx context.Context) (*models.SyncStatus, error)
	RepairLinkIdentifiers(ctx context.Context) (int, error)
}

// Report is the operator view returned by Manager.Status.
type Report struct {
	*models.SyncStatus
	Configured bool     `json:"configured"`
	Missing    []string `json:"missing_config,omitempty"`
	Scheduled  bool     `json:"scheduled"`
	InProgress bool     `json:"in_progress"`
	LastResult *Result  `json:"last_result,omitempty"`
}

// Manager runs and schedules syncs.
type Manager struct {
	orch     *Orchestrator
	store    StatusStore
	upstream Upstream
	cfg      *config.Config
	wsHub    WebSocketHub

	mu              sync.RWMutex
	syncMu          sync.Mutex // Serializes sync runs
	running         bool
	inProgress      bool
	lastResult      *Result
	onSyncCompleted func(*Result)
	stopChan        chan struct{}
	wg              sync.WaitGroup
}

// NewManager creates a sync manager. wsHub may be nil.
func NewManager(store StatusStore, upstream Upstream, cfg *config.Config, wsHub WebSocketHub) *Manager {
	m := &Manager{
		orch:     NewOrchestrator(upstream, store, &cfg.Twitch, &cfg.Sync),
		store:    store,
		upstream: upstream,
		cfg:      cfg,
		wsHub:    wsHub,
		stopChan: make(chan struct{}),
	}
	m.orch.onProgress = m.broadcastProgress

	logging.Info().
		Bool("enabled", cfg.Sync.Enabled).
		Bool("on_startup", cfg.Sync.OnStartup).
		Dur("interval", cfg.Sync.Interval).
		Dur("lookback", cfg.Sync.Lookback).
		Bool("configured", cfg.Twitch.IsConfigured()).
		Msg("Sync manager config loaded")

	return m
}

// SetOnSyncCompleted sets the callback invoked after every finished run.
func (m *Manager) SetOnSyncCompleted(callback func(*Result)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSyncCompleted = callback
}

// Start begins periodic synchronization when it is enabled.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("sync manager is already running")
	}
	m.running = true
	m.stopChan = make(chan struct{})
	m.mu.Unlock()

	if !m.cfg.Sync.Enabled {
		logging.Info().Msg("Scheduled sync disabled (SYNC_ENABLED=false), manual sync only")
		return nil
	}
	if !m.cfg.Twitch.IsConfigured() {
		logging.Warn().Strs("missing", m.cfg.Twitch.MissingFields()).Msg("Scheduled sync enabled but credentials are incomplete")
	}

	logging.Info().Dur("interval", m.cfg.Sync.Interval).Msg("Starting scheduled sync")
	m.wg.Add(1)
	go m.syncLoop(ctx)
	return nil
}

// Stop ends periodic synchronization and waits for an in-flight scheduled run.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return fmt.Errorf("sync manager is not running")
	}
	m.running = false
	m.mu.Unlock()

	logging.Info().Msg("Stopping sync manager...")
	close(m.stopChan)
	m.wg.Wait()
	logging.Info().Msg("Sync manager stopped")
	return nil
}

func (m *Manager) syncLoop(ctx context.Context) {
	defer m.wg.Done()

	if m.cfg.Sync.OnStartup {
		m.scheduledRun(ctx)
	}

	ticker := time.NewTicker(m.cfg.Sync.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopChan:
			return
		case <-ticker.C:
			m.scheduledRun(ctx)
		}
	}
}

func (m *Manager) scheduledRun(ctx context.Context) {
	if _, err := m.RunSync(ctx, nil); err != nil {
		logging.Warn().Err(err).Msg("Scheduled sync skipped")
	}
}

// TriggerSync runs one automatic sync now.
func (m *Manager) TriggerSync(ctx context.Context) (*Result, error) {
	return m.RunSync(ctx, nil)
}

// RunSync runs one sync over window, or an automatic sync when window is
// nil. It returns ErrSyncInProgress without waiting when another run is
// active; every other failure is reported inside the Result.
func (m *Manager) RunSync(ctx context.Context, window *DateRange) (*Result, error) {
	if !m.syncMu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer m.syncMu.Unlock()

	m.setInProgress(true)
	defer m.setInProgress(false)

	result := m.orch.Run(ctx, window)

	m.mu.Lock()
	m.lastResult = result
	callback := m.onSyncCompleted
	m.mu.Unlock()

	if m.wsHub != nil {
		m.wsHub.BroadcastJSON(MessageSyncCompleted, result)
	}
	if callback != nil {
		callback(result)
	}
	return result, nil
}

func (m *Manager) setInProgress(v bool) {
	m.mu.Lock()
	m.inProgress = v
	m.mu.Unlock()
	if v {
		metrics.SyncInProgress.Set(1)
	} else {
		metrics.SyncInProgress.Set(0)
	}
}

func (m *Manager) broadcastProgress(p Progress) {
	if m.wsHub != nil {
		m.wsHub.BroadcastJSON(MessageSyncProgress, p)
	}
}

// LastResult returns the most recent finished run, or nil.
func (m *Manager) LastResult() *Result {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastResult
}

// Status combines the stored sync status with the manager's own state.
func (m *Manager) Status(ctx context.Context) (*Report, error) {
	status, err := m.store.GetSyncStatus(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return &Report{
		SyncStatus: status,
		Configured: m.cfg.Twitch.IsConfigured(),
		Missing:    m.cfg.Twitch.MissingFields(),
		Scheduled:  m.running && m.cfg.Sync.Enabled,
		InProgress: m.inProgress,
		LastResult: m.lastResult,
	}, nil
}

// TestConnection obtains a token and resolves the configured channel
// without fetching or writing anything.
func (m *Manager) TestConnection(ctx context.Context) (*models.ConnectionTest, error) {
	if !m.cfg.Twitch.IsConfigured() {
		return nil, &ConfigurationError{Missing: m.cfg.Twitch.MissingFields()}
	}
	if _, err := m.upstream.Token(ctx); err != nil {
		return nil, err
	}
	user, err := m.upstream.ResolveChannelUser(ctx, m.cfg.Twitch.Channel())
	if err != nil {
		return nil, err
	}
	return &models.ConnectionTest{
		ChannelLogin: user.Login,
		DisplayName:  user.DisplayName,
		UserID:       user.ID,
		TokenSource:  m.upstream.TokenSource(),
	}, nil
}

// RepairLinks links every clip whose parent video is now stored.
func (m *Manager) RepairLinks(ctx context.Context) (int, error) {
	linked, err := m.store.ResolveLinks(ctx)
	if err != nil {
		return 0, &LinkResolutionError{Err: err}
	}
	metrics.SyncLinksResolved.Add(float64(linked))
	logging.Info().Int("linked", linked).Msg("Clip links repaired")
	return linked, nil
}

// RepairLinkIDs re-derives the platform identifier of every cross-platform link.
func (m *Manager) RepairLinkIDs(ctx context.Context) (int, error) {
	return m.store.RepairLinkIdentifiers(ctx)
}
