// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/vodarchive/internal/api"
	"github.com/tomtom215/vodarchive/internal/auth"
	"github.com/tomtom215/vodarchive/internal/config"
	"github.com/tomtom215/vodarchive/internal/database"
	"github.com/tomtom215/vodarchive/internal/helix"
	"github.com/tomtom215/vodarchive/internal/importer"
	"github.com/tomtom215/vodarchive/internal/logging"
	"github.com/tomtom215/vodarchive/internal/supervisor"
	"github.com/tomtom215/vodarchive/internal/supervisor/services"
	"github.com/tomtom215/vodarchive/internal/sync"
	ws "github.com/tomtom215/vodarchive/internal/websocket"
)

var (
	_ api.Store         = (*database.DB)(nil)
	_ api.SyncService   = (*sync.Manager)(nil)
	_ sync.StatusStore  = (*database.DB)(nil)
	_ sync.Upstream     = (*helix.Client)(nil)
	_ importer.Store    = (*database.DB)(nil)
	_ sync.WebSocketHub = (*ws.Hub)(nil)
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Caller:     cfg.Logging.Caller,
		Timestamp:  true,
		Output:     os.Stderr,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})

	if err := run(cfg); err != nil {
		logging.Error().Err(err).Msg("Vodarchive stopped with an error")
		_ = logging.Close()
		os.Exit(1)
	}
	_ = logging.Close()
}

//nolint:gocyclo // sequential startup wiring
func run(cfg *config.Config) error {
	logging.Info().
		Str("version", api.Version).
		Str("db_path", cfg.Database.Path).
		Str("channel", cfg.Twitch.Channel()).
		Bool("sync_configured", cfg.Twitch.IsConfigured()).
		Bool("editor_enabled", cfg.Security.EditorEnabled()).
		Msg("Starting Vodarchive")

	if !cfg.Twitch.IsConfigured() {
		logging.Warn().Strs("missing", cfg.Twitch.MissingFields()).Msg("Twitch credentials incomplete; sync is unavailable until configured")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	editor, err := auth.NewEditor(&cfg.Security)
	if err != nil {
		return fmt.Errorf("initialize editor auth: %w", err)
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (RATE_LIMIT_DISABLED=true)")
	}
	for _, origin := range cfg.Security.CORSOrigins {
		if origin == "*" {
			logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*); set explicit origins in production")
			break
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	wsHub := ws.NewHub()
	syncManager := sync.NewManager(db, helix.NewClient(&cfg.Twitch), cfg, wsHub)
	syncManager.SetOnSyncCompleted(func(r *sync.Result) {
		logging.Info().
			Str("sync_run", r.RunID).
			Str("status", string(r.Status)).
			Str("summary", r.Summary).
			Msg("Sync completed")
	})

	if cfg.Import.Enabled() {
		imp, closer, err := newImporter(cfg, db)
		if err != nil {
			return err
		}
		defer func() {
			if err := closer.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing import progress store")
			}
		}()
		tree.AddDataService(services.NewImportService(imp, cfg.Import.LegacyPath))
	}

	handler := api.NewHandler(db, syncManager, editor, cfg, wsHub)
	chiMW := api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
	router := api.NewRouter(handler, auth.NewMiddleware(editor), chiMW)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// A manual sync answers only when the run finishes.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddMessagingService(services.NewSyncService(syncManager))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var treeErr error
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
		treeErr = err
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Vodarchive stopped")
	return treeErr
}

// newImporter builds the legacy importer. Progress is kept in badger when
// IMPORT_PROGRESS_DIR is set so an interrupted import resumes after restart.
func newImporter(cfg *config.Config, db *database.DB) (*importer.Importer, io.Closer, error) {
	if cfg.Import.ProgressDir == "" {
		return importer.New(&cfg.Import, db, nil), closerFunc(func() error { return nil }), nil
	}

	progress, badgerDB, err := importer.OpenBadgerProgress(cfg.Import.ProgressDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open import progress store: %w", err)
	}
	logging.Info().Str("dir", cfg.Import.ProgressDir).Msg("Import progress persisted in badger")
	return importer.New(&cfg.Import, db, progress), badgerDB, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
