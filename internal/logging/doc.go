// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

/*
Package logging provides the zerolog-based global logger used across Vodarchive.

Init is called once from main with values from config.LoggingConfig:

	logging.Init(logging.Config{
	    Level:     cfg.Logging.Level,
	    Format:    cfg.Logging.Format,
	    Caller:    cfg.Logging.Caller,
	    Timestamp: true,
	    File:      cfg.Logging.File,
	})
	defer logging.Close()

When File is set, JSON lines are also written to a lumberjack rotating file.

Sync runs carry a short run id in their context so every line of a run can be
grepped together:

	ctx = logging.ContextWithSyncRun(ctx, logging.NewSyncRunID())
	logging.Ctx(ctx).Info().Msg("Sync started")

NewSlogLogger bridges to log/slog for the suture supervisor tree.
*/
package logging
