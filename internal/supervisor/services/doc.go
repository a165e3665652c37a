// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

/*
Package services provides suture.Service wrappers for Vodarchive components.

Each wrapper turns a component's own lifecycle into Serve(ctx) error:

  - HTTPServerService: ListenAndServe plus Shutdown with a drain timeout
  - WebSocketHubService: websocket.Hub.RunWithContext
  - SyncService: sync.Manager Start and Stop around the schedule loop
  - ImportService: one legacy import, retried on failure, then
    suture.ErrDoNotRestart

A returned error makes suture restart the service with backoff. Returning
ctx.Err() after cancellation is a clean stop.
*/
package services
