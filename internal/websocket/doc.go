// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

/*
Package websocket pushes sync progress to connected browsers.

The sync manager publishes through Hub.BroadcastJSON; the API's /api/v1/ws
handler upgrades each connection with gorilla/websocket and registers a
Client with the hub.

Key Components:

  - Hub: owns the client set and fans out queued messages
  - Client: one connection with a read goroutine and a write goroutine
  - Message: the {"type", "data"} envelope every frame carries

Each client has two goroutines:
  - readPump: reads frames, answers application pings, unregisters on close
  - writePump: writes queued messages and sends protocol pings every 54s

Message Types:

  - sync_progress: a running sync moved to a new state
  - sync_completed: a sync finished; data is the full sync result
  - ping / pong: application-level keepalive initiated by the client

Example frame:

	{"type":"sync_progress","data":{"run_id":"…","mode":"automatic","state":"fetching_clips","details":{…}}}

Backpressure:

BroadcastJSON never blocks the caller. When the hub queue is full the
message is dropped and logged. When a single client's buffer is full that
client is disconnected; it can reconnect and read /api/v1/sync/status.

Lifecycle:

RunWithContext is run under the supervisor tree. On cancellation it closes
every client, which makes each writePump send a close frame.
*/
package websocket
