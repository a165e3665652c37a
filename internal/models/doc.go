// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

/*
Package models defines the data structures shared across Vodarchive.

Stored entities:

  - Video: an archived stream or upload, keyed by its upstream id
  - Clip: a highlight, with a natural parent key and a resolved parent reference
  - VideoLink: an alternate-platform URL owned by a Video
  - Checkpoint: one row of the append-only sync log

Upstream wire records live in the twitch subpackage; they are converted to
stored entities by the reconciler in the database package.

API envelopes (APIResponse, APIError) and editor request bodies are defined
here so both the api package and its tests share them.
*/
package models
