// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

/*
Package sync runs archive synchronization against the Helix API.

A run resolves credentials, fetches every video kind and the clips of a
time range, reconciles each fetched batch into the store, links clips to
their parent videos, and appends checkpoints. The Orchestrator implements
one run as a state machine; the Manager serializes runs, schedules the
automatic one, and broadcasts progress.

# Run Modes

Automatic runs fetch all videos of each kind and the clips created since
the clips checkpoint, minus SYNC_CLIP_OVERLAP:

	result, err := manager.TriggerSync(ctx)

Manual runs take a date range. Videos are filtered to it client-side,
clips are fetched in windows of SYNC_WINDOW, and every resource is capped
at 1 + SYNC_MAX_EXTRA_PAGES pages:

	window, err := sync.ParseDateRange("2024-01-01", "2024-01-31")
	result, err := manager.RunSync(ctx, window)

# Outcome

Stage failures never escape as errors. The Result carries:

  - Status: success, partial (reached the end with errors) or failed
    (credentials or channel could not be resolved)
  - Details: inserted/updated counts per kind, clips linked, error strings
  - Failures: the typed errors behind the strings

The only error returned by RunSync is ErrSyncInProgress.

# Error Taxonomy

  - ConfigurationError: credential fields missing, raised before any request
  - AuthenticationError: token exchange or a 401, fatal during credentials
  - ChannelNotFoundError: the channel login matched no user, fatal
  - UpstreamRequestError: any other failed request, per resource
  - RecordReconciliationError: one record could not be mapped, per record
  - LinkResolutionError: the link pass failed, checkpoints still recorded

Use errors.As on Result.Failures to inspect them, or ErrorType for a label.

# Thread Safety

Runs are serialized by a mutex held for the whole run. Concurrent requests
fail fast with ErrSyncInProgress rather than queueing.
*/
package sync
