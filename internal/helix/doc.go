// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

/*
Package helix is the upstream client for the Twitch Helix REST API.

It covers the four calls the archive needs: the client-credentials token
exchange, the channel user lookup, and the two paginated collections (videos
by user, clips by broadcaster and time range).

# Resilience

Each request passes through a golang.org/x/time/rate limiter, a
sony/gobreaker circuit breaker and a per-request timeout. HTTP 429 responses
are retried with avast/retry-go, waiting as long as Retry-After or
Ratelimit-Reset asks (capped at one minute). Timeouts and other failures are
not retried; they surface to the caller with whatever was fetched so far.

# Pagination

Pager is a lazy, restartable walk over one collection:

	pager := client.VideoPager(helix.VideoQuery{UserID: id, Kind: models.VideoKindArchive})
	for batch, err := range pager.All(ctx) {
	    if err != nil {
	        return err
	    }
	    reconcile(batch)
	}

FetchClips splits a time range into windows of at most seven days and pages
each window independently. A failed window does not discard the others.

# Errors

Failures are typed: *AuthenticationError (token exchange failure or HTTP 401),
*ChannelNotFoundError (login resolves to nobody) and *UpstreamRequestError
(everything else). Match them with errors.As.
*/
package helix
