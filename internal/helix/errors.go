// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package helix

import (
	"errors"
	"fmt"
	"net/http"

	gobreaker "github.com/sony/gobreaker/v2"
)

// AuthenticationError is returned when the token exchange fails or a
// token-bearing request is rejected with HTTP 401.
type AuthenticationError struct {
	StatusCode int // 0 when no response was received
	Body       string
	Err        error
}

func (e *AuthenticationError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("authentication failed: %v", e.Err)
	case e.Body != "":
		return fmt.Sprintf("authentication failed with status %d: %s", e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("authentication failed with status %d", e.StatusCode)
	}
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// ChannelNotFoundError is returned when a channel login resolves to no user.
type ChannelNotFoundError struct {
	Channel string
}

func (e *ChannelNotFoundError) Error() string {
	return fmt.Sprintf("channel %q not found", e.Channel)
}

// UpstreamRequestError is any failed collection or lookup request other than
// a 401: a non-200 status, a transport failure, an undecodable body, or a
// request rejected by the open circuit breaker.
type UpstreamRequestError struct {
	Resource   string
	StatusCode int // 0 when no response was received
	Body       string
	Err        error
}

func (e *UpstreamRequestError) Error() string {
	msg := e.Resource + " request failed"
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" with status %d", e.StatusCode)
	}
	switch {
	case e.Body != "":
		msg += ": " + e.Body
	case e.Err != nil:
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamRequestError) Unwrap() error { return e.Err }

// Timeout reports whether the request ran out of time.
func (e *UpstreamRequestError) Timeout() bool {
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// BreakerOpen reports whether the request was never sent because the
// circuit breaker rejected it.
func (e *UpstreamRequestError) BreakerOpen() bool {
	return errors.Is(e.Err, gobreaker.ErrOpenState) || errors.Is(e.Err, gobreaker.ErrTooManyRequests)
}

// clientFault reports whether err is a request the upstream answered with a
// 4xx other than 429. Those say nothing about upstream health and do not
// count against the circuit breaker.
func clientFault(err error) bool {
	var ue *UpstreamRequestError
	if errors.As(err, &ue) {
		return ue.StatusCode >= 400 && ue.StatusCode < 500 && ue.StatusCode != http.StatusTooManyRequests
	}
	var ae *AuthenticationError
	return errors.As(err, &ae) && ae.StatusCode != 0
}
