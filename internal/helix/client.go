// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package helix

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/vodarchive/internal/config"
	"github.com/tomtom215/vodarchive/internal/logging"
	"github.com/tomtom215/vodarchive/internal/metrics"
)

// maxErrorBodySize caps how much of a failed response is kept for the error.
const maxErrorBodySize = 64 * 1024

// maxRetryWait caps a server-requested 429 wait.
const maxRetryWait = time.Minute

func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return "(failed to read response body)"
	}
	if len(body) == maxErrorBodySize {
		return string(body) + "\n... (truncated)"
	}
	return strings.TrimSpace(string(body))
}

// Client talks to the Helix REST API and the OAuth token endpoint.
//
// Every request is paced by a token-bucket limiter, guarded by a circuit
// breaker, and bounded by a per-request timeout (AuthTimeout for token and
// user lookups, FetchTimeout for collection pages). HTTP 429 is retried up to
// RateLimitRetries times, honoring Retry-After or Ratelimit-Reset. No other
// failure is retried.
//
// Client is safe for concurrent use.
type Client struct {
	clientID     string
	clientSecret string
	apiURL       string
	authURL      string

	authTimeout  time.Duration
	fetchTimeout time.Duration

	httpClient     *http.Client
	limiter        *rate.Limiter
	cb             *gobreaker.CircuitBreaker[[]byte]
	retries        uint
	retryBaseDelay time.Duration

	tokens *tokenCache

	now func() time.Time
}

// NewClient builds a client from the credential bundle. The bundle is not
// validated here; callers check cfg.IsConfigured first.
func NewClient(cfg *config.TwitchConfig) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	burst := int(math.Ceil(rps))

	return &Client{
		clientID:       cfg.ClientID,
		clientSecret:   cfg.ClientSecret,
		apiURL:         strings.TrimRight(cfg.APIURL, "/"),
		authURL:        cfg.AuthURL,
		authTimeout:    cfg.AuthTimeout,
		fetchTimeout:   cfg.FetchTimeout,
		httpClient:     &http.Client{},
		limiter:        rate.NewLimiter(rate.Limit(rps), burst),
		cb:             newBreaker(),
		retries:        cfg.RateLimitRetries,
		retryBaseDelay: time.Second,
		tokens:         &tokenCache{static: cfg.AccessToken},
		now:            time.Now,
	}
}

// rateLimitedError marks a 429 so retry-go knows to try again.
type rateLimitedError struct {
	wait time.Duration
}

func (e *rateLimitedError) Error() string {
	return fmt.Sprintf("rate limited (HTTP 429), retry in %s", e.wait)
}

// retryAfter reads the wait the upstream asked for. Ratelimit-Reset is a unix
// timestamp; Retry-After is seconds.
func retryAfter(h http.Header, now time.Time) time.Duration {
	var wait time.Duration
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			wait = time.Duration(secs) * time.Second
		}
	}
	if wait == 0 {
		if v := h.Get("Ratelimit-Reset"); v != "" {
			if reset, err := strconv.ParseInt(v, 10, 64); err == nil {
				wait = time.Unix(reset, 0).Sub(now)
			}
		}
	}
	if wait < 0 {
		wait = 0
	}
	if wait > maxRetryWait {
		wait = maxRetryWait
	}
	return wait
}

// doRequestWithRateLimit sends req, retrying only on HTTP 429. newReq is
// called once per attempt since a request body cannot be replayed.
func (c *Client) doRequestWithRateLimit(ctx context.Context, endpoint string, newReq func() (*http.Request, error)) (*http.Response, error) {
	var resp *http.Response

	err := retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			req, err := newReq()
			if err != nil {
				return fmt.Errorf("failed to create request: %w", err)
			}

			start := time.Now()
			r, err := c.httpClient.Do(req)
			if err != nil {
				metrics.RecordHelixRequest(endpoint, 0, time.Since(start))
				return err
			}
			metrics.RecordHelixRequest(endpoint, r.StatusCode, time.Since(start))

			if r.StatusCode == http.StatusTooManyRequests {
				wait := retryAfter(r.Header, c.now())
				_ = r.Body.Close()
				return &rateLimitedError{wait: wait}
			}
			resp = r
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.retries+1),
		retry.LastErrorOnly(true),
		retry.Delay(c.retryBaseDelay),
		retry.MaxDelay(maxRetryWait),
		retry.RetryIf(func(err error) bool {
			var rl *rateLimitedError
			return errors.As(err, &rl)
		}),
		retry.DelayType(func(n uint, err error, cfg *retry.Config) time.Duration {
			var rl *rateLimitedError
			if errors.As(err, &rl) && rl.wait > 0 {
				return rl.wait
			}
			return retry.BackOffDelay(n, err, cfg)
		}),
		retry.OnRetry(func(n uint, err error) {
			logging.Warn().Str("endpoint", endpoint).Uint("attempt", n+1).Err(err).Msg("Upstream rate limited, retrying")
		}),
	)
	if err != nil {
		var rl *rateLimitedError
		if errors.As(err, &rl) {
			return nil, &UpstreamRequestError{Resource: endpoint, StatusCode: http.StatusTooManyRequests, Body: "rate limit retries exhausted"}
		}
		return nil, err
	}
	return resp, nil
}

// get performs an authenticated GET against the Helix API and returns the
// body of a 200 response.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, timeout time.Duration) ([]byte, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}
	reqURL := fmt.Sprintf("%s/%s?%s", c.apiURL, endpoint, params.Encode())

	body, err := c.execute(func() ([]byte, error) {
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		resp, err := c.doRequestWithRateLimit(reqCtx, endpoint, func() (*http.Request, error) {
			req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, reqURL, http.NoBody)
			if err != nil {
				return nil, err
			}
			req.Header.Set("Client-Id", c.clientID)
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set("Accept", "application/json")
			return req, nil
		})
		if err != nil {
			var ue *UpstreamRequestError
			if errors.As(err, &ue) {
				return nil, err
			}
			return nil, &UpstreamRequestError{Resource: endpoint, Err: err}
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
		case http.StatusUnauthorized:
			c.tokens.invalidate(token)
			return nil, &AuthenticationError{StatusCode: resp.StatusCode, Body: readBodyForError(resp.Body)}
		default:
			return nil, &UpstreamRequestError{Resource: endpoint, StatusCode: resp.StatusCode, Body: readBodyForError(resp.Body)}
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &UpstreamRequestError{Resource: endpoint, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read body: %w", err)}
		}
		return data, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &UpstreamRequestError{Resource: endpoint, Err: err}
		}
		return nil, err
	}
	return body, nil
}
