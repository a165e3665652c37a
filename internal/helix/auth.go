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
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vodarchive/internal/logging"
	"github.com/tomtom215/vodarchive/internal/models/twitch"
)

// tokenExpirySkew refreshes a cached token slightly before it expires.
const tokenExpirySkew = time.Minute

// Token sources reported by TokenSource.
const (
	TokenSourceConfigured = "configured"
	TokenSourceExchanged  = "exchanged"
)

// tokenCache holds the process-scoped bearer token. Nothing is persisted.
type tokenCache struct {
	mu        sync.Mutex
	static    string
	token     string
	expiresAt time.Time // zero = no known expiry
}

func (tc *tokenCache) valid(now time.Time) (string, bool) {
	if tc.token == "" {
		return "", false
	}
	if !tc.expiresAt.IsZero() && !now.Before(tc.expiresAt.Add(-tokenExpirySkew)) {
		return "", false
	}
	return tc.token, true
}

// invalidate drops the exchanged token if it is still the one that failed.
func (tc *tokenCache) invalidate(token string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.token == token {
		tc.token = ""
		tc.expiresAt = time.Time{}
	}
}

// TokenSource reports whether requests use a configured token or one
// obtained through the client-credentials exchange.
func (c *Client) TokenSource() string {
	if c.tokens.static != "" {
		return TokenSourceConfigured
	}
	return TokenSourceExchanged
}

// Token returns a bearer token.
//
// A configured token is returned unchanged and never refreshed. Otherwise a
// cached exchanged token is reused until shortly before it expires, after
// which a new client-credentials exchange is performed. A failed exchange
// caches nothing.
func (c *Client) Token(ctx context.Context) (string, error) {
	if c.tokens.static != "" {
		return c.tokens.static, nil
	}

	c.tokens.mu.Lock()
	defer c.tokens.mu.Unlock()

	if tok, ok := c.tokens.valid(c.now()); ok {
		return tok, nil
	}

	resp, err := c.exchangeToken(ctx)
	if err != nil {
		return "", err
	}

	c.tokens.token = resp.AccessToken
	c.tokens.expiresAt = time.Time{}
	if resp.ExpiresIn > 0 {
		c.tokens.expiresAt = c.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	logging.Debug().Int64("expires_in", resp.ExpiresIn).Msg("Obtained app access token")
	return resp.AccessToken, nil
}

func (c *Client) exchangeToken(ctx context.Context) (*twitch.TokenResponse, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return nil, &AuthenticationError{Err: errors.New("client id and secret are required for the token exchange")}
	}

	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "client_credentials")
	encoded := form.Encode()

	reqCtx, cancel := context.WithTimeout(ctx, c.authTimeout)
	defer cancel()

	resp, err := c.doRequestWithRateLimit(reqCtx, "oauth2/token", func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.authURL, strings.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		var ue *UpstreamRequestError
		if errors.As(err, &ue) {
			return nil, &AuthenticationError{StatusCode: ue.StatusCode, Body: ue.Body}
		}
		return nil, &AuthenticationError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &AuthenticationError{StatusCode: resp.StatusCode, Body: readBodyForError(resp.Body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AuthenticationError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read token response: %w", err)}
	}
	var tr twitch.TokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, &AuthenticationError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode token response: %w", err)}
	}
	if tr.AccessToken == "" {
		return nil, &AuthenticationError{StatusCode: resp.StatusCode, Err: errors.New("token response has no access_token")}
	}
	return &tr, nil
}

// ResolveChannelUser looks up the user record of a channel login.
// It fails with *ChannelNotFoundError when the lookup returns no records and
// with *AuthenticationError on HTTP 401.
func (c *Client) ResolveChannelUser(ctx context.Context, login string) (*twitch.User, error) {
	params := url.Values{}
	params.Set("login", strings.ToLower(strings.TrimSpace(login)))

	body, err := c.get(ctx, "users", params, c.authTimeout)
	if err != nil {
		return nil, err
	}

	var resp twitch.Response[twitch.User]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &UpstreamRequestError{Resource: "users", StatusCode: http.StatusOK, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if len(resp.Data) == 0 || resp.Data[0].ID == "" {
		return nil, &ChannelNotFoundError{Channel: login}
	}
	return &resp.Data[0], nil
}

// ResolveChannelUserID is ResolveChannelUser returning only the numeric id.
func (c *Client) ResolveChannelUserID(ctx context.Context, login string) (string, error) {
	u, err := c.ResolveChannelUser(ctx, login)
	if err != nil {
		return "", err
	}
	return u.ID, nil
}
