// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package helix

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vodarchive/internal/metrics"
	"github.com/tomtom215/vodarchive/internal/models/twitch"
)

// MaxPageSize is the largest "first" value Helix accepts.
const MaxPageSize = 100

// Pager walks one cursor-paginated collection lazily, one request per Next.
//
// The sequence ends when the upstream returns no cursor, returns the cursor it
// was just given, returns an empty batch, or when MaxPages pages have been
// read (0 = unlimited). The first error also ends it. Reset restarts from the
// first page with the same parameters.
type Pager[T any] struct {
	client   *Client
	endpoint string
	resource string
	params   url.Values
	maxPages int

	cursor string
	pages  int
	done   bool
}

func newPager[T any](c *Client, endpoint, resource string, params url.Values, maxPages int) *Pager[T] {
	return &Pager[T]{
		client:   c,
		endpoint: endpoint,
		resource: resource,
		params:   params,
		maxPages: maxPages,
	}
}

// Next fetches the next batch. ok is false once the sequence is exhausted.
func (p *Pager[T]) Next(ctx context.Context) (batch []T, ok bool, err error) {
	if p.done {
		return nil, false, nil
	}
	if p.maxPages > 0 && p.pages >= p.maxPages {
		p.done = true
		return nil, false, nil
	}

	params := cloneValues(p.params)
	if p.cursor != "" {
		params.Set("after", p.cursor)
	}

	body, err := p.client.get(ctx, p.endpoint, params, p.client.fetchTimeout)
	if err != nil {
		p.done = true
		var ue *UpstreamRequestError
		if errors.As(err, &ue) {
			ue.Resource = p.resource
		}
		return nil, false, err
	}

	var resp twitch.Response[T]
	if err := json.Unmarshal(body, &resp); err != nil {
		p.done = true
		return nil, false, &UpstreamRequestError{Resource: p.resource, StatusCode: http.StatusOK, Err: fmt.Errorf("failed to decode page: %w", err)}
	}

	p.pages++
	metrics.HelixPagesFetched.WithLabelValues(p.endpoint).Inc()

	if len(resp.Data) == 0 {
		p.done = true
		return nil, false, nil
	}

	next := resp.Pagination.Cursor
	if next == "" || next == p.cursor {
		p.done = true
	}
	p.cursor = next
	return resp.Data, true, nil
}

// All adapts the pager to a range-over-func sequence. Iteration stops after
// the first error is yielded.
//
//	for batch, err := range pager.All(ctx) { ... }
func (p *Pager[T]) All(ctx context.Context) iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		for {
			batch, ok, err := p.Next(ctx)
			if err != nil {
				yield(nil, err)
				return
			}
			if !ok || !yield(batch, nil) {
				return
			}
		}
	}
}

// Pages returns how many pages have been read since the last Reset.
func (p *Pager[T]) Pages() int { return p.pages }

// Reset rewinds to the first page.
func (p *Pager[T]) Reset() {
	p.cursor = ""
	p.pages = 0
	p.done = false
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v)+1)
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

func clampPageSize(n int) int {
	switch {
	case n <= 0, n > MaxPageSize:
		return MaxPageSize
	default:
		return n
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
