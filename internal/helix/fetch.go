// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package helix

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/tomtom215/vodarchive/internal/logging"
	"github.com/tomtom215/vodarchive/internal/models"
	"github.com/tomtom215/vodarchive/internal/models/twitch"
)

// DefaultClipWindow is the widest span requested from the clips endpoint in
// one paginated query.
const DefaultClipWindow = 7 * 24 * time.Hour

// VideoQuery selects one video kind of one user.
//
// Helix returns videos newest first and has no date filter on this endpoint,
// so CreatedFrom/CreatedTo are applied to each batch here. Paging stops early
// once a batch ends before CreatedFrom.
type VideoQuery struct {
	UserID      string
	Kind        models.VideoKind // empty = all kinds
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	PageSize    int
	MaxPages    int // 0 = unlimited
}

// Resource names the query in errors and logs, e.g. "videos:archive".
func (q VideoQuery) Resource() string {
	if q.Kind == "" {
		return "videos"
	}
	return "videos:" + string(q.Kind)
}

// VideoPager returns a lazy pager over GET /videos.
func (c *Client) VideoPager(q VideoQuery) *Pager[twitch.Video] {
	params := url.Values{}
	params.Set("user_id", q.UserID)
	params.Set("first", strconv.Itoa(clampPageSize(q.PageSize)))
	if q.Kind != "" {
		params.Set("type", string(q.Kind))
	}
	return newPager[twitch.Video](c, "videos", q.Resource(), params, q.MaxPages)
}

// FetchVideos pages through q and hands every non-empty filtered batch to fn.
// An error from fn stops the fetch and is returned as is.
func (c *Client) FetchVideos(ctx context.Context, q VideoQuery, fn func([]twitch.Video) error) error {
	pager := c.VideoPager(q)
	for {
		batch, ok, err := pager.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		kept, reachedStart := filterVideos(batch, q.CreatedFrom, q.CreatedTo)
		if len(kept) > 0 {
			if err := fn(kept); err != nil {
				return err
			}
		}
		if reachedStart {
			logging.Debug().Str("resource", q.Resource()).Int("pages", pager.Pages()).Msg("Reached start of requested range")
			return nil
		}
	}
}

// filterVideos keeps records created in [from, to). Records whose timestamp
// does not parse are kept so the reconciler can report them. reachedStart is
// true when the batch's oldest parseable record is before from.
func filterVideos(batch []twitch.Video, from, to *time.Time) ([]twitch.Video, bool) {
	if from == nil && to == nil {
		return batch, false
	}
	kept := make([]twitch.Video, 0, len(batch))
	reachedStart := false
	for _, v := range batch {
		created, err := time.Parse(time.RFC3339, v.CreatedAt)
		if err != nil {
			kept = append(kept, v)
			continue
		}
		if from != nil && created.Before(*from) {
			reachedStart = true
			continue
		}
		if to != nil && !created.Before(*to) {
			continue
		}
		kept = append(kept, v)
	}
	return kept, reachedStart
}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) String() string {
	return fmt.Sprintf("%s..%s", formatTime(w.Start), formatTime(w.End))
}

// SplitWindows cuts [start, end) into consecutive windows of at most size.
// A 10 day range with a 7 day size yields a 7 day and a 3 day window.
func SplitWindows(start, end time.Time, size time.Duration) []Window {
	if size <= 0 {
		size = DefaultClipWindow
	}
	if !start.Before(end) {
		return nil
	}
	var windows []Window
	for cur := start; cur.Before(end); cur = cur.Add(size) {
		wEnd := cur.Add(size)
		if wEnd.After(end) {
			wEnd = end
		}
		windows = append(windows, Window{Start: cur, End: wEnd})
	}
	return windows
}

// ClipQuery selects the clips of one broadcaster created in [Start, End).
type ClipQuery struct {
	BroadcasterID string
	Start         time.Time
	End           time.Time
	Window        time.Duration // 0 = DefaultClipWindow
	PageSize      int
	MaxPages      int // per window; 0 = unlimited
}

// ClipPager returns a lazy pager over GET /clips for one window.
func (c *Client) ClipPager(broadcasterID string, w Window, pageSize, maxPages int) *Pager[twitch.Clip] {
	params := url.Values{}
	params.Set("broadcaster_id", broadcasterID)
	params.Set("first", strconv.Itoa(clampPageSize(pageSize)))
	params.Set("started_at", formatTime(w.Start))
	params.Set("ended_at", formatTime(w.End))
	return newPager[twitch.Clip](c, "clips", "clips", params, maxPages)
}

// FetchClips paginates every window of q independently and hands each
// non-empty batch to fn.
//
// A failed window is recorded and the next window is still attempted, so
// windows already fetched keep their results. Authentication failures and
// context cancellation stop the whole fetch. An error from fn stops the
// fetch too. The returned error joins every failure.
func (c *Client) FetchClips(ctx context.Context, q ClipQuery, fn func(Window, []twitch.Clip) error) error {
	var errs []error

	for _, w := range SplitWindows(q.Start, q.End, q.Window) {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		pager := c.ClipPager(q.BroadcasterID, w, q.PageSize, q.MaxPages)
		err := func() error {
			for {
				batch, ok, err := pager.Next(ctx)
				if err != nil {
					return &windowError{window: w, err: err}
				}
				if !ok {
					return nil
				}
				if err := fn(w, batch); err != nil {
					return &callbackError{err: err}
				}
			}
		}()
		if err == nil {
			continue
		}

		var cbErr *callbackError
		if errors.As(err, &cbErr) {
			errs = append(errs, cbErr.err)
			break
		}
		errs = append(errs, err)
		logging.Warn().Err(err).Str("window", w.String()).Msg("Clip window fetch failed")

		var authErr *AuthenticationError
		if errors.As(err, &authErr) || ctx.Err() != nil {
			break
		}
	}
	return errors.Join(errs...)
}

// windowError tags a clip fetch failure with its window.
type windowError struct {
	window Window
	err    error
}

func (e *windowError) Error() string {
	return fmt.Sprintf("clips window %s: %v", e.window, e.err)
}

func (e *windowError) Unwrap() error { return e.err }

type callbackError struct {
	err error
}

func (e *callbackError) Error() string { return e.err.Error() }
func (e *callbackError) Unwrap() error { return e.err }
