// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

/*
orchestrator.go - Sync Run State Machine

One run walks these states in order:

	idle → resolving_credentials → fetching_videos → fetching_clips
	     → resolving_links → recording_checkpoint → done

and may end in failed from resolving_credentials only. Every later stage
records its failures in the Result and hands over to the next stage, so a
failed video kind never prevents the clip fetch.

Checkpoints:
  - automatic runs read the clips checkpoint to size the clip window and
    append "videos" and "clips" checkpoints for the stages that finished
    without a fetch or store error
  - manual runs never read a checkpoint and append "manual" once any
    video kind or clip window got through, even when others failed

Every appended checkpoint carries the instant the run started, so records
created while the run was in flight are picked up by the next one.
*/

//nolint:staticcheck // File documentation, not package doc
package sync

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/vodarchive/internal/config"
	"github.com/tomtom215/vodarchive/internal/database"
	"github.com/tomtom215/vodarchive/internal/helix"
	"github.com/tomtom215/vodarchive/internal/logging"
	"github.com/tomtom215/vodarchive/internal/metrics"
	"github.com/tomtom215/vodarchive/internal/models"
	"github.com/tomtom215/vodarchive/internal/models/twitch"
)

// Upstream is the part of the Helix client a sync run needs.
// Implemented by *helix.Client.
type Upstream interface {
	Token(ctx context.Context) (string, error)
	TokenSource() string
	ResolveChannelUser(ctx context.Context, login string) (*twitch.User, error)
	FetchVideos(ctx context.Context, q helix.VideoQuery, fn func([]twitch.Video) error) error
	FetchClips(ctx context.Context, q helix.ClipQuery, fn func(helix.Window, []twitch.Clip) error) error
}

// Store is the part of the database a sync run needs.
// Implemented by *database.DB.
type Store interface {
	ReconcileVideos(ctx context.Context, records []twitch.Video, fallbackKind models.VideoKind) (database.ReconcileResult, error)
	ReconcileClips(ctx context.Context, records []twitch.Clip) (database.ReconcileResult, error)
	ResolveLinks(ctx context.Context) (int, error)
	GetCheckpoint(ctx context.Context, kind string, policy database.CheckpointPolicy) (time.Time, error)
	RecordCheckpoint(ctx context.Context, kind string, instant time.Time) error
}

// Progress is one state transition, reported while a run is in flight.
type Progress struct {
	RunID   string  `json:"run_id"`
	Mode    Mode    `json:"mode"`
	State   State   `json:"state"`
	Details Details `json:"details"`
}

// Orchestrator executes sync runs. It holds no per-run state and is safe to
// share, but runs must be serialized by the caller (see Manager).
type Orchestrator struct {
	upstream Upstream
	store    Store
	twitch   *config.TwitchConfig
	cfg      *config.SyncConfig

	// onProgress, when set, is called on every state transition.
	onProgress func(Progress)

	now func() time.Time
}

// NewOrchestrator creates an orchestrator over the given upstream and store.
func NewOrchestrator(upstream Upstream, store Store, twitchCfg *config.TwitchConfig, syncCfg *config.SyncConfig) *Orchestrator {
	return &Orchestrator{
		upstream: upstream,
		store:    store,
		twitch:   twitchCfg,
		cfg:      syncCfg,
		now:      time.Now,
	}
}

// run is the per-run bookkeeping threaded through the stages.
type run struct {
	ctx     context.Context
	result  *Result
	start   time.Time
	userID  string
	videoOK bool
	clipOK  bool

	// Resources that finished without error, and clip batches stored.
	videoKindsDone int
	clipBatches    int
}

func (o *Orchestrator) transition(r *run, s State) {
	r.result.State = s
	logging.Ctx(r.ctx).Debug().Str("state", string(s)).Msg("Sync state")
	if o.onProgress != nil {
		details := r.result.Details
		details.Errors = append([]string(nil), details.Errors...)
		o.onProgress(Progress{RunID: r.result.RunID, Mode: r.result.Mode, State: s, Details: details})
	}
}

func (o *Orchestrator) fail(r *run, stage State, resource string, err error) {
	// Credential failures stay unwrapped: they are the run's only failure.
	var se *StageError
	if stage != StateResolvingCredentials && !errors.As(err, &se) {
		err = &StageError{Stage: stage, Resource: resource, Err: err}
	}
	metrics.RecordSyncError(string(stage), ErrorType(err))
	logging.Ctx(r.ctx).Warn().Err(err).Str("stage", string(stage)).Str("resource", resource).Msg("Sync stage error")
	r.result.addFailure(err)
}

// Run executes one sync. A nil window runs an automatic, checkpoint-driven
// sync; a non-nil window runs a manual sync over exactly that range.
//
// Run never returns an error: every failure is reported in the Result.
func (o *Orchestrator) Run(ctx context.Context, window *DateRange) *Result {
	runID := logging.NewSyncRunID()
	ctx = logging.ContextWithSyncRun(ctx, runID)

	start := o.now().UTC()
	r := &run{
		ctx:   ctx,
		start: start,
		result: &Result{
			RunID:     runID,
			Mode:      ModeAutomatic,
			State:     StateIdle,
			Range:     window,
			StartedAt: start,
		},
	}
	if window != nil {
		r.result.Mode = ModeManual
	}

	logger := logging.Ctx(ctx)
	logger.Info().Str("mode", string(r.result.Mode)).Msg("Sync started")

	final := StateDone
	if o.resolveCredentials(r) {
		o.fetchVideos(r, window)
		o.fetchClips(r, window)
		o.resolveLinks(r)
		o.recordCheckpoints(r, window)
	} else {
		final = StateFailed
	}

	elapsed := o.now().Sub(start)
	r.result.finish(final, elapsed)
	o.transition(r, final)

	metrics.RecordSyncOperation(string(r.result.Mode), string(r.result.Status), elapsed,
		r.result.Details.VideosAdded, r.result.Details.ClipsAdded)

	event := logger.Info()
	if r.result.Status != StatusSuccess {
		event = logger.Warn()
	}
	event.
		Str("status", string(r.result.Status)).
		Int("videos_added", r.result.Details.VideosAdded).
		Int("clips_added", r.result.Details.ClipsAdded).
		Int("links_resolved", r.result.Details.LinksResolved).
		Int("errors", len(r.result.Details.Errors)).
		Dur("duration", elapsed).
		Msg("Sync finished")

	return r.result
}

// resolveCredentials obtains a token and the channel's user id. Any failure
// here is fatal for the run.
func (o *Orchestrator) resolveCredentials(r *run) bool {
	o.transition(r, StateResolvingCredentials)

	if !o.twitch.IsConfigured() {
		o.fail(r, StateResolvingCredentials, "", &ConfigurationError{Missing: o.twitch.MissingFields()})
		return false
	}
	if _, err := o.upstream.Token(r.ctx); err != nil {
		o.fail(r, StateResolvingCredentials, "", err)
		return false
	}

	if o.twitch.UserID != "" {
		r.userID = o.twitch.UserID
		return true
	}
	user, err := o.upstream.ResolveChannelUser(r.ctx, o.twitch.Channel())
	if err != nil {
		o.fail(r, StateResolvingCredentials, "", err)
		return false
	}
	r.userID = user.ID
	logging.Ctx(r.ctx).Info().Str("user_id", user.ID).Str("channel", user.Login).Msg("Channel resolved")
	return true
}

// pageCap is the page limit for date-ranged fetches.
func (o *Orchestrator) pageCap() int {
	return 1 + o.cfg.MaxExtraPages
}

func (o *Orchestrator) fetchVideos(r *run, window *DateRange) {
	o.transition(r, StateFetchingVideos)
	r.videoOK = true

	for _, kind := range models.SyncedVideoKinds {
		q := helix.VideoQuery{
			UserID:   r.userID,
			Kind:     kind,
			PageSize: o.cfg.PageSize,
		}
		if window != nil {
			from, to := window.Start, window.End
			q.CreatedFrom, q.CreatedTo = &from, &to
			q.MaxPages = o.pageCap()
		}

		err := o.upstream.FetchVideos(r.ctx, q, func(batch []twitch.Video) error {
			res, err := o.store.ReconcileVideos(r.ctx, batch, kind)
			o.absorb(r, &res, true)
			return err
		})
		if err != nil {
			r.videoOK = false
			o.fail(r, StateFetchingVideos, q.Resource(), err)
			continue
		}
		r.videoKindsDone++
	}
}

func (o *Orchestrator) fetchClips(r *run, window *DateRange) {
	o.transition(r, StateFetchingClips)
	r.clipOK = true

	q := helix.ClipQuery{
		BroadcasterID: r.userID,
		Window:        o.cfg.Window,
		PageSize:      o.cfg.PageSize,
	}
	if window != nil {
		q.Start, q.End = window.Start, window.End
		q.MaxPages = o.pageCap()
	} else {
		since, err := o.store.GetCheckpoint(r.ctx, models.CheckpointClips, database.CheckpointPolicy{
			Lookback:      o.cfg.Lookback,
			ErrorLookback: o.cfg.ErrorLookback,
		})
		if err != nil {
			logging.Ctx(r.ctx).Warn().Err(err).Time("since", since).Msg("Clip checkpoint unreadable, using fallback window")
		}
		q.Start, q.End = since.Add(-o.cfg.ClipOverlap), r.start
	}

	err := o.upstream.FetchClips(r.ctx, q, func(_ helix.Window, batch []twitch.Clip) error {
		res, err := o.store.ReconcileClips(r.ctx, batch)
		o.absorb(r, &res, false)
		if err == nil {
			r.clipBatches++
		}
		return err
	})
	for _, e := range splitJoined(err) {
		r.clipOK = false
		o.fail(r, StateFetchingClips, "clips", e)
	}
}

// absorb folds one reconcile batch into the result.
func (o *Orchestrator) absorb(r *run, res *database.ReconcileResult, videos bool) {
	if videos {
		r.result.Details.VideosAdded += res.Inserted
		r.result.Details.VideosUpdated += res.Updated
	} else {
		r.result.Details.ClipsAdded += res.Inserted
		r.result.Details.ClipsUpdated += res.Updated
	}
	for _, recErr := range res.Errors {
		metrics.RecordSyncError(string(r.result.State), "record")
		r.result.addFailure(recErr)
	}
}

func (o *Orchestrator) resolveLinks(r *run) {
	o.transition(r, StateResolvingLinks)

	linked, err := o.store.ResolveLinks(r.ctx)
	if err != nil {
		o.fail(r, StateResolvingLinks, "", &LinkResolutionError{Err: err})
		return
	}
	r.result.Details.LinksResolved = linked
	metrics.SyncLinksResolved.Add(float64(linked))
}

func (o *Orchestrator) recordCheckpoints(r *run, window *DateRange) {
	o.transition(r, StateRecordingCheckpoint)

	var kinds []string
	switch {
	case window != nil:
		if r.videoKindsDone > 0 || r.clipOK || r.clipBatches > 0 {
			kinds = append(kinds, models.CheckpointManual)
		}
	default:
		if r.videoOK {
			kinds = append(kinds, models.CheckpointVideos)
		}
		if r.clipOK {
			kinds = append(kinds, models.CheckpointClips)
		}
	}

	for _, kind := range kinds {
		if err := o.store.RecordCheckpoint(r.ctx, kind, r.start); err != nil {
			o.fail(r, StateRecordingCheckpoint, kind, err)
			continue
		}
		r.result.Checkpoints = append(r.result.Checkpoints, kind)
	}
}
