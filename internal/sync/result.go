// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package sync

import (
	"fmt"
	"strings"
	"time"
)

// State is a step of the sync run state machine.
type State string

const (
	StateIdle                 State = "idle"
	StateResolvingCredentials State = "resolving_credentials"
	StateFetchingVideos       State = "fetching_videos"
	StateFetchingClips        State = "fetching_clips"
	StateResolvingLinks       State = "resolving_links"
	StateRecordingCheckpoint  State = "recording_checkpoint"
	StateDone                 State = "done"
	StateFailed               State = "failed"
)

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Mode distinguishes checkpoint-driven runs from date-ranged runs.
type Mode string

const (
	ModeAutomatic Mode = "automatic"
	ModeManual    Mode = "manual"
)

// Status is the overall outcome of a run.
type Status string

const (
	// StatusSuccess means every stage completed without an error entry.
	StatusSuccess Status = "success"
	// StatusPartial means the run reached the end with at least one error entry.
	StatusPartial Status = "partial"
	// StatusFailed means credential or channel resolution never completed.
	StatusFailed Status = "failed"
)

// Details carries the per-kind counts of a run.
type Details struct {
	VideosAdded   int      `json:"videos_added"`
	VideosUpdated int      `json:"videos_updated"`
	ClipsAdded    int      `json:"clips_added"`
	ClipsUpdated  int      `json:"clips_updated"`
	LinksResolved int      `json:"links_resolved"`
	Errors        []string `json:"errors"`
}

// Result is the aggregate outcome of one sync run.
type Result struct {
	RunID string `json:"run_id"`
	Mode  Mode   `json:"mode"`

	// Success is false only when Status is StatusFailed.
	Success bool    `json:"success"`
	Status  Status  `json:"status"`
	State   State   `json:"state"`
	Summary string  `json:"summary"`
	Details Details `json:"details"`

	// Failures holds the typed errors behind Details.Errors, in the same order.
	Failures []error `json:"-"`

	Range       *DateRange    `json:"range,omitempty"`
	Checkpoints []string      `json:"checkpoints,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration_ns"`
}

func (r *Result) addFailure(err error) {
	r.Failures = append(r.Failures, err)
	r.Details.Errors = append(r.Details.Errors, err.Error())
}

// finish fixes Status, Success and Summary once the terminal state is known.
func (r *Result) finish(state State, elapsed time.Duration) {
	r.State = state
	r.Duration = elapsed
	if r.Details.Errors == nil {
		r.Details.Errors = []string{}
	}

	switch {
	case state == StateFailed:
		r.Status = StatusFailed
	case len(r.Failures) > 0:
		r.Status = StatusPartial
	default:
		r.Status = StatusSuccess
	}
	r.Success = r.Status != StatusFailed
	r.Summary = r.summarize()
}

func (r *Result) summarize() string {
	if r.Status == StatusFailed {
		reason := "unknown error"
		if len(r.Details.Errors) > 0 {
			reason = r.Details.Errors[len(r.Details.Errors)-1]
		}
		return "Sync failed: " + reason
	}

	var b strings.Builder
	if r.Status == StatusPartial {
		b.WriteString("Sync completed with errors")
	} else {
		b.WriteString("Sync completed")
	}
	fmt.Fprintf(&b, " in %.1fs: videos %d new, %d updated; clips %d new, %d updated; %d clips linked",
		r.Duration.Seconds(),
		r.Details.VideosAdded, r.Details.VideosUpdated,
		r.Details.ClipsAdded, r.Details.ClipsUpdated,
		r.Details.LinksResolved)
	if n := len(r.Details.Errors); n > 0 {
		fmt.Fprintf(&b, "; %d error(s)", n)
	}
	return b.String()
}
