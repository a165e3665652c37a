// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package importer

import (
	"fmt"
	"time"
)

// Legacy table names, in import order.
const (
	TableVideos     = "vods"
	TableClips      = "clips"
	TableLinks      = "youtube_links"
	TableCheckpoint = "sync_log"
)

// Tables lists the legacy tables in the order they are imported.
var Tables = []string{TableVideos, TableClips, TableLinks, TableCheckpoint}

// TableStats counts the outcome of every row read from one legacy table.
type TableStats struct {
	Total    int64 `json:"total"`
	Read     int64 `json:"read"`
	Added    int64 `json:"added"`
	Existing int64 `json:"existing"`
	Failed   int64 `json:"failed"`
	LastID   int64 `json:"last_id"`
}

// Stats is the outcome of one import.
type Stats struct {
	Tables    map[string]*TableStats `json:"tables"`
	Linked    int                    `json:"linked"`
	Errors    []string               `json:"errors"`
	Resumed   bool                   `json:"resumed"`
	StartTime time.Time              `json:"start_time"`
	EndTime   time.Time              `json:"end_time"`
}

func newStats() *Stats {
	s := &Stats{Tables: make(map[string]*TableStats, len(Tables)), Errors: []string{}}
	for _, t := range Tables {
		s.Tables[t] = &TableStats{}
	}
	return s
}

// Duration returns the elapsed import time.
func (s *Stats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

func (s *Stats) String() string {
	v, c, l, k := s.Tables[TableVideos], s.Tables[TableClips], s.Tables[TableLinks], s.Tables[TableCheckpoint]
	return fmt.Sprintf("videos %d/%d, clips %d/%d, links %d/%d, checkpoints %d/%d added, %d clips linked, %d error(s)",
		v.Added, v.Read, c.Added, c.Read, l.Added, l.Read, k.Added, k.Read, s.Linked, len(s.Errors))
}

// Progress is the resumable position of an import.
type Progress struct {
	// LastIDs maps legacy table name to the last row id fully processed.
	LastIDs   map[string]int64 `json:"last_ids"`
	Source    string           `json:"source"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// LegacyVideo is one vods row.
type LegacyVideo struct {
	ID           int64
	TwitchID     string
	Title        string
	Category     string
	URL          string
	CreatedAt    string
	Kind         string
	Duration     *string
	ViewCount    *int64
	GameName     *string
	ThumbnailURL *string
}

// LegacyClip is one clips row.
type LegacyClip struct {
	ID            int64
	TwitchID      string
	Title         string
	Category      string
	URL           string
	CreatedAt     string
	VideoTwitchID *string
	ThumbnailURL  *string
	Duration      *float64
	ViewCount     *int64
	GameName      *string
	CreatorName   *string
	IsFavorite    bool
}

// LegacyLink is one youtube_links row joined to its owner's twitch_id.
type LegacyLink struct {
	ID            int64
	VideoTwitchID string // empty when the owning vods row is gone
	URL           string
	Title         string
}

// LegacyCheckpoint is one sync_log row.
type LegacyCheckpoint struct {
	ID           int64
	Kind         string
	LastSyncTime string
	CreatedAt    string
}
