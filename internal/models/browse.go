// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package models

import "time"

// Browse page size bounds.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// VideoFilter selects videos for browsing. Zero values mean "no filter".
// Results are always ordered newest first.
type VideoFilter struct {
	Search   string      // case-insensitive title substring
	Category string      // matches any single "|"-separated tag exactly
	Kinds    []VideoKind // any of
	From     *time.Time  // created_at >= From
	To       *time.Time  // created_at < To
	Limit    int
	Offset   int
}

// ClipFilter selects clips for browsing. Zero values mean "no filter".
type ClipFilter struct {
	Search       string
	Category     string
	VideoID      *int64
	FavoriteOnly bool
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// NormalizeLimit clamps a requested page size into [1, MaxPageLimit].
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultPageLimit
	case limit > MaxPageLimit:
		return MaxPageLimit
	default:
		return limit
	}
}

// Page is one page of browse results.
type Page[T any] struct {
	Items  []T   `json:"items"`
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// HasMore reports whether another page follows.
func (p *Page[T]) HasMore() bool {
	return int64(p.Offset+len(p.Items)) < p.Total
}
