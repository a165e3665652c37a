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

// DateLayout is the calendar date format accepted for manual ranges.
const DateLayout = "2006-01-02"

// DateRange is a half-open UTC interval [Start, End).
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r DateRange) String() string {
	return r.Start.Format(time.RFC3339) + ".." + r.End.Format(time.RFC3339)
}

// ParseDateRange parses two calendar dates into a range. The end date is
// inclusive, so the range ends at midnight after it. Both dates empty yields
// nil (an automatic run); exactly one empty is an error.
func ParseDateRange(start, end string) (*DateRange, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, fmt.Errorf("%w: start_date and end_date must be given together", ErrInvalidDateRange)
	}

	s, err := time.ParseInLocation(DateLayout, start, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date %q: expected YYYY-MM-DD", ErrInvalidDateRange, start)
	}
	e, err := time.ParseInLocation(DateLayout, end, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: end_date %q: expected YYYY-MM-DD", ErrInvalidDateRange, end)
	}
	if e.Before(s) {
		return nil, fmt.Errorf("%w: start_date %s is after end_date %s", ErrInvalidDateRange, start, end)
	}
	return &DateRange{Start: s, End: e.AddDate(0, 0, 1)}, nil
}
