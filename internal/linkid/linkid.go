// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

// Package linkid derives platform-native video identifiers from
// cross-platform link URLs.
//
// Rules are tried in a fixed order and the first match wins. Extraction is a
// pure function of the URL, so a stored identifier can always be re-derived
// and a repair pass that re-runs Extract over stored URLs is idempotent.
package linkid

import "regexp"

// Rule is one URL shape and the regexp whose first group is the identifier.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// rules is ordered by priority. Add new shapes at the end.
var rules = []Rule{
	{Name: "watch", Pattern: regexp.MustCompile(`youtube\.com/watch\?(?:[^#\s]*&)?v=([a-zA-Z0-9_-]{11})`)},
	{Name: "short", Pattern: regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]{11})`)},
	{Name: "embed", Pattern: regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]{11})`)},
	{Name: "live", Pattern: regexp.MustCompile(`youtube\.com/live/([a-zA-Z0-9_-]{11})`)},
}

// Rules returns a copy of the rule set in priority order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Extract returns the identifier of the first rule matching url.
func Extract(url string) (string, bool) {
	_, id, ok := Match(url)
	return id, ok
}

// Match is Extract that also reports which rule matched.
func Match(url string) (string, string, bool) {
	if url == "" {
		return "", "", false
	}
	for _, r := range rules {
		if m := r.Pattern.FindStringSubmatch(url); len(m) == 2 {
			return r.Name, m[1], true
		}
	}
	return "", "", false
}

// ExtractPtr is Extract shaped for nullable storage columns.
func ExtractPtr(url string) *string {
	id, ok := Extract(url)
	if !ok {
		return nil
	}
	return &id
}
