// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package linkid

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		url    string
		wantID string
		rule   string
	}{
		{"watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", "watch"},
		{"watch with extra params", "https://youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ", "watch"},
		{"watch with v not first", "https://www.youtube.com/watch?feature=share&v=a_b-c1234Zz", "a_b-c1234Zz", "watch"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ?si=abc", "dQw4w9WgXcQ", "short"},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", "embed"},
		{"live", "https://www.youtube.com/live/dQw4w9WgXcQ?feature=shared", "dQw4w9WgXcQ", "live"},
		{"mobile watch", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", "watch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, id, ok := Match(tt.url)
			if !ok {
				t.Fatalf("Match(%q) found no rule", tt.url)
			}
			if id != tt.wantID || rule != tt.rule {
				t.Errorf("Match(%q) = %q, %q; want %q, %q", tt.url, rule, id, tt.rule, tt.wantID)
			}
		})
	}
}

func TestExtractNoMatch(t *testing.T) {
	t.Parallel()

	for _, url := range []string{
		"",
		"https://www.twitch.tv/videos/123456",
		"https://www.youtube.com/watch?v=short",
		"https://www.youtube.com/channel/UC1234567890",
		"not a url",
	} {
		if id, ok := Extract(url); ok || id != "" {
			t.Errorf("Extract(%q) = %q, %v; want no match", url, id, ok)
		}
		if p := ExtractPtr(url); p != nil {
			t.Errorf("ExtractPtr(%q) = %q, want nil", url, *p)
		}
	}
}

func TestExtractIsIdempotentAndOrdered(t *testing.T) {
	t.Parallel()

	// A URL matching two shapes resolves by rule priority.
	url := "https://www.youtube.com/watch?v=AAAAAAAAAAA&list=https://youtu.be/BBBBBBBBBBB"
	first, ok := Extract(url)
	if !ok || first != "AAAAAAAAAAA" {
		t.Fatalf("Extract() = %q, %v; want AAAAAAAAAAA", first, ok)
	}

	for i := 0; i < 3; i++ {
		if again, ok := Extract(url); !ok || again != first {
			t.Errorf("Extract() run %d = %q, %v; want %q", i, again, ok, first)
		}
	}
}

func TestRulesOrder(t *testing.T) {
	t.Parallel()

	names := make([]string, 0)
	for _, r := range Rules() {
		names = append(names, r.Name)
	}
	if want := []string{"watch", "short", "embed", "live"}; !reflect.DeepEqual(names, want) {
		t.Errorf("rule order = %v, want %v", names, want)
	}

	// Mutating the copy leaves the rule set intact.
	rs := Rules()
	rs[0].Name = "changed"
	if got := Rules()[0].Name; got != "watch" {
		t.Errorf("Rules()[0].Name = %q after mutating a copy, want watch", got)
	}
}

func TestExtractPtr(t *testing.T) {
	t.Parallel()

	p := ExtractPtr("https://youtu.be/dQw4w9WgXcQ")
	if p == nil || *p != "dQw4w9WgXcQ" {
		t.Errorf("ExtractPtr() = %v, want dQw4w9WgXcQ", p)
	}
}
