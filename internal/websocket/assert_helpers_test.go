// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package websocket

import (
	"reflect"
	"testing"

	"github.com/goccy/go-json"
)

// Test assertion helpers. t.Helper() makes failures point at the caller.

// checkEqual compares with reflect.DeepEqual, so got and want must share a type.
func checkEqual(t *testing.T, got, want interface{}) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

// checkNoError fails the test if err is not nil
func checkNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// checkError fails the test if err is nil
func checkError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func checkTrue(t *testing.T, cond bool, format string, args ...interface{}) {
	t.Helper()
	if !cond {
		t.Errorf(format, args...)
	}
}

func checkFalse(t *testing.T, cond bool, format string, args ...interface{}) {
	t.Helper()
	if cond {
		t.Errorf(format, args...)
	}
}

func requireTrue(t *testing.T, cond bool, format string, args ...interface{}) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

// checkLen checks a length obtained with len()
func checkLen(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("length: expected %d, got %d", want, got)
	}
}

// checkJSONEq compares two JSON documents ignoring formatting and key order.
func checkJSONEq(t *testing.T, got, want string) {
	t.Helper()
	var g, w interface{}
	if err := json.Unmarshal([]byte(got), &g); err != nil {
		t.Fatalf("invalid JSON %q: %v", got, err)
	}
	if err := json.Unmarshal([]byte(want), &w); err != nil {
		t.Fatalf("invalid expected JSON %q: %v", want, err)
	}
	if !reflect.DeepEqual(g, w) {
		t.Errorf("JSON mismatch:\n got  %s\n want %s", got, want)
	}
}
