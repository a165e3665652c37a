// Vodarchive - Stream VOD and Clip Archive Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vodarchive

package importer

import (
	"errors"
	"reflect"
	"testing"
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

func checkErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("error %v does not match %v", err, target)
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

func requireLen(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Fatalf("length: expected %d, got %d", want, got)
	}
}

func checkNil[T any](t *testing.T, p *T) {
	t.Helper()
	if p != nil {
		t.Errorf("expected nil, got %+v", *p)
	}
}

func requireNotNil[T any](t *testing.T, p *T) {
	t.Helper()
	if p == nil {
		t.Fatal("expected non-nil value, got nil")
	}
}
