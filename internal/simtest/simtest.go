// Package simtest collects small assertion helpers shared by the test files
// throughout this module. It mirrors the flavour of assertion helper the
// teacher codebase uses in its own test package: no third-party assertion
// library, just thin wrappers around testing.T that read well at the call
// site.
package simtest

import (
	"reflect"
	"testing"
)

// Equate fails the test if got and want are not equal, as judged by
// reflect.DeepEqual.
func Equate(t *testing.T, got, want interface{}) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("not equal: got %#v, wanted %#v", got, want)
	}
}

// success is satisfied by the two shapes of "did this work" value used
// around the module: a plain bool, or an error (nil meaning success).
func success(v interface{}) bool {
	switch x := v.(type) {
	case bool:
		return x
	case error:
		return x == nil
	case nil:
		return true
	default:
		return false
	}
}

// ExpectSuccess fails the test if v indicates failure (false, or a non-nil
// error).
func ExpectSuccess(t *testing.T, v interface{}) {
	t.Helper()
	if !success(v) {
		t.Errorf("expected success, got %#v", v)
	}
}

// ExpectFailure fails the test if v indicates success (true, or a nil
// error).
func ExpectFailure(t *testing.T, v interface{}) {
	t.Helper()
	if success(v) {
		t.Errorf("expected failure, got %#v", v)
	}
}
