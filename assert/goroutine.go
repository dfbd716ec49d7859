// Package assert holds small runtime assertions used to enforce the
// single-threaded ownership model described in spec.md §5: all peripheral
// state is owned by one simulation goroutine, and anything that touches it
// from another goroutine (a GUI producing pin-change events, say) must go
// through the lock-free ring buffer instead of calling into the core
// directly.
package assert

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
)

// GetGoRoutineID returns an identifier for the calling goroutine. The result
// is (a) different between goroutines and (b) consistent for a given
// goroutine for its lifetime. It is only ever useful for debugging or
// testing purposes — production code must never branch on it.
func GetGoRoutineID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	b = b[:bytes.IndexByte(b, ' ')]
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}

// OwnerCheck remembers the goroutine it was created on and can confirm that
// later calls happen on that same goroutine. The simulator keeps one of
// these and calls Check from Step, from queue callbacks, and from IRQ raise
// — all of which are defined by spec.md to run synchronously on the single
// simulation thread.
type OwnerCheck struct {
	owner uint64
}

// NewOwnerCheck captures the calling goroutine as the owner.
func NewOwnerCheck() *OwnerCheck {
	return &OwnerCheck{owner: GetGoRoutineID()}
}

// Check panics if called from a goroutine other than the one that created
// oc. This is a programmer-error assertion, not a recoverable condition:
// cross-goroutine access to simulator state is always a bug in the caller,
// never an expected runtime outcome.
func (oc *OwnerCheck) Check() {
	if id := GetGoRoutineID(); id != oc.owner {
		panic(fmt.Sprintf("simulator state accessed from goroutine %d, owned by goroutine %d", id, oc.owner))
	}
}
