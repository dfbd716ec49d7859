// Package logger is the simulator's logging facility. Log entries are
// accumulated in memory as "tag: message" lines and can be written out (or
// tailed) at any point — there is no background goroutine and no implicit
// flush, so a long-running simulation never blocks on logging.
//
// The core uses this package for the peripheral-warning fault class from
// spec.md §7: a peripheral that sees an access it can't service (an
// unimplemented I/O address, a reserved-bit write the variant table flags)
// logs a warning here and carries on, rather than halting the CPU.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	entries []string
)

// Log appends a single "tag: message" entry to the log.
func Log(tag string, message string) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, fmt.Sprintf("%s: %s", tag, message))
}

// Logf is a convenience wrapper around Log that formats message.
func Logf(tag string, format string, args ...interface{}) {
	Log(tag, fmt.Sprintf(format, args...))
}

// Write writes every accumulated log entry to w, one per line.
func Write(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	for _, e := range entries {
		fmt.Fprintf(w, "%s\n", e)
	}
}

// Tail writes the last n log entries to w, one per line. Asking for more
// entries than exist is not an error: Tail simply writes however many there
// are.
func Tail(w io.Writer, n int) {
	mu.Lock()
	defer mu.Unlock()

	if n > len(entries) {
		n = len(entries)
	}
	if n <= 0 {
		return
	}

	for _, e := range entries[len(entries)-n:] {
		fmt.Fprintf(w, "%s\n", e)
	}
}

// Clear empties the log. Intended for use between test runs.
func Clear() {
	mu.Lock()
	defer mu.Unlock()
	entries = nil
}

// String returns the entire log as a single string, as if written to a
// strings.Builder with Write.
func String() string {
	mu.Lock()
	defer mu.Unlock()
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e)
		b.WriteString("\n")
	}
	return b.String()
}
