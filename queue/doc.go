// Package queue implements the cycle-indexed timed-event scheduler from
// spec.md §3 ("Cycle queue entry") and §4.B: a min-heap of callbacks keyed
// by an absolute due-cycle, with ties broken by insertion order. Every
// deferred action in the simulator — a timer compare match, a UART bit
// shift, an ADC conversion finishing, a watchdog expiry — is one entry in
// this queue.
//
// The scheduling idea is grounded in the teacher codebase's
// hardware/tia/future package, which schedules a payload to run after a
// fixed number of ticks relative to "now". That package is a flat
// per-ticker delay list suited to a component that only ever schedules
// against its own local clock. spec.md needs something more general — a
// single global queue, shared by every peripheral, addressed by absolute
// cycle rather than relative delay, because the CPU advances one cycle
// counter for the whole machine and needs to find the single nearest
// pending event across every peripheral when it goes to sleep. That shape
// is a textbook min-heap, for which no third-party priority-queue
// implementation appears anywhere in the retrieval pack, so this package is
// the one place in the module built directly on the standard library's
// container/heap instead of an ecosystem dependency.
package queue
