package queue

import "container/heap"

// Callback is invoked when its entry's due-cycle is reached. now is the
// current cycle counter (always ≥ the entry's due-cycle). The return value,
// if nonzero, is interpreted as the next due-cycle and the entry is
// re-armed at that cycle; a return of 0 means "don't reschedule", and the
// entry is dropped. Per spec.md §4.B, a re-armed due-cycle must be strictly
// greater than the one just serviced — Queue does not itself enforce this,
// since it does not know "now" for the rescheduled entry, but Pop's caller
// (the CPU's step loop) advances the cycle counter monotonically, making a
// non-increasing reschedule simply fire again on the very next Pop.
type Callback func(now uint64) (next uint64)

// Handle identifies a previously-scheduled entry so it can be cancelled or
// rescheduled later. A zero Handle is never issued by Schedule and is safe
// to hold as a "no entry" sentinel.
type Handle uint64

type entry struct {
	due      uint64
	seq      uint64 // insertion order, for stable tie-breaking
	handle   Handle
	owner    interface{}
	callback Callback
	canceled bool
	index    int // heap index, maintained by container/heap
}

// Queue is a cycle-indexed min-heap of pending callbacks. The zero value is
// not ready to use; call New.
type Queue struct {
	h       entryHeap
	bySeq   map[Handle]*entry
	nextSeq uint64
}

// New creates an empty Queue.
func New() *Queue {
	return &Queue{bySeq: make(map[Handle]*entry)}
}

// Schedule arranges for callback to run when the queue's cycle counter
// reaches when (see Pop). owner is an opaque value the peripheral that
// scheduled the entry can use to recognise it later (e.g. "which of my
// compare channels is this"); Queue never inspects it. Ties at the same due
// cycle are served in the order they were scheduled.
func (q *Queue) Schedule(owner interface{}, callback Callback, when uint64) Handle {
	q.nextSeq++
	e := &entry{
		due:      when,
		seq:      q.nextSeq,
		handle:   Handle(q.nextSeq),
		owner:    owner,
		callback: callback,
	}
	q.bySeq[e.handle] = e
	heap.Push(&q.h, e)
	return e.handle
}

// Cancel removes a previously-scheduled entry. Cancelling an already-fired
// or already-cancelled handle is a no-op. Implemented as a lazy delete (the
// spec permits either lazy-delete or pointer-keyed removal): the entry is
// marked canceled and skipped when it reaches the front of the heap,
// keeping Cancel itself O(log n) via the map lookup plus no heap mutation.
func (q *Queue) Cancel(h Handle) {
	e, ok := q.bySeq[h]
	if !ok {
		return
	}
	e.canceled = true
	delete(q.bySeq, h)
}

// Reschedule changes a pending entry's due-cycle. It is equivalent to
// Cancel followed by Schedule but preserves the original owner and
// callback, and the handle remains valid afterwards only in the sense that
// a fresh handle is returned — callers that reschedule should always use
// the returned handle from then on.
func (q *Queue) Reschedule(h Handle, when uint64) Handle {
	e, ok := q.bySeq[h]
	if !ok {
		return 0
	}
	owner, callback := e.owner, e.callback
	q.Cancel(h)
	return q.Schedule(owner, callback, when)
}

// Len returns the number of live (non-canceled) entries. It is O(n) in the
// presence of lazily-canceled entries still sitting in the heap, so it is
// meant for diagnostics and tests, not hot paths.
func (q *Queue) Len() int {
	n := 0
	for _, e := range q.h {
		if !e.canceled {
			n++
		}
	}
	return n
}

// NextDue reports the due-cycle of the earliest live entry, if any. The CPU
// uses this to decide how far it can advance the cycle counter while
// sleeping without missing an event (spec.md §4.D).
func (q *Queue) NextDue() (due uint64, ok bool) {
	for len(q.h) > 0 {
		top := q.h[0]
		if top.canceled {
			heap.Pop(&q.h)
			continue
		}
		return top.due, true
	}
	return 0, false
}

// Drain invokes every entry whose due-cycle is ≤ now, in due-cycle order
// (ties broken by insertion order), re-arming any entry whose callback
// returns a nonzero next due-cycle. It returns once the earliest remaining
// entry is due strictly after now.
func (q *Queue) Drain(now uint64) {
	for {
		top, ok := q.peek()
		if !ok || top.due > now {
			return
		}
		heap.Pop(&q.h)
		delete(q.bySeq, top.handle)

		next := top.callback(now)
		if next != 0 {
			q.Schedule(top.owner, top.callback, next)
		}
	}
}

func (q *Queue) peek() (*entry, bool) {
	for len(q.h) > 0 {
		top := q.h[0]
		if top.canceled {
			heap.Pop(&q.h)
			continue
		}
		return top, true
	}
	return nil, false
}

// entryHeap implements container/heap.Interface over *entry, ordered by due
// cycle with insertion sequence as the tiebreaker.
type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x interface{}) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}
