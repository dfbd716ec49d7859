package irq

// Width is a display hint for a Node's value; arithmetic on the value is
// always performed as plain uint32 regardless of Width.
type Width int

// Recognised node widths.
const (
	Width1  Width = 1
	Width8  Width = 8
	Width32 Width = 32
)

// Notify is called synchronously whenever a Node it is registered with is
// raised. owner is whatever opaque value was passed to RegisterNotify, and
// is handed back unchanged — peripherals use it to recover "self" without
// needing a closure per callback.
type Notify func(node *Node, value uint32, owner interface{})

type notifyEntry struct {
	callback Notify
	owner    interface{}
}

// Node is a single named signal in the fabric: a current value plus an
// ordered list of callbacks to invoke when that value changes (or, if
// Filtered is false, every time it is set at all).
type Node struct {
	// Name is the node's canonical name, e.g. "timer0.compa" or "portb.pin3".
	// Used only for display/trace purposes.
	Name string

	// Width is a display hint; see the Width type.
	Width Width

	// Filtered means Raise is a no-op (no callbacks invoked, value
	// unchanged) when the new value equals the current one. RaiseFloat
	// always delivers regardless of this flag.
	Filtered bool

	// Connected is false until the node has been the source or destination
	// of at least one Connect call, or had a notify callback registered
	// against it. Nodes that stay unconnected for their whole lifetime are
	// the "not-connected" flag from spec.md §3 — harmless, but worth being
	// able to report on (e.g. a variant's unused external interrupt pin).
	Connected bool

	value     uint32
	notifiers []notifyEntry
}

// NewNode creates a node with the given display name and width. It starts
// out at value zero and not connected to anything.
func NewNode(name string, width Width) *Node {
	return &Node{Name: name, Width: width}
}

// Value returns the node's last-raised value.
func (n *Node) Value() uint32 {
	return n.value
}

// RegisterNotify appends callback to n's notify list, to be invoked
// (along with owner) whenever n is raised. Registering a callback while a
// raise on n is in progress does not affect that in-progress raise — it
// takes effect starting with the next one, per spec.md §9.
func (n *Node) RegisterNotify(callback Notify, owner interface{}) {
	n.Connected = true
	n.notifiers = append(n.notifiers, notifyEntry{callback: callback, owner: owner})
}

// Raise sets the node's value to value and, unless Filtered is set and
// value is unchanged, invokes every registered notify callback in
// registration order. Callbacks run to completion before Raise returns; a
// callback that itself raises another node (or re-raises this one) is fully
// synchronous and completes before the outer Raise returns.
func (n *Node) Raise(value uint32) {
	if n.Filtered && value == n.value {
		return
	}
	n.raise(value)
}

// RaiseFloat forces delivery of value to every notify callback even if the
// node is Filtered and the value is unchanged. Named for the common case of
// a pin "floating" momentarily to the same logic level it already had but
// still needing observers to re-evaluate (e.g. a pin-change interrupt that
// must re-arm).
func (n *Node) RaiseFloat(value uint32) {
	n.raise(value)
}

func (n *Node) raise(value uint32) {
	n.value = value
	// copy the slice header up front: a callback that registers a new
	// notifier during this raise must not affect the delivery list for the
	// raise currently in progress (spec.md §9).
	current := n.notifiers
	for _, e := range current {
		e.callback(n, value, e.owner)
	}
}

// Connect arranges for every raise on src to be forwarded to dst, by
// registering a forwarding notify callback on src. The forwarded raise on
// dst always uses RaiseFloat semantics from the caller's point of view: dst
// sees every value src produces, never silently drops one because it
// happened to match dst's previous value (dst's own Filtered flag, if any,
// still applies — it is dst.Raise underneath).
func Connect(src, dst *Node) {
	dst.Connected = true
	src.RegisterNotify(func(_ *Node, value uint32, _ interface{}) {
		dst.Raise(value)
	}, nil)
}
