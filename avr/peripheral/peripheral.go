// Package peripheral defines the capability set every memory-mapped
// peripheral implements (spec.md §4.F) and a Registry that owns them in
// registration order, so reset fires in the order peripherals were added to
// the simulator, matching spec.md §3's "Peripheral" lifecycle description.
//
// Grounded on the teacher's hardware.VCS wiring pattern of owning a fixed
// list of chips and calling each one's Reset in turn
// (hardware/instance/instance.go's shared-Instance plumbing plays the same
// role spec.md asks variant construction to play here), generalised from a
// fixed two-chip list to an open registry since the AVR peripheral set
// varies per variant.
package peripheral

// Peripheral is the minimal capability set spec.md §4.F requires: every
// peripheral resets, and most also want a chance to run independent of any
// I/O access (RunOnce, for polling-style work a queue callback doesn't suit)
// and to answer out-of-band control requests (Ioctl) the way simavr's
// peripherals are themselves controlled by the simulator around them. Read
// and write hooks are registered directly with memory.SRAM rather than
// routed through this interface, since per-address hooks are a better match
// for AVR's disjoint register ranges than one wide per-peripheral dispatch.
type Peripheral interface {
	// Name returns the peripheral's canonical name, used in logging and in
	// IRQ node naming.
	Name() string

	// Reset restores the peripheral to its post power-on-reset state,
	// including re-establishing the variant's documented default register
	// values.
	Reset()
}

// RunOncer is implemented by peripherals that need a per-step hook
// independent of any scheduled queue entry or I/O access — for example a
// port sampling an externally driven pin every step.
type RunOncer interface {
	RunOnce(cycle uint64)
}

// Ioctler is implemented by peripherals that accept out-of-band control
// requests, the Go analogue of simavr's ioctl-style peripheral control path
// (e.g. forcing ADC input, injecting a UART byte from outside the fabric).
type Ioctler interface {
	Ioctl(request string, data interface{}) (interface{}, error)
}

// Registry owns the peripherals attached to a simulator instance and resets
// them in registration order.
type Registry struct {
	peripherals []Peripheral
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds p to the registry. Peripherals should be registered in the
// order the variant descriptor lists them, since Reset preserves that order.
func (r *Registry) Register(p Peripheral) {
	r.peripherals = append(r.peripherals, p)
}

// All returns every registered peripheral, in registration order.
func (r *Registry) All() []Peripheral {
	return r.peripherals
}

// Reset resets every registered peripheral in registration order (spec.md
// §4.F).
func (r *Registry) Reset() {
	for _, p := range r.peripherals {
		p.Reset()
	}
}

// RunOnce invokes RunOnce on every peripheral that implements RunOncer, in
// registration order, once per CPU step.
func (r *Registry) RunOnce(cycle uint64) {
	for _, p := range r.peripherals {
		if ro, ok := p.(RunOncer); ok {
			ro.RunOnce(cycle)
		}
	}
}

// Find returns the registered peripheral with the given name, or nil.
func (r *Registry) Find(name string) Peripheral {
	for _, p := range r.peripherals {
		if p.Name() == name {
			return p
		}
	}
	return nil
}
