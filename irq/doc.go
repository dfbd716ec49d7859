// Package irq implements the simulator's internal signalling fabric:
// spec.md §3 "IRQ fabric" and §4.A. A Node is a named 32-bit value with a
// list of notify callbacks; Raise updates the value and invokes every
// registered callback synchronously, in registration order, before
// returning. Connecting two nodes means the source forwards every raise to
// the destination.
//
// This is the medium every peripheral in the simulator uses to talk to
// every other peripheral and to external observers (a VCD trace, a GUI pin
// display, a GDB stub): a timer's compare-match raises a node that the
// interrupt controller is watching; a port's pin raises a node that an
// external driver or a pin-change peripheral is watching. Nothing in this
// package knows about AVR semantics — it is pure plumbing, grounded on the
// same idea as a hardware backplane.
package irq
