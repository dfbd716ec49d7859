// Package port implements spec.md §4.G: an 8-bit GPIO port with the
// DDR/PORT/PIN register trio, pull-ups, and an IRQ node per pin that both
// output writes and external drivers raise. Pin-change and external
// interrupt generation build on top of a Port's pin nodes rather than on
// its registers directly (see PinChange and External in this package),
// since several ports typically share one PCIFR/PCICR register and the IRQ
// fabric is the natural place for that fan-in (spec.md §2.A).
//
// Grounded on the teacher's TIA input-port handling (hardware/riot/input)
// for the "register write recomputes an externally visible pin state"
// shape, adapted to AVR's three-register DDR/PORT/PIN convention instead of
// the RIOT's single SWCHA/SWCHB pair.
package port

import (
	"github.com/buserror/simavr-go/avr/memory"
	"github.com/buserror/simavr-go/irq"
)

// Port models one 8-bit GPIO bank.
type Port struct {
	name string

	ddrAddr, portAddr, pinAddr uint16
	sram                       *memory.SRAM

	pins *irq.Pool

	driven      [8]bool
	drivenLevel [8]bool
}

// New creates a Port named name (e.g. "portb") whose DDR/PORT/PIN registers
// live at the given addresses, and registers its read/write hooks with
// sram. Pin nodes are allocated in a pool named name too, so an attached
// trace writer sees names like "portb.0".."portb.7".
func New(name string, ddrAddr, portAddr, pinAddr uint16, sram *memory.SRAM) *Port {
	p := &Port{
		name:     name,
		ddrAddr:  ddrAddr,
		portAddr: portAddr,
		pinAddr:  pinAddr,
		sram:     sram,
		pins:     irq.Allocate(name, 0, 8, nil, irq.Width1),
	}

	sram.RegisterWrite(ddrAddr, func(_ uint16, value, _ uint8) uint8 {
		p.recompute(value, sram.Peek(portAddr))
		return value
	})
	sram.RegisterWrite(portAddr, func(_ uint16, value, _ uint8) uint8 {
		p.recompute(sram.Peek(ddrAddr), value)
		return value
	})
	sram.RegisterWrite(pinAddr, func(_ uint16, value, _ uint8) uint8 {
		// Writing PIN toggles the corresponding PORT bits (AVR convention);
		// the PIN register itself holds no state of its own.
		toggled := sram.Peek(portAddr) ^ value
		sram.Poke(portAddr, toggled)
		p.recompute(sram.Peek(ddrAddr), toggled)
		return sram.Peek(pinAddr)
	})
	sram.RegisterRead(pinAddr, func(_ uint16, _ uint8) uint8 {
		return p.sample(sram.Peek(ddrAddr), sram.Peek(portAddr))
	})

	return p
}

// Name implements peripheral.Peripheral.
func (p *Port) Name() string { return p.name }

// Reset clears DDR/PORT (all pins become high-impedance inputs, no
// pull-ups) and any external drive state, per spec.md §4.F.
func (p *Port) Reset() {
	p.sram.Poke(p.ddrAddr, 0)
	p.sram.Poke(p.portAddr, 0)
	for i := range p.driven {
		p.driven[i] = false
		p.drivenLevel[i] = false
	}
	p.recompute(0, 0)
}

// Pins returns the pool of 8 per-pin IRQ nodes, for external drivers and
// for the pin-change/external-interrupt controllers in this package to
// subscribe to.
func (p *Port) Pins() *irq.Pool { return p.pins }

// Drive forces pin to level from outside the CPU (an external stimulus:
// a button, a sensor, another chip's output), as long as the pin is
// currently configured as an input. Driving a pin configured as output is a
// no-op, matching real hardware contention being outside this simulator's
// analog model (spec.md §1 Non-goals).
func (p *Port) Drive(pin int, level bool) {
	ddr := p.sram.Peek(p.ddrAddr)
	if ddr&(1<<uint(pin)) != 0 {
		return
	}
	p.driven[pin] = true
	p.drivenLevel[pin] = level
	p.recompute(ddr, p.sram.Peek(p.portAddr))
}

// Release stops externally driving pin, returning it to pull-up/floating
// behaviour.
func (p *Port) Release(pin int) {
	p.driven[pin] = false
	p.recompute(p.sram.Peek(p.ddrAddr), p.sram.Peek(p.portAddr))
}

// recompute raises each pin's node to its currently sampled level and
// writes the live value through to the PIN register's backing byte so a
// Peek (debugger, trace) sees the same value a hooked Read would.
func (p *Port) recompute(ddr, out uint8) {
	sample := p.sample(ddr, out)
	p.sram.Poke(p.pinAddr, sample)
	for i := 0; i < 8; i++ {
		level := sample&(1<<uint(i)) != 0
		if level {
			p.pins.Node(i).Raise(1)
		} else {
			p.pins.Node(i).Raise(0)
		}
	}
}

// sample computes the live logic level of all 8 pins given the current
// DDR/PORT bytes: output pins read back PORT; input pins read the external
// driver if any, else the pull-up (DDR=0,PORT=1) reads 1, else 0.
func (p *Port) sample(ddr, out uint8) uint8 {
	var result uint8
	for i := 0; i < 8; i++ {
		bit := uint8(1) << uint(i)
		var level bool
		switch {
		case ddr&bit != 0:
			level = out&bit != 0
		case p.driven[i]:
			level = p.drivenLevel[i]
		case out&bit != 0:
			level = true // pull-up
		default:
			level = false
		}
		if level {
			result |= bit
		}
	}
	return result
}
