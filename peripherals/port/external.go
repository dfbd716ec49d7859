package port

import (
	"github.com/buserror/simavr-go/avr/interrupt"
	"github.com/buserror/simavr-go/avr/memory"
	"github.com/buserror/simavr-go/irq"
)

// External implements one AVR external interrupt line (INT0, INT1, ...)
// per spec.md §4.G: a 2-bit mode field (low-level, any-edge, falling,
// rising — AVR's documented ISCn1:ISCn0 encoding) selects when the pin's
// node transition raises the vector.
//
// Real variants often pack several External lines' flag/enable bits into
// one shared EIFR/EIMSK byte; as with PinChange, each instance here owns
// its own flag/enable address rather than aggregating bits from several
// peripherals into one shared register hook.
type External struct {
	name string

	node *irq.Node
	last bool

	controlAddr  uint16
	controlShift uint

	flagAddr   uint16
	flagBit    uint8
	enableAddr uint16
	enableBit  uint8

	vectorNumber int

	sram *memory.SRAM
	irqs *interrupt.Controller
}

// Mode constants match AVR's ISCn1:ISCn0 field.
const (
	ModeLowLevel = 0
	ModeAnyEdge  = 1
	ModeFalling  = 2
	ModeRising   = 3
)

// NewExternal creates an external interrupt line watching node, with its
// mode field at bits [controlShift+1:controlShift] of controlAddr.
func NewExternal(name string, node *irq.Node, controlAddr uint16, controlShift uint, flagAddr uint16, flagBit uint8, enableAddr uint16, enableBit uint8, vectorNumber int, sram *memory.SRAM, irqs *interrupt.Controller) *External {
	e := &External{
		name:         name,
		node:         node,
		last:         node.Value() != 0,
		controlAddr:  controlAddr,
		controlShift: controlShift,
		flagAddr:     flagAddr,
		flagBit:      flagBit,
		enableAddr:   enableAddr,
		enableBit:    enableBit,
		vectorNumber: vectorNumber,
		sram:         sram,
		irqs:         irqs,
	}

	irqs.RegisterVector(interrupt.Vector{Number: vectorNumber, Name: name, Sensitivity: interrupt.Edge})

	node.RegisterNotify(func(_ *irq.Node, value uint32, _ interface{}) {
		e.onChange(value != 0)
	}, nil)

	sram.RegisterWrite(flagAddr, func(_ uint16, value, previous uint8) uint8 {
		if value&flagBit != 0 {
			irqs.Acknowledge(vectorNumber)
		}
		return previous &^ (value & flagBit)
	})
	sram.RegisterWrite(enableAddr, func(_ uint16, value, _ uint8) uint8 {
		irqs.SetEnabled(vectorNumber, value&enableBit != 0)
		return value
	})

	return e
}

// Name implements peripheral.Peripheral.
func (e *External) Name() string { return e.name }

// Reset re-samples the watched node's current level and disables the
// vector.
func (e *External) Reset() {
	e.last = e.node.Value() != 0
	e.sram.Poke(e.flagAddr, e.sram.Peek(e.flagAddr)&^e.flagBit)
	e.irqs.SetEnabled(e.vectorNumber, false)
}

// RunOnce re-asserts a low-level-sensitive interrupt every step the
// condition still holds, matching spec.md §4.E's description of a
// level-sensitive vector being "re-raised each cycle while the condition
// holds" — edge modes need no per-step polling since they trigger directly
// from the node's notify callback.
func (e *External) RunOnce(cycle uint64) {
	if e.mode() == ModeLowLevel && !e.last {
		e.trigger()
	}
}

func (e *External) mode() int {
	ctrl := e.sram.Peek(e.controlAddr)
	return int((ctrl >> e.controlShift) & 0x3)
}

func (e *External) onChange(level bool) {
	prev := e.last
	e.last = level

	switch e.mode() {
	case ModeAnyEdge:
		if level != prev {
			e.trigger()
		}
	case ModeFalling:
		if prev && !level {
			e.trigger()
		}
	case ModeRising:
		if !prev && level {
			e.trigger()
		}
	}
}

func (e *External) trigger() {
	e.sram.Poke(e.flagAddr, e.sram.Peek(e.flagAddr)|e.flagBit)
	e.irqs.Raise(e.vectorNumber)
}
