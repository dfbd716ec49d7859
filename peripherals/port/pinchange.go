package port

import (
	"github.com/buserror/simavr-go/avr/interrupt"
	"github.com/buserror/simavr-go/avr/memory"
	"github.com/buserror/simavr-go/irq"
)

// PinChange implements an AVR pin-change interrupt group (spec.md §4.G):
// any logic transition on a masked-in pin, across however many Port pins
// are subscribed, sets the group's flag and raises its vector. Real AVR
// variants often share one PCIFR/PCICR byte across several pin-change
// groups; this type instead gives each group its own flag/mask/enable
// bytes, a deliberate simplification noted in DESIGN.md rather than
// building a multi-peripheral shared-register aggregator the spec does not
// otherwise require.
type PinChange struct {
	name string

	nodes []*irq.Node
	last  []bool

	maskAddr   uint16
	flagAddr   uint16
	flagBit    uint8
	enableAddr uint16
	enableBit  uint8

	vectorNumber int

	sram *memory.SRAM
	irqs *interrupt.Controller
}

// NewPinChange creates a pin-change group over nodes (typically some or all
// of one or more Port's Pins()), with mask bit i in the register at
// maskAddr gating nodes[i].
func NewPinChange(name string, nodes []*irq.Node, maskAddr, flagAddr uint16, flagBit uint8, enableAddr uint16, enableBit uint8, vectorNumber int, sram *memory.SRAM, irqs *interrupt.Controller) *PinChange {
	pc := &PinChange{
		name:         name,
		nodes:        nodes,
		last:         make([]bool, len(nodes)),
		maskAddr:     maskAddr,
		flagAddr:     flagAddr,
		flagBit:      flagBit,
		enableAddr:   enableAddr,
		enableBit:    enableBit,
		vectorNumber: vectorNumber,
		sram:         sram,
		irqs:         irqs,
	}

	irqs.RegisterVector(interrupt.Vector{Number: vectorNumber, Name: name, Sensitivity: interrupt.Edge})

	for i, n := range nodes {
		pc.last[i] = n.Value() != 0
		index := i
		n.RegisterNotify(func(_ *irq.Node, value uint32, _ interface{}) {
			pc.onPinChange(index, value != 0)
		}, nil)
	}

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

	return pc
}

// Name implements peripheral.Peripheral.
func (pc *PinChange) Name() string { return pc.name }

// Reset clears the mask and flag and disables the group's vector.
func (pc *PinChange) Reset() {
	for i, n := range pc.nodes {
		pc.last[i] = n.Value() != 0
	}
	pc.sram.Poke(pc.maskAddr, 0)
	pc.sram.Poke(pc.flagAddr, pc.sram.Peek(pc.flagAddr)&^pc.flagBit)
	pc.irqs.SetEnabled(pc.vectorNumber, false)
}

func (pc *PinChange) onPinChange(i int, level bool) {
	if pc.last[i] == level {
		return
	}
	pc.last[i] = level

	mask := pc.sram.Peek(pc.maskAddr)
	if mask&(1<<uint(i)) == 0 {
		return
	}
	pc.sram.Poke(pc.flagAddr, pc.sram.Peek(pc.flagAddr)|pc.flagBit)
	pc.irqs.Raise(pc.vectorNumber)
}
