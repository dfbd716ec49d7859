// Package usi implements the ATtiny-style Universal Serial Interface in its
// software-clocked mode: writing USICR with the clock-strobe bit toggled
// shifts USIDR left by one bit, counts USISR's 4-bit counter up by one, and
// sets the overflow flag once the counter wraps from 15 back to 0 (sixteen
// strobes, i.e. eight clock edges at the SPI-equivalent shift rate).
//
// Unlike uart/spi/eeprom's queue-scheduled completions, USI's software-clock
// mode has no independent timing of its own — each shift is synchronous with
// the register write that requests it, the same way the teacher's
// hardware/memory bus reads and writes are synchronous with the CPU step
// that issues them. Grounded on peripherals/spi's shift-register-plus-vector
// shape, generalised to USI's explicit bit counter instead of a fixed
// whole-byte delay.
package usi

import (
	"github.com/buserror/simavr-go/avr/interrupt"
	"github.com/buserror/simavr-go/avr/memory"
	"github.com/buserror/simavr-go/irq"
)

// Config collects one USI controller's register map.
type Config struct {
	Name string

	USIDRAddr uint16
	USISRAddr uint16
	USICRAddr uint16

	USIOIFBit  uint8 // USISR: counter-overflow flag
	USICNTMask uint8 // USISR: 4-bit counter field
	USICLKBit  uint8 // USICR: clock strobe source select (software mode when set with USICS==0)
	USITCBit   uint8 // USICR: toggle-clock / software strobe, write-1 edge-triggers a shift
	USIOIEBit  uint8 // USICR: overflow-interrupt enable

	Vector int
}

// USI is one USI controller instance.
type USI struct {
	name string
	cfg  Config

	sram *memory.SRAM
	irqs *interrupt.Controller

	output *irq.Node // carries the shifted-out bit (USIDR's MSB before each shift)
	input  *irq.Node // an attached peripheral raises this to supply the next incoming bit

	nextBit uint32
}

// New creates a USI controller from cfg.
func New(cfg Config, sram *memory.SRAM, irqs *interrupt.Controller) *USI {
	u := &USI{name: cfg.Name, cfg: cfg, sram: sram, irqs: irqs}
	u.output = irq.NewNode(cfg.Name+".out", irq.Width1)
	u.input = irq.NewNode(cfg.Name+".in", irq.Width1)

	irqs.RegisterVector(interrupt.Vector{Number: cfg.Vector, Name: cfg.Name + ".OVF", Sensitivity: interrupt.Edge})

	u.input.RegisterNotify(func(_ *irq.Node, value uint32, _ interface{}) {
		u.nextBit = value & 1
	}, nil)

	var lastTC uint8
	sram.RegisterWrite(cfg.USICRAddr, func(_ uint16, value, previous uint8) uint8 {
		irqs.SetEnabled(cfg.Vector, value&cfg.USIOIEBit != 0)
		rising := value&cfg.USITCBit != 0 && lastTC == 0
		lastTC = value & cfg.USITCBit
		if rising {
			u.shift()
		}
		return value
	})
	sram.RegisterWrite(cfg.USISRAddr, func(_ uint16, value, previous uint8) uint8 {
		if value&cfg.USIOIFBit != 0 {
			irqs.Acknowledge(cfg.Vector)
		}
		// the counter field is freely writable (firmware pre-loads it to
		// control how many strobes remain before overflow)
		return value
	})

	return u
}

// Name implements peripheral.Peripheral.
func (u *USI) Name() string { return u.name }

// Reset clears registers and the disables the overflow vector.
func (u *USI) Reset() {
	u.sram.Poke(u.cfg.USIDRAddr, 0)
	u.sram.Poke(u.cfg.USISRAddr, 0)
	u.sram.Poke(u.cfg.USICRAddr, 0)
	u.irqs.SetEnabled(u.cfg.Vector, false)
}

// Output exposes the node carrying each shifted-out bit.
func (u *USI) Output() *irq.Node { return u.output }

// Input is the node an attached peripheral raises to supply the next bit to
// shift in.
func (u *USI) Input() *irq.Node { return u.input }

func (u *USI) shift() {
	dr := u.sram.Peek(u.cfg.USIDRAddr)
	outBit := (dr >> 7) & 1
	u.output.Raise(uint32(outBit))

	dr = dr<<1 | uint8(u.nextBit)
	u.sram.Poke(u.cfg.USIDRAddr, dr)

	sr := u.sram.Peek(u.cfg.USISRAddr)
	count := (sr & u.cfg.USICNTMask) + 1
	overflowed := count&^u.cfg.USICNTMask != 0 // carried out of the counter field
	count &= u.cfg.USICNTMask
	sr = (sr &^ u.cfg.USICNTMask) | count
	if overflowed {
		sr |= u.cfg.USIOIFBit
		u.irqs.Raise(u.cfg.Vector)
	}
	u.sram.Poke(u.cfg.USISRAddr, sr)
}
