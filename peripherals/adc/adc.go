// Package adc implements spec.md §4.I's ADC: ADMUX selects the channel and
// reference, ADCSRA/ADCSRB start a conversion and configure auto-trigger, a
// fixed prescaled delay elapses on the cycle queue, and the result — an
// external analog sample scaled against the selected reference — latches
// into ADCL/ADCH with the documented low-byte-first read lock.
//
// Grounded on peripherals/eeprom's register-write-arms-a-queue-entry shape;
// the external analog input is an IRQ node per spec.md §3's "sampled analog
// value provided by external IRQ from the front end, default 0", following
// peripherals/port's pattern of an external-world value arriving over a
// Node rather than a direct memory write.
package adc

import (
	"github.com/buserror/simavr-go/avr/interrupt"
	"github.com/buserror/simavr-go/avr/memory"
	"github.com/buserror/simavr-go/irq"
	"github.com/buserror/simavr-go/queue"
)

// Config collects one ADC controller's register map and timing.
type Config struct {
	Name string

	ADMUXAddr  uint16
	ADCSRAAddr uint16
	ADCSRBAddr uint16
	ADCLAddr   uint16
	ADCHAddr   uint16

	MUXMask   uint8 // ADMUX: channel-select bits
	REFSMask  uint8 // ADMUX: reference-select bits
	ADENBit   uint8 // ADCSRA: enable
	ADSCBit   uint8 // ADCSRA: start-conversion, self-clearing
	ADATEBit  uint8 // ADCSRA: auto-trigger enable
	ADIEBit   uint8 // ADCSRA: interrupt enable
	ADIFBit   uint8 // ADCSRA: interrupt flag, write-1-to-clear

	ChannelCount int // number of channels auto-trigger cycles through

	Vector int

	// CyclesPerConversion is the fixed prescaled conversion time (13 ADC
	// clocks for a normal conversion on real hardware; this package takes
	// the already-prescaled cycle count directly, the same simplification
	// peripherals/twi makes for its per-phase delay).
	CyclesPerConversion uint64

	// ReferenceMillivolts is the full-scale voltage (AVCC/internal/external,
	// selected by ADMUX's REFS bits) the external sample is scaled against.
	// Defaults to 5000 if left zero.
	ReferenceMillivolts uint32
}

// ADC is one ADC controller instance.
type ADC struct {
	name string
	cfg  Config

	sram  *memory.SRAM
	irqs  *interrupt.Controller
	queue *queue.Queue

	input *irq.Node // external front end raises this with a 0..0xFFFF sample

	cycleNow uint64
	pending  queue.Handle
	sample   uint32

	// latchedHigh and locked implement the low-byte-first read lock
	// spec.md §4.I requires: reading ADCL snapshots the high byte so a
	// conversion completing before the matching ADCH read can't tear the
	// 16-bit sample (real hardware buffers the pair behind a temporary
	// register the same way).
	latchedHigh uint8
	locked      bool
}

// New creates an ADC controller from cfg.
func New(cfg Config, sram *memory.SRAM, irqs *interrupt.Controller, q *queue.Queue) *ADC {
	a := &ADC{name: cfg.Name, cfg: cfg, sram: sram, irqs: irqs, queue: q}
	a.input = irq.NewNode(cfg.Name+".in", irq.Width32)

	irqs.RegisterVector(interrupt.Vector{Number: cfg.Vector, Name: cfg.Name + ".ADC", Sensitivity: interrupt.Edge})

	a.input.RegisterNotify(func(_ *irq.Node, value uint32, _ interface{}) {
		a.sample = value
	}, nil)

	sram.RegisterWrite(cfg.ADCSRAAddr, func(_ uint16, value, previous uint8) uint8 {
		return a.onControlWrite(value, previous)
	})

	sram.RegisterRead(cfg.ADCLAddr, func(_ uint16, current uint8) uint8 {
		a.latchedHigh = a.sram.Peek(a.cfg.ADCHAddr)
		a.locked = true
		return current
	})
	sram.RegisterRead(cfg.ADCHAddr, func(_ uint16, current uint8) uint8 {
		if a.locked {
			a.locked = false
			return a.latchedHigh
		}
		return current
	})

	return a
}

// Name implements peripheral.Peripheral.
func (a *ADC) Name() string { return a.name }

// Reset cancels any in-flight conversion and clears registers.
func (a *ADC) Reset() {
	if a.pending != 0 {
		a.queue.Cancel(a.pending)
		a.pending = 0
	}
	a.sram.Poke(a.cfg.ADCSRAAddr, 0)
	a.sram.Poke(a.cfg.ADCLAddr, 0)
	a.sram.Poke(a.cfg.ADCHAddr, 0)
	a.locked = false
	a.irqs.SetEnabled(a.cfg.Vector, false)
}

// Input exposes the node the external front end raises with each channel's
// sampled voltage, in millivolts, to be scaled against ReferenceMillivolts.
func (a *ADC) Input() *irq.Node { return a.input }

// RunOnce keeps cycleNow current.
func (a *ADC) RunOnce(cycle uint64) {
	if cycle > a.cycleNow {
		a.cycleNow = cycle
	}
}

func (a *ADC) onControlWrite(value, previous uint8) uint8 {
	a.irqs.SetEnabled(a.cfg.Vector, value&a.cfg.ADIEBit != 0)

	if value&a.cfg.ADIFBit != 0 {
		a.irqs.Acknowledge(a.cfg.Vector)
		value &^= a.cfg.ADIFBit
	} else if previous&a.cfg.ADIFBit != 0 {
		value |= a.cfg.ADIFBit // preserve a flag the caller didn't ask to clear
	}

	if value&a.cfg.ADENBit != 0 && value&a.cfg.ADSCBit != 0 && a.pending == 0 {
		a.start()
	}
	if value&a.cfg.ADENBit == 0 {
		value &^= a.cfg.ADSCBit
	}

	return value
}

func (a *ADC) start() {
	delay := a.cfg.CyclesPerConversion
	if delay == 0 {
		delay = 1
	}
	when := a.cycleNow + delay
	a.pending = a.queue.Schedule(a, func(now uint64) uint64 {
		if now > a.cycleNow {
			a.cycleNow = now
		}
		a.pending = 0
		a.complete()
		return 0
	}, when)
}

func (a *ADC) complete() {
	result := a.scale(a.sample)
	a.sram.Poke(a.cfg.ADCLAddr, uint8(result))
	a.sram.Poke(a.cfg.ADCHAddr, uint8(result>>8))
	a.sram.Poke(a.cfg.ADCSRAAddr, (a.sram.Peek(a.cfg.ADCSRAAddr)&^a.cfg.ADSCBit)|a.cfg.ADIFBit)
	a.irqs.Raise(a.cfg.Vector)

	if a.cfg.ChannelCount > 1 {
		mux := a.sram.Peek(a.cfg.ADMUXAddr)
		channel := (mux & a.cfg.MUXMask)
		channel = (channel + 1) % uint8(a.cfg.ChannelCount)
		a.sram.Poke(a.cfg.ADMUXAddr, (mux&^a.cfg.MUXMask)|channel)
	}

	adcsra := a.sram.Peek(a.cfg.ADCSRAAddr)
	if adcsra&a.cfg.ADENBit != 0 && adcsra&a.cfg.ADATEBit != 0 {
		a.sram.Poke(a.cfg.ADCSRAAddr, adcsra|a.cfg.ADSCBit)
		a.start()
	}
}

// scale maps a millivolt sample onto the ADC's 10-bit result against
// ReferenceMillivolts, saturating at 0x3FF for any sample at or above the
// reference.
func (a *ADC) scale(sampleMillivolts uint32) uint16 {
	ref := a.cfg.ReferenceMillivolts
	if ref == 0 {
		ref = 5000
	}
	if sampleMillivolts > ref {
		sampleMillivolts = ref
	}
	result := (sampleMillivolts * 0x3FF) / ref
	return uint16(result)
}
