// Package timer implements spec.md §4.H: an 8-bit AVR timer/counter with a
// prescaled clock, compare channels A/B, overflow, and the Normal/CTC/Fast
// PWM/Phase-Correct waveform generation modes. Grounded on the teacher's
// tia/polycounter (hardware/tia/phaseclock and polycounter) for the "a
// divider drives a counter, and the counter's register file is recomputed
// lazily against the divider" shape, adapted from the TIA's fixed
// single-purpose clock divider to AVR's selectable prescaler menu and
// compare-match semantics.
package timer

import (
	"github.com/buserror/simavr-go/avr/interrupt"
	"github.com/buserror/simavr-go/avr/memory"
	"github.com/buserror/simavr-go/irq"
	"github.com/buserror/simavr-go/queue"
)

// Mode is the waveform generation mode selected by WGMn bits.
type Mode int

const (
	Normal Mode = iota
	CTC
	FastPWM
	PhaseCorrect
)

// Prescale is the clock-select menu shared by all 8-bit AVR timers (the
// "small menu including external" spec.md §4.H names). 0 means the timer
// clock is stopped.
var Prescale = [...]uint64{0, 1, 8, 64, 256, 1024}

// Timer is one 8-bit timer/counter instance (e.g. Timer0 or Timer2 on an
// ATmega328P).
type Timer struct {
	name string

	tcntAddr        uint16
	ocrAAddr        uint16
	ocrBAddr        uint16
	tccrAAddr       uint16
	tccrBAddr       uint16
	timskAddr       uint16
	tifrAddr        uint16
	overflowBit     uint8
	compareABit     uint8
	compareBBit     uint8
	overflowVector  int
	compareAVector  int
	compareBVector  int

	sram  *memory.SRAM
	irqs  *interrupt.Controller
	queue *queue.Queue

	compareA *irq.Node
	compareB *irq.Node
	overflow *irq.Node

	handle      queue.Handle
	cycleNow    uint64 // this timer's best estimate of the current absolute cycle count
	prescaleDiv uint64
}

// Config collects a Timer's register map and vector numbers, since every
// 8-bit AVR timer shares the same behaviour but differs in address/bit
// assignment between variants and between Timer0/Timer2 on the same part.
type Config struct {
	Name string

	TCNTAddr, OCRAAddr, OCRBAddr uint16
	TCCRAAddr, TCCRBAddr         uint16
	TIMSKAddr, TIFRAddr          uint16

	OverflowBit, CompareABit, CompareBBit uint8
	OverflowVector, CompareAVector, CompareBVector int
}

// New creates a Timer from cfg, wired to sram's I/O hooks, irqs' vector
// table and q's cycle queue.
func New(cfg Config, sram *memory.SRAM, irqs *interrupt.Controller, q *queue.Queue) *Timer {
	t := &Timer{
		name:           cfg.Name,
		tcntAddr:       cfg.TCNTAddr,
		ocrAAddr:       cfg.OCRAAddr,
		ocrBAddr:       cfg.OCRBAddr,
		tccrAAddr:      cfg.TCCRAAddr,
		tccrBAddr:      cfg.TCCRBAddr,
		timskAddr:      cfg.TIMSKAddr,
		tifrAddr:       cfg.TIFRAddr,
		overflowBit:    cfg.OverflowBit,
		compareABit:    cfg.CompareABit,
		compareBBit:    cfg.CompareBBit,
		overflowVector: cfg.OverflowVector,
		compareAVector: cfg.CompareAVector,
		compareBVector: cfg.CompareBVector,
		sram:           sram,
		irqs:           irqs,
		queue:          q,
	}

	t.compareA = irq.NewNode(cfg.Name+".compa", irq.Width1)
	t.compareB = irq.NewNode(cfg.Name+".compb", irq.Width1)
	t.overflow = irq.NewNode(cfg.Name+".ovf", irq.Width1)

	irqs.RegisterVector(interrupt.Vector{Number: cfg.OverflowVector, Name: cfg.Name + ".OVF", Sensitivity: interrupt.Edge})
	irqs.RegisterVector(interrupt.Vector{Number: cfg.CompareAVector, Name: cfg.Name + ".COMPA", Sensitivity: interrupt.Edge})
	irqs.RegisterVector(interrupt.Vector{Number: cfg.CompareBVector, Name: cfg.Name + ".COMPB", Sensitivity: interrupt.Edge})

	sram.RegisterWrite(cfg.TCCRBAddr, func(_ uint16, value, _ uint8) uint8 {
		t.reschedule(value)
		return value
	})
	sram.RegisterWrite(cfg.TCNTAddr, func(_ uint16, value, _ uint8) uint8 {
		return value
	})
	sram.RegisterWrite(cfg.TIFRAddr, func(_ uint16, value, previous uint8) uint8 {
		cleared := previous
		if value&cfg.OverflowBit != 0 {
			irqs.Acknowledge(cfg.OverflowVector)
			cleared &^= cfg.OverflowBit
		}
		if value&cfg.CompareABit != 0 {
			irqs.Acknowledge(cfg.CompareAVector)
			cleared &^= cfg.CompareABit
		}
		if value&cfg.CompareBBit != 0 {
			irqs.Acknowledge(cfg.CompareBVector)
			cleared &^= cfg.CompareBBit
		}
		return cleared
	})
	sram.RegisterWrite(cfg.TIMSKAddr, func(_ uint16, value, _ uint8) uint8 {
		irqs.SetEnabled(cfg.OverflowVector, value&cfg.OverflowBit != 0)
		irqs.SetEnabled(cfg.CompareAVector, value&cfg.CompareABit != 0)
		irqs.SetEnabled(cfg.CompareBVector, value&cfg.CompareBBit != 0)
		return value
	})

	return t
}

// Name implements peripheral.Peripheral.
func (t *Timer) Name() string { return t.name }

// Reset zeros the counter and control registers, cancels any pending queue
// entry, and disables both compare vectors.
func (t *Timer) Reset() {
	if t.handle != 0 {
		t.queue.Cancel(t.handle)
		t.handle = 0
	}
	t.sram.Poke(t.tcntAddr, 0)
	t.sram.Poke(t.ocrAAddr, 0)
	t.sram.Poke(t.ocrBAddr, 0)
	t.sram.Poke(t.tccrAAddr, 0)
	t.sram.Poke(t.tccrBAddr, 0)
	t.sram.Poke(t.tifrAddr, 0)
	t.sram.Poke(t.timskAddr, 0)
	t.prescaleDiv = 0
	t.cycleNow = 0
	t.irqs.SetEnabled(t.overflowVector, false)
	t.irqs.SetEnabled(t.compareAVector, false)
	t.irqs.SetEnabled(t.compareBVector, false)
}

// CompareA, CompareB, Overflow expose this timer's IRQ nodes, each raised
// (1 then implicitly settling back to 0 on the next raise) whenever the
// corresponding event fires, for an external trace writer or another
// peripheral (e.g. a waveform-output pin) to subscribe to.
func (t *Timer) CompareA() *irq.Node { return t.compareA }
func (t *Timer) CompareB() *irq.Node { return t.compareB }
func (t *Timer) Overflow() *irq.Node { return t.overflow }

func (t *Timer) mode() Mode {
	tccrA := t.sram.Peek(t.tccrAAddr)
	tccrB := t.sram.Peek(t.tccrBAddr)
	wgm := (tccrA & 0x03) | ((tccrB >> 1) & 0x04)
	switch wgm {
	case 0:
		return Normal
	case 2:
		return CTC
	case 3, 7:
		return FastPWM
	default:
		return PhaseCorrect
	}
}

// top returns the counter's wraparound boundary for the current mode: the
// compare register in CTC, 0xFF otherwise (this package models only the
// 8-bit timers, where Fast PWM/Phase-Correct TOP is fixed at 0xFF unless a
// variant's ICRn/OCRnA-as-TOP extension is in play, out of this spec's
// 8-bit-timer scope).
func (t *Timer) top() uint8 {
	if t.mode() == CTC {
		return t.sram.Peek(t.ocrAAddr)
	}
	return 0xFF
}

// reschedule cancels any pending tick and, if the prescaler (decoded from
// the freshly-written TCCRB value) is nonzero, schedules the next one.
func (t *Timer) reschedule(tccrB uint8) {
	if t.handle != 0 {
		t.queue.Cancel(t.handle)
		t.handle = 0
	}
	cs := tccrB & 0x07
	if int(cs) >= len(Prescale) || Prescale[cs] == 0 {
		t.prescaleDiv = 0
		return
	}
	t.prescaleDiv = Prescale[cs]
	t.scheduleNextTick(t.cycleNow)
}

// RunOnce keeps cycleNow current every step, so a control-register write
// that arrives mid-instruction (before this step's RunOnce pass) still
// schedules its next tick relative to a recent, monotonically advancing
// cycle count rather than a stale one (spec.md §5's one-instruction latency
// bound covers the resulting small slack).
func (t *Timer) RunOnce(cycle uint64) {
	if cycle > t.cycleNow {
		t.cycleNow = cycle
	}
}

func (t *Timer) scheduleNextTick(from uint64) {
	when := from + t.prescaleDiv
	t.handle = t.queue.Schedule(t, func(now uint64) uint64 {
		return t.tick(now)
	}, when)
}

// tick fires once per prescaled clock edge. Compare and overflow are
// detected against the TCNT value as it stood coming into this tick (i.e.
// the value the previous tick left behind), not the post-increment value:
// on real hardware the compare flag is asserted the same cycle TCNT reads
// back the matching value, which was latched one prescaled tick earlier.
// This is why, starting from TCNT0=0, the first CTC compare against
// OCR0A=0xAA lands on the (0xAA+1)'th tick rather than the 0xAA'th.
func (t *Timer) tick(now uint64) uint64 {
	if now > t.cycleNow {
		t.cycleNow = now
	}
	tcnt := t.sram.Peek(t.tcntAddr)
	mode := t.mode()
	top := t.top()
	ocrA := t.sram.Peek(t.ocrAAddr)
	ocrB := t.sram.Peek(t.ocrBAddr)

	if tcnt == ocrA {
		t.fireCompareA()
	}
	if tcnt == ocrB {
		t.fireCompareB()
	}

	if tcnt == top {
		if mode != CTC {
			t.fireOverflow()
		}
		t.sram.Poke(t.tcntAddr, 0)
	} else {
		t.sram.Poke(t.tcntAddr, tcnt+1)
	}

	if t.prescaleDiv == 0 {
		return 0
	}
	return now + t.prescaleDiv
}

func (t *Timer) fireCompareA() {
	t.sram.Poke(t.tifrAddr, t.sram.Peek(t.tifrAddr)|t.compareABit)
	t.irqs.Raise(t.compareAVector)
	t.compareA.Raise(1)
}

func (t *Timer) fireCompareB() {
	t.sram.Poke(t.tifrAddr, t.sram.Peek(t.tifrAddr)|t.compareBBit)
	t.irqs.Raise(t.compareBVector)
	t.compareB.Raise(1)
}

func (t *Timer) fireOverflow() {
	t.sram.Poke(t.tifrAddr, t.sram.Peek(t.tifrAddr)|t.overflowBit)
	t.irqs.Raise(t.overflowVector)
	t.overflow.Raise(1)
}
