// Package eeprom implements spec.md §4.I's EEPROM register interface:
// EEAR/EEDR/EECR drive reads and writes against the byte store owned by
// avr/memory.EEPROM. A read completes in one cycle; a write is deferred by
// WriteDelayCycles through the cycle queue, after which EEPE clears and the
// EE-READY vector raises.
//
// Grounded on the teacher's hardware/riot/timer deferred-completion pattern
// (register write arms a queue entry; the entry's callback is what actually
// finishes the operation and flips the ready flag), adapted here to EEPROM's
// single-byte read/write cycle instead of the RIOT's periodic countdown.
package eeprom

import (
	"github.com/buserror/simavr-go/avr/interrupt"
	"github.com/buserror/simavr-go/avr/memory"
	"github.com/buserror/simavr-go/queue"
)

// Config collects one EEPROM controller's register map and vector number.
type Config struct {
	Name string

	EEARLAddr, EEARHAddr uint16
	EEDRAddr             uint16
	EECRAddr             uint16

	EEREBit  uint8 // EECR: read-enable strobe, self-clearing
	EEPEBit  uint8 // EECR: write-enable strobe; hardware clears it when the write completes
	EEMPEBit uint8 // EECR: master write-enable, must be set within 4 cycles of EEPE
	EERIEBit uint8 // EECR: ready-interrupt enable

	ReadyVector int

	// WriteDelayCycles is the fixed number of cycles a write takes to
	// commit (simavr and the datasheet both use a flat delay rather than
	// modeling the internal high-voltage charge pump).
	WriteDelayCycles uint64
}

// EEPROM is the register-level controller in front of memory.EEPROM.
type EEPROM struct {
	name  string
	cfg   Config
	store *memory.EEPROM
	sram  *memory.SRAM
	irqs  *interrupt.Controller
	queue *queue.Queue

	cycleNow uint64
	pending  queue.Handle
}

// New creates an EEPROM controller over store, wired to sram's I/O hooks.
func New(cfg Config, store *memory.EEPROM, sram *memory.SRAM, irqs *interrupt.Controller, q *queue.Queue) *EEPROM {
	e := &EEPROM{name: cfg.Name, cfg: cfg, store: store, sram: sram, irqs: irqs, queue: q}

	irqs.RegisterVector(interrupt.Vector{Number: cfg.ReadyVector, Name: cfg.Name + ".READY", Sensitivity: interrupt.Level})

	sram.RegisterWrite(cfg.EECRAddr, func(_ uint16, value, previous uint8) uint8 {
		return e.onControlWrite(value, previous)
	})

	e.refreshReady()
	return e
}

// Name implements peripheral.Peripheral.
func (e *EEPROM) Name() string { return e.name }

// Reset cancels any pending write, clears the control register, and
// disables the ready vector.
func (e *EEPROM) Reset() {
	if e.pending != 0 {
		e.queue.Cancel(e.pending)
		e.pending = 0
	}
	e.sram.Poke(e.cfg.EECRAddr, 0)
	e.irqs.SetEnabled(e.cfg.ReadyVector, false)
	e.refreshReady()
}

// RunOnce keeps cycleNow current, the same cached-clock pattern timer.Timer
// and uart.UART use.
func (e *EEPROM) RunOnce(cycle uint64) {
	if cycle > e.cycleNow {
		e.cycleNow = cycle
	}
}

func (e *EEPROM) onControlWrite(value, previous uint8) uint8 {
	e.irqs.SetEnabled(e.cfg.ReadyVector, value&e.cfg.EERIEBit != 0)

	if value&e.cfg.EEREBit != 0 && e.pending == 0 {
		e.doRead()
		value &^= e.cfg.EEREBit // self-clearing strobe
	}

	if value&e.cfg.EEPEBit != 0 && previous&e.cfg.EEPEBit == 0 {
		if value&e.cfg.EEMPEBit != 0 {
			e.startWrite()
		} else {
			value &^= e.cfg.EEPEBit // EEMPE wasn't set: write request ignored
		}
	}

	e.refreshReady()
	return value
}

func (e *EEPROM) doRead() {
	e.sram.Poke(e.cfg.EEDRAddr, e.store.Read(e.address()))
}

func (e *EEPROM) startWrite() {
	if e.pending != 0 {
		return
	}
	addr := e.address()
	value := e.sram.Peek(e.cfg.EEDRAddr)
	delay := e.cfg.WriteDelayCycles
	if delay == 0 {
		delay = 1
	}
	when := e.cycleNow + delay
	e.pending = e.queue.Schedule(e, func(now uint64) uint64 {
		if now > e.cycleNow {
			e.cycleNow = now
		}
		e.completeWrite(addr, value)
		return 0
	}, when)
}

func (e *EEPROM) completeWrite(addr uint16, value uint8) {
	e.store.Write(addr, value)
	e.pending = 0
	e.sram.Poke(e.cfg.EECRAddr, e.sram.Peek(e.cfg.EECRAddr)&^e.cfg.EEPEBit)
	e.refreshReady()
}

// address assembles the 16-bit EEPROM address from EEARH:EEARL.
func (e *EEPROM) address() uint16 {
	lo := e.sram.Peek(e.cfg.EEARLAddr)
	hi := e.sram.Peek(e.cfg.EEARHAddr)
	return uint16(hi)<<8 | uint16(lo)
}

// refreshReady keeps the level-sensitive EE-READY vector's pending state in
// sync with "no write in flight" (spec.md §4.E: a Level vector's flag
// reflects live hardware state rather than history).
func (e *EEPROM) refreshReady() {
	if e.pending == 0 {
		e.irqs.Raise(e.cfg.ReadyVector)
	} else {
		e.irqs.Lower(e.cfg.ReadyVector)
	}
}
