// Package twi implements a two-wire (I²C-compatible) bus: one MCU-side
// master peripheral driving TWCR/TWSR/TWDR/TWBR, and a daisy-chained list of
// attached Slave handles. Each bus phase (start, address, a data byte, stop)
// is modeled as a queue-scheduled completion carrying the real TWI status
// code into TWSR, mirroring how peripherals/uart turns a register write into
// a delayed, status-bearing completion.
//
// Grounded on peripherals/uart and peripherals/spi's write-hook-arms-a-
// queue-entry shape; the state-transition IRQ nodes (start, address, mosi,
// miso, ack, stop) are spec.md §4.I's own description of the bus, since no
// teacher file models a multi-drop bus with attachable slaves.
package twi

import (
	"github.com/buserror/simavr-go/avr/interrupt"
	"github.com/buserror/simavr-go/avr/memory"
	"github.com/buserror/simavr-go/irq"
	"github.com/buserror/simavr-go/queue"
)

// Standard TWI status codes (master mode), per the datasheet's State Codes
// table. Only the subset this package produces is named here.
const (
	StatusStart         = 0x08
	StatusRepeatedStart = 0x10
	StatusSLAWAck       = 0x18
	StatusSLAWNack      = 0x20
	StatusDataTXAck     = 0x28
	StatusDataTXNack    = 0x30
	StatusSLARAck       = 0x40
	StatusSLARNack      = 0x48
	StatusDataRXAck     = 0x50
	StatusDataRXNack    = 0x58
	StatusIdle          = 0xF8
)

// Slave is an attachable device on a Bus. Implementations are expected to be
// held by weak/value handles owned elsewhere; the Bus only calls methods on
// them during an in-progress transaction, never retains one across a Stop.
type Slave interface {
	// Matches reports whether this slave responds to the given 7-bit
	// address (already shifted out of TWDR's SLA+R/W byte).
	Matches(address uint8) bool
	// Start notifies the slave that it was just selected; read indicates
	// the direction the master requested. Returns whether the slave acks.
	Start(address uint8, read bool) bool
	// WriteByte delivers one master-to-slave byte; returns whether the
	// slave acks it.
	WriteByte(value uint8) bool
	// ReadByte asks the slave for its next byte during a master read.
	ReadByte() uint8
	// Stop notifies of a stop condition ending the transaction.
	Stop()
}

// Bus is the shared wire: a master-selected slave list plus the
// state-transition signal nodes spec.md §4.I calls for.
type Bus struct {
	slaves []Slave

	Start   *irq.Node
	Address *irq.Node
	MOSI    *irq.Node
	MISO    *irq.Node
	Ack     *irq.Node
	StopSig *irq.Node
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		Start:   irq.NewNode("twi.start", irq.Width1),
		Address: irq.NewNode("twi.address", irq.Width8),
		MOSI:    irq.NewNode("twi.mosi", irq.Width8),
		MISO:    irq.NewNode("twi.miso", irq.Width8),
		Ack:     irq.NewNode("twi.ack", irq.Width1),
		StopSig: irq.NewNode("twi.stop", irq.Width1),
	}
}

// Attach adds s to the bus's slave list.
func (b *Bus) Attach(s Slave) {
	b.slaves = append(b.slaves, s)
}

// selected returns the one attached slave (if any) whose address mask
// matches address; spec.md §8's edge case requires at most one match.
func (b *Bus) selected(address uint8) Slave {
	for _, s := range b.slaves {
		if s.Matches(address) {
			return s
		}
	}
	return nil
}

// Config collects one TWI master controller's register map.
type Config struct {
	Name string

	TWCRAddr uint16
	TWSRAddr uint16
	TWDRAddr uint16
	TWBRAddr uint16

	TWINTBit uint8
	TWSTABit uint8
	TWSTOBit uint8
	TWENBit  uint8
	TWEABit  uint8
	TWIEBit  uint8

	StatusMask uint8 // TWSR bits holding the status code (upper 5 bits on real hardware)

	Vector int

	// CyclesPerPhase is the fixed delay for one bus phase (start, address,
	// or a single data byte) — this package does not model TWBR/prescaler
	// timing precisely, the same simplification peripherals/eeprom makes
	// for its write-commit delay.
	CyclesPerPhase uint64
}

// TWI is the MCU-side master controller.
type TWI struct {
	name string
	cfg  Config
	bus  *Bus

	sram  *memory.SRAM
	irqs  *interrupt.Controller
	queue *queue.Queue

	cycleNow uint64
	pending  queue.Handle

	selected Slave
	reading  bool
}

// New creates a TWI master controller from cfg, wired to bus.
func New(cfg Config, bus *Bus, sram *memory.SRAM, irqs *interrupt.Controller, q *queue.Queue) *TWI {
	t := &TWI{name: cfg.Name, cfg: cfg, bus: bus, sram: sram, irqs: irqs, queue: q}

	irqs.RegisterVector(interrupt.Vector{Number: cfg.Vector, Name: cfg.Name + ".TWI", Sensitivity: interrupt.Edge})

	sram.RegisterWrite(cfg.TWCRAddr, func(_ uint16, value, previous uint8) uint8 {
		return t.onControlWrite(value, previous)
	})

	return t
}

// Name implements peripheral.Peripheral.
func (t *TWI) Name() string { return t.name }

// Reset cancels any in-flight phase, clears registers, and drops the
// selected slave.
func (t *TWI) Reset() {
	if t.pending != 0 {
		t.queue.Cancel(t.pending)
		t.pending = 0
	}
	t.sram.Poke(t.cfg.TWCRAddr, 0)
	t.sram.Poke(t.cfg.TWSRAddr, StatusIdle&t.cfg.StatusMask)
	t.irqs.SetEnabled(t.cfg.Vector, false)
	t.selected = nil
}

// RunOnce keeps cycleNow current.
func (t *TWI) RunOnce(cycle uint64) {
	if cycle > t.cycleNow {
		t.cycleNow = cycle
	}
}

func (t *TWI) onControlWrite(value, previous uint8) uint8 {
	t.irqs.SetEnabled(t.cfg.Vector, value&t.cfg.TWIEBit != 0)

	if value&t.cfg.TWENBit == 0 {
		return value
	}

	if value&t.cfg.TWINTBit == 0 {
		// TWINT not set: nothing to kick off yet (firmware is still
		// composing the control word, e.g. setting TWSTA alongside TWEN).
		return value
	}

	// Writing 1 to TWINT both clears the flag and, combined with
	// TWSTA/TWSTO/a pending data byte, starts the next bus phase.
	value &^= t.cfg.TWINTBit

	switch {
	case value&t.cfg.TWSTOBit != 0:
		value &^= t.cfg.TWSTOBit // hardware self-clears TWSTO once the stop condition completes
		t.armStop()
	case value&t.cfg.TWSTABit != 0:
		t.armStart()
	case t.selected == nil:
		t.armAddress()
	case t.reading:
		t.armDataRX(value&t.cfg.TWEABit != 0)
	default:
		t.armDataTX()
	}

	return value
}

func (t *TWI) schedule(cb func()) {
	delay := t.cfg.CyclesPerPhase
	if delay == 0 {
		delay = 1
	}
	when := t.cycleNow + delay
	t.pending = t.queue.Schedule(t, func(now uint64) uint64 {
		if now > t.cycleNow {
			t.cycleNow = now
		}
		t.pending = 0
		cb()
		return 0
	}, when)
}

func (t *TWI) complete(status uint8) {
	t.sram.Poke(t.cfg.TWSRAddr, (t.sram.Peek(t.cfg.TWSRAddr)&^t.cfg.StatusMask)|(status&t.cfg.StatusMask))
	t.sram.Poke(t.cfg.TWCRAddr, t.sram.Peek(t.cfg.TWCRAddr)|t.cfg.TWINTBit)
	t.irqs.Raise(t.cfg.Vector)
}

func (t *TWI) armStart() {
	repeated := t.selected != nil
	t.selected = nil
	t.bus.Start.Raise(1)
	status := uint8(StatusStart)
	if repeated {
		status = StatusRepeatedStart
	}
	t.schedule(func() { t.complete(status) })
}

func (t *TWI) armAddress() {
	slaw := t.sram.Peek(t.cfg.TWDRAddr)
	address := slaw >> 1
	read := slaw&1 != 0
	t.reading = read
	t.bus.Address.Raise(uint32(slaw))

	slave := t.bus.selected(address)
	acked := false
	if slave != nil {
		acked = slave.Start(address, read)
	}
	t.bus.Ack.Raise(boolToU32(acked))

	var status uint8
	switch {
	case read && acked:
		t.selected = slave
		status = StatusSLARAck
	case read && !acked:
		status = StatusSLARNack
	case !read && acked:
		t.selected = slave
		status = StatusSLAWAck
	default:
		status = StatusSLAWNack
	}
	t.schedule(func() { t.complete(status) })
}

func (t *TWI) armDataTX() {
	value := t.sram.Peek(t.cfg.TWDRAddr)
	t.bus.MOSI.Raise(uint32(value))
	acked := t.selected.WriteByte(value)
	t.bus.Ack.Raise(boolToU32(acked))
	status := uint8(StatusDataTXNack)
	if acked {
		status = StatusDataTXAck
	}
	t.schedule(func() { t.complete(status) })
}

func (t *TWI) armDataRX(giveAck bool) {
	value := t.selected.ReadByte()
	t.bus.MISO.Raise(uint32(value))
	t.bus.Ack.Raise(boolToU32(giveAck))
	status := uint8(StatusDataRXNack)
	if giveAck {
		status = StatusDataRXAck
	}
	t.schedule(func() {
		t.sram.Poke(t.cfg.TWDRAddr, value)
		t.complete(status)
	})
}

func (t *TWI) armStop() {
	if t.selected != nil {
		t.selected.Stop()
	}
	t.bus.StopSig.Raise(1)
	t.selected = nil
	t.sram.Poke(t.cfg.TWSRAddr, (t.sram.Peek(t.cfg.TWSRAddr)&^t.cfg.StatusMask)|(StatusIdle&t.cfg.StatusMask))
	// a stop condition does not set TWINT or raise the vector on real
	// hardware: firmware polling TWSTO for it to self-clear is how a stop
	// completion is normally observed.
}

func boolToU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
