// Package spi implements an AVR SPI peripheral in master mode: writing SPDR
// arms a queue entry due after the configured shift delay, at which point
// SPIF sets, the received byte (supplied by an external slave via Ioctl, or
// 0xFF if nothing is attached) latches into SPDR, and the output IRQ node
// carries the transmitted byte for an attached peripheral or test harness to
// observe.
//
// Grounded on peripherals/uart's queue-timed shift register, generalised
// from UART's fixed bit-framing to SPI's single full-duplex byte exchange
// per transaction.
package spi

import (
	"github.com/buserror/simavr-go/avr/interrupt"
	"github.com/buserror/simavr-go/avr/memory"
	"github.com/buserror/simavr-go/irq"
	"github.com/buserror/simavr-go/queue"
)

// Config collects one SPI controller's register map and timing.
type Config struct {
	Name string

	SPDRAddr  uint16
	SPSRAddr  uint16
	SPCRAddr  uint16
	SPIFBit   uint8
	SPIEBit   uint8
	SPEBit    uint8
	Vector    int

	// CyclesPerByte is the fixed shift time for one full byte exchange
	// (SPI has no AVR-documented bit-framing overhead the way UART does, so
	// this package takes the whole-byte delay directly rather than deriving
	// it from a bits-per-frame count).
	CyclesPerByte uint64
}

// SPI is one SPI controller instance.
type SPI struct {
	name string
	cfg  Config

	sram  *memory.SRAM
	irqs  *interrupt.Controller
	queue *queue.Queue

	output *irq.Node // carries each transmitted byte
	input  *irq.Node // an attached peripheral raises this to supply the received byte

	cycleNow uint64
	pending  queue.Handle
	nextIn   uint8
	haveNext bool
}

// New creates an SPI controller from cfg.
func New(cfg Config, sram *memory.SRAM, irqs *interrupt.Controller, q *queue.Queue) *SPI {
	s := &SPI{name: cfg.Name, cfg: cfg, sram: sram, irqs: irqs, queue: q}
	s.output = irq.NewNode(cfg.Name+".out", irq.Width8)
	s.input = irq.NewNode(cfg.Name+".in", irq.Width8)

	irqs.RegisterVector(interrupt.Vector{Number: cfg.Vector, Name: cfg.Name + ".STC", Sensitivity: interrupt.Edge})

	s.input.RegisterNotify(func(_ *irq.Node, value uint32, _ interface{}) {
		s.nextIn = uint8(value)
		s.haveNext = true
	}, nil)

	sram.RegisterWrite(cfg.SPDRAddr, func(_ uint16, value, previous uint8) uint8 {
		if s.sram.Peek(cfg.SPCRAddr)&cfg.SPEBit == 0 {
			return previous
		}
		s.startTransfer(value)
		return previous // SPDR shows the received byte, not the one just written, until the transfer completes
	})
	sram.RegisterWrite(cfg.SPSRAddr, func(_ uint16, value, previous uint8) uint8 {
		if value&cfg.SPIFBit != 0 {
			irqs.Acknowledge(cfg.Vector)
			return previous &^ cfg.SPIFBit
		}
		return previous
	})
	sram.RegisterWrite(cfg.SPCRAddr, func(_ uint16, value, _ uint8) uint8 {
		irqs.SetEnabled(cfg.Vector, value&cfg.SPIEBit != 0)
		return value
	})

	return s
}

// Name implements peripheral.Peripheral.
func (s *SPI) Name() string { return s.name }

// Reset cancels any in-flight transfer and clears registers.
func (s *SPI) Reset() {
	if s.pending != 0 {
		s.queue.Cancel(s.pending)
		s.pending = 0
	}
	s.sram.Poke(s.cfg.SPDRAddr, 0)
	s.sram.Poke(s.cfg.SPSRAddr, 0)
	s.sram.Poke(s.cfg.SPCRAddr, 0)
	s.irqs.SetEnabled(s.cfg.Vector, false)
	s.haveNext = false
}

// Output exposes the IRQ node carrying each byte this controller transmits.
func (s *SPI) Output() *irq.Node { return s.output }

// Input is the node an attached slave raises to supply the byte it shifted
// back during the most recent transfer.
func (s *SPI) Input() *irq.Node { return s.input }

// RunOnce keeps cycleNow current.
func (s *SPI) RunOnce(cycle uint64) {
	if cycle > s.cycleNow {
		s.cycleNow = cycle
	}
}

func (s *SPI) startTransfer(value uint8) {
	s.output.Raise(uint32(value)) // gives an attached slave a chance to respond via Input before completion
	delay := s.cfg.CyclesPerByte
	if delay == 0 {
		delay = 1
	}
	when := s.cycleNow + delay
	s.pending = s.queue.Schedule(s, func(now uint64) uint64 {
		if now > s.cycleNow {
			s.cycleNow = now
		}
		s.completeTransfer()
		return 0
	}, when)
}

func (s *SPI) completeTransfer() {
	s.pending = 0
	received := uint8(0xFF)
	if s.haveNext {
		received = s.nextIn
		s.haveNext = false
	}
	s.sram.Poke(s.cfg.SPDRAddr, received)
	s.sram.Poke(s.cfg.SPSRAddr, s.sram.Peek(s.cfg.SPSRAddr)|s.cfg.SPIFBit)
	s.irqs.Raise(s.cfg.Vector)
}
