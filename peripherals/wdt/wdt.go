// Package wdt implements the AVR watchdog timer: WDTCSR's WDE/WDIE/WDP bits
// configure whether expiry raises an interrupt, forces a reset, or both, and
// select one of the ten WDTO_15MS..WDTO_8S timeouts. Each WDR instruction
// (via cpu.CPU.OnWatchdogReset) re-arms the queue entry from now; if nothing
// re-arms it before it fires, expiry runs the configured action.
//
// Grounded on peripherals/eeprom and peripherals/adc's queue-armed register
// peripheral shape; the WDE+WDIE interrupt-then-reset escalation (hardware
// clears WDIE on the first fire, so a second un-kicked timeout resets) is
// spec.md §8 scenario 4's watchdog behavior, read directly off the
// datasheet's "Watchdog Timer in Interrupt and System Reset Mode" section
// since no teacher file models a watchdog at all.
package wdt

import (
	"github.com/buserror/simavr-go/avr/interrupt"
	"github.com/buserror/simavr-go/avr/memory"
	"github.com/buserror/simavr-go/errors"
	"github.com/buserror/simavr-go/queue"
)

// TimeoutMillis is the WDTO_15MS..WDTO_8S table, indexed by the assembled
// WDP3:0 prescale value.
var TimeoutMillis = [10]uint64{15, 30, 60, 120, 250, 500, 1000, 2000, 4000, 8000}

// Config collects one watchdog's register map and clock.
type Config struct {
	Name string

	WDTCSRAddr uint16

	WDIFBit uint8 // interrupt flag, write-1-to-clear
	WDIEBit uint8 // interrupt enable; hardware clears it the first time it fires
	WDEBit  uint8 // system-reset enable

	// WDPLowMask covers the low prescale bits (WDP2:0 on real parts,
	// typically register bits 2:0); WDPHighBit is the one high prescale bit
	// some parts split out (WDP3, typically bit 5) — 0 if the part doesn't
	// split it, in which case WDPLowMask alone must cover all four bits.
	WDPLowMask uint8
	WDPHighBit uint8

	Vector int

	// FCPUHz converts a TimeoutMillis entry into a cycle count for the
	// queue; watchdog timing comes from its own internal oscillator, not
	// the CPU clock, but this core has no independent wall-clock notion —
	// like peripherals/eeprom's flat write delay, timeouts are expressed in
	// CPU cycles at the configured clock rate.
	FCPUHz uint64

	// OnReset is called when the watchdog forces a full system reset
	// (WDE set and the timeout fires with WDIE already clear, or already
	// clear when it was set). Wiring code typically sets this to
	// cpu.CPU.Halt with a watchdog-reset fault, per spec.md §6's exit-code
	// table — whether to actually restart execution afterward is left to
	// the harness (spec.md §6: "non-zero on ... watchdog reset
	// (configurable)").
	OnReset func(err error)
}

// WDT is the watchdog controller.
type WDT struct {
	name string
	cfg  Config

	sram  *memory.SRAM
	irqs  *interrupt.Controller
	queue *queue.Queue

	cycleNow uint64
	pending  queue.Handle
}

// New creates a watchdog controller from cfg.
func New(cfg Config, sram *memory.SRAM, irqs *interrupt.Controller, q *queue.Queue) *WDT {
	w := &WDT{name: cfg.Name, cfg: cfg, sram: sram, irqs: irqs, queue: q}

	irqs.RegisterVector(interrupt.Vector{Number: cfg.Vector, Name: cfg.Name + ".WDT", Sensitivity: interrupt.Edge})

	sram.RegisterWrite(cfg.WDTCSRAddr, func(_ uint16, value, previous uint8) uint8 {
		return w.onControlWrite(value, previous)
	})

	return w
}

// Name implements peripheral.Peripheral.
func (w *WDT) Name() string { return w.name }

// Reset cancels any armed timeout and clears the control register.
func (w *WDT) Reset() {
	if w.pending != 0 {
		w.queue.Cancel(w.pending)
		w.pending = 0
	}
	w.sram.Poke(w.cfg.WDTCSRAddr, 0)
	w.irqs.SetEnabled(w.cfg.Vector, false)
}

// RunOnce keeps cycleNow current.
func (w *WDT) RunOnce(cycle uint64) {
	if cycle > w.cycleNow {
		w.cycleNow = cycle
	}
}

// Kick re-arms the timeout from the current cycle; wiring code calls this
// from cpu.CPU.OnWatchdogReset on every WDR instruction.
func (w *WDT) Kick() {
	csr := w.sram.Peek(w.cfg.WDTCSRAddr)
	if csr&w.cfg.WDEBit == 0 && csr&w.cfg.WDIEBit == 0 {
		return // watchdog not running
	}
	w.arm(csr)
}

func (w *WDT) onControlWrite(value, previous uint8) uint8 {
	w.irqs.SetEnabled(w.cfg.Vector, value&w.cfg.WDIEBit != 0)

	if value&w.cfg.WDIFBit != 0 {
		w.irqs.Acknowledge(w.cfg.Vector)
		value &^= w.cfg.WDIFBit
	} else if previous&w.cfg.WDIFBit != 0 {
		value |= w.cfg.WDIFBit
	}

	configMask := w.cfg.WDEBit | w.cfg.WDIEBit | w.cfg.WDPLowMask | w.cfg.WDPHighBit
	running := value&w.cfg.WDEBit != 0 || value&w.cfg.WDIEBit != 0
	configChanged := value&configMask != previous&configMask
	switch {
	case running && configChanged:
		w.arm(value)
	case !running:
		if w.pending != 0 {
			w.queue.Cancel(w.pending)
			w.pending = 0
		}
	}

	return value
}

func (w *WDT) prescaleIndex(csr uint8) int {
	idx := int(csr & w.cfg.WDPLowMask)
	if w.cfg.WDPHighBit != 0 && csr&w.cfg.WDPHighBit != 0 {
		idx |= 1 << 3
	}
	if idx >= len(TimeoutMillis) {
		idx = len(TimeoutMillis) - 1
	}
	return idx
}

func (w *WDT) arm(csr uint8) {
	if w.pending != 0 {
		w.queue.Cancel(w.pending)
		w.pending = 0
	}
	fcpu := w.cfg.FCPUHz
	if fcpu == 0 {
		fcpu = 1_000_000
	}
	millis := TimeoutMillis[w.prescaleIndex(csr)]
	delay := millis * fcpu / 1000
	if delay == 0 {
		delay = 1
	}
	when := w.cycleNow + delay
	w.pending = w.queue.Schedule(w, func(now uint64) uint64 {
		if now > w.cycleNow {
			w.cycleNow = now
		}
		w.pending = 0
		w.expire()
		return 0
	}, when)
}

func (w *WDT) expire() {
	csr := w.sram.Peek(w.cfg.WDTCSRAddr)
	interruptMode := csr&w.cfg.WDIEBit != 0

	if interruptMode {
		// hardware clears WDIE on the first interrupt-mode fire: a second
		// un-kicked timeout falls through to a reset if WDE is also set.
		csr &^= w.cfg.WDIEBit
		csr |= w.cfg.WDIFBit
		w.sram.Poke(w.cfg.WDTCSRAddr, csr)
		w.irqs.Raise(w.cfg.Vector)
		if csr&w.cfg.WDEBit != 0 {
			w.arm(csr) // WDE still set: one more un-kicked timeout resets
		}
		return
	}

	if csr&w.cfg.WDEBit != 0 {
		if w.cfg.OnReset != nil {
			w.cfg.OnReset(errors.Errorf("watchdog reset: WDTCSR=0x%02x", csr))
		}
	}
}
