// Package avr assembles the pieces specified across spec.md §4 into the
// top-level stepping loop named in component J: a Simulator owns the CPU
// core, memory images, interrupt controller, cycle queue and peripheral
// registry, and advances them one instruction at a time.
//
// Grounded on the teacher's VCS type (hardware/*) as "the thing that owns
// every subsystem and exposes Step", generalised from a fixed 6507+TIA+RIOT
// machine to a variant-parameterised AVR one.
package avr

import (
	"fmt"

	"github.com/buserror/simavr-go/assert"
	"github.com/buserror/simavr-go/avr/cpu"
	"github.com/buserror/simavr-go/avr/cpu/execution"
	"github.com/buserror/simavr-go/avr/fault"
	"github.com/buserror/simavr-go/avr/interrupt"
	"github.com/buserror/simavr-go/avr/memory"
	"github.com/buserror/simavr-go/avr/peripheral"
	"github.com/buserror/simavr-go/avr/variant"
	"github.com/buserror/simavr-go/logger"
	"github.com/buserror/simavr-go/queue"
)

// logTag identifies this package's entries in the shared logger ring.
const logTag = "avr"

// Simulator is the single owning object spec.md §9 calls for: every
// peripheral holds a reference to it (or to the narrower interfaces it
// exposes — memory.CPUBus, *interrupt.Controller, *queue.Queue) rather than
// to each other, so a TWI slave never needs to know about a UART directly.
type Simulator struct {
	CPU        *cpu.CPU
	Flash      *memory.Flash
	SRAM       *memory.SRAM
	EEPROM     *memory.EEPROM
	Interrupts *interrupt.Controller
	Queue      *queue.Queue

	Peripherals *peripheral.Registry

	Variant variant.Descriptor

	counters map[string]*counter

	// owner enforces spec.md §5's single-simulation-thread model: Step,
	// queue callbacks and IRQ raises must all happen on the goroutine that
	// constructed the Simulator.
	owner *assert.OwnerCheck
}

// New validates cfg against its variant descriptor and constructs a
// Simulator ready to run: flash and EEPROM images loaded, registers at
// their reset state, no peripherals attached yet (the caller attaches the
// variant's peripheral set via AttachPeripheral — Simulator itself does not
// hardcode any particular MCU's peripheral complement).
func New(cfg Config) (*Simulator, error) {
	v := cfg.Variant
	if v.FlashSize <= 0 || v.SRAMSize <= 0 {
		return nil, fault.New(fault.Config, 0, 0, fmt.Sprintf("variant %q has no flash/sram size configured", v.Name))
	}
	if len(cfg.Flash) > v.FlashSize {
		return nil, fault.New(fault.Config, 0, 0, fmt.Sprintf("firmware image (%d bytes) exceeds variant %q flash size (%d bytes)", len(cfg.Flash), v.Name, v.FlashSize))
	}

	flash := memory.NewFlash(v.FlashSize)
	if err := flash.Load(0, cfg.Flash); err != nil {
		return nil, fault.New(fault.Config, 0, 0, err.Error())
	}

	sram := memory.NewSRAM(v.SRAMSize, v.IOBase, v.IOEnd)
	for addr, mask := range v.ReservedBits {
		sram.SetReserved(addr, mask)
	}

	var eeprom *memory.EEPROM
	if v.EEPROMSize > 0 {
		eeprom = memory.NewEEPROM(v.EEPROMSize)
		if cfg.EEPROM != nil {
			eeprom.Load(cfg.EEPROM)
		}
	}

	irqs := interrupt.NewController()
	q := queue.New()

	vectorSize := int(v.VectorSize)
	if vectorSize != 2 && vectorSize != 4 {
		vectorSize = 4
	}

	s := &Simulator{
		CPU:         cpu.New(flash, sram, irqs, q, vectorSize),
		Flash:       flash,
		SRAM:        sram,
		EEPROM:      eeprom,
		Interrupts:  irqs,
		Queue:       q,
		Peripherals: peripheral.NewRegistry(),
		Variant:     v,
		counters:    make(map[string]*counter),
		owner:       assert.NewOwnerCheck(),
	}
	s.CPU.Reset()
	if cfg.InitialSP != 0 {
		s.CPU.SP.Load(cfg.InitialSP)
	}
	return s, nil
}

// AttachPeripheral registers p with the simulator's peripheral registry and
// resets it immediately, so peripherals attached after construction start
// from a clean state just as ones attached before the first Reset would.
func (s *Simulator) AttachPeripheral(p peripheral.Peripheral) {
	s.Peripherals.Register(p)
	p.Reset()
}

// Reset restores the CPU and every attached peripheral to their power-on
// state, in peripheral registration order (spec.md §4.F).
func (s *Simulator) Reset() {
	s.CPU.Reset()
	s.Interrupts.Reset()
	s.Peripherals.Reset()
}

// Step advances the simulation by exactly one CPU step (one instruction, one
// interrupt service, or one sleeping-cycle-skip — see cpu.CPU.Step), then
// gives every RunOncer peripheral a chance to react to the new cycle count.
func (s *Simulator) Step() execution.Result {
	s.owner.Check()
	result := s.CPU.Step()
	s.Peripherals.RunOnce(s.CPU.Cycle)
	if result.Fault != nil {
		logger.Logf(logTag, "halted: %s", result.Fault)
	}
	return result
}

// Run calls Step until the CPU halts or the cycle counter reaches
// maxCycles (0 means unbounded), returning the Result that ended the run.
func (s *Simulator) Run(maxCycles uint64) execution.Result {
	for {
		result := s.Step()
		if result.Halted {
			return result
		}
		if maxCycles != 0 && s.CPU.Cycle >= maxCycles {
			return result
		}
	}
}

// ExitCode reports the process exit code spec.md §6 documents: 0 if the CPU
// halted by sleeping with I clear (a clean firmware exit), non-zero
// otherwise (illegal opcode, stack fault, or any other halting fault).
func (s *Simulator) ExitCode() int {
	if s.CPU.State != cpu.Halted {
		return 0
	}
	if s.CPU.Fault() == nil {
		return 0
	}
	return 1
}
