// Package cpu implements the AVR instruction set core from spec.md §4.D:
// fetch/decode/execute, the running/sleeping/halted state machine, and
// interrupt service between instructions.
//
// Grounded on the teacher's hardware/cpu/cpu.go for overall shape (a CPU
// struct holding registers and a reference to memory, exposing Step/Reset),
// but the decode strategy differs: the 6507 teacher dispatches through a
// pre-generated per-opcode instructions.Definition table keyed directly by
// the single opcode byte, while AVR opcodes are 16 bits wide with many
// instructions sharing a common high-bit family and differing only in a few
// embedded operand bits, so decode.go matches mask/pattern pairs instead of
// indexing a byte-keyed array.
package cpu

import (
	"github.com/buserror/simavr-go/avr/cpu/definitions"
	"github.com/buserror/simavr-go/avr/cpu/execution"
	"github.com/buserror/simavr-go/avr/cpu/registers"
	"github.com/buserror/simavr-go/avr/fault"
	"github.com/buserror/simavr-go/avr/interrupt"
	"github.com/buserror/simavr-go/avr/memory"
	"github.com/buserror/simavr-go/queue"
)

// State is one of the three states spec.md §4.I's state machine names.
type State int

const (
	Running State = iota
	Sleeping
	Halted
)

// SleepMode selects which clocks keep running while Sleeping, set by MCUCR
// (or SMCR on later parts) bits; the peripheral owning that register is
// responsible for calling SetSleepMode.
type SleepMode int

const (
	Idle SleepMode = iota
	PowerDown
	PowerSave
	Standby
)

// CPU is the AVR instruction-set core.
type CPU struct {
	R    [32]registers.Register
	PC   registers.ProgramCounter
	SP   registers.StackPointer
	SREG registers.Status

	Flash *memory.Flash
	SRAM  *memory.SRAM

	Interrupts *interrupt.Controller
	Queue      *queue.Queue

	Cycle      uint64
	State      State
	SleepMode  SleepMode
	VectorSize int // 2 or 4 bytes, a variant property

	// OnWatchdogReset, if set, is called on every WDR instruction. The
	// simulator wires this to peripherals/wdt so the core need not import
	// any specific peripheral (spec.md §9's "peripherals hold
	// back-references resolved by id, not by pointer").
	OnWatchdogReset func()

	// lastFault is surfaced by Step's Result and halts the CPU; it is
	// cleared by Reset.
	lastFault error
}

// New creates a CPU wired to the given flash/SRAM images and interrupt
// controller, with registers at their reset values. vectorSize is the
// variant's interrupt vector table entry width (2 or 4 bytes).
func New(flash *memory.Flash, sram *memory.SRAM, irqs *interrupt.Controller, q *queue.Queue, vectorSize int) *CPU {
	c := &CPU{
		Flash:      flash,
		SRAM:       sram,
		Interrupts: irqs,
		Queue:      q,
		VectorSize: vectorSize,
	}
	for i := range c.R {
		c.R[i] = registers.NewRegister(0, regName(i))
	}
	return c
}

func regName(i int) string {
	names := [...]string{
		"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
		"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
		"r16", "r17", "r18", "r19", "r20", "r21", "r22", "r23",
		"r24", "r25", "r26", "r27", "r28", "r29", "r30", "r31",
	}
	return names[i]
}

// Reset restores the CPU to its post power-on state: PC, SREG and the
// register file clear, SP set to the top of SRAM.
func (c *CPU) Reset() {
	c.PC.Load(0)
	c.SREG = registers.Status{}
	for i := range c.R {
		c.R[i].Load(0)
	}
	c.SP.Load(uint16(c.SRAM.Len() - 1))
	c.Cycle = 0
	c.State = Running
	c.lastFault = nil
}

// Halt forces the CPU into the Halted state; no further instructions
// execute until Reset.
func (c *CPU) Halt(fault error) {
	c.State = Halted
	c.lastFault = fault
}

// Fault returns the error that halted the CPU, if any.
func (c *CPU) Fault() error {
	return c.lastFault
}

// X, Y, Z return the index-register pairs r26:r27, r28:r29, r30:r31.
func (c *CPU) X() registers.Pair { return registers.Pair{Low: &c.R[26], High: &c.R[27]} }
func (c *CPU) Y() registers.Pair { return registers.Pair{Low: &c.R[28], High: &c.R[29]} }
func (c *CPU) Z() registers.Pair { return registers.Pair{Low: &c.R[30], High: &c.R[31]} }

// registersPair returns the pair whose low register is low (24, 26, 28 or
// 30), for ADIW/SBIW which address any of the four top pairs directly by
// index rather than only X/Y/Z.
func registersPair(c *CPU, low int) registers.Pair {
	return registers.Pair{Low: &c.R[low], High: &c.R[low+1]}
}

// Push writes value to the address SP currently points at, then decrements
// SP by one — AVR's post-decrement push convention (spec.md §3/§4.D).
func (c *CPU) Push(value uint8) {
	addr := c.SP.PushAddress(1)
	c.SRAM.Write(addr, value)
}

// Pop increments SP by one, then reads the byte at the new address —
// AVR's pre-increment pop convention.
func (c *CPU) Pop() uint8 {
	addr := c.SP.PopAddress(1)
	return c.SRAM.Read(addr)
}

// PushPC pushes a return address as 2 or 3 bytes (depending on VectorSize,
// which doubles as "does this part need a 22-bit PC"), low byte last, so
// the high byte is on top of the stack — matching AVR's documented
// "MSB first" push order read back MSB-last on pop.
func (c *CPU) PushPC(addr uint16) {
	c.Push(uint8(addr))
	c.Push(uint8(addr >> 8))
}

// PopPC reverses PushPC.
func (c *CPU) PopPC() uint16 {
	hi := c.Pop()
	lo := c.Pop()
	return uint16(hi)<<8 | uint16(lo)
}

// checkStack returns a memory-fault if SP has left SRAM bounds (spec.md §7:
// "Stack overflow/underflow is detected if SP leaves RAM bounds").
func (c *CPU) checkStack() error {
	if !c.SRAM.InRange(c.SP.Value()) {
		return fault.New(fault.Memory, c.PC.Value(), c.SP.Value(), "stack pointer out of RAM bounds")
	}
	return nil
}

// Step executes one machine step per spec.md §4.D's five-stage order, or,
// if sleeping, advances the cycle counter to the next scheduled event.
func (c *CPU) Step() execution.Result {
	if c.State == Halted {
		return execution.Result{Halted: true, Fault: c.lastFault}
	}

	if c.State == Sleeping {
		return c.stepSleeping()
	}

	if num, ok := c.Interrupts.Pending(); ok && c.SREG.Interrupt {
		return c.serviceInterrupt(num)
	}

	return c.stepRunning()
}

func (c *CPU) stepSleeping() execution.Result {
	due, ok := c.Queue.NextDue()
	if !ok {
		// nothing left to wait for and no enabled interrupt: per spec.md
		// §4.D this is "simulation done".
		c.State = Halted
		return execution.Result{Halted: true, Slept: true}
	}
	if due > c.Cycle {
		c.Cycle = due
	}
	c.Queue.Drain(c.Cycle)

	if num, ok := c.Interrupts.Pending(); ok {
		if !c.SREG.Interrupt {
			c.State = Halted
			return execution.Result{Halted: true, Slept: true}
		}
		c.State = Running
		return c.serviceInterrupt(num)
	}
	return execution.Result{Slept: true}
}

func (c *CPU) serviceInterrupt(vectorNumber int) execution.Result {
	c.Interrupts.Acknowledge(vectorNumber)
	c.PushPC(c.PC.Value())
	c.SREG.Interrupt = false
	c.PC.Load(uint16(vectorNumber * c.VectorSize))
	c.Cycle += 4
	if err := c.checkStack(); err != nil {
		c.Halt(err)
		return execution.Result{Fault: err, Halted: true}
	}
	return execution.Result{Cycles: 4}
}

func (c *CPU) stepRunning() execution.Result {
	pc := c.PC.Value()
	opcode := c.Flash.ReadWord(pc)

	def, exec := Decode(opcode)
	if def == nil {
		err := fault.New(fault.Decode, pc, opcode, "illegal opcode")
		c.Halt(err)
		return execution.Result{PC: pc, Opcode: opcode, Fault: err, Halted: true}
	}

	c.PC.Advance(uint16(def.Bytes))

	extra := exec(c, opcode)
	cycles := def.Cycles + extra

	c.Cycle += uint64(cycles)
	c.Queue.Drain(c.Cycle)

	if err := c.checkStack(); err != nil {
		c.Halt(err)
		return execution.Result{PC: pc, Opcode: opcode, Defn: def, Cycles: cycles, Fault: err, Halted: true}
	}

	return execution.Result{
		PC:          pc,
		Opcode:      opcode,
		Defn:        def,
		Cycles:      cycles,
		BranchTaken: extra > 0 && def.Category == definitions.Flow,
	}
}
