// Package execution records the outcome of one CPU step, grounded on the
// teacher's execution.Result (hardware/cpu/execution/result.go): one struct
// updated by the CPU core as it fetches, decodes and executes, instead of
// several ad hoc return values.
package execution

import "github.com/buserror/simavr-go/avr/cpu/definitions"

// Result describes one completed Step call.
type Result struct {
	// PC is the address the instruction was fetched from.
	PC uint16

	// Opcode is the first instruction word fetched.
	Opcode uint16

	Defn *definitions.Definition

	// Cycles is the actual cycle cost charged, which may exceed Defn.Cycles
	// for a taken branch or a two-word instruction.
	Cycles int

	// BranchTaken records whether a conditional branch/skip altered flow.
	BranchTaken bool

	// Slept records whether this step put the CPU to sleep or resumed it
	// from sleep by draining the queue forward rather than executing an
	// opcode.
	Slept bool

	// Halted records whether this step halted the CPU (decode-fault,
	// explicit Halt, or sleep with I=0).
	Halted bool

	// Fault is set when the step ended in a decode-fault or memory-fault
	// (spec.md §7); nil on a normal step.
	Fault error
}
