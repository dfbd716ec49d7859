// Package fault defines the structured descriptor every halting fault in
// spec.md §7's taxonomy surfaces through: kind, the PC at the time of the
// fault, and the offending address or opcode. It is its own leaf package
// (rather than living on the top-level Simulator) so avr/cpu can construct
// one directly without importing the package that imports it.
package fault

import "github.com/buserror/simavr-go/errors"

// Kind names one of spec.md §7's taxonomy of halting faults.
type Kind int

const (
	Decode Kind = iota
	Memory
	IO
	Config
	// Warning is spec.md §7's peripheral-warning class: an access the
	// fabric can't service (an unimplemented I/O register, a reserved-bit
	// write) that logs and continues rather than halting the CPU. Callers
	// report it through logger.Logf, never through cpu.CPU.Halt.
	Warning
)

func (k Kind) String() string {
	switch k {
	case Decode:
		return "decode-fault"
	case Memory:
		return "memory-fault"
	case IO:
		return "io-fault"
	case Config:
		return "config-fault"
	case Warning:
		return "peripheral-warning"
	default:
		return "fault"
	}
}

// Fault wraps through errors.Errorf so Error() reads the same way every
// other curated error in this module does, while staying inspectable by
// Kind without string matching.
type Fault struct {
	Kind    Kind
	PC      uint16
	Operand uint16 // offending opcode (Decode) or address (Memory/IO)
	cause   error
}

// New builds a Fault and formats its message through errors.Errorf.
func New(kind Kind, pc, operand uint16, detail string) *Fault {
	return &Fault{
		Kind:    kind,
		PC:      pc,
		Operand: operand,
		cause:   errors.Errorf("%s: %s (PC=%#04x, operand=%#04x)", kind.String(), detail, pc, operand),
	}
}

func (f *Fault) Error() string {
	return f.cause.Error()
}

func (f *Fault) Unwrap() error {
	return f.cause
}
