package registers

import "fmt"

// ProgramCounter is the CPU's PC. spec.md §3 defines it as a 16-bit
// byte address into flash (32-bit on parts with more than 64KiB of flash is
// out of scope per spec.md's Non-goals). Grounded on the teacher's
// ProgramCounter (hardware/cpu/registers/program_counter.go); AVR's PC has no
// BitWidth/Address split worth keeping since flash and the PC share the same
// address space directly, unlike the 6507's bank-switched cartridge space.
type ProgramCounter struct {
	value uint16
}

// NewProgramCounter creates a PC initialised to val.
func NewProgramCounter(val uint16) ProgramCounter {
	return ProgramCounter{value: val}
}

// Label returns the PC's name.
func (pc ProgramCounter) Label() string {
	return "PC"
}

func (pc ProgramCounter) String() string {
	return fmt.Sprintf("%04x", pc.value)
}

// Value returns the PC's current byte address.
func (pc ProgramCounter) Value() uint16 {
	return pc.value
}

// Load sets the PC to val.
func (pc *ProgramCounter) Load(val uint16) {
	pc.value = val
}

// Advance moves the PC forward by n bytes, the width of the instruction just
// fetched (2 or 4 for every AVR opcode).
func (pc *ProgramCounter) Advance(n uint16) {
	pc.value += n
}
