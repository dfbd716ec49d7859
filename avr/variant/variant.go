// Package variant describes the per-MCU-model metadata spec.md §3 and §6
// name: signature bytes, memory sizes, vector size, and the few loader
// hints (f_cpu, fuse bytes, VCD trace requests, command/console register
// addresses) an ELF/metadata parser would hand the core. Parsing that
// metadata out of an ELF section is explicitly out of spec.md §1's
// scope ("ELF loading and the special configuration section parser"); this
// package only defines the typed descriptor the core consumes, grounded on
// spec.md §6's "Firmware image" data model.
package variant

// VectorSize is the width in bytes of each interrupt vector table entry —
// 2 on parts with flash at or under 8KiB addressed by RJMP, 4 on larger
// parts needing JMP.
type VectorSize int

const (
	VectorSize2 VectorSize = 2
	VectorSize4 VectorSize = 4
)

// VCDSignal names one node a variant wants available for tracing, matching
// simavr's avr_mcu_section.h trace-request list (see SPEC_FULL.md's
// Supplemented Features). The simulator does not write VCD files itself;
// this is only the list an external trace writer would subscribe to.
type VCDSignal struct {
	Name  string
	Width int // bits
}

// Descriptor is the typed metadata block the loader hands the core: a
// variant identifier, memory sizes, and the handful of loader hints
// spec.md §6 names.
type Descriptor struct {
	Name string // up to 16 bytes, e.g. "atmega328p"

	// Signature is the three-byte device signature (e.g. 0x1E 0x95 0x0F
	// for the atmega328p), checked against the variant table at load time
	// for a config-fault on mismatch (spec.md §7).
	Signature [3]uint8

	FlashSize  int
	SRAMSize   int
	EEPROMSize int

	// IOBase and IOEnd bound the inclusive I/O register window within
	// SRAM's address space (spec.md §3).
	IOBase uint16
	IOEnd  uint16

	VectorSize VectorSize

	// FCPU is the nominal clock frequency in Hz, used by peripherals that
	// convert a wall-clock period (e.g. a UART baud rate) into a cycle
	// count.
	FCPU uint32

	// Fuses is optional fuse-byte metadata the loader may pass through
	// un-interpreted; the core does not itself act on fuse bits.
	Fuses []uint8

	VCDSignals []VCDSignal

	// CommandRegister and ConsoleRegister are the I/O addresses, if any,
	// that peripherals/command and peripherals/console should attach to
	// (spec.md §6). Zero means "not configured for this variant".
	CommandRegister uint16
	ConsoleRegister uint16

	// ReservedBits maps an I/O register address to the mask of bits the
	// datasheet documents as reserved at that address. A write that sets
	// one of them logs a peripheral-warning instead of being accepted
	// (spec.md §7).
	ReservedBits map[uint16]uint8
}
