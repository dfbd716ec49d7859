// Package memory implements the flash, SRAM and EEPROM address spaces from
// spec.md §3/§4.C: flash is a read-mostly byte array, SRAM overlays the
// register file and the I/O register window with per-address read/write
// hooks, and EEPROM is a byte array behind an address/data/control register
// triple.
//
// The bus split is grounded on the teacher's hardware/memory/bus package:
// CPUBus is the CPU's plain Read/Write view, ChipBus is the equivalent for
// peripherals reacting to accesses in their own register window, and
// DebugBus exposes Peek/Poke for tooling that must bypass hooks. AVR has no
// analogue of the teacher's InputDeviceBus (front panel switches), so it is
// not reproduced.
package memory

// CPUBus is the view of an address space the CPU's LD/ST/IN/OUT opcodes use.
// Every address space in this package implements it.
type CPUBus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// DebugBus exposes Peek/Poke: reads and writes that bypass read/write hooks,
// for a debugger or test harness inspecting state without side effects.
type DebugBus interface {
	Peek(address uint16) uint8
	Poke(address uint16, value uint8)
}

// ReadHook is invoked when the CPU reads an I/O register address. It
// receives the byte currently stored at that address and returns the value
// the CPU actually sees; most hooks simply return current unchanged, but a
// hook may also use the read to clear a flag (as the teacher's ChipBus
// comments describe for "read to acknowledge" registers).
type ReadHook func(address uint16, current uint8) uint8

// WriteHook is invoked when the CPU writes an I/O register address, before
// the new value is committed to SRAM. It receives the address, the value
// the CPU wrote and the byte previously stored there, and returns the value
// that should actually be committed — this is how write-1-to-clear bits are
// modeled (spec.md §4.C): the hook ANDs previous with NOT the w1c bits of
// new, rather than just storing new verbatim.
type WriteHook func(address uint16, value uint8, previous uint8) uint8
