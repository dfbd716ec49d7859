package memory

import (
	"github.com/buserror/simavr-go/avr/fault"
	"github.com/buserror/simavr-go/errors"
	"github.com/buserror/simavr-go/logger"
)

// logTag identifies this package's entries in the shared logger ring.
const logTag = "sram"

// SRAM is the AVR's data address space: the first 32 bytes alias the general
// register file, the next region is the I/O register window, and the
// remainder is ordinary RAM (spec.md §3). Read/write hooks registered over
// the I/O window let peripherals observe and mutate accesses; the register
// file region has no hooks since the CPU core reads/writes it directly
// through registers.Register (spec.md §4.C: "direct-to-SRAM access uses the
// register file shortcut only for r0..r31").
//
// Grounded on the teacher's ChipBus (hardware/memory/bus/bus.go): where the
// teacher gives the TIA/RIOT a narrow ChipRead/ChipWrite view of memory
// distinct from the CPU's, this package instead attaches hooks directly to
// addresses, since AVR peripherals own disjoint register ranges rather than
// sharing one chip-wide window.
type SRAM struct {
	bytes     []uint8
	ioBase    uint16
	ioEnd     uint16
	readHook  map[uint16]ReadHook
	writeHook map[uint16]WriteHook
	reserved  map[uint16]uint8
}

// NewSRAM allocates size bytes of data space. ioBase and ioEnd bound the
// inclusive I/O register window (typically 0x20..0xFF or wider on parts
// with an extended I/O space); addresses outside that window are plain RAM.
func NewSRAM(size int, ioBase, ioEnd uint16) *SRAM {
	return &SRAM{
		bytes:     make([]uint8, size),
		ioBase:    ioBase,
		ioEnd:     ioEnd,
		readHook:  make(map[uint16]ReadHook),
		writeHook: make(map[uint16]WriteHook),
		reserved:  make(map[uint16]uint8),
	}
}

// SetReserved marks mask as the reserved bits of the register at address:
// spec.md §7 resolves an open question on reserved-bit writes by saying the
// core should "surface a warning rather than guess" what real hardware
// would do with them. A subsequent write that sets any bit in mask logs a
// peripheral-warning and has those bits stripped before the value commits,
// rather than being accepted as if the bit were meaningful.
func (s *SRAM) SetReserved(address uint16, mask uint8) {
	s.reserved[address] = mask
}

// Len returns the SRAM size in bytes.
func (s *SRAM) Len() int {
	return len(s.bytes)
}

// RegisterRead installs (or replaces) the read hook for address.
func (s *SRAM) RegisterRead(address uint16, hook ReadHook) {
	s.readHook[address] = hook
}

// RegisterWrite installs (or replaces) the write hook for address.
func (s *SRAM) RegisterWrite(address uint16, hook WriteHook) {
	s.writeHook[address] = hook
}

// Read returns the byte at address, consulting a read hook if one is
// registered there. The CPU never bypasses hooks for I/O-range access
// (spec.md §4.C). An I/O-window address with no peripheral attached reads
// as 0 (spec.md §9: "access to unimplemented I/O addresses reads 0 and
// writes are ignored with a flag on the fabric") rather than falling
// through to the plain RAM byte underneath it.
func (s *SRAM) Read(address uint16) uint8 {
	if hook, ok := s.readHook[address]; ok {
		return hook(address, s.raw(address))
	}
	if s.inIOWindow(address) {
		return 0
	}
	return s.raw(address)
}

// Write stores value at address, consulting a write hook if one is
// registered there; the hook's return value is what is actually committed
// to SRAM, allowing it to mask bits (write-1-to-clear) or ignore the write
// entirely by returning the previous value unchanged. A write to an
// I/O-window address with no peripheral attached is ignored outright and
// logs a peripheral-warning (spec.md §9), rather than writing through to
// plain RAM.
func (s *SRAM) Write(address uint16, value uint8) {
	if hook, ok := s.writeHook[address]; ok {
		value = hook(address, value, s.raw(address))
	} else if s.inIOWindow(address) {
		logger.Logf(logTag, "%s", fault.New(fault.Warning, 0, address, "write to unimplemented I/O register ignored"))
		return
	}
	if mask, ok := s.reserved[address]; ok && value&mask != 0 {
		logger.Logf(logTag, "%s", fault.New(fault.Warning, 0, address, "write sets reserved bit(s), ignored"))
		value &^= mask
	}
	s.setRaw(address, value)
}

// inIOWindow reports whether address falls within the variant's I/O
// register window, regardless of whether any peripheral has claimed it.
func (s *SRAM) inIOWindow(address uint16) bool {
	return address >= s.ioBase && address <= s.ioEnd
}

// Peek reads the byte at address without consulting any hook.
func (s *SRAM) Peek(address uint16) uint8 {
	return s.raw(address)
}

// Poke writes value at address directly, bypassing hooks — used by
// debuggers and by peripherals updating their own hardware-only bits
// outside of a CPU write.
func (s *SRAM) Poke(address uint16, value uint8) {
	s.setRaw(address, value)
}

func (s *SRAM) raw(address uint16) uint8 {
	if int(address) >= len(s.bytes) {
		return 0
	}
	return s.bytes[address]
}

func (s *SRAM) setRaw(address uint16, value uint8) {
	if int(address) < len(s.bytes) {
		s.bytes[address] = value
	}
}

// InRange reports whether address falls within addressable SRAM, for the
// CPU core's memory-fault check on LD/ST (spec.md §7).
func (s *SRAM) InRange(address uint16) bool {
	return int(address) < len(s.bytes)
}

// IOBase returns the SRAM address the I/O register window starts at, so
// that IN/OUT/SBI/CBI's 5- and 6-bit I/O addresses (which are relative to
// the window, not absolute SRAM addresses) can be translated.
func (s *SRAM) IOBase() uint16 {
	return s.ioBase
}

// CheckAccess returns a memory-fault if address is out of range, for
// callers that want an error rather than a silent clamp.
func (s *SRAM) CheckAccess(address uint16) error {
	if !s.InRange(address) {
		return errors.Errorf("SRAM access at %#04x exceeds %d byte data space", address, len(s.bytes))
	}
	return nil
}
