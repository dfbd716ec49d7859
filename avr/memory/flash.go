package memory

import "github.com/buserror/simavr-go/errors"

// Flash is the AVR's program memory: a read-mostly byte array addressed by
// the PC, addressable as bytes but holding little-endian 16-bit instruction
// words (spec.md §3). Writes are permitted only via Load, the bootloader/ELF
// loader's path into flash; ordinary CPU execution never writes it (SPM is
// out of spec.md's scope).
type Flash struct {
	bytes []uint8
}

// NewFlash allocates a flash image of size bytes, the variant's flash_end+1.
func NewFlash(size int) *Flash {
	return &Flash{bytes: make([]uint8, size)}
}

// Len returns the flash size in bytes.
func (f *Flash) Len() int {
	return len(f.bytes)
}

// Read returns the byte at address. Out-of-range reads return 0 rather than
// faulting: flash is read-mostly and the CPU's own PC-range checking is
// responsible for catching a runaway fetch (spec.md §7 memory-fault).
func (f *Flash) Read(address uint16) uint8 {
	if int(address) >= len(f.bytes) {
		return 0
	}
	return f.bytes[address]
}

// ReadWord reads a little-endian 16-bit instruction word at address.
func (f *Flash) ReadWord(address uint16) uint16 {
	return uint16(f.Read(address)) | uint16(f.Read(address+1))<<8
}

// Load copies image into flash starting at address, as an ELF loader or
// test fixture would. It returns a memory-fault if image does not fit.
func (f *Flash) Load(address uint16, image []uint8) error {
	if int(address)+len(image) > len(f.bytes) {
		return errors.Errorf("flash load at %#04x overruns %d byte image", address, len(f.bytes))
	}
	copy(f.bytes[address:], image)
	return nil
}

// Peek reads without side effects; flash has no hooks, so it is identical
// to Read.
func (f *Flash) Peek(address uint16) uint8 {
	return f.Read(address)
}

// Poke writes directly to flash, bypassing the normal load path. Used by
// debuggers and tests.
func (f *Flash) Poke(address uint16, value uint8) {
	if int(address) < len(f.bytes) {
		f.bytes[address] = value
	}
}
