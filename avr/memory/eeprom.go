package memory

// EEPROM is the AVR's byte-addressable non-volatile store, accessed by the
// CPU indirectly through EEARL/EEARH/EEDR/EECR rather than mapped into the
// data address space directly. Per spec.md §4.I, a read completes in one
// cycle; a write is deferred by the caller (peripherals/eeprom) through the
// cycle queue and only actually committed here once the delay elapses. This
// type owns only the byte array; the address/control register state and
// timing live in peripherals/eeprom, which is the thing that actually reacts
// to CPU I/O writes.
type EEPROM struct {
	bytes []uint8
}

// NewEEPROM allocates size bytes of EEPROM, the variant's eeprom_size.
func NewEEPROM(size int) *EEPROM {
	return &EEPROM{bytes: make([]uint8, size)}
}

// Len returns the EEPROM size in bytes.
func (e *EEPROM) Len() int {
	return len(e.bytes)
}

// Read returns the byte at address. Out-of-range addresses read as 0xFF,
// matching unprogrammed EEPROM cells.
func (e *EEPROM) Read(address uint16) uint8 {
	if int(address) >= len(e.bytes) {
		return 0xFF
	}
	return e.bytes[address]
}

// Write commits value at address. Called by peripherals/eeprom once its
// write-delay queue entry fires, not directly by the CPU.
func (e *EEPROM) Write(address uint16, value uint8) {
	if int(address) < len(e.bytes) {
		e.bytes[address] = value
	}
}

// Load copies image into EEPROM starting at address 0, as an ELF loader
// populating a .eeprom section would.
func (e *EEPROM) Load(image []uint8) {
	copy(e.bytes, image)
}
