package avr

import "github.com/buserror/simavr-go/avr/variant"

// Config collects those parts of a simulator instance that can change
// between runs without changing the core's code: which variant is loaded,
// its flash/EEPROM images, and initial register values. It is passed by
// value to New and resolved once at construction, following the teacher's
// instance.Instance pattern (hardware/instance/instance.go) of a small
// shared struct every subsystem reads from rather than reaching for global
// state (spec.md §9's "treat the simulator as a single owning object").
type Config struct {
	Variant variant.Descriptor

	// Flash is the firmware image to load at address 0. Shorter than
	// Variant.FlashSize is fine; the remainder stays zeroed.
	Flash []uint8

	// EEPROM is the initial EEPROM contents, or nil for all-0xFF (the
	// typical erased state).
	EEPROM []uint8

	// InitialSP, if nonzero, overrides the reset default of SRAM's top
	// address. Firmware never needs this; it exists for tests that want to
	// exercise stack-bounds faults without filling all of SRAM.
	InitialSP uint16
}
