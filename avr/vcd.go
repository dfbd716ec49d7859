package avr

import "github.com/buserror/simavr-go/avr/variant"

// VCDSignals returns the (name, width) pairs the loaded variant requests for
// tracing (SPEC_FULL.md's Supplemented Features, matching simavr's
// avr_mcu_section.h trace-request list). The simulator does not write VCD
// files itself — spec.md §1 keeps that writer external — this accessor only
// exposes the list an external trace writer would subscribe the
// corresponding IRQ nodes to.
func (s *Simulator) VCDSignals() []variant.VCDSignal {
	return s.Variant.VCDSignals
}
