package registers

import "strings"

// Status is SREG, the AVR status register. Bit layout (high to low) is
// I T H S V N Z C, per spec.md §3's "an 8-bit status register with bits
// {C,Z,N,V,S,H,T,I}". Grounded on the teacher's registers.Status type
// (hardware/cpu/registers/status.go), which stores a 6502 status register
// the same way: as named bools rather than a raw byte, converting to/from
// uint8 only at the stack boundary. The AVR register differs from the 6502
// one in which bits exist (T and H replace 6502's Break/DecimalMode) and in
// bit order, but the shape — named bools, Value()/Load() for the stack, a
// String() for display — carries over directly.
type Status struct {
	Interrupt bool // I, bit 7 — global interrupt enable
	Transfer  bool // T, bit 6 — bit copy storage, used by BLD/BST
	HalfCarry bool // H, bit 5 — carry/borrow out of bit 3
	Sign      bool // S, bit 4 — N xor V
	Overflow  bool // V, bit 3 — two's complement overflow
	Negative  bool // N, bit 2 — MSB of the result
	Zero      bool // Z, bit 1
	Carry     bool // C, bit 0
}

// NewStatus returns SREG cleared to its post-reset value (all flags clear).
func NewStatus() Status {
	return Status{}
}

// Label returns the canonical register name.
func (sr Status) Label() string { return "SREG" }

// String renders SREG as its eight flag letters, upper case when set, lower
// case when clear, high bit first: ITHSVNZC.
func (sr Status) String() string {
	var s strings.Builder
	writeFlag(&s, sr.Interrupt, 'I')
	writeFlag(&s, sr.Transfer, 'T')
	writeFlag(&s, sr.HalfCarry, 'H')
	writeFlag(&s, sr.Sign, 'S')
	writeFlag(&s, sr.Overflow, 'V')
	writeFlag(&s, sr.Negative, 'N')
	writeFlag(&s, sr.Zero, 'Z')
	writeFlag(&s, sr.Carry, 'C')
	return s.String()
}

func writeFlag(s *strings.Builder, set bool, r rune) {
	if set {
		s.WriteRune(r)
	} else {
		s.WriteRune(r - 'A' + 'a')
	}
}

// Value packs SREG into the byte form used by the IN/OUT SREG instructions
// and by the I/O register model.
func (sr Status) Value() uint8 {
	var v uint8
	if sr.Interrupt {
		v |= 0x80
	}
	if sr.Transfer {
		v |= 0x40
	}
	if sr.HalfCarry {
		v |= 0x20
	}
	if sr.Sign {
		v |= 0x10
	}
	if sr.Overflow {
		v |= 0x08
	}
	if sr.Negative {
		v |= 0x04
	}
	if sr.Zero {
		v |= 0x02
	}
	if sr.Carry {
		v |= 0x01
	}
	return v
}

// Load sets every SREG flag from a byte, as when SREG is written directly
// via OUT or restored by a save/restore sequence.
func (sr *Status) Load(v uint8) {
	sr.Interrupt = v&0x80 != 0
	sr.Transfer = v&0x40 != 0
	sr.HalfCarry = v&0x20 != 0
	sr.Sign = v&0x10 != 0
	sr.Overflow = v&0x08 != 0
	sr.Negative = v&0x04 != 0
	sr.Zero = v&0x02 != 0
	sr.Carry = v&0x01 != 0
}

// SetNZ sets the Zero and Negative flags from result, the standard pair
// almost every ALU and data-movement opcode updates.
func (sr *Status) SetNZ(result uint8) {
	sr.Zero = result == 0
	sr.Negative = result&0x80 != 0
}

// SetS recomputes the Sign flag as N xor V. Every opcode that touches N or V
// must call this afterwards to keep S consistent, per spec.md §4.D.
func (sr *Status) SetS() {
	sr.Sign = sr.Negative != sr.Overflow
}
