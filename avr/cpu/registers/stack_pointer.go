package registers

// StackPointer is SP, a 16-bit register pointing anywhere in SRAM. Per
// spec.md §3/§4.D, AVR's stack grows down and PUSH is post-decrement (store,
// then decrement) while POP is pre-increment (increment, then load) — the
// opposite convention from the teacher's StackPointer
// (hardware/cpu/registers/stack_pointer.go), which is hardwired to the 6502's
// page-one addresses. AVR's SP instead addresses the whole of SRAM directly,
// so Address here is just Value; there is no page to OR in.
type StackPointer struct {
	value uint16
}

// NewStackPointer creates an SP initialised to val, normally the top of
// SRAM set by the reset vector's startup code.
func NewStackPointer(val uint16) StackPointer {
	return StackPointer{value: val}
}

// Label returns the register's name.
func (sp StackPointer) Label() string {
	return "SP"
}

// Value returns SP's current address.
func (sp StackPointer) Value() uint16 {
	return sp.value
}

// Load sets SP to val.
func (sp *StackPointer) Load(val uint16) {
	sp.value = val
}

// PushAddress returns the SRAM address a push should write to, then
// decrements SP by n (1 for PUSH/RCALL's low byte at a time, 2 for a
// 16-bit return address pushed as a pair, matching how the CPU core calls
// it).
func (sp *StackPointer) PushAddress(n uint16) uint16 {
	addr := sp.value
	sp.value -= n
	return addr
}

// PopAddress increments SP by n, then returns the SRAM address a pop should
// read from.
func (sp *StackPointer) PopAddress(n uint16) uint16 {
	sp.value += n
	return sp.value
}
