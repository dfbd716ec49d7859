// Package registers implements the AVR core's register file from spec.md
// §3: the 32 general-purpose 8-bit registers r0-r31 (Register, with Pair for
// the X/Y/Z 16-bit index pairs), the program counter (ProgramCounter) and
// the stack pointer (StackPointer), plus the status register SREG (Status).
//
// Register defines the ALU operations an opcode needs directly: Add and
// Subtract report carry, half-carry and overflow so the CPU core can fold
// them into SREG without recomputing them; shifts and rotates report the
// bit shifted out as the new carry. Status update is always the CPU core's
// job, not the register's own — a typical opcode body reads like:
//
//	c, h, v := rd.Add(val, sreg.Carry)
//	sreg.Carry, sreg.HalfCarry, sreg.Overflow = c, h, v
//	sreg.SetNZ(rd.Value())
//	sreg.SetS()
//
// This mirrors the teacher package's own separation (hardware/cpu/registers),
// adapted from the 6502/6507's seven-flag status register to AVR's eight
// {C,Z,N,V,S,H,T,I}.
package registers
