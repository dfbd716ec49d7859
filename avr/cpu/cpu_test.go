package cpu_test

import (
	"testing"

	"github.com/buserror/simavr-go/avr/cpu"
	"github.com/buserror/simavr-go/avr/interrupt"
	"github.com/buserror/simavr-go/avr/memory"
	"github.com/buserror/simavr-go/internal/simtest"
	"github.com/buserror/simavr-go/queue"
)

func newCPU(t *testing.T, program []uint8) *cpu.CPU {
	t.Helper()
	flash := memory.NewFlash(8192)
	simtest.ExpectSuccess(t, flash.Load(0, program))
	sram := memory.NewSRAM(2048, 0x20, 0xFF)
	c := cpu.New(flash, sram, interrupt.NewController(), queue.New(), 4)
	c.Reset()
	return c
}

// TestADDSetsFlagsPerSpecScenario1 reproduces spec.md §8 scenario 1: ADD
// r0,r1 with r0=0x7F, r1=0x01, SREG=0 -> r0=0x80, N=1,V=1,S=0,H=1,Z=0,C=0.
func TestADDSetsFlagsPerSpecScenario1(t *testing.T) {
	// ADD r0,r1 => 0000 11rd dddd rrrr, d=0 (dddd=00000), r=1 (r bit4=0 at
	// bit9, r3-r0=0001 at bits3-0).
	opcode := uint16(0x0C00 | (0 << 4) | (1 & 0x0F))
	c := newCPU(t, []uint8{uint8(opcode), uint8(opcode >> 8)})
	c.R[0].Load(0x7F)
	c.R[1].Load(0x01)

	result := c.Step()
	simtest.ExpectSuccess(t, result.Fault == nil)
	simtest.Equate(t, c.R[0].Value(), uint8(0x80))
	simtest.ExpectSuccess(t, c.SREG.Negative)
	simtest.ExpectSuccess(t, c.SREG.Overflow)
	simtest.ExpectFailure(t, c.SREG.Sign)
	simtest.ExpectSuccess(t, c.SREG.HalfCarry)
	simtest.ExpectFailure(t, c.SREG.Zero)
	simtest.ExpectFailure(t, c.SREG.Carry)
}

func TestIllegalOpcodeHalts(t *testing.T) {
	c := newCPU(t, []uint8{0xFF, 0x00}) // 0x00FF decodes to nothing registered
	result := c.Step()
	simtest.ExpectFailure(t, result.Fault == nil)
	simtest.ExpectSuccess(t, result.Halted)
	simtest.Equate(t, c.State, cpu.Halted)
}

func TestLDIandOUTandIN(t *testing.T) {
	// LDI r16, 0x55 ; OUT 0x20, r16 ; IN r17, 0x20
	ldi := uint16(0xE000 | (uint16(0x55&0xF0) << 4) | uint16(0x55&0x0F))
	out := uint16(0xB800 | 0x400 | (16 << 4))
	in := uint16(0xB000 | 0x400 | (17 << 4))

	program := []uint8{
		uint8(ldi), uint8(ldi >> 8),
		uint8(out), uint8(out >> 8),
		uint8(in), uint8(in >> 8),
	}
	c := newCPU(t, program)
	// 0x20 is an unimplemented I/O register by default (reads 0, ignores
	// writes, per spec.md §9); register a trivial pass-through hook so this
	// test exercises OUT/IN against a register the way a real peripheral
	// would claim it.
	c.SRAM.RegisterWrite(0x20, func(_ uint16, value, _ uint8) uint8 { return value })

	c.Step() // LDI r16, 0x55
	simtest.Equate(t, c.R[16].Value(), uint8(0x55))

	c.Step() // OUT 0x20, r16
	simtest.Equate(t, c.SRAM.Read(0x20), uint8(0x55))

	c.Step() // IN r17, 0x20
	simtest.Equate(t, c.R[17].Value(), uint8(0x55))
}

func TestCPSESkipsWhenRegistersEqual(t *testing.T) {
	// CPSE r0,r1 ; NOP ; NOP  -- d=0, r=1, both registers equal.
	cpse := uint16(0x1000 | (0 << 4) | (1 & 0x0F))
	nop := uint16(0x0000)
	c := newCPU(t, []uint8{uint8(cpse), uint8(cpse >> 8), uint8(nop), uint8(nop >> 8)})
	c.R[0].Load(5)
	c.R[1].Load(5)

	result := c.Step()
	simtest.Equate(t, c.PC.Value(), uint16(4))
	simtest.Equate(t, result.Cycles, 1+1)
}

func TestCPSEDoesNotSkipWhenRegistersDiffer(t *testing.T) {
	cpse := uint16(0x1000 | (0 << 4) | (1 & 0x0F))
	c := newCPU(t, []uint8{uint8(cpse), uint8(cpse >> 8)})
	c.R[0].Load(5)
	c.R[1].Load(6)

	c.Step()
	simtest.Equate(t, c.PC.Value(), uint16(2))
}

func TestIJMPAndICALLUseZ(t *testing.T) {
	// IJMP at address 0, target 0x0010.
	ijmp := uint16(0x9409)
	program := make([]uint8, 0x12)
	program[0] = uint8(ijmp)
	program[1] = uint8(ijmp >> 8)
	c := newCPU(t, program)
	c.R[30].Load(0x10) // Zlo
	c.R[31].Load(0x00) // Zhi

	c.Step()
	simtest.Equate(t, c.PC.Value(), uint16(0x0010))
}

func TestICALLPushesReturnAddress(t *testing.T) {
	icall := uint16(0x9509)
	c := newCPU(t, []uint8{uint8(icall), uint8(icall >> 8)})
	c.R[30].Load(0x20)
	c.R[31].Load(0x00)

	c.Step()
	simtest.Equate(t, c.PC.Value(), uint16(0x0020))
	simtest.Equate(t, c.PopPC(), uint16(0x0002))
}

func TestBREAKIsNoOp(t *testing.T) {
	brk := uint16(0x9598)
	c := newCPU(t, []uint8{uint8(brk), uint8(brk >> 8)})
	result := c.Step()
	simtest.ExpectSuccess(t, result.Fault == nil)
	simtest.Equate(t, c.PC.Value(), uint16(2))
}

func TestMULSSignedMultiply(t *testing.T) {
	// MULS r16,r17 => -2 * 3 = -6
	muls := uint16(0x0200 | ((16 - 16) << 4) | (17 - 16))
	c := newCPU(t, []uint8{uint8(muls), uint8(muls >> 8)})
	c.R[16].Load(uint8(int8(-2)))
	c.R[17].Load(3)

	c.Step()
	result := int16(c.R[0].Value()) | int16(c.R[1].Value())<<8
	simtest.Equate(t, result, int16(-6))
}

func TestFMULShiftsProductLeftOne(t *testing.T) {
	// FMUL r16,r16 => 0.5 * 0.5 fixed point in unsigned Q0.7: 0x40*0x40 = 0x1000, <<1 = 0x2000
	fmul := uint16(0x0308 | ((16 - 16) << 4) | (16 - 16))
	c := newCPU(t, []uint8{uint8(fmul), uint8(fmul >> 8)})
	c.R[16].Load(0x40)

	c.Step()
	result := uint16(c.R[0].Value()) | uint16(c.R[1].Value())<<8
	simtest.Equate(t, result, uint16(0x2000))
}

func TestRJMPMovesProgramCounter(t *testing.T) {
	// RJMP +2 words => 1100 kkkk kkkk kkkk, k=2
	opcode := uint16(0xC000 | 2)
	c := newCPU(t, []uint8{uint8(opcode), uint8(opcode >> 8)})
	c.Step()
	simtest.Equate(t, c.PC.Value(), uint16(2+2*2))
}

func TestPushPopRoundTrip(t *testing.T) {
	// PUSH r16 ; POP r17
	push := uint16(0x920F | (16 << 4))
	pop := uint16(0x900F | (17 << 4))
	c := newCPU(t, []uint8{uint8(push), uint8(push >> 8), uint8(pop), uint8(pop >> 8)})
	c.R[16].Load(0xAB)

	c.Step()
	c.Step()

	simtest.Equate(t, c.R[17].Value(), uint8(0xAB))
}

func TestCallAndRet(t *testing.T) {
	// CALL 0x0010 (4 bytes) at address 0; RET at 0x0010
	call := uint16(0x940E)
	ret := uint16(0x9508)
	program := make([]uint8, 0x12)
	program[0] = uint8(call)
	program[1] = uint8(call >> 8)
	program[2] = uint8(0x0010)
	program[3] = uint8(0x0010 >> 8)
	program[0x10] = uint8(ret)
	program[0x11] = uint8(ret >> 8)

	c := newCPU(t, program)
	c.Step() // CALL
	simtest.Equate(t, c.PC.Value(), uint16(0x0010))

	c.Step() // RET
	simtest.Equate(t, c.PC.Value(), uint16(0x0004))
}

func TestSREGBSETBCLR(t *testing.T) {
	// SEI is BSET s=7; CLI is BCLR s=7
	sei := uint16(0x9408 | (7 << 4))
	cli := uint16(0x9488 | (7 << 4))
	c := newCPU(t, []uint8{uint8(sei), uint8(sei >> 8), uint8(cli), uint8(cli >> 8)})

	c.Step()
	simtest.ExpectSuccess(t, c.SREG.Interrupt)

	c.Step()
	simtest.ExpectFailure(t, c.SREG.Interrupt)
}

func TestSleepWithInterruptsDisabledHalts(t *testing.T) {
	sleep := uint16(0x9588)
	c := newCPU(t, []uint8{uint8(sleep), uint8(sleep >> 8)})
	c.SREG.Interrupt = false

	c.Step()
	simtest.Equate(t, c.State, cpu.Halted)
}

func TestInterruptServiceAndReti(t *testing.T) {
	nop := uint16(0x0000)
	reti := uint16(0x9518)
	program := make([]uint8, 0x10)
	program[0] = uint8(nop)
	program[1] = uint8(nop >> 8)
	// vector 1 at address 1*4=4
	program[4] = uint8(reti)
	program[5] = uint8(reti >> 8)

	c := newCPU(t, program)
	c.SREG.Interrupt = true
	c.Interrupts.RegisterVector(interrupt.Vector{Number: 1, Name: "test"})
	c.Interrupts.Raise(1)
	c.Interrupts.SetEnabled(1, true)

	result := c.Step() // services the interrupt instead of executing NOP
	simtest.ExpectFailure(t, result.Fault != nil)
	simtest.Equate(t, c.PC.Value(), uint16(4))
	simtest.ExpectFailure(t, c.SREG.Interrupt)

	c.Step() // RETI
	simtest.Equate(t, c.PC.Value(), uint16(0))
	simtest.ExpectSuccess(t, c.SREG.Interrupt)
}
