package cpu

import "github.com/buserror/simavr-go/avr/cpu/definitions"

func init() {
	register(0xFC00, 0xF000, definitions.Definition{Mnemonic: "BRBS", Bytes: 2, Cycles: 1, Category: definitions.Flow}, execBRBS)
	register(0xFC00, 0xF400, definitions.Definition{Mnemonic: "BRBC", Bytes: 2, Cycles: 1, Category: definitions.Flow}, execBRBC)
	register(0xF000, 0xC000, definitions.Definition{Mnemonic: "RJMP", Bytes: 2, Cycles: 2, Category: definitions.Flow}, execRJMP)
	register(0xF000, 0xD000, definitions.Definition{Mnemonic: "RCALL", Bytes: 2, Cycles: 3, Category: definitions.Subroutine}, execRCALL)
	register(0xFE0E, 0x940C, definitions.Definition{Mnemonic: "JMP", Bytes: 4, Cycles: 3, Category: definitions.Flow}, execJMP)
	register(0xFE0E, 0x940E, definitions.Definition{Mnemonic: "CALL", Bytes: 4, Cycles: 4, Category: definitions.Subroutine}, execCALL)
	register(0xFFFF, 0x9508, definitions.Definition{Mnemonic: "RET", Bytes: 2, Cycles: 4, Category: definitions.Flow}, execRET)
	register(0xFFFF, 0x9518, definitions.Definition{Mnemonic: "RETI", Bytes: 2, Cycles: 4, Category: definitions.Flow}, execRETI)
	register(0xFFFF, 0x9409, definitions.Definition{Mnemonic: "IJMP", Bytes: 2, Cycles: 2, Category: definitions.Flow}, execIJMP)
	register(0xFFFF, 0x9509, definitions.Definition{Mnemonic: "ICALL", Bytes: 2, Cycles: 3, Category: definitions.Subroutine}, execICALL)
}

// sregBit reads the SREG bit BRBS/BRBC test, in BSET/BCLR's own ordering.
func sregBit(c *CPU, s uint) bool {
	return *sregFlag(c, s)
}

func execBRBS(c *CPU, opcode uint16) int {
	s := uint(opcode & 0x07)
	if sregBit(c, s) {
		c.PC.Advance(uint16(2 * int16(k7signed(opcode))))
		return 1
	}
	return 0
}

func execBRBC(c *CPU, opcode uint16) int {
	s := uint(opcode & 0x07)
	if !sregBit(c, s) {
		c.PC.Advance(uint16(2 * int16(k7signed(opcode))))
		return 1
	}
	return 0
}

func execRJMP(c *CPU, opcode uint16) int {
	c.PC.Advance(uint16(2 * int16(k12signed(opcode))))
	return 0
}

func execRCALL(c *CPU, opcode uint16) int {
	c.PushPC(c.PC.Value())
	c.PC.Advance(uint16(2 * int16(k12signed(opcode))))
	return 0
}

func execJMP(c *CPU, opcode uint16) int {
	addr := c.Flash.ReadWord(c.PC.Value() - 2)
	c.PC.Load(addr)
	return 0
}

func execCALL(c *CPU, opcode uint16) int {
	addr := c.Flash.ReadWord(c.PC.Value() - 2)
	c.PushPC(c.PC.Value())
	c.PC.Load(addr)
	return 0
}

func execRET(c *CPU, opcode uint16) int {
	c.PC.Load(c.PopPC())
	return 0
}

func execRETI(c *CPU, opcode uint16) int {
	c.PC.Load(c.PopPC())
	c.SREG.Interrupt = true
	return 0
}

// execIJMP loads Z directly into PC, the same simplification JMP/CALL use in
// place of AVR's 22-bit word address doubling.
func execIJMP(c *CPU, opcode uint16) int {
	c.PC.Load(c.Z().Value())
	return 0
}

func execICALL(c *CPU, opcode uint16) int {
	c.PushPC(c.PC.Value())
	c.PC.Load(c.Z().Value())
	return 0
}
