package cpu

import "github.com/buserror/simavr-go/avr/cpu/definitions"

func init() {
	register(0xFC00, 0x0C00, definitions.Definition{Mnemonic: "ADD", Bytes: 2, Cycles: 1, Category: definitions.Modify}, execADD)
	register(0xFC00, 0x1C00, definitions.Definition{Mnemonic: "ADC", Bytes: 2, Cycles: 1, Category: definitions.Modify}, execADC)
	register(0xFC00, 0x1800, definitions.Definition{Mnemonic: "SUB", Bytes: 2, Cycles: 1, Category: definitions.Modify}, execSUB)
	register(0xF000, 0x5000, definitions.Definition{Mnemonic: "SUBI", Bytes: 2, Cycles: 1, Category: definitions.Modify}, execSUBI)
	register(0xFC00, 0x0800, definitions.Definition{Mnemonic: "SBC", Bytes: 2, Cycles: 1, Category: definitions.Modify}, execSBC)
	register(0xF000, 0x4000, definitions.Definition{Mnemonic: "SBCI", Bytes: 2, Cycles: 1, Category: definitions.Modify}, execSBCI)
	register(0xFC00, 0x2000, definitions.Definition{Mnemonic: "AND", Bytes: 2, Cycles: 1, Category: definitions.Modify}, execAND)
	register(0xF000, 0x7000, definitions.Definition{Mnemonic: "ANDI", Bytes: 2, Cycles: 1, Category: definitions.Modify}, execANDI)
	register(0xFC00, 0x2800, definitions.Definition{Mnemonic: "OR", Bytes: 2, Cycles: 1, Category: definitions.Modify}, execOR)
	register(0xF000, 0x6000, definitions.Definition{Mnemonic: "ORI", Bytes: 2, Cycles: 1, Category: definitions.Modify}, execORI)
	register(0xFC00, 0x2400, definitions.Definition{Mnemonic: "EOR", Bytes: 2, Cycles: 1, Category: definitions.Modify}, execEOR)
	register(0xFE0F, 0x9400, definitions.Definition{Mnemonic: "COM", Bytes: 2, Cycles: 1, Category: definitions.Modify}, execCOM)
	register(0xFE0F, 0x9401, definitions.Definition{Mnemonic: "NEG", Bytes: 2, Cycles: 1, Category: definitions.Modify}, execNEG)
	register(0xFE0F, 0x9403, definitions.Definition{Mnemonic: "INC", Bytes: 2, Cycles: 1, Category: definitions.Modify}, execINC)
	register(0xFE0F, 0x940A, definitions.Definition{Mnemonic: "DEC", Bytes: 2, Cycles: 1, Category: definitions.Modify}, execDEC)
	register(0xFF00, 0x9600, definitions.Definition{Mnemonic: "ADIW", Bytes: 2, Cycles: 2, Category: definitions.Modify}, execADIW)
	register(0xFF00, 0x9700, definitions.Definition{Mnemonic: "SBIW", Bytes: 2, Cycles: 2, Category: definitions.Modify}, execSBIW)
	register(0xFC00, 0x9C00, definitions.Definition{Mnemonic: "MUL", Bytes: 2, Cycles: 2, Category: definitions.Modify}, execMUL)
	register(0xFF00, 0x0200, definitions.Definition{Mnemonic: "MULS", Bytes: 2, Cycles: 2, Category: definitions.Modify}, execMULS)
	register(0xFF88, 0x0300, definitions.Definition{Mnemonic: "MULSU", Bytes: 2, Cycles: 2, Category: definitions.Modify}, execMULSU)
	register(0xFF88, 0x0308, definitions.Definition{Mnemonic: "FMUL", Bytes: 2, Cycles: 2, Category: definitions.Modify}, execFMUL)
	register(0xFF88, 0x0380, definitions.Definition{Mnemonic: "FMULS", Bytes: 2, Cycles: 2, Category: definitions.Modify}, execFMULS)
	register(0xFF88, 0x0388, definitions.Definition{Mnemonic: "FMULSU", Bytes: 2, Cycles: 2, Category: definitions.Modify}, execFMULSU)
	register(0xFC00, 0x1400, definitions.Definition{Mnemonic: "CP", Bytes: 2, Cycles: 1, Category: definitions.Read}, execCP)
	register(0xFC00, 0x0400, definitions.Definition{Mnemonic: "CPC", Bytes: 2, Cycles: 1, Category: definitions.Read}, execCPC)
	register(0xF000, 0x3000, definitions.Definition{Mnemonic: "CPI", Bytes: 2, Cycles: 1, Category: definitions.Read}, execCPI)
	register(0xFC00, 0x1000, definitions.Definition{Mnemonic: "CPSE", Bytes: 2, Cycles: 1, Category: definitions.Flow}, execCPSE)
}

func execADD(c *CPU, opcode uint16) int {
	d, r := d5(opcode), r5(opcode)
	carry, half, overflow := c.R[d].Add(c.R[r].Value(), false)
	c.SREG.Carry, c.SREG.HalfCarry, c.SREG.Overflow = carry, half, overflow
	c.SREG.SetNZ(c.R[d].Value())
	c.SREG.SetS()
	return 0
}

func execADC(c *CPU, opcode uint16) int {
	d, r := d5(opcode), r5(opcode)
	carry, half, overflow := c.R[d].Add(c.R[r].Value(), c.SREG.Carry)
	c.SREG.Carry, c.SREG.HalfCarry, c.SREG.Overflow = carry, half, overflow
	c.SREG.SetNZ(c.R[d].Value())
	c.SREG.SetS()
	return 0
}

func execSUB(c *CPU, opcode uint16) int {
	d, r := d5(opcode), r5(opcode)
	carry, half, overflow := c.R[d].Subtract(c.R[r].Value(), false)
	c.SREG.Carry, c.SREG.HalfCarry, c.SREG.Overflow = carry, half, overflow
	c.SREG.SetNZ(c.R[d].Value())
	c.SREG.SetS()
	return 0
}

func execSUBI(c *CPU, opcode uint16) int {
	d := d4hi(opcode)
	k := k8(opcode)
	carry, half, overflow := c.R[d].Subtract(k, false)
	c.SREG.Carry, c.SREG.HalfCarry, c.SREG.Overflow = carry, half, overflow
	c.SREG.SetNZ(c.R[d].Value())
	c.SREG.SetS()
	return 0
}

func execSBC(c *CPU, opcode uint16) int {
	d, r := d5(opcode), r5(opcode)
	carry, half, overflow := c.R[d].Subtract(c.R[r].Value(), c.SREG.Carry)
	c.SREG.Carry, c.SREG.HalfCarry, c.SREG.Overflow = carry, half, overflow
	// SBC's Zero flag is cleared only if the result is nonzero; a zero
	// result leaves Z as it was, so consecutive SBC across a 16/32-bit
	// value chain correctly reports "the whole value is zero".
	if c.R[d].Value() != 0 {
		c.SREG.Zero = false
	}
	c.SREG.Negative = c.R[d].IsNegative()
	c.SREG.SetS()
	return 0
}

func execSBCI(c *CPU, opcode uint16) int {
	d := d4hi(opcode)
	k := k8(opcode)
	carry, half, overflow := c.R[d].Subtract(k, c.SREG.Carry)
	c.SREG.Carry, c.SREG.HalfCarry, c.SREG.Overflow = carry, half, overflow
	if c.R[d].Value() != 0 {
		c.SREG.Zero = false
	}
	c.SREG.Negative = c.R[d].IsNegative()
	c.SREG.SetS()
	return 0
}

func execAND(c *CPU, opcode uint16) int {
	d, r := d5(opcode), r5(opcode)
	c.R[d].AND(c.R[r].Value())
	c.SREG.Overflow = false
	c.SREG.SetNZ(c.R[d].Value())
	c.SREG.SetS()
	return 0
}

func execANDI(c *CPU, opcode uint16) int {
	d := d4hi(opcode)
	c.R[d].AND(k8(opcode))
	c.SREG.Overflow = false
	c.SREG.SetNZ(c.R[d].Value())
	c.SREG.SetS()
	return 0
}

func execOR(c *CPU, opcode uint16) int {
	d, r := d5(opcode), r5(opcode)
	c.R[d].OR(c.R[r].Value())
	c.SREG.Overflow = false
	c.SREG.SetNZ(c.R[d].Value())
	c.SREG.SetS()
	return 0
}

func execORI(c *CPU, opcode uint16) int {
	d := d4hi(opcode)
	c.R[d].OR(k8(opcode))
	c.SREG.Overflow = false
	c.SREG.SetNZ(c.R[d].Value())
	c.SREG.SetS()
	return 0
}

func execEOR(c *CPU, opcode uint16) int {
	d, r := d5(opcode), r5(opcode)
	c.R[d].EOR(c.R[r].Value())
	c.SREG.Overflow = false
	c.SREG.SetNZ(c.R[d].Value())
	c.SREG.SetS()
	return 0
}

func execCOM(c *CPU, opcode uint16) int {
	d := d5(opcode)
	c.R[d].COM()
	c.SREG.Carry = true
	c.SREG.Overflow = false
	c.SREG.SetNZ(c.R[d].Value())
	c.SREG.SetS()
	return 0
}

func execNEG(c *CPU, opcode uint16) int {
	d := d5(opcode)
	carry, half, overflow := c.R[d].NEG()
	c.SREG.Carry, c.SREG.HalfCarry, c.SREG.Overflow = carry, half, overflow
	c.SREG.SetNZ(c.R[d].Value())
	c.SREG.SetS()
	return 0
}

func execINC(c *CPU, opcode uint16) int {
	d := d5(opcode)
	v := c.R[d].Value()
	c.R[d].Load(v + 1)
	c.SREG.Overflow = v == 0x7F
	c.SREG.SetNZ(c.R[d].Value())
	c.SREG.SetS()
	return 0
}

func execDEC(c *CPU, opcode uint16) int {
	d := d5(opcode)
	v := c.R[d].Value()
	c.R[d].Load(v - 1)
	c.SREG.Overflow = v == 0x80
	c.SREG.SetNZ(c.R[d].Value())
	c.SREG.SetS()
	return 0
}

func execADIW(c *CPU, opcode uint16) int {
	low := pairIndex(opcode)
	pair := registersPair(c, low)
	before := pair.Value()
	k := uint16(k6(opcode))
	after := before + k

	c.SREG.Overflow = before&0x8000 == 0 && after&0x8000 != 0
	c.SREG.Carry = after < before
	c.SREG.Zero = after == 0
	c.SREG.Negative = after&0x8000 != 0
	c.SREG.SetS()

	pair.Load(after)
	return 0
}

func execSBIW(c *CPU, opcode uint16) int {
	low := pairIndex(opcode)
	pair := registersPair(c, low)
	before := pair.Value()
	k := uint16(k6(opcode))
	after := before - k

	c.SREG.Overflow = before&0x8000 != 0 && after&0x8000 == 0
	c.SREG.Carry = after > before
	c.SREG.Zero = after == 0
	c.SREG.Negative = after&0x8000 != 0
	c.SREG.SetS()

	pair.Load(after)
	return 0
}

func execMUL(c *CPU, opcode uint16) int {
	d, r := d5(opcode), r5(opcode)
	result := uint16(c.R[d].Value()) * uint16(c.R[r].Value())
	c.R[0].Load(uint8(result))
	c.R[1].Load(uint8(result >> 8))
	c.SREG.Carry = result&0x8000 != 0
	c.SREG.Zero = result == 0
	return 0
}

func execMULS(c *CPU, opcode uint16) int {
	d, r := d4hi(opcode), r4hi(opcode)
	result := int16(int8(c.R[d].Value())) * int16(int8(c.R[r].Value()))
	c.R[0].Load(uint8(result))
	c.R[1].Load(uint8(result >> 8))
	c.SREG.Carry = result&-0x8000 != 0
	c.SREG.Zero = result == 0
	return 0
}

func execMULSU(c *CPU, opcode uint16) int {
	d, r := d3hi(opcode), r3hi(opcode)
	result := int16(int8(c.R[d].Value())) * int16(c.R[r].Value())
	c.R[0].Load(uint8(result))
	c.R[1].Load(uint8(result >> 8))
	c.SREG.Carry = result&-0x8000 != 0
	c.SREG.Zero = result == 0
	return 0
}

func execFMUL(c *CPU, opcode uint16) int {
	d, r := d3hi(opcode), r3hi(opcode)
	product := uint16(c.R[d].Value()) * uint16(c.R[r].Value())
	c.SREG.Carry = product&0x8000 != 0
	product <<= 1
	c.R[0].Load(uint8(product))
	c.R[1].Load(uint8(product >> 8))
	c.SREG.Zero = product == 0
	return 0
}

func execFMULS(c *CPU, opcode uint16) int {
	d, r := d3hi(opcode), r3hi(opcode)
	product := int16(int8(c.R[d].Value())) * int16(int8(c.R[r].Value()))
	c.SREG.Carry = product&-0x8000 != 0
	product <<= 1
	c.R[0].Load(uint8(product))
	c.R[1].Load(uint8(product >> 8))
	c.SREG.Zero = product == 0
	return 0
}

func execFMULSU(c *CPU, opcode uint16) int {
	d, r := d3hi(opcode), r3hi(opcode)
	product := int16(int8(c.R[d].Value())) * int16(c.R[r].Value())
	c.SREG.Carry = product&-0x8000 != 0
	product <<= 1
	c.R[0].Load(uint8(product))
	c.R[1].Load(uint8(product >> 8))
	c.SREG.Zero = product == 0
	return 0
}

func execCP(c *CPU, opcode uint16) int {
	d, r := d5(opcode), r5(opcode)
	tmp := c.R[d]
	carry, half, overflow := tmp.Subtract(c.R[r].Value(), false)
	c.SREG.Carry, c.SREG.HalfCarry, c.SREG.Overflow = carry, half, overflow
	c.SREG.SetNZ(tmp.Value())
	c.SREG.SetS()
	return 0
}

func execCPC(c *CPU, opcode uint16) int {
	d, r := d5(opcode), r5(opcode)
	tmp := c.R[d]
	carry, half, overflow := tmp.Subtract(c.R[r].Value(), c.SREG.Carry)
	c.SREG.Carry, c.SREG.HalfCarry, c.SREG.Overflow = carry, half, overflow
	if tmp.Value() != 0 {
		c.SREG.Zero = false
	}
	c.SREG.Negative = tmp.IsNegative()
	c.SREG.SetS()
	return 0
}

func execCPI(c *CPU, opcode uint16) int {
	d := d4hi(opcode)
	tmp := c.R[d]
	carry, half, overflow := tmp.Subtract(k8(opcode), false)
	c.SREG.Carry, c.SREG.HalfCarry, c.SREG.Overflow = carry, half, overflow
	c.SREG.SetNZ(tmp.Value())
	c.SREG.SetS()
	return 0
}

func execCPSE(c *CPU, opcode uint16) int {
	d, r := d5(opcode), r5(opcode)
	if c.R[d].Value() == c.R[r].Value() {
		return c.skipNextInstruction()
	}
	return 0
}
