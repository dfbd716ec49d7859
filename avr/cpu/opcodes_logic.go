package cpu

import "github.com/buserror/simavr-go/avr/cpu/definitions"

func init() {
	register(0xFE0F, 0x9406, definitions.Definition{Mnemonic: "LSR", Bytes: 2, Cycles: 1, Category: definitions.Modify}, execLSR)
	register(0xFE0F, 0x9407, definitions.Definition{Mnemonic: "ROR", Bytes: 2, Cycles: 1, Category: definitions.Modify}, execROR)
	register(0xFE0F, 0x9405, definitions.Definition{Mnemonic: "ASR", Bytes: 2, Cycles: 1, Category: definitions.Modify}, execASR)
	register(0xFE0F, 0x9402, definitions.Definition{Mnemonic: "SWAP", Bytes: 2, Cycles: 1, Category: definitions.Modify}, execSWAP)
	register(0xFC00, 0x2C00, definitions.Definition{Mnemonic: "MOV", Bytes: 2, Cycles: 1, Category: definitions.Write}, execMOV)
	register(0xFF00, 0x0100, definitions.Definition{Mnemonic: "MOVW", Bytes: 2, Cycles: 1, Category: definitions.Write}, execMOVW)
	register(0xF000, 0xE000, definitions.Definition{Mnemonic: "LDI", Bytes: 2, Cycles: 1, Category: definitions.Write}, execLDI)
}

func execLSR(c *CPU, opcode uint16) int {
	d := d5(opcode)
	c.SREG.Carry = c.R[d].LSR()
	c.SREG.Negative = false
	c.SREG.Zero = c.R[d].IsZero()
	c.SREG.Overflow = c.SREG.Negative != c.SREG.Carry
	c.SREG.SetS()
	return 0
}

func execROR(c *CPU, opcode uint16) int {
	d := d5(opcode)
	c.SREG.Carry = c.R[d].ROR(c.SREG.Carry)
	c.SREG.SetNZ(c.R[d].Value())
	c.SREG.Overflow = c.SREG.Negative != c.SREG.Carry
	c.SREG.SetS()
	return 0
}

func execASR(c *CPU, opcode uint16) int {
	d := d5(opcode)
	c.SREG.Carry = c.R[d].ASR()
	c.SREG.SetNZ(c.R[d].Value())
	c.SREG.Overflow = c.SREG.Negative != c.SREG.Carry
	c.SREG.SetS()
	return 0
}

func execSWAP(c *CPU, opcode uint16) int {
	d := d5(opcode)
	c.R[d].Swap()
	return 0
}

func execMOV(c *CPU, opcode uint16) int {
	d, r := d5(opcode), r5(opcode)
	c.R[d].Load(c.R[r].Value())
	return 0
}

func execMOVW(c *CPU, opcode uint16) int {
	d, r := movwPair(opcode)
	dst := registersPair(c, d)
	src := registersPair(c, r)
	dst.Load(src.Value())
	return 0
}

func execLDI(c *CPU, opcode uint16) int {
	d := d4hi(opcode)
	c.R[d].Load(k8(opcode))
	return 0
}
