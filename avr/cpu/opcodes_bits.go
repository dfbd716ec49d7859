package cpu

import "github.com/buserror/simavr-go/avr/cpu/definitions"

func init() {
	register(0xFF8F, 0x9408, definitions.Definition{Mnemonic: "BSET", Bytes: 2, Cycles: 1, Category: definitions.Modify}, execBSET)
	register(0xFF8F, 0x9488, definitions.Definition{Mnemonic: "BCLR", Bytes: 2, Cycles: 1, Category: definitions.Modify}, execBCLR)
	register(0xFE08, 0xFC00, definitions.Definition{Mnemonic: "SBRC", Bytes: 2, Cycles: 1, Category: definitions.Flow}, execSBRC)
	register(0xFE08, 0xFE00, definitions.Definition{Mnemonic: "SBRS", Bytes: 2, Cycles: 1, Category: definitions.Flow}, execSBRS)
	register(0xFE08, 0xF800, definitions.Definition{Mnemonic: "BLD", Bytes: 2, Cycles: 1, Category: definitions.Write}, execBLD)
	register(0xFE08, 0xFA00, definitions.Definition{Mnemonic: "BST", Bytes: 2, Cycles: 1, Category: definitions.Read}, execBST)
	register(0xFF00, 0x9A00, definitions.Definition{Mnemonic: "SBI", Bytes: 2, Cycles: 2, Category: definitions.Write}, execSBI)
	register(0xFF00, 0x9800, definitions.Definition{Mnemonic: "CBI", Bytes: 2, Cycles: 2, Category: definitions.Write}, execCBI)
	register(0xFF00, 0x9900, definitions.Definition{Mnemonic: "SBIC", Bytes: 2, Cycles: 1, Category: definitions.Flow}, execSBIC)
	register(0xFF00, 0x9B00, definitions.Definition{Mnemonic: "SBIS", Bytes: 2, Cycles: 1, Category: definitions.Flow}, execSBIS)
}

// sregFlag returns a pointer to the SREG bit named by the BSET/BCLR 3-bit
// selector, in AVR's canonical order (0=C,1=Z,2=N,3=V,4=S,5=H,6=T,7=I).
func sregFlag(c *CPU, s uint) *bool {
	switch s {
	case 0:
		return &c.SREG.Carry
	case 1:
		return &c.SREG.Zero
	case 2:
		return &c.SREG.Negative
	case 3:
		return &c.SREG.Overflow
	case 4:
		return &c.SREG.Sign
	case 5:
		return &c.SREG.HalfCarry
	case 6:
		return &c.SREG.Transfer
	default:
		return &c.SREG.Interrupt
	}
}

func execBSET(c *CPU, opcode uint16) int {
	*sregFlag(c, sreg3(opcode)) = true
	return 0
}

func execBCLR(c *CPU, opcode uint16) int {
	*sregFlag(c, sreg3(opcode)) = false
	return 0
}

// skipCost reports the extra cycles (beyond 1) and words consumed by
// skipping the instruction at PC, per the datasheet: +1 cycle/word for a
// two-word instruction, +0 more for a one-word one (SBRC/SBRS/SBIC/SBIS
// base Cycles of 1 already covers the no-skip case).
func (c *CPU) skipNextInstruction() int {
	next := c.Flash.ReadWord(c.PC.Value())
	def, _ := Decode(next)
	words := 1
	if def != nil {
		words = def.Bytes / 2
	}
	c.PC.Advance(uint16(words * 2))
	if words == 2 {
		return 2
	}
	return 1
}

func execSBRC(c *CPU, opcode uint16) int {
	r := d5(opcode)
	bit := bit3(opcode)
	if c.R[r].Value()&(1<<bit) == 0 {
		return c.skipNextInstruction()
	}
	return 0
}

func execSBRS(c *CPU, opcode uint16) int {
	r := d5(opcode)
	bit := bit3(opcode)
	if c.R[r].Value()&(1<<bit) != 0 {
		return c.skipNextInstruction()
	}
	return 0
}

func execBLD(c *CPU, opcode uint16) int {
	d := d5(opcode)
	bit := bit3(opcode)
	v := c.R[d].Value()
	if c.SREG.Transfer {
		v |= 1 << bit
	} else {
		v &^= 1 << bit
	}
	c.R[d].Load(v)
	return 0
}

func execBST(c *CPU, opcode uint16) int {
	d := d5(opcode)
	bit := bit3(opcode)
	c.SREG.Transfer = c.R[d].Value()&(1<<bit) != 0
	return 0
}

func execSBI(c *CPU, opcode uint16) int {
	addr := c.ioAddr(io5(opcode))
	bit := bit3(opcode)
	c.SRAM.Write(addr, c.SRAM.Read(addr)|1<<bit)
	return 0
}

func execCBI(c *CPU, opcode uint16) int {
	addr := c.ioAddr(io5(opcode))
	bit := bit3(opcode)
	c.SRAM.Write(addr, c.SRAM.Read(addr)&^(1<<bit))
	return 0
}

func execSBIC(c *CPU, opcode uint16) int {
	addr := c.ioAddr(io5(opcode))
	bit := bit3(opcode)
	if c.SRAM.Read(addr)&(1<<bit) == 0 {
		return c.skipNextInstruction()
	}
	return 0
}

func execSBIS(c *CPU, opcode uint16) int {
	addr := c.ioAddr(io5(opcode))
	bit := bit3(opcode)
	if c.SRAM.Read(addr)&(1<<bit) != 0 {
		return c.skipNextInstruction()
	}
	return 0
}
