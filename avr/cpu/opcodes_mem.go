package cpu

import "github.com/buserror/simavr-go/avr/cpu/definitions"

func init() {
	register(0xF800, 0xB000, definitions.Definition{Mnemonic: "IN", Bytes: 2, Cycles: 1, Category: definitions.Read}, execIN)
	register(0xF800, 0xB800, definitions.Definition{Mnemonic: "OUT", Bytes: 2, Cycles: 1, Category: definitions.Write}, execOUT)
	register(0xFE0F, 0x920F, definitions.Definition{Mnemonic: "PUSH", Bytes: 2, Cycles: 2, Category: definitions.Write}, execPUSH)
	register(0xFE0F, 0x900F, definitions.Definition{Mnemonic: "POP", Bytes: 2, Cycles: 2, Category: definitions.Read}, execPOP)

	register(0xFE0F, 0x9000, definitions.Definition{Mnemonic: "LDS", Bytes: 4, Cycles: 2, Category: definitions.Read}, execLDS)
	register(0xFE0F, 0x9200, definitions.Definition{Mnemonic: "STS", Bytes: 4, Cycles: 2, Category: definitions.Write}, execSTS)

	register(0xFE0F, 0x900C, definitions.Definition{Mnemonic: "LD X", Bytes: 2, Cycles: 2, Category: definitions.Read}, execLD_X)
	register(0xFE0F, 0x900D, definitions.Definition{Mnemonic: "LD X+", Bytes: 2, Cycles: 2, Category: definitions.Read}, execLD_Xinc)
	register(0xFE0F, 0x900E, definitions.Definition{Mnemonic: "LD -X", Bytes: 2, Cycles: 2, Category: definitions.Read}, execLD_decX)

	register(0xFE0F, 0x8008, definitions.Definition{Mnemonic: "LD Y", Bytes: 2, Cycles: 2, Category: definitions.Read}, execLD_Y)
	register(0xFE0F, 0x9009, definitions.Definition{Mnemonic: "LD Y+", Bytes: 2, Cycles: 2, Category: definitions.Read}, execLD_Yinc)
	register(0xFE0F, 0x900A, definitions.Definition{Mnemonic: "LD -Y", Bytes: 2, Cycles: 2, Category: definitions.Read}, execLD_decY)

	register(0xFE0F, 0x8000, definitions.Definition{Mnemonic: "LD Z", Bytes: 2, Cycles: 2, Category: definitions.Read}, execLD_Z)
	register(0xFE0F, 0x9001, definitions.Definition{Mnemonic: "LD Z+", Bytes: 2, Cycles: 2, Category: definitions.Read}, execLD_Zinc)
	register(0xFE0F, 0x9002, definitions.Definition{Mnemonic: "LD -Z", Bytes: 2, Cycles: 2, Category: definitions.Read}, execLD_decZ)

	register(0xD208, 0x8008, definitions.Definition{Mnemonic: "LDD Y+q", Bytes: 2, Cycles: 2, Category: definitions.Read}, execLDD_Y)
	register(0xD208, 0x8000, definitions.Definition{Mnemonic: "LDD Z+q", Bytes: 2, Cycles: 2, Category: definitions.Read}, execLDD_Z)

	register(0xFE0F, 0x920C, definitions.Definition{Mnemonic: "ST X", Bytes: 2, Cycles: 2, Category: definitions.Write}, execST_X)
	register(0xFE0F, 0x920D, definitions.Definition{Mnemonic: "ST X+", Bytes: 2, Cycles: 2, Category: definitions.Write}, execST_Xinc)
	register(0xFE0F, 0x920E, definitions.Definition{Mnemonic: "ST -X", Bytes: 2, Cycles: 2, Category: definitions.Write}, execST_decX)

	register(0xFE0F, 0x8208, definitions.Definition{Mnemonic: "ST Y", Bytes: 2, Cycles: 2, Category: definitions.Write}, execST_Y)
	register(0xFE0F, 0x9209, definitions.Definition{Mnemonic: "ST Y+", Bytes: 2, Cycles: 2, Category: definitions.Write}, execST_Yinc)
	register(0xFE0F, 0x920A, definitions.Definition{Mnemonic: "ST -Y", Bytes: 2, Cycles: 2, Category: definitions.Write}, execST_decY)

	register(0xFE0F, 0x8200, definitions.Definition{Mnemonic: "ST Z", Bytes: 2, Cycles: 2, Category: definitions.Write}, execST_Z)
	register(0xFE0F, 0x9201, definitions.Definition{Mnemonic: "ST Z+", Bytes: 2, Cycles: 2, Category: definitions.Write}, execST_Zinc)
	register(0xFE0F, 0x9202, definitions.Definition{Mnemonic: "ST -Z", Bytes: 2, Cycles: 2, Category: definitions.Write}, execST_decZ)

	register(0xD208, 0x8208, definitions.Definition{Mnemonic: "STD Y+q", Bytes: 2, Cycles: 2, Category: definitions.Write}, execSTD_Y)
	register(0xD208, 0x8200, definitions.Definition{Mnemonic: "STD Z+q", Bytes: 2, Cycles: 2, Category: definitions.Write}, execSTD_Z)
}

// ioAddr translates an I/O register number (the operand IN/OUT/SBI/CBI
// encode) into an absolute SRAM address.
func (c *CPU) ioAddr(n uint16) uint16 {
	return c.SRAM.IOBase() + n
}

func execIN(c *CPU, opcode uint16) int {
	d := d5(opcode)
	c.R[d].Load(c.SRAM.Read(c.ioAddr(io6(opcode))))
	return 0
}

func execOUT(c *CPU, opcode uint16) int {
	d := d5(opcode)
	c.SRAM.Write(c.ioAddr(io6(opcode)), c.R[d].Value())
	return 0
}

func execPUSH(c *CPU, opcode uint16) int {
	d := d5(opcode)
	c.Push(c.R[d].Value())
	return 0
}

func execPOP(c *CPU, opcode uint16) int {
	d := d5(opcode)
	c.R[d].Load(c.Pop())
	return 0
}

func execLDS(c *CPU, opcode uint16) int {
	d := d5(opcode)
	addr := c.Flash.ReadWord(c.PC.Value() - 2)
	c.R[d].Load(c.SRAM.Read(addr))
	return 0
}

func execSTS(c *CPU, opcode uint16) int {
	r := d5(opcode)
	addr := c.Flash.ReadWord(c.PC.Value() - 2)
	c.SRAM.Write(addr, c.R[r].Value())
	return 0
}

func execLD_X(c *CPU, opcode uint16) int {
	d := d5(opcode)
	c.R[d].Load(c.SRAM.Read(c.X().Value()))
	return 0
}

func execLD_Xinc(c *CPU, opcode uint16) int {
	d := d5(opcode)
	x := c.X()
	c.R[d].Load(c.SRAM.Read(x.Value()))
	x.Add(1)
	return 0
}

func execLD_decX(c *CPU, opcode uint16) int {
	d := d5(opcode)
	x := c.X()
	x.Add(-1)
	c.R[d].Load(c.SRAM.Read(x.Value()))
	return 0
}

func execLD_Y(c *CPU, opcode uint16) int {
	d := d5(opcode)
	c.R[d].Load(c.SRAM.Read(c.Y().Value()))
	return 0
}

func execLD_Yinc(c *CPU, opcode uint16) int {
	d := d5(opcode)
	y := c.Y()
	c.R[d].Load(c.SRAM.Read(y.Value()))
	y.Add(1)
	return 0
}

func execLD_decY(c *CPU, opcode uint16) int {
	d := d5(opcode)
	y := c.Y()
	y.Add(-1)
	c.R[d].Load(c.SRAM.Read(y.Value()))
	return 0
}

func execLD_Z(c *CPU, opcode uint16) int {
	d := d5(opcode)
	c.R[d].Load(c.SRAM.Read(c.Z().Value()))
	return 0
}

func execLD_Zinc(c *CPU, opcode uint16) int {
	d := d5(opcode)
	z := c.Z()
	c.R[d].Load(c.SRAM.Read(z.Value()))
	z.Add(1)
	return 0
}

func execLD_decZ(c *CPU, opcode uint16) int {
	d := d5(opcode)
	z := c.Z()
	z.Add(-1)
	c.R[d].Load(c.SRAM.Read(z.Value()))
	return 0
}

func execLDD_Y(c *CPU, opcode uint16) int {
	d := d5(opcode)
	addr := c.Y().Value() + qDisplacement(opcode)
	c.R[d].Load(c.SRAM.Read(addr))
	return 0
}

func execLDD_Z(c *CPU, opcode uint16) int {
	d := d5(opcode)
	addr := c.Z().Value() + qDisplacement(opcode)
	c.R[d].Load(c.SRAM.Read(addr))
	return 0
}

func execST_X(c *CPU, opcode uint16) int {
	r := d5(opcode)
	c.SRAM.Write(c.X().Value(), c.R[r].Value())
	return 0
}

func execST_Xinc(c *CPU, opcode uint16) int {
	r := d5(opcode)
	x := c.X()
	c.SRAM.Write(x.Value(), c.R[r].Value())
	x.Add(1)
	return 0
}

func execST_decX(c *CPU, opcode uint16) int {
	r := d5(opcode)
	x := c.X()
	x.Add(-1)
	c.SRAM.Write(x.Value(), c.R[r].Value())
	return 0
}

func execST_Y(c *CPU, opcode uint16) int {
	r := d5(opcode)
	c.SRAM.Write(c.Y().Value(), c.R[r].Value())
	return 0
}

func execST_Yinc(c *CPU, opcode uint16) int {
	r := d5(opcode)
	y := c.Y()
	c.SRAM.Write(y.Value(), c.R[r].Value())
	y.Add(1)
	return 0
}

func execST_decY(c *CPU, opcode uint16) int {
	r := d5(opcode)
	y := c.Y()
	y.Add(-1)
	c.SRAM.Write(y.Value(), c.R[r].Value())
	return 0
}

func execST_Z(c *CPU, opcode uint16) int {
	r := d5(opcode)
	c.SRAM.Write(c.Z().Value(), c.R[r].Value())
	return 0
}

func execST_Zinc(c *CPU, opcode uint16) int {
	r := d5(opcode)
	z := c.Z()
	c.SRAM.Write(z.Value(), c.R[r].Value())
	z.Add(1)
	return 0
}

func execST_decZ(c *CPU, opcode uint16) int {
	r := d5(opcode)
	z := c.Z()
	z.Add(-1)
	c.SRAM.Write(z.Value(), c.R[r].Value())
	return 0
}

func execSTD_Y(c *CPU, opcode uint16) int {
	r := d5(opcode)
	addr := c.Y().Value() + qDisplacement(opcode)
	c.SRAM.Write(addr, c.R[r].Value())
	return 0
}

func execSTD_Z(c *CPU, opcode uint16) int {
	r := d5(opcode)
	addr := c.Z().Value() + qDisplacement(opcode)
	c.SRAM.Write(addr, c.R[r].Value())
	return 0
}
