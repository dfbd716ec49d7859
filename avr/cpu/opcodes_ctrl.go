package cpu

import "github.com/buserror/simavr-go/avr/cpu/definitions"

func init() {
	register(0xFFFF, 0x0000, definitions.Definition{Mnemonic: "NOP", Bytes: 2, Cycles: 1, Category: definitions.Read}, execNOP)
	register(0xFFFF, 0x9588, definitions.Definition{Mnemonic: "SLEEP", Bytes: 2, Cycles: 1, Category: definitions.Flow}, execSLEEP)
	register(0xFFFF, 0x95A8, definitions.Definition{Mnemonic: "WDR", Bytes: 2, Cycles: 1, Category: definitions.Write}, execWDR)
	register(0xFFFF, 0x95C8, definitions.Definition{Mnemonic: "LPM", Bytes: 2, Cycles: 3, Category: definitions.Read}, execLPM)
	register(0xFFFF, 0x9598, definitions.Definition{Mnemonic: "BREAK", Bytes: 2, Cycles: 1, Category: definitions.Read}, execBREAK)
}

func execNOP(c *CPU, opcode uint16) int {
	return 0
}

// execBREAK is debugWire's trap instruction. Absent an attached debugger it
// has no observable effect, so it is a no-op like NOP.
func execBREAK(c *CPU, opcode uint16) int {
	return 0
}

// execSLEEP transitions the CPU per spec.md §4.D/§4.I: sleeping with I=1
// suspends execution until a pending enabled interrupt wakes it; sleeping
// with I=0 is "simulation done" and halts.
func execSLEEP(c *CPU, opcode uint16) int {
	if !c.SREG.Interrupt {
		c.State = Halted
		return 0
	}
	c.State = Sleeping
	return 0
}

func execWDR(c *CPU, opcode uint16) int {
	if c.OnWatchdogReset != nil {
		c.OnWatchdogReset()
	}
	return 0
}

func execLPM(c *CPU, opcode uint16) int {
	c.R[0].Load(c.Flash.Read(c.Z().Value()))
	return 0
}
