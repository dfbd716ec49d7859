// Package definitions describes the static shape of each AVR opcode, the
// AVR analogue of the teacher's hardware/cpu/definitions package: a small
// struct recording an instruction's mnemonic, size and effect category,
// looked up once per decode rather than recomputed, mirroring
// InstructionDefinition there.
package definitions

// Category classifies an instruction by the effect it has on the machine,
// grounded on the teacher's instructions.Category (Read/Write/Modify/Flow/
// Subroutine/Interrupt) and spec.md §9's peripheral-polymorphism note about
// categorising by capability.
type Category int

const (
	Read Category = iota
	Write
	Modify
	Flow
	Subroutine
)

func (c Category) String() string {
	switch c {
	case Read:
		return "Read"
	case Write:
		return "Write"
	case Modify:
		return "Modify"
	case Flow:
		return "Flow"
	case Subroutine:
		return "Subroutine"
	}
	return "unknown category"
}

// Definition is the static, decode-time description of one opcode pattern.
type Definition struct {
	Mnemonic string
	Bytes    int // 2 or 4; spec.md §4.D: "two-word instructions add one cycle"
	Cycles   int // base cost; some executors add to this for taken branches
	Category Category
}
