package registers_test

import (
	"testing"

	"github.com/buserror/simavr-go/avr/cpu/registers"
	"github.com/buserror/simavr-go/internal/simtest"
)

func TestAddCarryAndHalfCarry(t *testing.T) {
	r := registers.NewRegister(0x0F, "r16")
	carry, half, overflow := r.Add(0x01, false)
	simtest.Equate(t, r.Value(), uint8(0x10))
	simtest.ExpectFailure(t, carry)
	simtest.ExpectSuccess(t, half)
	simtest.ExpectFailure(t, overflow)
}

func TestAddOverflow(t *testing.T) {
	r := registers.NewRegister(0x7F, "r16")
	_, _, overflow := r.Add(0x01, false)
	simtest.Equate(t, r.Value(), uint8(0x80))
	simtest.ExpectSuccess(t, overflow)
}

func TestAddWithIncomingCarry(t *testing.T) {
	r := registers.NewRegister(0xFF, "r16")
	carry, _, _ := r.Add(0x00, true)
	simtest.Equate(t, r.Value(), uint8(0x00))
	simtest.ExpectSuccess(t, carry)
}

func TestSubtractBorrow(t *testing.T) {
	r := registers.NewRegister(0x00, "r16")
	carry, half, _ := r.Subtract(0x01, false)
	simtest.Equate(t, r.Value(), uint8(0xFF))
	simtest.ExpectSuccess(t, carry)
	simtest.ExpectSuccess(t, half)
}

func TestLogicalOps(t *testing.T) {
	r := registers.NewRegister(0xF0, "r16")
	r.AND(0x3C)
	simtest.Equate(t, r.Value(), uint8(0x30))

	r.Load(0xF0)
	r.OR(0x0F)
	simtest.Equate(t, r.Value(), uint8(0xFF))

	r.Load(0xFF)
	r.EOR(0x0F)
	simtest.Equate(t, r.Value(), uint8(0xF0))
}

func TestCOM(t *testing.T) {
	r := registers.NewRegister(0x00, "r16")
	carry := r.COM()
	simtest.Equate(t, r.Value(), uint8(0xFF))
	simtest.ExpectSuccess(t, carry)
}

func TestNEGOfZeroHasNoCarry(t *testing.T) {
	r := registers.NewRegister(0x00, "r16")
	carry, _, _ := r.NEG()
	simtest.Equate(t, r.Value(), uint8(0x00))
	simtest.ExpectFailure(t, carry)
}

func TestNEGOfMinInt(t *testing.T) {
	r := registers.NewRegister(0x80, "r16")
	carry, _, overflow := r.NEG()
	simtest.Equate(t, r.Value(), uint8(0x80))
	simtest.ExpectSuccess(t, carry)
	simtest.ExpectSuccess(t, overflow)
}

func TestShiftsAndRotates(t *testing.T) {
	r := registers.NewRegister(0x01, "r16")
	carry := r.LSR()
	simtest.Equate(t, r.Value(), uint8(0x00))
	simtest.ExpectSuccess(t, carry)

	r.Load(0x01)
	carry = r.ROR(true)
	simtest.Equate(t, r.Value(), uint8(0x80))
	simtest.ExpectSuccess(t, carry)

	r.Load(0x81)
	carry = r.ASR()
	simtest.Equate(t, r.Value(), uint8(0xC0))
	simtest.ExpectSuccess(t, carry)
}

func TestSwap(t *testing.T) {
	r := registers.NewRegister(0xA5, "r16")
	r.Swap()
	simtest.Equate(t, r.Value(), uint8(0x5A))
}

func TestPair(t *testing.T) {
	low := registers.NewRegister(0xCD, "r30")
	high := registers.NewRegister(0xAB, "r31")
	p := registers.Pair{Low: &low, High: &high}

	simtest.Equate(t, p.Value(), uint16(0xABCD))

	p.Load(0x1234)
	simtest.Equate(t, low.Value(), uint8(0x34))
	simtest.Equate(t, high.Value(), uint8(0x12))

	p.Add(1)
	simtest.Equate(t, p.Value(), uint16(0x1235))

	p.Add(-2)
	simtest.Equate(t, p.Value(), uint16(0x1233))
}
