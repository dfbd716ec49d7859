package registers_test

import (
	"testing"

	"github.com/buserror/simavr-go/avr/cpu/registers"
	"github.com/buserror/simavr-go/internal/simtest"
)

func TestStackPointerPushPop(t *testing.T) {
	sp := registers.NewStackPointer(0x08FF)

	addr := sp.PushAddress(1)
	simtest.Equate(t, addr, uint16(0x08FF))
	simtest.Equate(t, sp.Value(), uint16(0x08FE))

	addr = sp.PushAddress(2)
	simtest.Equate(t, addr, uint16(0x08FE))
	simtest.Equate(t, sp.Value(), uint16(0x08FC))

	addr = sp.PopAddress(2)
	simtest.Equate(t, addr, uint16(0x08FE))
	simtest.Equate(t, sp.Value(), uint16(0x08FE))

	addr = sp.PopAddress(1)
	simtest.Equate(t, addr, uint16(0x08FF))
	simtest.Equate(t, sp.Value(), uint16(0x08FF))
}
