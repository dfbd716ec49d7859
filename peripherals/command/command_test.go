package command_test

import (
	"testing"

	"github.com/buserror/simavr-go/avr/memory"
	"github.com/buserror/simavr-go/internal/simtest"
	"github.com/buserror/simavr-go/peripherals/command"
)

const cmdReg = 0x50

func newCommand(h command.Handlers, names []string) (*command.Command, *memory.SRAM) {
	sram := memory.NewSRAM(256, 0x20, 0xFF)
	c := command.New(command.Config{
		Name:         "command",
		RegisterAddr: cmdReg,
		CounterNames: names,
	}, h, sram)
	return c, sram
}

func TestResetDispatchesToHandler(t *testing.T) {
	var called bool
	_, sram := newCommand(command.Handlers{Reset: func() { called = true }}, nil)
	sram.Write(cmdReg, command.OpReset)
	simtest.ExpectSuccess(t, called)
}

func TestExitCarriesCodeInLowNibble(t *testing.T) {
	var gotCode int
	var called bool
	_, sram := newCommand(command.Handlers{Exit: func(code int) { called = true; gotCode = code }}, nil)
	sram.Write(cmdReg, command.OpExit|0x03)
	simtest.ExpectSuccess(t, called)
	simtest.Equate(t, gotCode, 3)
}

func TestLoopbackOnOff(t *testing.T) {
	var state bool
	var calls int
	_, sram := newCommand(command.Handlers{SetLoopback: func(enabled bool) { state = enabled; calls++ }}, nil)
	sram.Write(cmdReg, command.OpLoopbackOn)
	simtest.Equate(t, state, true)
	sram.Write(cmdReg, command.OpLoopbackOff)
	simtest.Equate(t, state, false)
	simtest.Equate(t, calls, 2)
}

func TestStartStopCounterResolvesNameByArgument(t *testing.T) {
	var started, stopped string
	h := command.Handlers{
		StartCounter: func(name string) { started = name },
		StopCounter:  func(name string) { stopped = name },
	}
	_, sram := newCommand(h, []string{"loop", "isr", "idle"})

	sram.Write(cmdReg, command.OpStartCounter|0x01)
	simtest.Equate(t, started, "isr")

	sram.Write(cmdReg, command.OpStopCounter|0x02)
	simtest.Equate(t, stopped, "idle")
}

func TestOutOfRangeCounterIDIsIgnored(t *testing.T) {
	var called bool
	h := command.Handlers{StartCounter: func(string) { called = true }}
	_, sram := newCommand(h, []string{"loop"})
	sram.Write(cmdReg, command.OpStartCounter|0x05)
	simtest.ExpectFailure(t, called)
}

func TestNilHandlerIsSilentlyIgnored(t *testing.T) {
	_, sram := newCommand(command.Handlers{}, nil)
	sram.Write(cmdReg, command.OpStartTrace)
	sram.Write(cmdReg, command.OpStopTrace)
}
