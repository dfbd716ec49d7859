package avr_test

import (
	"testing"

	"github.com/buserror/simavr-go/avr"
	"github.com/buserror/simavr-go/avr/cpu"
	"github.com/buserror/simavr-go/avr/variant"
	"github.com/buserror/simavr-go/internal/simtest"
)

func testVariant() variant.Descriptor {
	return variant.Descriptor{
		Name:       "test328p",
		FlashSize:  8192,
		SRAMSize:   2048,
		EEPROMSize: 1024,
		IOBase:     0x20,
		IOEnd:      0xFF,
		VectorSize: variant.VectorSize4,
		FCPU:       16000000,
		VCDSignals: []variant.VCDSignal{{Name: "portb.pin5", Width: 1}},
	}
}

func TestNewRejectsOversizedFirmware(t *testing.T) {
	v := testVariant()
	v.FlashSize = 4
	_, err := avr.New(avr.Config{Variant: v, Flash: []uint8{0, 0, 0, 0, 0}})
	simtest.ExpectFailure(t, err == nil)
}

func TestStepRunsAProgram(t *testing.T) {
	// LDI r16,0x2A ; illegal opcode to force a clean halt
	ldi := uint16(0xE000 | (0x2A&0xF0)<<4 | uint16(0x2A&0x0F))
	program := []uint8{uint8(ldi), uint8(ldi >> 8), 0xFF, 0x00}

	sim, err := avr.New(avr.Config{Variant: testVariant(), Flash: program})
	simtest.ExpectSuccess(t, err)

	sim.Step()
	simtest.Equate(t, sim.CPU.R[16].Value(), uint8(0x2A))

	result := sim.Step()
	simtest.ExpectSuccess(t, result.Halted)
	simtest.Equate(t, sim.CPU.State, cpu.Halted)
	simtest.Equate(t, sim.ExitCode(), 1)
}

func TestCounters(t *testing.T) {
	sim, err := avr.New(avr.Config{Variant: testVariant()})
	simtest.ExpectSuccess(t, err)

	sim.StartCounter("loop")
	sim.CPU.Cycle = 100
	simtest.Equate(t, sim.CounterElapsed("loop"), uint64(100))

	sim.CPU.Cycle = 250
	simtest.Equate(t, sim.StopCounter("loop"), uint64(250))

	sim.CPU.Cycle = 400
	simtest.Equate(t, sim.CounterElapsed("loop"), uint64(250))
}

func TestVCDSignals(t *testing.T) {
	sim, err := avr.New(avr.Config{Variant: testVariant()})
	simtest.ExpectSuccess(t, err)
	simtest.Equate(t, len(sim.VCDSignals()), 1)
	simtest.Equate(t, sim.VCDSignals()[0].Name, "portb.pin5")
}
