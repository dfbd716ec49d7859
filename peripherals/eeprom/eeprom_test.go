package eeprom_test

import (
	"testing"

	"github.com/buserror/simavr-go/avr/interrupt"
	"github.com/buserror/simavr-go/avr/memory"
	"github.com/buserror/simavr-go/internal/simtest"
	"github.com/buserror/simavr-go/peripherals/eeprom"
	"github.com/buserror/simavr-go/queue"
)

const (
	eearl = 0x41
	eearh = 0x42
	eedr  = 0x40
	eecr  = 0x3F

	eereBit  = 1 << 0
	eepeBit  = 1 << 1
	eempeBit = 1 << 2
	eerieBit = 1 << 3

	readyVector = 25
)

func newEEPROM() (*eeprom.EEPROM, *memory.EEPROM, *memory.SRAM, *interrupt.Controller, *queue.Queue) {
	sram := memory.NewSRAM(512, 0x20, 0xFF)
	store := memory.NewEEPROM(1024)
	irqs := interrupt.NewController()
	q := queue.New()
	e := eeprom.New(eeprom.Config{
		Name:             "eeprom",
		EEARLAddr:        eearl,
		EEARHAddr:        eearh,
		EEDRAddr:         eedr,
		EECRAddr:         eecr,
		EEREBit:          eereBit,
		EEPEBit:          eepeBit,
		EEMPEBit:         eempeBit,
		EERIEBit:         eerieBit,
		ReadyVector:      readyVector,
		WriteDelayCycles: 10,
	}, store, sram, irqs, q)
	e.Reset()
	return e, store, sram, irqs, q
}

func TestWriteThenReadDword(t *testing.T) {
	_, store, sram, irqs, q := newEEPROM()
	sram.Write(eecr, eerieBit)

	value := uint32(0xCAFEF00D)
	bytes := [4]uint8{
		uint8(value), uint8(value >> 8), uint8(value >> 16), uint8(value >> 24),
	}

	var cycle uint64
	for i, b := range bytes {
		sram.Write(eearl, uint8(i))
		sram.Write(eearh, 0)
		sram.Write(eedr, b)
		sram.Write(eecr, eempeBit|eepeBit|eerieBit)
		cycle += 10
		q.Drain(cycle)
	}

	num, ok := irqs.Pending()
	simtest.ExpectSuccess(t, ok)
	simtest.Equate(t, num, readyVector)

	for i, want := range bytes {
		simtest.Equate(t, store.Read(uint16(i)), want)
	}

	var readBack uint32
	for i := 0; i < 4; i++ {
		sram.Write(eearl, uint8(i))
		sram.Write(eearh, 0)
		sram.Write(eecr, eereBit|eerieBit)
		readBack |= uint32(sram.Peek(eedr)) << (8 * uint(i))
	}
	simtest.Equate(t, readBack, value)
}

func TestReadyVectorLowersDuringWriteInFlight(t *testing.T) {
	_, _, sram, irqs, q := newEEPROM()
	sram.Write(eecr, eerieBit)

	_, ok := irqs.Pending()
	simtest.ExpectSuccess(t, ok) // idle at reset: ready

	sram.Write(eearl, 0)
	sram.Write(eearh, 0)
	sram.Write(eedr, 0x42)
	sram.Write(eecr, eempeBit|eepeBit|eerieBit)

	_, ok = irqs.Pending()
	simtest.ExpectFailure(t, ok) // write in flight: not ready

	q.Drain(10)
	_, ok = irqs.Pending()
	simtest.ExpectSuccess(t, ok) // write committed: ready again
}

func TestWriteIgnoredWithoutEEMPE(t *testing.T) {
	_, store, sram, _, q := newEEPROM()

	sram.Write(eearl, 5)
	sram.Write(eearh, 0)
	sram.Write(eedr, 0x7F)
	sram.Write(eecr, eepeBit) // EEPE without EEMPE: write must not happen

	q.Drain(100)
	simtest.Equate(t, store.Read(5), uint8(0))
}
