package memory_test

import (
	"testing"

	"github.com/buserror/simavr-go/avr/memory"
	"github.com/buserror/simavr-go/internal/simtest"
)

func TestFlashReadWriteWord(t *testing.T) {
	f := memory.NewFlash(1024)
	simtest.ExpectSuccess(t, f.Load(0, []uint8{0x0C, 0x94, 0x34, 0x12}))
	simtest.Equate(t, f.ReadWord(0), uint16(0x940C))
	simtest.Equate(t, f.ReadWord(2), uint16(0x1234))
}

func TestFlashLoadOverrun(t *testing.T) {
	f := memory.NewFlash(4)
	simtest.ExpectFailure(t, f.Load(2, []uint8{1, 2, 3}))
}

func TestFlashOutOfRangeReadsZero(t *testing.T) {
	f := memory.NewFlash(4)
	simtest.Equate(t, f.Read(100), uint8(0))
}

func TestSRAMPlainReadWrite(t *testing.T) {
	s := memory.NewSRAM(256, 0x20, 0xFF)
	s.Write(0x100, 0x42)
	simtest.Equate(t, s.Read(0x100), uint8(0x42))
}

func TestSRAMReadHook(t *testing.T) {
	s := memory.NewSRAM(256, 0x20, 0xFF)
	s.Poke(0x25, 0x00)
	s.RegisterRead(0x25, func(address uint16, current uint8) uint8 {
		return current | 0x80
	})
	simtest.Equate(t, s.Read(0x25), uint8(0x80))
	// Peek bypasses the hook.
	simtest.Equate(t, s.Peek(0x25), uint8(0x00))
}

func TestSRAMWriteHookWriteOneToClear(t *testing.T) {
	s := memory.NewSRAM(256, 0x20, 0xFF)
	s.Poke(0x36, 0xFF)
	s.RegisterWrite(0x36, func(address uint16, value uint8, previous uint8) uint8 {
		return previous &^ value
	})
	s.Write(0x36, 0x01)
	simtest.Equate(t, s.Read(0x36), uint8(0xFE))
}

func TestSRAMUnimplementedIOReadsZeroAndIgnoresWrites(t *testing.T) {
	s := memory.NewSRAM(256, 0x20, 0xFF)
	// No hook registered at 0x30: an unimplemented I/O register.
	s.Write(0x30, 0xFF)
	simtest.Equate(t, s.Read(0x30), uint8(0))
	// Peek/Poke still bypass the I/O-window handling entirely.
	simtest.Equate(t, s.Peek(0x30), uint8(0))
}

func TestSRAMReservedBitWriteIgnoredAndMasked(t *testing.T) {
	s := memory.NewSRAM(256, 0x20, 0xFF)
	s.RegisterWrite(0x7B, func(address uint16, value uint8, previous uint8) uint8 {
		return value
	})
	s.SetReserved(0x7B, 0xB8)
	s.Write(0x7B, 0xFF)
	simtest.Equate(t, s.Read(0x7B), uint8(0xFF&^0xB8))
}

func TestSRAMOutOfRangeAccess(t *testing.T) {
	s := memory.NewSRAM(16, 0x20, 0xFF)
	simtest.ExpectSuccess(t, s.InRange(0x0F))
	simtest.ExpectFailure(t, s.InRange(0x10))
	simtest.ExpectFailure(t, s.CheckAccess(0x10))
}

func TestEEPROMReadWrite(t *testing.T) {
	e := memory.NewEEPROM(512)
	simtest.Equate(t, e.Read(0), uint8(0xFF))
	e.Write(0, 0xAB)
	simtest.Equate(t, e.Read(0), uint8(0xAB))
}

func TestEEPROMLoad(t *testing.T) {
	e := memory.NewEEPROM(4)
	e.Load([]uint8{0xCA, 0xFE})
	simtest.Equate(t, e.Read(0), uint8(0xCA))
	simtest.Equate(t, e.Read(1), uint8(0xFE))
	simtest.Equate(t, e.Read(2), uint8(0xFF))
}
