package twi_test

import (
	"testing"

	"github.com/buserror/simavr-go/avr/interrupt"
	"github.com/buserror/simavr-go/avr/memory"
	"github.com/buserror/simavr-go/internal/simtest"
	"github.com/buserror/simavr-go/peripherals/twi"
	"github.com/buserror/simavr-go/queue"
)

const (
	twcr = 0x56
	twsr = 0x57
	twdr = 0x58
	twbr = 0x55

	twintBit = 1 << 7
	twstaBit = 1 << 5
	twstoBit = 1 << 4
	twenBit  = 1 << 2
	tweaBit  = 1 << 6
	twieBit  = 1 << 0

	statusMask = 0xF8

	twiVector = 24
)

type fakeSlave struct {
	addr, mask uint8
	writes     []uint8
	reads      []uint8
	readIdx    int
	started    bool
	stopped    bool
}

func (s *fakeSlave) Matches(address uint8) bool { return address&s.mask == s.addr&s.mask }
func (s *fakeSlave) Start(address uint8, read bool) bool {
	s.started = true
	return true
}
func (s *fakeSlave) WriteByte(value uint8) bool {
	s.writes = append(s.writes, value)
	return true
}
func (s *fakeSlave) ReadByte() uint8 {
	if s.readIdx >= len(s.reads) {
		return 0xFF
	}
	v := s.reads[s.readIdx]
	s.readIdx++
	return v
}
func (s *fakeSlave) Stop() { s.stopped = true }

func newTWI() (*twi.TWI, *twi.Bus, *memory.SRAM, *interrupt.Controller, *queue.Queue) {
	sram := memory.NewSRAM(256, 0x20, 0xFF)
	irqs := interrupt.NewController()
	q := queue.New()
	bus := twi.NewBus()
	m := twi.New(twi.Config{
		Name:           "twi",
		TWCRAddr:       twcr,
		TWSRAddr:       twsr,
		TWDRAddr:       twdr,
		TWBRAddr:       twbr,
		TWINTBit:       twintBit,
		TWSTABit:       twstaBit,
		TWSTOBit:       twstoBit,
		TWENBit:        twenBit,
		TWEABit:        tweaBit,
		TWIEBit:        twieBit,
		StatusMask:     statusMask,
		Vector:         twiVector,
		CyclesPerPhase: 8,
	}, bus, sram, irqs, q)
	m.Reset()
	return m, bus, sram, irqs, q
}

func TestStartAddressWriteStopHappyPath(t *testing.T) {
	_, bus, sram, irqs, q := newTWI()
	slave := &fakeSlave{addr: 0x50, mask: 0x7F}
	bus.Attach(slave)

	sram.Write(twcr, twenBit|twieBit|twstaBit|twintBit)
	q.Drain(8)
	num, ok := irqs.Pending()
	simtest.ExpectSuccess(t, ok)
	simtest.Equate(t, num, twiVector)
	simtest.Equate(t, sram.Peek(twsr)&statusMask, uint8(twi.StatusStart))

	sram.Write(twdr, 0x50<<1) // SLA+W
	sram.Write(twcr, twenBit|twieBit|twintBit)
	q.Drain(16)
	simtest.Equate(t, sram.Peek(twsr)&statusMask, uint8(twi.StatusSLAWAck))
	simtest.ExpectSuccess(t, slave.started)

	sram.Write(twdr, 0xAB)
	sram.Write(twcr, twenBit|twieBit|twintBit)
	q.Drain(24)
	simtest.Equate(t, sram.Peek(twsr)&statusMask, uint8(twi.StatusDataTXAck))
	simtest.Equate(t, len(slave.writes), 1)
	simtest.Equate(t, slave.writes[0], uint8(0xAB))

	sram.Write(twcr, twenBit|twintBit|twstoBit)
	simtest.ExpectSuccess(t, slave.stopped)
	simtest.Equate(t, sram.Peek(twsr)&statusMask, uint8(twi.StatusIdle))
}

func TestAddressMaskSelectsExactlyOneSlave(t *testing.T) {
	_, bus, sram, _, q := newTWI()
	a := &fakeSlave{addr: 0x10, mask: 0x7F}
	b := &fakeSlave{addr: 0x20, mask: 0x7F}
	bus.Attach(a)
	bus.Attach(b)

	sram.Write(twcr, twenBit|twstaBit|twintBit)
	q.Drain(8)
	sram.Write(twdr, 0x20<<1)
	sram.Write(twcr, twenBit|twintBit)
	q.Drain(16)

	simtest.ExpectFailure(t, a.started)
	simtest.ExpectSuccess(t, b.started)
}

func TestNoMatchingSlaveNacksAddress(t *testing.T) {
	_, bus, sram, _, q := newTWI()
	bus.Attach(&fakeSlave{addr: 0x10, mask: 0x7F})

	sram.Write(twcr, twenBit|twstaBit|twintBit)
	q.Drain(8)
	sram.Write(twdr, 0x77<<1)
	sram.Write(twcr, twenBit|twintBit)
	q.Drain(16)

	simtest.Equate(t, sram.Peek(twsr)&statusMask, uint8(twi.StatusSLAWNack))
}

func TestMasterReadDeliversSlaveBytes(t *testing.T) {
	_, bus, sram, _, q := newTWI()
	slave := &fakeSlave{addr: 0x10, mask: 0x7F, reads: []uint8{0x11, 0x22}}
	bus.Attach(slave)

	sram.Write(twcr, twenBit|twstaBit|twintBit)
	q.Drain(8)
	sram.Write(twdr, 0x10<<1|1) // SLA+R
	sram.Write(twcr, twenBit|twintBit|tweaBit)
	q.Drain(16)
	simtest.Equate(t, sram.Peek(twsr)&statusMask, uint8(twi.StatusSLARAck))

	sram.Write(twcr, twenBit|twintBit|tweaBit)
	q.Drain(24)
	simtest.Equate(t, sram.Peek(twdr), uint8(0x11))
	simtest.Equate(t, sram.Peek(twsr)&statusMask, uint8(twi.StatusDataRXAck))
}
