package uart_test

import (
	"testing"

	"github.com/buserror/simavr-go/avr/interrupt"
	"github.com/buserror/simavr-go/avr/memory"
	"github.com/buserror/simavr-go/internal/simtest"
	"github.com/buserror/simavr-go/irq"
	"github.com/buserror/simavr-go/peripherals/uart"
	"github.com/buserror/simavr-go/queue"
)

const (
	udr   = 0x60
	ucsrA = 0x61
	ucsrB = 0x62

	txcBit  = 1 << 6
	udreBit = 1 << 5
	rxcBit  = 1 << 7

	rxenBit  = 1 << 4
	txenBit  = 1 << 3
	rxieBit  = 1 << 7
	txcieBit = 1 << 6

	rxVector = 20
	txVector = 21
)

func newUART(loopback bool) (*uart.UART, *memory.SRAM, *interrupt.Controller, *queue.Queue) {
	sram := memory.NewSRAM(512, 0x20, 0xFF)
	irqs := interrupt.NewController()
	q := queue.New()
	u := uart.New(uart.Config{
		Name:         "usart0",
		UDRAddr:      udr,
		UCSRAAddr:    ucsrA,
		UCSRBAddr:    ucsrB,
		TXCBit:       txcBit,
		UDREBit:      udreBit,
		RXCBit:       rxcBit,
		RXEnableBit:  rxenBit,
		TXEnableBit:  txenBit,
		RXIEBit:      rxieBit,
		TXCIEBit:     txcieBit,
		RXVector:     rxVector,
		TXVector:     txVector,
		ClocksPerBit: 104, // 9600 baud at 1MHz-ish, a round test number
		BitsPerChar:  10,
	}, sram, irqs, q)
	u.Reset()
	u.SetLoopback(loopback)
	return u, sram, irqs, q
}

func TestTransmitSetsTXCAfterShiftDelay(t *testing.T) {
	u, sram, irqs, q := newUART(false)
	sram.Write(ucsrB, txcieBit|txenBit)

	sram.Write(udr, 0x42)
	simtest.Equate(t, sram.Peek(ucsrA)&udreBit, uint8(0))

	q.Drain(1039) // 10*104 - 1
	_, ok := irqs.Pending()
	simtest.ExpectFailure(t, ok)

	q.Drain(1040)
	num, ok := irqs.Pending()
	simtest.ExpectSuccess(t, ok)
	simtest.Equate(t, num, txVector)
	simtest.Equate(t, sram.Peek(ucsrA)&udreBit, udreBit)
	_ = u
}

func TestLoopbackDeliversSameByteAfterOneShiftDelay(t *testing.T) {
	u, sram, irqs, q := newUART(true)
	sram.Write(ucsrB, rxieBit|rxenBit|txenBit)

	sram.Write(udr, 0x7E)
	q.Drain(1040)

	num, ok := irqs.Pending()
	simtest.ExpectSuccess(t, ok)
	simtest.Equate(t, num, rxVector)
	simtest.Equate(t, sram.Peek(udr), uint8(0x7E))
	simtest.Equate(t, sram.Peek(ucsrA)&rxcBit, rxcBit)
	_ = u
}

func TestOutputNodeCarriesTransmittedByte(t *testing.T) {
	u, sram, _, q := newUART(false)
	sram.Write(ucsrB, txenBit)

	var captured uint32
	u.Output().RegisterNotify(func(_ *irq.Node, value uint32, _ interface{}) {
		captured = value
	}, nil)

	sram.Write(udr, 0x99)
	q.Drain(1040)
	simtest.Equate(t, captured, uint32(0x99))
}
