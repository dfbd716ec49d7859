package main

import (
	"io"

	"github.com/buserror/simavr-go/avr"
	"github.com/buserror/simavr-go/avr/variant"
	"github.com/buserror/simavr-go/peripherals/adc"
	"github.com/buserror/simavr-go/peripherals/command"
	"github.com/buserror/simavr-go/peripherals/console"
	"github.com/buserror/simavr-go/peripherals/eeprom"
	"github.com/buserror/simavr-go/peripherals/port"
	"github.com/buserror/simavr-go/peripherals/spi"
	"github.com/buserror/simavr-go/peripherals/timer"
	"github.com/buserror/simavr-go/peripherals/twi"
	"github.com/buserror/simavr-go/peripherals/uart"
	"github.com/buserror/simavr-go/peripherals/wdt"
)

// atmega328pDescriptor is the Arduino Uno/Nano MCU: 32KB flash, 2KB SRAM,
// 1KB EEPROM, two 8-bit timers (Timer1's 16-bit compare/capture channel
// is outside this core's 8-bit timer model and is not wired here), SPI,
// TWI, USART0, a 6-channel ADC, and watchdog.
func atmega328pDescriptor() variant.Descriptor {
	return variant.Descriptor{
		Name:       "atmega328p",
		Signature:  [3]uint8{0x1E, 0x95, 0x0F},
		FlashSize:  32 * 1024,
		SRAMSize:   0x100 + 2048,
		EEPROMSize: 1024,
		IOBase:     0x20,
		IOEnd:      0xFF,
		VectorSize: variant.VectorSize4,
		FCPU:       16_000_000,
		VCDSignals: []variant.VCDSignal{
			{Name: "portb.out", Width: 8},
			{Name: "portc.out", Width: 8},
			{Name: "portd.out", Width: 8},
			{Name: "timer0.ovf", Width: 1},
			{Name: "timer2.ovf", Width: 1},
			{Name: "uart0.out", Width: 8},
			{Name: "spi0.out", Width: 8},
			{Name: "twi0.start", Width: 1},
			{Name: "adc0.in", Width: 32},
		},
		CommandRegister: 0xF0,
		ConsoleRegister: 0xF1,
		ReservedBits: map[uint16]uint8{
			0x7B: 0xB8, // ADCSRB: bits 7 and 5:3 are reserved on this part
		},
	}
}

// newATmega328pBoard assembles every peripheral the atmega328p descriptor
// names onto a freshly constructed Simulator, and wires the callback-handoff
// fields (watchdog reset, command-register actions) that let those
// peripherals act on the simulator without importing it directly.
func newATmega328pBoard(flash, eepromImage []byte, consoleSink io.Writer) (*avr.Simulator, *twi.Bus, error) {
	sim, err := avr.New(avr.Config{
		Variant: atmega328pDescriptor(),
		Flash:   flash,
		EEPROM:  eepromImage,
	})
	if err != nil {
		return nil, nil, err
	}

	fcpu := uint64(sim.Variant.FCPU)

	portb := port.New("portb", 0x24, 0x25, 0x23, sim.SRAM)
	sim.AttachPeripheral(portb)
	sim.AttachPeripheral(port.New("portc", 0x27, 0x28, 0x26, sim.SRAM))
	portd := port.New("portd", 0x2A, 0x2B, 0x29, sim.SRAM)
	sim.AttachPeripheral(portd)

	sim.AttachPeripheral(port.NewPinChange(
		"pcint0", portb.Pins().All(),
		0x6B, 0x3B, 1<<0, 0x68, 1<<0,
		vectorPCINT0, sim.SRAM, sim.Interrupts,
	))

	sim.AttachPeripheral(port.NewExternal(
		"int0", portd.Pins().Node(2),
		0x69, 0,
		0x3C, 1<<0, 0x3D, 1<<0,
		vectorINT0, sim.SRAM, sim.Interrupts,
	))

	sim.AttachPeripheral(timer.New(timer.Config{
		Name:           "timer0",
		TCNTAddr:       0x46,
		OCRAAddr:       0x47,
		OCRBAddr:       0x48,
		TCCRAAddr:      0x44,
		TCCRBAddr:      0x45,
		TIMSKAddr:      0x6E,
		TIFRAddr:       0x35,
		OverflowBit:    1 << 0,
		CompareABit:    1 << 1,
		CompareBBit:    1 << 2,
		OverflowVector: vectorTimer0Ovf,
		CompareAVector: vectorTimer0CompA,
		CompareBVector: vectorTimer0CompB,
	}, sim.SRAM, sim.Interrupts, sim.Queue))

	sim.AttachPeripheral(timer.New(timer.Config{
		Name:           "timer2",
		TCNTAddr:       0xB2,
		OCRAAddr:       0xB3,
		OCRBAddr:       0xB4,
		TCCRAAddr:      0xB0,
		TCCRBAddr:      0xB1,
		TIMSKAddr:      0x70,
		TIFRAddr:       0x37,
		OverflowBit:    1 << 0,
		CompareABit:    1 << 1,
		CompareBBit:    1 << 2,
		OverflowVector: vectorTimer2Ovf,
		CompareAVector: vectorTimer2CompA,
		CompareBVector: vectorTimer2CompB,
	}, sim.SRAM, sim.Interrupts, sim.Queue))

	uart0 := uart.New(uart.Config{
		Name:         "uart0",
		UDRAddr:      0xC6,
		UCSRAAddr:    0xC0,
		UCSRBAddr:    0xC1,
		TXCBit:       1 << 6,
		UDREBit:      1 << 5,
		RXCBit:       1 << 7,
		RXEnableBit:  1 << 4,
		TXEnableBit:  1 << 3,
		RXIEBit:      1 << 7,
		TXCIEBit:     1 << 6,
		RXVector:     vectorUSARTRX,
		TXVector:     vectorUSARTTX,
		ClocksPerBit: fcpu / 115200,
		BitsPerChar:  10,
	}, sim.SRAM, sim.Interrupts, sim.Queue)
	sim.AttachPeripheral(uart0)

	sim.AttachPeripheral(spi.New(spi.Config{
		Name:          "spi0",
		SPDRAddr:      0x4E,
		SPSRAddr:      0x4D,
		SPCRAddr:      0x4C,
		SPIFBit:       1 << 7,
		SPIEBit:       1 << 7,
		SPEBit:        1 << 6,
		Vector:        vectorSPI,
		CyclesPerByte: 64, // 8 bits at SCK = f_cpu/8, a typical master setting
	}, sim.SRAM, sim.Interrupts, sim.Queue))

	twiBus := twi.NewBus()
	sim.AttachPeripheral(twi.New(twi.Config{
		Name:           "twi0",
		TWCRAddr:       0xBC,
		TWSRAddr:       0xB9,
		TWDRAddr:       0xBB,
		TWBRAddr:       0xB8,
		TWINTBit:       1 << 7,
		TWSTABit:       1 << 5,
		TWSTOBit:       1 << 4,
		TWENBit:        1 << 2,
		TWEABit:        1 << 6,
		TWIEBit:        1 << 0,
		StatusMask:     0xF8,
		Vector:         vectorTWI,
		CyclesPerPhase: 80, // one bus phase at 100kHz and 16MHz f_cpu
	}, twiBus, sim.SRAM, sim.Interrupts, sim.Queue))

	sim.AttachPeripheral(adc.New(adc.Config{
		Name:                "adc0",
		ADMUXAddr:           0x7C,
		ADCSRAAddr:          0x7A,
		ADCSRBAddr:          0x7B,
		ADCLAddr:            0x78,
		ADCHAddr:            0x79,
		MUXMask:             0x0F,
		REFSMask:            0xC0,
		ADENBit:             1 << 7,
		ADSCBit:             1 << 6,
		ADATEBit:            1 << 5,
		ADIEBit:             1 << 3,
		ADIFBit:             1 << 4,
		ChannelCount:        6,
		Vector:              vectorADC,
		CyclesPerConversion: 13 * 16, // 13 ADC clocks at the /16 prescaler
		ReferenceMillivolts: 5000,
	}, sim.SRAM, sim.Interrupts, sim.Queue))

	sim.AttachPeripheral(eeprom.New(eeprom.Config{
		Name:             "eeprom0",
		EEARLAddr:        0x41,
		EEARHAddr:        0x42,
		EEDRAddr:         0x40,
		EECRAddr:         0x3F,
		EEREBit:          1 << 0,
		EEPEBit:          1 << 1,
		EEMPEBit:         1 << 2,
		EERIEBit:         1 << 3,
		ReadyVector:      vectorEEReady,
		WriteDelayCycles: 3_400_000 / 1000 * 3, // ~3.3ms commit time at 16MHz
	}, sim.EEPROM, sim.SRAM, sim.Interrupts, sim.Queue))

	watchdog := wdt.New(wdt.Config{
		Name:       "wdt0",
		WDTCSRAddr: 0x60,
		WDIFBit:    1 << 7,
		WDIEBit:    1 << 6,
		WDEBit:     1 << 3,
		WDPLowMask: 0x07,
		WDPHighBit: 1 << 5,
		Vector:     vectorWDT,
		FCPUHz:     fcpu,
		OnReset: func(err error) {
			sim.CPU.Halt(err)
		},
	}, sim.SRAM, sim.Interrupts, sim.Queue)
	sim.AttachPeripheral(watchdog)
	sim.CPU.OnWatchdogReset = watchdog.Kick

	cmdHandlers := command.Handlers{
		Reset: sim.Reset,
		Exit: func(code int) {
			sim.CPU.Halt(exitRequest{code: code})
		},
		SetLoopback:  uart0.SetLoopback,
		StartCounter: sim.StartCounter,
		StopCounter: func(name string) {
			sim.StopCounter(name)
		},
	}
	sim.AttachPeripheral(command.New(command.Config{
		Name:         "command0",
		RegisterAddr: sim.Variant.CommandRegister,
		CounterNames: []string{"loop", "isr", "idle"},
	}, cmdHandlers, sim.SRAM))

	sim.AttachPeripheral(console.New(console.Config{
		Name:         "console0",
		RegisterAddr: sim.Variant.ConsoleRegister,
		Sink:         consoleSink,
	}, sim.SRAM))

	return sim, twiBus, nil
}
