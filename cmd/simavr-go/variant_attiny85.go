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
	"github.com/buserror/simavr-go/peripherals/timer"
	"github.com/buserror/simavr-go/peripherals/usi"
	"github.com/buserror/simavr-go/peripherals/wdt"
)

// attiny85Descriptor is a smaller tinyAVR variant: 8KB flash, 512B SRAM,
// 512B EEPROM, one 8-bit timer, a single GPIO port, a 4-channel ADC, USI
// (no hardware SPI/TWI/UART on this part), and watchdog.
func attiny85Descriptor() variant.Descriptor {
	return variant.Descriptor{
		Name:       "attiny85",
		Signature:  [3]uint8{0x1E, 0x93, 0x0B},
		FlashSize:  8 * 1024,
		SRAMSize:   0x60 + 512,
		EEPROMSize: 512,
		IOBase:     0x00,
		IOEnd:      0x5F,
		VectorSize: variant.VectorSize2,
		FCPU:       8_000_000,
		VCDSignals: []variant.VCDSignal{
			{Name: "portb.out", Width: 8},
			{Name: "timer0.ovf", Width: 1},
			{Name: "usi0.out", Width: 1},
			{Name: "adc0.in", Width: 32},
		},
		CommandRegister: 0x3E,
		ConsoleRegister: 0x3D,
		ReservedBits: map[uint16]uint8{
			0x03: 0x30, // ADCSRB: bits 5:4 are reserved on this part
		},
	}
}

// newATtiny85Board assembles the attiny85 descriptor's peripheral set.
func newATtiny85Board(flash, eepromImage []byte, consoleSink io.Writer) (*avr.Simulator, error) {
	sim, err := avr.New(avr.Config{
		Variant: attiny85Descriptor(),
		Flash:   flash,
		EEPROM:  eepromImage,
	})
	if err != nil {
		return nil, err
	}

	fcpu := uint64(sim.Variant.FCPU)

	sim.AttachPeripheral(port.New("portb", 0x17, 0x18, 0x16, sim.SRAM))

	sim.AttachPeripheral(timer.New(timer.Config{
		Name:           "timer0",
		TCNTAddr:       0x32,
		OCRAAddr:       0x36,
		OCRBAddr:       0x3C,
		TCCRAAddr:      0x2A,
		TCCRBAddr:      0x33,
		TIMSKAddr:      0x39,
		TIFRAddr:       0x38,
		OverflowBit:    1 << 1,
		CompareABit:    1 << 4,
		CompareBBit:    1 << 2,
		OverflowVector: vectorTinyTimer0Ovf,
		CompareAVector: vectorTinyTimer0CompA,
		CompareBVector: vectorTinyTimer0CompB,
	}, sim.SRAM, sim.Interrupts, sim.Queue))

	sim.AttachPeripheral(usi.New(usi.Config{
		Name:       "usi0",
		USIDRAddr:  0x0F,
		USISRAddr:  0x0E,
		USICRAddr:  0x0D,
		USIOIFBit:  1 << 6,
		USICNTMask: 0x0F,
		USICLKBit:  1 << 2,
		USITCBit:   1 << 0,
		USIOIEBit:  1 << 6,
		Vector:     vectorTinyUSIOvf,
	}, sim.SRAM, sim.Interrupts))

	sim.AttachPeripheral(adc.New(adc.Config{
		Name:                "adc0",
		ADMUXAddr:           0x07,
		ADCSRAAddr:          0x06,
		ADCSRBAddr:          0x03,
		ADCLAddr:            0x04,
		ADCHAddr:            0x05,
		MUXMask:             0x0F,
		REFSMask:            0xC0,
		ADENBit:             1 << 7,
		ADSCBit:             1 << 6,
		ADATEBit:            1 << 5,
		ADIEBit:             1 << 3,
		ADIFBit:             1 << 4,
		ChannelCount:        4,
		Vector:              vectorTinyADC,
		CyclesPerConversion: 13 * 8,
		ReferenceMillivolts: 5000,
	}, sim.SRAM, sim.Interrupts, sim.Queue))

	sim.AttachPeripheral(eeprom.New(eeprom.Config{
		Name:             "eeprom0",
		EEARLAddr:        0x1E,
		EEARHAddr:        0x1F,
		EEDRAddr:         0x1D,
		EECRAddr:         0x1C,
		EEREBit:          1 << 0,
		EEPEBit:          1 << 1,
		EEMPEBit:         1 << 2,
		EERIEBit:         1 << 3,
		ReadyVector:      vectorTinyEEReady,
		WriteDelayCycles: 3_400_000 / 1000 * 3,
	}, sim.EEPROM, sim.SRAM, sim.Interrupts, sim.Queue))

	watchdog := wdt.New(wdt.Config{
		Name:       "wdt0",
		WDTCSRAddr: 0x21,
		WDIFBit:    1 << 7,
		WDIEBit:    1 << 6,
		WDEBit:     1 << 3,
		WDPLowMask: 0x07,
		WDPHighBit: 1 << 5,
		Vector:     vectorTinyWDT,
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

	return sim, nil
}
