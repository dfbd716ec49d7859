package main

// Interrupt vector numbers for the atmega328p variant, in the order the
// datasheet's vector table lists them (lower number, higher priority).
const (
	vectorINT0 = 1 + iota
	vectorINT1
	vectorPCINT0
	vectorPCINT1
	vectorPCINT2
	vectorWDT
	vectorTimer2CompA
	vectorTimer2CompB
	vectorTimer2Ovf
	vectorTimer1Capt
	vectorTimer1CompA
	vectorTimer1CompB
	vectorTimer1Ovf
	vectorTimer0CompA
	vectorTimer0CompB
	vectorTimer0Ovf
	vectorSPI
	vectorUSARTRX
	vectorUSARTUDRE
	vectorUSARTTX
	vectorADC
	vectorEEReady
	vectorAnalogComp
	vectorTWI
)

// Interrupt vector numbers for the attiny85 variant.
const (
	vectorTinyINT0 = 1 + iota
	vectorTinyPCINT0
	vectorTinyTimer1Compa
	vectorTinyTimer1Ovf
	vectorTinyTimer0Ovf
	vectorTinyEEReady
	vectorTinyAnalogComp
	vectorTinyADC
	vectorTinyTimer1CompB
	vectorTinyTimer0CompA
	vectorTinyTimer0CompB
	vectorTinyWDT
	vectorTinyUSIStart
	vectorTinyUSIOvf
)
