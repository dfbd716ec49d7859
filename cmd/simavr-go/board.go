package main

import "fmt"

// exitRequest is the fault value peripherals/command's OpExit handler halts
// the CPU with, carrying the firmware-chosen exit code through to main's
// process exit (spec.md §6's "Named cycle counters"/command-register
// behaviour is a simavr-style extension on top of the baseline exit-code
// table, which only distinguishes clean-sleep from fault).
type exitRequest struct {
	code int
}

func (e exitRequest) Error() string {
	return fmt.Sprintf("firmware requested exit(%d)", e.code)
}
