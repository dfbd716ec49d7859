// Package console implements spec.md §6's console register: writes to a
// configured I/O register stream raw bytes to an external text sink,
// giving firmware a UART-free printf path.
//
// Grounded on peripherals/command's minimal register-peripheral shape; the
// sink is a plain io.Writer rather than a concrete file/terminal type, the
// same external-collaborator boundary spec.md §1 draws around the VCD
// writer and GDB server.
package console

import (
	"io"

	"github.com/buserror/simavr-go/avr/memory"
)

// Config collects the console register's address and output sink.
type Config struct {
	Name string

	RegisterAddr uint16

	// Sink receives each byte written to RegisterAddr. A nil Sink makes
	// writes a no-op.
	Sink io.Writer
}

// Console is the console-register peripheral.
type Console struct {
	name string
	cfg  Config
}

// New creates a console-register peripheral from cfg.
func New(cfg Config, sram *memory.SRAM) *Console {
	c := &Console{name: cfg.Name, cfg: cfg}
	sram.RegisterWrite(cfg.RegisterAddr, func(_ uint16, value, previous uint8) uint8 {
		if c.cfg.Sink != nil {
			c.cfg.Sink.Write([]byte{value})
		}
		return previous
	})
	return c
}

// Name implements peripheral.Peripheral.
func (c *Console) Name() string { return c.name }

// Reset is a no-op: the console register has no state of its own to clear.
func (c *Console) Reset() {}
