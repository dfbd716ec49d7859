package interrupt_test

import (
	"testing"

	"github.com/buserror/simavr-go/avr/interrupt"
	"github.com/buserror/simavr-go/internal/simtest"
)

func TestLowestNumberedPendingWins(t *testing.T) {
	c := interrupt.NewController()
	c.RegisterVector(interrupt.Vector{Number: 1, Name: "INT0"})
	c.RegisterVector(interrupt.Vector{Number: 2, Name: "INT1"})

	c.Raise(2)
	c.SetEnabled(2, true)
	c.Raise(1)
	c.SetEnabled(1, true)

	num, ok := c.Pending()
	simtest.ExpectSuccess(t, ok)
	simtest.Equate(t, num, 1)
}

func TestPendingRequiresEnabled(t *testing.T) {
	c := interrupt.NewController()
	c.RegisterVector(interrupt.Vector{Number: 1, Name: "INT0"})
	c.Raise(1)

	_, ok := c.Pending()
	simtest.ExpectFailure(t, ok)

	c.SetEnabled(1, true)
	_, ok = c.Pending()
	simtest.ExpectSuccess(t, ok)
}

func TestAcknowledgeClearsEdgeNotLevel(t *testing.T) {
	c := interrupt.NewController()
	c.RegisterVector(interrupt.Vector{Number: 1, Name: "edge", Sensitivity: interrupt.Edge})
	c.RegisterVector(interrupt.Vector{Number: 2, Name: "level", Sensitivity: interrupt.Level})

	c.Raise(1)
	c.SetEnabled(1, true)
	c.Acknowledge(1)
	_, ok := c.Pending()
	simtest.ExpectFailure(t, ok)

	c.Raise(2)
	c.SetEnabled(2, true)
	c.Acknowledge(2)
	num, ok := c.Pending()
	simtest.ExpectSuccess(t, ok)
	simtest.Equate(t, num, 2)
}

func TestResetClearsAllVectors(t *testing.T) {
	c := interrupt.NewController()
	c.RegisterVector(interrupt.Vector{Number: 1, Name: "INT0"})
	c.Raise(1)
	c.SetEnabled(1, true)

	c.Reset()
	_, ok := c.Pending()
	simtest.ExpectFailure(t, ok)
}
