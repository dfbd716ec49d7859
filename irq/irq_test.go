package irq_test

import (
	"testing"

	"github.com/buserror/simavr-go/internal/simtest"
	"github.com/buserror/simavr-go/irq"
)

func TestRaiseInvokesCallbacksInOrder(t *testing.T) {
	n := irq.NewNode("test", irq.Width8)

	var order []int
	n.RegisterNotify(func(_ *irq.Node, value uint32, owner interface{}) {
		order = append(order, owner.(int))
	}, 1)
	n.RegisterNotify(func(_ *irq.Node, value uint32, owner interface{}) {
		order = append(order, owner.(int))
	}, 2)

	n.Raise(42)

	simtest.Equate(t, order, []int{1, 2})
	simtest.Equate(t, n.Value(), uint32(42))
}

func TestFilteredDropsUnchangedRaise(t *testing.T) {
	n := irq.NewNode("test", irq.Width1)
	n.Filtered = true

	count := 0
	n.RegisterNotify(func(_ *irq.Node, _ uint32, _ interface{}) {
		count++
	}, nil)

	n.Raise(1)
	n.Raise(1) // same value: dropped
	simtest.Equate(t, count, 1)

	n.Raise(0)
	simtest.Equate(t, count, 2)
}

func TestRaiseFloatForcesDelivery(t *testing.T) {
	n := irq.NewNode("test", irq.Width1)
	n.Filtered = true

	count := 0
	n.RegisterNotify(func(_ *irq.Node, _ uint32, _ interface{}) {
		count++
	}, nil)

	n.Raise(1)
	n.RaiseFloat(1)
	simtest.Equate(t, count, 2)
}

func TestReentrantRaiseCompletesBeforeOuterReturns(t *testing.T) {
	a := irq.NewNode("a", irq.Width8)
	b := irq.NewNode("b", irq.Width8)

	var trace []string
	b.RegisterNotify(func(_ *irq.Node, value uint32, _ interface{}) {
		trace = append(trace, "b")
	}, nil)
	a.RegisterNotify(func(_ *irq.Node, value uint32, _ interface{}) {
		trace = append(trace, "a-before")
		b.Raise(value)
		trace = append(trace, "a-after")
	}, nil)

	a.Raise(1)

	simtest.Equate(t, trace, []string{"a-before", "b", "a-after"})
}

func TestConnectForwardsRaises(t *testing.T) {
	src := irq.NewNode("src", irq.Width8)
	dst := irq.NewNode("dst", irq.Width8)
	irq.Connect(src, dst)

	src.Raise(7)
	simtest.Equate(t, dst.Value(), uint32(7))
}

func TestRegisterDuringRaiseTakesEffectNextTime(t *testing.T) {
	n := irq.NewNode("test", irq.Width8)

	calls := 0
	var second bool
	n.RegisterNotify(func(_ *irq.Node, _ uint32, _ interface{}) {
		calls++
		if !second {
			second = true
			n.RegisterNotify(func(_ *irq.Node, _ uint32, _ interface{}) {
				calls += 100
			}, nil)
		}
	}, nil)

	n.Raise(1)
	simtest.Equate(t, calls, 1)

	n.Raise(2)
	simtest.Equate(t, calls, 102)
}

func TestPoolAllocatesNamedNodes(t *testing.T) {
	p := irq.Allocate("port", 0, 3, []string{"pin0", "pin1"}, irq.Width1)
	simtest.Equate(t, p.Len(), 3)
	simtest.Equate(t, p.Node(0).Name, "port.pin0")
	simtest.Equate(t, p.Node(1).Name, "port.pin1")
	simtest.Equate(t, p.Node(2).Name, "port.2")
}
