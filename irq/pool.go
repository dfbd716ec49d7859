package irq

import "fmt"

// Pool owns a contiguous run of Nodes allocated together by a single
// peripheral. spec.md §3: "Nodes live in pools owned by the peripheral that
// created them; lifetime equals the simulator's lifetime." A Pool never
// shrinks or frees individual nodes — the whole pool is released, if ever,
// when its owning peripheral is.
type Pool struct {
	base  int
	nodes []*Node
}

// Allocate creates a new Pool of count nodes, numbered base..base+count-1
// for display purposes, with display names taken from names (names may be
// shorter than count; remaining nodes get a generated name).
func Allocate(poolName string, base int, count int, names []string, width Width) *Pool {
	p := &Pool{base: base, nodes: make([]*Node, count)}
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("%s.%d", poolName, base+i)
		if i < len(names) && names[i] != "" {
			name = fmt.Sprintf("%s.%s", poolName, names[i])
		}
		p.nodes[i] = NewNode(name, width)
	}
	return p
}

// Node returns the index'th node in the pool (relative to the pool, not to
// Base). It panics on an out-of-range index, matching the teacher's general
// approach of treating a peripheral indexing its own IRQ table incorrectly
// as a programmer error rather than a recoverable one.
func (p *Pool) Node(index int) *Node {
	return p.nodes[index]
}

// Base returns the pool's base numbering, as passed to Allocate.
func (p *Pool) Base() int {
	return p.base
}

// Len returns the number of nodes in the pool.
func (p *Pool) Len() int {
	return len(p.nodes)
}

// All returns every node in the pool, in index order.
func (p *Pool) All() []*Node {
	return p.nodes
}
