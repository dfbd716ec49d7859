package avr

// counter is one named cycle counter (SPEC_FULL.md's Supplemented Features,
// grounded on original_source/ simavr's avr_cycle_count_t, reduced to its
// observable start/stop/elapsed behaviour): firmware starts it, runs for a
// while, stops it, and reads back how many cycles elapsed in between.
type counter struct {
	running bool
	start   uint64
	elapsed uint64
}

// StartCounter begins (or restarts) the named counter at the simulator's
// current cycle. Starting an already-running counter has no effect beyond
// what Stop/Start would already do — it is not cumulative across a
// double-start.
func (s *Simulator) StartCounter(name string) {
	c, ok := s.counters[name]
	if !ok {
		c = &counter{}
		s.counters[name] = c
	}
	c.running = true
	c.start = s.CPU.Cycle
}

// StopCounter stops the named counter and returns its total elapsed cycles
// (across every start/stop pair since it was created or last reset to
// zero). Stopping a counter that was never started, or is already stopped,
// returns whatever it last accumulated (zero if it has never run).
func (s *Simulator) StopCounter(name string) uint64 {
	c, ok := s.counters[name]
	if !ok {
		return 0
	}
	if c.running {
		c.elapsed += s.CPU.Cycle - c.start
		c.running = false
	}
	return c.elapsed
}

// CounterElapsed reports the named counter's accumulated cycle count without
// stopping it, including time accrued since its last Start if it is still
// running.
func (s *Simulator) CounterElapsed(name string) uint64 {
	c, ok := s.counters[name]
	if !ok {
		return 0
	}
	if c.running {
		return c.elapsed + (s.CPU.Cycle - c.start)
	}
	return c.elapsed
}
