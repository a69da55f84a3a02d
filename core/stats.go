package core

import (
	"sync/atomic"

	"github.com/gonoise/gonoise/core/config"
)

// protocolCounters carries one protocol's lifetime totals plus the
// window drained by the reporter.
type protocolCounters struct {
	ops            atomic.Uint64
	failures       atomic.Uint64
	windowOps      atomic.Uint64
	windowFailures atomic.Uint64
}

// Stats accumulates attempt outcomes across every generator loop. All
// methods are safe for concurrent use.
type Stats struct {
	counters map[config.Protocol]*protocolCounters
}

// NewStats returns counters for every known protocol. The map is
// never mutated after construction, so reads need no lock.
func NewStats() *Stats {
	s := &Stats{counters: make(map[config.Protocol]*protocolCounters, len(config.Protocols()))}
	for _, p := range config.Protocols() {
		s.counters[p] = &protocolCounters{}
	}
	return s
}

// Record counts one attempt outcome for proto. Ops count completed
// noise units, so a failed attempt increments only the failure
// counters. Unknown protocols are dropped.
func (s *Stats) Record(proto config.Protocol, attemptErr error) {
	c, ok := s.counters[proto]
	if !ok {
		return
	}
	if attemptErr != nil {
		c.failures.Add(1)
		c.windowFailures.Add(1)
		return
	}
	c.ops.Add(1)
	c.windowOps.Add(1)
}

// Counts is one protocol's tally at a point in time.
type Counts struct {
	Ops      uint64
	Failures uint64
}

// Snapshot maps each protocol to its counts.
type Snapshot map[config.Protocol]Counts

// Total sums a snapshot across protocols.
func (sn Snapshot) Total() Counts {
	var t Counts
	for _, c := range sn {
		t.Ops += c.Ops
		t.Failures += c.Failures
	}
	return t
}

// Snapshot copies the lifetime totals.
func (s *Stats) Snapshot() Snapshot {
	out := make(Snapshot, len(s.counters))
	for proto, c := range s.counters {
		out[proto] = Counts{Ops: c.ops.Load(), Failures: c.failures.Load()}
	}
	return out
}

// DrainWindow returns the counts accumulated since the previous drain
// and zeroes the window. Increments landing during the drain are
// never lost; they surface in the next window.
func (s *Stats) DrainWindow() Snapshot {
	out := make(Snapshot, len(s.counters))
	for proto, c := range s.counters {
		out[proto] = Counts{Ops: c.windowOps.Swap(0), Failures: c.windowFailures.Swap(0)}
	}
	return out
}
