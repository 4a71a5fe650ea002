// Package topology wires cache and memory components into a hierarchy
// and drives them with a single global clock: every component ticks
// exactly once per cycle, in registration order, with no suspension.
//
// This is deliberately simpler than a discrete-event engine. The cache
// pipeline this module implements is specified as a fixed, deterministic
// per-cycle sequence shared by every level, so there is no need for
// frequency division, event scheduling, or port-level back-pressure
// between independently-clocked domains.
package topology

// Component is anything a Driver can tick once per cycle.
type Component interface {
	// Name identifies the component for tracing and monitoring.
	Name() string

	// Tick advances the component by one cycle and reports whether it
	// made progress. A driver may use this to detect a stalled
	// hierarchy, but it never skips a tick because of it.
	Tick() bool
}

// DeadlockDumper is implemented by components that can describe their
// internal state for diagnosing a stalled hierarchy.
type DeadlockDumper interface {
	DumpDeadlock() string
}

// Driver ticks a fixed set of components, in registration order, once
// per cycle.
type Driver struct {
	components []Component
	cycle      uint64
}

// NewDriver creates an empty Driver.
func NewDriver() *Driver {
	return &Driver{}
}

// Register adds c to the set of components ticked every cycle. The
// order components are registered in is the order they are ticked in.
func (d *Driver) Register(c Component) {
	d.components = append(d.components, c)
}

// Cycle returns the number of cycles that have elapsed.
func (d *Driver) Cycle() uint64 {
	return d.cycle
}

// Tick advances every registered component by one cycle and reports
// whether any of them made progress.
func (d *Driver) Tick() bool {
	progress := false

	for _, c := range d.components {
		if c.Tick() {
			progress = true
		}
	}

	d.cycle++

	return progress
}

// Run ticks the driver until either n cycles have elapsed or, if
// stallLimit is nonzero, stallLimit consecutive cycles make no
// progress anywhere in the hierarchy (a deadlock).
func (d *Driver) Run(n uint64, stallLimit uint64) (ranCycles uint64, deadlocked bool) {
	var stalled uint64

	for ranCycles = 0; n == 0 || ranCycles < n; ranCycles++ {
		if d.Tick() {
			stalled = 0
		} else {
			stalled++
		}

		if stallLimit != 0 && stalled >= stallLimit {
			return ranCycles + 1, true
		}
	}

	return ranCycles, false
}
