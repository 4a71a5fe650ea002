package topology_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sarchlab/cachecore/mem"
	"github.com/sarchlab/cachecore/topology"
)

type countingComponent struct {
	name       string
	ticksUntil int
	tickCount  int
	order      *[]string
}

func (c *countingComponent) Name() string { return c.name }

func (c *countingComponent) Tick() bool {
	c.tickCount++
	if c.order != nil {
		*c.order = append(*c.order, c.name)
	}

	return c.tickCount <= c.ticksUntil
}

func TestDriverTicksInRegistrationOrder(t *testing.T) {
	var order []string

	d := topology.NewDriver()
	d.Register(&countingComponent{name: "a", ticksUntil: 1, order: &order})
	d.Register(&countingComponent{name: "b", ticksUntil: 1, order: &order})

	d.Tick()

	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, uint64(1), d.Cycle())
}

func TestDriverReportsNoProgressWhenAllStall(t *testing.T) {
	d := topology.NewDriver()
	d.Register(&countingComponent{name: "a", ticksUntil: 0})
	d.Register(&countingComponent{name: "b", ticksUntil: 0})

	assert.False(t, d.Tick())
}

func TestDriverRunStopsAtCycleLimit(t *testing.T) {
	d := topology.NewDriver()
	d.Register(&countingComponent{name: "a", ticksUntil: 1000})

	ranCycles, deadlocked := d.Run(10, 0)

	assert.Equal(t, uint64(10), ranCycles)
	assert.False(t, deadlocked)
	assert.Equal(t, uint64(10), d.Cycle())
}

func TestDriverRunDetectsDeadlock(t *testing.T) {
	d := topology.NewDriver()
	d.Register(&countingComponent{name: "a", ticksUntil: 0})

	ranCycles, deadlocked := d.Run(100, 3)

	assert.True(t, deadlocked)
	assert.Equal(t, uint64(3), ranCycles)
}

type fakeUpperLevel struct {
	lower mem.Consumer
}

func (f *fakeUpperLevel) SetLowerLevel(c mem.Consumer) {
	f.lower = c
}

func TestConnectSetsLowerLevel(t *testing.T) {
	lower := mem.NewComp(mem.Config{Name: "DRAM"})
	upper := &fakeUpperLevel{}

	topology.Connect(upper, lower)

	assert.Same(t, lower, upper.lower)
}

func TestDeadlockDumperInterface(t *testing.T) {
	var _ topology.DeadlockDumper = dumperStub{}
}

type dumperStub struct{}

func (dumperStub) DumpDeadlock() string { return "" }
