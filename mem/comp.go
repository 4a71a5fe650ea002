package mem

import "github.com/sarchlab/cachecore/hooking"

// Comp is a backing store that responds to every request after a fixed
// number of cycles, with no capacity limit and no queuing delay beyond
// that latency. It stands in for DRAM at the bottom of a hierarchy
// whose timing is not otherwise modeled.
type Comp struct {
	hooking.HookableBase

	name    string
	latency uint64
	cycle   uint64

	inFlight []pending
}

type pending struct {
	pkt     *Packet
	readyAt uint64
}

// Config configures a Comp.
type Config struct {
	Name    string
	Latency uint64
}

// NewComp creates a fixed-latency backing store.
func NewComp(cfg Config) *Comp {
	if cfg.Latency == 0 {
		cfg.Latency = 200
	}

	return &Comp{
		name:    cfg.Name,
		latency: cfg.Latency,
	}
}

// Name implements topology.Component.
func (c *Comp) Name() string {
	return c.name
}

func (c *Comp) enqueue(pkt *Packet) int {
	c.inFlight = append(c.inFlight, pending{pkt: pkt, readyAt: c.cycle + c.latency})

	return len(c.inFlight)
}

// AddRQ implements Consumer.
func (c *Comp) AddRQ(pkt *Packet) int { return c.enqueue(pkt) }

// AddWQ implements Consumer. Writebacks terminate here; there is
// nothing further to return.
func (c *Comp) AddWQ(pkt *Packet) int { return c.enqueue(pkt) }

// AddPQ implements Consumer.
func (c *Comp) AddPQ(pkt *Packet) int { return c.enqueue(pkt) }

// AddIVQ implements Consumer. A backing store has no upper level to
// invalidate anything in; this should not normally be called.
func (c *Comp) AddIVQ(pkt *Packet) int { return c.enqueue(pkt) }

// GetOccupancy implements Consumer.
func (c *Comp) GetOccupancy(_ int, _ uint64) uint64 {
	return uint64(len(c.inFlight))
}

// GetSize implements Consumer. The backing store never reports being
// full.
func (c *Comp) GetSize(_ int, _ uint64) uint64 {
	return ^uint64(0)
}

// Tick advances the backing store by one cycle, returning completed
// reads and prefetches to their requester.
func (c *Comp) Tick() bool {
	progress := false

	remaining := c.inFlight[:0]

	for _, p := range c.inFlight {
		if p.readyAt > c.cycle {
			remaining = append(remaining, p)
			continue
		}

		progress = true

		if p.pkt.Type != TypeWriteback && p.pkt.Type != TypeWritebackExclusive {
			for _, req := range p.pkt.ToReturn {
				req.ReturnData(p.pkt)
			}
		}
	}

	c.inFlight = remaining
	c.cycle++

	return progress
}
