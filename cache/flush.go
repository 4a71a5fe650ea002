package cache

import "github.com/sarchlab/cachecore/mem"

// Flush marks the cache as draining: each Tick writes back and
// invalidates one valid block until none is left. Tick keeps making
// progress on in-flight traffic as well; Flushed reports when the
// drain is done. AddRQ, AddWQ, AddPQ and AddIVQ do not check for a
// drain in progress and keep admitting requests during it.
func (c *Comp) Flush() {
	c.draining = true
}

// Flushed reports whether a requested Flush has completed.
func (c *Comp) Flushed() bool {
	return c.flushed
}

// Restart clears accumulated Stats and un-flushes the cache, keeping
// its tag array contents. Used to end a warmup phase and begin a
// measured run without losing the working set warmup built up.
func (c *Comp) Restart() {
	c.stats = Stats{}
	c.draining = false
	c.flushed = false
}

// drainStep writes back and invalidates one valid block per call,
// scanning the tag array in (set, way) order. It reports whether it
// found a block left to drain.
func (c *Comp) drainStep() bool {
	for set := 0; set < c.tags.Sets(); set++ {
		for way := 0; way < c.tags.Ways(); way++ {
			block := c.tags.Block(set, way)
			if !block.Valid {
				continue
			}

			if block.Dirty {
				wb := c.newPacket(mem.TypeWriteback, block.Address)
				wb.CPU = block.CPU

				if c.lowerLevel != nil && c.lowerLevel.AddWQ(wb) == AdmitFull {
					return true
				}
			}

			block.Valid = false
			block.Dirty = false
			block.Prefetch = false

			return true
		}
	}

	c.flushed = true

	return false
}
