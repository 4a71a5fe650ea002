package cache

import (
	"github.com/sarchlab/cachecore/cache/internal/array"
	"github.com/sarchlab/cachecore/mem"
)

// handleWriteback processes the head of WQ. It returns whether the
// entry was fully handled and should be popped.
func (c *Comp) handleWriteback(pkt *mem.Packet) bool {
	// A writeback can arrive as NON_VALID when an invalidate for the
	// same address raced ahead of it and already dropped the block
	// upstream: there is nothing left to write back.
	if pkt.Type == mem.TypeNonValid {
		c.traceReqEnd(pkt)
		return true
	}

	set := c.tags.GetSet(pkt.Address, c.blockSizeLog2)
	way := c.tags.Find(set, pkt.Address, c.blockSizeLog2)

	if way >= 0 {
		block := c.tags.Block(set, way)
		block.Dirty = true
		c.policy.Update(c.tags, set, way, c.cycle)
		c.traceReqEnd(pkt)

		return true
	}

	// The block is not resident: an RFO's eventual writeback, or a
	// dirty block pushed down from an exclusive-managed upper level,
	// still needs a home here. This goes through the same
	// miss/install path as a demand miss, except the data is already
	// in hand, so no request to the level below is needed.
	block, result := c.evictAndInstall(set, pkt.Address)
	if result == installStalled {
		return false
	}

	block.Valid = true
	block.Dirty = true
	block.Address = pkt.Address
	block.VAddress = pkt.VAddress
	block.CPU = pkt.CPU
	block.Prefetch = false

	c.policy.Update(c.tags, set, c.wayOf(block, set), c.cycle)
	c.traceReqEnd(pkt)

	return true
}

// wayOf recovers the way index of block within set. evictAndInstall
// hands callers only the block pointer, so this does a direct scan of
// the small fixed-size set.
func (c *Comp) wayOf(block *array.Block, set int) int {
	for way := 0; way < c.tags.Ways(); way++ {
		if c.tags.Block(set, way) == block {
			return way
		}
	}

	return 0
}
