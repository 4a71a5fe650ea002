package cache

import (
	"github.com/sarchlab/cachecore/cache/internal/array"
	"github.com/sarchlab/cachecore/mem"
)

// installResult reports how a block-install attempt went, so callers
// can stall without losing progress already made.
type installResult int

const (
	// installDone means the block is now in place and any writeback
	// or upstream invalidate the eviction needed has been sent.
	installDone installResult = iota
	// installStalled means eviction is still in progress: the
	// writeback to the lower level or an upstream invalidate could
	// not be sent this cycle. sendWBValid/sendInvValid record exactly
	// which sub-steps remain so the next call only retries those.
	installStalled
)

// evictAndInstall finds a victim in set, evicts it if necessary
// (writing it back as sendWriteback describes, and invalidating it
// upstream when this level is inclusive), and returns the block ready for the caller to
// populate with the new address. It can be called repeatedly across
// stalled cycles: sendWBValid and sendInvValid remember which
// sub-steps of a single eviction still need to happen, so a retry
// never re-sends a writeback or invalidate that already went out.
func (c *Comp) evictAndInstall(set int, address uint64) (*array.Block, installResult) {
	if c.pendingVictim == nil {
		way := c.policy.FindVictim(c.tags, set)
		block := c.tags.Block(set, way)

		c.pendingVictim = block

		if c.inclusion == mem.NotCache {
			c.sendWBValid = block.Valid && block.Dirty
		} else {
			c.sendWBValid = block.Valid
		}

		c.sendInvValid = make([]bool, len(c.upperLevels))
		for i := range c.sendInvValid {
			c.sendInvValid[i] = block.Valid && c.inclusion == mem.Inclusive
		}
	}

	block := c.pendingVictim

	if c.sendWBValid {
		if !c.sendWriteback(block) {
			return nil, installStalled
		}

		c.sendWBValid = false
	}

	for i, pending := range c.sendInvValid {
		if !pending {
			continue
		}

		if !c.sendUpstreamInvalidate(block, i) {
			return nil, installStalled
		}

		c.sendInvValid[i] = false
	}

	if block.Valid && block.Prefetch {
		c.stats.PFUseless++
	}

	block.Valid = false
	block.Dirty = false
	block.Prefetch = false

	c.pendingVictim = nil

	return block, installDone
}

// sendWriteback pushes the evicted block to the lower level so an
// exclusive-managed level below can install it. Every valid eviction
// sends one: WRITEBACK if the block was dirty, WRITEBACK_EXCLUSIVE
// otherwise, so the lower level can tell whether it needs to treat the
// data as authoritative. A level that is not managed as a cache at all
// only ever has dirty data worth sending, always as WRITEBACK. It
// reports whether the writeback was accepted.
func (c *Comp) sendWriteback(block *array.Block) bool {
	if c.lowerLevel == nil {
		return true
	}

	typ := mem.TypeWriteback
	if c.inclusion != mem.NotCache && !block.Dirty {
		typ = mem.TypeWritebackExclusive
	}

	wb := c.newPacket(typ, block.Address)
	wb.CPU = block.CPU
	wb.Data = block.Data

	code := c.lowerLevel.AddWQ(wb)

	return code != AdmitFull
}

// sendUpstreamInvalidate tells upper level i that its copy of block is
// gone. It reports whether the invalidate was accepted.
func (c *Comp) sendUpstreamInvalidate(block *array.Block, i int) bool {
	inv := c.newPacket(mem.TypeInvalidate, block.Address)
	inv.CPU = block.CPU

	code := c.upperLevels[i].AddIVQ(inv)

	return code != AdmitFull
}
