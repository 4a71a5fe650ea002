package cache

import (
	"fmt"

	"github.com/sarchlab/cachecore/mem"
)

// handleInvalid processes the head of IVQ: another level below this
// one is reclaiming the block, so this level's copy (and any copies
// held further up) must go. It returns whether the entry was fully
// handled and should be popped; false means it stalled and must be
// retried next cycle without resending a sub-step that already
// succeeded.
//
// pkt.FillLevel distinguishes a terminal arrival (this level is the
// addressee: apply the invalidate and stop) from one still passing
// through on its way to a further upper level (apply locally if this
// level also holds the block, but keep forwarding).
func (c *Comp) handleInvalid(pkt *mem.Packet) bool {
	if pkt.FillLevel < c.fillLevel {
		panic(fmt.Sprintf("%s: invalidate for 0x%x with fill level %d below this level's %d",
			c.name, pkt.Address, pkt.FillLevel, c.fillLevel))
	}

	if c.ivqActive != pkt {
		c.ivqActive = pkt
		c.ivqWBValid = false
		c.ivqFwdValid = make([]bool, len(c.upperLevels))

		if entry := c.mshr.Find(pkt.Address); entry != nil {
			entry.MSHRInvalidCount++
		}

		set := c.tags.GetSet(pkt.Address, c.blockSizeLog2)
		way := c.tags.Find(set, pkt.Address, c.blockSizeLog2)

		if way >= 0 {
			block := c.tags.Block(set, way)

			if pkt.DataValid {
				block.Data = pkt.Data
				block.Dirty = true
			}

			pkt.Data = block.Data
			c.ivqWBValid = block.Dirty

			if !c.warmup {
				c.stats.Access[mem.TypeInvalidate]++
				c.stats.Hit[mem.TypeInvalidate]++
			}

			block.Valid = false
			block.Dirty = false
			block.Prefetch = false
		} else if !c.warmup {
			c.stats.Access[mem.TypeInvalidate]++
			c.stats.Miss[mem.TypeInvalidate]++
		}

		terminal := pkt.FillLevel == c.fillLevel
		for i := range c.ivqFwdValid {
			c.ivqFwdValid[i] = !terminal
		}
	}

	if c.ivqWBValid {
		wb := c.newPacket(mem.TypeWriteback, c.blockAddress(pkt.Address))
		wb.CPU = pkt.CPU
		wb.Data = pkt.Data

		if c.lowerLevel.AddWQ(wb) == AdmitFull {
			return false
		}

		c.ivqWBValid = false
	}

	for i, upper := range c.upperLevels {
		if !c.ivqFwdValid[i] {
			continue
		}

		fwd := c.newPacket(mem.TypeInvalidate, pkt.Address)
		fwd.CPU = pkt.CPU

		if upper.AddIVQ(fwd) == AdmitFull {
			return false
		}

		c.ivqFwdValid[i] = false
	}

	c.ivqActive = nil
	c.traceReqEnd(pkt)

	return true
}
