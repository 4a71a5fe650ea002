package cache

import (
	"fmt"

	"github.com/sarchlab/cachecore/mem"
)

// handleRead processes the head of RQ or PQ. It returns whether the
// entry was fully handled and should be popped; false means it stalled
// and must be retried next cycle.
func (c *Comp) handleRead(pkt *mem.Packet) bool {
	set := c.tags.GetSet(pkt.Address, c.blockSizeLog2)
	way := c.tags.Find(set, pkt.Address, c.blockSizeLog2)

	if way >= 0 {
		c.readlikeHit(pkt, set, way)
		return true
	}

	return c.readlikeMiss(pkt)
}

func (c *Comp) readlikeHit(pkt *mem.Packet, set, way int) {
	block := c.tags.Block(set, way)

	pkt.Data = block.Data
	if block.Dirty {
		pkt.DataValid = true
	}

	if c.shouldActivatePrefetcher(pkt.Type) && pkt.PFOriginLevel < c.fillLevel {
		block.PFMetadata = c.prefetcher.CacheOperate(pkt.Address, pkt.IP, true, c.trainingType(pkt.Type), block.PFMetadata)
	}

	if c.inclusion == mem.Exclusive {
		block.Valid = false
	}

	c.policy.Update(c.tags, set, way, c.cycle)

	if !c.warmup {
		c.stats.Access[pkt.Type]++
		c.stats.Hit[pkt.Type]++
	}

	for _, r := range pkt.ToReturn {
		r.ReturnData(pkt)
	}

	if block.Prefetch && pkt.Type != mem.TypePrefetch {
		c.stats.PFUseful++
		block.Prefetch = false
	}

	c.tagCacheHit(pkt)
	c.traceReqEnd(pkt)
}

// shouldActivatePrefetcher reports whether an access of type t should
// train or be trained against by the prefetcher at all. Translation
// requests carry no data pattern worth learning from.
func (c *Comp) shouldActivatePrefetcher(t mem.Type) bool {
	return t != mem.TypeTranslation
}

// trainingType reports the access type a prefetcher should be trained
// with. When prefetchAsLoad is set, a cache built to disguise its own
// prefetches as ordinary loads (so an upper level's prefetcher cannot
// tell the difference) reports every prefetch as a load.
func (c *Comp) trainingType(t mem.Type) mem.Type {
	if t == mem.TypePrefetch && c.prefetchAsLoad {
		return mem.TypeLoad
	}

	return t
}

func (c *Comp) readlikeMiss(pkt *mem.Packet) bool {
	blockAddr := c.blockAddress(pkt.Address)

	if existing := c.mshr.Find(blockAddr); existing != nil {
		if pkt.FillLevel < existing.FillLevel {
			existing.FillLevel = pkt.FillLevel
		}

		existing.ToReturn = append(existing.ToReturn, pkt.ToReturn...)

		// PREFETCH upgrade: a demand access hit an in-flight prefetch
		// for the same block. Credit the prefetch if it would have
		// filled the level the demand needed anyway, then let the
		// demand's own packet take over the entry so its type, IP and
		// instruction id are what eventually returns.
		if existing.Type == mem.TypePrefetch && pkt.Type != mem.TypePrefetch {
			if existing.PFOriginLevel == existing.FillLevel {
				c.stats.PFUseful++
			}

			addr := existing.Address
			eventCycle := existing.EventCycle
			cycleEnqueued := existing.CycleEnqueued
			toReturn := existing.ToReturn

			*existing = *pkt

			existing.Address = addr
			existing.EventCycle = eventCycle
			existing.CycleEnqueued = cycleEnqueued
			existing.ToReturn = toReturn
		}

		c.tagMSHRHit(pkt)

		if !c.warmup {
			c.stats.Access[pkt.Type]++
			c.stats.Miss[pkt.Type]++
		}

		if c.shouldActivatePrefetcher(pkt.Type) && pkt.PFOriginLevel < c.fillLevel {
			pkt.PFMetadata = c.prefetcher.CacheOperate(pkt.Address, pkt.IP, false, c.trainingType(pkt.Type), pkt.PFMetadata)
		}

		c.traceReqEnd(pkt)

		return true
	}

	if c.mshr.Full() {
		return false
	}

	if c.lowerLevel == nil {
		return false
	}

	req := c.newPacket(pkt.Type, blockAddr)
	req.CPU = pkt.CPU
	req.IP = pkt.IP
	req.InstrID = pkt.InstrID
	req.PFOriginLevel = pkt.PFOriginLevel
	req.FillLevel = pkt.FillLevel
	req.VAddress = pkt.VAddress

	if !c.admitProbe(req) {
		return false
	}

	// The MSHR entry keeps the upper requesters; the copy sent below
	// returns only to this cache.
	fwd := *req

	if pkt.FillLevel <= c.fillLevel {
		req.CycleEnqueued = c.cycle
		req.ToReturn = append([]mem.Requester{}, pkt.ToReturn...)
		c.mshr.Insert(req)
		fwd.ToReturn = []mem.Requester{c}
	}

	isRead := c.prefetchAsLoad || pkt.Type != mem.TypePrefetch

	var code int
	if isRead {
		code = c.lowerLevel.AddRQ(&fwd)
	} else {
		code = c.lowerLevel.AddPQ(&fwd)
	}

	if code == AdmitFull {
		return false
	}

	if !c.warmup {
		c.stats.Access[pkt.Type]++
		c.stats.Miss[pkt.Type]++
	}

	if c.shouldActivatePrefetcher(pkt.Type) && pkt.PFOriginLevel < c.fillLevel {
		req.PFMetadata = c.prefetcher.CacheOperate(pkt.Address, pkt.IP, false, c.trainingType(pkt.Type), 0)
	}

	c.tagCacheMiss(pkt)
	c.traceReqEnd(pkt)

	return true
}

// admitProbe reports whether the lower level currently has room for
// req's kind of request, without committing req to any queue: RQ for
// reads (and for prefetches when prefetchAsLoad is set), PQ otherwise.
// It sets req.TestPacket for the duration of the check and clears it
// afterwards; the lower level is only given req.Address, not req.
func (c *Comp) admitProbe(req *mem.Packet) bool {
	queueType := mem.QueueRQ
	if !c.prefetchAsLoad && req.Type == mem.TypePrefetch {
		queueType = mem.QueuePQ
	}

	req.TestPacket = true
	full := c.lowerLevel.GetOccupancy(queueType, req.Address) >= c.lowerLevel.GetSize(queueType, req.Address)
	req.TestPacket = false

	return !full
}

// ReturnData implements mem.Requester: it is called when this cache's
// own outstanding request to the level below comes back. It copies the
// returned data word into the MSHR entry and panics if no outstanding
// entry matches pkt.Address.
func (c *Comp) ReturnData(pkt *mem.Packet) {
	if !c.mshr.ReturnData(pkt.Address, c.cycle+1) {
		panic(fmt.Sprintf("%s: data returned for 0x%x with no outstanding MSHR entry", c.name, pkt.Address))
	}

	c.mshr.Find(pkt.Address).Data = pkt.Data
}
