package cache

import "github.com/sarchlab/cachecore/mem"

// handleFill installs the data for the MSHR entry at the front of the
// returned prefix, if any is ready this cycle, and delivers it to
// every requester waiting on it. It returns whether it made progress.
func (c *Comp) handleFill() bool {
	pkt := c.mshr.Ready(c.cycle)
	if pkt == nil {
		return false
	}

	// An invalidate raced this fill while it was outstanding: the data
	// coming back is already stale, so re-issue the request instead of
	// installing it.
	if c.inclusion != mem.NotCache && pkt.MSHRReturnDataInvalidCount < pkt.MSHRInvalidCount {
		return c.reissueInvalidatedFill(pkt)
	}

	if c.inclusion == mem.Exclusive {
		for _, r := range pkt.ToReturn {
			r.ReturnData(pkt)
		}

		c.tagCacheMiss(pkt)
		c.traceReqEnd(pkt)

		return true
	}

	set := c.tags.GetSet(pkt.Address, c.blockSizeLog2)

	block, result := c.evictAndInstall(set, pkt.Address)
	if result == installStalled {
		c.mshr.Reinsert(pkt)
		return false
	}

	evictedAddress := block.Address

	block.Valid = true
	block.Dirty = pkt.Type == mem.TypeWriteback || (pkt.Type == mem.TypeRFO && len(pkt.ToReturn) == 0) || pkt.DataValid
	block.Address = pkt.Address
	block.VAddress = pkt.VAddress
	block.CPU = pkt.CPU
	block.Prefetch = pkt.Type == mem.TypePrefetch
	block.Data = pkt.Data

	c.policy.Update(c.tags, set, c.wayOf(block, set), c.cycle)

	if pkt.Type == mem.TypePrefetch {
		c.stats.PFFill++
	}

	block.PFMetadata = c.prefetcher.FillCache(pkt.Address, evictedAddress, pkt.PFMetadata)

	if !c.warmup && pkt.CycleEnqueued != 0 {
		c.stats.TotalMissLatency += c.cycle - pkt.CycleEnqueued
	}

	for _, r := range pkt.ToReturn {
		r.ReturnData(pkt)
	}

	c.tagCacheMiss(pkt)
	c.traceReqEnd(pkt)

	return true
}

// reissueInvalidatedFill re-probes the lower level for a miss whose
// data was invalidated while still outstanding, rather than installing
// data that no longer reflects the block's true state. Only this one
// MSHR entry is retried per call; pkt has already been removed from
// the table by Ready, so a stall here must put it back explicitly.
func (c *Comp) reissueInvalidatedFill(pkt *mem.Packet) bool {
	req := c.newPacket(pkt.Type, pkt.Address)
	req.CPU = pkt.CPU
	req.IP = pkt.IP
	req.InstrID = pkt.InstrID
	req.PFOriginLevel = pkt.PFOriginLevel
	req.FillLevel = pkt.FillLevel
	req.VAddress = pkt.VAddress

	if !c.admitProbe(req) {
		c.mshr.Reinsert(pkt)
		return false
	}

	fwd := *req

	inserted := false
	if pkt.FillLevel <= c.fillLevel {
		req.CycleEnqueued = pkt.CycleEnqueued
		req.ToReturn = append([]mem.Requester{}, pkt.ToReturn...)
		c.mshr.Insert(req)
		fwd.ToReturn = []mem.Requester{c}
		inserted = true
	}

	isRead := c.prefetchAsLoad || pkt.Type != mem.TypePrefetch

	var code int
	if isRead {
		code = c.lowerLevel.AddRQ(&fwd)
	} else {
		code = c.lowerLevel.AddPQ(&fwd)
	}

	if code == AdmitFull {
		if inserted {
			c.mshr.Remove(req.Address)
		}

		c.mshr.Reinsert(pkt)

		return false
	}

	return true
}
