package cache

import "github.com/sarchlab/cachecore/mem"

// Admission return codes, shared by AddRQ/AddWQ/AddPQ/AddIVQ.
const (
	// AdmitFull means the queue had no room and the request was
	// rejected outright; the caller must retry later.
	AdmitFull = -2
	// AdmitForwarded means the request was already satisfied without
	// being queued, typically by forwarding from a pending writeback.
	AdmitForwarded = -1
	// AdmitMerged means the request was folded into an existing entry
	// rather than occupying a new slot.
	AdmitMerged = 0
)

// AddRQ implements mem.Consumer. It admits a load or RFO.
func (c *Comp) AddRQ(pkt *mem.Packet) int {
	c.stats.RQ.Access++

	if fwd := c.wq.Find(pkt.Address); fwd != nil {
		c.stats.RQ.Forward++
		c.deliver(pkt, fwd.Data)

		return AdmitForwarded
	}

	if existing := c.rq.Find(pkt.Address); existing != nil {
		c.merge(existing, pkt)
		c.stats.RQ.Merged++

		return AdmitMerged
	}

	if c.rq.Full() {
		c.stats.RQ.Full++
		return AdmitFull
	}

	c.rq.Push(pkt, c.cycle)
	c.stats.RQ.ToCache++
	c.traceReqStart(pkt)

	return c.rq.Occupancy()
}

// AddWQ implements mem.Consumer. It admits a writeback.
func (c *Comp) AddWQ(pkt *mem.Packet) int {
	c.stats.WQ.Access++

	if existing := c.wq.Find(pkt.Address); existing != nil {
		existing.Data = pkt.Data
		c.stats.WQ.Merged++

		return AdmitMerged
	}

	if c.wq.Full() {
		c.stats.WQ.Full++
		return AdmitFull
	}

	c.wq.Push(pkt, c.cycle)
	c.stats.WQ.ToCache++
	c.traceReqStart(pkt)

	return c.wq.Occupancy()
}

// AddPQ implements mem.Consumer. It admits a prefetch. A prefetch that
// duplicates an in-flight demand for the same address is dropped: the
// demand will bring the data in at least as fast.
func (c *Comp) AddPQ(pkt *mem.Packet) int {
	c.stats.PQ.Access++

	if c.rq.Find(pkt.Address) != nil || c.mshr.Find(pkt.Address) != nil {
		c.stats.PQ.Merged++
		return AdmitMerged
	}

	if existing := c.pq.Find(pkt.Address); existing != nil {
		c.merge(existing, pkt)
		c.stats.PQ.Merged++

		return AdmitMerged
	}

	target := c.pq
	if c.virtualPrefetch && !pkt.ASIDTranslated {
		target = c.vapq
	}

	if target.Full() {
		c.stats.PQ.Full++
		return AdmitFull
	}

	target.Push(pkt, c.cycle)
	c.stats.PQ.ToCache++
	c.traceReqStart(pkt)

	return target.Occupancy()
}

// AddIVQ implements mem.Consumer. It admits an upstream invalidate
// coming from a lower, inclusive level evicting the block. If a writeback for
// the same address is already sitting in WQ, the invalidate raced
// ahead of it: the block is being dropped anyway, so the writeback is
// converted to a no-op (mem.TypeNonValid) instead of being sent.
func (c *Comp) AddIVQ(pkt *mem.Packet) int {
	c.stats.IVQ.Access++

	if wb := c.wq.Find(pkt.Address); wb != nil {
		wb.Type = mem.TypeNonValid
	}

	if existing := c.ivq.Find(pkt.Address); existing != nil {
		c.stats.IVQ.Merged++

		return AdmitMerged
	}

	if c.ivq.Full() {
		c.stats.IVQ.Full++
		return AdmitFull
	}

	c.ivq.Push(pkt, c.cycle)
	c.stats.IVQ.ToCache++
	c.traceReqStart(pkt)

	return c.ivq.Occupancy()
}

// merge folds newPkt's dependents into existing, so existing's
// eventual return also satisfies newPkt's requester, keeping the
// smaller of the two fill levels.
func (c *Comp) merge(existing, newPkt *mem.Packet) {
	if newPkt.FillLevel < existing.FillLevel {
		existing.FillLevel = newPkt.FillLevel
	}
	existing.ToReturn = append(existing.ToReturn, newPkt.ToReturn...)
}

// deliver hands data straight back to pkt's requesters without going
// through the tag array; used for write-to-read forwarding.
func (c *Comp) deliver(pkt *mem.Packet, data uint64) {
	pkt.Data = data

	for _, r := range pkt.ToReturn {
		r.ReturnData(pkt)
	}
}
