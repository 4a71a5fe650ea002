package cache

import "github.com/sarchlab/cachecore/mem"

// PrefetchLine issues a self-initiated prefetch for address, as if
// admitted through the same PQ path a lower level's prefetch would
// take. It reports whether the prefetch was accepted.
func (c *Comp) PrefetchLine(cpu int, ip, address uint64, fillThisLevel bool) bool {
	c.stats.PFRequested++

	pkt := c.newPacket(mem.TypePrefetch, address)
	pkt.CPU = cpu
	pkt.IP = ip
	pkt.VAddress = address

	if fillThisLevel {
		pkt.FillLevel = c.fillLevel
	}

	code := c.AddPQ(pkt)
	if code == AdmitFull {
		return false
	}

	c.stats.PFIssued++

	return true
}

// vaTranslatePrefetches processes only the virtual-address prefetch
// queue's head entry, so VAPQ keeps FIFO order and spends at most one
// translation-to-PQ move per cycle. It returns whether it made
// progress.
func (c *Comp) vaTranslatePrefetches() bool {
	pkt := c.vapq.Front(c.cycle)
	if pkt == nil {
		return false
	}

	paddr, ready := c.translator.Translate(pkt.CPU, pkt.VAddress)
	if !ready {
		return false
	}

	if c.pq.Full() {
		return false
	}

	pkt.Address = paddr
	pkt.ASIDTranslated = true

	c.vapq.Pop()
	c.pq.Push(pkt, c.cycle)

	return true
}
