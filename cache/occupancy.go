package cache

import "github.com/sarchlab/cachecore/mem"

// GetOccupancy implements mem.Consumer. queueType is one of the
// mem.Queue* codes: MSHR, RQ, WQ, PQ (which also folds in VAPQ, since
// from outside the two behave as one prefetch queue), or IVQ. address
// is unused; it exists so Consumer can later support per-set occupancy
// without changing the interface.
func (c *Comp) GetOccupancy(queueType int, _ uint64) uint64 {
	switch queueType {
	case mem.QueueMSHR:
		return uint64(c.mshr.Occupancy())
	case mem.QueueRQ:
		return uint64(c.rq.Occupancy())
	case mem.QueueWQ:
		return uint64(c.wq.Occupancy())
	case mem.QueuePQ:
		return uint64(c.pq.Occupancy() + c.vapq.Occupancy())
	case mem.QueueIVQ:
		return uint64(c.ivq.Occupancy())
	default:
		return 0
	}
}

// GetSize implements mem.Consumer.
func (c *Comp) GetSize(queueType int, _ uint64) uint64 {
	switch queueType {
	case mem.QueueMSHR:
		return uint64(c.mshr.Capacity())
	case mem.QueueRQ:
		return uint64(c.rq.Capacity())
	case mem.QueueWQ:
		return uint64(c.wq.Capacity())
	case mem.QueuePQ:
		return uint64(c.pq.Capacity())
	case mem.QueueIVQ:
		return uint64(c.ivq.Capacity())
	default:
		return 0
	}
}
