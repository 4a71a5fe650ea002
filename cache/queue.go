package cache

import "github.com/sarchlab/cachecore/mem"

// queue is a bounded FIFO of in-flight packets. Every cache level has
// five of these (RQ, WQ, PQ, IVQ, VAPQ); they differ only in capacity
// and what admits to them. An entry pushed this cycle is not visible
// to Front/Pop until enqueueLatency cycles have elapsed, modeling the
// wire delay of handing a request from one queue to the next stage.
type queue struct {
	name           string
	capacity       int
	enqueueLatency uint64

	entries []queueEntry
}

type queueEntry struct {
	pkt     *mem.Packet
	readyAt uint64
}

func newQueue(name string, capacity int, enqueueLatency uint64) *queue {
	return &queue{name: name, capacity: capacity, enqueueLatency: enqueueLatency}
}

// Occupancy reports the number of entries currently queued, including
// ones not yet ready.
func (q *queue) Occupancy() int {
	return len(q.entries)
}

// Capacity reports the queue's maximum size.
func (q *queue) Capacity() int {
	return q.capacity
}

// Full reports whether the queue has no room for another entry.
func (q *queue) Full() bool {
	return len(q.entries) >= q.capacity
}

// Push appends pkt to the back of the queue. The caller must check
// Full first.
func (q *queue) Push(pkt *mem.Packet, cycle uint64) {
	q.entries = append(q.entries, queueEntry{pkt: pkt, readyAt: cycle + q.enqueueLatency})
}

// Front returns the packet at the head of the queue if it has finished
// its enqueue delay, or nil otherwise.
func (q *queue) Front(cycle uint64) *mem.Packet {
	if len(q.entries) == 0 {
		return nil
	}

	head := q.entries[0]
	if head.readyAt > cycle {
		return nil
	}

	return head.pkt
}

// Pop removes the head entry. It must only be called after Front
// returned non-nil for the same cycle.
func (q *queue) Pop() {
	q.entries = q.entries[1:]
}

// Find returns the packet matching address among entries already
// admitted, or nil. Used by the merge rules in add_rq/add_wq/add_pq.
func (q *queue) Find(address uint64) *mem.Packet {
	for _, e := range q.entries {
		if e.pkt.Address == address {
			return e.pkt
		}
	}

	return nil
}

// All returns every entry's packet, ready or not, for scans that need
// to look past the head.
func (q *queue) All() []*mem.Packet {
	pkts := make([]*mem.Packet, len(q.entries))
	for i, e := range q.entries {
		pkts[i] = e.pkt
	}

	return pkts
}

// Remove deletes the first entry matching pkt by pointer identity.
func (q *queue) Remove(pkt *mem.Packet) bool {
	for i, e := range q.entries {
		if e.pkt == pkt {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}

	return false
}
