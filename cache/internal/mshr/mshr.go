// Package mshr implements the Miss Status Handling Register: the
// table of outstanding misses a cache is waiting on from below, with
// merge-on-match semantics and a swap-to-front return ordering that
// avoids sorting the table every cycle.
package mshr

import "github.com/sarchlab/cachecore/mem"

// NoEventCycle marks an entry still waiting on its fill.
const NoEventCycle = mem.NoEventCycle

// Table is an unordered, capacity-bounded table of outstanding misses.
// Entries whose data has returned are kept in a contiguous prefix by
// swapping a returned entry with the first not-yet-returned one,
// rather than by sorting: cheap to maintain per cycle, and this
// module never needs strict ordering beyond "returned vs not".
type Table struct {
	capacity int
	entries  []*mem.Packet

	// firstUnreturned is the index of the first entry whose
	// EventCycle is still NoEventCycle.
	firstUnreturned int
}

// New creates an MSHR table with the given capacity.
func New(capacity int) *Table {
	return &Table{capacity: capacity}
}

// Capacity returns the table's maximum size.
func (t *Table) Capacity() int {
	return t.capacity
}

// Occupancy returns the number of entries currently in the table.
func (t *Table) Occupancy() int {
	return len(t.entries)
}

// Full reports whether the table has no free entry.
func (t *Table) Full() bool {
	return len(t.entries) >= t.capacity
}

// Find returns the entry matching address, or nil if none is
// outstanding.
func (t *Table) Find(address uint64) *mem.Packet {
	for _, e := range t.entries {
		if e.Address == address {
			return e
		}
	}

	return nil
}

// Insert adds a new outstanding entry. The caller must ensure no entry
// for this address already exists and that the table is not full.
func (t *Table) Insert(pkt *mem.Packet) {
	pkt.EventCycle = NoEventCycle
	t.entries = append(t.entries, pkt)
}

// Entries exposes the live entries for callers that need to scan them
// (fill scheduling, deadlock dumps). The returned slice must not be
// mutated by the caller.
func (t *Table) Entries() []*mem.Packet {
	return t.entries
}

// ReturnData marks the entry for address as returned, setting its
// EventCycle to readyAt, and moves it into the returned prefix by
// swapping it with the first not-yet-returned entry. It reports
// whether a matching entry was found.
func (t *Table) ReturnData(address uint64, readyAt uint64) bool {
	for i, e := range t.entries {
		if e.Address != address || e.EventCycle != NoEventCycle {
			continue
		}

		e.EventCycle = readyAt

		if i != t.firstUnreturned {
			t.entries[i], t.entries[t.firstUnreturned] = t.entries[t.firstUnreturned], t.entries[i]
		}

		t.firstUnreturned++

		return true
	}

	return false
}

// Ready returns, and removes, the head of the returned prefix if its
// EventCycle has elapsed by cycle, or nil otherwise. Only the head is
// checked, so this never has to scan the table.
func (t *Table) Ready(cycle uint64) *mem.Packet {
	if t.firstUnreturned == 0 {
		return nil
	}

	head := t.entries[0]
	if head.EventCycle == NoEventCycle || head.EventCycle > cycle {
		return nil
	}

	t.entries = t.entries[1:]
	t.firstUnreturned--

	return head
}

// Reinsert puts an entry popped by Ready back at the front of the
// returned prefix. It is used when installing a ready entry's block
// stalls partway through eviction: the entry must be retried next
// cycle from the same position, not lose its place behind entries
// that have not returned yet.
func (t *Table) Reinsert(pkt *mem.Packet) {
	t.entries = append([]*mem.Packet{pkt}, t.entries...)
	t.firstUnreturned++
}

// Remove deletes the entry for address, wherever it sits in the
// table, adjusting firstUnreturned if the removed entry was in the
// returned prefix.
func (t *Table) Remove(address uint64) bool {
	for i, e := range t.entries {
		if e.Address != address {
			continue
		}

		if i < t.firstUnreturned {
			t.firstUnreturned--
		}

		t.entries = append(t.entries[:i], t.entries[i+1:]...)

		return true
	}

	return false
}

// Reset empties the table.
func (t *Table) Reset() {
	t.entries = nil
	t.firstUnreturned = 0
}
