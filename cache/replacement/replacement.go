// Package replacement provides pluggable victim-selection policies for
// a cache's fill/eviction engine.
package replacement

import "github.com/sarchlab/cachecore/cache/internal/array"

// Policy decides which way within a set should be evicted to make
// room for a new fill, and is told when a way is accessed or filled so
// it can keep whatever bookkeeping it needs.
type Policy interface {
	// FindVictim returns the way to evict within set. It always
	// succeeds: an invalid way is preferred, but if every way is
	// valid, one is still chosen.
	FindVictim(a *array.Array, set int) int

	// Update is called whenever a way in set is touched, whether by a
	// hit or by a fresh fill, so recency-based policies can adjust
	// their ordering. cycle is used as the recency timestamp.
	Update(a *array.Array, set, way int, cycle uint64)
}

// LRU evicts the least recently used way, preferring an invalid way
// over evicting valid data.
type LRU struct{}

// NewLRU returns a least-recently-used Policy.
func NewLRU() *LRU {
	return &LRU{}
}

// FindVictim implements Policy.
func (LRU) FindVictim(a *array.Array, set int) int {
	victim := 0
	oldest := ^uint64(0)

	for way := 0; way < a.Ways(); way++ {
		b := a.Block(set, way)
		if !b.Valid {
			return way
		}

		if b.LRUStack < oldest {
			oldest = b.LRUStack
			victim = way
		}
	}

	return victim
}

// Update implements Policy.
func (LRU) Update(a *array.Array, set, way int, cycle uint64) {
	a.Block(set, way).LRUStack = cycle
}
