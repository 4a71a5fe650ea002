// Package prefetch provides the hook points a cache level calls into
// on every access and at the end of every cycle, and a couple of
// simple default implementations.
package prefetch

import "github.com/sarchlab/cachecore/mem"

// Prefetcher decides when and what to prefetch. A cache level calls
// CacheOperate after every demand access (hit or miss) and
// CycleOperate once per cycle regardless of access activity.
type Prefetcher interface {
	// CacheOperate is called with the address just accessed, whether
	// it hit, the type of access, and per-block metadata the
	// prefetcher previously attached (so it can detect prefetch-hits).
	// It returns the metadata to store back into the block.
	CacheOperate(address uint64, ip uint64, cacheHit bool, accessType mem.Type, metadataIn int) (metadataOut int)

	// CycleOperate is called once per cycle and lets a prefetcher
	// issue requests independent of demand traffic.
	CycleOperate()

	// FillCache is notified when a block is filled, with the address
	// of the block it replaced, so history-based prefetchers can update
	// their state.
	FillCache(address uint64, evictedAddress uint64, metadataIn int) (metadataOut int)
}

// None issues no prefetches.
type None struct{}

// NewNone returns a Prefetcher that never prefetches.
func NewNone() *None { return &None{} }

// CacheOperate implements Prefetcher.
func (*None) CacheOperate(uint64, uint64, bool, mem.Type, int) int { return 0 }

// CycleOperate implements Prefetcher.
func (*None) CycleOperate() {}

// FillCache implements Prefetcher.
func (*None) FillCache(uint64, uint64, int) int { return 0 }

// NextLine issues one prefetch for the line immediately following
// every demand miss.
type NextLine struct {
	blockSize uint64
	issue     func(address uint64, fillThisLevel bool)
}

// NewNextLine returns a Prefetcher that requests address+blockSize,
// via issue, on every miss that is not a writeback.
func NewNextLine(blockSize uint64, issue func(address uint64, fillThisLevel bool)) *NextLine {
	return &NextLine{blockSize: blockSize, issue: issue}
}

// CacheOperate implements Prefetcher.
func (p *NextLine) CacheOperate(address uint64, _ uint64, cacheHit bool, accessType mem.Type, metadataIn int) int {
	if !cacheHit && accessType != mem.TypeWriteback {
		p.issue(address+p.blockSize, true)
	}

	return metadataIn
}

// CycleOperate implements Prefetcher.
func (*NextLine) CycleOperate() {}

// FillCache implements Prefetcher.
func (*NextLine) FillCache(_ uint64, _ uint64, metadataIn int) int { return metadataIn }
