package cache

import (
	"github.com/sarchlab/cachecore/cache/prefetch"
	"github.com/sarchlab/cachecore/cache/replacement"
	"github.com/sarchlab/cachecore/cache/vmem"
	"github.com/sarchlab/cachecore/mem"
)

// Builder builds Comps with a fluent, value-receiver API: every
// With* call returns a modified copy, so a partially configured
// Builder can be reused as a template for several cache levels.
type Builder struct {
	cfg Config
}

// MakeBuilder creates a Builder with ChampSim's usual defaults.
func MakeBuilder() Builder {
	return Builder{cfg: Config{
		Sets:      64,
		Ways:      8,
		BlockSize: 64,
		RQSize:    16,
		WQSize:    16,
		PQSize:    16,
		IVQSize:   16,
		MSHRSize:  16,
		MaxRead:   1,
		MaxWrite:  1,
	}}
}

// WithName sets the name of the cache to build.
func (b Builder) WithName(name string) Builder {
	b.cfg.Name = name
	return b
}

// WithSetsAndWays sets the geometry of the cache to build.
func (b Builder) WithSetsAndWays(sets, ways int) Builder {
	b.cfg.Sets = sets
	b.cfg.Ways = ways
	return b
}

// WithBlockSize sets the block size, in bytes, of the cache to build.
func (b Builder) WithBlockSize(blockSize int) Builder {
	b.cfg.BlockSize = blockSize
	return b
}

// WithFillLevel sets the fill level the cache stamps onto packets it
// originates; smaller values are closer to the CPU.
func (b Builder) WithFillLevel(fillLevel int) Builder {
	b.cfg.FillLevel = fillLevel
	return b
}

// WithInclusionPolicy sets how the cache to build relates to the level
// above it.
func (b Builder) WithInclusionPolicy(policy mem.InclusionPolicy) Builder {
	b.cfg.Inclusion = policy
	return b
}

// WithQueueSizes sets the capacity of RQ, WQ, PQ and IVQ. VAPQ
// defaults to the PQ size unless WithVAPQSize overrides it.
func (b Builder) WithQueueSizes(rq, wq, pq, ivq int) Builder {
	b.cfg.RQSize, b.cfg.WQSize, b.cfg.PQSize, b.cfg.IVQSize = rq, wq, pq, ivq
	return b
}

// WithVAPQSize sets the capacity of the virtual-address prefetch
// queue, used by virtual prefetchers waiting on translation.
func (b Builder) WithVAPQSize(size int) Builder {
	b.cfg.VAPQSize = size
	return b
}

// WithQueueLatency sets the number of cycles an entry sits in a queue
// before it becomes visible to its pipeline.
func (b Builder) WithQueueLatency(latency uint64) Builder {
	b.cfg.QueueLatency = latency
	return b
}

// WithMSHRSize sets the capacity of the miss status handling register.
func (b Builder) WithMSHRSize(size int) Builder {
	b.cfg.MSHRSize = size
	return b
}

// WithBandwidth sets the per-cycle credits for reads (loads, RFOs and
// prefetches), writebacks, and fills.
func (b Builder) WithBandwidth(maxRead, maxWrite, maxFill int) Builder {
	b.cfg.MaxRead, b.cfg.MaxWrite, b.cfg.MaxFill = maxRead, maxWrite, maxFill
	return b
}

// WithReplacementPolicy sets the victim-selection policy.
func (b Builder) WithReplacementPolicy(policy replacement.Policy) Builder {
	b.cfg.Policy = policy
	return b
}

// WithPrefetcher sets the prefetcher.
func (b Builder) WithPrefetcher(p prefetch.Prefetcher) Builder {
	b.cfg.Prefetcher = p
	return b
}

// WithTranslator sets the virtual memory translator used for virtual
// prefetch address translation.
func (b Builder) WithTranslator(t vmem.Translator) Builder {
	b.cfg.Translator = t
	return b
}

// WithVirtualPrefetch enables address translation for prefetches
// before they are admitted to PQ.
func (b Builder) WithVirtualPrefetch(enabled bool) Builder {
	b.cfg.VirtualPrefetch = enabled
	return b
}

// WithLowerLevel sets the consumer this cache sends misses and
// writebacks to.
func (b Builder) WithLowerLevel(lower mem.Consumer) Builder {
	b.cfg.LowerLevel = lower
	return b
}

// WithWarmup starts the cache to build in warmup mode.
func (b Builder) WithWarmup(warmup bool) Builder {
	b.cfg.Warmup = warmup
	return b
}

// Build constructs the Comp.
func (b Builder) Build() *Comp {
	return NewComp(b.cfg)
}
