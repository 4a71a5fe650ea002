// Package cache implements one level of a set-associative, MSHR-backed
// cache: bounded admission queues, hit/miss pipelines, a fill and
// eviction engine, and the bookkeeping every inclusion policy needs
// from the levels around it.
package cache

import (
	"fmt"

	"github.com/sarchlab/cachecore/cache/internal/array"
	"github.com/sarchlab/cachecore/cache/internal/mshr"
	"github.com/sarchlab/cachecore/cache/prefetch"
	"github.com/sarchlab/cachecore/cache/replacement"
	"github.com/sarchlab/cachecore/cache/vmem"
	"github.com/sarchlab/cachecore/hooking"
	"github.com/sarchlab/cachecore/mem"
)

// Comp is one level of the cache hierarchy.
type Comp struct {
	hooking.HookableBase

	name string

	fillLevel     int
	blockSizeLog2 uint
	inclusion     mem.InclusionPolicy

	tags   *array.Array
	policy replacement.Policy
	mshr   *mshr.Table

	rq   *queue
	wq   *queue
	pq   *queue
	ivq  *queue
	vapq *queue

	maxRead  int
	maxWrite int
	maxFill  int

	prefetcher      prefetch.Prefetcher
	translator      vmem.Translator
	virtualPrefetch bool
	prefetchAsLoad  bool

	lowerLevel  mem.Consumer
	upperLevels []UpperLevel

	warmup bool

	// sendWBValid and sendInvValid record, per pending eviction,
	// whether the writeback to the lower level and each upstream
	// invalidate still need to be (re)sent. A stall leaves these set
	// so the fill/eviction engine picks up exactly where it left off
	// instead of resending completed sub-steps.
	sendWBValid   bool
	sendInvValid  []bool
	pendingVictim *array.Block

	// ivqWBValid and ivqFwdValid track, for the packet currently at the
	// front of IVQ, whether its own writeback and each upper level's
	// forwarded invalidate still need to be (re)sent. Reset whenever a
	// new packet reaches the front, so a stall partway through
	// forwarding does not resend to an upper level that already
	// accepted it.
	ivqWBValid  bool
	ivqFwdValid []bool
	ivqActive   *mem.Packet

	flushed  bool
	draining bool

	cycle uint64

	stats Stats
}

// Config configures a Comp. Every field has a documented ChampSim-
// equivalent default applied by NewComp when left zero.
type Config struct {
	Name string

	Sets int
	Ways int
	// BlockSize must be a power of two.
	BlockSize int

	FillLevel int
	Inclusion mem.InclusionPolicy

	RQSize, WQSize, PQSize, IVQSize, VAPQSize int
	QueueLatency                              uint64

	MSHRSize int

	MaxRead, MaxWrite, MaxFill int

	Policy     replacement.Policy
	Prefetcher prefetch.Prefetcher
	Translator vmem.Translator

	VirtualPrefetch bool
	PrefetchAsLoad  bool

	LowerLevel mem.Consumer

	Warmup bool
}

// NewComp builds a Comp from cfg, applying ChampSim's usual defaults
// for any field left unset.
func NewComp(cfg Config) *Comp {
	if cfg.Sets == 0 {
		cfg.Sets = 64
	}

	if cfg.Ways == 0 {
		cfg.Ways = 8
	}

	if cfg.BlockSize == 0 {
		cfg.BlockSize = 64
	}

	if cfg.RQSize == 0 {
		cfg.RQSize = 16
	}

	if cfg.WQSize == 0 {
		cfg.WQSize = 16
	}

	if cfg.PQSize == 0 {
		cfg.PQSize = 16
	}

	if cfg.IVQSize == 0 {
		cfg.IVQSize = 16
	}

	if cfg.VAPQSize == 0 {
		cfg.VAPQSize = cfg.PQSize
	}

	if cfg.MSHRSize == 0 {
		cfg.MSHRSize = 16
	}

	if cfg.MaxRead == 0 {
		cfg.MaxRead = 1
	}

	if cfg.MaxWrite == 0 {
		cfg.MaxWrite = 1
	}

	if cfg.MaxFill == 0 {
		cfg.MaxFill = cfg.MaxRead
	}

	if cfg.Policy == nil {
		cfg.Policy = replacement.NewLRU()
	}

	if cfg.Prefetcher == nil {
		cfg.Prefetcher = prefetch.NewNone()
	}

	if cfg.Translator == nil {
		cfg.Translator = vmem.NewIdentity()
	}

	blockSizeLog2 := uint(0)
	for (1 << blockSizeLog2) < cfg.BlockSize {
		blockSizeLog2++
	}

	c := &Comp{
		name:            cfg.Name,
		fillLevel:       cfg.FillLevel,
		blockSizeLog2:   blockSizeLog2,
		inclusion:       cfg.Inclusion,
		tags:            array.New(cfg.Sets, cfg.Ways),
		policy:          cfg.Policy,
		mshr:            mshr.New(cfg.MSHRSize),
		rq:              newQueue("RQ", cfg.RQSize, cfg.QueueLatency),
		wq:              newQueue("WQ", cfg.WQSize, cfg.QueueLatency),
		pq:              newQueue("PQ", cfg.PQSize, cfg.QueueLatency),
		ivq:             newQueue("IVQ", cfg.IVQSize, cfg.QueueLatency),
		vapq:            newQueue("VAPQ", cfg.VAPQSize, 0),
		maxRead:         cfg.MaxRead,
		maxWrite:        cfg.MaxWrite,
		maxFill:         cfg.MaxFill,
		prefetcher:      cfg.Prefetcher,
		translator:      cfg.Translator,
		virtualPrefetch: cfg.VirtualPrefetch,
		prefetchAsLoad:  cfg.PrefetchAsLoad,
		lowerLevel:      cfg.LowerLevel,
		warmup:          cfg.Warmup,
	}

	return c
}

// Name implements topology.Component.
func (c *Comp) Name() string {
	return c.name
}

// SetLowerLevel implements topology.UpperLevel.
func (c *Comp) SetLowerLevel(lower mem.Consumer) {
	c.lowerLevel = lower
}

// UpperLevel is an upper cache level: something that can both receive
// completed requests back and be told to drop a block it might be
// holding.
type UpperLevel interface {
	mem.Requester
	mem.Consumer
}

// AddUpperLevel registers upper as an origin of traffic into this
// cache, so filled/returned data and upstream invalidates know where
// to go.
func (c *Comp) AddUpperLevel(upper UpperLevel) {
	c.upperLevels = append(c.upperLevels, upper)
}

// Stats returns a snapshot of this level's counters.
func (c *Comp) Stats() Stats {
	return c.stats
}

// SetWarmup toggles warmup mode: accesses still populate the tag array
// and satisfy dependents, but are left out of the Access, Hit, Miss and
// TotalMissLatency counters so a hierarchy can be warmed before a
// measured run begins.
func (c *Comp) SetWarmup(warmup bool) {
	c.warmup = warmup
}

func (c *Comp) blockSize() uint64 {
	return uint64(1) << c.blockSizeLog2
}

func (c *Comp) blockAddress(address uint64) uint64 {
	return (address >> c.blockSizeLog2) << c.blockSizeLog2
}

// DumpDeadlock implements topology.DeadlockDumper.
func (c *Comp) DumpDeadlock() string {
	return fmt.Sprintf(
		"%s: cycle=%d RQ=%d/%d WQ=%d/%d PQ=%d/%d IVQ=%d/%d MSHR=%d/%d",
		c.name, c.cycle,
		c.rq.Occupancy(), c.rq.Capacity(),
		c.wq.Occupancy(), c.wq.Capacity(),
		c.pq.Occupancy(), c.pq.Capacity(),
		c.ivq.Occupancy(), c.ivq.Capacity(),
		c.mshr.Occupancy(), c.mshr.Capacity(),
	)
}
