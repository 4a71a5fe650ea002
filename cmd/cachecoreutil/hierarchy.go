package cachecoreutil

import (
	"fmt"

	"github.com/sarchlab/cachecore/cache"
	"github.com/sarchlab/cachecore/config"
	"github.com/sarchlab/cachecore/mem"
	"github.com/sarchlab/cachecore/topology"
)

// buildHierarchy wires one cache.Comp per level named in h, from the
// CPU-facing level down to a fixed-latency backing store, and
// registers every component with a fresh Driver in tick order.
func buildHierarchy(h config.Hierarchy) (*topology.Driver, []*cache.Comp, *mem.Comp) {
	driver := topology.NewDriver()
	backing := mem.NewComp(mem.Config{Name: "DRAM", Latency: h.MemoryLatency})

	levels := make([]*cache.Comp, len(h.Levels))

	var lower mem.Consumer = backing
	for i := len(h.Levels) - 1; i >= 0; i-- {
		lv := h.Levels[i]

		c := cache.MakeBuilder().
			WithName(lv.Name).
			WithSetsAndWays(lv.Sets, lv.Ways).
			WithBlockSize(lv.BlockSize).
			WithFillLevel(1 << i).
			WithInclusionPolicy(inclusionFromString(lv.Inclusion)).
			WithQueueSizes(lv.RQSize, lv.WQSize, lv.PQSize, lv.IVQSize).
			WithMSHRSize(lv.MSHRSize).
			WithBandwidth(lv.MaxRead, lv.MaxWrite, lv.MaxFill).
			WithLowerLevel(lower).
			Build()

		if lowerCache, ok := lower.(*cache.Comp); ok {
			lowerCache.AddUpperLevel(c)
		}

		levels[i] = c
		lower = c
	}

	driver.Register(backing)

	for i := len(levels) - 1; i >= 0; i-- {
		driver.Register(levels[i])
	}

	return driver, levels, backing
}

func inclusionFromString(s string) mem.InclusionPolicy {
	switch s {
	case "exclusive":
		return mem.Exclusive
	case "nine":
		return mem.NINE
	case "not_cache":
		return mem.NotCache
	default:
		return mem.Inclusive
	}
}

func printStats(levels []*cache.Comp) {
	for _, l := range levels {
		s := l.Stats()
		fmt.Printf("%s: load access=%d hit=%d miss=%d\n",
			l.Name(), s.Access[mem.TypeLoad], s.Hit[mem.TypeLoad], s.Miss[mem.TypeLoad])
	}
}
